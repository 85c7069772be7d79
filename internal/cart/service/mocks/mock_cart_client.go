package mocks

import (
	"context"
	"encoding/json"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/ridloal/e-commerce-go-storefront/internal/cart/domain"
)

type MockCartClient struct {
	mock.Mock
}

func (m *MockCartClient) ListItems(ctx context.Context) ([]domain.CartLine, error) {
	args := m.Called(ctx)
	if res := args.Get(0); res != nil {
		return res.([]domain.CartLine), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCartClient) AddItem(ctx context.Context, productID, quantity int) (json.RawMessage, error) {
	args := m.Called(ctx, productID, quantity)
	return raw(args.Get(0)), args.Error(1)
}

func (m *MockCartClient) UpdateItem(ctx context.Context, lineID, quantity int) (json.RawMessage, error) {
	args := m.Called(ctx, lineID, quantity)
	return raw(args.Get(0)), args.Error(1)
}

func (m *MockCartClient) RemoveItem(ctx context.Context, lineID int) (json.RawMessage, error) {
	args := m.Called(ctx, lineID)
	return raw(args.Get(0)), args.Error(1)
}

func (m *MockCartClient) Clear(ctx context.Context) (json.RawMessage, error) {
	args := m.Called(ctx)
	return raw(args.Get(0)), args.Error(1)
}

func (m *MockCartClient) Total(ctx context.Context) (decimal.Decimal, error) {
	args := m.Called(ctx)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func raw(v interface{}) json.RawMessage {
	if v == nil {
		return nil
	}
	return v.(json.RawMessage)
}
