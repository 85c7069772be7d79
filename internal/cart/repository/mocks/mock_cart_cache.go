package mocks

import (
	"context"

	"github.com/ridloal/e-commerce-go-storefront/internal/cart/domain"
	"github.com/stretchr/testify/mock"
)

type MockCartCache struct {
	mock.Mock
}

func (m *MockCartCache) Load(ctx context.Context) ([]domain.CartLine, error) {
	args := m.Called(ctx)
	if res := args.Get(0); res != nil {
		return res.([]domain.CartLine), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCartCache) Save(ctx context.Context, lines []domain.CartLine) error {
	args := m.Called(ctx, lines)
	return args.Error(0)
}
