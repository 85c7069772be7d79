package mocks

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	cartDomain "github.com/ridloal/e-commerce-go-storefront/internal/cart/domain"
	catalogDomain "github.com/ridloal/e-commerce-go-storefront/internal/catalog/domain"
)

type MockCatalogStore struct {
	mock.Mock
}

func (m *MockCatalogStore) Refresh(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockCatalogStore) Products() []catalogDomain.Product {
	args := m.Called()
	if res := args.Get(0); res != nil {
		return res.([]catalogDomain.Product)
	}
	return nil
}

func (m *MockCatalogStore) Search(ctx context.Context, keyword string) []catalogDomain.Product {
	args := m.Called(ctx, keyword)
	if res := args.Get(0); res != nil {
		return res.([]catalogDomain.Product)
	}
	return nil
}

func (m *MockCatalogStore) FilterByCategory(category string) []catalogDomain.Product {
	args := m.Called(category)
	if res := args.Get(0); res != nil {
		return res.([]catalogDomain.Product)
	}
	return nil
}

func (m *MockCatalogStore) GetProduct(ctx context.Context, id int) (*catalogDomain.Product, error) {
	args := m.Called(ctx, id)
	if res := args.Get(0); res != nil {
		return res.(*catalogDomain.Product), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCatalogStore) UpdateProduct(ctx context.Context, id int, draft catalogDomain.ProductDraft, image *catalogDomain.ImageUpload) (*catalogDomain.Product, error) {
	args := m.Called(ctx, id, draft, image)
	if res := args.Get(0); res != nil {
		return res.(*catalogDomain.Product), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCatalogStore) DeleteProduct(ctx context.Context, id int) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCatalogStore) FetchImage(ctx context.Context, productID int) catalogDomain.Image {
	args := m.Called(ctx, productID)
	return args.Get(0).(catalogDomain.Image)
}

func (m *MockCatalogStore) FetchImages(ctx context.Context, productIDs []int) map[int]catalogDomain.Image {
	args := m.Called(ctx, productIDs)
	if res := args.Get(0); res != nil {
		return res.(map[int]catalogDomain.Image)
	}
	return nil
}

type MockCartStore struct {
	mock.Mock
}

func (m *MockCartStore) LoadCached(ctx context.Context) {
	m.Called(ctx)
}

func (m *MockCartStore) FetchCartItems(ctx context.Context) []cartDomain.CartLine {
	args := m.Called(ctx)
	if res := args.Get(0); res != nil {
		return res.([]cartDomain.CartLine)
	}
	return nil
}

func (m *MockCartStore) AddToCart(ctx context.Context, productID, quantity int) cartDomain.Result {
	args := m.Called(ctx, productID, quantity)
	return args.Get(0).(cartDomain.Result)
}

func (m *MockCartStore) UpdateCartQuantity(ctx context.Context, lineID, quantity int) cartDomain.Result {
	args := m.Called(ctx, lineID, quantity)
	return args.Get(0).(cartDomain.Result)
}

func (m *MockCartStore) RemoveFromCart(ctx context.Context, lineID int) cartDomain.Result {
	args := m.Called(ctx, lineID)
	return args.Get(0).(cartDomain.Result)
}

func (m *MockCartStore) ClearCart(ctx context.Context) cartDomain.Result {
	args := m.Called(ctx)
	return args.Get(0).(cartDomain.Result)
}

func (m *MockCartStore) GetCartTotal(ctx context.Context) decimal.Decimal {
	args := m.Called(ctx)
	return args.Get(0).(decimal.Decimal)
}

func (m *MockCartStore) Items() []cartDomain.CartLine {
	args := m.Called()
	if res := args.Get(0); res != nil {
		return res.([]cartDomain.CartLine)
	}
	return nil
}

func (m *MockCartStore) Total() decimal.Decimal {
	args := m.Called()
	return args.Get(0).(decimal.Decimal)
}

func (m *MockCartStore) LocalTotal() decimal.Decimal {
	args := m.Called()
	return args.Get(0).(decimal.Decimal)
}

type MockThemeStore struct {
	mock.Mock
}

func (m *MockThemeStore) Get(ctx context.Context) string {
	args := m.Called(ctx)
	return args.String(0)
}

func (m *MockThemeStore) Toggle(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}
