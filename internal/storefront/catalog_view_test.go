package storefront

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	cartDomain "github.com/ridloal/e-commerce-go-storefront/internal/cart/domain"
	catalogDomain "github.com/ridloal/e-commerce-go-storefront/internal/catalog/domain"
	catalogService "github.com/ridloal/e-commerce-go-storefront/internal/catalog/service"
	"github.com/ridloal/e-commerce-go-storefront/internal/platform/status"
	"github.com/ridloal/e-commerce-go-storefront/internal/storefront/mocks"
)

var products = []catalogDomain.Product{
	{ID: 1, Name: "Phone", Category: "Mobile", Price: decimal.NewFromInt(20000), Quantity: 5, Available: true},
	{ID: 2, Name: "Radio", Category: "Audio", Price: decimal.NewFromInt(1500), Quantity: 0, Available: true},
	{ID: 3, Name: "Tablet", Category: "Mobile", Price: decimal.NewFromInt(30000), Quantity: 4, Available: false},
}

func newTestState() (*AppState, *mocks.MockCatalogStore, *mocks.MockCartStore) {
	catalog := new(mocks.MockCatalogStore)
	cart := new(mocks.MockCartStore)
	theme := new(mocks.MockThemeStore)
	return NewAppState(catalog, cart, theme, status.New()), catalog, cart
}

func TestQuery_Path(t *testing.T) {
	assert.Equal(t, "/", Query{}.Path())
	assert.Equal(t, "/", Query{Search: "   "}.Path())
	assert.Equal(t, "/?search=smart+phone", Query{Search: "smart phone"}.Path())
	assert.Equal(t, "/?category=Mobile", Query{Category: "Mobile"}.Path())
	assert.Equal(t, "/?search=phone", Query{Search: "phone", Category: "Mobile"}.Path())
}

func TestCatalogView_Page(t *testing.T) {
	ctx := context.TODO()

	t.Run("No filter shows full collection", func(t *testing.T) {
		state, catalog, _ := newTestState()
		view := NewCatalogView(state)
		catalog.On("Products").Return(products).Once()

		page := view.Page(ctx, Query{})

		assert.Equal(t, "/", page.Path)
		assert.Equal(t, products, page.Products)
		catalog.AssertExpectations(t)
	})

	t.Run("Search wins over category", func(t *testing.T) {
		state, catalog, _ := newTestState()
		view := NewCatalogView(state)
		catalog.On("Search", ctx, "phone").Return(products[:1]).Once()

		page := view.Page(ctx, Query{Search: " phone ", Category: "Audio"})

		assert.Equal(t, Query{Search: "phone"}, page.Query)
		assert.Equal(t, products[:1], page.Products)
		catalog.AssertNotCalled(t, "FilterByCategory", mock.Anything)
	})

	t.Run("Category filter", func(t *testing.T) {
		state, catalog, _ := newTestState()
		view := NewCatalogView(state)
		catalog.On("FilterByCategory", "Audio").Return([]catalogDomain.Product{products[1]}).Once()

		page := view.Page(ctx, Query{Category: "Audio"})

		assert.Equal(t, "/?category=Audio", page.Path)
		assert.Len(t, page.Products, 1)
	})

	t.Run("Shared error blocks the grid", func(t *testing.T) {
		state, catalog, _ := newTestState()
		view := NewCatalogView(state)
		state.Status.SetError("Unexpected status code: 404")
		state.Status.SetLoading(true)

		page := view.Page(ctx, Query{Category: "Mobile"})

		assert.Equal(t, "Unexpected status code: 404", page.Error)
		assert.True(t, page.Blocked)
		assert.True(t, page.Loading)
		assert.Equal(t, "/?category=Mobile", page.Path)
		assert.NotNil(t, page.Products)
		assert.Empty(t, page.Products)
		catalog.AssertNotCalled(t, "Products")
		catalog.AssertNotCalled(t, "FilterByCategory", mock.Anything)
	})

	t.Run("Empty collection renders an empty grid", func(t *testing.T) {
		state, catalog, _ := newTestState()
		view := NewCatalogView(state)
		catalog.On("Products").Return(nil).Once()

		page := view.Page(ctx, Query{})

		assert.False(t, page.Blocked)
		assert.NotNil(t, page.Products)
		assert.Empty(t, page.Products)
	})
}

func TestCatalogView_AddToCart(t *testing.T) {
	ctx := context.TODO()

	t.Run("Success adds one unit", func(t *testing.T) {
		state, catalog, cart := newTestState()
		view := NewCatalogView(state)
		catalog.On("Products").Return(products).Once()
		cart.On("AddToCart", ctx, 1, 1).Return(cartDomain.Result{Success: true}).Once()

		msg, err := view.AddToCart(ctx, 1)

		require.NoError(t, err)
		assert.Equal(t, "Product added to cart successfully!", msg)
		cart.AssertExpectations(t)
	})

	t.Run("Out of stock is refused without a request", func(t *testing.T) {
		state, catalog, cart := newTestState()
		view := NewCatalogView(state)
		catalog.On("Products").Return(products).Once()

		_, err := view.AddToCart(ctx, 2)

		assert.ErrorIs(t, err, ErrOutOfStock)
		assert.Equal(t, "Product is out of stock", err.Error())
		cart.AssertNotCalled(t, "AddToCart", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Unavailable is refused without a request", func(t *testing.T) {
		state, catalog, cart := newTestState()
		view := NewCatalogView(state)
		catalog.On("Products").Return(products).Once()

		_, err := view.AddToCart(ctx, 3)

		assert.ErrorIs(t, err, ErrProductUnavailable)
		assert.True(t, IsValidation(err))
		cart.AssertNotCalled(t, "AddToCart", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Unknown product is looked up remotely", func(t *testing.T) {
		state, catalog, _ := newTestState()
		view := NewCatalogView(state)
		catalog.On("Products").Return(products).Once()
		catalog.On("GetProduct", ctx, 99).Return(nil, catalogService.ErrProductNotFound).Once()

		_, err := view.AddToCart(ctx, 99)

		assert.True(t, IsNotFound(err))
		assert.False(t, IsValidation(err))
	})

	t.Run("Store failure becomes a remote error", func(t *testing.T) {
		state, catalog, cart := newTestState()
		view := NewCatalogView(state)
		catalog.On("Products").Return(products).Once()
		cart.On("AddToCart", ctx, 1, 1).Return(cartDomain.Result{Error: "Insufficient stock"}).Once()

		_, err := view.AddToCart(ctx, 1)

		var re *RemoteError
		require.True(t, errors.As(err, &re))
		assert.Equal(t, "Insufficient stock", re.Message)
	})
}
