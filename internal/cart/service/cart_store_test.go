package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/ridloal/e-commerce-go-storefront/internal/cart/domain"
	"github.com/ridloal/e-commerce-go-storefront/internal/cart/repository"
	cacheMocks "github.com/ridloal/e-commerce-go-storefront/internal/cart/repository/mocks"
	"github.com/ridloal/e-commerce-go-storefront/internal/cart/service/mocks"
	catalogDomain "github.com/ridloal/e-commerce-go-storefront/internal/catalog/domain"
	"github.com/ridloal/e-commerce-go-storefront/internal/platform/apiclient"
	"github.com/ridloal/e-commerce-go-storefront/internal/platform/status"
)

var phone = catalogDomain.Product{ID: 7, Name: "Phone", Price: decimal.NewFromInt(20000), Quantity: 5, Available: true}

func lines(qty int) []domain.CartLine {
	return []domain.CartLine{{ID: 1, Product: phone, Quantity: qty}}
}

func newStore() (*Store, *mocks.MockCartClient, *cacheMocks.MockCartCache, *status.Shared) {
	client := new(mocks.MockCartClient)
	cache := new(cacheMocks.MockCartCache)
	shared := status.New()
	return NewStore(client, cache, shared), client, cache, shared
}

func TestCartStore_FetchCartItems(t *testing.T) {
	ctx := context.TODO()

	t.Run("Success replaces items and saves snapshot", func(t *testing.T) {
		store, client, cache, _ := newStore()
		client.On("ListItems", ctx).Return(lines(2), nil).Once()
		cache.On("Save", ctx, lines(2)).Return(nil).Once()

		got := store.FetchCartItems(ctx)

		assert.Equal(t, lines(2), got)
		assert.Equal(t, lines(2), store.Items())
		client.AssertExpectations(t)
		cache.AssertExpectations(t)
	})

	t.Run("Failure falls back to cached snapshot without setting error", func(t *testing.T) {
		store, client, cache, shared := newStore()
		client.On("ListItems", ctx).Return(nil, errors.New("timeout")).Once()
		cache.On("Load", ctx).Return(lines(4), nil).Once()

		got := store.FetchCartItems(ctx)

		assert.Equal(t, lines(4), got)
		assert.Empty(t, shared.Error())
		cache.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("Failure without cache yields empty cart", func(t *testing.T) {
		store, client, cache, _ := newStore()
		client.On("ListItems", ctx).Return(nil, &RejectedError{Op: "ListItems", StatusCode: 404}).Once()
		cache.On("Load", ctx).Return(nil, repository.ErrCacheMiss).Once()

		got := store.FetchCartItems(ctx)

		assert.NotNil(t, got)
		assert.Empty(t, got)
	})

	t.Run("Snapshot save failure is not fatal", func(t *testing.T) {
		store, client, cache, _ := newStore()
		client.On("ListItems", ctx).Return(lines(1), nil).Once()
		cache.On("Save", ctx, lines(1)).Return(errors.New("disk full")).Once()

		assert.Equal(t, lines(1), store.FetchCartItems(ctx))
	})
}

func TestCartStore_LoadCached(t *testing.T) {
	ctx := context.TODO()
	store, _, cache, _ := newStore()
	cache.On("Load", ctx).Return(lines(3), nil).Once()

	store.LoadCached(ctx)

	assert.Equal(t, lines(3), store.Items())
	assert.True(t, store.LocalTotal().Equal(decimal.NewFromInt(60000)))
}

func TestCartStore_AddToCart(t *testing.T) {
	ctx := context.TODO()

	t.Run("Success resyncs once and reports data", func(t *testing.T) {
		store, client, cache, _ := newStore()
		client.On("AddItem", ctx, 7, 3).Return(json.RawMessage(`{"id":1}`), nil).Once()
		client.On("ListItems", ctx).Return(lines(3), nil).Once()
		cache.On("Save", ctx, mock.Anything).Return(nil).Once()

		res := store.AddToCart(ctx, 7, 3)

		assert.True(t, res.Success)
		assert.JSONEq(t, `{"id":1}`, string(res.Data))
		assert.Equal(t, lines(3), store.Items())
		assert.True(t, store.LocalTotal().Equal(decimal.NewFromInt(60000)))
		client.AssertNumberOfCalls(t, "ListItems", 1)
	})

	t.Run("Non-positive quantity becomes one", func(t *testing.T) {
		store, client, cache, _ := newStore()
		client.On("AddItem", ctx, 7, 1).Return(nil, nil).Twice()
		client.On("ListItems", ctx).Return(lines(1), nil)
		cache.On("Save", ctx, mock.Anything).Return(nil)

		assert.True(t, store.AddToCart(ctx, 7, 0).Success)
		assert.True(t, store.AddToCart(ctx, 7, -4).Success)
		client.AssertExpectations(t)
	})

	t.Run("Rejection uses server message and still resyncs", func(t *testing.T) {
		store, client, cache, shared := newStore()
		client.On("AddItem", ctx, 7, 9).Return(nil, &RejectedError{Op: "AddItem", StatusCode: 400, Message: "Insufficient stock"}).Once()
		client.On("ListItems", ctx).Return(lines(1), nil).Once()
		cache.On("Save", ctx, mock.Anything).Return(nil).Once()

		res := store.AddToCart(ctx, 7, 9)

		assert.False(t, res.Success)
		assert.Equal(t, "Insufficient stock", res.Error)
		assert.Equal(t, "Insufficient stock", shared.Error())
		client.AssertNumberOfCalls(t, "ListItems", 1)
	})

	t.Run("Rejection without payload uses fallback", func(t *testing.T) {
		store, client, cache, _ := newStore()
		client.On("AddItem", ctx, 7, 1).Return(nil, &RejectedError{Op: "AddItem", StatusCode: 404}).Once()
		client.On("ListItems", ctx).Return(lines(1), nil).Once()
		cache.On("Save", ctx, mock.Anything).Return(nil).Once()

		assert.Equal(t, "Failed to add item to cart", store.AddToCart(ctx, 7, 1).Error)
	})

	t.Run("Server error payload is surfaced", func(t *testing.T) {
		store, client, cache, _ := newStore()
		serverErr := &apiclient.StatusError{Method: "POST", Path: "/cart", Response: &apiclient.Response{StatusCode: 500, Body: []byte(`{"error":"db down"}`)}}
		client.On("AddItem", ctx, 7, 1).Return(nil, serverErr).Once()
		client.On("ListItems", ctx).Return(lines(1), nil).Once()
		cache.On("Save", ctx, mock.Anything).Return(nil).Once()

		assert.Equal(t, "db down", store.AddToCart(ctx, 7, 1).Error)
	})
}

func TestCartStore_OtherMutations(t *testing.T) {
	ctx := context.TODO()
	failure := errors.New("connection refused")

	testCases := []struct {
		name     string
		setup    func(c *mocks.MockCartClient, err error)
		call     func(s *Store) domain.Result
		fallback string
	}{
		{
			name:     "UpdateCartQuantity",
			setup:    func(c *mocks.MockCartClient, err error) { c.On("UpdateItem", ctx, 1, 5).Return(nil, err).Once() },
			call:     func(s *Store) domain.Result { return s.UpdateCartQuantity(ctx, 1, 5) },
			fallback: "Failed to update cart",
		},
		{
			name:     "RemoveFromCart",
			setup:    func(c *mocks.MockCartClient, err error) { c.On("RemoveItem", ctx, 1).Return(nil, err).Once() },
			call:     func(s *Store) domain.Result { return s.RemoveFromCart(ctx, 1) },
			fallback: "Failed to remove item",
		},
		{
			name:     "ClearCart",
			setup:    func(c *mocks.MockCartClient, err error) { c.On("Clear", ctx).Return(nil, err).Once() },
			call:     func(s *Store) domain.Result { return s.ClearCart(ctx) },
			fallback: "Failed to clear cart",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name+" success", func(t *testing.T) {
			store, client, cache, shared := newStore()
			tc.setup(client, nil)
			client.On("ListItems", ctx).Return([]domain.CartLine{}, nil).Once()
			cache.On("Save", ctx, mock.Anything).Return(nil).Once()

			res := tc.call(store)

			assert.True(t, res.Success)
			assert.Empty(t, shared.Error())
			client.AssertNumberOfCalls(t, "ListItems", 1)
			client.AssertExpectations(t)
		})

		t.Run(tc.name+" transport failure", func(t *testing.T) {
			store, client, cache, shared := newStore()
			tc.setup(client, failure)
			client.On("ListItems", ctx).Return(nil, failure).Once()
			cache.On("Load", ctx).Return(nil, repository.ErrCacheMiss).Once()

			res := tc.call(store)

			assert.False(t, res.Success)
			assert.Equal(t, tc.fallback, res.Error)
			assert.Equal(t, tc.fallback, shared.Error())
			client.AssertNumberOfCalls(t, "ListItems", 1)
		})
	}
}

func TestCartStore_GetCartTotal(t *testing.T) {
	ctx := context.TODO()

	t.Run("Success", func(t *testing.T) {
		store, client, _, _ := newStore()
		client.On("Total", ctx).Return(decimal.NewFromInt(60000), nil).Once()

		assert.True(t, store.GetCartTotal(ctx).Equal(decimal.NewFromInt(60000)))
		assert.True(t, store.Total().Equal(decimal.NewFromInt(60000)))
	})

	t.Run("Failure yields zero", func(t *testing.T) {
		store, client, _, _ := newStore()
		client.On("Total", ctx).Return(decimal.Zero, errors.New("boom")).Once()

		assert.True(t, store.GetCartTotal(ctx).IsZero())
		assert.True(t, store.Total().IsZero())
	})
}
