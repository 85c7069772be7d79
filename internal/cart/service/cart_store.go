package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/ridloal/e-commerce-go-storefront/internal/cart/domain"
	"github.com/ridloal/e-commerce-go-storefront/internal/cart/repository"
	"github.com/ridloal/e-commerce-go-storefront/internal/platform/apiclient"
	"github.com/ridloal/e-commerce-go-storefront/internal/platform/logger"
	"github.com/ridloal/e-commerce-go-storefront/internal/platform/status"
)

const (
	msgAddFailed    = "Failed to add item to cart"
	msgUpdateFailed = "Failed to update cart"
	msgRemoveFailed = "Failed to remove item"
	msgClearFailed  = "Failed to clear cart"
)

// Store keeps the client's view of the server cart. Every mutation is sent
// to the server first and followed by exactly one re-fetch of the cart,
// whatever the outcome; the local list is never edited optimistically.
type Store struct {
	client CartClient
	cache  repository.CartCache
	status *status.Shared

	mu    sync.RWMutex
	items []domain.CartLine
	total decimal.Decimal
}

func NewStore(client CartClient, cache repository.CartCache, shared *status.Shared) *Store {
	return &Store{
		client: client,
		cache:  cache,
		status: shared,
		items:  []domain.CartLine{},
		total:  decimal.Zero,
	}
}

// LoadCached seeds the items from the persisted snapshot, used for the first
// paint before the server answers.
func (s *Store) LoadCached(ctx context.Context) {
	lines, err := s.cache.Load(ctx)
	if err != nil {
		if !errors.Is(err, repository.ErrCacheMiss) {
			logger.Warn("CartStore.LoadCached: cached cart unreadable: %v", err)
		}
		return
	}
	s.setItems(lines)
}

// FetchCartItems replaces the items with the server cart. Failures are
// silent: the items fall back to the cached snapshot, or to an empty cart.
func (s *Store) FetchCartItems(ctx context.Context) []domain.CartLine {
	lines, err := s.client.ListItems(ctx)
	if err != nil {
		logger.Error("CartStore.FetchCartItems: fetching cart failed, using cached copy", err)
		cached, cerr := s.cache.Load(ctx)
		if cerr != nil {
			if !errors.Is(cerr, repository.ErrCacheMiss) {
				logger.Warn("CartStore.FetchCartItems: cached cart unreadable: %v", cerr)
			}
			cached = []domain.CartLine{}
		}
		s.setItems(cached)
		return s.Items()
	}

	s.setItems(lines)
	if err := s.cache.Save(ctx, lines); err != nil {
		logger.Warn("CartStore.FetchCartItems: saving cart snapshot failed: %v", err)
	}
	return s.Items()
}

// AddToCart treats a non-positive quantity as 1.
func (s *Store) AddToCart(ctx context.Context, productID, quantity int) domain.Result {
	if quantity <= 0 {
		quantity = 1
	}
	data, err := s.client.AddItem(ctx, productID, quantity)
	return s.settle(ctx, "AddToCart", data, err, msgAddFailed)
}

// UpdateCartQuantity does not validate quantity; callers do.
func (s *Store) UpdateCartQuantity(ctx context.Context, lineID, quantity int) domain.Result {
	data, err := s.client.UpdateItem(ctx, lineID, quantity)
	return s.settle(ctx, "UpdateCartQuantity", data, err, msgUpdateFailed)
}

func (s *Store) RemoveFromCart(ctx context.Context, lineID int) domain.Result {
	data, err := s.client.RemoveItem(ctx, lineID)
	return s.settle(ctx, "RemoveFromCart", data, err, msgRemoveFailed)
}

func (s *Store) ClearCart(ctx context.Context) domain.Result {
	data, err := s.client.Clear(ctx)
	return s.settle(ctx, "ClearCart", data, err, msgClearFailed)
}

// GetCartTotal asks the server for the total. Any failure yields zero.
func (s *Store) GetCartTotal(ctx context.Context) decimal.Decimal {
	total, err := s.client.Total(ctx)
	if err != nil {
		logger.Error("CartStore.GetCartTotal: fetching total failed", err)
		total = decimal.Zero
	}
	s.mu.Lock()
	s.total = total
	s.mu.Unlock()
	return total
}

// Items returns a copy of the current cart lines.
func (s *Store) Items() []domain.CartLine {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.CartLine, len(s.items))
	copy(out, s.items)
	return out
}

// Total is the last total reported by the server.
func (s *Store) Total() decimal.Decimal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.total
}

// LocalTotal sums the current lines without asking the server.
func (s *Store) LocalTotal() decimal.Decimal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.Total(s.items)
}

func (s *Store) settle(ctx context.Context, op string, data json.RawMessage, err error, fallback string) domain.Result {
	var result domain.Result
	if err != nil {
		msg := failureMessage(err, fallback)
		logger.Error("CartStore.%s: failed", err, op)
		s.status.SetError(msg)
		result = domain.Result{Success: false, Error: msg}
	} else {
		result = domain.Result{Success: true, Data: data}
	}
	s.FetchCartItems(ctx)
	return result
}

func failureMessage(err error, fallback string) string {
	var re *RejectedError
	if errors.As(err, &re) {
		if re.Message != "" {
			return re.Message
		}
		return fallback
	}
	return apiclient.FailureMessage(nil, err, fallback)
}

func (s *Store) setItems(lines []domain.CartLine) {
	if lines == nil {
		lines = []domain.CartLine{}
	}
	s.mu.Lock()
	s.items = lines
	s.mu.Unlock()
}
