package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ridloal/e-commerce-go-storefront/internal/cart/domain"
	"github.com/ridloal/e-commerce-go-storefront/internal/localstate"
)

var ErrCacheMiss = errors.New("cart cache miss")

// CartCache keeps the last cart snapshot fetched successfully from the server.
type CartCache interface {
	Load(ctx context.Context) ([]domain.CartLine, error)
	Save(ctx context.Context, lines []domain.CartLine) error
}

type localCartCache struct {
	store localstate.Store
}

func NewLocalCartCache(store localstate.Store) CartCache {
	return &localCartCache{store: store}
}

func (c *localCartCache) Load(ctx context.Context) ([]domain.CartLine, error) {
	raw, err := c.store.Get(ctx, localstate.KeyCart)
	if errors.Is(err, localstate.ErrNotFound) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, err
	}
	var lines []domain.CartLine
	if err := json.Unmarshal(raw, &lines); err != nil {
		return nil, fmt.Errorf("unmarshal cached cart failed: %w", err)
	}
	if lines == nil {
		lines = []domain.CartLine{}
	}
	return lines, nil
}

func (c *localCartCache) Save(ctx context.Context, lines []domain.CartLine) error {
	if lines == nil {
		lines = []domain.CartLine{}
	}
	raw, err := json.Marshal(lines)
	if err != nil {
		return fmt.Errorf("marshal cart failed: %w", err)
	}
	return c.store.Set(ctx, localstate.KeyCart, raw)
}
