package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/ridloal/e-commerce-go-storefront/internal/catalog/domain"
	"github.com/ridloal/e-commerce-go-storefront/internal/platform/logger"
	"github.com/ridloal/e-commerce-go-storefront/internal/platform/status"
)

const defaultImageConcurrency = 8

// Store holds the full product collection as known to the client. Error and
// loading flags live in the shared status so every view sees the same state.
type Store struct {
	client           CatalogClient
	status           *status.Shared
	imageConcurrency int

	mu       sync.RWMutex
	products []domain.Product
}

func NewStore(client CatalogClient, shared *status.Shared, imageConcurrency int) *Store {
	if imageConcurrency <= 0 {
		imageConcurrency = defaultImageConcurrency
	}
	return &Store{
		client:           client,
		status:           shared,
		imageConcurrency: imageConcurrency,
		products:         []domain.Product{},
	}
}

// Refresh re-fetches the full collection. On any failure the previous
// collection is kept and the shared error flag is set.
func (s *Store) Refresh(ctx context.Context) error {
	s.status.SetLoading(true)
	s.status.ClearError()
	defer s.status.SetLoading(false)

	products, err := s.client.ListProducts(ctx)
	if err != nil {
		var se *UnexpectedStatusError
		if errors.As(err, &se) {
			s.status.SetError(fmt.Sprintf("Unexpected status code: %d", se.StatusCode))
		} else {
			s.status.SetError(err.Error())
		}
		logger.Error("CatalogStore.Refresh: failed to fetch products", err)
		return err
	}

	s.mu.Lock()
	s.products = products
	s.mu.Unlock()
	s.status.ClearError()
	return nil
}

// Products returns a copy of the current collection.
func (s *Store) Products() []domain.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Product, len(s.products))
	copy(out, s.products)
	return out
}

// Search asks the server first. When that fails it falls back to matching the
// keyword against the full collection held in memory.
func (s *Store) Search(ctx context.Context, keyword string) []domain.Product {
	if strings.TrimSpace(keyword) == "" {
		return s.Products()
	}
	results, err := s.client.SearchProducts(ctx, keyword)
	if err == nil {
		return results
	}
	logger.Warn("CatalogStore.Search: server search for %q failed, filtering locally: %v", keyword, err)
	return MatchKeyword(s.Products(), keyword)
}

func (s *Store) FilterByCategory(category string) []domain.Product {
	return FilterByCategory(s.Products(), category)
}

func (s *Store) GetProduct(ctx context.Context, id int) (*domain.Product, error) {
	return s.client.GetProduct(ctx, id)
}

func (s *Store) UpdateProduct(ctx context.Context, id int, draft domain.ProductDraft, image *domain.ImageUpload) (*domain.Product, error) {
	p, err := s.client.UpdateProduct(ctx, id, draft, image)
	if err != nil {
		logger.Error("CatalogStore.UpdateProduct: update of product %d failed", err, id)
		return nil, err
	}
	return p, nil
}

func (s *Store) DeleteProduct(ctx context.Context, id int) error {
	if err := s.client.DeleteProduct(ctx, id); err != nil {
		logger.Error("CatalogStore.DeleteProduct: delete of product %d failed", err, id)
		return err
	}
	return nil
}

// FetchImage returns the product image, or a placeholder if it cannot be fetched.
func (s *Store) FetchImage(ctx context.Context, productID int) domain.Image {
	img, err := s.client.GetProductImage(ctx, productID)
	if err != nil || img == nil {
		logger.Warn("CatalogStore.FetchImage: using placeholder for product %d: %v", productID, err)
		return domain.PlaceholderImage(productID)
	}
	return *img
}

// FetchImages fans out one image request per distinct product id and joins
// them. A failed fetch degrades to a placeholder and never affects the others.
func (s *Store) FetchImages(ctx context.Context, productIDs []int) map[int]domain.Image {
	unique := make([]int, 0, len(productIDs))
	seen := make(map[int]bool, len(productIDs))
	for _, id := range productIDs {
		if !seen[id] {
			seen[id] = true
			unique = append(unique, id)
		}
	}

	images := make([]domain.Image, len(unique))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.imageConcurrency)
	for idx, id := range unique {
		g.Go(func() error {
			images[idx] = s.FetchImage(gctx, id)
			return nil
		})
	}
	_ = g.Wait() // goroutine di atas tidak pernah mengembalikan error

	out := make(map[int]domain.Image, len(unique))
	for i, id := range unique {
		out[id] = images[i]
	}
	return out
}
