package storefront

import (
	"context"

	"github.com/shopspring/decimal"

	cartDomain "github.com/ridloal/e-commerce-go-storefront/internal/cart/domain"
	catalogDomain "github.com/ridloal/e-commerce-go-storefront/internal/catalog/domain"
	"github.com/ridloal/e-commerce-go-storefront/internal/platform/logger"
	"github.com/ridloal/e-commerce-go-storefront/internal/platform/status"
)

type CatalogStore interface {
	Refresh(ctx context.Context) error
	Products() []catalogDomain.Product
	Search(ctx context.Context, keyword string) []catalogDomain.Product
	FilterByCategory(category string) []catalogDomain.Product
	GetProduct(ctx context.Context, id int) (*catalogDomain.Product, error)
	UpdateProduct(ctx context.Context, id int, draft catalogDomain.ProductDraft, image *catalogDomain.ImageUpload) (*catalogDomain.Product, error)
	DeleteProduct(ctx context.Context, id int) error
	FetchImage(ctx context.Context, productID int) catalogDomain.Image
	FetchImages(ctx context.Context, productIDs []int) map[int]catalogDomain.Image
}

type CartStore interface {
	LoadCached(ctx context.Context)
	FetchCartItems(ctx context.Context) []cartDomain.CartLine
	AddToCart(ctx context.Context, productID, quantity int) cartDomain.Result
	UpdateCartQuantity(ctx context.Context, lineID, quantity int) cartDomain.Result
	RemoveFromCart(ctx context.Context, lineID int) cartDomain.Result
	ClearCart(ctx context.Context) cartDomain.Result
	GetCartTotal(ctx context.Context) decimal.Decimal
	Items() []cartDomain.CartLine
	Total() decimal.Decimal
	LocalTotal() decimal.Decimal
}

type ThemeStore interface {
	Get(ctx context.Context) string
	Toggle(ctx context.Context) (string, error)
}

// AppState is the process-wide state every view reads from. It is built once
// in main and passed by pointer; it has no teardown.
type AppState struct {
	Catalog CatalogStore
	Cart    CartStore
	Theme   ThemeStore
	Status  *status.Shared
}

func NewAppState(catalog CatalogStore, cart CartStore, theme ThemeStore, shared *status.Shared) *AppState {
	return &AppState{
		Catalog: catalog,
		Cart:    cart,
		Theme:   theme,
		Status:  shared,
	}
}

// Init paints the cart from the local snapshot, then loads the catalog, the
// cart and its total from the API. Failures are recorded in the stores and
// never abort start-up.
func (a *AppState) Init(ctx context.Context) {
	a.Cart.LoadCached(ctx)
	if err := a.Catalog.Refresh(ctx); err != nil {
		logger.Warn("AppState.Init: initial catalog load failed: %v", err)
	}
	lines := a.Cart.FetchCartItems(ctx)
	total := a.Cart.GetCartTotal(ctx)
	logger.Info("AppState.Init: loaded %d products, %d cart lines, cart total %s",
		len(a.Catalog.Products()), len(lines), total.String())
}

// Resync refreshes everything Init loads, for the background syncer.
func (a *AppState) Resync(ctx context.Context) {
	if err := a.Catalog.Refresh(ctx); err != nil {
		logger.Warn("AppState.Resync: catalog refresh failed: %v", err)
	}
	a.Cart.FetchCartItems(ctx)
	a.Cart.GetCartTotal(ctx)
}
