package storefront

import (
	"context"
	"net/url"
	"strings"

	catalogDomain "github.com/ridloal/e-commerce-go-storefront/internal/catalog/domain"
	"github.com/ridloal/e-commerce-go-storefront/internal/platform/logger"
)

const (
	msgAddedToCart     = "Product added to cart successfully!"
	msgAddToCartFailed = "Failed to add product to cart"
)

// Query is the catalog filter carried in the address. Search wins over
// Category when both are set.
type Query struct {
	Search   string `json:"search,omitempty"`
	Category string `json:"category,omitempty"`
}

func (q Query) active() (kind, value string) {
	if s := strings.TrimSpace(q.Search); s != "" {
		return "search", s
	}
	if c := strings.TrimSpace(q.Category); c != "" {
		return "category", c
	}
	return "", ""
}

// Path is the address that represents q; "/" when no filter is active.
func (q Query) Path() string {
	kind, value := q.active()
	if kind == "" {
		return "/"
	}
	return "/?" + url.Values{kind: {value}}.Encode()
}

type CatalogPage struct {
	Path     string                  `json:"path"`
	Query    Query                   `json:"query"`
	Products []catalogDomain.Product `json:"products"`
	Error    string                  `json:"error,omitempty"`
	Blocked  bool                    `json:"blocked"`
	Loading  bool                    `json:"loading"`
}

type CatalogView struct {
	state *AppState
}

func NewCatalogView(state *AppState) *CatalogView {
	return &CatalogView{state: state}
}

// Page renders the product grid for q. Filters always run against the full
// collection, never against a previously filtered subset. While the shared
// error is set the grid is blocked and carries no products.
func (v *CatalogView) Page(ctx context.Context, q Query) CatalogPage {
	kind, value := q.active()
	switch kind {
	case "search":
		q = Query{Search: value}
	case "category":
		q = Query{Category: value}
	default:
		q = Query{}
	}
	page := CatalogPage{Path: q.Path(), Query: q, Products: []catalogDomain.Product{}}

	errMsg, loading := v.state.Status.Snapshot()
	page.Loading = loading
	if errMsg != "" {
		page.Error = errMsg
		page.Blocked = true
		return page
	}

	var products []catalogDomain.Product
	switch kind {
	case "search":
		products = v.state.Catalog.Search(ctx, value)
	case "category":
		products = v.state.Catalog.FilterByCategory(value)
	default:
		products = v.state.Catalog.Products()
	}
	if products != nil {
		page.Products = products
	}
	return page
}

func (v *CatalogView) Refresh(ctx context.Context) error {
	return v.state.Catalog.Refresh(ctx)
}

// AddToCart adds one unit of a grid product. Products that are unavailable
// or out of stock are refused without calling the API.
func (v *CatalogView) AddToCart(ctx context.Context, productID int) (string, error) {
	product, err := v.lookup(ctx, productID)
	if err != nil {
		return "", err
	}
	if !product.Available {
		return "", ErrProductUnavailable
	}
	if product.Quantity <= 0 {
		return "", ErrOutOfStock
	}

	res := v.state.Cart.AddToCart(ctx, product.ID, 1)
	if !res.Success {
		msg := res.Error
		if msg == "" {
			msg = msgAddToCartFailed
		}
		return "", &RemoteError{Message: msg}
	}
	return msgAddedToCart, nil
}

func (v *CatalogView) lookup(ctx context.Context, productID int) (*catalogDomain.Product, error) {
	for _, p := range v.state.Catalog.Products() {
		if p.ID == productID {
			return &p, nil
		}
	}
	p, err := v.state.Catalog.GetProduct(ctx, productID)
	if err != nil {
		logger.Error("CatalogView.AddToCart: product %d lookup failed", err, productID)
		return nil, wrapLookup(err)
	}
	return p, nil
}
