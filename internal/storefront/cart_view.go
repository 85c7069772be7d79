package storefront

import (
	"context"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	cartDomain "github.com/ridloal/e-commerce-go-storefront/internal/cart/domain"
	catalogDomain "github.com/ridloal/e-commerce-go-storefront/internal/catalog/domain"
)

const (
	msgItemRemoved      = "Item removed from cart"
	msgCartCleared      = "Cart cleared successfully"
	msgUpdateQtyFailed  = "Failed to update quantity"
	msgRemoveItemFailed = "Failed to remove item"
	msgClearCartFailed  = "Failed to clear cart"
)

type CartLineView struct {
	cartDomain.CartLine
	Image    catalogDomain.Image `json:"image"`
	Subtotal decimal.Decimal     `json:"subtotal"`
}

type CartPage struct {
	Lines       []CartLineView  `json:"lines"`
	Total       decimal.Decimal `json:"total"`
	ServerTotal decimal.Decimal `json:"server_total"`
	ItemCount   int             `json:"item_count"`
	Empty       bool            `json:"empty"`
	Error       string          `json:"error,omitempty"`
}

type CartView struct {
	state *AppState
}

func NewCartView(state *AppState) *CartView {
	return &CartView{state: state}
}

// Load re-fetches the cart and its server total concurrently, then joins the
// lines with their images. Total is summed over the rendered lines.
func (v *CartView) Load(ctx context.Context) CartPage {
	var (
		lines       []cartDomain.CartLine
		serverTotal decimal.Decimal
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		lines = v.state.Cart.FetchCartItems(gctx)
		return nil
	})
	g.Go(func() error {
		serverTotal = v.state.Cart.GetCartTotal(gctx)
		return nil
	})
	_ = g.Wait() // kedua fungsi di atas tidak pernah gagal

	page := v.render(ctx, lines)
	page.ServerTotal = serverTotal
	page.Error = v.state.Status.Error()
	return page
}

// Page renders the lines currently held, without calling the cart API.
func (v *CartView) Page(ctx context.Context) CartPage {
	page := v.render(ctx, v.state.Cart.Items())
	page.ServerTotal = v.state.Cart.Total()
	page.Error = v.state.Status.Error()
	return page
}

func (v *CartView) render(ctx context.Context, lines []cartDomain.CartLine) CartPage {
	ids := make([]int, 0, len(lines))
	for _, l := range lines {
		ids = append(ids, l.Product.ID)
	}
	images := map[int]catalogDomain.Image{}
	if len(ids) > 0 {
		images = v.state.Catalog.FetchImages(ctx, ids)
	}

	out := make([]CartLineView, 0, len(lines))
	for _, l := range lines {
		img, ok := images[l.Product.ID]
		if !ok {
			img = catalogDomain.PlaceholderImage(l.Product.ID)
		}
		out = append(out, CartLineView{CartLine: l, Image: img, Subtotal: l.Subtotal()})
	}
	return CartPage{
		Lines: out,
		Total:     cartDomain.Total(lines),
		ItemCount: cartDomain.ItemCount(lines),
		Empty:     len(out) == 0,
	}
}

// ItemCount is the badge count over the lines currently held. It never calls
// the API.
func (v *CartView) ItemCount() int {
	return cartDomain.ItemCount(v.state.Cart.Items())
}

// UpdateQuantity refuses quantities below 1 without calling the API.
func (v *CartView) UpdateQuantity(ctx context.Context, lineID, quantity int) error {
	if quantity < 1 {
		return ErrInvalidQuantity
	}
	res := v.state.Cart.UpdateCartQuantity(ctx, lineID, quantity)
	return resultError(res, msgUpdateQtyFailed)
}

func (v *CartView) Remove(ctx context.Context, lineID int) (string, error) {
	res := v.state.Cart.RemoveFromCart(ctx, lineID)
	if err := resultError(res, msgRemoveItemFailed); err != nil {
		return "", err
	}
	return msgItemRemoved, nil
}

// Clear empties the cart once confirmed.
func (v *CartView) Clear(ctx context.Context, confirmed bool) (string, error) {
	if !confirmed {
		return "", ErrConfirmationRequired
	}
	res := v.state.Cart.ClearCart(ctx)
	if err := resultError(res, msgClearCartFailed); err != nil {
		return "", err
	}
	return msgCartCleared, nil
}

func resultError(res cartDomain.Result, fallback string) error {
	if res.Success {
		return nil
	}
	msg := res.Error
	if msg == "" {
		msg = fallback
	}
	return &RemoteError{Message: msg}
}
