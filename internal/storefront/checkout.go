package storefront

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/ridloal/e-commerce-go-storefront/internal/platform/logger"
)

type CheckoutSnapshot struct {
	Lines []CartLineView  `json:"lines"`
	Total decimal.Decimal `json:"total"`
}

// CheckoutDialog shows what would be bought. Confirming has no effect: no
// order is created.
type CheckoutDialog struct {
	cart *CartView
}

func NewCheckoutDialog(cart *CartView) *CheckoutDialog {
	return &CheckoutDialog{cart: cart}
}

// Open snapshots the lines currently rendered in the cart view.
func (d *CheckoutDialog) Open(ctx context.Context) CheckoutSnapshot {
	page := d.cart.Page(ctx)
	return CheckoutSnapshot{Lines: page.Lines, Total: page.Total}
}

func (d *CheckoutDialog) Confirm(ctx context.Context, snap CheckoutSnapshot) {
	logger.Info("CheckoutDialog.Confirm: %d lines, total %s; no order is placed", len(snap.Lines), snap.Total.String())
}
