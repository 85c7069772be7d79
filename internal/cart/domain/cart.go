package domain

import (
	"encoding/json"

	"github.com/shopspring/decimal"

	catalogDomain "github.com/ridloal/e-commerce-go-storefront/internal/catalog/domain"
)

// CartLine references a snapshot of the product taken by the server, not a
// live link to the catalog.
type CartLine struct {
	ID       int                   `json:"id"`
	Product  catalogDomain.Product `json:"product"`
	Quantity int                   `json:"quantity"`
}

func (l CartLine) Subtotal() decimal.Decimal {
	return l.Product.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Total reduces lines locally. It may disagree with the server total when the
// snapshot is stale.
func Total(lines []CartLine) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Subtotal())
	}
	return total
}

// ItemCount sums line quantities; it is the number shown on the cart badge.
func ItemCount(lines []CartLine) int {
	n := 0
	for _, l := range lines {
		n += l.Quantity
	}
	return n
}

// Result is what a cart mutation reports back to the calling view.
type Result struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   string          `json:"error,omitempty"`
}
