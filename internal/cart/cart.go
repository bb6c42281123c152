// Package cart holds a user's line items until checkout and computes the
// totals shown on the cart page and charged at checkout.
package cart

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/freshcart/grocery-backend/internal/apperr"
	"github.com/freshcart/grocery-backend/internal/product"
)

// ErrNotFound is returned for a cart item id that does not exist or belongs
// to another user.
var ErrNotFound = fmt.Errorf("cart item %w", apperr.ErrNotFound)

// DefaultTaxRate is applied when no rate is configured.
var DefaultTaxRate = decimal.RequireFromString("0.08")

// Item is one product line in a user's cart. There is at most one item per
// (user, product).
type Item struct {
	ID        int       `json:"id"`
	UserEmail string    `json:"user_email"`
	ProductID int       `json:"product_id"`
	Quantity  int       `json:"quantity"`
	CreatedAt time.Time `json:"created_at"`
}

type Totals struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Tax      decimal.Decimal `json:"tax"`
	Total    decimal.Decimal `json:"total"`
}

// ComputeTotals prices items against lookup. Items whose product is missing
// from lookup contribute nothing. Tax is rounded to cents.
func ComputeTotals(items []Item, lookup map[int]product.Product, taxRate decimal.Decimal) Totals {
	subtotal := decimal.Zero
	for _, it := range items {
		p, ok := lookup[it.ProductID]
		if !ok {
			continue
		}
		subtotal = subtotal.Add(p.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	tax := subtotal.Mul(taxRate).Round(2)
	return Totals{Subtotal: subtotal, Tax: tax, Total: subtotal.Add(tax)}
}

// MergeAdd adds delta units of productID to owner's items. An existing line
// for the pair is incremented in place; otherwise a new line is appended.
// The returned slice may share its backing array with items.
func MergeAdd(items []Item, productID int, owner string, delta int) ([]Item, error) {
	if delta < 1 {
		return items, apperr.Invalid("cart.MergeAdd", "quantity", "quantity must be at least 1")
	}
	for i := range items {
		if items[i].UserEmail == owner && items[i].ProductID == productID {
			items[i].Quantity += delta
			return items, nil
		}
	}
	return append(items, Item{UserEmail: owner, ProductID: productID, Quantity: delta}), nil
}
