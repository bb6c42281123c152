// Package order turns a cart into an immutable order and tracks its
// fulfilment status.
package order

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/freshcart/grocery-backend/internal/address"
	"github.com/freshcart/grocery-backend/internal/apperr"
)

var ErrNotFound = fmt.Errorf("order %w", apperr.ErrNotFound)

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusPreparing Status = "preparing"
	StatusReady     Status = "ready"
	StatusDelivered Status = "delivered"
	StatusCancelled Status = "cancelled"
)

var statuses = []Status{StatusPending, StatusConfirmed, StatusPreparing, StatusReady, StatusDelivered, StatusCancelled}

// ParseStatus accepts any of the known statuses, case-insensitively.
// Transitions between statuses are not restricted.
func ParseStatus(s string) (Status, error) {
	v := Status(strings.ToLower(strings.TrimSpace(s)))
	for _, st := range statuses {
		if v == st {
			return v, nil
		}
	}
	return "", apperr.Invalid("order.Status", "status", fmt.Sprintf("unknown status %q", s))
}

// Order is a placed purchase. TotalAmount includes tax and is fixed at
// creation.
type Order struct {
	ID              int             `json:"id"`
	UserEmail       string          `json:"user_email"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	Status          Status          `json:"status"`
	DeliveryAddress address.Address `json:"delivery_address"`
	PaymentMethod   string          `json:"payment_method"`
	CreatedAt       time.Time       `json:"created_at"`
	Items           []Item          `json:"items"`
}

// Item snapshots the product as it was sold. Later catalog edits do not
// change it.
type Item struct {
	ID          int             `json:"id"`
	OrderID     int             `json:"order_id"`
	ProductID   int             `json:"product_id"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	ProductName string          `json:"product_name"`
	Unit        string          `json:"unit"`
	CreatedAt   time.Time       `json:"created_at"`
}

// Payment is what the shopper chose at checkout. No payment is processed;
// only a descriptor is stored on the order.
type Payment struct {
	Method     string `json:"method"`
	CardNumber string `json:"card_number,omitempty"`
}

// Descriptor renders the payment as stored on the order: "Razorpay" or
// "Card ending in NNNN".
func (p Payment) Descriptor() (string, error) {
	switch strings.ToLower(strings.TrimSpace(p.Method)) {
	case "razorpay":
		return "Razorpay", nil
	case "card", "":
		digits := strings.Map(func(r rune) rune {
			if r >= '0' && r <= '9' {
				return r
			}
			return -1
		}, p.CardNumber)
		if len(digits) < 4 {
			return "", apperr.Invalid("order.Payment", "card_number", "card number must have at least 4 digits")
		}
		return "Card ending in " + digits[len(digits)-4:], nil
	default:
		return "", apperr.Invalid("order.Payment", "method", "payment method must be razorpay or card")
	}
}
