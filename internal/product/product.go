package product

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/freshcart/grocery-backend/internal/apperr"
)

// ErrNotFound is returned when no product has the requested id.
var ErrNotFound = fmt.Errorf("product %w", apperr.ErrNotFound)

const (
	DefaultUnit  = "each"
	DefaultStock = 10
)

type DietaryType string

const (
	Vegetarian    DietaryType = "vegetarian"
	Vegan         DietaryType = "vegan"
	NonVegetarian DietaryType = "non-vegetarian"
)

// Valid reports whether d is unset or one of the known dietary types.
func (d DietaryType) Valid() bool {
	switch d {
	case "", Vegetarian, Vegan, NonVegetarian:
		return true
	}
	return false
}

// Product is a sellable catalog item. CategoryName duplicates the owning
// category's name so listings can filter without a join.
type Product struct {
	ID            int             `json:"id"`
	Name          string          `json:"name"`
	Description   *string         `json:"description,omitempty"`
	Price         decimal.Decimal `json:"price"`
	ImageURL      *string         `json:"image_url,omitempty"`
	CategoryID    int             `json:"category_id"`
	CategoryName  string          `json:"category_name"`
	Brand         *string         `json:"brand,omitempty"`
	Unit          string          `json:"unit"`
	StockQuantity int             `json:"stock_quantity"`
	IsActive      bool            `json:"is_active"`
	IsFeatured    bool            `json:"is_featured"`
	IsOrganic     bool            `json:"is_organic"`
	DietaryType   DietaryType     `json:"dietary_type,omitempty"`
	CreatedDate   time.Time       `json:"created_date"`
}

// InStock reports whether at least one unit can be sold.
func (p Product) InStock() bool { return p.StockQuantity > 0 }

// Index keys products by id.
func Index(ps []Product) map[int]Product {
	m := make(map[int]Product, len(ps))
	for _, p := range ps {
		m[p.ID] = p
	}
	return m
}
