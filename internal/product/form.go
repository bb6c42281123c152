package product

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/freshcart/grocery-backend/internal/apperr"
)

// Form is the admin product payload. Price and stock arrive as text so that a
// non-numeric value is reported against its field instead of failing the decode.
type Form struct {
	Name          string `json:"name" form:"name"`
	Description   string `json:"description" form:"description"`
	Price         string `json:"price" form:"price"`
	ImageURL      string `json:"image_url" form:"image_url"`
	CategoryName  string `json:"category_name" form:"category_name"`
	Brand         string `json:"brand" form:"brand"`
	Unit          string `json:"unit" form:"unit"`
	StockQuantity string `json:"stock_quantity" form:"stock_quantity"`
	IsActive      *bool  `json:"is_active" form:"is_active"`
	IsFeatured    bool   `json:"is_featured" form:"is_featured"`
	IsOrganic     bool   `json:"is_organic" form:"is_organic"`
	DietaryType   string `json:"dietary_type" form:"dietary_type"`
}

// Parse validates the form and returns all field errors together.
func (f Form) Parse() (Product, error) {
	errs := map[string]string{}
	p := Product{
		Name:         strings.TrimSpace(f.Name),
		Description:  optional(f.Description),
		ImageURL:     optional(f.ImageURL),
		CategoryName: strings.TrimSpace(f.CategoryName),
		Brand:        optional(f.Brand),
		Unit:         strings.TrimSpace(f.Unit),
		IsActive:     true,
		IsFeatured:   f.IsFeatured,
		IsOrganic:    f.IsOrganic,
		DietaryType:  DietaryType(strings.TrimSpace(f.DietaryType)),
	}
	if f.IsActive != nil {
		p.IsActive = *f.IsActive
	}
	if p.Unit == "" {
		p.Unit = DefaultUnit
	}

	if p.Name == "" {
		errs["name"] = "name is required"
	}
	if p.CategoryName == "" {
		errs["category_name"] = "please select a category"
	}

	price, err := decimal.NewFromString(strings.TrimSpace(f.Price))
	switch {
	case strings.TrimSpace(f.Price) == "":
		errs["price"] = "price is required"
	case err != nil:
		errs["price"] = "price must be a number"
	case price.IsNegative():
		errs["price"] = "price must be >= 0"
	default:
		p.Price = price.Round(2)
	}

	p.StockQuantity = DefaultStock
	if s := strings.TrimSpace(f.StockQuantity); s != "" {
		n, err := strconv.Atoi(s)
		switch {
		case err != nil:
			errs["stock_quantity"] = "stock_quantity must be a whole number"
		case n < 0:
			errs["stock_quantity"] = "stock_quantity must be >= 0"
		default:
			p.StockQuantity = n
		}
	}

	if !p.DietaryType.Valid() {
		errs["dietary_type"] = "dietary_type must be vegetarian, vegan or non-vegetarian"
	}

	if len(errs) > 0 {
		return Product{}, apperr.Validation("product.Parse", errs)
	}
	return p, nil
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
