// Package catalog answers product listing queries: it composes the filter
// predicates a shopper picked, sorts, and truncates, over a snapshot read from
// the product store.
package catalog

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/freshcart/grocery-backend/internal/apperr"
	"github.com/freshcart/grocery-backend/internal/product"
)

type SortKey string

const (
	SortByName        SortKey = "name"
	SortByPrice       SortKey = "price"
	SortByCreatedDate SortKey = "created_date"
)

type SortDirection string

const (
	Ascending  SortDirection = "asc"
	Descending SortDirection = "desc"
)

// Options is the set of predicates for one listing. The zero value lists every
// active product by name.
type Options struct {
	CategoryName string
	// CategoryID is resolved to a name by Engine.Query. An unknown id means
	// no category filter.
	CategoryID  int
	OrganicOnly bool
	// FeaturedOnly, IDs and ExcludeID only narrow the result and are applied
	// after the price bounds. A nil IDs applies no id filter; an empty,
	// non-nil IDs matches nothing.
	FeaturedOnly  bool
	DietaryType   product.DietaryType
	SearchText    string
	PriceMin      *decimal.Decimal
	PriceMax      *decimal.Decimal
	IDs           []int
	ExcludeID     int
	SortKey       SortKey
	SortDirection SortDirection
	Limit         int
}

// ParseSortKey accepts "", name, price and created_date. The storefront also
// sends "newest" for created_date.
func ParseSortKey(s string) (SortKey, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "name":
		return SortByName, nil
	case "price":
		return SortByPrice, nil
	case "created_date", "newest":
		return SortByCreatedDate, nil
	}
	return "", apperr.Invalid("catalog.ParseSortKey", "sort", "sort must be name, price or created_date")
}

func ParseSortDirection(s string) (SortDirection, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return "", nil
	case "asc", "ascending":
		return Ascending, nil
	case "desc", "descending":
		return Descending, nil
	}
	return "", apperr.Invalid("catalog.ParseSortDirection", "order", "order must be asc or desc")
}

// DefaultDirection is the direction used when a listing names a key but no
// direction: newest first for dates, ascending otherwise.
func DefaultDirection(k SortKey) SortDirection {
	if k == SortByCreatedDate {
		return Descending
	}
	return Ascending
}

// Query filters, sorts and truncates products. It never fails and never
// returns nil. The input slice is not modified.
func Query(products []product.Product, o Options) []product.Product {
	out := make([]product.Product, 0, len(products))
	search := strings.ToLower(o.SearchText)

	var ids map[int]struct{}
	if o.IDs != nil {
		ids = make(map[int]struct{}, len(o.IDs))
		for _, id := range o.IDs {
			ids[id] = struct{}{}
		}
	}

	for _, p := range products {
		if !p.IsActive {
			continue
		}
		if o.CategoryName != "" && p.CategoryName != o.CategoryName {
			continue
		}
		if o.OrganicOnly && !p.IsOrganic {
			continue
		}
		if o.DietaryType != "" && p.DietaryType != o.DietaryType {
			continue
		}
		if search != "" && !matchesSearch(p, search) {
			continue
		}
		if o.PriceMin != nil && p.Price.LessThan(*o.PriceMin) {
			continue
		}
		if o.PriceMax != nil && p.Price.GreaterThan(*o.PriceMax) {
			continue
		}
		if ids != nil {
			if _, ok := ids[p.ID]; !ok {
				continue
			}
		}
		if o.FeaturedOnly && !p.IsFeatured {
			continue
		}
		if o.ExcludeID != 0 && p.ID == o.ExcludeID {
			continue
		}
		out = append(out, p)
	}

	sortProducts(out, o.SortKey, o.SortDirection)

	if o.Limit > 0 && len(out) > o.Limit {
		out = out[:o.Limit]
	}
	return out
}

// matchesSearch expects needle to be lowercase already.
func matchesSearch(p product.Product, needle string) bool {
	if strings.Contains(strings.ToLower(p.Name), needle) {
		return true
	}
	if p.Description != nil && strings.Contains(strings.ToLower(*p.Description), needle) {
		return true
	}
	return p.Brand != nil && strings.Contains(strings.ToLower(*p.Brand), needle)
}

func sortProducts(ps []product.Product, key SortKey, dir SortDirection) {
	if key == "" {
		key = SortByName
	}
	if dir == "" {
		dir = DefaultDirection(key)
	}

	var less func(a, b product.Product) bool
	switch key {
	case SortByPrice:
		less = func(a, b product.Product) bool { return a.Price.LessThan(b.Price) }
	case SortByCreatedDate:
		less = func(a, b product.Product) bool { return a.CreatedDate.Before(b.CreatedDate) }
	default:
		less = func(a, b product.Product) bool { return a.Name < b.Name }
	}

	sort.SliceStable(ps, func(i, j int) bool {
		if dir == Descending {
			return less(ps[j], ps[i])
		}
		return less(ps[i], ps[j])
	})
}
