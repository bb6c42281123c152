package catalog

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/freshcart/grocery-backend/internal/apperr"
)

// PriceBuckets are the ranges offered by the listing filter. The last one is
// open ended.
var PriceBuckets = []string{"0-500", "500-1000", "1000-2000", "2000"}

// ParseBucket turns "min-max", "min-" or "min" into inclusive bounds. A
// missing upper bound is open ended and an empty bucket yields no bounds.
func ParseBucket(bucket string) (min, max *decimal.Decimal, err error) {
	bucket = strings.TrimSpace(bucket)
	if bucket == "" {
		return nil, nil, nil
	}
	lo, hi, ranged := strings.Cut(bucket, "-")
	min, err = parseBound("price", lo)
	if err != nil {
		return nil, nil, err
	}
	if ranged && strings.TrimSpace(hi) != "" {
		max, err = parseBound("price", hi)
		if err != nil {
			return nil, nil, err
		}
		if max.LessThan(*min) {
			return nil, nil, apperr.Invalid("catalog.ParseBucket", "price", "price range upper bound is below the lower bound")
		}
	}
	return min, max, nil
}

// ParseBounds reads explicit min_price / max_price values; empty strings are
// unbounded.
func ParseBounds(minStr, maxStr string) (min, max *decimal.Decimal, err error) {
	if strings.TrimSpace(minStr) != "" {
		if min, err = parseBound("min_price", minStr); err != nil {
			return nil, nil, err
		}
	}
	if strings.TrimSpace(maxStr) != "" {
		if max, err = parseBound("max_price", maxStr); err != nil {
			return nil, nil, err
		}
	}
	return min, max, nil
}

func parseBound(field, s string) (*decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return nil, apperr.Invalid("catalog.ParsePrice", field, field+" must be a number")
	}
	if d.IsNegative() {
		return nil, apperr.Invalid("catalog.ParsePrice", field, field+" must be >= 0")
	}
	return &d, nil
}
