package category

import (
	"fmt"
	"time"

	"github.com/freshcart/grocery-backend/internal/apperr"
)

// ErrNotFound is returned when no category has the requested id or name.
var ErrNotFound = fmt.Errorf("category %w", apperr.ErrNotFound)

// Category is a catalog section. Name is unique and is the value products carry
// in their denormalized category_name field.
type Category struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	ImageURL    *string   `json:"image_url,omitempty"`
	IsFeatured  bool      `json:"is_featured"`
	SortOrder   int       `json:"sort_order"`
	CreatedDate time.Time `json:"created_date"`
}

// Filter narrows a category listing. A zero Limit means no limit.
type Filter struct {
	FeaturedOnly bool
	Limit        int
}
