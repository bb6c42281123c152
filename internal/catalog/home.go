package catalog

import (
	"context"

	"github.com/freshcart/grocery-backend/internal/category"
	"github.com/freshcart/grocery-backend/internal/product"
)

const (
	HomeFeaturedLimit = 8
	HomeCategoryLimit = 6
	HomeOrganicLimit  = 4
)

// CategoryLister lists categories in display order.
type CategoryLister interface {
	List(ctx context.Context, f category.Filter) ([]category.Category, error)
}

// HomeFeed is the landing page payload.
type HomeFeed struct {
	FeaturedProducts   []product.Product   `json:"featured_products"`
	FeaturedCategories []category.Category `json:"featured_categories"`
	OrganicProducts    []product.Product   `json:"organic_products"`
	PriceBuckets       []string            `json:"price_buckets"`
}

// Home builds the landing page from one product snapshot.
func (e *Engine) Home(ctx context.Context, categories CategoryLister) (HomeFeed, error) {
	ctx, span := e.tracer.Start(ctx, "catalog.Home")
	defer span.End()

	products, err := e.store.List(ctx)
	if err != nil {
		span.RecordError(err)
		return HomeFeed{}, err
	}
	cats, err := categories.List(ctx, category.Filter{FeaturedOnly: true, Limit: HomeCategoryLimit})
	if err != nil {
		span.RecordError(err)
		return HomeFeed{}, err
	}

	return HomeFeed{
		FeaturedProducts: Query(products, Options{
			FeaturedOnly: true,
			SortKey:      SortByCreatedDate,
			Limit:        HomeFeaturedLimit,
		}),
		FeaturedCategories: cats,
		OrganicProducts: Query(products, Options{
			OrganicOnly: true,
			SortKey:     SortByCreatedDate,
			Limit:       HomeOrganicLimit,
		}),
		PriceBuckets: append([]string(nil), PriceBuckets...),
	}, nil
}
