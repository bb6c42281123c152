package catalog

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/freshcart/grocery-backend/internal/apperr"
	"github.com/freshcart/grocery-backend/internal/logging"
	"github.com/freshcart/grocery-backend/internal/product"
)

// Store supplies the product snapshot a query runs against.
type Store interface {
	List(ctx context.Context) ([]product.Product, error)
}

// Directory resolves a category id to the name carried on products.
type Directory interface {
	Resolve(ctx context.Context, categoryID int) (string, error)
}

// RelatedLimit is the number of products shown next to a product detail.
const RelatedLimit = 4

type Engine struct {
	store     Store
	directory Directory
	logger    logging.Logger
	tracer    trace.Tracer
}

func NewEngine(store Store, directory Directory, logger logging.Logger) *Engine {
	return &Engine{
		store:     store,
		directory: directory,
		logger:    logging.OrNoOp(logger),
		tracer:    otel.Tracer("github.com/freshcart/grocery-backend/internal/catalog"),
	}
}

// Query reads a fresh snapshot and runs o against it. A CategoryID that does
// not resolve is ignored; any other directory or store failure is returned.
func (e *Engine) Query(ctx context.Context, o Options) ([]product.Product, error) {
	ctx, span := e.tracer.Start(ctx, "catalog.Query", trace.WithAttributes(
		attribute.String("catalog.search", o.SearchText),
		attribute.String("catalog.sort", string(o.SortKey)),
		attribute.Int("catalog.limit", o.Limit),
	))
	defer span.End()

	o, err := e.resolveCategory(ctx, o)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "category lookup failed")
		return nil, err
	}

	products, err := e.store.List(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "product snapshot failed")
		return nil, err
	}

	out := Query(products, o)
	span.SetAttributes(attribute.Int("catalog.results", len(out)))
	return out, nil
}

// Related lists other active products in the same category, newest first.
func (e *Engine) Related(ctx context.Context, productID int) ([]product.Product, error) {
	ctx, span := e.tracer.Start(ctx, "catalog.Related", trace.WithAttributes(attribute.Int("product.id", productID)))
	defer span.End()

	products, err := e.store.List(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	var current *product.Product
	for i := range products {
		if products[i].ID == productID {
			current = &products[i]
			break
		}
	}
	if current == nil {
		return nil, product.ErrNotFound
	}
	return Query(products, Options{
		CategoryName: current.CategoryName,
		ExcludeID:    current.ID,
		SortKey:      SortByCreatedDate,
		Limit:        RelatedLimit,
	}), nil
}

func (e *Engine) resolveCategory(ctx context.Context, o Options) (Options, error) {
	if o.CategoryID == 0 || o.CategoryName != "" || e.directory == nil {
		return o, nil
	}
	name, err := e.directory.Resolve(ctx, o.CategoryID)
	if errors.Is(err, apperr.ErrNotFound) {
		e.logger.Debug("unknown category id, listing without category filter", map[string]interface{}{"category_id": o.CategoryID})
		return o, nil
	}
	if err != nil {
		return o, err
	}
	o.CategoryName = name
	return o, nil
}
