package product

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/freshcart/grocery-backend/internal/apperr"
	"github.com/freshcart/grocery-backend/internal/category"
	"github.com/freshcart/grocery-backend/internal/logging"
)

// CategoryLookup finds the category a product is filed under.
type CategoryLookup interface {
	GetByName(ctx context.Context, name string) (category.Category, error)
}

// Invalidator is notified after every product write so cached catalog
// snapshots can be dropped.
type Invalidator interface {
	Invalidate(ctx context.Context) error
}

type Service struct {
	repo       Repository
	categories CategoryLookup
	logger     logging.Logger
	onWrite    []Invalidator
	now        func() time.Time
}

type Option func(*Service)

func WithLogger(l logging.Logger) Option {
	return func(s *Service) { s.logger = logging.OrNoOp(l) }
}

// WithInvalidator registers a cache to clear after writes.
func WithInvalidator(i Invalidator) Option {
	return func(s *Service) {
		if i != nil {
			s.onWrite = append(s.onWrite, i)
		}
	}
}

func NewService(repo Repository, categories CategoryLookup, opts ...Option) *Service {
	s := &Service{
		repo:       repo,
		categories: categories,
		logger:     logging.NoOp{},
		now:        func() time.Time { return time.Now().UTC() },
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *Service) List(ctx context.Context) ([]Product, error) {
	return s.repo.List(ctx)
}

func (s *Service) ListByIDs(ctx context.Context, ids []int) ([]Product, error) {
	return s.repo.ListByIDs(ctx, ids)
}

func (s *Service) GetByID(ctx context.Context, id int) (Product, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Create(ctx context.Context, p Product) (Product, error) {
	if err := s.attachCategory(ctx, &p); err != nil {
		return Product{}, err
	}
	if p.CreatedDate.IsZero() {
		p.CreatedDate = s.now()
	}
	created, err := s.repo.Create(ctx, p)
	if err != nil {
		return Product{}, err
	}
	s.logger.Info("product created", map[string]interface{}{"product_id": created.ID, "category": created.CategoryName})
	s.invalidate(ctx)
	return created, nil
}

func (s *Service) Update(ctx context.Context, id int, p Product) (Product, error) {
	if err := s.attachCategory(ctx, &p); err != nil {
		return Product{}, err
	}
	updated, err := s.repo.Update(ctx, id, p)
	if err != nil {
		return Product{}, err
	}
	s.logger.Info("product updated", map[string]interface{}{"product_id": id})
	s.invalidate(ctx)
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, id int) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("product deleted", map[string]interface{}{"product_id": id})
	s.invalidate(ctx)
	return nil
}

// ResetProducts replaces all products with the given list (used for dev / seeding).
func (s *Service) ResetProducts(ctx context.Context, products []Product) error {
	if err := s.repo.Reset(ctx, products); err != nil {
		return err
	}
	s.logger.Warn("product catalog reset", map[string]interface{}{"count": len(products)})
	s.invalidate(ctx)
	return nil
}

// attachCategory keeps category_id in step with the category_name the admin
// picked. An unknown name is a validation failure on that field.
func (s *Service) attachCategory(ctx context.Context, p *Product) error {
	if s.categories == nil {
		return nil
	}
	c, err := s.categories.GetByName(ctx, p.CategoryName)
	if errors.Is(err, apperr.ErrNotFound) {
		return apperr.Invalid("product.Save", "category_name", "unknown category "+strconv.Quote(p.CategoryName))
	}
	if err != nil {
		return err
	}
	p.CategoryID = c.ID
	p.CategoryName = c.Name
	return nil
}

func (s *Service) invalidate(ctx context.Context) {
	for _, i := range s.onWrite {
		if err := i.Invalidate(ctx); err != nil {
			s.logger.Warn("catalog cache invalidation failed", map[string]interface{}{"error": err})
		}
	}
}
