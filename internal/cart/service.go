package cart

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/freshcart/grocery-backend/internal/apperr"
	"github.com/freshcart/grocery-backend/internal/logging"
	"github.com/freshcart/grocery-backend/internal/product"
)

// ProductLookup is the slice of the product service the cart needs.
type ProductLookup interface {
	GetByID(ctx context.Context, id int) (product.Product, error)
	ListByIDs(ctx context.Context, ids []int) ([]product.Product, error)
}

// Line is a cart item joined with its product. Product is nil when the
// product has since been removed from the catalog.
type Line struct {
	Item
	Product   *product.Product `json:"product,omitempty"`
	LineTotal decimal.Decimal  `json:"line_total"`
}

type View struct {
	Items []Line `json:"items"`
	Totals
}

type Service struct {
	repo     Repository
	products ProductLookup
	taxRate  decimal.Decimal
	logger   logging.Logger
}

func NewService(repo Repository, products ProductLookup, taxRate decimal.Decimal, logger logging.Logger) *Service {
	return &Service{repo: repo, products: products, taxRate: taxRate, logger: logging.OrNoOp(logger)}
}

func (s *Service) TaxRate() decimal.Decimal { return s.taxRate }

// Items returns owner's raw cart rows.
func (s *Service) Items(ctx context.Context, owner string) ([]Item, error) {
	return s.repo.ListByOwner(ctx, owner)
}

// View joins owner's cart with the current product prices.
func (s *Service) View(ctx context.Context, owner string) (View, error) {
	items, err := s.repo.ListByOwner(ctx, owner)
	if err != nil {
		return View{}, err
	}
	lookup, err := s.Lookup(ctx, items)
	if err != nil {
		return View{}, err
	}

	lines := make([]Line, 0, len(items))
	for _, it := range items {
		l := Line{Item: it, LineTotal: decimal.Zero}
		if p, ok := lookup[it.ProductID]; ok {
			p := p
			l.Product = &p
			l.LineTotal = p.Price.Mul(decimal.NewFromInt(int64(it.Quantity)))
		}
		lines = append(lines, l)
	}
	return View{Items: lines, Totals: ComputeTotals(items, lookup, s.taxRate)}, nil
}

// Lookup loads the products referenced by items keyed by id.
func (s *Service) Lookup(ctx context.Context, items []Item) (map[int]product.Product, error) {
	ids := make([]int, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ProductID)
	}
	ps, err := s.products.ListByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	return product.Index(ps), nil
}

// Add puts qty units of an active, in-stock product into owner's cart.
func (s *Service) Add(ctx context.Context, owner string, productID, qty int) (Item, error) {
	if qty < 1 {
		return Item{}, apperr.Invalid("cart.Add", "quantity", "quantity must be at least 1")
	}
	p, err := s.products.GetByID(ctx, productID)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return Item{}, apperr.Invalid("cart.Add", "product_id", "product does not exist")
		}
		return Item{}, err
	}
	if !p.IsActive {
		return Item{}, apperr.Invalid("cart.Add", "product_id", "product is not available")
	}
	if !p.InStock() {
		return Item{}, apperr.Invalid("cart.Add", "product_id", "product is out of stock")
	}
	it, err := s.repo.Add(ctx, owner, productID, qty)
	if err != nil {
		return Item{}, err
	}
	s.logger.Debug("cart item added", map[string]interface{}{"user": owner, "product_id": productID, "quantity": it.Quantity})
	return it, nil
}

// SetQuantity changes a line's quantity. A quantity below 1 removes the line
// and returns a zero Item.
func (s *Service) SetQuantity(ctx context.Context, owner string, id, qty int) (Item, error) {
	if _, err := s.owned(ctx, owner, id); err != nil {
		return Item{}, err
	}
	if qty < 1 {
		return Item{}, s.repo.Delete(ctx, id)
	}
	return s.repo.SetQuantity(ctx, id, qty)
}

func (s *Service) Remove(ctx context.Context, owner string, id int) error {
	if _, err := s.owned(ctx, owner, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func (s *Service) Clear(ctx context.Context, owner string) error {
	return s.repo.DeleteByOwner(ctx, owner)
}

func (s *Service) owned(ctx context.Context, owner string, id int) (Item, error) {
	it, err := s.repo.Get(ctx, id)
	if err != nil {
		return Item{}, err
	}
	if it.UserEmail != owner {
		return Item{}, ErrNotFound
	}
	return it, nil
}
