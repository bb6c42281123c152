package order

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/freshcart/grocery-backend/internal/address"
	"github.com/freshcart/grocery-backend/internal/apperr"
	"github.com/freshcart/grocery-backend/internal/cart"
	"github.com/freshcart/grocery-backend/internal/logging"
	"github.com/freshcart/grocery-backend/internal/product"
)

// Cart is the slice of the cart service checkout consumes.
type Cart interface {
	Items(ctx context.Context, owner string) ([]cart.Item, error)
	Lookup(ctx context.Context, items []cart.Item) (map[int]product.Product, error)
	Clear(ctx context.Context, owner string) error
	TaxRate() decimal.Decimal
}

// AddressBook remembers the address a user last checked out with.
type AddressBook interface {
	Save(ctx context.Context, email string, a address.Address) (address.Saved, error)
}

// CheckoutRequest is the body of POST /api/v1/checkout.
type CheckoutRequest struct {
	DeliveryAddress address.Address `json:"delivery_address"`
	Payment         Payment         `json:"payment"`
}

type Service struct {
	repo      Repository
	cart      Cart
	addresses AddressBook
	logger    logging.Logger
	tracer    trace.Tracer
	now       func() time.Time
}

func NewService(repo Repository, c Cart, addresses AddressBook, logger logging.Logger) *Service {
	return &Service{
		repo:      repo,
		cart:      c,
		addresses: addresses,
		logger:    logging.OrNoOp(logger),
		tracer:    otel.Tracer("github.com/freshcart/grocery-backend/internal/order"),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Checkout places an order for everything in owner's cart. Prices, names and
// units are copied from the current catalog; lines whose product no longer
// exists are dropped. The cart is emptied and the address remembered.
func (s *Service) Checkout(ctx context.Context, owner string, req CheckoutRequest) (Order, error) {
	ctx, span := s.tracer.Start(ctx, "order.Checkout", trace.WithAttributes(attribute.String("user.email", owner)))
	defer span.End()

	o, err := s.checkout(ctx, owner, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "checkout failed")
		return Order{}, err
	}
	span.SetAttributes(
		attribute.Int("order.id", o.ID),
		attribute.Int("order.items", len(o.Items)),
		attribute.String("order.total", o.TotalAmount.StringFixed(2)),
	)
	return o, nil
}

func (s *Service) checkout(ctx context.Context, owner string, req CheckoutRequest) (Order, error) {
	if owner == "" {
		return Order{}, apperr.ErrUnauthorized
	}
	addr := req.DeliveryAddress.Normalize()
	errs := map[string]string{}
	for k, v := range apperr.FieldsOf(addr.Validate()) {
		errs["delivery_address."+k] = v
	}
	payment, err := req.Payment.Descriptor()
	for k, v := range apperr.FieldsOf(err) {
		errs["payment."+k] = v
	}
	if len(errs) > 0 {
		return Order{}, apperr.Validation("order.Checkout", errs)
	}

	items, err := s.cart.Items(ctx, owner)
	if err != nil {
		return Order{}, err
	}
	if len(items) == 0 {
		return Order{}, apperr.Invalid("order.Checkout", "cart", "cart is empty")
	}
	lookup, err := s.cart.Lookup(ctx, items)
	if err != nil {
		return Order{}, err
	}

	now := s.now()
	lines := make([]Item, 0, len(items))
	for _, it := range items {
		p, ok := lookup[it.ProductID]
		if !ok {
			s.logger.Warn("checkout skipped missing product", map[string]interface{}{"user": owner, "product_id": it.ProductID})
			continue
		}
		lines = append(lines, Item{
			ProductID:   p.ID,
			Quantity:    it.Quantity,
			Price:       p.Price,
			ProductName: p.Name,
			Unit:        p.Unit,
			CreatedAt:   now,
		})
	}
	if len(lines) == 0 {
		return Order{}, apperr.Invalid("order.Checkout", "cart", "no items in the cart are available")
	}

	totals := cart.ComputeTotals(items, lookup, s.cart.TaxRate())
	created, err := s.repo.CreateWithItems(ctx, Order{
		UserEmail:       owner,
		TotalAmount:     totals.Total,
		Status:          StatusPending,
		DeliveryAddress: addr,
		PaymentMethod:   payment,
		CreatedAt:       now,
	}, lines)
	if err != nil {
		s.logger.Error("order not placed", map[string]interface{}{"user": owner, "error": err})
		return Order{}, err
	}

	if err := s.cart.Clear(ctx, owner); err != nil {
		s.logger.Error("cart not cleared after checkout", map[string]interface{}{"user": owner, "order_id": created.ID, "error": err})
	}
	if s.addresses != nil {
		if _, err := s.addresses.Save(ctx, owner, addr); err != nil {
			s.logger.Warn("delivery address not saved", map[string]interface{}{"user": owner, "error": err})
		}
	}
	s.logger.Info("order placed", map[string]interface{}{"order_id": created.ID, "user": owner, "total": created.TotalAmount.StringFixed(2)})
	return created, nil
}

// History returns owner's orders newest first with their items.
func (s *Service) History(ctx context.Context, owner string) ([]Order, error) {
	orders, err := s.repo.ListByOwner(ctx, owner)
	if err != nil {
		return nil, err
	}
	return s.attachItems(ctx, orders)
}

// ListAll returns the newest orders across all users with their items.
func (s *Service) ListAll(ctx context.Context, limit int) ([]Order, error) {
	orders, err := s.repo.List(ctx, limit)
	if err != nil {
		return nil, err
	}
	return s.attachItems(ctx, orders)
}

func (s *Service) UpdateStatus(ctx context.Context, id int, status string) (Order, error) {
	st, err := ParseStatus(status)
	if err != nil {
		return Order{}, err
	}
	o, err := s.repo.UpdateStatus(ctx, id, st)
	if err != nil {
		return Order{}, err
	}
	s.logger.Info("order status changed", map[string]interface{}{"order_id": id, "status": string(st)})
	return o, nil
}

func (s *Service) attachItems(ctx context.Context, orders []Order) ([]Order, error) {
	if len(orders) == 0 {
		return orders, nil
	}
	ids := make([]int, 0, len(orders))
	for _, o := range orders {
		ids = append(ids, o.ID)
	}
	items, err := s.repo.ItemsByOrderIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byOrder := make(map[int][]Item, len(orders))
	for _, it := range items {
		byOrder[it.OrderID] = append(byOrder[it.OrderID], it)
	}
	for i := range orders {
		orders[i].Items = byOrder[orders[i].ID]
		if orders[i].Items == nil {
			orders[i].Items = []Item{}
		}
	}
	return orders, nil
}
