package order

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/lib/pq"

	"github.com/freshcart/grocery-backend/internal/apperr"
)

// PostgresRepository stores orders in customer_order, with the delivery
// address as a jsonb column, and their lines in order_item.
type PostgresRepository struct {
	db *sql.DB
}

const (
	orderColumns = `order_id, user_email, total_amount, status, delivery_address, payment_method, created_at`
	itemColumns  = `order_item_id, order_id, product_id, quantity, price, product_name, unit, created_at`

	insertOrderQuery = `
		INSERT INTO customer_order (user_email, total_amount, status, delivery_address, payment_method, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + orderColumns
	insertItemQuery = `
		INSERT INTO order_item (order_id, product_id, quantity, price, product_name, unit, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + itemColumns
	listOwnerOrdersQuery = `SELECT ` + orderColumns + ` FROM customer_order WHERE user_email = $1 ORDER BY created_at DESC, order_id DESC`
	listOrdersQuery      = `SELECT ` + orderColumns + ` FROM customer_order ORDER BY created_at DESC, order_id DESC LIMIT $1`
	itemsByOrdersQuery   = `SELECT ` + itemColumns + ` FROM order_item WHERE order_id = ANY($1::int[]) ORDER BY order_item_id`
	updateStatusQuery    = `UPDATE customer_order SET status = $1 WHERE order_id = $2 RETURNING ` + orderColumns
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// CreateWithItems inserts the order and its items in one transaction.
func (r *PostgresRepository) CreateWithItems(ctx context.Context, o Order, items []Item) (Order, error) {
	addr, err := json.Marshal(o.DeliveryAddress)
	if err != nil {
		return Order{}, err
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return Order{}, apperr.IO("order.CreateWithItems", err)
	}
	defer func() { _ = tx.Rollback() }()

	created, err := scanOrder(tx.QueryRowContext(ctx, insertOrderQuery,
		o.UserEmail, o.TotalAmount, string(o.Status), addr, o.PaymentMethod, o.CreatedAt))
	if err != nil {
		return Order{}, apperr.IO("order.CreateWithItems", err)
	}
	created.Items = make([]Item, 0, len(items))
	for _, it := range items {
		line, err := scanItem(tx.QueryRowContext(ctx, insertItemQuery,
			created.ID, it.ProductID, it.Quantity, it.Price, it.ProductName, it.Unit, it.CreatedAt))
		if err != nil {
			return Order{}, apperr.IO("order.CreateWithItems", err)
		}
		created.Items = append(created.Items, line)
	}
	if err := tx.Commit(); err != nil {
		return Order{}, apperr.IO("order.CreateWithItems", err)
	}
	return created, nil
}

func (r *PostgresRepository) ListByOwner(ctx context.Context, email string) ([]Order, error) {
	return r.list(ctx, "order.ListByOwner", listOwnerOrdersQuery, email)
}

func (r *PostgresRepository) List(ctx context.Context, limit int) ([]Order, error) {
	// LIMIT NULL is no limit
	var arg any
	if limit > 0 {
		arg = limit
	}
	return r.list(ctx, "order.List", listOrdersQuery, arg)
}

func (r *PostgresRepository) ItemsByOrderIDs(ctx context.Context, ids []int) ([]Item, error) {
	if len(ids) == 0 {
		return []Item{}, nil
	}
	rows, err := r.db.QueryContext(ctx, itemsByOrdersQuery, pq.Array(ids))
	if err != nil {
		return nil, apperr.IO("order.ItemsByOrderIDs", err)
	}
	defer rows.Close()

	out := make([]Item, 0)
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, apperr.IO("order.ItemsByOrderIDs", err)
		}
		out = append(out, it)
	}
	return out, apperr.IO("order.ItemsByOrderIDs", rows.Err())
}

func (r *PostgresRepository) UpdateStatus(ctx context.Context, id int, status Status) (Order, error) {
	o, err := scanOrder(r.db.QueryRowContext(ctx, updateStatusQuery, string(status), id))
	if errors.Is(err, sql.ErrNoRows) {
		return Order{}, ErrNotFound
	}
	if err != nil {
		return Order{}, apperr.IO("order.UpdateStatus", err)
	}
	return o, nil
}

func (r *PostgresRepository) list(ctx context.Context, op, q string, args ...any) ([]Order, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, apperr.IO(op, err)
	}
	defer rows.Close()

	out := make([]Order, 0)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, apperr.IO(op, err)
		}
		out = append(out, o)
	}
	return out, apperr.IO(op, rows.Err())
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(s rowScanner) (Order, error) {
	var (
		o      Order
		status string
		addr   []byte
	)
	if err := s.Scan(&o.ID, &o.UserEmail, &o.TotalAmount, &status, &addr, &o.PaymentMethod, &o.CreatedAt); err != nil {
		return Order{}, err
	}
	o.Status = Status(status)
	if len(addr) > 0 {
		if err := json.Unmarshal(addr, &o.DeliveryAddress); err != nil {
			return Order{}, err
		}
	}
	return o, nil
}

func scanItem(s rowScanner) (Item, error) {
	var it Item
	err := s.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.Quantity, &it.Price, &it.ProductName, &it.Unit, &it.CreatedAt)
	return it, err
}
