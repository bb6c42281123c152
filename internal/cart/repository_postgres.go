package cart

import (
	"context"
	"database/sql"
	"errors"

	"github.com/freshcart/grocery-backend/internal/apperr"
)

// PostgresRepository stores one row per (user_email, product_id) in
// cart_item; the pair carries a unique constraint.
type PostgresRepository struct {
	db *sql.DB
}

const (
	cartColumns = `cart_item_id, user_email, product_id, quantity, created_at`

	listCartQuery = `SELECT ` + cartColumns + ` FROM cart_item WHERE user_email = $1 ORDER BY cart_item_id`
	getCartQuery  = `SELECT ` + cartColumns + ` FROM cart_item WHERE cart_item_id = $1`
	// concurrent adds for the same pair increment the one row
	addCartQuery = `
		INSERT INTO cart_item (user_email, product_id, quantity, created_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (user_email, product_id)
		DO UPDATE SET quantity = cart_item.quantity + EXCLUDED.quantity
		RETURNING ` + cartColumns
	setQuantityQuery = `UPDATE cart_item SET quantity = $1 WHERE cart_item_id = $2 RETURNING ` + cartColumns
	deleteCartQuery  = `DELETE FROM cart_item WHERE cart_item_id = $1`
	clearCartQuery   = `DELETE FROM cart_item WHERE user_email = $1`
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) ListByOwner(ctx context.Context, owner string) ([]Item, error) {
	rows, err := r.db.QueryContext(ctx, listCartQuery, owner)
	if err != nil {
		return nil, apperr.IO("cart.ListByOwner", err)
	}
	defer rows.Close()

	out := make([]Item, 0)
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, apperr.IO("cart.ListByOwner", err)
		}
		out = append(out, it)
	}
	return out, apperr.IO("cart.ListByOwner", rows.Err())
}

func (r *PostgresRepository) Get(ctx context.Context, id int) (Item, error) {
	return r.one(ctx, "cart.Get", getCartQuery, id)
}

func (r *PostgresRepository) Add(ctx context.Context, owner string, productID, qty int) (Item, error) {
	if qty < 1 {
		return Item{}, apperr.Invalid("cart.Add", "quantity", "quantity must be at least 1")
	}
	return r.one(ctx, "cart.Add", addCartQuery, owner, productID, qty)
}

func (r *PostgresRepository) SetQuantity(ctx context.Context, id, qty int) (Item, error) {
	return r.one(ctx, "cart.SetQuantity", setQuantityQuery, qty, id)
}

func (r *PostgresRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, deleteCartQuery, id)
	if err != nil {
		return apperr.IO("cart.Delete", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return apperr.IO("cart.Delete", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) DeleteByOwner(ctx context.Context, owner string) error {
	if _, err := r.db.ExecContext(ctx, clearCartQuery, owner); err != nil {
		return apperr.IO("cart.DeleteByOwner", err)
	}
	return nil
}

func (r *PostgresRepository) one(ctx context.Context, op, q string, args ...any) (Item, error) {
	it, err := scanItem(r.db.QueryRowContext(ctx, q, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return Item{}, ErrNotFound
	}
	if err != nil {
		return Item{}, apperr.IO(op, err)
	}
	return it, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(s rowScanner) (Item, error) {
	var it Item
	err := s.Scan(&it.ID, &it.UserEmail, &it.ProductID, &it.Quantity, &it.CreatedAt)
	return it, err
}
