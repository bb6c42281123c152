package product

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"github.com/freshcart/grocery-backend/internal/apperr"
)

type PostgresRepository struct {
	db *sql.DB
}

const (
	productColumns = `product_id, name, description, price, image_url, category_id, category_name, brand, unit, stock_quantity, is_active, is_featured, is_organic, dietary_type, created_date`

	listProductsQuery = `
		SELECT ` + productColumns + `
		FROM product
		ORDER BY product_id
	`
	listProductsByIDsQuery = `
		SELECT ` + productColumns + `
		FROM product
		WHERE product_id = ANY($1::int[])
		ORDER BY product_id
	`
	getProductByIDQuery = `SELECT ` + productColumns + ` FROM product WHERE product_id = $1`
	insertProductQuery  = `
		INSERT INTO product (name, description, price, image_url, category_id, category_name, brand, unit, stock_quantity, is_active, is_featured, is_organic, dietary_type, created_date)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
		RETURNING product_id
	`
	updateProductQuery = `
		UPDATE product
		SET name = $1,
			description = $2,
			price = $3,
			image_url = $4,
			category_id = $5,
			category_name = $6,
			brand = $7,
			unit = $8,
			stock_quantity = $9,
			is_active = $10,
			is_featured = $11,
			is_organic = $12,
			dietary_type = $13
		WHERE product_id = $14
	`
	deleteProductQuery = `DELETE FROM product WHERE product_id = $1`
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) List(ctx context.Context) ([]Product, error) {
	return r.query(ctx, "product.List", listProductsQuery)
}

// ListByIDs fetches all products in ids with a single ANY($1) query.
func (r *PostgresRepository) ListByIDs(ctx context.Context, ids []int) ([]Product, error) {
	if len(ids) == 0 {
		return []Product{}, nil
	}
	return r.query(ctx, "product.ListByIDs", listProductsByIDsQuery, pq.Array(ids))
}

func (r *PostgresRepository) query(ctx context.Context, op, q string, args ...any) ([]Product, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, apperr.IO(op, err)
	}
	defer rows.Close()

	out := make([]Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, apperr.IO(op, err)
		}
		out = append(out, p)
	}
	return out, apperr.IO(op, rows.Err())
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int) (Product, error) {
	p, err := scanProduct(r.db.QueryRowContext(ctx, getProductByIDQuery, id))
	if errors.Is(err, sql.ErrNoRows) {
		return Product{}, ErrNotFound
	}
	if err != nil {
		return Product{}, apperr.IO("product.GetByID", err)
	}
	return p, nil
}

func (r *PostgresRepository) Create(ctx context.Context, p Product) (Product, error) {
	id, err := insertProduct(ctx, r.db, p)
	if err != nil {
		return Product{}, apperr.IO("product.Create", err)
	}
	p.ID = id
	return p, nil
}

func (r *PostgresRepository) Update(ctx context.Context, id int, p Product) (Product, error) {
	result, err := r.db.ExecContext(ctx,
		updateProductQuery,
		p.Name,
		p.Description,
		p.Price,
		p.ImageURL,
		p.CategoryID,
		p.CategoryName,
		p.Brand,
		p.Unit,
		p.StockQuantity,
		p.IsActive,
		p.IsFeatured,
		p.IsOrganic,
		string(p.DietaryType),
		id,
	)
	if err != nil {
		return Product{}, apperr.IO("product.Update", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return Product{}, apperr.IO("product.Update", err)
	}
	if affected == 0 {
		return Product{}, ErrNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *PostgresRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, deleteProductQuery, id)
	if err != nil {
		return apperr.IO("product.Delete", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return apperr.IO("product.Delete", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// Reset deletes all products and inserts the provided list in a single transaction.
func (r *PostgresRepository) Reset(ctx context.Context, products []Product) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return apperr.IO("product.Reset", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, `DELETE FROM product`); err != nil {
		return apperr.IO("product.Reset", err)
	}
	for _, p := range products {
		if _, err := insertProduct(ctx, tx, p); err != nil {
			return apperr.IO("product.Reset", err)
		}
	}
	return apperr.IO("product.Reset", tx.Commit())
}

type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func insertProduct(ctx context.Context, q queryRower, p Product) (int, error) {
	var id int
	err := q.QueryRowContext(ctx,
		insertProductQuery,
		p.Name,
		p.Description,
		p.Price,
		p.ImageURL,
		p.CategoryID,
		p.CategoryName,
		p.Brand,
		p.Unit,
		p.StockQuantity,
		p.IsActive,
		p.IsFeatured,
		p.IsOrganic,
		string(p.DietaryType),
		p.CreatedDate,
	).Scan(&id)
	return id, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(scanner rowScanner) (Product, error) {
	p := Product{}
	var (
		desc    sql.NullString
		img     sql.NullString
		brand   sql.NullString
		dietary sql.NullString
	)

	if err := scanner.Scan(
		&p.ID,
		&p.Name,
		&desc,
		&p.Price,
		&img,
		&p.CategoryID,
		&p.CategoryName,
		&brand,
		&p.Unit,
		&p.StockQuantity,
		&p.IsActive,
		&p.IsFeatured,
		&p.IsOrganic,
		&dietary,
		&p.CreatedDate,
	); err != nil {
		return Product{}, err
	}

	if desc.Valid {
		p.Description = &desc.String
	}
	if img.Valid {
		p.ImageURL = &img.String
	}
	if brand.Valid {
		p.Brand = &brand.String
	}
	if dietary.Valid {
		p.DietaryType = DietaryType(dietary.String)
	}
	return p, nil
}
