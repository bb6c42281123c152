package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/freshcart/grocery-backend/internal/category"
	"github.com/freshcart/grocery-backend/internal/product"
)

const (
	countCategoriesQuery = `SELECT COUNT(*) FROM category`
	countProductsQuery   = `SELECT COUNT(*) FROM product`
	seedCategoryQuery    = `
		INSERT INTO category (name, description, image_url, is_featured, sort_order, created_date)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (name) DO NOTHING`
	seedProductQuery = `
		INSERT INTO product (name, description, price, image_url, category_id, category_name, brand, unit, stock_quantity, is_active, is_featured, is_organic, dietary_type, created_date)
		VALUES ($1, $2, $3, $4, (SELECT category_id FROM category WHERE name = $5), $5, $6, $7, $8, $9, $10, $11, $12, $13)`
)

// Seed fills empty category and product tables with the starter catalog.
// Tables that already hold rows are left alone. It reports how many rows
// were inserted.
func Seed(ctx context.Context, db *sql.DB, categories []category.Category, products []product.Product) (int, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("seed: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	inserted := 0
	var n int
	if err := tx.QueryRowContext(ctx, countCategoriesQuery).Scan(&n); err != nil {
		return 0, fmt.Errorf("seed: count categories: %w", err)
	}
	if n == 0 {
		for _, c := range categories {
			if _, err := tx.ExecContext(ctx, seedCategoryQuery,
				c.Name, c.Description, c.ImageURL, c.IsFeatured, c.SortOrder, c.CreatedDate); err != nil {
				return 0, fmt.Errorf("seed: category %s: %w", c.Name, err)
			}
			inserted++
		}
	}

	if err := tx.QueryRowContext(ctx, countProductsQuery).Scan(&n); err != nil {
		return 0, fmt.Errorf("seed: count products: %w", err)
	}
	if n == 0 {
		for _, p := range products {
			var dietary *string
			if p.DietaryType != "" {
				d := string(p.DietaryType)
				dietary = &d
			}
			if _, err := tx.ExecContext(ctx, seedProductQuery,
				p.Name, p.Description, p.Price, p.ImageURL, p.CategoryName, p.Brand, p.Unit,
				p.StockQuantity, p.IsActive, p.IsFeatured, p.IsOrganic, dietary, p.CreatedDate); err != nil {
				return 0, fmt.Errorf("seed: product %s: %w", p.Name, err)
			}
			inserted++
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("seed: %w", err)
	}
	return inserted, nil
}
