package category

import (
	"context"
	"database/sql"
	"errors"

	"github.com/freshcart/grocery-backend/internal/apperr"
)

// PostgresRepository implements Repository using Postgres.
type PostgresRepository struct {
	db *sql.DB
}

const (
	categoryColumns = `category_id, name, description, image_url, is_featured, sort_order, created_date`

	listCategoriesQuery = `
		SELECT ` + categoryColumns + `
		FROM category
		WHERE ($1 = FALSE OR is_featured = TRUE)
		ORDER BY sort_order, name
	`
	getCategoryByIDQuery   = `SELECT ` + categoryColumns + ` FROM category WHERE category_id = $1`
	getCategoryByNameQuery = `SELECT ` + categoryColumns + ` FROM category WHERE name = $1`
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// List returns category rows ordered by sort_order then name.
func (r *PostgresRepository) List(ctx context.Context, f Filter) ([]Category, error) {
	q := listCategoriesQuery
	args := []any{f.FeaturedOnly}
	if f.Limit > 0 {
		q += ` LIMIT $2`
		args = append(args, f.Limit)
	}
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, apperr.IO("category.List", err)
	}
	defer rows.Close()

	out := make([]Category, 0)
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, apperr.IO("category.List", err)
		}
		out = append(out, c)
	}
	return out, apperr.IO("category.List", rows.Err())
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int) (Category, error) {
	return r.getOne(ctx, "category.GetByID", getCategoryByIDQuery, id)
}

func (r *PostgresRepository) GetByName(ctx context.Context, name string) (Category, error) {
	return r.getOne(ctx, "category.GetByName", getCategoryByNameQuery, name)
}

func (r *PostgresRepository) getOne(ctx context.Context, op, q string, arg any) (Category, error) {
	c, err := scanCategory(r.db.QueryRowContext(ctx, q, arg))
	if errors.Is(err, sql.ErrNoRows) {
		return Category{}, ErrNotFound
	}
	if err != nil {
		return Category{}, apperr.IO(op, err)
	}
	return c, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCategory(scanner rowScanner) (Category, error) {
	c := Category{}
	var desc, img sql.NullString
	if err := scanner.Scan(&c.ID, &c.Name, &desc, &img, &c.IsFeatured, &c.SortOrder, &c.CreatedDate); err != nil {
		return Category{}, err
	}
	if desc.Valid {
		c.Description = &desc.String
	}
	if img.Valid {
		c.ImageURL = &img.String
	}
	return c, nil
}
