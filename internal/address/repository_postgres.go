package address

import (
	"context"
	"database/sql"
	"errors"

	"github.com/freshcart/grocery-backend/internal/apperr"
)

// PostgresRepository keeps one row per user in user_address.
// Table layout expected:
//
//	user_email text primary key,
//	street text, city text, state text, zip text, country text,
//	updated_at timestamptz
type PostgresRepository struct {
	db *sql.DB
}

const (
	getAddressQuery = `
		SELECT user_email, street, city, state, zip, country, updated_at
		FROM user_address
		WHERE user_email = $1
	`
	upsertAddressQuery = `
		INSERT INTO user_address (user_email, street, city, state, zip, country, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		ON CONFLICT (user_email) DO UPDATE
		SET street = EXCLUDED.street,
			city = EXCLUDED.city,
			state = EXCLUDED.state,
			zip = EXCLUDED.zip,
			country = EXCLUDED.country,
			updated_at = EXCLUDED.updated_at
	`
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Get(ctx context.Context, email string) (Saved, error) {
	var s Saved
	err := r.db.QueryRowContext(ctx, getAddressQuery, email).Scan(
		&s.UserEmail, &s.Address.Street, &s.Address.City, &s.Address.State, &s.Address.Zip, &s.Address.Country, &s.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return Saved{}, ErrNotFound
	}
	if err != nil {
		return Saved{}, apperr.IO("address.Get", err)
	}
	return s, nil
}

func (r *PostgresRepository) Save(ctx context.Context, s Saved) (Saved, error) {
	a := s.Address
	if _, err := r.db.ExecContext(ctx, upsertAddressQuery, s.UserEmail, a.Street, a.City, a.State, a.Zip, a.Country, s.UpdatedAt); err != nil {
		return Saved{}, apperr.IO("address.Save", err)
	}
	return s, nil
}
