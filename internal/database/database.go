// Package database opens the Postgres pool and keeps the schema current.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// Open connects through the pgx database/sql driver and pings the server.
func Open(ctx context.Context, url string) (*sql.DB, error) {
	if url == "" {
		return nil, fmt.Errorf("database url is empty")
	}
	db, err := sql.Open("pgx", url)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(5)
	db.SetConnMaxIdleTime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return db, nil
}

// schema is applied in order on every start. Every statement is idempotent.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS category (
		category_id  SERIAL PRIMARY KEY,
		name         TEXT NOT NULL UNIQUE,
		description  TEXT,
		image_url    TEXT,
		is_featured  BOOLEAN NOT NULL DEFAULT FALSE,
		sort_order   INT NOT NULL DEFAULT 0,
		created_date TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS product (
		product_id     SERIAL PRIMARY KEY,
		name           TEXT NOT NULL,
		description    TEXT,
		price          NUMERIC(12,2) NOT NULL CHECK (price >= 0),
		image_url      TEXT,
		category_id    INT NOT NULL DEFAULT 0,
		category_name  TEXT NOT NULL,
		brand          TEXT,
		unit           TEXT NOT NULL DEFAULT 'each',
		stock_quantity INT NOT NULL DEFAULT 10 CHECK (stock_quantity >= 0),
		is_active      BOOLEAN NOT NULL DEFAULT TRUE,
		is_featured    BOOLEAN NOT NULL DEFAULT FALSE,
		is_organic     BOOLEAN NOT NULL DEFAULT FALSE,
		dietary_type   TEXT,
		created_date   TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS product_category_name_idx ON product (category_name)`,
	`CREATE TABLE IF NOT EXISTS users (
		user_id    SERIAL PRIMARY KEY,
		email      TEXT NOT NULL UNIQUE,
		password   TEXT NOT NULL,
		full_name  TEXT NOT NULL,
		phone      TEXT,
		role       TEXT NOT NULL DEFAULT 'customer',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS user_address (
		user_email TEXT PRIMARY KEY,
		street     TEXT NOT NULL,
		city       TEXT NOT NULL,
		state      TEXT NOT NULL,
		zip        TEXT NOT NULL,
		country    TEXT NOT NULL DEFAULT 'USA',
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS cart_item (
		cart_item_id SERIAL PRIMARY KEY,
		user_email   TEXT NOT NULL,
		product_id   INT NOT NULL,
		quantity     INT NOT NULL CHECK (quantity > 0),
		created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (user_email, product_id)
	)`,
	`CREATE TABLE IF NOT EXISTS customer_order (
		order_id         SERIAL PRIMARY KEY,
		user_email       TEXT NOT NULL,
		total_amount     NUMERIC(12,2) NOT NULL,
		status           TEXT NOT NULL DEFAULT 'pending',
		delivery_address JSONB NOT NULL DEFAULT '{}',
		payment_method   TEXT NOT NULL,
		created_at       TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS customer_order_user_idx ON customer_order (user_email, created_at DESC)`,
	`CREATE TABLE IF NOT EXISTS order_item (
		order_item_id SERIAL PRIMARY KEY,
		order_id      INT NOT NULL REFERENCES customer_order (order_id) ON DELETE CASCADE,
		product_id    INT NOT NULL,
		quantity      INT NOT NULL CHECK (quantity > 0),
		price         NUMERIC(12,2) NOT NULL,
		product_name  TEXT NOT NULL,
		unit          TEXT NOT NULL,
		created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
}

// Migrate creates any missing tables and indexes.
func Migrate(ctx context.Context, db *sql.DB) error {
	for i, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate step %d: %w", i+1, err)
		}
	}
	return nil
}
