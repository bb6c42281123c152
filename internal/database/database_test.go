package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/freshcart/grocery-backend/internal/category"
	"github.com/freshcart/grocery-backend/internal/product"
)

var now = time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

func TestMigrate(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	for range schema {
		mock.ExpectExec("CREATE").WillReturnResult(sqlmock.NewResult(0, 0))
	}
	require.NoError(t, Migrate(context.Background(), db))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMigrate_StopsOnError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS category").WillReturnError(errors.New("permission denied"))
	err = Migrate(context.Background(), db)
	assert.ErrorContains(t, err, "migrate step 1")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSeed_OnlyEmptyTables(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	cats := category.SampleCategories(now)
	products := product.SampleProducts(now)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM category").WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	for range cats {
		mock.ExpectExec("INSERT INTO category").WillReturnResult(sqlmock.NewResult(1, 1))
	}
	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM product").WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
	mock.ExpectCommit()

	n, err := Seed(context.Background(), db, cats, products)
	require.NoError(t, err)
	assert.Equal(t, len(cats), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOpen_EmptyURL(t *testing.T) {
	_, err := Open(context.Background(), "")
	assert.Error(t, err)
}
