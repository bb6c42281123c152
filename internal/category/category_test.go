package category

import (
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/freshcart/grocery-backend/internal/apperr"
)

func seedCategories() []Category {
	return []Category{
		{ID: 3, Name: "Bakery", IsFeatured: true, SortOrder: 3},
		{ID: 1, Name: "Fruits", IsFeatured: true, SortOrder: 1},
		{ID: 7, Name: "Snacks", SortOrder: 7},
		{ID: 2, Name: "Dairy", IsFeatured: true, SortOrder: 2},
	}
}

func TestInMemoryRepository_ListOrderAndFilter(t *testing.T) {
	repo := NewInMemoryRepository(seedCategories())
	ctx := context.Background()

	all, err := repo.List(ctx, Filter{})
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(t, []string{"Fruits", "Dairy", "Bakery", "Snacks"}, names(all))

	featured, err := repo.List(ctx, Filter{FeaturedOnly: true, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, []string{"Fruits", "Dairy"}, names(featured))
}

func TestService_Resolve(t *testing.T) {
	svc := NewService(NewInMemoryRepository(seedCategories()))
	ctx := context.Background()

	name, err := svc.Resolve(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, "Dairy", name)

	_, err = svc.Resolve(ctx, 99)
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}

func TestPostgresRepository_List(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewPostgresRepository(db)

	created := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"category_id", "name", "description", "image_url", "is_featured", "sort_order", "created_date"}).
		AddRow(1, "Fruits", "Fresh seasonal fruits", nil, true, 1, created).
		AddRow(2, "Dairy", nil, "/img/dairy.jpg", true, 2, created)
	mock.ExpectQuery("FROM category").WithArgs(true, 6).WillReturnRows(rows)

	cs, err := repo.List(context.Background(), Filter{FeaturedOnly: true, Limit: 6})
	require.NoError(t, err)
	require.Len(t, cs, 2)
	require.NotNil(t, cs[0].Description)
	assert.Equal(t, "Fresh seasonal fruits", *cs[0].Description)
	assert.Nil(t, cs[0].ImageURL)
	assert.Equal(t, "/img/dairy.jpg", *cs[1].ImageURL)
	assert.Equal(t, created, cs[1].CreatedDate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_GetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewPostgresRepository(db)

	mock.ExpectQuery("WHERE category_id = ").WithArgs(5).WillReturnRows(
		sqlmock.NewRows([]string{"category_id", "name", "description", "image_url", "is_featured", "sort_order", "created_date"}))
	_, err = repo.GetByID(context.Background(), 5)
	assert.True(t, errors.Is(err, ErrNotFound))

	mock.ExpectQuery("WHERE category_id = ").WithArgs(6).WillReturnError(errors.New("connection refused"))
	_, err = repo.GetByID(context.Background(), 6)
	assert.True(t, errors.Is(err, apperr.ErrTransientIO))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler_GetCategories(t *testing.T) {
	h := NewHandler(NewService(NewInMemoryRepository(seedCategories())))
	app := fiber.New()
	h.RegisterPublicRoutes(app)

	res, err := app.Test(httptest.NewRequest("GET", "/api/v1/categories?featured=true&limit=1", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, res.StatusCode)
	b, _ := io.ReadAll(res.Body)
	body := string(b)
	assert.Contains(t, body, `"name":"Fruits"`)
	assert.False(t, strings.Contains(body, "Dairy"), "limit not applied: %s", body)

	res2, err := app.Test(httptest.NewRequest("GET", "/api/v1/categories?limit=abc", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, res2.StatusCode)
}

func names(cs []Category) []string {
	out := make([]string, 0, len(cs))
	for _, c := range cs {
		out = append(out, c.Name)
	}
	return out
}
