package user

import (
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/freshcart/grocery-backend/internal/apperr"
)

// makeApp injects a jwt.Token into locals when X-User-Email is provided, the
// same shape jwtware stores after verifying a bearer token.
func makeApp(h *Handler) *fiber.App {
	app := fiber.New()
	h.RegisterPublicRoutes(app)
	app.Use(func(c *fiber.Ctx) error {
		if v := c.Get("X-User-Email"); v != "" {
			claims := jwt.MapClaims{"email": v, "role": c.Get("X-User-Role")}
			c.Locals("user", &jwt.Token{Claims: claims})
		}
		return c.Next()
	})
	h.RegisterProtectedRoutes(app)
	h.RegisterAdminRoutes(app.Group("/api/v1/admin", RequireAdmin))
	return app
}

func do(t *testing.T, app *fiber.App, method, path, body string, headers map[string]string) (int, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	res, err := app.Test(req)
	require.NoError(t, err)
	out := map[string]interface{}{}
	_ = json.NewDecoder(res.Body).Decode(&out)
	return res.StatusCode, out
}

func TestSignUpSignInAndProfile(t *testing.T) {
	svc := NewService(NewInMemoryRepository(nil), nil)
	app := makeApp(NewHandler(svc, NewTokens("test-secret")))

	status, body := do(t, app, "POST", "/api/v1/sign-up", `{"email":"Ana@Example.com","password":"secret1","full_name":"Ana"}`, nil)
	require.Equal(t, fiber.StatusCreated, status)
	assert.Equal(t, "ana@example.com", body["email"])
	assert.Equal(t, "customer", body["role"])
	assert.NotContains(t, body, "password")

	status, _ = do(t, app, "POST", "/api/v1/sign-up", `{"email":"ana@example.com","password":"secret1","full_name":"Ana"}`, nil)
	assert.Equal(t, fiber.StatusConflict, status)

	status, body = do(t, app, "POST", "/api/v1/sign-up", `{"email":"nope","password":"x"}`, nil)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Contains(t, body["errors"], "full_name")

	status, body = do(t, app, "POST", "/api/v1/sign-in", `{"email":"ana@example.com","password":"secret1"}`, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.NotEmpty(t, body["token"])

	status, _ = do(t, app, "POST", "/api/v1/sign-in", `{"email":"ana@example.com","password":"wrong"}`, nil)
	assert.Equal(t, fiber.StatusUnauthorized, status)

	status, _ = do(t, app, "GET", "/api/v1/profile", "", nil)
	assert.Equal(t, fiber.StatusUnauthorized, status)

	status, body = do(t, app, "PATCH", "/api/v1/profile", `{"phone":"+1 555 0100"}`, map[string]string{"X-User-Email": "ana@example.com"})
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "+1 555 0100", body["phone"])
	assert.Equal(t, "Ana", body["full_name"])
}

func TestAdminRoutesRequireRole(t *testing.T) {
	svc := NewService(NewInMemoryRepository(nil), nil)
	_, err := svc.EnsureAdmin(context.Background(), "admin@freshcart.test", "admin123")
	require.NoError(t, err)
	app := makeApp(NewHandler(svc, NewTokens("s")))

	status, _ := do(t, app, "GET", "/api/v1/admin/users", "", map[string]string{"X-User-Email": "c@x.io", "X-User-Role": "customer"})
	assert.Equal(t, fiber.StatusForbidden, status)

	status, _ = do(t, app, "GET", "/api/v1/admin/users", "", map[string]string{"X-User-Email": "admin@freshcart.test", "X-User-Role": "admin"})
	assert.Equal(t, fiber.StatusOK, status)

	again, err := svc.EnsureAdmin(context.Background(), "admin@freshcart.test", "other")
	require.NoError(t, err)
	assert.True(t, again.IsAdmin())
}

func TestTokens_MiddlewareRoundTrip(t *testing.T) {
	tokens := NewTokens("round-trip")
	signed, err := tokens.Issue(User{ID: 5, Email: "bo@example.com", Role: RoleCustomer})
	require.NoError(t, err)

	app := fiber.New()
	app.Use(tokens.Middleware(func(c *fiber.Ctx) bool { return c.Path() == "/open" }))
	app.Get("/open", func(c *fiber.Ctx) error { return c.SendString("ok") })
	app.Get("/me", func(c *fiber.Ctx) error {
		email, err := OwnerFromCtx(c)
		if err != nil {
			return apperr.Respond(c, err)
		}
		return c.SendString(email)
	})

	res, err := app.Test(httptest.NewRequest("GET", "/open", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, res.StatusCode)

	res, err = app.Test(httptest.NewRequest("GET", "/me", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, res.StatusCode)

	req := httptest.NewRequest("GET", "/me", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	res, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, res.StatusCode)
}

func TestPostgresRepository_CreateDuplicateEmail(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewPostgresRepository(db)

	now := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	mock.ExpectQuery("INSERT INTO users").
		WillReturnError(&pgconn.PgError{Code: "23505", Message: "duplicate key"})
	_, err = repo.Create(context.Background(), User{Email: "a@b.c", Role: RoleCustomer, CreatedAt: now, UpdatedAt: now})
	assert.True(t, errors.Is(err, ErrEmailExists))
	assert.True(t, errors.Is(err, apperr.ErrConflict))

	mock.ExpectQuery("WHERE email = ").WithArgs("a@b.c").WillReturnRows(
		sqlmock.NewRows([]string{"user_id", "email", "password", "full_name", "phone", "role", "created_at", "updated_at"}).
			AddRow(1, "a@b.c", "$2a$10$hash", "A", nil, "admin", now, now))
	u, err := repo.GetByEmail(context.Background(), "a@b.c")
	require.NoError(t, err)
	assert.True(t, u.IsAdmin())
	assert.Equal(t, "", u.Phone)
	assert.NoError(t, mock.ExpectationsWereMet())
}
