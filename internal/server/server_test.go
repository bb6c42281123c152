package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/freshcart/grocery-backend/internal/config"
	"github.com/freshcart/grocery-backend/internal/product"
)

type client struct {
	t   *testing.T
	app *fiber.App
}

func (c client) do(method, path, body, token string) (int, []byte) {
	c.t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	res, err := c.app.Test(req, -1)
	require.NoError(c.t, err)
	data, err := io.ReadAll(res.Body)
	require.NoError(c.t, err)
	return res.StatusCode, data
}

func (c client) signIn(email, password string) string {
	c.t.Helper()
	status, body := c.do("POST", "/api/v1/sign-in", `{"email":"`+email+`","password":"`+password+`"}`, "")
	require.Equal(c.t, fiber.StatusOK, status, string(body))
	var out struct {
		Token string `json:"token"`
	}
	require.NoError(c.t, json.Unmarshal(body, &out))
	return out.Token
}

func testConfig(t *testing.T) config.Config {
	return config.Config{
		Addr:          ":0",
		JWTSecret:     "server-test",
		TaxRate:       "0.08",
		UploadDir:     t.TempDir(),
		CacheTTL:      time.Minute,
		SeedCatalog:   true,
		AdminEmail:    "admin@freshcart.test",
		AdminPassword: "admin123",
	}
}

func TestBuild_InMemoryStorefront(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	cfg := testConfig(t)
	cfg.RedisURL = "redis://" + mr.Addr()
	srv, err := Build(context.Background(), cfg, nil)
	require.NoError(t, err)
	defer srv.Close()
	c := client{t: t, app: srv.App}

	status, _ := c.do("GET", "/health", "", "")
	assert.Equal(t, fiber.StatusOK, status)

	status, body := c.do("GET", "/api/v1/products", "", "")
	require.Equal(t, fiber.StatusOK, status)
	var listed []product.Product
	require.NoError(t, json.Unmarshal(body, &listed))
	assert.Len(t, listed, 8)
	assert.True(t, mr.Exists("grocery:catalog:products"))

	status, _ = c.do("GET", "/api/v1/home", "", "")
	assert.Equal(t, fiber.StatusOK, status)
	status, _ = c.do("GET", "/api/v1/cart", "", "")
	assert.Equal(t, fiber.StatusUnauthorized, status)

	status, body = c.do("POST", "/api/v1/sign-up", `{"email":"ana@example.com","password":"secret1","full_name":"Ana"}`, "")
	require.Equal(t, fiber.StatusCreated, status, string(body))
	customer := c.signIn("ana@example.com", "secret1")

	status, body = c.do("POST", "/api/v1/cart", `{"product_id":3,"quantity":2}`, customer)
	require.Equal(t, fiber.StatusCreated, status, string(body))

	status, body = c.do("POST", "/api/v1/checkout", `{"delivery_address":{"street":"1 Main St","city":"Springfield","state":"IL","zip":"62701"},"payment":{"method":"razorpay"}}`, customer)
	require.Equal(t, fiber.StatusCreated, status, string(body))
	assert.Contains(t, string(body), `"total_amount":"140.4"`)

	status, body = c.do("GET", "/api/v1/profile/address", "", customer)
	require.Equal(t, fiber.StatusOK, status)
	assert.Contains(t, string(body), "Springfield")

	status, _ = c.do("GET", "/api/v1/admin/orders", "", customer)
	assert.Equal(t, fiber.StatusForbidden, status)

	admin := c.signIn("admin@freshcart.test", "admin123")
	status, body = c.do("GET", "/api/v1/admin/orders", "", admin)
	require.Equal(t, fiber.StatusOK, status)
	assert.Contains(t, string(body), "Fresh Milk")

	status, body = c.do("POST", "/api/v1/admin/products", `{"name":"Baby Spinach","price":"55","category_name":"Vegetables","is_organic":true}`, admin)
	require.Equal(t, fiber.StatusCreated, status, string(body))
	assert.False(t, mr.Exists("grocery:catalog:products"))

	_, body = c.do("GET", "/api/v1/products?category=Vegetables", "", "")
	listed = nil
	require.NoError(t, json.Unmarshal(body, &listed))
	assert.Len(t, listed, 2)
}

func TestBuild_RedisUnavailable(t *testing.T) {
	cfg := testConfig(t)
	cfg.RedisURL = "redis://127.0.0.1:1"
	_, err := Build(context.Background(), cfg, nil)
	assert.Error(t, err)
}
