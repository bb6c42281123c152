package order

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/freshcart/grocery-backend/internal/address"
	"github.com/freshcart/grocery-backend/internal/apperr"
	"github.com/freshcart/grocery-backend/internal/cart"
	"github.com/freshcart/grocery-backend/internal/product"
)

const owner = "ana@example.com"

var home = address.Address{Street: "1 Main St", City: "Springfield", State: "IL", Zip: "62701"}

type fixture struct {
	svc       *Service
	cart      *cart.Service
	products  *product.InMemoryRepository
	addresses *address.Service
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	products := product.NewInMemoryRepository([]product.Product{
		{ID: 1, Name: "Honeycrisp Apples", Price: decimal.RequireFromString("50.00"), Unit: "kg", IsActive: true, StockQuantity: 10},
		{ID: 2, Name: "Sourdough", Price: decimal.RequireFromString("30.00"), Unit: "loaf", IsActive: true, StockQuantity: 10},
	})
	carts := cart.NewService(cart.NewInMemoryRepository(nil), products, cart.DefaultTaxRate, nil)
	addresses := address.NewService(address.NewInMemoryRepository(nil))
	return fixture{
		svc:       NewService(NewInMemoryRepository(), carts, addresses, nil),
		cart:      carts,
		products:  products,
		addresses: addresses,
	}
}

func TestParseStatus(t *testing.T) {
	st, err := ParseStatus(" Delivered ")
	require.NoError(t, err)
	assert.Equal(t, StatusDelivered, st)

	_, err = ParseStatus("shipped")
	assert.True(t, errors.Is(err, apperr.ErrValidation))
}

func TestPaymentDescriptor(t *testing.T) {
	d, err := Payment{Method: "razorpay"}.Descriptor()
	require.NoError(t, err)
	assert.Equal(t, "Razorpay", d)

	d, err = Payment{Method: "card", CardNumber: "4111 1111 1111 4242"}.Descriptor()
	require.NoError(t, err)
	assert.Equal(t, "Card ending in 4242", d)

	_, err = Payment{Method: "card", CardNumber: "12"}.Descriptor()
	assert.True(t, errors.Is(err, apperr.ErrValidation))
	_, err = Payment{Method: "bitcoin"}.Descriptor()
	assert.True(t, errors.Is(err, apperr.ErrValidation))
}

func TestCheckout_SnapshotsPricesAndClearsCart(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.cart.Add(ctx, owner, 1, 2)
	require.NoError(t, err)
	_, err = f.cart.Add(ctx, owner, 2, 1)
	require.NoError(t, err)

	o, err := f.svc.Checkout(ctx, owner, CheckoutRequest{DeliveryAddress: home, Payment: Payment{Method: "razorpay"}})
	require.NoError(t, err)
	assert.Equal(t, StatusPending, o.Status)
	assert.Equal(t, "140.40", o.TotalAmount.StringFixed(2))
	assert.Equal(t, "Razorpay", o.PaymentMethod)
	assert.Equal(t, "USA", o.DeliveryAddress.Country)
	require.Len(t, o.Items, 2)
	assert.Equal(t, "Honeycrisp Apples", o.Items[0].ProductName)
	assert.Equal(t, "kg", o.Items[0].Unit)
	assert.Equal(t, o.ID, o.Items[0].OrderID)

	left, err := f.cart.Items(ctx, owner)
	require.NoError(t, err)
	assert.Empty(t, left)

	saved, err := f.addresses.Get(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, "Springfield", saved.Address.City)

	// later price changes do not touch the order
	_, err = f.products.Update(ctx, 1, product.Product{Name: "Apples", Price: decimal.RequireFromString("99"), IsActive: true})
	require.NoError(t, err)
	history, err := f.svc.History(ctx, owner)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "50.00", history[0].Items[0].Price.StringFixed(2))
	assert.Equal(t, "Honeycrisp Apples", history[0].Items[0].ProductName)
}

func TestCheckout_RejectsEmptyCartAndBadInput(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Checkout(ctx, owner, CheckoutRequest{DeliveryAddress: home, Payment: Payment{Method: "razorpay"}})
	assert.Contains(t, apperr.FieldsOf(err), "cart")

	_, err = f.svc.Checkout(ctx, owner, CheckoutRequest{Payment: Payment{Method: "card"}})
	fields := apperr.FieldsOf(err)
	assert.Contains(t, fields, "delivery_address.street")
	assert.Contains(t, fields, "payment.card_number")
}

func TestCheckout_SkipsVanishedProducts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.cart.Add(ctx, owner, 1, 1)
	require.NoError(t, err)
	_, err = f.cart.Add(ctx, owner, 2, 1)
	require.NoError(t, err)
	require.NoError(t, f.products.Delete(ctx, 2))

	o, err := f.svc.Checkout(ctx, owner, CheckoutRequest{DeliveryAddress: home, Payment: Payment{Method: "razorpay"}})
	require.NoError(t, err)
	require.Len(t, o.Items, 1)
	assert.Equal(t, "54.00", o.TotalAmount.StringFixed(2))
}

func TestCheckout_RecordsSpan(t *testing.T) {
	rec := tracetest.NewSpanRecorder()
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec)))
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	f := newFixture(t)
	_, err := f.svc.Checkout(context.Background(), owner, CheckoutRequest{DeliveryAddress: home, Payment: Payment{Method: "razorpay"}})
	require.Error(t, err)

	spans := rec.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "order.Checkout", spans[0].Name())
	assert.NotEmpty(t, spans[0].Events())
}

func TestService_UpdateStatusAndListAll(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.cart.Add(ctx, owner, 1, 1)
	require.NoError(t, err)
	o, err := f.svc.Checkout(ctx, owner, CheckoutRequest{DeliveryAddress: home, Payment: Payment{Method: "razorpay"}})
	require.NoError(t, err)

	_, err = f.svc.UpdateStatus(ctx, o.ID, "teleported")
	assert.True(t, errors.Is(err, apperr.ErrValidation))
	_, err = f.svc.UpdateStatus(ctx, 999, "ready")
	assert.True(t, errors.Is(err, apperr.ErrNotFound))

	updated, err := f.svc.UpdateStatus(ctx, o.ID, "cancelled")
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, updated.Status)

	all, err := f.svc.ListAll(ctx, 10)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Len(t, all[0].Items, 1)
}

func TestPostgresRepository_CreateAndItems(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewPostgresRepository(db)
	ctx := context.Background()
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	orderCols := []string{"order_id", "user_email", "total_amount", "status", "delivery_address", "payment_method", "created_at"}
	itemCols := []string{"order_item_id", "order_id", "product_id", "quantity", "price", "product_name", "unit", "created_at"}
	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO customer_order").
		WillReturnRows(sqlmock.NewRows(orderCols).
			AddRow(11, owner, "140.40", "pending", []byte(`{"street":"1 Main St","city":"Springfield","state":"IL","zip":"62701","country":"USA"}`), "Razorpay", now))
	mock.ExpectQuery("INSERT INTO order_item").
		WithArgs(11, 1, 2, sqlmock.AnyArg(), "Honeycrisp Apples", "kg", now).
		WillReturnRows(sqlmock.NewRows(itemCols).AddRow(1, 11, 1, 2, "50.00", "Honeycrisp Apples", "kg", now))
	mock.ExpectCommit()
	o, err := repo.CreateWithItems(ctx,
		Order{UserEmail: owner, TotalAmount: decimal.RequireFromString("140.40"), Status: StatusPending, DeliveryAddress: home, PaymentMethod: "Razorpay", CreatedAt: now},
		[]Item{{ProductID: 1, Quantity: 2, Price: decimal.RequireFromString("50"), ProductName: "Honeycrisp Apples", Unit: "kg", CreatedAt: now}})
	require.NoError(t, err)
	assert.Equal(t, 11, o.ID)
	assert.Equal(t, "Springfield", o.DeliveryAddress.City)
	require.Len(t, o.Items, 1)
	assert.Equal(t, 11, o.Items[0].OrderID)

	mock.ExpectQuery("WHERE order_id = ANY").
		WillReturnRows(sqlmock.NewRows(itemCols).AddRow(1, 11, 1, 2, "50.00", "Honeycrisp Apples", "kg", now))
	items, err := repo.ItemsByOrderIDs(ctx, []int{11})
	require.NoError(t, err)
	assert.Equal(t, "50.00", items[0].Price.StringFixed(2))

	mock.ExpectQuery("UPDATE customer_order SET status").
		WithArgs("ready", 12).
		WillReturnError(sql.ErrNoRows)
	_, err = repo.UpdateStatus(ctx, 12, StatusReady)
	assert.True(t, errors.Is(err, ErrNotFound))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_CreateWithItemsRollsBack(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewPostgresRepository(db)
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO customer_order").
		WillReturnRows(sqlmock.NewRows([]string{"order_id", "user_email", "total_amount", "status", "delivery_address", "payment_method", "created_at"}).
			AddRow(12, owner, "50.00", "pending", []byte(`{}`), "Razorpay", now))
	mock.ExpectQuery("INSERT INTO order_item").
		WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	_, err = repo.CreateWithItems(context.Background(),
		Order{UserEmail: owner, TotalAmount: decimal.RequireFromString("50"), Status: StatusPending, DeliveryAddress: home, PaymentMethod: "Razorpay", CreatedAt: now},
		[]Item{{ProductID: 1, Quantity: 1, Price: decimal.RequireFromString("50"), ProductName: "Honeycrisp Apples", Unit: "kg", CreatedAt: now}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrTransientIO))
	assert.NoError(t, mock.ExpectationsWereMet())
}

// failingItems stores nothing when the item insert fails.
type failingItems struct {
	*InMemoryRepository
}

func (failingItems) CreateWithItems(context.Context, Order, []Item) (Order, error) {
	return Order{}, apperr.IO("order.CreateWithItems", errors.New("disk full"))
}

func TestCheckout_FailedInsertKeepsCartAndStoresNoOrder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	repo := failingItems{NewInMemoryRepository()}
	svc := NewService(repo, f.cart, f.addresses, nil)
	_, err := f.cart.Add(ctx, owner, 1, 2)
	require.NoError(t, err)

	_, err = svc.Checkout(ctx, owner, CheckoutRequest{DeliveryAddress: home, Payment: Payment{Method: "razorpay"}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrTransientIO))

	all, err := svc.ListAll(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, all)
	items, err := f.cart.Items(ctx, owner)
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestHandler_CheckoutAndAdmin(t *testing.T) {
	f := newFixture(t)
	_, err := f.cart.Add(context.Background(), owner, 2, 3)
	require.NoError(t, err)

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		if v := c.Get("X-User-Email"); v != "" {
			c.Locals("user", &jwt.Token{Claims: jwt.MapClaims{"email": v, "role": c.Get("X-User-Role")}})
		}
		return c.Next()
	})
	h := NewHandler(f.svc)
	h.RegisterProtectedRoutes(app)
	h.RegisterAdminRoutes(app.Group("/api/v1/admin"))

	send := func(method, path, body string) (int, []byte) {
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-User-Email", owner)
		res, err := app.Test(req)
		require.NoError(t, err)
		data, _ := io.ReadAll(res.Body)
		return res.StatusCode, data
	}

	status, body := send("POST", "/api/v1/checkout", `{"delivery_address":{"street":"1 Main St","city":"Springfield","state":"IL","zip":"62701"},"payment":{"method":"card","card_number":"4000123412349999"}}`)
	require.Equal(t, fiber.StatusCreated, status, string(body))
	var placed Order
	require.NoError(t, json.Unmarshal(body, &placed))
	assert.Equal(t, "Card ending in 9999", placed.PaymentMethod)

	status, body = send("GET", "/api/v1/orders", "")
	require.Equal(t, fiber.StatusOK, status)
	var history []Order
	require.NoError(t, json.Unmarshal(body, &history))
	require.Len(t, history, 1)
	assert.Equal(t, 3, history[0].Items[0].Quantity)

	status, _ = send("PATCH", "/api/v1/admin/orders/1/status", `{"status":"nope"}`)
	assert.Equal(t, fiber.StatusBadRequest, status)
	status, body = send("PATCH", "/api/v1/admin/orders/1/status", `{"status":"confirmed"}`)
	require.Equal(t, fiber.StatusOK, status)
	assert.Contains(t, string(body), `"status":"confirmed"`)

	status, _ = send("GET", "/api/v1/admin/orders?limit=x", "")
	assert.Equal(t, fiber.StatusBadRequest, status)
}
