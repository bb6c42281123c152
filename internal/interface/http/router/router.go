// Package router assembles the storefront's HTTP surface on one fiber app.
package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/freshcart/grocery-backend/internal/address"
	"github.com/freshcart/grocery-backend/internal/apperr"
	"github.com/freshcart/grocery-backend/internal/cart"
	"github.com/freshcart/grocery-backend/internal/catalog"
	"github.com/freshcart/grocery-backend/internal/category"
	"github.com/freshcart/grocery-backend/internal/logging"
	"github.com/freshcart/grocery-backend/internal/order"
	"github.com/freshcart/grocery-backend/internal/product"
	"github.com/freshcart/grocery-backend/internal/scan"
	"github.com/freshcart/grocery-backend/internal/upload"
	"github.com/freshcart/grocery-backend/internal/user"
)

// Handlers lists every route group the app serves. Nil handlers are skipped.
type Handlers struct {
	Users      *user.Handler
	Categories *category.Handler
	Catalog    *catalog.Handler
	Products   *product.Handler
	Cart       *cart.Handler
	Orders     *order.Handler
	Addresses  *address.Handler
	Uploads    *upload.Handler
	Scan       *scan.Handler
}

// New builds the app. Routes registered before the token middleware are
// public; the rest need a bearer token and /api/v1/admin also needs the
// admin role.
func New(h Handlers, tokens *user.Tokens, logger logging.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:   "grocery-backend",
		BodyLimit: upload.MaxSize + 1<<20,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if fe, ok := err.(*fiber.Error); ok {
				return c.Status(fe.Code).JSON(fiber.Map{"message": fe.Message})
			}
			return apperr.Respond(c, err)
		},
	})
	app.Use(recover.New())
	app.Use(logging.RequestLogger(logger))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,HEAD,PUT,DELETE,PATCH",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	// public
	if h.Users != nil {
		h.Users.RegisterPublicRoutes(app)
	}
	if h.Categories != nil {
		h.Categories.RegisterPublicRoutes(app)
	}
	if h.Catalog != nil {
		h.Catalog.RegisterPublicRoutes(app)
	}
	if h.Products != nil {
		h.Products.RegisterPublicRoutes(app)
	}
	if h.Uploads != nil {
		h.Uploads.RegisterPublicRoutes(app)
	}

	app.Use(tokens.Middleware(func(c *fiber.Ctx) bool {
		return c.Method() == fiber.MethodOptions
	}))

	// signed in
	if h.Users != nil {
		h.Users.RegisterProtectedRoutes(app)
	}
	if h.Addresses != nil {
		h.Addresses.RegisterProtectedRoutes(app)
	}
	if h.Cart != nil {
		h.Cart.RegisterProtectedRoutes(app)
	}
	if h.Orders != nil {
		h.Orders.RegisterProtectedRoutes(app)
	}
	if h.Scan != nil {
		h.Scan.RegisterProtectedRoutes(app)
	}

	admin := app.Group("/api/v1/admin", user.RequireAdmin)
	if h.Users != nil {
		h.Users.RegisterAdminRoutes(admin)
	}
	if h.Products != nil {
		h.Products.RegisterAdminRoutes(admin)
	}
	if h.Orders != nil {
		h.Orders.RegisterAdminRoutes(admin)
	}
	if h.Uploads != nil {
		h.Uploads.RegisterAdminRoutes(admin)
	}

	return app
}
