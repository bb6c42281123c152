package product

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/freshcart/grocery-backend/internal/apperr"
)

type Handler struct {
	service    *Service
	allowReset bool
}

// NewHandler builds the product handler. allowReset enables the dev-only
// catalog reset endpoint.
func NewHandler(service *Service, allowReset bool) *Handler {
	return &Handler{service: service, allowReset: allowReset}
}

func (h *Handler) RegisterPublicRoutes(app fiber.Router) {
	app.Get("/api/v1/products/:id<int>", h.getProduct)

	// dev-only endpoint to reset products, enabled by ALLOW_RESET_PRODUCTS=1
	app.Post("/dev/reset-products", h.resetProducts)
}

// RegisterAdminRoutes expects a router already guarded by the admin check and
// mounted at /api/v1/admin.
func (h *Handler) RegisterAdminRoutes(admin fiber.Router) {
	admin.Post("/products", h.createProduct)
	admin.Put("/products/:id", h.updateProduct)
	admin.Delete("/products/:id", h.deleteProduct)
}

func (h *Handler) getProduct(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return apperr.Respond(c, err)
	}
	p, err := h.service.GetByID(c.UserContext(), id)
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(p)
}

// resetProducts replaces the catalog with the posted list, or with the sample
// catalog when the body is not a product list. An empty list clears the table.
func (h *Handler) resetProducts(c *fiber.Ctx) error {
	if !h.allowReset {
		return apperr.Respond(c, apperr.ErrForbidden)
	}

	var products []Product
	if err := c.BodyParser(&products); err != nil {
		products = SampleProducts(h.service.now())
	}
	if err := h.service.ResetProducts(c.UserContext(), products); err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(products)
}

func (h *Handler) createProduct(c *fiber.Ctx) error {
	var f Form
	if err := c.BodyParser(&f); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	p, err := f.Parse()
	if err != nil {
		return apperr.Respond(c, err)
	}
	created, err := h.service.Create(c.UserContext(), p)
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *Handler) updateProduct(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return apperr.Respond(c, err)
	}
	var f Form
	if err := c.BodyParser(&f); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	p, err := f.Parse()
	if err != nil {
		return apperr.Respond(c, err)
	}
	updated, err := h.service.Update(c.UserContext(), id, p)
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(updated)
}

func (h *Handler) deleteProduct(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return apperr.Respond(c, err)
	}
	if err := h.service.Delete(c.UserContext(), id); err != nil {
		return apperr.Respond(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func paramID(c *fiber.Ctx) (int, error) {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return 0, apperr.Invalid("product.ID", "id", "id must be an integer")
	}
	return id, nil
}
