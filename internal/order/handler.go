package order

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/freshcart/grocery-backend/internal/apperr"
	"github.com/freshcart/grocery-backend/internal/user"
)

// DefaultAdminLimit caps the admin order list when no limit is given.
const DefaultAdminLimit = 50

type Handler struct {
	service *Service
}

func NewHandler(s *Service) *Handler {
	return &Handler{service: s}
}

func (h *Handler) RegisterProtectedRoutes(app fiber.Router) {
	app.Post("/api/v1/checkout", h.checkout)
	app.Get("/api/v1/orders", h.getOrders)
}

func (h *Handler) RegisterAdminRoutes(admin fiber.Router) {
	admin.Get("/orders", h.listAll)
	admin.Patch("/orders/:id/status", h.updateStatus)
}

func (h *Handler) checkout(c *fiber.Ctx) error {
	email, err := user.OwnerFromCtx(c)
	if err != nil {
		return apperr.Respond(c, err)
	}
	var payload CheckoutRequest
	if err := c.BodyParser(&payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	created, err := h.service.Checkout(c.UserContext(), email, payload)
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

// getOrders returns the signed-in user's order history.
func (h *Handler) getOrders(c *fiber.Ctx) error {
	email, err := user.OwnerFromCtx(c)
	if err != nil {
		return apperr.Respond(c, err)
	}
	orders, err := h.service.History(c.UserContext(), email)
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(orders)
}

func (h *Handler) listAll(c *fiber.Ctx) error {
	limit := DefaultAdminLimit
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return apperr.Respond(c, apperr.Invalid("order.List", "limit", "limit must be a non-negative integer"))
		}
		limit = n
	}
	orders, err := h.service.ListAll(c.UserContext(), limit)
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(orders)
}

type statusPayload struct {
	Status string `json:"status"`
}

func (h *Handler) updateStatus(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return apperr.Respond(c, apperr.Invalid("order.ID", "id", "id must be an integer"))
	}
	var payload statusPayload
	if err := c.BodyParser(&payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	o, err := h.service.UpdateStatus(c.UserContext(), id, payload.Status)
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(o)
}
