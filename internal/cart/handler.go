package cart

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/freshcart/grocery-backend/internal/apperr"
	"github.com/freshcart/grocery-backend/internal/user"
)

type Handler struct {
	service *Service
}

func NewHandler(s *Service) *Handler {
	return &Handler{service: s}
}

func (h *Handler) RegisterProtectedRoutes(app fiber.Router) {
	app.Get("/api/v1/cart", h.viewCart)
	app.Post("/api/v1/cart", h.addToCart)
	app.Delete("/api/v1/cart", h.clearCart)
	app.Patch("/api/v1/cart/:id", h.updateQuantity)
	app.Delete("/api/v1/cart/:id", h.removeItem)
}

type addPayload struct {
	ProductID int `json:"product_id"`
	Quantity  int `json:"quantity"`
}

type quantityPayload struct {
	Quantity int `json:"quantity"`
}

func (h *Handler) viewCart(c *fiber.Ctx) error {
	email, err := user.OwnerFromCtx(c)
	if err != nil {
		return apperr.Respond(c, err)
	}
	v, err := h.service.View(c.UserContext(), email)
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(v)
}

// addToCart defaults quantity to 1 when omitted.
func (h *Handler) addToCart(c *fiber.Ctx) error {
	email, err := user.OwnerFromCtx(c)
	if err != nil {
		return apperr.Respond(c, err)
	}
	var payload addPayload
	if err := c.BodyParser(&payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	if payload.Quantity == 0 {
		payload.Quantity = 1
	}
	it, err := h.service.Add(c.UserContext(), email, payload.ProductID, payload.Quantity)
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(it)
}

func (h *Handler) updateQuantity(c *fiber.Ctx) error {
	email, err := user.OwnerFromCtx(c)
	if err != nil {
		return apperr.Respond(c, err)
	}
	id, err := paramID(c)
	if err != nil {
		return apperr.Respond(c, err)
	}
	var payload quantityPayload
	if err := c.BodyParser(&payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	it, err := h.service.SetQuantity(c.UserContext(), email, id, payload.Quantity)
	if err != nil {
		return apperr.Respond(c, err)
	}
	if payload.Quantity < 1 {
		return c.SendStatus(fiber.StatusNoContent)
	}
	return c.JSON(it)
}

func (h *Handler) removeItem(c *fiber.Ctx) error {
	email, err := user.OwnerFromCtx(c)
	if err != nil {
		return apperr.Respond(c, err)
	}
	id, err := paramID(c)
	if err != nil {
		return apperr.Respond(c, err)
	}
	if err := h.service.Remove(c.UserContext(), email, id); err != nil {
		return apperr.Respond(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *Handler) clearCart(c *fiber.Ctx) error {
	email, err := user.OwnerFromCtx(c)
	if err != nil {
		return apperr.Respond(c, err)
	}
	if err := h.service.Clear(c.UserContext(), email); err != nil {
		return apperr.Respond(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func paramID(c *fiber.Ctx) (int, error) {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return 0, apperr.Invalid("cart.ID", "id", "id must be an integer")
	}
	return id, nil
}
