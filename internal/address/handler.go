package address

import (
	"github.com/gofiber/fiber/v2"

	"github.com/freshcart/grocery-backend/internal/apperr"
	"github.com/freshcart/grocery-backend/internal/user"
)

// Handler exposes the signed-in user's saved delivery address.
type Handler struct {
	service *Service
}

func NewHandler(s *Service) *Handler {
	return &Handler{service: s}
}

func (h *Handler) RegisterProtectedRoutes(app fiber.Router) {
	app.Get("/api/v1/profile/address", h.getAddress)
	app.Put("/api/v1/profile/address", h.saveAddress)
}

func (h *Handler) getAddress(c *fiber.Ctx) error {
	email, err := user.OwnerFromCtx(c)
	if err != nil {
		return apperr.Respond(c, err)
	}
	saved, err := h.service.Get(c.UserContext(), email)
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(saved.Address)
}

func (h *Handler) saveAddress(c *fiber.Ctx) error {
	email, err := user.OwnerFromCtx(c)
	if err != nil {
		return apperr.Respond(c, err)
	}
	var payload Address
	if err := c.BodyParser(&payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	saved, err := h.service.Save(c.UserContext(), email, payload)
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(saved.Address)
}
