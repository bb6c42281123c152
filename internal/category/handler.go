package category

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/freshcart/grocery-backend/internal/apperr"
)

type Handler struct {
	service *Service
}

func NewHandler(s *Service) *Handler {
	return &Handler{service: s}
}

func (h *Handler) RegisterPublicRoutes(app fiber.Router) {
	app.Get("/api/v1/categories", h.getCategories)
}

func (h *Handler) getCategories(c *fiber.Ctx) error {
	f := Filter{}
	if l := c.Query("limit"); l != "" {
		v, err := strconv.Atoi(l)
		if err != nil || v < 0 {
			return apperr.Respond(c, apperr.Invalid("category.List", "limit", "limit must be a non-negative integer"))
		}
		f.Limit = v
	}
	if v := c.Query("featured"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return apperr.Respond(c, apperr.Invalid("category.List", "featured", "featured must be true or false"))
		}
		f.FeaturedOnly = b
	}

	items, err := h.service.List(c.UserContext(), f)
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(items)
}
