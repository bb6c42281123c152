package scan

import (
	"github.com/gofiber/fiber/v2"

	"github.com/freshcart/grocery-backend/internal/apperr"
)

type Handler struct {
	service *Service
}

func NewHandler(s *Service) *Handler {
	return &Handler{service: s}
}

func (h *Handler) RegisterProtectedRoutes(app fiber.Router) {
	app.Post("/api/v1/scan", h.scan)
}

// scan expects a multipart form with the photo in field "image".
func (h *Handler) scan(c *fiber.Ctx) error {
	file, err := c.FormFile("image")
	if err != nil {
		return apperr.Respond(c, apperr.Invalid("scan.Image", "image", "image is required"))
	}
	f, err := file.Open()
	if err != nil {
		return apperr.Respond(c, apperr.IO("scan.Image", err))
	}
	capture := NewCapture(file.Filename, file.Header.Get("Content-Type"), f, f.Close)

	res, err := h.service.Search(c.UserContext(), capture)
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(res)
}
