package upload

import (
	"github.com/gofiber/fiber/v2"

	"github.com/freshcart/grocery-backend/internal/apperr"
)

type Handler struct {
	store *Store
}

func NewHandler(s *Store) *Handler {
	return &Handler{store: s}
}

// RegisterPublicRoutes serves stored files.
func (h *Handler) RegisterPublicRoutes(app fiber.Router) {
	app.Static(PublicPrefix, h.store.Dir())
}

func (h *Handler) RegisterAdminRoutes(admin fiber.Router) {
	admin.Post("/uploads", h.uploadFile)
}

func (h *Handler) uploadFile(c *fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil {
		return apperr.Respond(c, apperr.Invalid("upload.File", "file", "file is required"))
	}
	f, err := file.Open()
	if err != nil {
		return apperr.Respond(c, apperr.IO("upload.File", err))
	}
	defer f.Close()

	url, err := h.store.Save(c.UserContext(), file.Filename, f)
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"file_url": url})
}
