package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"tireshop/internal/domain"
	applog "tireshop/internal/log"
	"tireshop/internal/services"
)

type UploadHandler struct {
	Uploads *services.UploadService
	Gate    *services.AdminGate
}

// POST /api/products/upload-image (multipart "file")
func (h *UploadHandler) Upload(c *fiber.Ctx) error {
	if _, ok := requireAdmin(c, h.Gate); !ok {
		return forbidden(c)
	}
	fh, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "file field required"})
	}
	f, err := fh.Open()
	if err != nil {
		applog.Error(c, "upload.open", err, nil)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "could not read file"})
	}
	defer f.Close()

	path, err := h.Uploads.Save(fh.Filename, f)
	if err != nil {
		applog.Error(c, "upload.save", err, nil)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not store file"})
	}
	applog.Audit(c, "upload.save", map[string]any{"path": path})
	return c.JSON(fiber.Map{"status": "ok", "path": path})
}

// GET /api/uploads/:name
func (h *UploadHandler) Serve(c *fiber.Ctx) error {
	full, err := h.Uploads.Resolve(c.Params("name"))
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			applog.Error(c, "upload.serve", err, nil)
		}
		return c.SendStatus(fiber.StatusNotFound)
	}
	return c.SendFile(full, true)
}
