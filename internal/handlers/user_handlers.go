package handlers

import (
	"io"

	"github.com/gofiber/fiber/v2"

	"github.com/fathima-sithara/contacts-service/internal/middleware"
)

// Me returns the authenticated user.
func (h *Handler) Me(c *fiber.Ctx) error {
	return c.JSON(middleware.UserFromCtx(c))
}

const maxAvatarBytes = 5 << 20

// UpdateAvatar accepts a multipart "file" field, stores the image on the
// external host and answers with the updated user.
func (h *Handler) UpdateAvatar(c *fiber.Ctx) error {
	user := middleware.UserFromCtx(c)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"detail": "file is required"})
	}
	if fileHeader.Size > maxAvatarBytes {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"detail": "file too large"})
	}

	file, err := fileHeader.Open()
	if err != nil {
		return respondError(c, err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return respondError(c, err)
	}

	contentType := fileHeader.Header.Get(fiber.HeaderContentType)
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	updated, err := h.users.UpdateAvatar(c.Context(), user, contentType, data)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(updated)
}
