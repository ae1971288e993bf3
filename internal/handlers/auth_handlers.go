package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

type signupRequest struct {
	Username string `json:"username" validate:"required,max=50"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=6,max=8"`
}

// Signup creates a new unconfirmed account and schedules the confirmation
// email.
func (h *Handler) Signup(c *fiber.Ctx) error {
	var req signupRequest
	if err := c.BodyParser(&req); err != nil {
		return respondBadBody(c)
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidationError(c, err)
	}

	user, err := h.auth.Signup(c.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"user":   user,
		"detail": "User successfully created",
	})
}

type loginRequest struct {
	Username string `form:"username" validate:"required,email"`
	Password string `form:"password" validate:"required"`
}

// Login accepts form fields username (the account email) and password and
// answers with a fresh token pair.
func (h *Handler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return respondBadBody(c)
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidationError(c, err)
	}

	pair, err := h.auth.Login(c.Context(), req.Username, req.Password)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(pair)
}

// RefreshToken rotates the presented bearer refresh token for a fresh pair.
func (h *Handler) RefreshToken(c *fiber.Ctx) error {
	token, ok := bearerToken(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"detail": "missing or malformed authorization header"})
	}

	pair, err := h.auth.Refresh(c.Context(), token)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(pair)
}

// ConfirmEmail handles the emailed confirmation link.
func (h *Handler) ConfirmEmail(c *fiber.Ctx) error {
	msg, err := h.auth.ConfirmEmail(c.Context(), c.Params("token"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": msg})
}

type requestEmailRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// RequestEmail re-sends the confirmation email.
func (h *Handler) RequestEmail(c *fiber.Ctx) error {
	var req requestEmailRequest
	if err := c.BodyParser(&req); err != nil {
		return respondBadBody(c)
	}
	if err := h.validate.Struct(req); err != nil {
		return respondValidationError(c, err)
	}

	msg, err := h.auth.ResendConfirmation(c.Context(), req.Email)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": msg})
}

func bearerToken(c *fiber.Ctx) (string, bool) {
	header := c.Get(fiber.HeaderAuthorization)
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}
