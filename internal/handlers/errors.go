package handlers

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/fathima-sithara/contacts-service/internal/services"
)

// statusFor maps service sentinels to the HTTP status surfaced to the
// caller. Anything unmapped is an internal error.
func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrEmailTaken),
		errors.Is(err, services.ErrContactDuplicate):
		return fiber.StatusConflict
	case errors.Is(err, services.ErrInvalidEmail),
		errors.Is(err, services.ErrEmailNotConfirmed),
		errors.Is(err, services.ErrInvalidPassword),
		errors.Is(err, services.ErrInvalidRefresh),
		errors.Is(err, services.ErrUnauthorized):
		return fiber.StatusUnauthorized
	case errors.Is(err, services.ErrVerification):
		return fiber.StatusBadRequest
	case errors.Is(err, services.ErrVerificationToken):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, services.ErrContactNotFound):
		return fiber.StatusNotFound
	default:
		return fiber.StatusInternalServerError
	}
}

// respondError writes the {"detail": ...} body the API uses for every
// failure.
func respondError(c *fiber.Ctx, err error) error {
	status := statusFor(err)
	detail := err.Error()
	if status == fiber.StatusInternalServerError {
		detail = services.ErrInternal.Error()
	}
	return c.Status(status).JSON(fiber.Map{"detail": detail})
}

func respondValidationError(c *fiber.Ctx, err error) error {
	var invalid validator.ValidationErrors
	if errors.As(err, &invalid) && len(invalid) > 0 {
		field := invalid[0]
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"detail": "validation failed on field '" + field.Field() + "', rule '" + field.Tag() + "'",
		})
	}
	return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"detail": err.Error()})
}

func respondBadBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"detail": "invalid request body"})
}
