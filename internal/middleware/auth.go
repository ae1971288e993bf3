package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/fathima-sithara/contacts-service/internal/models"
	"github.com/fathima-sithara/contacts-service/internal/services"
)

const userLocalsKey = "current_user"

// RequireUser resolves the bearer access token to a user (session cache
// first, credential store on a miss) and stores it in the request locals.
func RequireUser(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || parts[1] == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"detail": "could not validate credentials"})
		}

		user, err := auth.CurrentUser(c.Context(), parts[1])
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"detail": "could not validate credentials"})
		}

		c.Locals(userLocalsKey, user)
		return c.Next()
	}
}

// UserFromCtx returns the user resolved by RequireUser.
func UserFromCtx(c *fiber.Ctx) *models.User {
	user, _ := c.Locals(userLocalsKey).(*models.User)
	return user
}
