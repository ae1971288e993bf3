package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/fathima-sithara/contacts-service/internal/handlers"
	"github.com/fathima-sithara/contacts-service/internal/middleware"
)

// Setup mounts every route. The contacts group is both authenticated and
// rate-limited; the limiter runs after auth so the window is per user.
func Setup(app *fiber.App, h *handlers.Handler, requireUser fiber.Handler, limiter *middleware.RateLimiter) {
	auth := app.Group("/auth")
	auth.Post("/signup", h.Signup)
	auth.Post("/login", h.Login)
	auth.Get("/refresh_token", h.RefreshToken)
	auth.Get("/confirmed_email/:token", h.ConfirmEmail)
	auth.Post("/request_email", h.RequestEmail)

	contacts := app.Group("/contacts", requireUser, limiter.Handler())
	contacts.Get("/", h.ListContacts)
	contacts.Get("/birthdays", h.ListBirthdays)
	contacts.Get("/:id", h.GetContact)
	contacts.Post("/", h.CreateContact)
	contacts.Put("/:id", h.UpdateContact)
	contacts.Delete("/:id", h.DeleteContact)

	users := app.Group("/users", requireUser)
	users.Get("/me", h.Me)
	users.Patch("/avatar", h.UpdateAvatar)
}
