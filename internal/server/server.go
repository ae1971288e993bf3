package server

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"go.uber.org/zap"

	"github.com/fathima-sithara/contacts-service/internal/config"
	"github.com/fathima-sithara/contacts-service/internal/handlers"
	"github.com/fathima-sithara/contacts-service/internal/middleware"
	"github.com/fathima-sithara/contacts-service/internal/routes"
	"github.com/fathima-sithara/contacts-service/internal/services"
)

// New initializes the Fiber application with middlewares and routes.
func New(cfg *config.Config, h *handlers.Handler, auth *services.AuthService, limiter *middleware.RateLimiter, logger *zap.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.App.ReadTimeout,
		WriteTimeout: cfg.App.WriteTimeout,
		IdleTimeout:  cfg.App.IdleTimeout,
	})

	app.Use(cors.New())
	app.Use(middleware.ZapLogger(logger))

	routes.Setup(app, h, middleware.RequireUser(auth), limiter)

	return app
}
