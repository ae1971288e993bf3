// Package handlers holds the Fiber HTTP handlers. They parse and validate
// request bodies, call the services and translate sentinel errors to status
// codes; no business rules live here.
package handlers

import (
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/fathima-sithara/contacts-service/internal/services"
)

type Handler struct {
	auth     *services.AuthService
	contacts *services.ContactService
	users    *services.UserService
	validate *validator.Validate
	log      *zap.Logger
}

func New(auth *services.AuthService, contacts *services.ContactService, users *services.UserService, logger *zap.Logger) *Handler {
	return &Handler{
		auth:     auth,
		contacts: contacts,
		users:    users,
		validate: validator.New(),
		log:      logger,
	}
}
