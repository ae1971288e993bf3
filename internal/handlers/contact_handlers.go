package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/fathima-sithara/contacts-service/internal/middleware"
	"github.com/fathima-sithara/contacts-service/internal/models"
	"github.com/fathima-sithara/contacts-service/internal/repository"
	"github.com/fathima-sithara/contacts-service/internal/services"
)

type contactRequest struct {
	Name     string  `json:"name" validate:"required,max=50"`
	LastName string  `json:"last_name" validate:"required,max=50"`
	Email    *string `json:"email" validate:"omitempty,email,max=150"`
	Phone    string  `json:"phone" validate:"required,max=20"`
	BornDate string  `json:"born_date" validate:"required"`
}

func (r contactRequest) toModel() (*models.Contact, error) {
	born, err := models.ParseDate(r.BornDate)
	if err != nil {
		return nil, err
	}
	return &models.Contact{
		Name:     r.Name,
		LastName: r.LastName,
		Email:    r.Email,
		Phone:    r.Phone,
		BornDate: &born,
	}, nil
}

// ListContacts returns the caller's contacts, optionally narrowed by the
// name, last_name and email query parameters (conjunctive).
func (h *Handler) ListContacts(c *fiber.Ctx) error {
	user := middleware.UserFromCtx(c)

	filter := repository.ContactFilter{}
	queryFilter := func(param string) *string {
		if v := c.Query(param); v != "" {
			return &v
		}
		return nil
	}
	filter.Name = queryFilter("name")
	filter.LastName = queryFilter("last_name")
	filter.Email = queryFilter("email")

	contacts, err := h.contacts.List(c.Context(), user, filter)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(contacts)
}

// ListBirthdays returns the caller's contacts with a birthday in the next
// seven days.
func (h *Handler) ListBirthdays(c *fiber.Ctx) error {
	user := middleware.UserFromCtx(c)

	contacts, err := h.contacts.UpcomingBirthdays(c.Context(), user)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(contacts)
}

func (h *Handler) GetContact(c *fiber.Ctx) error {
	user := middleware.UserFromCtx(c)
	id, err := contactID(c)
	if err != nil {
		return respondError(c, services.ErrContactNotFound)
	}

	contact, err := h.contacts.Get(c.Context(), user, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(contact)
}

func (h *Handler) CreateContact(c *fiber.Ctx) error {
	user := middleware.UserFromCtx(c)

	contact, ok := h.parseContactBody(c)
	if !ok {
		return nil
	}

	created, err := h.contacts.Create(c.Context(), user, contact)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *Handler) UpdateContact(c *fiber.Ctx) error {
	user := middleware.UserFromCtx(c)
	id, err := contactID(c)
	if err != nil {
		return respondError(c, services.ErrContactNotFound)
	}

	contact, ok := h.parseContactBody(c)
	if !ok {
		return nil
	}

	updated, err := h.contacts.Update(c.Context(), user, id, contact)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(updated)
}

func (h *Handler) DeleteContact(c *fiber.Ctx) error {
	user := middleware.UserFromCtx(c)
	id, err := contactID(c)
	if err != nil {
		return respondError(c, services.ErrContactNotFound)
	}

	deleted, err := h.contacts.Delete(c.Context(), user, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(deleted)
}

// parseContactBody parses and validates the request body. On failure the
// error response has already been written and ok is false.
func (h *Handler) parseContactBody(c *fiber.Ctx) (*models.Contact, bool) {
	var req contactRequest
	if err := c.BodyParser(&req); err != nil {
		_ = respondBadBody(c)
		return nil, false
	}
	if err := h.validate.Struct(req); err != nil {
		_ = respondValidationError(c, err)
		return nil, false
	}
	contact, err := req.toModel()
	if err != nil {
		_ = respondValidationError(c, err)
		return nil, false
	}
	return contact, true
}

func contactID(c *fiber.Ctx) (int64, error) {
	return strconv.ParseInt(c.Params("id"), 10, 64)
}
