package repository

import (
	"context"
	"errors"

	"github.com/fathima-sithara/contacts-service/internal/models"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("duplicate record")
)

// UserRepository is the credential store.
type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, user *models.User) (*models.User, error)
	// UpdateRefreshToken unconditionally overwrites the stored refresh
	// token; nil clears it.
	UpdateRefreshToken(ctx context.Context, email string, token *string) error
	// RotateRefreshToken swaps old for new only if old is still the stored
	// token. A false result means the token was rotated concurrently.
	RotateRefreshToken(ctx context.Context, email, old, new string) (bool, error)
	ConfirmEmail(ctx context.Context, email string) error
	UpdateAvatar(ctx context.Context, email, url string) (*models.User, error)
}

// ContactFilter narrows List results; nil fields are ignored. Filters are
// conjunctive.
type ContactFilter struct {
	Name     *string
	LastName *string
	Email    *string
}

// ContactRepository persists contacts. Every method is scoped to the owning
// user's id; ids that belong to another user behave as absent.
type ContactRepository interface {
	List(ctx context.Context, ownerID int64, filter ContactFilter) ([]models.Contact, error)
	ListWithBirthDate(ctx context.Context, ownerID int64) ([]models.Contact, error)
	Get(ctx context.Context, ownerID, id int64) (*models.Contact, error)
	Create(ctx context.Context, contact *models.Contact) (*models.Contact, error)
	Update(ctx context.Context, ownerID, id int64, contact *models.Contact) (*models.Contact, error)
	Delete(ctx context.Context, ownerID, id int64) (*models.Contact, error)
}
