package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fathima-sithara/contacts-service/internal/models"
	"github.com/fathima-sithara/contacts-service/internal/repository"
)

// birthdayWindowDays is the rolling window, inclusive on both ends.
const birthdayWindowDays = 7

// ContactService is the query layer over a user's contacts. All operations
// are scoped to the owning user; ids owned by someone else read as absent.
type ContactService struct {
	contacts repository.ContactRepository
}

func NewContactService(contacts repository.ContactRepository) *ContactService {
	return &ContactService{contacts: contacts}
}

func (s *ContactService) List(ctx context.Context, owner *models.User, filter repository.ContactFilter) ([]models.Contact, error) {
	contacts, err := s.contacts.List(ctx, owner.ID, filter)
	if err != nil {
		return nil, fmt.Errorf("listing contacts: %w", err)
	}
	return contacts, nil
}

// UpcomingBirthdays returns the owner's contacts whose birthday month/day
// falls within [today, today+7], matching month and day independently of the
// birth year so a December window rolls over into January.
func (s *ContactService) UpcomingBirthdays(ctx context.Context, owner *models.User) ([]models.Contact, error) {
	contacts, err := s.contacts.ListWithBirthDate(ctx, owner.ID)
	if err != nil {
		return nil, fmt.Errorf("listing contacts: %w", err)
	}

	today := time.Now().UTC()
	upcoming := []models.Contact{}
	for _, c := range contacts {
		if c.BornDate != nil && birthdayInWindow(c.BornDate.Time, today, birthdayWindowDays) {
			upcoming = append(upcoming, c)
		}
	}
	return upcoming, nil
}

// birthdayInWindow reports whether born's month and day match any calendar
// day in [today, today+days]. Walking the window day by day keeps the
// year-wraparound case trivial.
func birthdayInWindow(born, today time.Time, days int) bool {
	for i := 0; i <= days; i++ {
		day := today.AddDate(0, 0, i)
		if day.Month() == born.Month() && day.Day() == born.Day() {
			return true
		}
	}
	return false
}

func (s *ContactService) Get(ctx context.Context, owner *models.User, id int64) (*models.Contact, error) {
	contact, err := s.contacts.Get(ctx, owner.ID, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrContactNotFound
		}
		return nil, fmt.Errorf("getting contact: %w", err)
	}
	return contact, nil
}

func (s *ContactService) Create(ctx context.Context, owner *models.User, contact *models.Contact) (*models.Contact, error) {
	contact.UserID = owner.ID
	created, err := s.contacts.Create(ctx, contact)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrContactDuplicate
		}
		return nil, fmt.Errorf("creating contact: %w", err)
	}
	return created, nil
}

// Update replaces every mutable field of the contact.
func (s *ContactService) Update(ctx context.Context, owner *models.User, id int64, contact *models.Contact) (*models.Contact, error) {
	updated, err := s.contacts.Update(ctx, owner.ID, id, contact)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrContactNotFound
		}
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrContactDuplicate
		}
		return nil, fmt.Errorf("updating contact: %w", err)
	}
	return updated, nil
}

// Delete removes the contact and returns its last state.
func (s *ContactService) Delete(ctx context.Context, owner *models.User, id int64) (*models.Contact, error) {
	deleted, err := s.contacts.Delete(ctx, owner.ID, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrContactNotFound
		}
		return nil, fmt.Errorf("deleting contact: %w", err)
	}
	return deleted, nil
}
