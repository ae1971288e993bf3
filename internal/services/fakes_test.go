package services

import (
	"context"
	"sync"
	"time"

	"github.com/fathima-sithara/contacts-service/internal/models"
	"github.com/fathima-sithara/contacts-service/internal/repository"
)

type fakeUserRepo struct {
	mu     sync.Mutex
	users  map[string]*models.User
	nextID int64
	gets   int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*models.User{}, nextID: 1}
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.gets++
	user, ok := r.users[email]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *user
	return &copied, nil
}

func (r *fakeUserRepo) Create(_ context.Context, user *models.User) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.Email]; ok {
		return nil, repository.ErrDuplicate
	}
	user.ID = r.nextID
	r.nextID++
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	copied := *user
	r.users[user.Email] = &copied
	return user, nil
}

func (r *fakeUserRepo) UpdateRefreshToken(_ context.Context, email string, token *string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[email]
	if !ok {
		return repository.ErrNotFound
	}
	user.RefreshToken = token
	return nil
}

func (r *fakeUserRepo) RotateRefreshToken(_ context.Context, email, old, new string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[email]
	if !ok || user.RefreshToken == nil || *user.RefreshToken != old {
		return false, nil
	}
	user.RefreshToken = &new
	return true, nil
}

func (r *fakeUserRepo) ConfirmEmail(_ context.Context, email string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[email]
	if !ok {
		return repository.ErrNotFound
	}
	user.Confirmed = true
	return nil
}

func (r *fakeUserRepo) UpdateAvatar(_ context.Context, email, url string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[email]
	if !ok {
		return nil, repository.ErrNotFound
	}
	user.Avatar = url
	copied := *user
	return &copied, nil
}

func (r *fakeUserRepo) storedToken(email string) *string {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[email]
	if !ok {
		return nil
	}
	return user.RefreshToken
}

type cacheEntry struct {
	user *models.User
	ttl  time.Duration
}

type fakeUserCache struct {
	mu      sync.Mutex
	entries map[string]cacheEntry
	puts    int
}

func newFakeUserCache() *fakeUserCache {
	return &fakeUserCache{entries: map[string]cacheEntry{}}
}

func (c *fakeUserCache) Get(_ context.Context, email string) (*models.User, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.entries[email]
	if !ok {
		return nil, false, nil
	}
	copied := *entry.user
	return &copied, true, nil
}

func (c *fakeUserCache) Put(_ context.Context, email string, user *models.User, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	copied := *user
	c.entries[email] = cacheEntry{user: &copied, ttl: ttl}
	c.puts++
	return nil
}

type enqueuedMail struct {
	to       string
	username string
	link     string
}

type fakeMailer struct {
	mu    sync.Mutex
	mails []enqueuedMail
}

func (m *fakeMailer) Enqueue(to, username, link string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.mails = append(m.mails, enqueuedMail{to: to, username: username, link: link})
}

func (m *fakeMailer) sent() []enqueuedMail {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]enqueuedMail(nil), m.mails...)
}

type fakeContactRepo struct {
	mu       sync.Mutex
	contacts map[int64]*models.Contact
	nextID   int64
}

func newFakeContactRepo() *fakeContactRepo {
	return &fakeContactRepo{contacts: map[int64]*models.Contact{}, nextID: 1}
}

func (r *fakeContactRepo) List(_ context.Context, ownerID int64, filter repository.ContactFilter) ([]models.Contact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.Contact{}
	for _, c := range r.contacts {
		if c.UserID != ownerID {
			continue
		}
		if filter.Name != nil && c.Name != *filter.Name {
			continue
		}
		if filter.LastName != nil && c.LastName != *filter.LastName {
			continue
		}
		if filter.Email != nil && (c.Email == nil || *c.Email != *filter.Email) {
			continue
		}
		out = append(out, *c)
	}
	return out, nil
}

func (r *fakeContactRepo) ListWithBirthDate(_ context.Context, ownerID int64) ([]models.Contact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.Contact{}
	for _, c := range r.contacts {
		if c.UserID == ownerID && c.BornDate != nil {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *fakeContactRepo) Get(_ context.Context, ownerID, id int64) (*models.Contact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.contacts[id]
	if !ok || c.UserID != ownerID {
		return nil, repository.ErrNotFound
	}
	copied := *c
	return &copied, nil
}

func (r *fakeContactRepo) Create(_ context.Context, contact *models.Contact) (*models.Contact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	contact.ID = r.nextID
	r.nextID++
	contact.CreatedAt = time.Now()
	contact.UpdatedAt = contact.CreatedAt
	copied := *contact
	r.contacts[contact.ID] = &copied
	return contact, nil
}

func (r *fakeContactRepo) Update(_ context.Context, ownerID, id int64, contact *models.Contact) (*models.Contact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.contacts[id]
	if !ok || existing.UserID != ownerID {
		return nil, repository.ErrNotFound
	}
	existing.Name = contact.Name
	existing.LastName = contact.LastName
	existing.Email = contact.Email
	existing.Phone = contact.Phone
	existing.BornDate = contact.BornDate
	existing.UpdatedAt = time.Now()
	copied := *existing
	return &copied, nil
}

func (r *fakeContactRepo) Delete(_ context.Context, ownerID, id int64) (*models.Contact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.contacts[id]
	if !ok || existing.UserID != ownerID {
		return nil, repository.ErrNotFound
	}
	delete(r.contacts, id)
	return existing, nil
}
