package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/fathima-sithara/contacts-service/internal/models"
	"github.com/fathima-sithara/contacts-service/internal/repository"
)

// UserService handles account-profile operations for an already resolved
// user.
type UserService struct {
	users  repository.UserRepository
	images ImageHost
	auth   *AuthService
}

func NewUserService(users repository.UserRepository, images ImageHost, auth *AuthService) *UserService {
	return &UserService{users: users, images: images, auth: auth}
}

// UpdateAvatar uploads the image to the external host and stores the
// returned URL, then overwrites the cached user snapshot so /users/me sees
// the new avatar immediately.
func (s *UserService) UpdateAvatar(ctx context.Context, user *models.User, contentType string, data []byte) (*models.User, error) {
	key := fmt.Sprintf("avatars/%s-%s", user.Email, uuid.NewString())
	url, err := s.images.Upload(ctx, key, contentType, data)
	if err != nil {
		return nil, fmt.Errorf("uploading avatar: %w", err)
	}

	updated, err := s.users.UpdateAvatar(ctx, user.Email, url)
	if err != nil {
		return nil, fmt.Errorf("storing avatar url: %w", err)
	}

	s.auth.RefreshCachedUser(ctx, updated)
	return updated, nil
}
