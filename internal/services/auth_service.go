package services

import (
	"context"
	"crypto/md5"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/fathima-sithara/contacts-service/internal/cache"
	"github.com/fathima-sithara/contacts-service/internal/models"
	"github.com/fathima-sithara/contacts-service/internal/repository"
	"github.com/fathima-sithara/contacts-service/internal/tokens"
)

// userCacheTTL bounds how long a resolved user may be served without a store
// round-trip.
const userCacheTTL = 300 * time.Second

const (
	MsgUserCreated      = "User successfully created"
	MsgEmailConfirmed   = "Email confirmed"
	MsgAlreadyConfirmed = "Your email is already confirmed"
	MsgCheckEmail       = "Check your email for confirmation."
)

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

// AuthService coordinates signup, login, token refresh and email
// confirmation over the credential store, token manager and session cache.
type AuthService struct {
	users   repository.UserRepository
	tokens  *tokens.Manager
	cache   cache.UserCache
	mail    ConfirmationMailer
	baseURL string
	log     *zap.Logger
}

func NewAuthService(
	users repository.UserRepository,
	tokenManager *tokens.Manager,
	userCache cache.UserCache,
	mail ConfirmationMailer,
	baseURL string,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		users:   users,
		tokens:  tokenManager,
		cache:   userCache,
		mail:    mail,
		baseURL: strings.TrimRight(baseURL, "/"),
		log:     logger,
	}
}

// Signup registers a new unconfirmed account and schedules the confirmation
// email. Failure to send the email never rolls the account back.
func (s *AuthService) Signup(ctx context.Context, username, email, password string) (*models.User, error) {
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("checking existing user: %w", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	user := &models.User{
		Username: username,
		Email:    email,
		Password: string(hashed),
		Avatar:   gravatarURL(email),
	}
	user, err = s.users.Create(ctx, user)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("creating user: %w", err)
	}

	s.scheduleConfirmation(user)
	return user, nil
}

// Login verifies credentials and issues a fresh token pair, overwriting any
// previously stored refresh token. Failure reasons are distinguishable:
// unknown email, unconfirmed email, wrong password — checked in that order.
func (s *AuthService) Login(ctx context.Context, email, password string) (*TokenPair, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidEmail
		}
		return nil, fmt.Errorf("looking up user: %w", err)
	}
	if !user.Confirmed {
		return nil, ErrEmailNotConfirmed
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, ErrInvalidPassword
	}

	pair, err := s.issuePair(email)
	if err != nil {
		return nil, err
	}
	if err := s.users.UpdateRefreshToken(ctx, email, &pair.RefreshToken); err != nil {
		return nil, fmt.Errorf("persisting refresh token: %w", err)
	}
	return pair, nil
}

// Refresh exchanges a valid refresh token for a new pair, rotating the stored
// token on every use. Presenting a token that no longer matches the stored
// one clears it, forcing re-login; this is how reuse of a rotated-out token
// is detected.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := s.tokens.Decode(refreshToken, tokens.ScopeRefresh)
	if err != nil {
		return nil, ErrInvalidRefresh
	}
	email := claims.Subject

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidRefresh
		}
		return nil, fmt.Errorf("looking up user: %w", err)
	}

	if user.RefreshToken == nil || *user.RefreshToken != refreshToken {
		if err := s.users.UpdateRefreshToken(ctx, email, nil); err != nil {
			s.log.Warn("failed to clear refresh token", zap.String("email", email), zap.Error(err))
		}
		return nil, ErrInvalidRefresh
	}

	pair, err := s.issuePair(email)
	if err != nil {
		return nil, err
	}

	swapped, err := s.users.RotateRefreshToken(ctx, email, refreshToken, pair.RefreshToken)
	if err != nil {
		return nil, fmt.Errorf("rotating refresh token: %w", err)
	}
	if !swapped {
		// Lost a concurrent rotation race; the presented token is no
		// longer current.
		return nil, ErrInvalidRefresh
	}
	return pair, nil
}

// ConfirmEmail flips the confirmed flag for the account named by the emailed
// token. Confirming twice is an idempotent no-op.
func (s *AuthService) ConfirmEmail(ctx context.Context, token string) (string, error) {
	claims, err := s.tokens.Decode(token, tokens.ScopeNone)
	if err != nil {
		return "", ErrVerificationToken
	}
	email := claims.Subject

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrVerification
		}
		return "", fmt.Errorf("looking up user: %w", err)
	}
	if user.Confirmed {
		return MsgAlreadyConfirmed, nil
	}

	if err := s.users.ConfirmEmail(ctx, email); err != nil {
		return "", fmt.Errorf("confirming email: %w", err)
	}

	user.Confirmed = true
	if err := s.cache.Put(ctx, email, user, userCacheTTL); err != nil {
		s.log.Warn("failed to refresh cached user", zap.String("email", email), zap.Error(err))
	}
	return MsgEmailConfirmed, nil
}

// ResendConfirmation re-sends the confirmation email. The answer does not
// reveal whether the address is registered.
func (s *AuthService) ResendConfirmation(ctx context.Context, email string) (string, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return MsgCheckEmail, nil
		}
		return "", fmt.Errorf("looking up user: %w", err)
	}
	if user.Confirmed {
		return MsgAlreadyConfirmed, nil
	}

	s.scheduleConfirmation(user)
	return MsgCheckEmail, nil
}

// CurrentUser resolves the bearer of an access token, preferring the session
// cache and falling back to the credential store on a miss.
func (s *AuthService) CurrentUser(ctx context.Context, accessToken string) (*models.User, error) {
	claims, err := s.tokens.Decode(accessToken, tokens.ScopeAccess)
	if err != nil {
		return nil, ErrUnauthorized
	}
	email := claims.Subject
	if email == "" {
		return nil, ErrUnauthorized
	}

	cached, found, err := s.cache.Get(ctx, email)
	if err != nil {
		s.log.Warn("user cache read failed", zap.String("email", email), zap.Error(err))
	} else if found {
		return cached, nil
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, fmt.Errorf("looking up user: %w", err)
	}

	if err := s.cache.Put(ctx, email, user, userCacheTTL); err != nil {
		s.log.Warn("user cache write failed", zap.String("email", email), zap.Error(err))
	}
	return user, nil
}

// RefreshCachedUser overwrites the cached snapshot after a user mutation so
// protected endpoints never see stale fields.
func (s *AuthService) RefreshCachedUser(ctx context.Context, user *models.User) {
	if err := s.cache.Put(ctx, user.Email, user, userCacheTTL); err != nil {
		s.log.Warn("failed to refresh cached user", zap.String("email", user.Email), zap.Error(err))
	}
}

func (s *AuthService) issuePair(email string) (*TokenPair, error) {
	access, err := s.tokens.IssueAccessToken(email)
	if err != nil {
		return nil, fmt.Errorf("issuing access token: %w", err)
	}
	refresh, err := s.tokens.IssueRefreshToken(email)
	if err != nil {
		return nil, fmt.Errorf("issuing refresh token: %w", err)
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh, TokenType: "bearer"}, nil
}

func (s *AuthService) scheduleConfirmation(user *models.User) {
	token, err := s.tokens.IssueConfirmationToken(user.Email)
	if err != nil {
		s.log.Warn("failed to issue confirmation token",
			zap.String("email", user.Email), zap.Error(err))
		return
	}
	link := fmt.Sprintf("%s/auth/confirmed_email/%s", s.baseURL, token)
	s.mail.Enqueue(user.Email, user.Username, link)
}

func gravatarURL(email string) string {
	hash := md5.Sum([]byte(strings.ToLower(strings.TrimSpace(email))))
	return fmt.Sprintf("https://www.gravatar.com/avatar/%x?d=identicon", hash)
}
