package tokens

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Scope distinguishes access and refresh tokens that share one signing
// scheme. Email confirmation tokens carry no scope at all.
type Scope string

const (
	ScopeAccess  Scope = "access_token"
	ScopeRefresh Scope = "refresh_token"
	ScopeNone    Scope = ""
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrInvalidScope = errors.New("invalid scope for token")
)

// Claims is the signed claim set: sub (the user's email), iat, exp and an
// optional scope.
type Claims struct {
	Scope string `json:"scope,omitempty"`
	jwt.RegisteredClaims
}

// Manager issues and validates all tokens with a single process-wide HS256
// secret. It is stateless and safe for concurrent use.
type Manager struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	confirmTTL time.Duration
}

func NewManager(secret string, accessTTL, refreshTTL time.Duration) *Manager {
	if accessTTL == 0 {
		accessTTL = 15 * time.Minute
	}
	if refreshTTL == 0 {
		refreshTTL = 7 * 24 * time.Hour
	}
	return &Manager{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		confirmTTL: 7 * 24 * time.Hour,
	}
}

// IssueAccessToken signs a short-lived access token for email. An optional
// ttl overrides the configured expiry.
func (m *Manager) IssueAccessToken(email string, ttl ...time.Duration) (string, error) {
	expiry := m.accessTTL
	if len(ttl) > 0 {
		expiry = ttl[0]
	}
	return m.issue(email, ScopeAccess, expiry)
}

func (m *Manager) IssueRefreshToken(email string) (string, error) {
	return m.issue(email, ScopeRefresh, m.refreshTTL)
}

// IssueConfirmationToken signs the token embedded in the emailed
// confirmation link. It has no scope claim.
func (m *Manager) IssueConfirmationToken(email string) (string, error) {
	return m.issue(email, ScopeNone, m.confirmTTL)
}

func (m *Manager) issue(email string, scope Scope, ttl time.Duration) (string, error) {
	now := time.Now().UTC()
	claims := Claims{
		Scope: string(scope),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// Decode verifies signature and expiry and returns the claims. When expected
// is not ScopeNone, a stored scope that differs fails with ErrInvalidScope.
func (m *Manager) Decode(tokenStr string, expected Scope) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	if expected != ScopeNone && claims.Scope != string(expected) {
		return nil, ErrInvalidScope
	}
	return claims, nil
}
