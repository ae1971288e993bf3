package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/fathima-sithara/contacts-service/internal/tokens"
)

type authFixture struct {
	svc    *AuthService
	repo   *fakeUserRepo
	cache  *fakeUserCache
	mailer *fakeMailer
	tokens *tokens.Manager
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	repo := newFakeUserRepo()
	userCache := newFakeUserCache()
	mail := &fakeMailer{}
	manager := tokens.NewManager("test-secret", 0, 0)
	svc := NewAuthService(repo, manager, userCache, mail, "http://localhost:8080/", zap.NewNop())
	return &authFixture{svc: svc, repo: repo, cache: userCache, mailer: mail, tokens: manager}
}

func (f *authFixture) signupAndConfirm(t *testing.T, email, password string) {
	t.Helper()
	_, err := f.svc.Signup(context.Background(), "jane", email, password)
	require.NoError(t, err)
	require.NoError(t, f.repo.ConfirmEmail(context.Background(), email))
}

func TestSignup_CreatesUnconfirmedUser(t *testing.T) {
	t.Parallel()

	f := newAuthFixture(t)
	user, err := f.svc.Signup(context.Background(), "jane", "jane@example.com", "secret1")
	require.NoError(t, err)

	assert.False(t, user.Confirmed)
	assert.NotEqual(t, "secret1", user.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("secret1")))
	assert.Contains(t, user.Avatar, "gravatar.com")
}

func TestSignup_SchedulesConfirmationEmail(t *testing.T) {
	t.Parallel()

	f := newAuthFixture(t)
	_, err := f.svc.Signup(context.Background(), "jane", "jane@example.com", "secret1")
	require.NoError(t, err)

	sent := f.mailer.sent()
	require.Len(t, sent, 1)
	assert.Equal(t, "jane@example.com", sent[0].to)
	assert.Contains(t, sent[0].link, "http://localhost:8080/auth/confirmed_email/")
}

func TestSignup_DuplicateEmail(t *testing.T) {
	t.Parallel()

	f := newAuthFixture(t)
	_, err := f.svc.Signup(context.Background(), "jane", "jane@example.com", "secret1")
	require.NoError(t, err)

	_, err = f.svc.Signup(context.Background(), "other", "jane@example.com", "secret2")
	assert.ErrorIs(t, err, ErrEmailTaken)
	assert.Len(t, f.repo.users, 1)
}

func TestLogin_FailureReasonsAreDistinct(t *testing.T) {
	t.Parallel()

	f := newAuthFixture(t)
	ctx := context.Background()

	_, err := f.svc.Login(ctx, "nobody@example.com", "whatever")
	assert.ErrorIs(t, err, ErrInvalidEmail)

	_, err = f.svc.Signup(ctx, "jane", "jane@example.com", "secret1")
	require.NoError(t, err)

	_, err = f.svc.Login(ctx, "jane@example.com", "secret1")
	assert.ErrorIs(t, err, ErrEmailNotConfirmed)

	require.NoError(t, f.repo.ConfirmEmail(ctx, "jane@example.com"))
	_, err = f.svc.Login(ctx, "jane@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidPassword)
}

func TestLogin_IssuesPairAndPersistsRefreshToken(t *testing.T) {
	t.Parallel()

	f := newAuthFixture(t)
	ctx := context.Background()
	f.signupAndConfirm(t, "jane@example.com", "secret1")

	pair, err := f.svc.Login(ctx, "jane@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "bearer", pair.TokenType)

	claims, err := f.tokens.Decode(pair.AccessToken, tokens.ScopeAccess)
	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", claims.Subject)

	stored := f.repo.storedToken("jane@example.com")
	require.NotNil(t, stored)
	assert.Equal(t, pair.RefreshToken, *stored)
}

func TestLogin_OverwritesPreviousRefreshToken(t *testing.T) {
	t.Parallel()

	f := newAuthFixture(t)
	ctx := context.Background()
	f.signupAndConfirm(t, "jane@example.com", "secret1")

	first, err := f.svc.Login(ctx, "jane@example.com", "secret1")
	require.NoError(t, err)
	second, err := f.svc.Login(ctx, "jane@example.com", "secret1")
	require.NoError(t, err)

	stored := f.repo.storedToken("jane@example.com")
	require.NotNil(t, stored)
	assert.Equal(t, second.RefreshToken, *stored)

	// The first pair's refresh token is no longer accepted.
	_, err = f.svc.Refresh(ctx, first.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidRefresh)
}

func TestRefresh_RotatesOnEveryUse(t *testing.T) {
	t.Parallel()

	f := newAuthFixture(t)
	ctx := context.Background()
	f.signupAndConfirm(t, "jane@example.com", "secret1")

	pair, err := f.svc.Login(ctx, "jane@example.com", "secret1")
	require.NoError(t, err)

	rotated, err := f.svc.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, pair.RefreshToken, rotated.RefreshToken)

	// Reusing the rotated-out token fails and clears the stored token,
	// forcing a re-login.
	_, err = f.svc.Refresh(ctx, pair.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidRefresh)
	assert.Nil(t, f.repo.storedToken("jane@example.com"))

	// The freshly rotated token is dead too once the stored one is gone.
	_, err = f.svc.Refresh(ctx, rotated.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidRefresh)
}

func TestRefresh_RejectsAccessTokenScope(t *testing.T) {
	t.Parallel()

	f := newAuthFixture(t)
	ctx := context.Background()
	f.signupAndConfirm(t, "jane@example.com", "secret1")

	pair, err := f.svc.Login(ctx, "jane@example.com", "secret1")
	require.NoError(t, err)

	_, err = f.svc.Refresh(ctx, pair.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidRefresh)
}

func TestConfirmEmail_FlipsFlagOnce(t *testing.T) {
	t.Parallel()

	f := newAuthFixture(t)
	ctx := context.Background()
	_, err := f.svc.Signup(ctx, "jane", "jane@example.com", "secret1")
	require.NoError(t, err)

	token, err := f.tokens.IssueConfirmationToken("jane@example.com")
	require.NoError(t, err)

	msg, err := f.svc.ConfirmEmail(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, MsgEmailConfirmed, msg)
	assert.True(t, f.repo.users["jane@example.com"].Confirmed)

	// Idempotent second confirmation.
	msg, err = f.svc.ConfirmEmail(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, MsgAlreadyConfirmed, msg)
	assert.True(t, f.repo.users["jane@example.com"].Confirmed)
}

func TestConfirmEmail_UnknownUser(t *testing.T) {
	t.Parallel()

	f := newAuthFixture(t)
	token, err := f.tokens.IssueConfirmationToken("ghost@example.com")
	require.NoError(t, err)

	_, err = f.svc.ConfirmEmail(context.Background(), token)
	assert.ErrorIs(t, err, ErrVerification)
}

func TestConfirmEmail_MalformedToken(t *testing.T) {
	t.Parallel()

	f := newAuthFixture(t)
	_, err := f.svc.ConfirmEmail(context.Background(), "garbage")
	assert.ErrorIs(t, err, ErrVerificationToken)
}

func TestResendConfirmation(t *testing.T) {
	t.Parallel()

	f := newAuthFixture(t)
	ctx := context.Background()
	_, err := f.svc.Signup(ctx, "jane", "jane@example.com", "secret1")
	require.NoError(t, err)

	msg, err := f.svc.ResendConfirmation(ctx, "jane@example.com")
	require.NoError(t, err)
	assert.Equal(t, MsgCheckEmail, msg)
	assert.Len(t, f.mailer.sent(), 2)

	require.NoError(t, f.repo.ConfirmEmail(ctx, "jane@example.com"))
	msg, err = f.svc.ResendConfirmation(ctx, "jane@example.com")
	require.NoError(t, err)
	assert.Equal(t, MsgAlreadyConfirmed, msg)

	// Unknown addresses get the same neutral answer, and no email.
	msg, err = f.svc.ResendConfirmation(ctx, "ghost@example.com")
	require.NoError(t, err)
	assert.Equal(t, MsgCheckEmail, msg)
	assert.Len(t, f.mailer.sent(), 2)
}

func TestCurrentUser_PopulatesCacheOnMiss(t *testing.T) {
	t.Parallel()

	f := newAuthFixture(t)
	ctx := context.Background()
	f.signupAndConfirm(t, "jane@example.com", "secret1")

	access, err := f.tokens.IssueAccessToken("jane@example.com")
	require.NoError(t, err)

	user, err := f.svc.CurrentUser(ctx, access)
	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", user.Email)

	entry, ok := f.cache.entries["jane@example.com"]
	require.True(t, ok)
	assert.Equal(t, 300*time.Second, entry.ttl)

	// Second resolution is served from the cache without a store read.
	reads := f.repo.gets
	_, err = f.svc.CurrentUser(ctx, access)
	require.NoError(t, err)
	assert.Equal(t, reads, f.repo.gets)
}

func TestCurrentUser_Failures(t *testing.T) {
	t.Parallel()

	f := newAuthFixture(t)
	ctx := context.Background()

	_, err := f.svc.CurrentUser(ctx, "garbage")
	assert.ErrorIs(t, err, ErrUnauthorized)

	refresh, err := f.tokens.IssueRefreshToken("jane@example.com")
	require.NoError(t, err)
	_, err = f.svc.CurrentUser(ctx, refresh)
	assert.ErrorIs(t, err, ErrUnauthorized)

	access, err := f.tokens.IssueAccessToken("ghost@example.com")
	require.NoError(t, err)
	_, err = f.svc.CurrentUser(ctx, access)
	assert.ErrorIs(t, err, ErrUnauthorized)
}
