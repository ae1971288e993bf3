package services

import (
	"context"
	"errors"
)

// Sentinel errors surfaced to the handlers, which map each to a status code
// and detail string.
var (
	ErrEmailTaken         = errors.New("account already exists")
	ErrInvalidEmail       = errors.New("invalid email")
	ErrEmailNotConfirmed  = errors.New("email is not confirmed")
	ErrInvalidPassword    = errors.New("invalid password")
	ErrInvalidRefresh     = errors.New("invalid refresh token")
	ErrUnauthorized       = errors.New("could not validate credentials")
	ErrVerification       = errors.New("verification error")
	ErrVerificationToken  = errors.New("invalid token for email verification")
	ErrContactNotFound    = errors.New("contact not found")
	ErrContactDuplicate   = errors.New("contact with this phone or email already exists")
	ErrInternal           = errors.New("internal server error")
)

// ConfirmationMailer schedules a confirmation email without blocking the
// caller.
type ConfirmationMailer interface {
	Enqueue(to, username, link string)
}

// ImageHost stores uploaded avatar images and returns their public URL.
type ImageHost interface {
	Upload(ctx context.Context, key, contentType string, data []byte) (string, error)
}
