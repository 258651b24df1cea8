// internal/infrastructure/credentials/credentials.go
package credentials

import (
	"context"
	"errors"
)

// Account is the credential service's view of a user: an opaque uid and the
// verified email. Profile data lives elsewhere.
type Account struct {
	UID   string `json:"uid"`
	Email string `json:"email"`
}

// Service abstracts the external credential backend. The hosted provider
// talks to it over HTTP; the local provider keeps bcrypt hashes in the
// snapshot store for offline development.
type Service interface {
	SignIn(ctx context.Context, email, password string) (*Account, error)
	SignUp(ctx context.Context, email, password string) (*Account, error)
	SendPasswordReset(ctx context.Context, email string) error
	// SignInMethods reports the sign-in methods registered for an email,
	// e.g. ["password"]. An unknown email yields an empty list, not an
	// error.
	SignInMethods(ctx context.Context, email string) ([]string, error)
}

// Error is a coded credential failure. Codes are stable across providers so
// callers can map them to user-facing messages.
type Error struct {
	Code string
}

func (e *Error) Error() string {
	return "credentials: " + e.Code
}

var (
	ErrInvalidCredential = &Error{Code: "auth/invalid-credential"}
	ErrWrongPassword     = &Error{Code: "auth/wrong-password"}
	ErrUserNotFound      = &Error{Code: "auth/user-not-found"}
	ErrEmailInUse        = &Error{Code: "auth/email-already-in-use"}
	ErrInvalidEmail      = &Error{Code: "auth/invalid-email"}
	ErrWeakPassword      = &Error{Code: "auth/weak-password"}
)

// Code extracts the credential error code, or "" for other errors
func Code(err error) string {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Code
	}
	return ""
}
