// internal/domain/identity/service.go
package identity

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-backend/internal/infrastructure/credentials"
	"github.com/your-org/storefront-backend/internal/infrastructure/store/snapshot"
)

// AuthError carries the user-facing message for a failed auth flow. The raw
// credential error stays in the logs; only the message leaves the service.
type AuthError struct {
	Code    string
	Message string
}

func (e *AuthError) Error() string {
	return e.Message
}

// RemoteStore is the subset of the remote store the identity service needs
type RemoteStore interface {
	Read(ctx context.Context, path string, dest interface{}) error
	Write(ctx context.Context, path string, value interface{}) error
}

// Service owns the sign-in state: it drives the credential backend, keeps the
// remote user profile in sync and persists the active identity locally.
type Service struct {
	snapshot *snapshot.Store
	remote   RemoteStore
	creds    credentials.Service
	logger   *logrus.Logger
}

// NewService creates an identity service
func NewService(snap *snapshot.Store, rs RemoteStore, creds credentials.Service, logger *logrus.Logger) *Service {
	return &Service{
		snapshot: snap,
		remote:   rs,
		creds:    creds,
		logger:   logger,
	}
}

// profile is the remote user record at users/{uid}
type profile struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Login signs in against the credential backend, loads the remote profile and
// persists the identity locally. A missing profile falls back to deriving the
// username from the email.
func (s *Service) Login(ctx context.Context, email, password string) (*Identity, error) {
	account, err := s.creds.SignIn(ctx, email, password)
	if err != nil {
		s.logger.WithError(err).WithField("email", email).Warn("sign-in failed")
		return nil, s.friendly(ctx, email, err)
	}

	id := Identity{UID: account.UID, Email: account.Email}

	var p profile
	if err := s.remote.Read(ctx, userPath(account.UID), &p); err == nil && p.Username != "" {
		id.Username = p.Username
	} else {
		id.Username = usernameFromEmail(account.Email)
	}

	if err := s.persist(id); err != nil {
		return nil, err
	}

	s.logger.WithField("uid", id.UID).Info("user signed in")
	return &id, nil
}

// Register creates an account, writes the remote profile and signs the new
// user in locally
func (s *Service) Register(ctx context.Context, username, email, password string) (*Identity, error) {
	account, err := s.creds.SignUp(ctx, email, password)
	if err != nil {
		s.logger.WithError(err).WithField("email", email).Warn("sign-up failed")
		return nil, s.friendly(ctx, email, err)
	}

	if err := s.remote.Write(ctx, userPath(account.UID), profile{
		Username: username,
		Email:    email,
	}); err != nil {
		// The account exists either way; the profile can be rebuilt on the
		// next login.
		s.logger.WithError(err).WithField("uid", account.UID).Warn("remote profile write failed")
	}

	id := Identity{UID: account.UID, Email: account.Email, Username: username}
	if err := s.persist(id); err != nil {
		return nil, err
	}

	s.logger.WithField("uid", id.UID).Info("user registered")
	return &id, nil
}

// ResetPassword asks the credential backend to mail a reset link
func (s *Service) ResetPassword(ctx context.Context, email string) error {
	if err := s.creds.SendPasswordReset(ctx, email); err != nil {
		s.logger.WithError(err).WithField("email", email).Warn("password reset failed")
		return s.friendly(ctx, email, err)
	}
	return nil
}

// Logout clears the locally persisted identity. The cart is left alone so a
// guest session keeps its items.
func (s *Service) Logout() error {
	if err := s.snapshot.Delete(snapshot.KeyCurrentUser); err != nil {
		return err
	}
	return s.snapshot.Delete(snapshot.KeyUsername)
}

// Current returns the locally persisted identity, if any
func (s *Service) Current() *Identity {
	var id Identity
	if !s.snapshot.GetJSON(snapshot.KeyCurrentUser, &id) || !id.Valid() {
		return nil
	}
	return &id
}

// StashRedirect records where to send the user after the next login
func (s *Service) StashRedirect(path string) error {
	return s.snapshot.Set(snapshot.KeyRedirectAfterLogin, path)
}

// ConsumeRedirect returns and clears the stashed post-login destination
func (s *Service) ConsumeRedirect() string {
	path, ok := s.snapshot.Get(snapshot.KeyRedirectAfterLogin)
	if !ok {
		return ""
	}
	if err := s.snapshot.Delete(snapshot.KeyRedirectAfterLogin); err != nil {
		s.logger.WithError(err).Warn("failed to clear login redirect")
	}
	return path
}

func (s *Service) persist(id Identity) error {
	if err := s.snapshot.SetJSON(snapshot.KeyCurrentUser, id); err != nil {
		return fmt.Errorf("failed to persist identity: %w", err)
	}
	if err := s.snapshot.Set(snapshot.KeyUsername, id.Username); err != nil {
		return fmt.Errorf("failed to persist username: %w", err)
	}
	return nil
}

// friendly maps a credential error to its user-facing message. The generic
// invalid-credential code is disambiguated by asking the backend whether the
// email is registered at all.
func (s *Service) friendly(ctx context.Context, email string, err error) error {
	code := credentials.Code(err)
	switch code {
	case credentials.ErrInvalidCredential.Code:
		methods, mErr := s.creds.SignInMethods(ctx, email)
		if mErr == nil && len(methods) == 0 {
			return &AuthError{Code: code, Message: "No account found with this email."}
		}
		return &AuthError{Code: code, Message: "Incorrect password. Please try again."}
	case credentials.ErrWrongPassword.Code:
		return &AuthError{Code: code, Message: "Incorrect password. Please try again."}
	case credentials.ErrUserNotFound.Code:
		return &AuthError{Code: code, Message: "No account found with this email."}
	case credentials.ErrEmailInUse.Code:
		return &AuthError{Code: code, Message: "This email is already registered."}
	case credentials.ErrInvalidEmail.Code:
		return &AuthError{Code: code, Message: "Enter a valid email address."}
	case credentials.ErrWeakPassword.Code:
		return &AuthError{Code: code, Message: "Password should be at least 6 characters."}
	default:
		return &AuthError{Code: code, Message: "An unexpected error occurred. Please try again."}
	}
}

func userPath(uid string) string {
	return "users/" + uid
}

func usernameFromEmail(email string) string {
	if i := strings.Index(email, "@"); i > 0 {
		return email[:i]
	}
	return email
}
