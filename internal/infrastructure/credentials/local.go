// internal/infrastructure/credentials/local.go
package credentials

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/infrastructure/store/snapshot"
	"github.com/your-org/storefront-backend/internal/pkg/email"
	"github.com/your-org/storefront-backend/internal/pkg/validate"
)

const minPasswordLength = 6

// LocalService is a self-contained credential backend: bcrypt hashes in the
// snapshot store, keyed by lowercased email. Meant for development and for
// running without the hosted service.
type LocalService struct {
	snapshot *snapshot.Store
	mailer   *email.Service
	cost     int
	logger   *logrus.Logger
}

// NewLocalService creates a local credential backend
func NewLocalService(snap *snapshot.Store, mailer *email.Service, cfg config.SecurityConfig, logger *logrus.Logger) *LocalService {
	return &LocalService{
		snapshot: snap,
		mailer:   mailer,
		cost:     cfg.BcryptCost,
		logger:   logger,
	}
}

type localUser struct {
	UID          string `json:"uid"`
	Email        string `json:"email"`
	PasswordHash string `json:"passwordHash"`
}

// SignIn verifies an email/password pair against the stored hash
func (s *LocalService) SignIn(_ context.Context, emailAddr, password string) (*Account, error) {
	users := s.load()
	user, ok := users[normalizeEmail(emailAddr)]
	if !ok {
		return nil, ErrInvalidCredential
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrWrongPassword
	}
	return &Account{UID: user.UID, Email: user.Email}, nil
}

// SignUp registers a new local account
func (s *LocalService) SignUp(_ context.Context, emailAddr, password string) (*Account, error) {
	if !validate.Email(emailAddr) {
		return nil, ErrInvalidEmail
	}
	if len(password) < minPasswordLength {
		return nil, ErrWeakPassword
	}

	users := s.load()
	key := normalizeEmail(emailAddr)
	if _, exists := users[key]; exists {
		return nil, ErrEmailInUse
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := localUser{
		UID:          uuid.New().String(),
		Email:        emailAddr,
		PasswordHash: string(hash),
	}
	users[key] = user

	if err := s.snapshot.SetJSON(snapshot.KeyLocalUsers, users); err != nil {
		return nil, fmt.Errorf("failed to persist account: %w", err)
	}
	return &Account{UID: user.UID, Email: user.Email}, nil
}

// SendPasswordReset mails a reset link to a known account. Unknown emails are
// silently accepted so the endpoint does not reveal which accounts exist.
func (s *LocalService) SendPasswordReset(_ context.Context, emailAddr string) error {
	users := s.load()
	user, ok := users[normalizeEmail(emailAddr)]
	if !ok {
		s.logger.WithField("email", emailAddr).Debug("password reset for unknown email ignored")
		return nil
	}

	if err := s.mailer.SendPasswordReset(user.Email); err != nil {
		return fmt.Errorf("failed to send reset email: %w", err)
	}
	return nil
}

// SignInMethods reports ["password"] for a known email, nothing otherwise
func (s *LocalService) SignInMethods(_ context.Context, emailAddr string) ([]string, error) {
	if _, ok := s.load()[normalizeEmail(emailAddr)]; ok {
		return []string{"password"}, nil
	}
	return nil, nil
}

func (s *LocalService) load() map[string]localUser {
	users := make(map[string]localUser)
	s.snapshot.GetJSON(snapshot.KeyLocalUsers, &users)
	if users == nil {
		users = make(map[string]localUser)
	}
	return users
}

func normalizeEmail(addr string) string {
	return strings.ToLower(strings.TrimSpace(addr))
}
