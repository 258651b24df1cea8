// internal/infrastructure/credentials/hosted.go
package credentials

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-backend/internal/config"
)

// HostedService talks to the hosted credential API over HTTP. The API owns
// passwords and password-reset mail; this process never sees a stored hash.
type HostedService struct {
	baseURL string
	apiKey  string
	client  *http.Client
	logger  *logrus.Logger
}

// NewHostedService creates a hosted credential client
func NewHostedService(cfg config.CredentialsConfig, logger *logrus.Logger) *HostedService {
	return &HostedService{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		client:  &http.Client{Timeout: cfg.Timeout},
		logger:  logger,
	}
}

type hostedAccountResponse struct {
	UID   string `json:"uid"`
	Email string `json:"email"`
}

type hostedErrorResponse struct {
	Code string `json:"code"`
}

// SignIn verifies an email/password pair against the hosted API
func (s *HostedService) SignIn(ctx context.Context, email, password string) (*Account, error) {
	var resp hostedAccountResponse
	err := s.post(ctx, "/v1/sessions", map[string]string{
		"email":    email,
		"password": password,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &Account{UID: resp.UID, Email: resp.Email}, nil
}

// SignUp registers a new account with the hosted API
func (s *HostedService) SignUp(ctx context.Context, email, password string) (*Account, error) {
	var resp hostedAccountResponse
	err := s.post(ctx, "/v1/accounts", map[string]string{
		"email":    email,
		"password": password,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &Account{UID: resp.UID, Email: resp.Email}, nil
}

// SendPasswordReset asks the hosted API to mail a password-reset link
func (s *HostedService) SendPasswordReset(ctx context.Context, email string) error {
	return s.post(ctx, "/v1/password-resets", map[string]string{"email": email}, nil)
}

// SignInMethods lists the sign-in methods registered for an email
func (s *HostedService) SignInMethods(ctx context.Context, email string) ([]string, error) {
	endpoint := s.baseURL + "/v1/accounts/methods?email=" + url.QueryEscape(email)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	s.authorize(req)

	httpResp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("credential service request failed: %w", err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != http.StatusOK {
		return nil, decodeError(httpResp)
	}

	var resp struct {
		Methods []string `json:"methods"`
	}
	if err := json.NewDecoder(httpResp.Body).Decode(&resp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return resp.Methods, nil
}

func (s *HostedService) post(ctx context.Context, path string, body, dest interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	s.authorize(req)

	httpResp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("credential service request failed: %w", err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		return decodeError(httpResp)
	}

	if dest == nil {
		return nil
	}
	if err := json.NewDecoder(httpResp.Body).Decode(dest); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func (s *HostedService) authorize(req *http.Request) {
	if s.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.apiKey)
	}
}

// decodeError maps an error response to a coded credential error so the
// hosted and local providers fail identically
func decodeError(resp *http.Response) error {
	var body hostedErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil && body.Code != "" {
		return &Error{Code: body.Code}
	}
	return fmt.Errorf("credential service returned status %d", resp.StatusCode)
}
