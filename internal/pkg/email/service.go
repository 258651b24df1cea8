// internal/pkg/email/service.go
package email

import (
	"bytes"
	"fmt"
	"net/smtp"

	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-backend/internal/config"
)

// Service sends transactional mail over SMTP. Only the local credential
// backend uses it; the hosted backend mails its own reset links.
type Service struct {
	config config.EmailConfig
	logger *logrus.Logger

	// send is swappable for tests
	send func(addr string, auth smtp.Auth, from string, to []string, msg []byte) error
}

// NewService creates a new email service
func NewService(cfg config.EmailConfig, logger *logrus.Logger) *Service {
	return &Service{
		config: cfg,
		logger: logger,
		send:   smtp.SendMail,
	}
}

// SendPasswordReset mails a password-reset message to the given address
func (s *Service) SendPasswordReset(to string) error {
	subject := fmt.Sprintf("Reset your %s password", s.config.FromName)
	body := fmt.Sprintf(
		"<p>We received a request to reset the password for %s.</p>"+
			"<p>If this was you, follow the link in your account settings to choose a new password. "+
			"If not, you can safely ignore this email.</p>", to)
	return s.sendHTML(to, subject, body)
}

func (s *Service) sendHTML(to, subject, htmlBody string) error {
	if s.config.SMTPHost == "" {
		// No SMTP configured: log instead of failing, useful in development
		s.logger.WithFields(logrus.Fields{
			"to":      to,
			"subject": subject,
		}).Info("SMTP not configured, skipping email send")
		return nil
	}

	from := s.config.FromEmail
	if s.config.FromName != "" {
		from = fmt.Sprintf("%s <%s>", s.config.FromName, s.config.FromEmail)
	}

	var msg bytes.Buffer
	msg.WriteString(fmt.Sprintf("From: %s\r\n", from))
	msg.WriteString(fmt.Sprintf("To: %s\r\n", to))
	msg.WriteString(fmt.Sprintf("Subject: %s\r\n", subject))
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=\"utf-8\"\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(htmlBody)

	auth := smtp.PlainAuth("", s.config.SMTPUser, s.config.SMTPPass, s.config.SMTPHost)
	addr := fmt.Sprintf("%s:%d", s.config.SMTPHost, s.config.SMTPPort)

	if err := s.send(addr, auth, s.config.FromEmail, []string{to}, msg.Bytes()); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}
