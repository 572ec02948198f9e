// Package notify delivers the appointment confirmation snapshot. Dispatch
// backends sit behind EmailSender; the Service decides recipients and body.
package notify

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/hellohealth/intake-platform/pkg/logging"
)

// EmailSender delivers one message. Implementations report failure as an
// error and never block past the caller's context.
type EmailSender interface {
	Send(ctx context.Context, msg EmailMessage) error
}

// EmailMessage is one outbound email. Body is plain text; HTML, when set,
// is the alternative part.
type EmailMessage struct {
	To      string
	ToName  string
	Subject string
	Body    string
	HTML    string
}

// SendGridConfig configures the SendGrid backend.
type SendGridConfig struct {
	APIKey    string
	FromEmail string
	FromName  string
}

// SendGridSender dispatches through the SendGrid v3 API.
type SendGridSender struct {
	client *sendgrid.Client
	from   *mail.Email
	logger *logging.Logger
}

// NewSendGridSender builds the SendGrid backend. Returns nil without an API
// key so callers can treat an unconfigured provider uniformly.
func NewSendGridSender(cfg SendGridConfig, logger *logging.Logger) *SendGridSender {
	if cfg.APIKey == "" {
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.FromName == "" {
		cfg.FromName = "HelloHealth"
	}
	return &SendGridSender{
		client: sendgrid.NewSendClient(cfg.APIKey),
		from:   mail.NewEmail(cfg.FromName, cfg.FromEmail),
		logger: logger,
	}
}

// Send dispatches msg, treating any 4xx/5xx API status as a failure.
func (s *SendGridSender) Send(ctx context.Context, msg EmailMessage) error {
	if s == nil || s.client == nil {
		return fmt.Errorf("notify: sendgrid not configured")
	}

	html := msg.HTML
	if html == "" {
		html = msg.Body
	}
	message := mail.NewSingleEmail(s.from, msg.Subject, mail.NewEmail(msg.ToName, msg.To), msg.Body, html)

	resp, err := s.client.SendWithContext(ctx, message)
	if err != nil {
		s.logger.Error("notify: sendgrid dispatch failed", "error", err, "to", msg.To)
		return fmt.Errorf("notify: sendgrid dispatch failed: %w", err)
	}
	if resp.StatusCode >= 400 {
		s.logger.Error("notify: sendgrid rejected message", "status", resp.StatusCode, "to", msg.To)
		return fmt.Errorf("notify: sendgrid returned status %d", resp.StatusCode)
	}

	s.logger.Info("notify: dispatched via sendgrid", "to", msg.To, "status", resp.StatusCode)
	return nil
}

// StubEmailSender logs instead of sending. Used when no provider is
// configured, so local runs complete the flow without credentials.
type StubEmailSender struct {
	logger *logging.Logger
}

// NewStubEmailSender builds the logging-only backend.
func NewStubEmailSender(logger *logging.Logger) *StubEmailSender {
	if logger == nil {
		logger = logging.Default()
	}
	return &StubEmailSender{logger: logger}
}

// Send records the would-be dispatch and succeeds.
func (s *StubEmailSender) Send(ctx context.Context, msg EmailMessage) error {
	s.logger.Info("notify: stub dispatch", "to", msg.To, "subject", msg.Subject)
	return nil
}

var (
	_ EmailSender = (*SendGridSender)(nil)
	_ EmailSender = (*StubEmailSender)(nil)
)
