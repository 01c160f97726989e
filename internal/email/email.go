package email

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"gopkg.in/gomail.v2"

	"github.com/jwalitptl/practice-api/internal/config"
	"github.com/jwalitptl/practice-api/pkg/logger"
)

// Service delivers account mail.
type Service interface {
	SendPasswordReset(ctx context.Context, to, name, token string, expiresAt time.Time) error
}

// NewService picks the SMTP sender when a relay is configured, otherwise mail is only logged.
func NewService(cfg config.MailConfig, log *logger.Logger) Service {
	if !cfg.Enabled() {
		return NewLogService(log)
	}
	return NewSMTPService(cfg, log)
}

type sender interface {
	DialAndSend(m ...*gomail.Message) error
}

// SMTPService sends through an SMTP relay with gomail.
type SMTPService struct {
	dialer   sender
	from     string
	resetURL string
	log      *logger.Logger
}

func NewSMTPService(cfg config.MailConfig, log *logger.Logger) *SMTPService {
	return &SMTPService{
		dialer:   gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:     cfg.From,
		resetURL: cfg.ResetURL,
		log:      log,
	}
}

func (s *SMTPService) SendPasswordReset(ctx context.Context, to, name, token string, expiresAt time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetAddressHeader("To", to, name)
	m.SetHeader("Subject", "Reset your password")
	m.SetBody("text/plain", resetBody(name, resetLink(s.resetURL, token), expiresAt))

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send password reset email: %w", err)
	}

	s.log.Info("password reset email sent", "to", to)
	return nil
}

// LogService writes mail to the log instead of sending it.
type LogService struct {
	log *logger.Logger
}

func NewLogService(log *logger.Logger) *LogService {
	return &LogService{log: log}
}

func (s *LogService) SendPasswordReset(ctx context.Context, to, name, token string, expiresAt time.Time) error {
	s.log.Warn("mail relay not configured, password reset email not sent",
		"to", to,
		"expires_at", expiresAt.Format(time.RFC3339),
	)
	return nil
}

func resetLink(base, token string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base + "?token=" + url.QueryEscape(token)
	}
	q := u.Query()
	q.Set("token", token)
	u.RawQuery = q.Encode()
	return u.String()
}

func resetBody(name, link string, expiresAt time.Time) string {
	return fmt.Sprintf(
		"Hello %s,\n\nA password reset was requested for your account. Use the link below to choose a new password:\n\n%s\n\nThe link expires at %s and can only be used once. If you did not ask for this, ignore this message.\n",
		name,
		link,
		expiresAt.UTC().Format("2006-01-02 15:04 MST"),
	)
}
