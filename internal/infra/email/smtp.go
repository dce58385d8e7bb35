package email

import (
	"context"
	"log/slog"
	"time"

	"alertdispatch/internal/domain/notification"

	"gopkg.in/gomail.v2"
)

var _ notification.Sender = (*Sender)(nil)

// DefaultTimeout bounds one SMTP exchange when no timeout is configured.
const DefaultTimeout = 10 * time.Second

// Config holds SMTP settings for the email channel.
type Config struct {
	SMTPHost    string
	SMTPPort    int
	Username    string
	Password    string
	FromAddress string
	FromName    string
	// Timeout bounds the whole SMTP exchange, from connect to QUIT.
	Timeout time.Duration
}

// dialer delivers one message to one envelope recipient.
type dialer interface {
	DialAndSend(ctx context.Context, from, to string, m *gomail.Message) error
}

// Sender delivers expiry alerts over SMTP.
type Sender struct {
	cfg       Config
	localizer notification.Localizer
	dialer    dialer
}

// NewSender creates an SMTP email sender.
func NewSender(cfg Config, localizer notification.Localizer) *Sender {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &Sender{
		cfg:       cfg,
		localizer: localizer,
		dialer: &smtpDialer{
			host:     cfg.SMTPHost,
			port:     cfg.SMTPPort,
			username: cfg.Username,
			password: cfg.Password,
		},
	}
}

// Channel returns the email channel identifier.
func (s *Sender) Channel() notification.Channel {
	return notification.ChannelEmail
}

// buildMessage uses the caller's subject and body when given and the localized
// expiry texts otherwise.
func (s *Sender) buildMessage(req notification.Request) *gomail.Message {
	args := notification.ExpiryArgs(req)

	subject := req.MessageSubject
	if subject == "" {
		subject = s.localizer.Resolve(notification.KeyEmailExpirySubject, req.Locale, args...)
	}
	body := req.MessageBody
	if body == "" {
		body = s.localizer.Resolve(notification.KeyEmailExpiry, req.Locale, args...)
	}

	m := gomail.NewMessage()
	if s.cfg.FromName != "" {
		m.SetAddressHeader("From", s.cfg.FromAddress, s.cfg.FromName)
	} else {
		m.SetHeader("From", s.cfg.FromAddress)
	}
	m.SetHeader("To", req.RecipientEmail)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)
	return m
}

// Send delivers the alert through the configured SMTP server. The exchange is bounded
// by the configured timeout regardless of the caller's deadline.
func (s *Sender) Send(ctx context.Context, req notification.Request) bool {
	if req.RecipientEmail == "" {
		slog.Warn("email recipient address is missing")
		return false
	}
	if s.cfg.SMTPHost == "" || s.cfg.FromAddress == "" {
		slog.Error("smtp host or from address is not configured")
		return false
	}

	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	msg := s.buildMessage(req)

	done := make(chan error, 1)
	go func() {
		done <- s.dialer.DialAndSend(ctx, s.cfg.FromAddress, req.RecipientEmail, msg)
	}()

	select {
	case err := <-done:
		if err != nil {
			slog.Error("failed to send email notification",
				"to", req.RecipientEmail,
				"error", err,
			)
			return false
		}
	case <-ctx.Done():
		slog.Error("email notification abandoned",
			"to", req.RecipientEmail,
			"error", ctx.Err(),
		)
		return false
	}

	slog.Info("email notification sent", "to", req.RecipientEmail)
	return true
}
