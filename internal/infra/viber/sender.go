package viber

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"alertdispatch/internal/domain/notification"
	"alertdispatch/internal/infra/outbound"
)

var _ notification.Sender = (*Sender)(nil)

const authHeader = "X-Viber-Auth-Token"

// Config holds the Viber REST API settings.
type Config struct {
	// APIURL ends with a slash, e.g. https://chatapi.viber.com/pa/
	APIURL       string
	AuthToken    string
	SenderName   string
	SenderAvatar string
	Timeout      time.Duration
}

// Sender delivers expiry alerts as Viber text messages from a public account.
type Sender struct {
	cfg        Config
	localizer  notification.Localizer
	httpClient *http.Client
}

// NewSender creates a Viber sender.
func NewSender(cfg Config, localizer notification.Localizer) *Sender {
	return &Sender{
		cfg:        cfg,
		localizer:  localizer,
		httpClient: outbound.NewClient(cfg.Timeout),
	}
}

// Channel returns the Viber channel identifier.
func (s *Sender) Channel() notification.Channel {
	return notification.ChannelViber
}

type messageSender struct {
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
}

type sendMessagePayload struct {
	Receiver string        `json:"receiver"`
	Type     string        `json:"type"`
	Text     string        `json:"text"`
	Sender   messageSender `json:"sender"`
}

// Send posts the localized alert to {api_url}send_message.
func (s *Sender) Send(ctx context.Context, req notification.Request) bool {
	if req.ViberUserID == "" {
		slog.Warn("viber user id is missing")
		return false
	}
	if s.cfg.AuthToken == "" {
		slog.Error("viber auth token is not configured")
		return false
	}

	payload := sendMessagePayload{
		Receiver: req.ViberUserID,
		Type:     "text",
		Text:     s.localizer.Resolve(notification.KeyViberExpiry, req.Locale, notification.ExpiryArgs(req)...),
		Sender: messageSender{
			Name:   s.cfg.SenderName,
			Avatar: s.cfg.SenderAvatar,
		},
	}

	headers := map[string]string{authHeader: s.cfg.AuthToken}

	resp, err := outbound.PostJSON(ctx, s.httpClient, s.cfg.APIURL+"send_message", headers, payload)
	if err != nil {
		slog.Error("failed to send viber notification",
			"user_id", req.ViberUserID,
			"error", err,
			"response", outbound.ResponseDetail(err),
		)
		return false
	}

	slog.Info("viber notification sent",
		"user_id", req.ViberUserID,
		"status", resp.StatusCode,
		"response", string(resp.Body),
	)
	return true
}
