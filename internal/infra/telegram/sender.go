package telegram

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"alertdispatch/internal/domain/notification"
	"alertdispatch/internal/infra/outbound"
)

var _ notification.Sender = (*Sender)(nil)

// Config holds the Telegram Bot API settings.
type Config struct {
	// APIURL is the prefix the bot token is appended to, e.g. https://api.telegram.org/bot
	APIURL   string
	BotToken string
	Timeout  time.Duration
}

// Sender delivers expiry alerts as plain Telegram bot messages.
type Sender struct {
	cfg        Config
	localizer  notification.Localizer
	httpClient *http.Client
}

// NewSender creates a Telegram sender.
func NewSender(cfg Config, localizer notification.Localizer) *Sender {
	return &Sender{
		cfg:        cfg,
		localizer:  localizer,
		httpClient: outbound.NewClient(cfg.Timeout),
	}
}

// Channel returns the Telegram channel identifier.
func (s *Sender) Channel() notification.Channel {
	return notification.ChannelTelegram
}

type sendMessagePayload struct {
	ChatID string `json:"chat_id"`
	Text   string `json:"text"`
}

// Send posts the localized alert to {api_url}{bot_token}/sendMessage.
// The token travels in the path; no authorization header is sent.
func (s *Sender) Send(ctx context.Context, req notification.Request) bool {
	if req.TelegramChatID == "" {
		slog.Warn("telegram chat id is missing")
		return false
	}
	if s.cfg.BotToken == "" {
		slog.Error("telegram bot token is not configured")
		return false
	}

	payload := sendMessagePayload{
		ChatID: req.TelegramChatID,
		Text:   s.localizer.Resolve(notification.KeyTelegramExpiry, req.Locale, notification.ExpiryArgs(req)...),
	}

	url := s.cfg.APIURL + s.cfg.BotToken + "/sendMessage"
	resp, err := outbound.PostJSON(ctx, s.httpClient, url, nil, payload)
	if err != nil {
		// err may embed the URL, which carries the token
		slog.Error("failed to send telegram notification",
			"chat_id", req.TelegramChatID,
			"error", redact(err.Error(), s.cfg.BotToken),
			"response", outbound.ResponseDetail(err),
		)
		return false
	}

	slog.Info("telegram notification sent",
		"chat_id", req.TelegramChatID,
		"status", resp.StatusCode,
		"response", string(resp.Body),
	)
	return true
}
