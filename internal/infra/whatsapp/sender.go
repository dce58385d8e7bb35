package whatsapp

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"alertdispatch/internal/domain/notification"
	"alertdispatch/internal/infra/outbound"
)

var _ notification.Sender = (*Sender)(nil)

// Config holds the WhatsApp Business API settings.
type Config struct {
	APIURL            string
	AccessToken       string
	FromPhoneNumberID string
	// TemplateName is a message template pre-approved in WhatsApp Business Manager.
	TemplateName string
	Timeout      time.Duration
}

// Sender delivers expiry alerts as WhatsApp template messages.
// Business-initiated messages must use a pre-approved template.
type Sender struct {
	cfg        Config
	httpClient *http.Client
}

// NewSender creates a WhatsApp sender. Missing credentials are not an error here;
// every Send fails until they are configured.
func NewSender(cfg Config) *Sender {
	return &Sender{
		cfg:        cfg,
		httpClient: outbound.NewClient(cfg.Timeout),
	}
}

// Channel returns the WhatsApp channel identifier.
func (s *Sender) Channel() notification.Channel {
	return notification.ChannelWhatsApp
}

type templateParameter struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type templateComponent struct {
	Type       string              `json:"type"`
	Parameters []templateParameter `json:"parameters"`
}

type templateLanguage struct {
	Code string `json:"code"`
}

type messageTemplate struct {
	Name       string              `json:"name"`
	Language   templateLanguage    `json:"language"`
	Components []templateComponent `json:"components"`
}

type messagePayload struct {
	MessagingProduct string          `json:"messaging_product"`
	To               string          `json:"to"`
	Type             string          `json:"type"`
	Template         messageTemplate `json:"template"`
}

// buildPayload fills the template body parameters in the order the approved template
// expects: expiry type, expiry date, action steps.
func (s *Sender) buildPayload(req notification.Request) messagePayload {
	return messagePayload{
		MessagingProduct: "whatsapp",
		To:               req.RecipientPhoneNumber,
		Type:             "template",
		Template: messageTemplate{
			Name:     s.cfg.TemplateName,
			Language: templateLanguage{Code: req.Locale},
			Components: []templateComponent{
				{
					Type: "body",
					Parameters: []templateParameter{
						{Type: "text", Text: req.ExpiryType},
						{Type: "text", Text: req.FormattedExpiryDate()},
						{Type: "text", Text: req.ActionSteps},
					},
				},
			},
		},
	}
}

func (s *Sender) endpoint() string {
	return strings.TrimRight(s.cfg.APIURL, "/") + "/" + s.cfg.FromPhoneNumberID + "/messages"
}

// Send posts a template message to {api_url}/{phone_number_id}/messages.
func (s *Sender) Send(ctx context.Context, req notification.Request) bool {
	if req.RecipientPhoneNumber == "" {
		slog.Warn("whatsapp recipient phone number is missing")
		return false
	}
	if s.cfg.AccessToken == "" || s.cfg.FromPhoneNumberID == "" {
		slog.Error("whatsapp access token or phone number id is not configured")
		return false
	}

	headers := map[string]string{
		"Authorization": "Bearer " + s.cfg.AccessToken,
	}

	resp, err := outbound.PostJSON(ctx, s.httpClient, s.endpoint(), headers, s.buildPayload(req))
	if err != nil {
		slog.Error("failed to send whatsapp notification",
			"to", req.RecipientPhoneNumber,
			"error", err,
			"response", outbound.ResponseDetail(err),
		)
		return false
	}

	slog.Info("whatsapp notification sent",
		"to", req.RecipientPhoneNumber,
		"status", resp.StatusCode,
		"response", string(resp.Body),
	)
	return true
}
