package notification

import (
	"fmt"
	"strings"
	"time"
)

// Channel represents a notification delivery channel.
type Channel string

const (
	ChannelEmail    Channel = "EMAIL"
	ChannelSMS      Channel = "SMS" // no sender yet
	ChannelWhatsApp Channel = "WHATSAPP"
	ChannelTelegram Channel = "TELEGRAM"
	ChannelViber    Channel = "VIBER"
)

// validChannels is the closed set of recognized channels.
var validChannels = map[Channel]bool{
	ChannelEmail:    true,
	ChannelSMS:      true,
	ChannelWhatsApp: true,
	ChannelTelegram: true,
	ChannelViber:    true,
}

// ParseChannel matches a channel name case-insensitively against the known channels.
// Surrounding whitespace is not trimmed.
func ParseChannel(name string) (Channel, error) {
	ch := Channel(strings.ToUpper(name))
	if !validChannels[ch] {
		return "", fmt.Errorf("unknown channel: %q", name)
	}
	return ch, nil
}

const (
	DefaultExpiryType  = "Certificate"
	DefaultActionSteps = "Please renew your credential."
	DefaultLocale      = "en"

	// DateLayout is the inbound expiry date format.
	DateLayout = "2006-01-02"

	displayDateLayout = "02-01-2006"
	notAvailable      = "N/A"
)

// Request carries everything any sender may need to deliver one expiry alert.
// It is passed by value and never modified once built. Empty strings mean "not provided".
type Request struct {
	RecipientEmail       string
	RecipientPhoneNumber string
	TelegramChatID       string
	ViberUserID          string

	MessageSubject string
	MessageBody    string

	ExpiryType string
	// ExpiryDate is a calendar date; the zero value means no date was given.
	ExpiryDate  time.Time
	ActionSteps string

	Channels []Channel
	Locale   string
}

// NewRequest fills in defaults for the semantic fields and normalizes the expiry date
// to midnight UTC. Addressing fields are not checked against the channels.
func NewRequest(r Request) Request {
	if r.ExpiryType == "" {
		r.ExpiryType = DefaultExpiryType
	}
	if r.ActionSteps == "" {
		r.ActionSteps = DefaultActionSteps
	}
	if r.Locale == "" {
		r.Locale = DefaultLocale
	}
	if !r.ExpiryDate.IsZero() {
		y, m, d := r.ExpiryDate.Date()
		r.ExpiryDate = time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	}
	return r.Clone()
}

// Clone returns a copy that shares no mutable state with r.
func (r Request) Clone() Request {
	if r.Channels != nil {
		r.Channels = append([]Channel(nil), r.Channels...)
	}
	return r
}

// HasExpiryDate reports whether an expiry date was provided.
func (r Request) HasExpiryDate() bool {
	return !r.ExpiryDate.IsZero()
}

// FormattedExpiryDate renders the expiry date as DD-MM-YYYY, or "N/A" when absent.
func (r Request) FormattedExpiryDate() string {
	if !r.HasExpiryDate() {
		return notAvailable
	}
	return r.ExpiryDate.Format(displayDateLayout)
}

// ExpiryAlertRequest is the API request payload for POST /notification/sendExpiryAlert.
type ExpiryAlertRequest struct {
	RecipientEmail       string   `json:"recipientEmail"`
	RecipientPhoneNumber string   `json:"recipientPhoneNumber"`
	TelegramChatID       string   `json:"telegramChatId"`
	ViberUserID          string   `json:"viberUserId"`
	MessageSubject       string   `json:"messageSubject"`
	MessageBody          string   `json:"messageBody"`
	ExpiryType           string   `json:"expiryType"`
	ExpiryDate           string   `json:"expiryDate"`
	ActionSteps          string   `json:"actionSteps"`
	Channels             []string `json:"channels"`
	Locale               string   `json:"locale"`
}

// DeliveryStatus is the result of one channel attempt.
type DeliveryStatus string

const (
	StatusSent    DeliveryStatus = "sent"
	StatusFailed  DeliveryStatus = "failed"
	StatusSkipped DeliveryStatus = "skipped"
)

// ChannelResult records what happened for one requested channel.
type ChannelResult struct {
	Channel Channel        `json:"channel"`
	Status  DeliveryStatus `json:"status"`
}

// Outcome is the aggregated result of one dispatch.
type Outcome struct {
	Results      []ChannelResult `json:"results"`
	AnySucceeded bool            `json:"any_succeeded"`
}
