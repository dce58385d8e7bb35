package notification

import "context"

//go:generate mockgen -source=./sender.go -destination=./mocks/sender.mock.go -package=notificationmocks

// Sender delivers an expiry alert through exactly one channel.
// Implementations live in infra/ (e.g., whatsapp, telegram, viber, email).
type Sender interface {
	// Send attempts delivery and reports whether the provider accepted it.
	// Every failure, including missing addressing or credentials, is logged and
	// reported as false; nothing is returned to the caller beyond that.
	Send(ctx context.Context, req Request) bool

	// Channel returns which delivery channel this sender handles.
	Channel() Channel
}
