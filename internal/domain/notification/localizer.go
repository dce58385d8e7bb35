package notification

// Message keys resolved through the Localizer.
const (
	KeyTelegramExpiry     = "telegram.expiry.message"
	KeyViberExpiry        = "viber.expiry.message"
	KeyWhatsAppExpiry     = "whatsapp.expiry.message"
	KeyEmailExpirySubject = "email.expiry.subject"
	KeyEmailExpiry        = "email.expiry.message"
)

// Localizer resolves a message key for a locale and formats it with positional args.
// Implementations never fail: a missing key or a formatting problem yields degraded text.
// Implementations live in infra/locale/.
type Localizer interface {
	Resolve(key, locale string, args ...any) string
}

// ExpiryArgs returns the positional arguments shared by every expiry message:
// expiry type, formatted expiry date and action steps.
func ExpiryArgs(req Request) []any {
	return []any{req.ExpiryType, req.FormattedExpiryDate(), req.ActionSteps}
}
