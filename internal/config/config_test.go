package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 5000, cfg.Server.Port)
	assert.Equal(t, "https://graph.facebook.com/v19.0", cfg.WhatsApp.APIURL)
	assert.Equal(t, "expiry_alert_template", cfg.WhatsApp.TemplateName)
	assert.Equal(t, "https://api.telegram.org/bot", cfg.Telegram.APIURL)
	assert.Equal(t, "https://chatapi.viber.com/pa/", cfg.Viber.APIURL)
	assert.Equal(t, "MOSIP Alerts", cfg.Viber.SenderName)
	assert.Equal(t, 30*time.Second, cfg.Dispatch.Timeout())
	assert.False(t, cfg.Dispatch.Parallel)
	assert.False(t, cfg.Email.Enabled)
	assert.Equal(t, 10, cfg.Email.TimeoutSec)
	assert.Empty(t, cfg.Auth.APIKeys)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("WHATSAPP_ACCESS_TOKEN", "wa-token")
	t.Setenv("TELEGRAM_BOT_TOKEN", "123:abc")
	t.Setenv("VIBER_SENDER_NAME", "Registry")
	t.Setenv("DISPATCH_PARALLEL", "true")
	t.Setenv("AUTH_API_KEYS", " k1 , ,k2")
	t.Setenv("EMAIL_TIMEOUT_SEC", "3")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "wa-token", cfg.WhatsApp.AccessToken)
	assert.Equal(t, "123:abc", cfg.Telegram.BotToken)
	assert.Equal(t, "Registry", cfg.Viber.SenderName)
	assert.True(t, cfg.Dispatch.Parallel)
	assert.Equal(t, []string{"k1", "k2"}, cfg.Auth.APIKeys)
	assert.Equal(t, 3, cfg.Email.TimeoutSec)
}

func TestWarnings(t *testing.T) {
	t.Parallel()

	cfg := &Config{}
	assert.ElementsMatch(t, []string{
		"WHATSAPP_ACCESS_TOKEN not set",
		"WHATSAPP_FROM_PHONE_NUMBER_ID not set",
		"TELEGRAM_BOT_TOKEN not set",
		"VIBER_AUTH_TOKEN not set",
	}, cfg.Warnings())

	cfg = &Config{
		WhatsApp: WhatsAppConfig{AccessToken: "a", FromPhoneNumberID: "b"},
		Telegram: TelegramConfig{BotToken: "c"},
		Viber:    ViberConfig{AuthToken: "d"},
		Email:    EmailConfig{Enabled: true},
	}
	assert.Equal(t, []string{"EMAIL_SMTP_HOST or EMAIL_FROM_ADDRESS not set"}, cfg.Warnings())
}

func TestCleanList(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"a", "b"}, cleanList([]string{" a", "", "b ", "  "}))
	assert.Nil(t, cleanList(nil))
}
