package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Log       LogConfig       `mapstructure:"log"`
	Auth      AuthConfig      `mapstructure:"auth"`
	CORS      CORSConfig      `mapstructure:"cors"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Dispatch  DispatchConfig  `mapstructure:"dispatch"`
	Locale    LocaleConfig    `mapstructure:"locale"`
	Tracing   TracingConfig   `mapstructure:"tracing"`
	WhatsApp  WhatsAppConfig  `mapstructure:"whatsapp"`
	Telegram  TelegramConfig  `mapstructure:"telegram"`
	Viber     ViberConfig     `mapstructure:"viber"`
	Email     EmailConfig     `mapstructure:"email"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// AuthConfig holds API key authentication settings.
type AuthConfig struct {
	APIKeys []string `mapstructure:"api_keys"`
}

// CORSConfig holds CORS policy settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	AllowedMethods []string `mapstructure:"allowed_methods"`
	AllowedHeaders []string `mapstructure:"allowed_headers"`
}

// RateLimitConfig holds HTTP edge rate limiting settings.
type RateLimitConfig struct {
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	Burst             int     `mapstructure:"burst"`
}

// DispatchConfig holds fan-out settings.
type DispatchConfig struct {
	TimeoutSec int  `mapstructure:"timeout_sec"`
	Parallel   bool `mapstructure:"parallel"`
}

// Timeout returns the whole-dispatch deadline.
func (d DispatchConfig) Timeout() time.Duration {
	return time.Duration(d.TimeoutSec) * time.Second
}

// LocaleConfig holds localization settings.
type LocaleConfig struct {
	// Dir optionally points at extra <locale>.yaml tables loaded over the embedded ones.
	Dir string `mapstructure:"dir"`
}

// TracingConfig holds OpenTelemetry settings.
type TracingConfig struct {
	ZipkinEndpoint string `mapstructure:"zipkin_endpoint"`
	ServiceName    string `mapstructure:"service_name"`
}

// WhatsAppConfig holds WhatsApp Business API settings.
type WhatsAppConfig struct {
	APIURL            string `mapstructure:"api_url"`
	AccessToken       string `mapstructure:"access_token"`
	FromPhoneNumberID string `mapstructure:"from_phone_number_id"`
	TemplateName      string `mapstructure:"template_name"`
	TimeoutSec        int    `mapstructure:"timeout_sec"`
}

// TelegramConfig holds Telegram Bot API settings.
type TelegramConfig struct {
	APIURL     string `mapstructure:"api_url"`
	BotToken   string `mapstructure:"bot_token"`
	TimeoutSec int    `mapstructure:"timeout_sec"`
}

// ViberConfig holds Viber REST API settings.
type ViberConfig struct {
	APIURL       string `mapstructure:"api_url"`
	AuthToken    string `mapstructure:"auth_token"`
	SenderName   string `mapstructure:"sender_name"`
	SenderAvatar string `mapstructure:"sender_avatar"`
	TimeoutSec   int    `mapstructure:"timeout_sec"`
}

// EmailConfig holds SMTP settings for the email channel.
type EmailConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	SMTPHost    string `mapstructure:"smtp_host"`
	SMTPPort    int    `mapstructure:"smtp_port"`
	Username    string `mapstructure:"username"`
	Password    string `mapstructure:"password"`
	FromAddress string `mapstructure:"from_address"`
	FromName    string `mapstructure:"from_name"`
	TimeoutSec  int    `mapstructure:"timeout_sec"`
}

// Load reads configuration from config.yaml and environment variables.
// Environment variables carry no prefix: WHATSAPP_ACCESS_TOKEN overrides
// whatsapp.access_token in config.yaml.
func Load() (*Config, error) {
	v := viper.New()

	// Config file settings
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	// Load .env file if it exists
	_ = godotenv.Load()

	// Environment variable settings
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Read config file (optional, env vars can provide everything)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	// Comma-separated env values arrive split but untrimmed
	cfg.Auth.APIKeys = cleanList(cfg.Auth.APIKeys)
	cfg.CORS.AllowedOrigins = cleanList(cfg.CORS.AllowedOrigins)
	cfg.CORS.AllowedMethods = cleanList(cfg.CORS.AllowedMethods)
	cfg.CORS.AllowedHeaders = cleanList(cfg.CORS.AllowedHeaders)

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 5000)
	v.SetDefault("server.mode", "release")
	v.SetDefault("log.level", "info")
	v.SetDefault("auth.api_keys", "")
	v.SetDefault("cors.allowed_origins", "")
	v.SetDefault("cors.allowed_methods", "GET,POST,OPTIONS")
	v.SetDefault("cors.allowed_headers", "Content-Type,X-API-Key,X-Request-ID")
	v.SetDefault("rate_limit.requests_per_second", 10)
	v.SetDefault("rate_limit.burst", 20)
	v.SetDefault("dispatch.timeout_sec", 30)
	v.SetDefault("dispatch.parallel", false)
	v.SetDefault("locale.dir", "")
	v.SetDefault("tracing.zipkin_endpoint", "")
	v.SetDefault("tracing.service_name", "alertdispatch")

	v.SetDefault("whatsapp.api_url", "https://graph.facebook.com/v19.0")
	v.SetDefault("whatsapp.access_token", "")
	v.SetDefault("whatsapp.from_phone_number_id", "")
	v.SetDefault("whatsapp.template_name", "expiry_alert_template") // must be pre-approved
	v.SetDefault("whatsapp.timeout_sec", 10)

	v.SetDefault("telegram.api_url", "https://api.telegram.org/bot")
	v.SetDefault("telegram.bot_token", "")
	v.SetDefault("telegram.timeout_sec", 10)

	v.SetDefault("viber.api_url", "https://chatapi.viber.com/pa/")
	v.SetDefault("viber.auth_token", "")
	v.SetDefault("viber.sender_name", "MOSIP Alerts")
	v.SetDefault("viber.sender_avatar", "")
	v.SetDefault("viber.timeout_sec", 10)

	v.SetDefault("email.enabled", false)
	v.SetDefault("email.smtp_host", "")
	v.SetDefault("email.smtp_port", 587)
	v.SetDefault("email.username", "")
	v.SetDefault("email.password", "")
	v.SetDefault("email.from_address", "")
	v.SetDefault("email.from_name", "MOSIP Alerts")
	v.SetDefault("email.timeout_sec", 10)
}

// cleanList trims every entry and drops empty ones.
func cleanList(items []string) []string {
	var out []string
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// Warnings lists missing channel credentials. They do not stop the process;
// the affected channel simply fails each delivery attempt.
func (c *Config) Warnings() []string {
	var warnings []string
	if c.WhatsApp.AccessToken == "" {
		warnings = append(warnings, "WHATSAPP_ACCESS_TOKEN not set")
	}
	if c.WhatsApp.FromPhoneNumberID == "" {
		warnings = append(warnings, "WHATSAPP_FROM_PHONE_NUMBER_ID not set")
	}
	if c.Telegram.BotToken == "" {
		warnings = append(warnings, "TELEGRAM_BOT_TOKEN not set")
	}
	if c.Viber.AuthToken == "" {
		warnings = append(warnings, "VIBER_AUTH_TOKEN not set")
	}
	if c.Email.Enabled && (c.Email.SMTPHost == "" || c.Email.FromAddress == "") {
		warnings = append(warnings, "EMAIL_SMTP_HOST or EMAIL_FROM_ADDRESS not set")
	}
	return warnings
}
