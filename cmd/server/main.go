package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"alertdispatch/internal/config"
	"alertdispatch/internal/domain/notification"
	"alertdispatch/internal/infra/email"
	"alertdispatch/internal/infra/locale"
	"alertdispatch/internal/infra/metrics"
	"alertdispatch/internal/infra/telegram"
	"alertdispatch/internal/infra/tracing"
	"alertdispatch/internal/infra/viber"
	"alertdispatch/internal/infra/whatsapp"
	"alertdispatch/internal/router"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLevel(cfg.Log.Level),
	}))
	slog.SetDefault(logger)

	slog.Info("configuration loaded", "port", cfg.Server.Port, "mode", cfg.Server.Mode)
	for _, w := range cfg.Warnings() {
		slog.Warn("channel credentials incomplete", "detail", w)
	}
	if len(cfg.Auth.APIKeys) == 0 {
		slog.Warn("no API keys configured, notification routes are unauthenticated")
	}

	// ==========================================
	// Dependency Injection (Manual Wiring)
	// ==========================================

	// Tracing
	shutdownTracing, err := tracing.Setup(cfg.Tracing.ZipkinEndpoint, cfg.Tracing.ServiceName)
	if err != nil {
		slog.Error("failed to initialize tracing", "error", err)
		os.Exit(1)
	}

	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	senderMetrics, err := metrics.NewCollectors(registry)
	if err != nil {
		slog.Error("failed to register sender metrics", "error", err)
		os.Exit(1)
	}

	// Localization Store
	messages, err := locale.NewStore(cfg.Locale.Dir)
	if err != nil {
		slog.Error("failed to load message tables", "error", err, "dir", cfg.Locale.Dir)
		os.Exit(1)
	}
	slog.Info("message tables loaded", "locales", messages.Locales())

	// Channel Senders
	senders := []notification.Sender{
		whatsapp.NewSender(whatsapp.Config{
			APIURL:            cfg.WhatsApp.APIURL,
			AccessToken:       cfg.WhatsApp.AccessToken,
			FromPhoneNumberID: cfg.WhatsApp.FromPhoneNumberID,
			TemplateName:      cfg.WhatsApp.TemplateName,
			Timeout:           seconds(cfg.WhatsApp.TimeoutSec),
		}),
		telegram.NewSender(telegram.Config{
			APIURL:   cfg.Telegram.APIURL,
			BotToken: cfg.Telegram.BotToken,
			Timeout:  seconds(cfg.Telegram.TimeoutSec),
		}, messages),
		viber.NewSender(viber.Config{
			APIURL:       cfg.Viber.APIURL,
			AuthToken:    cfg.Viber.AuthToken,
			SenderName:   cfg.Viber.SenderName,
			SenderAvatar: cfg.Viber.SenderAvatar,
			Timeout:      seconds(cfg.Viber.TimeoutSec),
		}, messages),
	}
	if cfg.Email.Enabled {
		senders = append(senders, email.NewSender(email.Config{
			SMTPHost:    cfg.Email.SMTPHost,
			SMTPPort:    cfg.Email.SMTPPort,
			Username:    cfg.Email.Username,
			Password:    cfg.Email.Password,
			FromAddress: cfg.Email.FromAddress,
			FromName:    cfg.Email.FromName,
			Timeout:     seconds(cfg.Email.TimeoutSec),
		}, messages))
	}

	for i, s := range senders {
		senders[i] = tracing.Wrap(senderMetrics.Wrap(s))
	}

	// Service
	notificationService := notification.NewService(notification.ServiceConfig{
		Timeout:  cfg.Dispatch.Timeout(),
		Parallel: cfg.Dispatch.Parallel,
	}, senders...)

	// Handler
	notificationHandler := notification.NewHandler(notificationService)

	// Router
	r := router.New(cfg, notificationHandler, registry)

	// ==========================================
	// HTTP Server with Graceful Shutdown
	// ==========================================

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.Dispatch.Timeout() + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		slog.Info("server starting", "address", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	// Give outstanding dispatches time to finish
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Dispatch.Timeout()+5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
	}
	if err := shutdownTracing(ctx); err != nil {
		slog.Error("tracer provider shutdown failed", "error", err)
	}

	slog.Info("server exited gracefully")
}

func seconds(n int) time.Duration {
	return time.Duration(n) * time.Second
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
