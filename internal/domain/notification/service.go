package notification

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"
)

// ServiceConfig holds dispatch settings.
type ServiceConfig struct {
	// Timeout bounds a whole dispatch. Zero disables the deadline.
	Timeout time.Duration

	// Parallel attempts all requested channels concurrently instead of in request order.
	Parallel bool
}

// Service fans an expiry alert out to the senders of every requested channel.
// The registry is fixed at construction; senders are shared across concurrent dispatches.
type Service struct {
	senders map[Channel]Sender
	config  ServiceConfig
}

// NewService creates a dispatcher over the given senders. A later sender for the
// same channel replaces an earlier one.
func NewService(cfg ServiceConfig, senders ...Sender) *Service {
	sm := make(map[Channel]Sender, len(senders))
	for _, s := range senders {
		sm[s.Channel()] = s
	}

	channels := make([]Channel, 0, len(sm))
	for ch := range sm {
		channels = append(channels, ch)
	}
	slog.Info("notification senders initialized", "channels", channels, "parallel", cfg.Parallel)

	return &Service{
		senders: sm,
		config:  cfg,
	}
}

// Dispatch attempts every requested channel once and succeeds if at least one channel
// delivered. A failing, missing, or panicking sender never stops the remaining channels.
func (s *Service) Dispatch(ctx context.Context, req Request) *Outcome {
	outcome := &Outcome{Results: []ChannelResult{}}

	if len(req.Channels) == 0 {
		slog.Warn("no notification channels specified in the request")
		return outcome
	}

	if s.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.config.Timeout)
		defer cancel()
	}

	// Each attempt receives its own copy of the request.
	channels := req.Clone().Channels
	start := time.Now()
	results := make([]ChannelResult, len(channels))

	if s.config.Parallel {
		var g errgroup.Group
		for i, ch := range channels {
			g.Go(func() error {
				results[i] = s.attempt(ctx, ch, req.Clone())
				return nil
			})
		}
		_ = g.Wait()
	} else {
		for i, ch := range channels {
			results[i] = s.attempt(ctx, ch, req.Clone())
		}
	}

	outcome.Results = results
	for _, r := range results {
		if r.Status == StatusSent {
			outcome.AnySucceeded = true
			break
		}
	}

	slog.Info("notification dispatch finished",
		"channels", len(channels),
		"any_succeeded", outcome.AnySucceeded,
		"duration", time.Since(start),
	)

	return outcome
}

// attempt runs a single channel and converts every way it can end into a ChannelResult.
func (s *Service) attempt(ctx context.Context, ch Channel, req Request) (result ChannelResult) {
	result = ChannelResult{Channel: ch, Status: StatusFailed}

	sender, ok := s.senders[ch]
	if !ok {
		slog.Warn("no sender found for channel", "channel", ch)
		result.Status = StatusSkipped
		return result
	}

	defer func() {
		if p := recover(); p != nil {
			slog.Error("sender panicked",
				"channel", ch,
				"error", fmt.Sprint(p),
			)
			result.Status = StatusFailed
		}
	}()

	slog.Info("attempting to send notification", "channel", ch)
	start := time.Now()

	if sender.Send(ctx, req) {
		slog.Info("notification sent", "channel", ch, "duration", time.Since(start))
		result.Status = StatusSent
		return result
	}

	slog.Warn("notification delivery failed", "channel", ch, "duration", time.Since(start))
	return result
}
