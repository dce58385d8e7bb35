// Package metrics adds prometheus instrumentation around channel senders.
package metrics

import (
	"context"
	"time"

	"alertdispatch/internal/domain/notification"

	"github.com/prometheus/client_golang/prometheus"
)

// Collectors holds the sender metrics shared by every decorated sender.
type Collectors struct {
	sendTotal    *prometheus.CounterVec
	sendDuration *prometheus.HistogramVec
}

// NewCollectors creates the sender metrics and registers them with reg.
func NewCollectors(reg prometheus.Registerer) (*Collectors, error) {
	c := &Collectors{
		sendTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "notification_send_total",
				Help: "Channel delivery attempts by outcome.",
			},
			[]string{"channel", "status"},
		),
		sendDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "notification_send_duration_seconds",
				Help:    "Channel delivery attempt latency in seconds.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"channel", "status"},
		),
	}

	for _, col := range []prometheus.Collector{c.sendTotal, c.sendDuration} {
		if err := reg.Register(col); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Wrap returns s decorated with metric collection.
func (c *Collectors) Wrap(s notification.Sender) notification.Sender {
	return &sender{next: s, collectors: c}
}

type sender struct {
	next       notification.Sender
	collectors *Collectors
}

func (s *sender) Channel() notification.Channel {
	return s.next.Channel()
}

func (s *sender) Send(ctx context.Context, req notification.Request) bool {
	start := time.Now()
	ok := s.next.Send(ctx, req)

	status := string(notification.StatusFailed)
	if ok {
		status = string(notification.StatusSent)
	}
	channel := string(s.next.Channel())

	s.collectors.sendTotal.WithLabelValues(channel, status).Inc()
	s.collectors.sendDuration.WithLabelValues(channel, status).Observe(time.Since(start).Seconds())

	return ok
}
