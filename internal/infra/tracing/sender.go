package tracing

import (
	"context"

	"alertdispatch/internal/domain/notification"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "alertdispatch/sender"

// Sender wraps a channel sender with one span per delivery attempt.
type Sender struct {
	next   notification.Sender
	tracer trace.Tracer
}

// Wrap decorates s with tracing using the global tracer provider.
func Wrap(s notification.Sender) *Sender {
	return &Sender{
		next:   s,
		tracer: otel.Tracer(instrumentationName),
	}
}

// WrapWithProvider decorates s using the given tracer provider.
func WrapWithProvider(s notification.Sender, tp trace.TracerProvider) *Sender {
	return &Sender{
		next:   s,
		tracer: tp.Tracer(instrumentationName),
	}
}

func (s *Sender) Channel() notification.Channel {
	return s.next.Channel()
}

func (s *Sender) Send(ctx context.Context, req notification.Request) bool {
	ctx, span := s.tracer.Start(ctx, "Sender.Send",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("notification.channel", string(s.next.Channel())),
			attribute.String("notification.locale", req.Locale),
			attribute.String("notification.expiry_type", req.ExpiryType),
		))
	defer span.End()

	ok := s.next.Send(ctx, req)

	span.SetAttributes(attribute.Bool("notification.delivered", ok))
	if !ok {
		span.SetStatus(codes.Error, "delivery failed")
	} else {
		span.SetStatus(codes.Ok, "")
	}
	return ok
}
