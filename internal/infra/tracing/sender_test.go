package tracing

import (
	"context"
	"testing"

	"alertdispatch/internal/domain/notification"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
)

type stubSender struct {
	result  bool
	spanCtx trace.SpanContext
}

func (s *stubSender) Channel() notification.Channel { return notification.ChannelViber }

func (s *stubSender) Send(ctx context.Context, _ notification.Request) bool {
	s.spanCtx = trace.SpanContextFromContext(ctx)
	return s.result
}

func newProvider() (*sdktrace.TracerProvider, *tracetest.SpanRecorder) {
	rec := tracetest.NewSpanRecorder()
	return sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec)), rec
}

func attrValue(attrs []attribute.KeyValue, key attribute.Key) (attribute.Value, bool) {
	for _, kv := range attrs {
		if kv.Key == key {
			return kv.Value, true
		}
	}
	return attribute.Value{}, false
}

func TestSender_RecordsDeliveredSpan(t *testing.T) {
	t.Parallel()

	tp, rec := newProvider()
	next := &stubSender{result: true}
	s := WrapWithProvider(next, tp)

	req := notification.NewRequest(notification.Request{Locale: "fr", ExpiryType: "Passport"})
	require.True(t, s.Send(context.Background(), req))
	assert.Equal(t, notification.ChannelViber, s.Channel())

	spans := rec.Ended()
	require.Len(t, spans, 1)
	span := spans[0]

	assert.Equal(t, "Sender.Send", span.Name())
	assert.Equal(t, trace.SpanKindClient, span.SpanKind())
	assert.Equal(t, codes.Ok, span.Status().Code)
	assert.Equal(t, span.SpanContext().SpanID(), next.spanCtx.SpanID())

	v, ok := attrValue(span.Attributes(), "notification.channel")
	require.True(t, ok)
	assert.Equal(t, "VIBER", v.AsString())
	v, ok = attrValue(span.Attributes(), "notification.locale")
	require.True(t, ok)
	assert.Equal(t, "fr", v.AsString())
	v, ok = attrValue(span.Attributes(), "notification.delivered")
	require.True(t, ok)
	assert.True(t, v.AsBool())
}

func TestSender_RecordsFailedSpan(t *testing.T) {
	t.Parallel()

	tp, rec := newProvider()
	s := WrapWithProvider(&stubSender{result: false}, tp)

	assert.False(t, s.Send(context.Background(), notification.Request{}))

	spans := rec.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status().Code)
	assert.Equal(t, "delivery failed", spans[0].Status().Description)
}

func TestSetup_NoEndpoint(t *testing.T) {
	t.Parallel()

	shutdown, err := Setup("", "alertdispatch")
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
}
