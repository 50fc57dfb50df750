package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/m04kA/RC-BookingService/internal/domain"
)

func TestBuildMessage(t *testing.T) {
	start := time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)
	event := domain.BookingEvent{
		Type:       domain.EventBookingCreated,
		BookingID:  42,
		UserID:     7,
		StartAt:    start,
		EndAt:      start.Add(time.Hour),
		Status:     "confirmed",
		OccurredAt: start,
	}

	msg, err := buildMessage(context.Background(), "booking-events", event)
	require.NoError(t, err)

	assert.Equal(t, "booking-events", msg.Topic)
	assert.Equal(t, "42", string(msg.Key))

	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal(msg.Value, &payload))
	assert.Equal(t, "booking.created", payload["type"])
	assert.Equal(t, float64(42), payload["bookingId"])
	assert.NotEmpty(t, payload["id"])
	assert.NotContains(t, payload, "resourceId")
}

func TestBuildMessage_InjectsTraceContext(t *testing.T) {
	prev := otel.GetTextMapPropagator()
	otel.SetTextMapPropagator(propagation.TraceContext{})
	t.Cleanup(func() { otel.SetTextMapPropagator(prev) })

	traceID, _ := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	spanID, _ := trace.SpanIDFromHex("00f067aa0ba902b7")
	ctx := trace.ContextWithSpanContext(context.Background(), trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.FlagsSampled,
	}))

	msg, err := buildMessage(ctx, "booking-events", domain.BookingEvent{Type: domain.EventBookingDeleted, BookingID: 1})
	require.NoError(t, err)

	carrier := &headerCarrier{headers: msg.Headers}
	assert.Contains(t, carrier.Get("traceparent"), "4bf92f3577b34da6a3ce929d0e0e4736")
	assert.Equal(t, "booking.deleted", carrier.Get("event-type"))
}

func TestNewMessage_AppointmentKey(t *testing.T) {
	at := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	msg := newMessage(context.Background(), "booking-events", domain.EventAppointmentCreated, "appointment-5", []byte(`{}`), at)

	assert.Equal(t, "appointment-5", string(msg.Key))
	assert.Equal(t, at, msg.Time)
	carrier := &headerCarrier{headers: msg.Headers}
	assert.Equal(t, "appointment.created", carrier.Get("event-type"))
}
