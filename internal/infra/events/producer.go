package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"github.com/m04kA/RC-BookingService/internal/domain"
)

// message формат события в топике
type message struct {
	ID         string     `json:"id"`
	Type       string     `json:"type"`
	BookingID  int64      `json:"bookingId"`
	UserID     int64      `json:"userId"`
	ResourceID *int64     `json:"resourceId,omitempty"`
	StartAt    *time.Time `json:"startAt,omitempty"`
	EndAt      *time.Time `json:"endAt,omitempty"`
	Status     string     `json:"status,omitempty"`
	OccurredAt time.Time  `json:"occurredAt"`
}

// appointmentMessage формат события встречи в топике
type appointmentMessage struct {
	ID              string    `json:"id"`
	Type            string    `json:"type"`
	AppointmentID   int64     `json:"appointmentId"`
	SellerID        int64     `json:"sellerId"`
	ClientEmail     string    `json:"clientEmail"`
	AppointmentDate time.Time `json:"appointmentDate"`
	Status          string    `json:"status,omitempty"`
	OccurredAt      time.Time `json:"occurredAt"`
}

// Producer публикует события бронирований в kafka
type Producer struct {
	writer *kafka.Writer
	topic  string
}

// NewProducer создает producer для списка брокеров
func NewProducer(brokers []string, topic string) *Producer {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 50 * time.Millisecond,
		RequiredAcks: kafka.RequireOne,
	}

	return &Producer{writer: writer, topic: topic}
}

// Publish отправляет событие; ключ сообщения - ID бронирования (порядок событий одного бронирования)
func (p *Producer) Publish(ctx context.Context, event domain.BookingEvent) error {
	msg, err := buildMessage(ctx, p.topic, event)
	if err != nil {
		return err
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("events: write %s: %w", event.Type, err)
	}
	return nil
}

// PublishAppointment отправляет событие встречи; ключ - ID встречи
func (p *Producer) PublishAppointment(ctx context.Context, event domain.AppointmentEvent) error {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}

	data, err := json.Marshal(appointmentMessage{
		ID:              uuid.NewString(),
		Type:            string(event.Type),
		AppointmentID:   event.AppointmentID,
		SellerID:        event.SellerID,
		ClientEmail:     event.ClientEmail,
		AppointmentDate: event.AppointmentDate,
		Status:          event.Status,
		OccurredAt:      event.OccurredAt,
	})
	if err != nil {
		return fmt.Errorf("events: marshal %s: %w", event.Type, err)
	}

	msg := newMessage(ctx, p.topic, event.Type, "appointment-"+strconv.FormatInt(event.AppointmentID, 10), data, event.OccurredAt)
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("events: write %s: %w", event.Type, err)
	}
	return nil
}

// Close закрывает writer
func (p *Producer) Close() error {
	return p.writer.Close()
}

func buildMessage(ctx context.Context, topic string, event domain.BookingEvent) (kafka.Message, error) {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}

	payload := message{
		ID:         uuid.NewString(),
		Type:       string(event.Type),
		BookingID:  event.BookingID,
		UserID:     event.UserID,
		ResourceID: event.ResourceID,
		Status:     event.Status,
		OccurredAt: event.OccurredAt,
	}
	if !event.StartAt.IsZero() {
		payload.StartAt = &event.StartAt
		payload.EndAt = &event.EndAt
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("events: marshal %s: %w", event.Type, err)
	}

	return newMessage(ctx, topic, event.Type, strconv.FormatInt(event.BookingID, 10), data, event.OccurredAt), nil
}

// newMessage собирает сообщение с trace-заголовками и типом события
func newMessage(ctx context.Context, topic string, eventType domain.EventType, key string, data []byte, at time.Time) kafka.Message {
	carrier := &headerCarrier{}
	otel.GetTextMapPropagator().Inject(ctx, carrier)
	headers := append(carrier.headers, kafka.Header{Key: "event-type", Value: []byte(eventType)})

	return kafka.Message{
		Topic:   topic,
		Key:     []byte(key),
		Value:   data,
		Headers: headers,
		Time:    at,
	}
}

// headerCarrier переносит W3C trace context в заголовки kafka
type headerCarrier struct {
	headers []kafka.Header
}

func (c *headerCarrier) Get(key string) string {
	for _, h := range c.headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}

func (c *headerCarrier) Keys() []string {
	keys := make([]string, 0, len(c.headers))
	for _, h := range c.headers {
		keys = append(keys, h.Key)
	}
	return keys
}

func (c *headerCarrier) Set(key, value string) {
	for i := range c.headers {
		if c.headers[i].Key == key {
			c.headers[i].Value = []byte(value)
			return
		}
	}
	c.headers = append(c.headers, kafka.Header{Key: key, Value: []byte(value)})
}

var _ propagation.TextMapCarrier = (*headerCarrier)(nil)

// NoopPublisher используется, когда kafka отключена
type NoopPublisher struct{}

// Publish ничего не делает
func (NoopPublisher) Publish(context.Context, domain.BookingEvent) error {
	return nil
}

// PublishAppointment ничего не делает
func (NoopPublisher) PublishAppointment(context.Context, domain.AppointmentEvent) error {
	return nil
}
