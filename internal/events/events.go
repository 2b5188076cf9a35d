package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"course-booking/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
)

// Order event types.
const (
	OrderCreated   = "order.created"
	OrderCancelled = "order.cancelled"
)

// OrderEvent is published after an order transaction commits.
type OrderEvent struct {
	Type            string       `json:"type"`
	OrderID         uuid.UUID    `json:"orderId"`
	Order           *model.Order `json:"order,omitempty"`
	RestoredLessons int          `json:"restoredLessons,omitempty"`
	OccurredAt      time.Time    `json:"occurredAt"`
}

// Publisher defines the interface for publishing order events.
type Publisher interface {
	// Publish sends a single event.
	Publish(ctx context.Context, event OrderEvent) error

	// Close flushes pending messages and releases resources.
	Close() error
}

// messageWriter abstracts kafka.Writer for testability.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher publishes order events to a Kafka topic keyed by order ID.
type KafkaPublisher struct {
	writer messageWriter
	logger zerolog.Logger
}

// NewKafkaPublisher creates a publisher writing to topic on brokers.
func NewKafkaPublisher(brokers []string, topic string, logger zerolog.Logger) *KafkaPublisher {
	logger = logger.With().Str("component", "order-events").Logger()

	logger.Info().
		Strs("brokers", brokers).
		Str("topic", topic).
		Msg("kafka publisher initialised")

	return newKafkaPublisher(&kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireAll,
		AllowAutoTopicCreation: true,
		BatchTimeout:           10 * time.Millisecond,
		WriteTimeout:           2 * time.Second,
		MaxAttempts:            3,
	}, logger)
}

func newKafkaPublisher(w messageWriter, logger zerolog.Logger) *KafkaPublisher {
	return &KafkaPublisher{writer: w, logger: logger}
}

// Publish encodes event as JSON and writes it synchronously. It returns
// once ctx is done even if the broker has not acknowledged the write.
func (p *KafkaPublisher) Publish(ctx context.Context, event OrderEvent) error {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}

	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode %s event: %w", event.Type, err)
	}

	msg := kafka.Message{
		Key:   []byte(event.OrderID.String()),
		Value: value,
		Headers: []kafka.Header{
			{Key: "event-type", Value: []byte(event.Type)},
		},
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Error().
			Err(err).
			Str("event_type", event.Type).
			Str("order_id", event.OrderID.String()).
			Msg("failed to publish order event")
		return fmt.Errorf("failed to publish %s event: %w", event.Type, err)
	}

	p.logger.Debug().
		Str("event_type", event.Type).
		Str("order_id", event.OrderID.String()).
		Msg("order event published")

	return nil
}

// Close closes the underlying writer.
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// nopPublisher is used when event publishing is disabled.
type nopPublisher struct{}

// NewNopPublisher returns a Publisher that discards every event.
func NewNopPublisher() Publisher {
	return nopPublisher{}
}

func (nopPublisher) Publish(context.Context, OrderEvent) error { return nil }
func (nopPublisher) Close() error                              { return nil }
