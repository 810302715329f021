package events

import (
	"context"
	"encoding/json"
	"fmt"
	"storefront-checkout/internal/config"
	"time"

	"github.com/segmentio/kafka-go"
)

type Type string

const (
	PaymentCompleted Type = "payment.completed"
	PaymentFailed    Type = "payment.failed"
	ShipmentCreated  Type = "shipment.created"
)

// Event is an order lifecycle notification. Consumers refetch the order; the event carries ids only.
type Event struct {
	Type           Type      `json:"type"`
	OrderID        string    `json:"order_id"`
	TransactionID  string    `json:"transaction_id,omitempty"`
	TrackingNumber string    `json:"tracking_number,omitempty"`
	OccurredAt     time.Time `json:"occurred_at"`
}

type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// NewPublisher returns a kafka publisher when brokers are configured, otherwise a no-op one.
func NewPublisher(cfg config.Kafka) Publisher {
	if len(cfg.Brokers) == 0 {
		return NopPublisher{}
	}
	return NewKafkaPublisher(&kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Topic:                  cfg.Topic,
		RequiredAcks:           kafka.RequireAll,
		Balancer:               &kafka.Hash{},
		AllowAutoTopicCreation: true,
	})
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type KafkaPublisher struct {
	writer messageWriter
}

func NewKafkaPublisher(writer messageWriter) *KafkaPublisher {
	return &KafkaPublisher{writer: writer}
}

// Publish keys messages by order id so that one order's events stay in one partition, in order.
func (p *KafkaPublisher) Publish(ctx context.Context, event Event) error {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}

	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.OrderID),
		Value: value,
		Headers: []kafka.Header{
			{Key: "type", Value: []byte(event.Type)},
		},
	})
	if err != nil {
		return fmt.Errorf("write %s event: %w", event.Type, err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }
func (NopPublisher) Close() error                         { return nil }
