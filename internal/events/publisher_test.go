package events

import (
	"context"
	"encoding/json"
	"errors"
	"storefront-checkout/internal/config"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (w *fakeWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func TestKafkaPublisherPublish(t *testing.T) {
	w := &fakeWriter{}
	p := NewKafkaPublisher(w)

	err := p.Publish(context.Background(), Event{Type: PaymentCompleted, OrderID: "O1", TransactionID: "T1"})
	require.NoError(t, err)
	require.Len(t, w.msgs, 1)

	msg := w.msgs[0]
	assert.Equal(t, "O1", string(msg.Key))
	assert.Equal(t, []kafka.Header{{Key: "type", Value: []byte("payment.completed")}}, msg.Headers)

	var got Event
	require.NoError(t, json.Unmarshal(msg.Value, &got))
	assert.Equal(t, "T1", got.TransactionID)
	assert.False(t, got.OccurredAt.IsZero())

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestKafkaPublisherError(t *testing.T) {
	p := NewKafkaPublisher(&fakeWriter{err: errors.New("broker down")})
	err := p.Publish(context.Background(), Event{Type: ShipmentCreated, OrderID: "O1"})
	assert.ErrorContains(t, err, "write shipment.created event")
}

func TestNewPublisherWithoutBrokers(t *testing.T) {
	p := NewPublisher(config.Kafka{})
	assert.IsType(t, NopPublisher{}, p)
	assert.NoError(t, p.Publish(context.Background(), Event{}))
}
