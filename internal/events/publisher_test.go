package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bhargavi35/storefront/internal/domain"
)

type fakeWriter struct {
	messages []kafka.Message
	err      error
	closed   bool
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if f.err != nil {
		return f.err
	}
	f.messages = append(f.messages, msgs...)
	return nil
}

func (f *fakeWriter) Close() error {
	f.closed = true
	return nil
}

func TestPublishOrderCompleted(t *testing.T) {
	w := &fakeWriter{}
	p := NewPublisherWithWriter(w)

	order := &domain.Order{
		ID:             "order-1",
		UserID:         "u1",
		Items:          []domain.CartItem{{ProductID: "1", Quantity: 2, Price: 99.99}},
		Total:          199.98,
		DiscountCode:   "SAVE10",
		DiscountAmount: 19.998,
		FinalAmount:    179.982,
		CreatedAt:      time.Now().UTC(),
	}
	require.NoError(t, p.PublishOrderCompleted(context.Background(), order))

	require.Len(t, w.messages, 1)
	msg := w.messages[0]
	assert.Equal(t, "order-1", string(msg.Key))
	require.Len(t, msg.Headers, 1)
	assert.Equal(t, "event_type", msg.Headers[0].Key)
	assert.Equal(t, "order.completed", string(msg.Headers[0].Value))

	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal(msg.Value, &payload))
	assert.Equal(t, "order-1", payload["order_id"])
	assert.Equal(t, "u1", payload["user_id"])
	assert.Equal(t, "SAVE10", payload["discount_code"])
	assert.InDelta(t, 179.982, payload["final_amount"].(float64), 1e-9)
}

func TestPublishOrderCompleted_WriterError(t *testing.T) {
	w := &fakeWriter{err: errors.New("broker unavailable")}
	p := NewPublisherWithWriter(w)

	err := p.PublishOrderCompleted(context.Background(), &domain.Order{ID: "order-1"})
	assert.Error(t, err)
}

func TestClose(t *testing.T) {
	w := &fakeWriter{}
	p := NewPublisherWithWriter(w)

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}
