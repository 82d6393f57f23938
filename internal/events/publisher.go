package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/segmentio/kafka-go"

	"github.com/bhargavi35/storefront/internal/domain"
)

const orderEventsTopic = "order-events"

// Writer is the slice of kafka.Writer the publisher needs.
type Writer interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Publisher emits order-completed events. Publishing is best effort;
// checkout never fails because of it.
type Publisher struct {
	writer Writer
}

func NewPublisher(brokers ...string) *Publisher {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  orderEventsTopic,
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
	}
	return &Publisher{writer: w}
}

// NewPublisherWithWriter wires a custom writer (tests).
func NewPublisherWithWriter(w Writer) *Publisher {
	return &Publisher{writer: w}
}

func (p *Publisher) PublishOrderCompleted(ctx context.Context, order *domain.Order) error {
	payload := map[string]interface{}{
		"order_id":        order.ID,
		"user_id":         order.UserID,
		"items":           order.Items,
		"total":           order.Total,
		"discount_code":   order.DiscountCode,
		"discount_amount": order.DiscountAmount,
		"final_amount":    order.FinalAmount,
		"created_at":      order.CreatedAt,
	}

	value, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal order payload: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(order.ID), // order id for partition ordering
		Value: value,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte("order.completed")},
		},
	}
	return p.writer.WriteMessages(ctx, msg)
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}
