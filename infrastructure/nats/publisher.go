package nats

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go/jetstream"

	"loft-shop/domain/ports"
	"loft-shop/pkg/logger"
)

// Publisher publishes order events to JetStream
type Publisher struct {
	js jetstream.JetStream
}

var _ ports.EventPublisherPort = (*Publisher)(nil)

// NewPublisher สร้าง Publisher ใหม่
func NewPublisher(client *Client) *Publisher {
	return &Publisher{js: client.js}
}

// PublishOrderPaid ส่ง orders.paid (msg id = order id กันส่งซ้ำ)
func (p *Publisher) PublishOrderPaid(ctx context.Context, event *ports.OrderPaidEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	ack, err := p.js.Publish(ctx, SubjectOrderPaid, data, jetstream.WithMsgID("paid-"+event.OrderID))
	if err != nil {
		logger.ErrorContext(ctx, "Failed to publish order event",
			"order_id", event.OrderID,
			"error", err,
		)
		return fmt.Errorf("failed to publish event: %w", err)
	}

	logger.InfoContext(ctx, "Order event published",
		"subject", SubjectOrderPaid,
		"order_id", event.OrderID,
		"stream", ack.Stream,
		"sequence", ack.Sequence,
		"duplicate", ack.Duplicate,
	)
	return nil
}

// ═══════════════════════════════════════════════════════════════════════════════
// NoopPublisher - ใช้เมื่อไม่ได้ตั้งค่า NATS
// ═══════════════════════════════════════════════════════════════════════════════

type NoopPublisher struct{}

var _ ports.EventPublisherPort = (*NoopPublisher)(nil)

func NewNoopPublisher() *NoopPublisher {
	return &NoopPublisher{}
}

func (NoopPublisher) PublishOrderPaid(ctx context.Context, event *ports.OrderPaidEvent) error {
	logger.DebugContext(ctx, "Order event (noop)", "order_id", event.OrderID)
	return nil
}
