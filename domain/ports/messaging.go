package ports

import (
	"context"
	"time"
)

// ═══════════════════════════════════════════════════════════════════════════════
// Event Publisher Port - ส่ง domain events ออกไปยัง consumer ภายนอก
// ═══════════════════════════════════════════════════════════════════════════════

// OrderPaidEvent - Plain struct (ไม่มี NATS dependency)
type OrderPaidEvent struct {
	OrderID           string    `json:"order_id"`
	CustomerID        string    `json:"customer_id"`
	ProviderSessionID string    `json:"provider_session_id"`
	AmountMinor       int64     `json:"amount_minor"`
	Currency          string    `json:"currency"`
	TotalQuantity     int       `json:"total_quantity"`
	PaidAt            time.Time `json:"paid_at"`
}

// EventPublisherPort - Interface สำหรับส่ง events
type EventPublisherPort interface {
	PublishOrderPaid(ctx context.Context, event *OrderPaidEvent) error
}
