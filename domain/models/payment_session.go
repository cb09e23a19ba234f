package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PaymentSessionStatus string

const (
	PaymentSessionPending    PaymentSessionStatus = "pending"
	PaymentSessionPaid       PaymentSessionStatus = "paid"
	PaymentSessionSuperseded PaymentSessionStatus = "superseded"
	PaymentSessionExpired    PaymentSessionStatus = "expired"
	PaymentSessionFailed     PaymentSessionStatus = "failed"

	// ลูกค้าจ่าย session ที่ไม่ใช่ attempt ปัจจุบัน ต้องคืนเงิน
	PaymentSessionRefundRequired PaymentSessionStatus = "refund_required"
)

// PaymentSession hosted checkout session หนึ่งครั้งต่อ attempt ของ order
type PaymentSession struct {
	ID                uuid.UUID            `gorm:"primaryKey;type:uuid"`
	OrderID           uuid.UUID            `gorm:"type:uuid;not null;index"`
	Attempt           int                  `gorm:"not null"`
	IdempotencyKey    string               `gorm:"size:120;uniqueIndex;not null"`
	ProviderSessionID string               `gorm:"size:255;index"`
	RedirectURL       string               `gorm:"type:text"`
	AmountMinor       int64                `gorm:"not null"`
	Currency          string               `gorm:"size:10;not null"`
	Status            PaymentSessionStatus `gorm:"size:20;not null;default:'pending';index"`
	CreatedAt         time.Time            `gorm:"index"`
	UpdatedAt         time.Time

	Order *Order `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

func (PaymentSession) TableName() string {
	return "payment_sessions"
}

func (s *PaymentSession) BeforeCreate(tx *gorm.DB) error {
	assignID(&s.ID)
	if s.Status == "" {
		s.Status = PaymentSessionPending
	}
	return nil
}

// IdempotencyKeyFor key ที่ส่งให้ gateway: order-<id>-attempt-<n>
func IdempotencyKeyFor(orderID uuid.UUID, attempt int) string {
	return fmt.Sprintf("order-%s-attempt-%d", orderID, attempt)
}
