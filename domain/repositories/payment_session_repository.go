package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"loft-shop/domain/models"
)

type PaymentSessionRepository interface {
	Create(ctx context.Context, session *models.PaymentSession) error
	Update(ctx context.Context, session *models.PaymentSession) error
	GetByProviderSessionID(ctx context.Context, providerSessionID string) (*models.PaymentSession, error)
	FindPending(ctx context.Context, orderID uuid.UUID) (*models.PaymentSession, error)
	ListByOrder(ctx context.Context, orderID uuid.UUID) ([]*models.PaymentSession, error)
	// SupersedePending เปลี่ยน pending ทั้งหมดของ order เป็น superseded
	// return provider session ids ที่ต้องไป expire ที่ gateway ต่อ
	SupersedePending(ctx context.Context, orderID uuid.UUID) ([]string, error)
	// ExpirePendingBefore return order ids ที่ session ถูก expire
	ExpirePendingBefore(ctx context.Context, before time.Time) ([]uuid.UUID, error)
}
