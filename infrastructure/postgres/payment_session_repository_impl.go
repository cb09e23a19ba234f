package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"loft-shop/domain/models"
	"loft-shop/domain/repositories"
)

type PaymentSessionRepositoryImpl struct {
	db *gorm.DB
}

func NewPaymentSessionRepository(db *gorm.DB) repositories.PaymentSessionRepository {
	return &PaymentSessionRepositoryImpl{db: db}
}

func (r *PaymentSessionRepositoryImpl) Create(ctx context.Context, session *models.PaymentSession) error {
	return r.db.WithContext(ctx).Omit("Order").Create(session).Error
}

func (r *PaymentSessionRepositoryImpl) Update(ctx context.Context, session *models.PaymentSession) error {
	return r.db.WithContext(ctx).Omit("Order").Save(session).Error
}

func (r *PaymentSessionRepositoryImpl) GetByProviderSessionID(ctx context.Context, providerSessionID string) (*models.PaymentSession, error) {
	var session models.PaymentSession
	err := r.db.WithContext(ctx).Where("provider_session_id = ?", providerSessionID).First(&session).Error
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *PaymentSessionRepositoryImpl) FindPending(ctx context.Context, orderID uuid.UUID) (*models.PaymentSession, error) {
	var session models.PaymentSession
	err := r.db.WithContext(ctx).
		Where("order_id = ? AND status = ?", orderID, models.PaymentSessionPending).
		Order("attempt DESC").
		First(&session).Error
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *PaymentSessionRepositoryImpl) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]*models.PaymentSession, error) {
	var sessions []*models.PaymentSession
	err := r.db.WithContext(ctx).Where("order_id = ?", orderID).Order("attempt ASC").Find(&sessions).Error
	return sessions, err
}

// SupersedePending เรียกภายใน transaction ที่ lock order ไว้แล้ว
func (r *PaymentSessionRepositoryImpl) SupersedePending(ctx context.Context, orderID uuid.UUID) ([]string, error) {
	var providerIDs []string
	err := r.db.WithContext(ctx).
		Model(&models.PaymentSession{}).
		Where("order_id = ? AND status = ? AND provider_session_id <> ''", orderID, models.PaymentSessionPending).
		Pluck("provider_session_id", &providerIDs).Error
	if err != nil {
		return nil, err
	}

	err = r.db.WithContext(ctx).
		Model(&models.PaymentSession{}).
		Where("order_id = ? AND status = ?", orderID, models.PaymentSessionPending).
		Update("status", models.PaymentSessionSuperseded).Error
	return providerIDs, err
}

func (r *PaymentSessionRepositoryImpl) ExpirePendingBefore(ctx context.Context, before time.Time) ([]uuid.UUID, error) {
	var orderIDs []uuid.UUID
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.PaymentSession{}).
			Where("status = ? AND created_at < ?", models.PaymentSessionPending, before).
			Distinct("order_id").
			Pluck("order_id", &orderIDs).Error; err != nil {
			return err
		}
		if len(orderIDs) == 0 {
			return nil
		}
		return tx.Model(&models.PaymentSession{}).
			Where("status = ? AND created_at < ?", models.PaymentSessionPending, before).
			Update("status", models.PaymentSessionExpired).Error
	})
	return orderIDs, err
}
