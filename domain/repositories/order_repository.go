package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"loft-shop/domain/models"
)

type OrderRepository interface {
	Create(ctx context.Context, order *models.Order) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	// GetWithLines preload lines -> product -> images
	GetWithLines(ctx context.Context, id uuid.UUID) (*models.Order, error)
	// FindCart order ล่าสุดของลูกค้าที่สถานะ open / awaiting_payment
	FindCart(ctx context.Context, customerID uuid.UUID) (*models.Order, error)
	// LockByID SELECT ... FOR UPDATE ใช้ภายใน transaction เท่านั้น
	LockByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	Update(ctx context.Context, order *models.Order) error
	Touch(ctx context.Context, id uuid.UUID) error
	ListByCustomer(ctx context.Context, customerID uuid.UUID, statuses []models.OrderStatus) ([]*models.Order, error)

	FindLine(ctx context.Context, orderID, productID uuid.UUID) (*models.OrderLine, error)
	FindLineByID(ctx context.Context, orderID, lineID uuid.UUID) (*models.OrderLine, error)
	CreateLine(ctx context.Context, line *models.OrderLine) error
	UpdateLineQuantity(ctx context.Context, lineID uuid.UUID, quantity int) error
	DeleteLine(ctx context.Context, lineID uuid.UUID) error
	DeleteLines(ctx context.Context, orderID uuid.UUID) (int64, error)
	CountLines(ctx context.Context, orderID uuid.UUID) (int64, error)

	// MarkAbandoned ปิด cart ว่างที่สถานะ open และไม่มีการแก้ไขตั้งแต่ before
	MarkAbandoned(ctx context.Context, before time.Time) (int64, error)
	// ReopenAwaiting คืน order ที่รอชำระเงินกลับเป็น open
	ReopenAwaiting(ctx context.Context, ids []uuid.UUID) (int64, error)
}
