package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"loft-shop/domain/models"
	"loft-shop/domain/repositories"
)

type OrderRepositoryImpl struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) repositories.OrderRepository {
	return &OrderRepositoryImpl{db: db}
}

func (r *OrderRepositoryImpl) Create(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Omit("Customer", "Lines", "Shipment").Create(order).Error
}

func (r *OrderRepositoryImpl) GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *OrderRepositoryImpl) GetWithLines(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Lines", func(db *gorm.DB) *gorm.DB {
			return db.Order("added_at ASC").Order("id ASC")
		}).
		Preload("Lines.Product").
		Preload("Lines.Product.Images", preloadImages).
		Preload("Shipment").
		Where("id = ?", id).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *OrderRepositoryImpl) FindCart(ctx context.Context, customerID uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Where("customer_id = ? AND status IN ?", customerID, models.CartStatuses).
		Order("created_at DESC").
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *OrderRepositoryImpl) LockByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *OrderRepositoryImpl) Update(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Omit("Customer", "Lines", "Shipment").Save(order).Error
}

func (r *OrderRepositoryImpl) Touch(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&models.Order{}).Where("id = ?", id).Update("updated_at", time.Now().UTC()).Error
}

func (r *OrderRepositoryImpl) ListByCustomer(ctx context.Context, customerID uuid.UUID, statuses []models.OrderStatus) ([]*models.Order, error) {
	var orders []*models.Order
	query := r.db.WithContext(ctx).Where("customer_id = ?", customerID)
	if len(statuses) > 0 {
		query = query.Where("status IN ?", statuses)
	}
	err := query.
		Preload("Lines").
		Preload("Lines.Product").
		Order("created_at DESC").
		Find(&orders).Error
	return orders, err
}

// ═══════════════════════════════════════════════════════════════════════════════
// Order Lines
// ═══════════════════════════════════════════════════════════════════════════════

func (r *OrderRepositoryImpl) FindLine(ctx context.Context, orderID, productID uuid.UUID) (*models.OrderLine, error) {
	var line models.OrderLine
	err := r.db.WithContext(ctx).Where("order_id = ? AND product_id = ?", orderID, productID).First(&line).Error
	if err != nil {
		return nil, err
	}
	return &line, nil
}

func (r *OrderRepositoryImpl) FindLineByID(ctx context.Context, orderID, lineID uuid.UUID) (*models.OrderLine, error) {
	var line models.OrderLine
	err := r.db.WithContext(ctx).Where("id = ? AND order_id = ?", lineID, orderID).First(&line).Error
	if err != nil {
		return nil, err
	}
	return &line, nil
}

func (r *OrderRepositoryImpl) CreateLine(ctx context.Context, line *models.OrderLine) error {
	return r.db.WithContext(ctx).Omit("Product").Create(line).Error
}

func (r *OrderRepositoryImpl) UpdateLineQuantity(ctx context.Context, lineID uuid.UUID, quantity int) error {
	return r.db.WithContext(ctx).Model(&models.OrderLine{}).Where("id = ?", lineID).Updates(map[string]interface{}{
		"quantity":   quantity,
		"updated_at": time.Now().UTC(),
	}).Error
}

func (r *OrderRepositoryImpl) DeleteLine(ctx context.Context, lineID uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", lineID).Delete(&models.OrderLine{}).Error
}

func (r *OrderRepositoryImpl) DeleteLines(ctx context.Context, orderID uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).Where("order_id = ?", orderID).Delete(&models.OrderLine{})
	return res.RowsAffected, res.Error
}

func (r *OrderRepositoryImpl) CountLines(ctx context.Context, orderID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.OrderLine{}).Where("order_id = ?", orderID).Count(&count).Error
	return count, err
}

// ═══════════════════════════════════════════════════════════════════════════════
// Maintenance
// ═══════════════════════════════════════════════════════════════════════════════

func (r *OrderRepositoryImpl) MarkAbandoned(ctx context.Context, before time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("status = ? AND updated_at < ?", models.OrderStatusOpen, before).
		Where("NOT EXISTS (?)", r.db.Model(&models.OrderLine{}).Select("1").Where("order_lines.order_id = orders.id")).
		Update("status", models.OrderStatusAbandoned)
	return res.RowsAffected, res.Error
}

func (r *OrderRepositoryImpl) ReopenAwaiting(ctx context.Context, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id IN ? AND status = ?", ids, models.OrderStatusAwaitingPayment).
		Update("status", models.OrderStatusOpen)
	return res.RowsAffected, res.Error
}
