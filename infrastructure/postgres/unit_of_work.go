package postgres

import (
	"context"

	"gorm.io/gorm"

	"loft-shop/domain/repositories"
)

type UnitOfWorkImpl struct {
	db *gorm.DB
}

func NewUnitOfWork(db *gorm.DB) repositories.UnitOfWork {
	return &UnitOfWorkImpl{db: db}
}

func (u *UnitOfWorkImpl) Do(ctx context.Context, fn func(repos *repositories.TxRepositories) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&repositories.TxRepositories{
			Orders:   NewOrderRepository(tx),
			Payments: NewPaymentSessionRepository(tx),
			Shipping: NewShippingRepository(tx),
		})
	})
}
