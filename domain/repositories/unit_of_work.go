package repositories

import "context"

// TxRepositories repositories ที่ผูกกับ transaction เดียวกัน
type TxRepositories struct {
	Orders   OrderRepository
	Payments PaymentSessionRepository
	Shipping ShippingRepository
}

// UnitOfWork รัน fn ภายใน transaction fn return error = rollback
type UnitOfWork interface {
	Do(ctx context.Context, fn func(repos *TxRepositories) error) error
}
