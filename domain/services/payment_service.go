package services

import (
	"context"

	"loft-shop/domain/dto"
	"loft-shop/domain/models"
)

type PaymentService interface {
	// CreatePaymentSession สร้าง (หรือใช้ซ้ำ) hosted checkout session ของ cart ปัจจุบัน
	CreatePaymentSession(ctx context.Context, identity Identity) (*dto.PaymentSessionResponse, error)
	// HandlePaymentSuccess ตรวจกับ gateway แล้ว mark order เป็น paid (เรียกซ้ำได้)
	HandlePaymentSuccess(ctx context.Context, identity Identity, providerSessionID string) (*models.Order, error)
	HandlePaymentCancel(ctx context.Context, identity Identity) (*models.Order, error)
}
