package ports

import (
	"context"
	"errors"
)

// ErrGatewayUnavailable gateway ตอบไม่ทัน / ต่อไม่ได้ (retry ได้)
var ErrGatewayUnavailable = errors.New("payment gateway unavailable")

// CheckoutLineItem รายการที่ส่งให้ hosted checkout
type CheckoutLineItem struct {
	Name        string
	AmountMinor int64
	Quantity    int64
}

// CreateCheckoutRequest ข้อมูลสร้าง checkout session
type CreateCheckoutRequest struct {
	IdempotencyKey string
	Currency       string
	Items          []CheckoutLineItem
	SuccessURL     string
	CancelURL      string
	ClientRef      string // order id
	CustomerEmail  string
}

// CheckoutSession ผลลัพธ์จาก gateway
type CheckoutSession struct {
	ID          string
	RedirectURL string
	Paid        bool
	Expired     bool
	AmountMinor int64
	ClientRef   string
}

// PaymentGatewayPort - hosted checkout provider (Stripe, etc.)
type PaymentGatewayPort interface {
	CreateCheckoutSession(ctx context.Context, req *CreateCheckoutRequest) (*CheckoutSession, error)
	GetCheckoutSession(ctx context.Context, sessionID string) (*CheckoutSession, error)
	// ExpireCheckoutSession ปิด session ที่ยังไม่จ่าย ลูกค้าจ่ายผ่าน URL เดิมไม่ได้อีก
	ExpireCheckoutSession(ctx context.Context, sessionID string) error
	ProviderName() string
}
