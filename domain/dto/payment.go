package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PaymentSessionResponse struct {
	OrderID     uuid.UUID `json:"orderId"`
	SessionID   string    `json:"sessionId"`
	RedirectURL string    `json:"redirectUrl"`
	Attempt     int       `json:"attempt"`
	AmountMinor int64     `json:"amountMinor"`
	Currency    string    `json:"currency"`
	Reused      bool      `json:"reused"`
}

type PaymentResultResponse struct {
	OrderID   uuid.UUID       `json:"orderId"`
	Status    string          `json:"status"`
	PaidTotal decimal.Decimal `json:"paidTotal"`
	PaidAt    *time.Time      `json:"paidAt"`
}

type PaymentCancelResponse struct {
	OrderID  uuid.UUID `json:"orderId"`
	Status   string    `json:"status"`
	Redirect string    `json:"redirect"`
}
