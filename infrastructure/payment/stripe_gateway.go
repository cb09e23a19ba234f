package payment

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"

	"loft-shop/domain/ports"
	"loft-shop/pkg/logger"
)

// StripeGateway hosted checkout ผ่าน Stripe Checkout Sessions
type StripeGateway struct {
	api *client.API
}

type StripeConfig struct {
	SecretKey string
	Timeout   time.Duration // จำกัดเวลาแต่ละ request
}

var _ ports.PaymentGatewayPort = (*StripeGateway)(nil)

// NewStripeGateway ปิด automatic retries ของ SDK ให้ caller ตัดสินใจ retry เอง
// (idempotency key ทำให้ retry ได้ปลอดภัย)
func NewStripeGateway(cfg StripeConfig) (*StripeGateway, error) {
	if cfg.SecretKey == "" {
		return nil, errors.New("stripe secret key is required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}

	backendCfg := &stripe.BackendConfig{
		HTTPClient:        &http.Client{Timeout: cfg.Timeout},
		MaxNetworkRetries: stripe.Int64(0),
		LeveledLogger:     &stripe.LeveledLogger{Level: stripe.LevelWarn},
	}

	backends := &stripe.Backends{
		API:     stripe.GetBackendWithConfig(stripe.APIBackend, backendCfg),
		Connect: stripe.GetBackendWithConfig(stripe.ConnectBackend, backendCfg),
		Uploads: stripe.GetBackendWithConfig(stripe.UploadsBackend, backendCfg),
	}

	return &StripeGateway{api: client.New(cfg.SecretKey, backends)}, nil
}

func (g *StripeGateway) ProviderName() string {
	return "stripe"
}

func (g *StripeGateway) CreateCheckoutSession(ctx context.Context, req *ports.CreateCheckoutRequest) (*ports.CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{
		Mode:              stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL:        stripe.String(req.SuccessURL),
		CancelURL:         stripe.String(req.CancelURL),
		ClientReferenceID: stripe.String(req.ClientRef),
	}
	if req.CustomerEmail != "" {
		params.CustomerEmail = stripe.String(req.CustomerEmail)
	}
	for _, item := range req.Items {
		params.LineItems = append(params.LineItems, &stripe.CheckoutSessionLineItemParams{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency: stripe.String(req.Currency),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String(item.Name),
				},
				UnitAmount: stripe.Int64(item.AmountMinor),
			},
			Quantity: stripe.Int64(item.Quantity),
		})
	}
	params.Context = ctx
	params.SetIdempotencyKey(req.IdempotencyKey)

	s, err := g.api.CheckoutSessions.New(params)
	if err != nil {
		logger.WarnContext(ctx, "Stripe checkout session failed",
			"idempotency_key", req.IdempotencyKey,
			"error", err,
		)
		return nil, wrapStripeError(err)
	}

	return toCheckoutSession(s), nil
}

func (g *StripeGateway) GetCheckoutSession(ctx context.Context, sessionID string) (*ports.CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx

	s, err := g.api.CheckoutSessions.Get(sessionID, params)
	if err != nil {
		return nil, wrapStripeError(err)
	}
	return toCheckoutSession(s), nil
}

func (g *StripeGateway) ExpireCheckoutSession(ctx context.Context, sessionID string) error {
	params := &stripe.CheckoutSessionExpireParams{}
	params.Context = ctx

	if _, err := g.api.CheckoutSessions.Expire(sessionID, params); err != nil {
		logger.WarnContext(ctx, "Stripe checkout session expire failed", "session_id", sessionID, "error", err)
		return wrapStripeError(err)
	}
	return nil
}

func toCheckoutSession(s *stripe.CheckoutSession) *ports.CheckoutSession {
	return &ports.CheckoutSession{
		ID:          s.ID,
		RedirectURL: s.URL,
		Paid:        s.PaymentStatus == stripe.CheckoutSessionPaymentStatusPaid,
		Expired:     s.Status == stripe.CheckoutSessionStatusExpired,
		AmountMinor: s.AmountTotal,
		ClientRef:   s.ClientReferenceID,
	}
}

// wrapStripeError แยก error ที่ retry ได้ (network / 5xx / 429) ออกจาก error ถาวร
func wrapStripeError(err error) error {
	var serr *stripe.Error
	if errors.As(err, &serr) {
		if serr.HTTPStatusCode >= 500 || serr.HTTPStatusCode == http.StatusTooManyRequests {
			return fmt.Errorf("%w: %s", ports.ErrGatewayUnavailable, serr.Msg)
		}
		return fmt.Errorf("stripe rejected request (%d %s): %s", serr.HTTPStatusCode, serr.Code, serr.Msg)
	}
	return fmt.Errorf("%w: %v", ports.ErrGatewayUnavailable, err)
}
