package payment

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"loft-shop/domain/ports"
)

var (
	ErrSessionNotFound = errors.New("checkout session not found")
	ErrSessionExpired  = errors.New("checkout session is expired")
	ErrSessionComplete = errors.New("checkout session is already paid")
)

// FakeGateway in-memory gateway สำหรับ local dev (PAYMENT_PROVIDER=fake) และ test
// idempotency key เดิมคืน session เดิม เหมือน provider จริง
type FakeGateway struct {
	mu        sync.Mutex
	byKey     map[string]*ports.CheckoutSession
	byID      map[string]*ports.CheckoutSession
	Calls     int
	FailNext  error
	LastReq   *ports.CreateCheckoutRequest
	returnURL string
}

var _ ports.PaymentGatewayPort = (*FakeGateway)(nil)

func NewFakeGateway(returnURL string) *FakeGateway {
	return &FakeGateway{
		byKey:     make(map[string]*ports.CheckoutSession),
		byID:      make(map[string]*ports.CheckoutSession),
		returnURL: returnURL,
	}
}

func (g *FakeGateway) ProviderName() string {
	return "fake"
}

func (g *FakeGateway) CreateCheckoutSession(ctx context.Context, req *ports.CreateCheckoutRequest) (*ports.CheckoutSession, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.Calls++
	g.LastReq = req
	if err := g.FailNext; err != nil {
		g.FailNext = nil
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ports.ErrGatewayUnavailable, err)
	}

	if s, ok := g.byKey[req.IdempotencyKey]; ok {
		cp := *s
		return &cp, nil
	}

	var amount int64
	for _, item := range req.Items {
		amount += item.AmountMinor * item.Quantity
	}

	id := "cs_test_" + strings.ReplaceAll(uuid.NewString(), "-", "")
	s := &ports.CheckoutSession{
		ID:          id,
		RedirectURL: strings.TrimSuffix(g.returnURL, "/") + "/pay/" + id,
		AmountMinor: amount,
		ClientRef:   req.ClientRef,
	}
	g.byKey[req.IdempotencyKey] = s
	g.byID[id] = s

	cp := *s
	return &cp, nil
}

func (g *FakeGateway) GetCheckoutSession(ctx context.Context, sessionID string) (*ports.CheckoutSession, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	s, ok := g.byID[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	cp := *s
	return &cp, nil
}

// MarkPaid จำลองลูกค้าชำระเงินสำเร็จบนหน้า provider
func (g *FakeGateway) MarkPaid(sessionID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	s, ok := g.byID[sessionID]
	if !ok {
		return ErrSessionNotFound
	}
	if s.Expired {
		return ErrSessionExpired
	}
	s.Paid = true
	return nil
}

// ExpireCheckoutSession เหมือน Stripe: session ที่จ่ายแล้ว expire ไม่ได้
func (g *FakeGateway) ExpireCheckoutSession(ctx context.Context, sessionID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	s, ok := g.byID[sessionID]
	if !ok {
		return ErrSessionNotFound
	}
	if s.Paid {
		return ErrSessionComplete
	}
	s.Expired = true
	return nil
}
