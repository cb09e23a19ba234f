package serviceimpl

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loft-shop/domain/dto"
	"loft-shop/domain/models"
	"loft-shop/domain/ports"
	"loft-shop/domain/services"
	"loft-shop/infrastructure/payment"
)

// readyCart cart ที่มีสินค้าและที่อยู่จัดส่งแล้ว พร้อมชำระเงิน
func (f *fixture) readyCart(t *testing.T, username string) (services.Identity, *models.Order) {
	t.Helper()
	ctx := context.Background()
	id := f.user(t, username)
	cat := f.category(t, "Sofas "+username, nil)
	f.product(t, cat, "sofa-"+username, "1150", nil)

	_, err := f.carts.AddOrUpdateLine(ctx, id, "sofa-"+username, dto.CartActionIncrement)
	require.NoError(t, err)
	order, err := f.carts.AddOrUpdateLine(ctx, id, "sofa-"+username, dto.CartActionIncrement)
	require.NoError(t, err)

	region, cities := f.region(t, "Region "+username, "City "+username)
	_, err = f.checkout.SubmitShipping(ctx, id, &dto.ShippingRequest{
		Address:  "Lenina 1",
		Phone:    "+79990000000",
		RegionID: region.ID,
		CityID:   cities[0].ID,
	})
	require.NoError(t, err)
	return id, order
}

func TestCreatePaymentSession(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id, cart := f.readyCart(t, "alla")

	resp, err := f.payments.CreatePaymentSession(ctx, id)
	require.NoError(t, err)

	assert.Equal(t, cart.ID, resp.OrderID)
	assert.Equal(t, 1, resp.Attempt)
	assert.Equal(t, int64(230000), resp.AmountMinor)
	assert.Equal(t, "rub", resp.Currency)
	assert.NotEmpty(t, resp.RedirectURL)
	assert.False(t, resp.Reused)

	require.NotNil(t, f.gateway.LastReq)
	assert.Equal(t, models.IdempotencyKeyFor(cart.ID, 1), f.gateway.LastReq.IdempotencyKey)
	require.Len(t, f.gateway.LastReq.Items, 1)
	assert.Equal(t, DefaultPaymentItemName, f.gateway.LastReq.Items[0].Name)
	assert.Equal(t, "alla@loft.test", f.gateway.LastReq.CustomerEmail)

	order, err := f.orderRepo.GetByID(ctx, cart.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusAwaitingPayment, order.Status)
	assert.False(t, order.Payment)

	pending, err := f.paymentRepo.FindPending(ctx, cart.ID)
	require.NoError(t, err)
	assert.Equal(t, resp.SessionID, pending.ProviderSessionID)
}

func TestCreatePaymentSessionReusesPending(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id, cart := f.readyCart(t, "boris")

	first, err := f.payments.CreatePaymentSession(ctx, id)
	require.NoError(t, err)
	second, err := f.payments.CreatePaymentSession(ctx, id)
	require.NoError(t, err)

	assert.Equal(t, first.SessionID, second.SessionID)
	assert.True(t, second.Reused)
	assert.Equal(t, 1, f.gateway.Calls)

	sessions, err := f.paymentRepo.ListByOrder(ctx, cart.ID)
	require.NoError(t, err)
	assert.Len(t, sessions, 1)
}

func TestCreatePaymentSessionAfterCartChangeStartsNewAttempt(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id, cart := f.readyCart(t, "vlad")

	first, err := f.payments.CreatePaymentSession(ctx, id)
	require.NoError(t, err)

	_, err = f.carts.AddOrUpdateLine(ctx, id, "sofa-vlad", dto.CartActionIncrement)
	require.NoError(t, err)

	second, err := f.payments.CreatePaymentSession(ctx, id)
	require.NoError(t, err)
	assert.NotEqual(t, first.SessionID, second.SessionID)
	assert.Equal(t, 2, second.Attempt)
	assert.Equal(t, int64(345000), second.AmountMinor)
	assert.Equal(t, models.IdempotencyKeyFor(cart.ID, 2), f.gateway.LastReq.IdempotencyKey)

	sessions, err := f.paymentRepo.ListByOrder(ctx, cart.ID)
	require.NoError(t, err)
	statuses := map[models.PaymentSessionStatus]int{}
	for _, s := range sessions {
		statuses[s.Status]++
	}
	assert.Equal(t, 1, statuses[models.PaymentSessionSuperseded])
	assert.Equal(t, 1, statuses[models.PaymentSessionPending])
}

// mutatingGateway แก้ cart ระหว่างที่ gateway กำลังสร้าง session
type mutatingGateway struct {
	*payment.FakeGateway
	mutate func()
}

func (g *mutatingGateway) CreateCheckoutSession(ctx context.Context, req *ports.CreateCheckoutRequest) (*ports.CheckoutSession, error) {
	if g.mutate != nil {
		g.mutate()
		g.mutate = nil
	}
	return g.FakeGateway.CreateCheckoutSession(ctx, req)
}

func TestCreatePaymentSessionCartChangedDuringGatewayCall(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id, cart := f.readyCart(t, "nadia")

	gw := &mutatingGateway{FakeGateway: f.gateway, mutate: func() {
		_, err := f.carts.AddOrUpdateLine(ctx, id, "sofa-nadia", dto.CartActionIncrement)
		assert.NoError(t, err)
	}}

	_, err := f.paymentService(gw).CreatePaymentSession(ctx, id)
	require.ErrorIs(t, err, services.ErrConflict)

	order, err := f.orderRepo.GetByID(ctx, cart.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusOpen, order.Status)

	_, err = f.paymentRepo.FindPending(ctx, cart.ID)
	assert.True(t, isNotFound(err))

	sessions, err := f.paymentRepo.ListByOrder(ctx, cart.ID)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, models.PaymentSessionSuperseded, sessions[0].Status)
	assert.Equal(t, int64(230000), sessions[0].AmountMinor)

	remote, err := f.gateway.GetCheckoutSession(ctx, sessions[0].ProviderSessionID)
	require.NoError(t, err)
	assert.True(t, remote.Expired)

	resp, err := f.payments.CreatePaymentSession(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Attempt)
	assert.Equal(t, int64(345000), resp.AmountMinor)
}

func TestCartChangeExpiresCheckoutSession(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id, cart := f.readyCart(t, "olya")
	f.product(t, f.category(t, "Lamps", nil), "floor-lamp", "9000", nil)

	first, err := f.payments.CreatePaymentSession(ctx, id)
	require.NoError(t, err)

	_, err = f.carts.AddOrUpdateLine(ctx, id, "floor-lamp", dto.CartActionIncrement)
	require.NoError(t, err)

	stored, err := f.paymentRepo.GetByProviderSessionID(ctx, first.SessionID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentSessionSuperseded, stored.Status)

	remote, err := f.gateway.GetCheckoutSession(ctx, first.SessionID)
	require.NoError(t, err)
	assert.True(t, remote.Expired)
	assert.ErrorIs(t, f.gateway.MarkPaid(first.SessionID), payment.ErrSessionExpired)

	order, err := f.orderRepo.GetByID(ctx, cart.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusOpen, order.Status)
}

func TestCreatePaymentSessionRequiresShipping(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.user(t, "galya")
	cat := f.category(t, "Beds", nil)
	f.product(t, cat, "bed", "900", nil)
	_, err := f.carts.AddOrUpdateLine(ctx, id, "bed", dto.CartActionIncrement)
	require.NoError(t, err)

	_, err = f.payments.CreatePaymentSession(ctx, id)
	require.ErrorIs(t, err, services.ErrValidation)

	var verr *services.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "shipping")
	assert.Equal(t, 0, f.gateway.Calls)
}

func TestCreatePaymentSessionEmptyCart(t *testing.T) {
	f := newFixture(t)
	id := f.user(t, "dasha")

	_, err := f.payments.CreatePaymentSession(context.Background(), id)
	assert.ErrorIs(t, err, services.ErrValidation)
	assert.Equal(t, 0, f.gateway.Calls)
}

func TestCreatePaymentSessionLockedOrderConflicts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id, cart := f.readyCart(t, "elena")

	ok, err := f.locker.Acquire(ctx, paymentLockKey(cart), time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	_, err = f.payments.CreatePaymentSession(ctx, id)
	assert.ErrorIs(t, err, services.ErrConflict)
	assert.Equal(t, 0, f.gateway.Calls)

	require.NoError(t, f.locker.Release(ctx, paymentLockKey(cart)))
	_, err = f.payments.CreatePaymentSession(ctx, id)
	assert.NoError(t, err)
}

func TestCreatePaymentSessionGatewayFailure(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id, cart := f.readyCart(t, "zhenya")
	f.gateway.FailNext = ports.ErrGatewayUnavailable

	_, err := f.payments.CreatePaymentSession(ctx, id)
	require.ErrorIs(t, err, services.ErrGateway)
	assert.ErrorIs(t, err, ports.ErrGatewayUnavailable)

	order, err := f.orderRepo.GetByID(ctx, cart.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusOpen, order.Status)

	sessions, err := f.paymentRepo.ListByOrder(ctx, cart.ID)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, models.PaymentSessionFailed, sessions[0].Status)

	// retry ได้ attempt ใหม่
	resp, err := f.payments.CreatePaymentSession(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Attempt)
}

func TestHandlePaymentSuccess(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id, cart := f.readyCart(t, "zina")

	resp, err := f.payments.CreatePaymentSession(ctx, id)
	require.NoError(t, err)
	require.NoError(t, f.gateway.MarkPaid(resp.SessionID))

	order, err := f.payments.HandlePaymentSuccess(ctx, id, resp.SessionID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusPaid, order.Status)
	assert.True(t, order.Payment)
	require.NotNil(t, order.PaidTotal)
	assert.True(t, decimal.NewFromInt(2300).Equal(*order.PaidTotal), "got %s", order.PaidTotal)
	assert.NotNil(t, order.PaidAt)
	assert.Len(t, order.Lines, 1)

	require.Len(t, f.publisher.events, 1)
	assert.Equal(t, cart.ID.String(), f.publisher.events[0].OrderID)
	assert.Equal(t, int64(230000), f.publisher.events[0].AmountMinor)
	assert.Equal(t, 2, f.publisher.events[0].TotalQuantity)

	require.Len(t, f.notifier.sent, 1)
	assert.Equal(t, "Ivan Petrov", f.notifier.sent[0].Customer)
	assert.Equal(t, "Lenina 1", f.notifier.sent[0].Address)

	// callback ซ้ำไม่เปลี่ยนอะไร
	again, err := f.payments.HandlePaymentSuccess(ctx, id, resp.SessionID)
	require.NoError(t, err)
	assert.Equal(t, order.ID, again.ID)
	assert.Len(t, f.publisher.events, 1)
	assert.Len(t, f.notifier.sent, 1)

	next, err := f.carts.GetOrCreateCart(ctx, id)
	require.NoError(t, err)
	assert.NotEqual(t, cart.ID, next.ID)
}

func TestHandlePaymentSuccessUnpaidSession(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id, cart := f.readyCart(t, "igor")

	resp, err := f.payments.CreatePaymentSession(ctx, id)
	require.NoError(t, err)

	_, err = f.payments.HandlePaymentSuccess(ctx, id, resp.SessionID)
	assert.ErrorIs(t, err, services.ErrConflict)

	order, err := f.orderRepo.GetByID(ctx, cart.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusAwaitingPayment, order.Status)
	assert.Empty(t, f.publisher.events)
}

func TestHandlePaymentSuccessRejectsStaleSession(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id, cart := f.readyCart(t, "polina")
	f.product(t, f.category(t, "Lamps", nil), "desk-lamp", "9000", nil)

	// ลูกค้าจ่าย session แรกไปแล้ว แต่เพิ่มสินค้าก่อน callback มาถึง
	stale, err := f.payments.CreatePaymentSession(ctx, id)
	require.NoError(t, err)
	require.NoError(t, f.gateway.MarkPaid(stale.SessionID))
	_, err = f.carts.AddOrUpdateLine(ctx, id, "desk-lamp", dto.CartActionIncrement)
	require.NoError(t, err)

	_, err = f.payments.HandlePaymentSuccess(ctx, id, stale.SessionID)
	require.ErrorIs(t, err, services.ErrConflict)

	order, err := f.orderRepo.GetByID(ctx, cart.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusOpen, order.Status)
	assert.False(t, order.Payment)
	assert.Nil(t, order.PaidTotal)
	assert.Empty(t, f.publisher.events)

	flagged, err := f.paymentRepo.GetByProviderSessionID(ctx, stale.SessionID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentSessionRefundRequired, flagged.Status)

	// attempt ปัจจุบันจ่ายยอดเต็ม
	current, err := f.payments.CreatePaymentSession(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, int64(1130000), current.AmountMinor)
	require.NoError(t, f.gateway.MarkPaid(current.SessionID))

	paid, err := f.payments.HandlePaymentSuccess(ctx, id, current.SessionID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusPaid, paid.Status)
	require.NotNil(t, paid.PaidTotal)
	assert.True(t, decimal.NewFromInt(11300).Equal(*paid.PaidTotal), "got %s", paid.PaidTotal)

	// callback ของ session เก่าหลัง order จ่ายแล้วยังถูกปฏิเสธ
	_, err = f.payments.HandlePaymentSuccess(ctx, id, stale.SessionID)
	assert.ErrorIs(t, err, services.ErrConflict)
	assert.Len(t, f.publisher.events, 1)
}

func TestHandlePaymentSuccessForeignSession(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner, _ := f.readyCart(t, "kostya")
	stranger := f.user(t, "lida")

	resp, err := f.payments.CreatePaymentSession(ctx, owner)
	require.NoError(t, err)
	require.NoError(t, f.gateway.MarkPaid(resp.SessionID))

	_, err = f.payments.HandlePaymentSuccess(ctx, stranger, resp.SessionID)
	assert.ErrorIs(t, err, services.ErrNotFound)

	_, err = f.payments.HandlePaymentSuccess(ctx, owner, "cs_unknown")
	assert.ErrorIs(t, err, services.ErrNotFound)

	_, err = f.payments.HandlePaymentSuccess(ctx, owner, "  ")
	assert.ErrorIs(t, err, services.ErrValidation)
}

func TestHandlePaymentCancel(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id, cart := f.readyCart(t, "maks")

	_, err := f.payments.CreatePaymentSession(ctx, id)
	require.NoError(t, err)

	order, err := f.payments.HandlePaymentCancel(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, cart.ID, order.ID)
	assert.Equal(t, models.OrderStatusOpen, order.Status)
	assert.Len(t, order.Lines, 1)

	_, err = f.paymentRepo.FindPending(ctx, cart.ID)
	assert.True(t, isNotFound(err))

	// cancel บน cart ที่ open อยู่แล้วไม่ error
	_, err = f.payments.HandlePaymentCancel(ctx, id)
	assert.NoError(t, err)
}
