package serviceimpl

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loft-shop/domain/dto"
	"loft-shop/domain/models"
	"loft-shop/pkg/scheduler"
)

func TestSweeperExpiresStaleSessions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id, cart := f.readyCart(t, "tanya")

	_, err := f.payments.CreatePaymentSession(ctx, id)
	require.NoError(t, err)

	sweeper := NewCartSweeperService(CartSweeperConfig{}, f.orderRepo, f.paymentRepo, scheduler.NewEventScheduler())
	assert.Equal(t, 0, sweeper.ExpireSessions(ctx))

	old := time.Now().UTC().Add(-48 * time.Hour)
	require.NoError(t, f.db.Model(&models.PaymentSession{}).Where("order_id = ?", cart.ID).
		UpdateColumn("created_at", old).Error)

	assert.Equal(t, 1, sweeper.ExpireSessions(ctx))

	order, err := f.orderRepo.GetByID(ctx, cart.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusOpen, order.Status)

	sessions, err := f.paymentRepo.ListByOrder(ctx, cart.ID)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, models.PaymentSessionExpired, sessions[0].Status)
}

func TestSweeperAbandonsIdleEmptyCarts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	empty, err := f.carts.GetOrCreateCart(ctx, f.user(t, "uma"))
	require.NoError(t, err)

	buyer := f.user(t, "yura")
	cat := f.category(t, "Sofas", nil)
	f.product(t, cat, "sofa", "1000", nil)
	filled, err := f.carts.AddOrUpdateLine(ctx, buyer, "sofa", dto.CartActionIncrement)
	require.NoError(t, err)

	old := time.Now().UTC().Add(-60 * 24 * time.Hour)
	require.NoError(t, f.db.Model(&models.Order{}).Where("id IN ?", []uuid.UUID{empty.ID, filled.ID}).
		UpdateColumn("updated_at", old).Error)

	sweeper := NewCartSweeperService(CartSweeperConfig{}, f.orderRepo, f.paymentRepo, scheduler.NewEventScheduler())
	assert.Equal(t, 1, sweeper.AbandonCarts(ctx))

	got, err := f.orderRepo.GetByID(ctx, empty.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusAbandoned, got.Status)

	got, err = f.orderRepo.GetByID(ctx, filled.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusOpen, got.Status)
}

type recordingScheduler struct {
	scheduler.EventScheduler
	crons map[string]string
}

func (r *recordingScheduler) AddJob(id, cronExpr string, task func()) error {
	r.crons[id] = cronExpr
	return r.EventScheduler.AddJob(id, cronExpr, task)
}

func TestSweeperRegisterJobs(t *testing.T) {
	f := newFixture(t)
	sched := &recordingScheduler{EventScheduler: scheduler.NewEventScheduler(), crons: map[string]string{}}
	sweeper := NewCartSweeperService(CartSweeperConfig{}, f.orderRepo, f.paymentRepo, sched)

	require.NoError(t, sweeper.RegisterJobs())
	assert.Equal(t, "*/10 * * * *", sched.crons["payment_session_expiry"])
	assert.Equal(t, "0 4 * * *", sched.crons["abandoned_carts"])

	assert.Error(t, sweeper.RegisterJobs())
}
