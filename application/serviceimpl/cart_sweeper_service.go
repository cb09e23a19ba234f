package serviceimpl

import (
	"context"
	"time"

	"loft-shop/domain/repositories"
	"loft-shop/pkg/logger"
	"loft-shop/pkg/scheduler"
)

// CartSweeperConfig การตั้งค่าสำหรับงานเก็บกวาด cart / payment session
type CartSweeperConfig struct {
	SessionTTL      time.Duration // pending session เก่ากว่านี้ถือว่าหมดอายุ (default: 24h)
	AbandonAfter    time.Duration // cart ว่างที่ไม่มีการแก้ไขนานกว่านี้ถูกปิด (default: 720h)
	SessionSchedule string        // default: ทุก 10 นาที
	AbandonSchedule string        // default: ทุกวัน 04:00
}

// CartSweeperService expire payment session ที่ค้าง และปิด cart ที่ถูกทิ้ง
type CartSweeperService struct {
	config      CartSweeperConfig
	orderRepo   repositories.OrderRepository
	paymentRepo repositories.PaymentSessionRepository
	scheduler   scheduler.EventScheduler
	now         func() time.Time
}

// NewCartSweeperService สร้าง service ใหม่
func NewCartSweeperService(
	config CartSweeperConfig,
	orderRepo repositories.OrderRepository,
	paymentRepo repositories.PaymentSessionRepository,
	eventScheduler scheduler.EventScheduler,
) *CartSweeperService {
	service := &CartSweeperService{
		config:      config,
		orderRepo:   orderRepo,
		paymentRepo: paymentRepo,
		scheduler:   eventScheduler,
		now:         time.Now,
	}

	// Set defaults
	if service.config.SessionTTL == 0 {
		service.config.SessionTTL = 24 * time.Hour
	}
	if service.config.AbandonAfter == 0 {
		service.config.AbandonAfter = 720 * time.Hour
	}
	if service.config.SessionSchedule == "" {
		service.config.SessionSchedule = "*/10 * * * *"
	}
	if service.config.AbandonSchedule == "" {
		service.config.AbandonSchedule = "0 4 * * *"
	}

	return service
}

// RegisterJobs ลงทะเบียนงานกับ scheduler
func (s *CartSweeperService) RegisterJobs() error {
	if err := s.scheduler.AddJob("payment_session_expiry", s.config.SessionSchedule, func() {
		s.ExpireSessions(context.Background())
	}); err != nil {
		return err
	}
	return s.scheduler.AddJob("abandoned_carts", s.config.AbandonSchedule, func() {
		s.AbandonCarts(context.Background())
	})
}

// ExpireSessions pending session ที่เกิน TTL เป็น expired และคืน order เป็น open
func (s *CartSweeperService) ExpireSessions(ctx context.Context) int {
	threshold := s.now().UTC().Add(-s.config.SessionTTL)

	orderIDs, err := s.paymentRepo.ExpirePendingBefore(ctx, threshold)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to expire payment sessions", "error", err)
		return 0
	}
	if len(orderIDs) == 0 {
		return 0
	}

	reopened, err := s.orderRepo.ReopenAwaiting(ctx, orderIDs)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to reopen orders after session expiry", "orders", len(orderIDs), "error", err)
		return 0
	}

	logger.InfoContext(ctx, "Payment sessions expired",
		"orders", len(orderIDs),
		"reopened", reopened,
		"ttl", s.config.SessionTTL,
	)
	return int(reopened)
}

// AbandonCarts ปิด cart ว่างที่ open และไม่มีการแก้ไขนานเกิน AbandonAfter
func (s *CartSweeperService) AbandonCarts(ctx context.Context) int {
	threshold := s.now().UTC().Add(-s.config.AbandonAfter)

	count, err := s.orderRepo.MarkAbandoned(ctx, threshold)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to mark abandoned carts", "error", err)
		return 0
	}
	if count > 0 {
		logger.InfoContext(ctx, "Abandoned carts closed", "count", count, "idle", s.config.AbandonAfter)
	}
	return int(count)
}
