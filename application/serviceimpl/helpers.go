package serviceimpl

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"loft-shop/domain/ports"
	"loft-shop/domain/services"
	"loft-shop/pkg/logger"
)

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

func isDuplicate(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

func requireIdentity(identity services.Identity) error {
	if identity.IsAnonymous() {
		return services.ErrUnauthenticated
	}
	return nil
}

// acquireWait รอ lock จนได้หรือ ctx หมดเวลา
func acquireWait(ctx context.Context, locker ports.LockPort, key string, ttl time.Duration) (func(), error) {
	const step = 20 * time.Millisecond
	deadline := time.Now().Add(ttl)

	for {
		ok, err := locker.Acquire(ctx, key, ttl)
		if err != nil {
			return nil, err
		}
		if ok {
			return func() { _ = locker.Release(context.Background(), key) }, nil
		}
		if time.Now().After(deadline) {
			return nil, services.Conflict("resource is busy")
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(step):
		}
	}
}

// expireRemoteSessions ปิด session ที่ gateway หลัง commit (ล้มเหลวแค่ log)
// session ที่ลูกค้าจ่ายไปก่อนจะถูก flag ตอน success callback
func expireRemoteSessions(ctx context.Context, gateway ports.PaymentGatewayPort, sessionIDs []string) {
	if gateway == nil {
		return
	}
	for _, id := range sessionIDs {
		if err := gateway.ExpireCheckoutSession(ctx, id); err != nil {
			logger.WarnContext(ctx, "Failed to expire checkout session",
				"session_id", id,
				"provider", gateway.ProviderName(),
				"error", err,
			)
			continue
		}
		logger.InfoContext(ctx, "Checkout session expired", "session_id", id)
	}
}
