package ports

import (
	"context"
	"time"
)

// LockPort - lock แบบมี TTL สำหรับกันการทำงานซ้อนกันของ key เดียวกัน
type LockPort interface {
	// Acquire return false ถ้ามีคนถือ lock อยู่แล้ว
	Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, key string) error
}

// CachePort - JSON cache (Redis) สำหรับข้อมูลอ่านบ่อย
type CachePort interface {
	GetJSON(ctx context.Context, key string, target interface{}) error
	SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}
