package redis

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"loft-shop/domain/ports"
)

var ErrCacheMiss = errors.New("cache miss")

// ปลด lock เฉพาะเมื่อ token ยังเป็นของเรา (กัน TTL หมดแล้วไปลบ lock ของคนอื่น)
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// ═══════════════════════════════════════════════════════════════════════════════
// Distributed Lock (SET NX + TTL)
// ═══════════════════════════════════════════════════════════════════════════════

type Locker struct {
	rdb    *redis.Client
	prefix string

	mu     sync.Mutex
	tokens map[string]string
}

var _ ports.LockPort = (*Locker)(nil)

func NewLocker(c *Client) *Locker {
	return &Locker{rdb: c.rdb, prefix: "lock:", tokens: make(map[string]string)}
}

// Acquire tries to acquire a lock with the given key
// Returns false if already locked by someone else
func (l *Locker) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	token := uuid.NewString()
	ok, err := l.rdb.SetNX(ctx, l.prefix+key, token, ttl).Result()
	if err != nil || !ok {
		return false, err
	}

	l.mu.Lock()
	l.tokens[key] = token
	l.mu.Unlock()
	return true, nil
}

// Release releases a lock
func (l *Locker) Release(ctx context.Context, key string) error {
	l.mu.Lock()
	token, ok := l.tokens[key]
	delete(l.tokens, key)
	l.mu.Unlock()

	if !ok {
		return nil
	}
	return releaseScript.Run(ctx, l.rdb, []string{l.prefix + key}, token).Err()
}

// ═══════════════════════════════════════════════════════════════════════════════
// Local Lock - fallback เมื่อไม่มี Redis (instance เดียว)
// ═══════════════════════════════════════════════════════════════════════════════

type LocalLocker struct {
	mu    sync.Mutex
	locks map[string]time.Time
	now   func() time.Time
}

var _ ports.LockPort = (*LocalLocker)(nil)

func NewLocalLocker() *LocalLocker {
	return &LocalLocker{locks: make(map[string]time.Time), now: time.Now}
}

func (l *LocalLocker) Acquire(_ context.Context, key string, ttl time.Duration) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if exp, ok := l.locks[key]; ok && now.Before(exp) {
		return false, nil
	}
	l.locks[key] = now.Add(ttl)
	return true, nil
}

func (l *LocalLocker) Release(_ context.Context, key string) error {
	l.mu.Lock()
	delete(l.locks, key)
	l.mu.Unlock()
	return nil
}
