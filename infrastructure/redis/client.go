package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"loft-shop/domain/ports"
	"loft-shop/pkg/config"
	"loft-shop/pkg/logger"
)

// Client wraps the Redis client
type Client struct {
	rdb *redis.Client
}

var _ ports.CachePort = (*Client)(nil)

// NewClient creates a new Redis client from config
func NewClient(cfg *config.RedisConfig) (*Client, error) {
	opt, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	if cfg.Password != "" {
		opt.Password = cfg.Password
	}
	if cfg.DB > 0 {
		opt.DB = cfg.DB
	}

	rdb := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	logger.Info("Redis connected", "url", cfg.URL)

	return NewFromRedis(rdb), nil
}

// NewFromRedis ใช้ client ที่สร้างไว้แล้ว (เช่น test)
func NewFromRedis(rdb *redis.Client) *Client {
	return &Client{rdb: rdb}
}

// Del deletes one or more keys
func (c *Client) Del(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return c.rdb.Del(ctx, keys...).Err()
}

// Close closes the Redis connection
func (c *Client) Close() error {
	return c.rdb.Close()
}

// Ping tests the connection
func (c *Client) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

// ═══════════════════════════════════════════════════════════════════════════════
// JSON Cache Helpers
// ═══════════════════════════════════════════════════════════════════════════════

// SetJSON stores a value as JSON with expiration
func (c *Client) SetJSON(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, key, data, expiration).Err()
}

// GetJSON retrieves a JSON value and unmarshals it into the target
// Returns ErrCacheMiss if key does not exist
func (c *Client) GetJSON(ctx context.Context, key string, target interface{}) error {
	data, err := c.rdb.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return ErrCacheMiss
	}
	if err != nil {
		return err
	}
	return json.Unmarshal(data, target)
}
