package nats

import (
	"context"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"loft-shop/pkg/logger"
)

// Client wraps NATS connection with JetStream context
type Client struct {
	conn   *nats.Conn
	js     jetstream.JetStream
	stream jetstream.Stream // order events stream
}

// ClientConfig configuration สำหรับ NATS Client
type ClientConfig struct {
	URL string // nats://localhost:4222
}

// NewClient สร้าง NATS Client พร้อม JetStream
func NewClient(cfg ClientConfig) (*Client, error) {
	nc, err := nats.Connect(cfg.URL,
		nats.Name("loft-api"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			if err != nil {
				logger.Warn("NATS disconnected", "error", err)
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("NATS reconnected", "url", nc.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}

	client := &Client{
		conn: nc,
		js:   js,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := client.setupStream(ctx); err != nil {
		nc.Close()
		return nil, fmt.Errorf("failed to setup stream: %w", err)
	}

	logger.Info("NATS client initialized", "url", cfg.URL, "stream", OrdersStreamName)
	return client, nil
}

// setupStream สร้างหรืออัปเดต order events stream
func (c *Client) setupStream(ctx context.Context) error {
	stream, err := c.js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:        OrdersStreamName,
		Subjects:    []string{SubjectOrders},
		Storage:     jetstream.FileStorage,
		Retention:   jetstream.LimitsPolicy, // หลาย consumer อ่านได้ (fulfilment, analytics)
		MaxAge:      7 * 24 * time.Hour,
		Duplicates:  10 * time.Minute, // dedup ด้วย Nats-Msg-Id
		Replicas:    1,
		Description: "Order lifecycle events",
	})
	if err != nil {
		return fmt.Errorf("failed to create/update orders stream: %w", err)
	}
	c.stream = stream
	logger.Info("JetStream stream ready", "name", OrdersStreamName)
	return nil
}

// JetStream returns the JetStream context
func (c *Client) JetStream() jetstream.JetStream {
	return c.js
}

// ═══════════════════════════════════════════════════════════════════════════════
// Lifecycle
// ═══════════════════════════════════════════════════════════════════════════════

// Close ปิด NATS connection
func (c *Client) Close() error {
	if c.conn != nil {
		c.conn.Close()
		logger.Info("NATS connection closed")
	}
	return nil
}

// IsConnected ตรวจสอบว่าเชื่อมต่ออยู่หรือไม่
func (c *Client) IsConnected() bool {
	return c.conn != nil && c.conn.IsConnected()
}
