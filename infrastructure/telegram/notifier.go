package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html"
	"net/http"
	"time"

	"loft-shop/domain/ports"
	"loft-shop/pkg/logger"
)

const defaultAPIBase = "https://api.telegram.org"

// TelegramNotifier - Telegram implementation of NotifierPort
type TelegramNotifier struct {
	botToken   string
	chatID     string
	apiBase    string
	httpClient *http.Client
}

type Config struct {
	BotToken string
	ChatID   string
	APIBase  string // ว่าง = api.telegram.org
}

var _ ports.NotifierPort = (*TelegramNotifier)(nil)

// NewTelegramNotifier สร้าง TelegramNotifier (token / chat ว่าง = ปิดการแจ้งเตือน)
func NewTelegramNotifier(cfg Config) *TelegramNotifier {
	base := cfg.APIBase
	if base == "" {
		base = defaultAPIBase
	}
	return &TelegramNotifier{
		botToken: cfg.BotToken,
		chatID:   cfg.ChatID,
		apiBase:  base,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// IsEnabled ตรวจสอบว่าเปิดใช้งานการแจ้งเตือนหรือไม่
func (n *TelegramNotifier) IsEnabled() bool {
	return n.botToken != "" && n.chatID != ""
}

// sendMessage ส่งข้อความไปยัง Telegram
func (n *TelegramNotifier) sendMessage(ctx context.Context, message string) error {
	if !n.IsEnabled() {
		logger.DebugContext(ctx, "Telegram notification disabled, skipping")
		return nil
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", n.apiBase, n.botToken)

	body, _ := json.Marshal(map[string]interface{}{
		"chat_id":    n.chatID,
		"text":       message,
		"parse_mode": "HTML",
	})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to send Telegram message", "error", err)
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		logger.ErrorContext(ctx, "Telegram API error", "status", resp.StatusCode)
		return fmt.Errorf("telegram API returned status %d", resp.StatusCode)
	}
	return nil
}

// SendOrderPaidAlert แจ้งผู้จัดการร้านเมื่อมี order ชำระเงินแล้ว
func (n *TelegramNotifier) SendOrderPaidAlert(ctx context.Context, o *ports.OrderNotification) error {
	message := fmt.Sprintf(`🛋 <b>New paid order</b>

🧾 Order: <code>%s</code>
👤 %s
📦 Items: %d
💰 Total: <b>%s ₽</b>

📍 %s
📞 %s`,
		o.OrderID,
		html.EscapeString(o.Customer),
		o.Items,
		o.Total,
		html.EscapeString(truncateString(o.Address, 150)),
		html.EscapeString(o.Phone),
	)

	return n.sendMessage(ctx, message)
}

// truncateString truncates string to max length (นับเป็น rune)
func truncateString(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen]) + "..."
}
