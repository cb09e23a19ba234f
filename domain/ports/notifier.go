package ports

import "context"

// ═══════════════════════════════════════════════════════════════════════════════
// Notifier Port - แจ้งเตือนผู้จัดการร้าน (Telegram, Email, etc.)
// ═══════════════════════════════════════════════════════════════════════════════

// OrderNotification - ข้อมูลสำหรับแจ้งเตือน order ใหม่
type OrderNotification struct {
	OrderID  string
	Customer string
	Total    string // จัดรูปแบบแล้ว เช่น "12 500"
	Items    int
	Address  string
	Phone    string
}

// NotifierPort - Interface สำหรับส่งการแจ้งเตือน
type NotifierPort interface {
	// SendOrderPaidAlert แจ้งเมื่อมี order ชำระเงินสำเร็จ
	SendOrderPaidAlert(ctx context.Context, notification *OrderNotification) error

	// IsEnabled ตรวจสอบว่าเปิดใช้งานการแจ้งเตือนหรือไม่
	IsEnabled() bool
}
