package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type OrderStatus string

const (
	OrderStatusOpen            OrderStatus = "open"
	OrderStatusAwaitingPayment OrderStatus = "awaiting_payment"
	OrderStatusPaid            OrderStatus = "paid"
	OrderStatusAbandoned       OrderStatus = "abandoned"
)

// CartStatuses สถานะที่ถือว่า order ยังเป็น cart ของลูกค้า
var CartStatuses = []OrderStatus{OrderStatusOpen, OrderStatusAwaitingPayment}

type Order struct {
	ID             uuid.UUID        `gorm:"primaryKey;type:uuid"`
	CustomerID     uuid.UUID        `gorm:"type:uuid;not null;index:idx_orders_customer_status"`
	Status         OrderStatus      `gorm:"size:20;not null;default:'open';index:idx_orders_customer_status"`
	Payment        bool             `gorm:"not null;default:false"`
	Shipping       bool             `gorm:"not null;default:true"`
	PaymentAttempt int              `gorm:"not null;default:0"`
	PaidTotal      *decimal.Decimal `gorm:"type:numeric(12,2)"`
	PaidAt         *time.Time
	CreatedAt      time.Time `gorm:"index"`
	UpdatedAt      time.Time

	// Relations
	Customer *Customer        `gorm:"foreignKey:CustomerID;constraint:OnDelete:CASCADE"`
	Lines    []OrderLine      `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	Shipment *ShippingAddress `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

func (Order) TableName() string {
	return "orders"
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	assignID(&o.ID)
	if o.Status == "" {
		o.Status = OrderStatusOpen
	}
	return nil
}

// IsCompleted order ที่ชำระเงินแล้ว
func (o *Order) IsCompleted() bool {
	return o.Status == OrderStatusPaid
}

// IsCart order ที่ยังแก้ไขได้
func (o *Order) IsCart() bool {
	return o.Status == OrderStatusOpen || o.Status == OrderStatusAwaitingPayment
}

// Totals รวมราคา (หลังส่วนลด) และจำนวนชิ้นของทุก line ที่ preload Product แล้ว
func (o *Order) Totals() (decimal.Decimal, int) {
	total := decimal.Zero
	qty := 0
	for i := range o.Lines {
		total = total.Add(o.Lines[i].LineTotal())
		qty += o.Lines[i].Quantity
	}
	return total, qty
}

// OrderLine สินค้าหนึ่งรายการใน order (quantity > 0 เสมอ)
type OrderLine struct {
	ID        uuid.UUID `gorm:"primaryKey;type:uuid"`
	OrderID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_order_lines_order_product"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_order_lines_order_product"`
	Quantity  int       `gorm:"not null;check:quantity_positive,quantity > 0"`
	AddedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time

	Product *Product `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
}

func (OrderLine) TableName() string {
	return "order_lines"
}

func (l *OrderLine) BeforeCreate(tx *gorm.DB) error {
	assignID(&l.ID)
	return nil
}

// LineTotal effective price x quantity (ต้อง preload Product)
func (l *OrderLine) LineTotal() decimal.Decimal {
	if l.Product == nil {
		return decimal.Zero
	}
	return l.Product.EffectivePrice().Mul(decimal.NewFromInt(int64(l.Quantity)))
}
