package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const DefaultColorCode = "#ffffff"

var hundred = decimal.NewFromInt(100)

type Product struct {
	ID          uuid.UUID       `gorm:"primaryKey;type:uuid"`
	Title       string          `gorm:"size:150;not null"`
	Description string          `gorm:"type:text"`
	Price       decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0;index"`
	Quantity    int             `gorm:"not null;default:0"`
	ColorName   string          `gorm:"size:30;index"`
	ColorCode   string          `gorm:"size:10;default:'#ffffff'"`
	Width       string          `gorm:"size:30"`
	Depth       string          `gorm:"size:30"`
	Height      string          `gorm:"size:30"`
	Discount    *int            `gorm:"check:discount_range,discount IS NULL OR (discount >= 0 AND discount <= 100)"`
	CategoryID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	ModelID     *uuid.UUID      `gorm:"type:uuid;index"`
	Slug        string          `gorm:"size:150;uniqueIndex;not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// Relations
	Category *Category      `gorm:"foreignKey:CategoryID"`
	Model    *ProductModel  `gorm:"foreignKey:ModelID"`
	Images   []ProductImage `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
}

func (Product) TableName() string {
	return "products"
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	assignID(&p.ID)
	if p.ColorCode == "" {
		p.ColorCode = DefaultColorCode
	}
	return nil
}

// HasDiscount ตรวจสอบว่าสินค้าอยู่ในรายการ sale
func (p *Product) HasDiscount() bool {
	return p.Discount != nil && *p.Discount > 0
}

// EffectivePrice ราคาหลังหักส่วนลด: price - price*discount/100
// คำนวณใหม่ทุกครั้ง ไม่เขียนกลับไปที่ Price
func (p *Product) EffectivePrice() decimal.Decimal {
	if !p.HasDiscount() {
		return p.Price
	}
	off := p.Price.Mul(decimal.NewFromInt(int64(*p.Discount))).Div(hundred)
	return p.Price.Sub(off)
}

// FirstImageURL รูปแรกของสินค้า (ว่างถ้าไม่มี)
func (p *Product) FirstImageURL() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0].URL
}

type ProductImage struct {
	ID         uuid.UUID `gorm:"primaryKey;type:uuid"`
	ProductID  uuid.UUID `gorm:"type:uuid;not null;index"`
	URL        string    `gorm:"size:500;not null"`
	StorageKey string    `gorm:"size:500"`
	CreatedAt  time.Time
}

func (ProductImage) TableName() string {
	return "product_images"
}

func (i *ProductImage) BeforeCreate(tx *gorm.DB) error {
	assignID(&i.ID)
	return nil
}

// ProductModel คือรุ่น/คอลเลกชันของเฟอร์นิเจอร์ ใช้เป็นตัวกรองในหน้าหมวด
type ProductModel struct {
	ID        uuid.UUID `gorm:"primaryKey;type:uuid"`
	Title     string    `gorm:"size:150;uniqueIndex;not null"`
	CreatedAt time.Time
}

func (ProductModel) TableName() string {
	return "product_models"
}

func (m *ProductModel) BeforeCreate(tx *gorm.DB) error {
	assignID(&m.ID)
	return nil
}
