package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Category คือหมวดสินค้า parent = nil คือหมวดหลักบนเมนู ลูกคือ subcategory
type Category struct {
	ID        uuid.UUID  `gorm:"primaryKey;type:uuid"`
	Title     string     `gorm:"size:150;not null"`
	Icon      string     `gorm:"size:500"`
	Slug      string     `gorm:"size:150;uniqueIndex;not null"`
	ParentID  *uuid.UUID `gorm:"type:uuid;index"`
	CreatedAt time.Time

	// Relations
	Parent   *Category  `gorm:"foreignKey:ParentID"`
	Children []Category `gorm:"foreignKey:ParentID;constraint:OnDelete:CASCADE"`
	Products []Product  `gorm:"foreignKey:CategoryID;constraint:OnDelete:CASCADE"`
}

func (Category) TableName() string {
	return "categories"
}

func (c *Category) BeforeCreate(tx *gorm.DB) error {
	assignID(&c.ID)
	return nil
}

// IsRoot ตรวจสอบว่าเป็นหมวดหลัก
func (c *Category) IsRoot() bool {
	return c.ParentID == nil
}
