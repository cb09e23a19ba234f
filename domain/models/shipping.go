package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Region struct {
	ID     uuid.UUID `gorm:"primaryKey;type:uuid"`
	Title  string    `gorm:"size:150;uniqueIndex;not null"`
	Cities []City    `gorm:"foreignKey:RegionID;constraint:OnDelete:CASCADE"`
}

func (Region) TableName() string {
	return "regions"
}

func (r *Region) BeforeCreate(tx *gorm.DB) error {
	assignID(&r.ID)
	return nil
}

type City struct {
	ID       uuid.UUID `gorm:"primaryKey;type:uuid"`
	Title    string    `gorm:"size:150;not null"`
	RegionID uuid.UUID `gorm:"type:uuid;not null;index"`

	Region *Region `gorm:"foreignKey:RegionID"`
}

func (City) TableName() string {
	return "cities"
}

func (c *City) BeforeCreate(tx *gorm.DB) error {
	assignID(&c.ID)
	return nil
}

// ShippingAddress ที่อยู่จัดส่ง หนึ่ง order มีได้หนึ่งรายการ
type ShippingAddress struct {
	ID         uuid.UUID `gorm:"primaryKey;type:uuid"`
	CustomerID uuid.UUID `gorm:"type:uuid;not null;index"`
	OrderID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	Address    string    `gorm:"size:150;not null"`
	Phone      string    `gorm:"size:30;not null"`
	Comment    string    `gorm:"size:200"`
	RegionID   uuid.UUID `gorm:"type:uuid;not null"`
	CityID     uuid.UUID `gorm:"type:uuid;not null"`
	CreatedAt  time.Time
	UpdatedAt  time.Time

	Region *Region `gorm:"foreignKey:RegionID"`
	City   *City   `gorm:"foreignKey:CityID"`
}

func (ShippingAddress) TableName() string {
	return "shipping_addresses"
}

func (s *ShippingAddress) BeforeCreate(tx *gorm.DB) error {
	assignID(&s.ID)
	return nil
}
