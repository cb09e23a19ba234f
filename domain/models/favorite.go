package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// FavoriteProduct คู่ (user, product) ไม่ซ้ำกัน
type FavoriteProduct struct {
	ID        uuid.UUID `gorm:"primaryKey;type:uuid"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_favorite_user_product"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_favorite_user_product"`
	CreatedAt time.Time

	User    *User    `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Product *Product `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
}

func (FavoriteProduct) TableName() string {
	return "favorite_products"
}

func (f *FavoriteProduct) BeforeCreate(tx *gorm.DB) error {
	assignID(&f.ID)
	return nil
}
