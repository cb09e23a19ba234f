package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID        uuid.UUID `gorm:"primaryKey;type:uuid"`
	Email     string    `gorm:"uniqueIndex;not null"`
	Username  string    `gorm:"uniqueIndex;not null"`
	Password  string    `gorm:"not null"`
	FirstName string
	LastName  string
	Role      string `gorm:"default:'user'"` // user, admin
	IsActive  bool   `gorm:"default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (User) TableName() string {
	return "users"
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	assignID(&u.ID)
	if u.Role == "" {
		u.Role = RoleUser
	}
	return nil
}

// IsAdmin ตรวจสอบว่าเป็น admin
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Customer ผูกกับ User แบบ one-to-one สร้างตอนใช้งาน cart ครั้งแรก
type Customer struct {
	ID        uuid.UUID `gorm:"primaryKey;type:uuid"`
	UserID    uuid.UUID `gorm:"type:uuid;uniqueIndex;not null"`
	CreatedAt time.Time

	User *User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

func (Customer) TableName() string {
	return "customers"
}

func (c *Customer) BeforeCreate(tx *gorm.DB) error {
	assignID(&c.ID)
	return nil
}
