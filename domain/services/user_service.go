package services

import (
	"context"

	"github.com/google/uuid"
	"loft-shop/domain/dto"
	"loft-shop/domain/models"
)

type UserService interface {
	// Register สร้าง user ใหม่ และ return token สำหรับ login ทันที
	Register(ctx context.Context, req *dto.RegisterRequest) (string, *models.User, error)
	Login(ctx context.Context, req *dto.LoginRequest) (string, *models.User, error)
	GetProfile(ctx context.Context, userID uuid.UUID) (*models.User, error)
	GenerateJWT(user *models.User) (string, error)
}

// CustomerService สร้าง customer แบบ lazy ผูกกับ user หนึ่งต่อหนึ่ง
type CustomerService interface {
	EnsureCustomer(ctx context.Context, identity Identity) (*models.Customer, error)
}
