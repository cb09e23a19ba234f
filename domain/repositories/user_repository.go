package repositories

import (
	"context"

	"github.com/google/uuid"
	"loft-shop/domain/models"
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	Update(ctx context.Context, id uuid.UUID, user *models.User) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, offset, limit int) ([]*models.User, error)
	Count(ctx context.Context) (int64, error)
}

type CustomerRepository interface {
	GetByUserID(ctx context.Context, userID uuid.UUID) (*models.Customer, error)
	// CreateIfAbsent สร้าง customer ถ้ายังไม่มี (ชนกันที่ unique user_id ไม่ error)
	CreateIfAbsent(ctx context.Context, customer *models.Customer) error
}
