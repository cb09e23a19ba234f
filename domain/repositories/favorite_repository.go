package repositories

import (
	"context"

	"github.com/google/uuid"
	"loft-shop/domain/models"
)

type FavoriteRepository interface {
	// Toggle ลบถ้ามีอยู่ เพิ่มถ้ายังไม่มี ภายใน transaction เดียว
	// return true เมื่อเพิ่ม, false เมื่อลบ
	Toggle(ctx context.Context, userID, productID uuid.UUID) (bool, error)
	Exists(ctx context.Context, userID, productID uuid.UUID) (bool, error)
	ListProducts(ctx context.Context, userID uuid.UUID) ([]*models.Product, error)
	ProductIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
}
