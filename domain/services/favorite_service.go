package services

import (
	"context"

	"github.com/google/uuid"
	"loft-shop/domain/models"
)

type FavoriteService interface {
	// ToggleFavorite return true เมื่อเพิ่ม false เมื่อลบ
	ToggleFavorite(ctx context.Context, identity Identity, productSlug string) (bool, error)
	ListFavorites(ctx context.Context, identity Identity) ([]*models.Product, error)
	FavoriteSet(ctx context.Context, identity Identity) (map[uuid.UUID]bool, error)
}
