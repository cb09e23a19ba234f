package repositories

import (
	"context"

	"github.com/google/uuid"
	"loft-shop/domain/models"
)

type CategoryRepository interface {
	Create(ctx context.Context, category *models.Category) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Category, error)
	GetBySlug(ctx context.Context, slug string) (*models.Category, error)
	Update(ctx context.Context, category *models.Category) error
	Delete(ctx context.Context, id uuid.UUID) error
	// ListTree root categories พร้อม children
	ListTree(ctx context.Context) ([]*models.Category, error)
	ListChildren(ctx context.Context, parentID uuid.UUID) ([]*models.Category, error)
	ExistsSlug(ctx context.Context, slug string) (bool, error)
}
