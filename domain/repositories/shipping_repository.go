package repositories

import (
	"context"

	"github.com/google/uuid"
	"loft-shop/domain/models"
)

type ShippingRepository interface {
	GetByOrderID(ctx context.Context, orderID uuid.UUID) (*models.ShippingAddress, error)
	// Upsert หนึ่ง order มีได้หนึ่ง address มีอยู่แล้วจะอัปเดตแทน
	Upsert(ctx context.Context, address *models.ShippingAddress) error
}

type RegionRepository interface {
	CreateRegion(ctx context.Context, region *models.Region) error
	CreateCity(ctx context.Context, city *models.City) error
	GetRegion(ctx context.Context, id uuid.UUID) (*models.Region, error)
	GetCity(ctx context.Context, id uuid.UUID) (*models.City, error)
	GetRegionByTitle(ctx context.Context, title string) (*models.Region, error)
	// ListWithCities regions เรียงตามชื่อ พร้อม cities เรียงตามชื่อ
	ListWithCities(ctx context.Context) ([]*models.Region, error)
}
