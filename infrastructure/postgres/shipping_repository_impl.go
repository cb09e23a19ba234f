package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"loft-shop/domain/models"
	"loft-shop/domain/repositories"
)

type ShippingRepositoryImpl struct {
	db *gorm.DB
}

func NewShippingRepository(db *gorm.DB) repositories.ShippingRepository {
	return &ShippingRepositoryImpl{db: db}
}

func (r *ShippingRepositoryImpl) GetByOrderID(ctx context.Context, orderID uuid.UUID) (*models.ShippingAddress, error) {
	var address models.ShippingAddress
	err := r.db.WithContext(ctx).
		Preload("Region").
		Preload("City").
		Where("order_id = ?", orderID).
		First(&address).Error
	if err != nil {
		return nil, err
	}
	return &address, nil
}

func (r *ShippingRepositoryImpl) Upsert(ctx context.Context, address *models.ShippingAddress) error {
	var existing models.ShippingAddress
	err := r.db.WithContext(ctx).Where("order_id = ?", address.OrderID).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return r.db.WithContext(ctx).Omit("Region", "City").Create(address).Error
	}
	if err != nil {
		return err
	}

	address.ID = existing.ID
	address.CreatedAt = existing.CreatedAt
	return r.db.WithContext(ctx).Model(&existing).Updates(map[string]interface{}{
		"customer_id": address.CustomerID,
		"address":     address.Address,
		"phone":       address.Phone,
		"comment":     address.Comment,
		"region_id":   address.RegionID,
		"city_id":     address.CityID,
		"updated_at":  time.Now().UTC(),
	}).Error
}

// ═══════════════════════════════════════════════════════════════════════════════
// Regions / Cities
// ═══════════════════════════════════════════════════════════════════════════════

type RegionRepositoryImpl struct {
	db *gorm.DB
}

func NewRegionRepository(db *gorm.DB) repositories.RegionRepository {
	return &RegionRepositoryImpl{db: db}
}

func (r *RegionRepositoryImpl) CreateRegion(ctx context.Context, region *models.Region) error {
	return r.db.WithContext(ctx).Omit("Cities").Create(region).Error
}

func (r *RegionRepositoryImpl) CreateCity(ctx context.Context, city *models.City) error {
	return r.db.WithContext(ctx).Omit("Region").Create(city).Error
}

func (r *RegionRepositoryImpl) GetRegion(ctx context.Context, id uuid.UUID) (*models.Region, error) {
	var region models.Region
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&region).Error
	if err != nil {
		return nil, err
	}
	return &region, nil
}

func (r *RegionRepositoryImpl) GetCity(ctx context.Context, id uuid.UUID) (*models.City, error) {
	var city models.City
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&city).Error
	if err != nil {
		return nil, err
	}
	return &city, nil
}

func (r *RegionRepositoryImpl) GetRegionByTitle(ctx context.Context, title string) (*models.Region, error) {
	var region models.Region
	err := r.db.WithContext(ctx).Where("title = ?", title).First(&region).Error
	if err != nil {
		return nil, err
	}
	return &region, nil
}

func (r *RegionRepositoryImpl) ListWithCities(ctx context.Context) ([]*models.Region, error) {
	var regions []*models.Region
	err := r.db.WithContext(ctx).
		Preload("Cities", func(db *gorm.DB) *gorm.DB {
			return db.Order("title ASC")
		}).
		Order("title ASC").
		Find(&regions).Error
	return regions, err
}
