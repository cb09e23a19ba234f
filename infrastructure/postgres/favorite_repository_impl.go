package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"loft-shop/domain/models"
	"loft-shop/domain/repositories"
)

type FavoriteRepositoryImpl struct {
	db *gorm.DB
}

func NewFavoriteRepository(db *gorm.DB) repositories.FavoriteRepository {
	return &FavoriteRepositoryImpl{db: db}
}

// Toggle ลบถ้ามี เพิ่มถ้าไม่มี return true เมื่อเพิ่ม
func (r *FavoriteRepositoryImpl) Toggle(ctx context.Context, userID, productID uuid.UUID) (bool, error) {
	added, err := r.toggleOnce(ctx, userID, productID)
	if isUniqueViolation(err) {
		// อีก request insert ไปก่อน รอบนี้จะเป็นการลบ
		added, err = r.toggleOnce(ctx, userID, productID)
	}
	return added, err
}

func (r *FavoriteRepositoryImpl) toggleOnce(ctx context.Context, userID, productID uuid.UUID) (bool, error) {
	added := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("user_id = ? AND product_id = ?", userID, productID).Delete(&models.FavoriteProduct{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			return nil
		}

		if err := tx.Create(&models.FavoriteProduct{UserID: userID, ProductID: productID}).Error; err != nil {
			return err
		}
		added = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return added, nil
}

func (r *FavoriteRepositoryImpl) Exists(ctx context.Context, userID, productID uuid.UUID) (bool, error) {
	var fav models.FavoriteProduct
	err := r.db.WithContext(ctx).Where("user_id = ? AND product_id = ?", userID, productID).First(&fav).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	return err == nil, err
}

func (r *FavoriteRepositoryImpl) ListProducts(ctx context.Context, userID uuid.UUID) ([]*models.Product, error) {
	var favorites []*models.FavoriteProduct
	err := r.db.WithContext(ctx).
		Preload("Product").
		Preload("Product.Images", preloadImages).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&favorites).Error
	if err != nil {
		return nil, err
	}

	products := make([]*models.Product, 0, len(favorites))
	for _, f := range favorites {
		if f.Product != nil {
			products = append(products, f.Product)
		}
	}
	return products, nil
}

func (r *FavoriteRepositoryImpl) ProductIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).Model(&models.FavoriteProduct{}).Where("user_id = ?", userID).Pluck("product_id", &ids).Error
	return ids, err
}
