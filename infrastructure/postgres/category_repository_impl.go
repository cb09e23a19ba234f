package postgres

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"loft-shop/domain/models"
	"loft-shop/domain/repositories"
)

type CategoryRepositoryImpl struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) repositories.CategoryRepository {
	return &CategoryRepositoryImpl{db: db}
}

func (r *CategoryRepositoryImpl) Create(ctx context.Context, category *models.Category) error {
	return r.db.WithContext(ctx).Create(category).Error
}

func (r *CategoryRepositoryImpl) GetByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	var category models.Category
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&category).Error
	if err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *CategoryRepositoryImpl) GetBySlug(ctx context.Context, slug string) (*models.Category, error) {
	var category models.Category
	err := r.db.WithContext(ctx).
		Where("slug = ?", slug).
		Preload("Children", func(db *gorm.DB) *gorm.DB {
			return db.Order("title ASC")
		}).
		First(&category).Error
	if err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *CategoryRepositoryImpl) Update(ctx context.Context, category *models.Category) error {
	return r.db.WithContext(ctx).Omit("Children", "Parent", "Products").Save(category).Error
}

// Delete ลบหมวดพร้อม subcategory และสินค้าในหมวด
func (r *CategoryRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ids := []uuid.UUID{id}
		var childIDs []uuid.UUID
		if err := tx.Model(&models.Category{}).Where("parent_id = ?", id).Pluck("id", &childIDs).Error; err != nil {
			return err
		}
		ids = append(ids, childIDs...)

		if err := deleteProducts(tx, tx.Model(&models.Product{}).Select("id").Where("category_id IN ?", ids)); err != nil {
			return err
		}
		if err := tx.Where("parent_id = ?", id).Delete(&models.Category{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&models.Category{}).Error
	})
}

func (r *CategoryRepositoryImpl) ListTree(ctx context.Context) ([]*models.Category, error) {
	var categories []*models.Category
	// ดึงเฉพาะ root categories (parent_id IS NULL) พร้อม preload children
	err := r.db.WithContext(ctx).
		Where("parent_id IS NULL").
		Order("title ASC").
		Preload("Children", func(db *gorm.DB) *gorm.DB {
			return db.Order("title ASC")
		}).
		Find(&categories).Error
	return categories, err
}

func (r *CategoryRepositoryImpl) ListChildren(ctx context.Context, parentID uuid.UUID) ([]*models.Category, error) {
	var categories []*models.Category
	err := r.db.WithContext(ctx).Where("parent_id = ?", parentID).Order("title ASC").Find(&categories).Error
	return categories, err
}

func (r *CategoryRepositoryImpl) ExistsSlug(ctx context.Context, slug string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Category{}).Where("slug = ?", slug).Count(&count).Error
	return count > 0, err
}
