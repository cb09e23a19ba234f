package postgres

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"loft-shop/domain/models"
	"loft-shop/domain/repositories"
)

type ProductRepositoryImpl struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) repositories.ProductRepository {
	return &ProductRepositoryImpl{db: db}
}

func preloadImages(db *gorm.DB) *gorm.DB {
	return db.Order("created_at ASC")
}

func (r *ProductRepositoryImpl) Create(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Omit("Category", "Model", "Images").Create(product).Error
}

func (r *ProductRepositoryImpl) GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Preload("Images", preloadImages).
		Preload("Category").
		Preload("Model").
		Where("id = ?", id).
		First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *ProductRepositoryImpl) GetBySlug(ctx context.Context, slug string) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Preload("Images", preloadImages).
		Preload("Category").
		Preload("Model").
		Where("slug = ?", slug).
		First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *ProductRepositoryImpl) Update(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Omit("Category", "Model", "Images").Save(product).Error
}

func (r *ProductRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return deleteProducts(tx, []uuid.UUID{id})
	})
}

// deleteProducts ลบสินค้าพร้อมรูป, favorites และ order lines ที่อ้างถึง
// ids เป็น []uuid.UUID หรือ subquery ก็ได้
func deleteProducts(tx *gorm.DB, ids interface{}) error {
	if err := tx.Where("product_id IN (?)", ids).Delete(&models.ProductImage{}).Error; err != nil {
		return err
	}
	if err := tx.Where("product_id IN (?)", ids).Delete(&models.FavoriteProduct{}).Error; err != nil {
		return err
	}
	if err := tx.Where("product_id IN (?)", ids).Delete(&models.OrderLine{}).Error; err != nil {
		return err
	}
	return tx.Where("id IN (?)", ids).Delete(&models.Product{}).Error
}

func (r *ProductRepositoryImpl) ExistsSlug(ctx context.Context, slug string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Product{}).Where("slug = ?", slug).Count(&count).Error
	return count > 0, err
}

func (r *ProductRepositoryImpl) filtered(ctx context.Context, params repositories.ProductListParams) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&models.Product{}).Where("products.category_id IN ?", params.CategoryIDs)

	if params.ColorName != "" {
		query = query.Where("products.color_name = ?", params.ColorName)
	}
	if params.ModelTitle != "" {
		query = query.Where("products.model_id IN (?)",
			r.db.Model(&models.ProductModel{}).Select("id").Where("title = ?", params.ModelTitle))
	}
	if params.PriceFrom != nil {
		query = query.Where("products.price >= ?", *params.PriceFrom)
	}
	if params.PriceTill != nil {
		query = query.Where("products.price <= ?", *params.PriceTill)
	}
	return query
}

func (r *ProductRepositoryImpl) List(ctx context.Context, params repositories.ProductListParams) ([]*models.Product, int64, error) {
	if len(params.CategoryIDs) == 0 {
		return []*models.Product{}, 0, nil
	}

	var total int64
	if err := r.filtered(ctx, params).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var products []*models.Product
	query := r.filtered(ctx, params).
		Preload("Images", preloadImages).
		Preload("Model").
		Order("products.created_at DESC").
		Order("products.id ASC")
	if params.Limit > 0 {
		query = query.Offset(params.Offset).Limit(params.Limit)
	}
	if err := query.Find(&products).Error; err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

func (r *ProductRepositoryImpl) ListRecommended(ctx context.Context, categoryID, excludeID uuid.UUID, limit int) ([]*models.Product, error) {
	var products []*models.Product
	query := r.db.WithContext(ctx).
		Preload("Images", preloadImages).
		Where("category_id = ? AND id <> ?", categoryID, excludeID).
		Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	err := query.Find(&products).Error
	return products, err
}

func (r *ProductRepositoryImpl) ListDiscounted(ctx context.Context, offset, limit int) ([]*models.Product, int64, error) {
	discounted := func() *gorm.DB {
		return r.db.WithContext(ctx).Model(&models.Product{}).Where("discount IS NOT NULL AND discount > 0")
	}

	var total int64
	if err := discounted().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var products []*models.Product
	query := discounted().
		Preload("Images", preloadImages).
		Order("discount DESC").
		Order("created_at DESC").
		Order("id ASC")
	if limit > 0 {
		query = query.Offset(offset).Limit(limit)
	}
	if err := query.Find(&products).Error; err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

func (r *ProductRepositoryImpl) ListLatest(ctx context.Context, limit int) ([]*models.Product, error) {
	var products []*models.Product
	err := r.db.WithContext(ctx).
		Preload("Images", preloadImages).
		Order("created_at DESC").
		Limit(limit).
		Find(&products).Error
	return products, err
}

func (r *ProductRepositoryImpl) DistinctColorNames(ctx context.Context, categoryIDs []uuid.UUID) ([]string, error) {
	var names []string
	if len(categoryIDs) == 0 {
		return names, nil
	}
	err := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("category_id IN ? AND color_name <> ''", categoryIDs).
		Distinct("color_name").
		Order("color_name ASC").
		Pluck("color_name", &names).Error
	return names, err
}

func (r *ProductRepositoryImpl) ListModels(ctx context.Context, categoryIDs []uuid.UUID) ([]*models.ProductModel, error) {
	var list []*models.ProductModel
	if len(categoryIDs) == 0 {
		return list, nil
	}
	err := r.db.WithContext(ctx).
		Where("id IN (?)", r.db.Model(&models.Product{}).Select("model_id").
			Where("category_id IN ? AND model_id IS NOT NULL", categoryIDs)).
		Order("title ASC").
		Find(&list).Error
	return list, err
}

// ═══════════════════════════════════════════════════════════════════════════════
// Images
// ═══════════════════════════════════════════════════════════════════════════════

func (r *ProductRepositoryImpl) AddImage(ctx context.Context, image *models.ProductImage) error {
	return r.db.WithContext(ctx).Create(image).Error
}

func (r *ProductRepositoryImpl) GetImage(ctx context.Context, id uuid.UUID) (*models.ProductImage, error) {
	var image models.ProductImage
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&image).Error
	if err != nil {
		return nil, err
	}
	return &image, nil
}

func (r *ProductRepositoryImpl) DeleteImage(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.ProductImage{}).Error
}

// ═══════════════════════════════════════════════════════════════════════════════
// Product Models
// ═══════════════════════════════════════════════════════════════════════════════

type ProductModelRepositoryImpl struct {
	db *gorm.DB
}

func NewProductModelRepository(db *gorm.DB) repositories.ProductModelRepository {
	return &ProductModelRepositoryImpl{db: db}
}

func (r *ProductModelRepositoryImpl) Create(ctx context.Context, model *models.ProductModel) error {
	return r.db.WithContext(ctx).Create(model).Error
}

func (r *ProductModelRepositoryImpl) GetByID(ctx context.Context, id uuid.UUID) (*models.ProductModel, error) {
	var model models.ProductModel
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error
	if err != nil {
		return nil, err
	}
	return &model, nil
}

func (r *ProductModelRepositoryImpl) List(ctx context.Context) ([]*models.ProductModel, error) {
	var list []*models.ProductModel
	err := r.db.WithContext(ctx).Order("title ASC").Find(&list).Error
	return list, err
}
