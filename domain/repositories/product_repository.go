package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"loft-shop/domain/models"
)

// ProductListParams เงื่อนไขค้นหาสินค้า ทุกเงื่อนไข AND กัน ขอบเขตราคาเป็นแบบ inclusive
type ProductListParams struct {
	CategoryIDs []uuid.UUID
	ColorName   string
	ModelTitle  string
	PriceFrom   *decimal.Decimal
	PriceTill   *decimal.Decimal
	Offset      int
	Limit       int
}

type ProductRepository interface {
	Create(ctx context.Context, product *models.Product) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	GetBySlug(ctx context.Context, slug string) (*models.Product, error)
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id uuid.UUID) error
	ExistsSlug(ctx context.Context, slug string) (bool, error)

	List(ctx context.Context, params ProductListParams) ([]*models.Product, int64, error)
	ListRecommended(ctx context.Context, categoryID, excludeID uuid.UUID, limit int) ([]*models.Product, error)
	ListDiscounted(ctx context.Context, offset, limit int) ([]*models.Product, int64, error)
	ListLatest(ctx context.Context, limit int) ([]*models.Product, error)

	// Facets ของหน้าหมวด
	DistinctColorNames(ctx context.Context, categoryIDs []uuid.UUID) ([]string, error)
	ListModels(ctx context.Context, categoryIDs []uuid.UUID) ([]*models.ProductModel, error)

	AddImage(ctx context.Context, image *models.ProductImage) error
	GetImage(ctx context.Context, id uuid.UUID) (*models.ProductImage, error)
	DeleteImage(ctx context.Context, id uuid.UUID) error
}

type ProductModelRepository interface {
	Create(ctx context.Context, model *models.ProductModel) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.ProductModel, error)
	List(ctx context.Context) ([]*models.ProductModel, error)
}
