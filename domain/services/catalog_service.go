package services

import (
	"context"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"loft-shop/domain/dto"
	"loft-shop/domain/models"
)

// ProductFilter ตัวกรองหน้าหมวด ทุกเงื่อนไข AND กัน ขอบเขตราคา inclusive
type ProductFilter struct {
	Sub       string
	ColorName string
	Model     string
	PriceFrom *decimal.Decimal
	PriceTill *decimal.Decimal
}

// NewProductFilter แปลง query string และตรวจค่าราคา
func NewProductFilter(q *dto.ProductFilterQuery) (ProductFilter, error) {
	f := ProductFilter{
		Sub:       strings.TrimSpace(q.Sub),
		ColorName: strings.TrimSpace(q.ColorName),
		Model:     strings.TrimSpace(q.Model),
	}
	fields := map[string]string{}

	parse := func(name, raw string) *decimal.Decimal {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			return nil
		}
		v, err := decimal.NewFromString(raw)
		if err != nil {
			fields[name] = "Must be a number"
			return nil
		}
		if v.IsNegative() {
			fields[name] = "Must be greater than or equal to 0"
			return nil
		}
		return &v
	}
	f.PriceFrom = parse("from", q.From)
	f.PriceTill = parse("till", q.Till)

	if f.PriceFrom != nil && f.PriceTill != nil && f.PriceFrom.GreaterThan(*f.PriceTill) {
		fields["from"] = "Must be less than or equal to till"
	}
	if len(fields) > 0 {
		return ProductFilter{}, NewValidationError("invalid product filter", fields)
	}
	return f, nil
}

// ProductPage หน้าหนึ่งของรายการสินค้า
type ProductPage struct {
	Products []*models.Product
	Total    int64
	Page     int
	Limit    int
}

// CategoryPage ผลลัพธ์หน้าหมวดพร้อม facets
type CategoryPage struct {
	Category      *models.Category
	Subcategories []*models.Category
	Products      []*models.Product
	ColorNames    []string
	Models        []*models.ProductModel
	PriceSteps    []int
	Total         int64
	Page          int
	Limit         int
}

type CatalogService interface {
	ListRootCategories(ctx context.Context) ([]*models.Category, error)
	// GetProduct สินค้าพร้อมสินค้าแนะนำในหมวดเดียวกัน
	GetProduct(ctx context.Context, slug string) (*models.Product, []*models.Product, error)
	ListCategoryProducts(ctx context.Context, slug string, filter ProductFilter, page, limit int) (*CategoryPage, error)
	ListSales(ctx context.Context, page, limit int) (*ProductPage, error)

	// Admin
	CreateCategory(ctx context.Context, req *dto.CreateCategoryRequest) (*models.Category, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error
	CreateProduct(ctx context.Context, req *dto.CreateProductRequest) (*models.Product, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, req *dto.UpdateProductRequest) (*models.Product, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error
	UploadProductImage(ctx context.Context, productID uuid.UUID, file io.Reader, filename string, size int64, contentType string) (*models.ProductImage, error)
	DeleteProductImage(ctx context.Context, imageID uuid.UUID) error
	CreateProductModel(ctx context.Context, req *dto.CreateProductModelRequest) (*models.ProductModel, error)
	ListProductModels(ctx context.Context) ([]*models.ProductModel, error)
}
