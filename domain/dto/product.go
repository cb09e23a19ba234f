package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"loft-shop/domain/models"
	"loft-shop/pkg/utils"
)

// === Requests ===

type CreateProductRequest struct {
	Title       string          `json:"title" validate:"required,min=1,max=150"`
	Slug        string          `json:"slug" validate:"omitempty,max=150"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity" validate:"gte=0"`
	ColorName   string          `json:"colorName" validate:"max=30"`
	ColorCode   string          `json:"colorCode" validate:"omitempty,hexcolor"`
	Width       string          `json:"width" validate:"max=30"`
	Depth       string          `json:"depth" validate:"max=30"`
	Height      string          `json:"height" validate:"max=30"`
	Discount    *int            `json:"discount" validate:"omitempty,gte=0,lte=100"`
	CategoryID  uuid.UUID       `json:"categoryId" validate:"required"`
	ModelID     *uuid.UUID      `json:"modelId"`
}

type UpdateProductRequest struct {
	Title         *string          `json:"title" validate:"omitempty,min=1,max=150"`
	Description   *string          `json:"description"`
	Price         *decimal.Decimal `json:"price"`
	Quantity      *int             `json:"quantity" validate:"omitempty,gte=0"`
	ColorName     *string          `json:"colorName" validate:"omitempty,max=30"`
	ColorCode     *string          `json:"colorCode" validate:"omitempty,hexcolor"`
	Width         *string          `json:"width" validate:"omitempty,max=30"`
	Depth         *string          `json:"depth" validate:"omitempty,max=30"`
	Height        *string          `json:"height" validate:"omitempty,max=30"`
	Discount      *int             `json:"discount" validate:"omitempty,gte=0,lte=100"`
	ClearDiscount bool             `json:"clearDiscount"`
	CategoryID    *uuid.UUID       `json:"categoryId"`
	ModelID       *uuid.UUID       `json:"modelId"`
}

type CreateProductModelRequest struct {
	Title string `json:"title" validate:"required,min=1,max=150"`
}

// ProductFilterQuery query string ของหน้าหมวด (?sub=&color_name=&model=&from=&till=&page=)
type ProductFilterQuery struct {
	Sub       string `query:"sub"`
	ColorName string `query:"color_name"`
	Model     string `query:"model"`
	From      string `query:"from"`
	Till      string `query:"till"`
	Page      int    `query:"page"`
	Limit     int    `query:"limit"`
}

// === Responses ===

type ProductImageResponse struct {
	ID  uuid.UUID `json:"id"`
	URL string    `json:"url"`
}

type ProductModelResponse struct {
	ID    uuid.UUID `json:"id"`
	Title string    `json:"title"`
}

type ProductResponse struct {
	ID             uuid.UUID              `json:"id"`
	Title          string                 `json:"title"`
	Slug           string                 `json:"slug"`
	Description    string                 `json:"description,omitempty"`
	Price          decimal.Decimal        `json:"price"`
	EffectivePrice decimal.Decimal        `json:"effectivePrice"`
	PriceLabel     string                 `json:"priceLabel"`
	Discount       *int                   `json:"discount"`
	Quantity       int                    `json:"quantity"`
	ColorName      string                 `json:"colorName"`
	ColorCode      string                 `json:"colorCode"`
	Width          string                 `json:"width,omitempty"`
	Depth          string                 `json:"depth,omitempty"`
	Height         string                 `json:"height,omitempty"`
	CategoryID     uuid.UUID              `json:"categoryId"`
	Category       *CategoryResponse      `json:"category,omitempty"`
	Model          *ProductModelResponse  `json:"model,omitempty"`
	Images         []ProductImageResponse `json:"images"`
	IsFavorite     bool                   `json:"isFavorite"`
	CreatedAt      time.Time              `json:"createdAt"`
}

type ProductDetailResponse struct {
	Product     *ProductResponse   `json:"product"`
	Recommended []*ProductResponse `json:"recommended"`
}

// CategoryPageResponse สินค้าในหมวดพร้อม facets สำหรับตัวกรอง
type CategoryPageResponse struct {
	Category      *CategoryResponse       `json:"category"`
	Subcategories []*CategoryResponse     `json:"subcategories"`
	Products      []*ProductResponse      `json:"products"`
	ColorNames    []string                `json:"colorNames"`
	Models        []*ProductModelResponse `json:"models"`
	PriceSteps    []int                   `json:"priceSteps"`
	Meta          PaginationMeta          `json:"meta"`
}

// === Mappers ===

func ProductModelToResponse(m *models.ProductModel) *ProductModelResponse {
	if m == nil {
		return nil
	}
	return &ProductModelResponse{ID: m.ID, Title: m.Title}
}

func ProductToProductResponse(p *models.Product) *ProductResponse {
	if p == nil {
		return nil
	}
	effective := p.EffectivePrice()
	resp := &ProductResponse{
		ID:             p.ID,
		Title:          p.Title,
		Slug:           p.Slug,
		Description:    p.Description,
		Price:          p.Price,
		EffectivePrice: effective,
		PriceLabel:     utils.FormatPrice(effective),
		Discount:       p.Discount,
		Quantity:       p.Quantity,
		ColorName:      p.ColorName,
		ColorCode:      p.ColorCode,
		Width:          p.Width,
		Depth:          p.Depth,
		Height:         p.Height,
		CategoryID:     p.CategoryID,
		Model:          ProductModelToResponse(p.Model),
		Images:         make([]ProductImageResponse, 0, len(p.Images)),
		CreatedAt:      p.CreatedAt,
	}
	if p.Category != nil {
		resp.Category = CategoryToCategoryResponse(p.Category)
	}
	for _, img := range p.Images {
		resp.Images = append(resp.Images, ProductImageResponse{ID: img.ID, URL: img.URL})
	}
	return resp
}

func ProductsToResponses(products []*models.Product) []*ProductResponse {
	out := make([]*ProductResponse, 0, len(products))
	for _, p := range products {
		out = append(out, ProductToProductResponse(p))
	}
	return out
}

// MarkFavorites ตั้ง IsFavorite จาก set ของ product ids
func MarkFavorites(products []*ProductResponse, favorites map[uuid.UUID]bool) {
	for _, p := range products {
		p.IsFavorite = favorites[p.ID]
	}
}
