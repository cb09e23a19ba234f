package handlers

import (
	"github.com/gofiber/fiber/v2"

	"loft-shop/domain/dto"
	"loft-shop/domain/models"
	"loft-shop/domain/services"
	"loft-shop/pkg/logger"
	"loft-shop/pkg/utils"
)

type CatalogHandler struct {
	catalogService  services.CatalogService
	favoriteService services.FavoriteService
}

func NewCatalogHandler(catalogService services.CatalogService, favoriteService services.FavoriteService) *CatalogHandler {
	return &CatalogHandler{
		catalogService:  catalogService,
		favoriteService: favoriteService,
	}
}

// withFavorites แปลงสินค้าเป็น response และ mark isFavorite ของผู้ใช้ปัจจุบัน
func (h *CatalogHandler) withFavorites(c *fiber.Ctx, products []*models.Product) []*dto.ProductResponse {
	out := dto.ProductsToResponses(products)
	identity := identityFrom(c)
	if identity.IsAnonymous() {
		return out
	}
	set, err := h.favoriteService.FavoriteSet(c.UserContext(), identity)
	if err != nil {
		logger.WarnContext(c.UserContext(), "Failed to load favorites", "user_id", identity.UserID, "error", err)
		return out
	}
	dto.MarkFavorites(out, set)
	return out
}

// ListCategories หมวดหลักพร้อม subcategories สำหรับเมนู
func (h *CatalogHandler) ListCategories(c *fiber.Ctx) error {
	categories, err := h.catalogService.ListRootCategories(c.UserContext())
	if err != nil {
		return HandleServiceError(c, err)
	}
	return utils.SuccessResponse(c, dto.CategoriesToResponses(categories))
}

// CategoryProducts GET /catalog/categories/:slug/products
func (h *CatalogHandler) CategoryProducts(c *fiber.Ctx) error {
	var query dto.ProductFilterQuery
	if err := c.QueryParser(&query); err != nil {
		return utils.BadRequestResponse(c, "Invalid query parameters")
	}

	filter, err := services.NewProductFilter(&query)
	if err != nil {
		return HandleServiceError(c, err)
	}

	page, err := h.catalogService.ListCategoryProducts(c.UserContext(), c.Params("slug"), filter, query.Page, query.Limit)
	if err != nil {
		return HandleServiceError(c, err)
	}

	resp := &dto.CategoryPageResponse{
		Category:      dto.CategoryToCategoryResponse(page.Category),
		Subcategories: dto.CategoriesToResponses(page.Subcategories),
		Products:      h.withFavorites(c, page.Products),
		ColorNames:    page.ColorNames,
		Models:        make([]*dto.ProductModelResponse, 0, len(page.Models)),
		PriceSteps:    page.PriceSteps,
		Meta:          dto.NewPaginationMeta(page.Total, page.Page, page.Limit),
	}
	if resp.ColorNames == nil {
		resp.ColorNames = []string{}
	}
	for _, m := range page.Models {
		resp.Models = append(resp.Models, dto.ProductModelToResponse(m))
	}
	return utils.SuccessResponse(c, resp)
}

func (h *CatalogHandler) GetProduct(c *fiber.Ctx) error {
	product, recommended, err := h.catalogService.GetProduct(c.UserContext(), c.Params("slug"))
	if err != nil {
		return HandleServiceError(c, err)
	}

	items := h.withFavorites(c, append([]*models.Product{product}, recommended...))
	return utils.SuccessResponse(c, &dto.ProductDetailResponse{
		Product:     items[0],
		Recommended: items[1:],
	})
}

// ListSales สินค้าที่มีส่วนลด (?page=&limit=)
func (h *CatalogHandler) ListSales(c *fiber.Ctx) error {
	page, err := h.catalogService.ListSales(c.UserContext(), c.QueryInt("page", 1), c.QueryInt("limit", 0))
	if err != nil {
		return HandleServiceError(c, err)
	}
	return utils.PaginatedSuccessResponse(c, h.withFavorites(c, page.Products), page.Total, page.Page, page.Limit)
}
