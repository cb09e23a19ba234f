package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"loft-shop/domain/dto"
	"loft-shop/domain/services"
	"loft-shop/pkg/logger"
	"loft-shop/pkg/utils"
)

// AdminHandler จัดการ catalog และ region/city (admin เท่านั้น)
type AdminHandler struct {
	catalogService  services.CatalogService
	checkoutService services.CheckoutService
	maxUploadSize   int64
}

func NewAdminHandler(catalogService services.CatalogService, checkoutService services.CheckoutService, maxUploadSize int64) *AdminHandler {
	if maxUploadSize <= 0 {
		maxUploadSize = 10 << 20
	}
	return &AdminHandler{
		catalogService:  catalogService,
		checkoutService: checkoutService,
		maxUploadSize:   maxUploadSize,
	}
}

// ═══════════════════════════════════════════════════════════════════════════════
// Categories
// ═══════════════════════════════════════════════════════════════════════════════

func (h *AdminHandler) CreateCategory(c *fiber.Ctx) error {
	var req dto.CreateCategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c, err)
	}

	category, err := h.catalogService.CreateCategory(c.UserContext(), &req)
	if err != nil {
		return HandleServiceError(c, err)
	}
	return utils.CreatedResponse(c, dto.CategoryToCategoryResponse(category))
}

func (h *AdminHandler) DeleteCategory(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.BadRequestResponse(c, "Invalid category ID")
	}
	if err := h.catalogService.DeleteCategory(c.UserContext(), id); err != nil {
		return HandleServiceError(c, err)
	}
	return utils.NoContentResponse(c)
}

// ═══════════════════════════════════════════════════════════════════════════════
// Products
// ═══════════════════════════════════════════════════════════════════════════════

func (h *AdminHandler) CreateProduct(c *fiber.Ctx) error {
	var req dto.CreateProductRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c, err)
	}

	product, err := h.catalogService.CreateProduct(c.UserContext(), &req)
	if err != nil {
		return HandleServiceError(c, err)
	}
	return utils.CreatedResponse(c, dto.ProductToProductResponse(product))
}

func (h *AdminHandler) UpdateProduct(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.BadRequestResponse(c, "Invalid product ID")
	}

	var req dto.UpdateProductRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c, err)
	}

	product, err := h.catalogService.UpdateProduct(c.UserContext(), id, &req)
	if err != nil {
		return HandleServiceError(c, err)
	}
	return utils.SuccessResponse(c, dto.ProductToProductResponse(product))
}

func (h *AdminHandler) DeleteProduct(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.BadRequestResponse(c, "Invalid product ID")
	}
	if err := h.catalogService.DeleteProduct(c.UserContext(), id); err != nil {
		return HandleServiceError(c, err)
	}
	return utils.NoContentResponse(c)
}

// UploadImage multipart field "image"
func (h *AdminHandler) UploadImage(c *fiber.Ctx) error {
	ctx := c.UserContext()

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.BadRequestResponse(c, "Invalid product ID")
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		return utils.ValidationErrorResponse(c, fiber.Map{"image": "This field is required"})
	}
	if fileHeader.Size > h.maxUploadSize {
		return utils.ValidationErrorResponse(c, fiber.Map{
			"image": fmt.Sprintf("File is too large (max %d MB)", h.maxUploadSize>>20),
		})
	}

	file, err := fileHeader.Open()
	if err != nil {
		logger.ErrorContext(ctx, "Failed to open uploaded file", "error", err)
		return utils.InternalServerErrorResponse(c)
	}
	defer file.Close()

	image, err := h.catalogService.UploadProductImage(ctx, id, file, fileHeader.Filename, fileHeader.Size, fileHeader.Header.Get("Content-Type"))
	if err != nil {
		return HandleServiceError(c, err)
	}
	return utils.CreatedResponse(c, dto.ProductImageResponse{ID: image.ID, URL: image.URL})
}

func (h *AdminHandler) DeleteImage(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return utils.BadRequestResponse(c, "Invalid image ID")
	}
	if err := h.catalogService.DeleteProductImage(c.UserContext(), id); err != nil {
		return HandleServiceError(c, err)
	}
	return utils.NoContentResponse(c)
}

func (h *AdminHandler) CreateModel(c *fiber.Ctx) error {
	var req dto.CreateProductModelRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c, err)
	}

	m, err := h.catalogService.CreateProductModel(c.UserContext(), &req)
	if err != nil {
		return HandleServiceError(c, err)
	}
	return utils.CreatedResponse(c, dto.ProductModelToResponse(m))
}

func (h *AdminHandler) ListModels(c *fiber.Ctx) error {
	list, err := h.catalogService.ListProductModels(c.UserContext())
	if err != nil {
		return HandleServiceError(c, err)
	}
	out := make([]*dto.ProductModelResponse, 0, len(list))
	for _, m := range list {
		out = append(out, dto.ProductModelToResponse(m))
	}
	return utils.SuccessResponse(c, out)
}

// ═══════════════════════════════════════════════════════════════════════════════
// Regions
// ═══════════════════════════════════════════════════════════════════════════════

func (h *AdminHandler) CreateRegion(c *fiber.Ctx) error {
	var req dto.CreateRegionRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c, err)
	}

	region, err := h.checkoutService.CreateRegion(c.UserContext(), &req)
	if err != nil {
		return HandleServiceError(c, err)
	}
	return utils.CreatedResponse(c, dto.RegionOption{ID: region.ID, Title: region.Title, Cities: []dto.CityOption{}})
}

func (h *AdminHandler) CreateCity(c *fiber.Ctx) error {
	var req dto.CreateCityRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c, err)
	}

	city, err := h.checkoutService.CreateCity(c.UserContext(), &req)
	if err != nil {
		return HandleServiceError(c, err)
	}
	return utils.CreatedResponse(c, dto.CityOption{ID: city.ID, Title: city.Title})
}
