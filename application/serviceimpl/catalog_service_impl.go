package serviceimpl

import (
	"context"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/gosimple/slug"

	"loft-shop/domain/dto"
	"loft-shop/domain/models"
	"loft-shop/domain/ports"
	"loft-shop/domain/repositories"
	"loft-shop/domain/services"
	"loft-shop/pkg/logger"
	"loft-shop/pkg/utils"
)

const (
	recommendedLimit = 8
	maxPageSize      = 50
)

// PriceSteps ค่าที่ให้เลือกในตัวกรองราคา 500..9500
func PriceSteps() []int {
	steps := make([]int, 0, 19)
	for p := 500; p < 10000; p += 500 {
		steps = append(steps, p)
	}
	return steps
}

type CatalogServiceImpl struct {
	categoryRepo repositories.CategoryRepository
	productRepo  repositories.ProductRepository
	modelRepo    repositories.ProductModelRepository
	storage      ports.StoragePort
	pageSize     int
}

func NewCatalogService(
	categoryRepo repositories.CategoryRepository,
	productRepo repositories.ProductRepository,
	modelRepo repositories.ProductModelRepository,
	storage ports.StoragePort,
	pageSize int,
) services.CatalogService {
	if pageSize <= 0 {
		pageSize = 2
	}
	return &CatalogServiceImpl{
		categoryRepo: categoryRepo,
		productRepo:  productRepo,
		modelRepo:    modelRepo,
		storage:      storage,
		pageSize:     pageSize,
	}
}

// ═══════════════════════════════════════════════════════════════════════════════
// Storefront
// ═══════════════════════════════════════════════════════════════════════════════

func (s *CatalogServiceImpl) ListRootCategories(ctx context.Context) ([]*models.Category, error) {
	return s.categoryRepo.ListTree(ctx)
}

func (s *CatalogServiceImpl) GetProduct(ctx context.Context, productSlug string) (*models.Product, []*models.Product, error) {
	product, err := s.productRepo.GetBySlug(ctx, productSlug)
	if err != nil {
		if isNotFound(err) {
			return nil, nil, services.NotFound("product")
		}
		return nil, nil, err
	}

	recommended, err := s.productRepo.ListRecommended(ctx, product.CategoryID, product.ID, recommendedLimit)
	if err != nil {
		logger.WarnContext(ctx, "Failed to load recommended products", "product_id", product.ID, "error", err)
		recommended = []*models.Product{}
	}
	return product, recommended, nil
}

// ListCategoryProducts สินค้าของ subcategory ทั้งหมดในหมวด (หมวดที่ไม่มีลูกใช้ตัวเอง)
func (s *CatalogServiceImpl) ListCategoryProducts(ctx context.Context, categorySlug string, filter services.ProductFilter, page, limit int) (*services.CategoryPage, error) {
	category, err := s.categoryRepo.GetBySlug(ctx, categorySlug)
	if err != nil {
		if isNotFound(err) {
			return nil, services.NotFound("category")
		}
		return nil, err
	}

	subcategories := make([]*models.Category, 0, len(category.Children))
	allIDs := make([]uuid.UUID, 0, len(category.Children))
	for i := range category.Children {
		subcategories = append(subcategories, &category.Children[i])
		allIDs = append(allIDs, category.Children[i].ID)
	}
	if len(allIDs) == 0 {
		allIDs = append(allIDs, category.ID)
	}

	scopeIDs := allIDs
	if filter.Sub != "" {
		scopeIDs = []uuid.UUID{}
		for _, sub := range subcategories {
			if strings.EqualFold(sub.Title, filter.Sub) || sub.Slug == filter.Sub {
				scopeIDs = append(scopeIDs, sub.ID)
			}
		}
	}

	page, limit = s.pageBounds(page, limit)
	products, total, err := s.productRepo.List(ctx, repositories.ProductListParams{
		CategoryIDs: scopeIDs,
		ColorName:   filter.ColorName,
		ModelTitle:  filter.Model,
		PriceFrom:   filter.PriceFrom,
		PriceTill:   filter.PriceTill,
		Offset:      (page - 1) * limit,
		Limit:       limit,
	})
	if err != nil {
		logger.ErrorContext(ctx, "Failed to list category products", "category", categorySlug, "error", err)
		return nil, err
	}

	colors, err := s.productRepo.DistinctColorNames(ctx, allIDs)
	if err != nil {
		return nil, err
	}
	productModels, err := s.productRepo.ListModels(ctx, allIDs)
	if err != nil {
		return nil, err
	}

	return &services.CategoryPage{
		Category:      category,
		Subcategories: subcategories,
		Products:      products,
		ColorNames:    colors,
		Models:        productModels,
		PriceSteps:    PriceSteps(),
		Total:         total,
		Page:          page,
		Limit:         limit,
	}, nil
}

func (s *CatalogServiceImpl) ListSales(ctx context.Context, page, limit int) (*services.ProductPage, error) {
	page, limit = s.pageBounds(page, limit)
	products, total, err := s.productRepo.ListDiscounted(ctx, (page-1)*limit, limit)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to list sales", "error", err)
		return nil, err
	}
	return &services.ProductPage{Products: products, Total: total, Page: page, Limit: limit}, nil
}

func (s *CatalogServiceImpl) pageBounds(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = s.pageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	return page, limit
}

// ═══════════════════════════════════════════════════════════════════════════════
// Admin
// ═══════════════════════════════════════════════════════════════════════════════

func (s *CatalogServiceImpl) CreateCategory(ctx context.Context, req *dto.CreateCategoryRequest) (*models.Category, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, services.NewValidationError("invalid category", utils.GetValidationErrors(err))
	}

	categorySlug := slug.Make(req.Slug)
	if categorySlug == "" {
		categorySlug = slug.Make(req.Title)
	}
	exists, err := s.categoryRepo.ExistsSlug(ctx, categorySlug)
	if err != nil {
		return nil, err
	}
	if exists {
		logger.WarnContext(ctx, "Category slug already exists", "slug", categorySlug)
		return nil, services.Conflict("category slug already exists")
	}

	if req.ParentID != nil {
		parent, err := s.categoryRepo.GetByID(ctx, *req.ParentID)
		if err != nil {
			if isNotFound(err) {
				return nil, services.NotFound("parent category")
			}
			return nil, err
		}
		// เมนูมีแค่สองชั้น: หมวดหลักกับ subcategory
		if parent.ParentID != nil {
			return nil, services.NewValidationError("invalid category", map[string]string{
				"parentId": "Parent must be a top-level category",
			})
		}
	}

	category := &models.Category{
		Title:    req.Title,
		Slug:     categorySlug,
		Icon:     req.Icon,
		ParentID: req.ParentID,
	}
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		logger.ErrorContext(ctx, "Failed to create category", "error", err)
		return nil, err
	}

	logger.InfoContext(ctx, "Category created", "category_id", category.ID, "slug", category.Slug)
	return category, nil
}

func (s *CatalogServiceImpl) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	if _, err := s.categoryRepo.GetByID(ctx, id); err != nil {
		if isNotFound(err) {
			return services.NotFound("category")
		}
		return err
	}
	if err := s.categoryRepo.Delete(ctx, id); err != nil {
		logger.ErrorContext(ctx, "Failed to delete category", "category_id", id, "error", err)
		return err
	}
	logger.InfoContext(ctx, "Category deleted", "category_id", id)
	return nil
}

func (s *CatalogServiceImpl) CreateProduct(ctx context.Context, req *dto.CreateProductRequest) (*models.Product, error) {
	fields := map[string]string{}
	if err := utils.ValidateStruct(req); err != nil {
		fields = utils.GetValidationErrors(err)
	}
	if req.Price.IsNegative() {
		fields["price"] = "Must be greater than or equal to 0"
	}
	if len(fields) > 0 {
		return nil, services.NewValidationError("invalid product", fields)
	}

	if err := s.checkRefs(ctx, &req.CategoryID, req.ModelID); err != nil {
		return nil, err
	}

	productSlug, err := s.productSlug(ctx, req.Slug, req.Title)
	if err != nil {
		return nil, err
	}

	product := &models.Product{
		Title:       req.Title,
		Slug:        productSlug,
		Description: req.Description,
		Price:       req.Price,
		Quantity:    req.Quantity,
		ColorName:   req.ColorName,
		ColorCode:   req.ColorCode,
		Width:       req.Width,
		Depth:       req.Depth,
		Height:      req.Height,
		Discount:    req.Discount,
		CategoryID:  req.CategoryID,
		ModelID:     req.ModelID,
	}
	if err := s.productRepo.Create(ctx, product); err != nil {
		if isDuplicate(err) {
			return nil, services.Conflict("product slug already exists")
		}
		logger.ErrorContext(ctx, "Failed to create product", "error", err)
		return nil, err
	}

	logger.InfoContext(ctx, "Product created", "product_id", product.ID, "slug", product.Slug)
	return s.productRepo.GetByID(ctx, product.ID)
}

// productSlug slug ที่ระบุเองซ้ำ = conflict, slug ที่สร้างจากชื่อซ้ำจะเติม suffix
func (s *CatalogServiceImpl) productSlug(ctx context.Context, requested, title string) (string, error) {
	explicit := slug.Make(requested)
	candidate := explicit
	if candidate == "" {
		candidate = slug.Make(title)
	}

	exists, err := s.productRepo.ExistsSlug(ctx, candidate)
	if err != nil {
		return "", err
	}
	if !exists {
		return candidate, nil
	}
	if explicit != "" {
		return "", services.Conflict("product slug already exists")
	}
	return candidate + "-" + utils.GenerateSlugSuffix(), nil
}

func (s *CatalogServiceImpl) checkRefs(ctx context.Context, categoryID, modelID *uuid.UUID) error {
	if categoryID != nil {
		if _, err := s.categoryRepo.GetByID(ctx, *categoryID); err != nil {
			if isNotFound(err) {
				return services.NewValidationError("invalid product", map[string]string{"categoryId": "Category does not exist"})
			}
			return err
		}
	}
	if modelID != nil {
		if _, err := s.modelRepo.GetByID(ctx, *modelID); err != nil {
			if isNotFound(err) {
				return services.NewValidationError("invalid product", map[string]string{"modelId": "Model does not exist"})
			}
			return err
		}
	}
	return nil
}

func (s *CatalogServiceImpl) UpdateProduct(ctx context.Context, id uuid.UUID, req *dto.UpdateProductRequest) (*models.Product, error) {
	fields := map[string]string{}
	if err := utils.ValidateStruct(req); err != nil {
		fields = utils.GetValidationErrors(err)
	}
	if req.Price != nil && req.Price.IsNegative() {
		fields["price"] = "Must be greater than or equal to 0"
	}
	if len(fields) > 0 {
		return nil, services.NewValidationError("invalid product", fields)
	}

	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, services.NotFound("product")
		}
		return nil, err
	}

	if err := s.checkRefs(ctx, req.CategoryID, req.ModelID); err != nil {
		return nil, err
	}

	if req.Title != nil {
		product.Title = *req.Title
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.Price != nil {
		product.Price = *req.Price
	}
	if req.Quantity != nil {
		product.Quantity = *req.Quantity
	}
	if req.ColorName != nil {
		product.ColorName = *req.ColorName
	}
	if req.ColorCode != nil {
		product.ColorCode = *req.ColorCode
	}
	if req.Width != nil {
		product.Width = *req.Width
	}
	if req.Depth != nil {
		product.Depth = *req.Depth
	}
	if req.Height != nil {
		product.Height = *req.Height
	}
	if req.Discount != nil {
		product.Discount = req.Discount
	}
	if req.ClearDiscount {
		product.Discount = nil
	}
	if req.CategoryID != nil {
		product.CategoryID = *req.CategoryID
	}
	if req.ModelID != nil {
		product.ModelID = req.ModelID
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		logger.ErrorContext(ctx, "Failed to update product", "product_id", id, "error", err)
		return nil, err
	}

	logger.InfoContext(ctx, "Product updated", "product_id", id)
	return s.productRepo.GetByID(ctx, id)
}

func (s *CatalogServiceImpl) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return services.NotFound("product")
		}
		return err
	}

	if err := s.productRepo.Delete(ctx, id); err != nil {
		logger.ErrorContext(ctx, "Failed to delete product", "product_id", id, "error", err)
		return err
	}

	// ไฟล์รูปลบหลัง DB สำเร็จ ลบไม่ได้แค่ log ไว้
	for _, img := range product.Images {
		if img.StorageKey == "" {
			continue
		}
		if err := s.storage.DeleteFile(ctx, img.StorageKey); err != nil {
			logger.WarnContext(ctx, "Failed to delete product image file", "key", img.StorageKey, "error", err)
		}
	}

	logger.InfoContext(ctx, "Product deleted", "product_id", id, "images", len(product.Images))
	return nil
}

func (s *CatalogServiceImpl) UploadProductImage(ctx context.Context, productID uuid.UUID, file io.Reader, filename string, size int64, contentType string) (*models.ProductImage, error) {
	if !strings.HasPrefix(contentType, "image/") {
		return nil, services.NewValidationError("invalid image", map[string]string{"image": "Must be an image file"})
	}

	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		if isNotFound(err) {
			return nil, services.NotFound("product")
		}
		return nil, err
	}

	ext := strings.ToLower(filepath.Ext(filename))
	name := slug.Make(strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename)))
	if name == "" {
		name = "image"
	}
	key := utils.ProductImageKey(product.Slug, name+ext)

	url, err := s.storage.UploadFile(ctx, file, key, size, contentType)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to upload product image", "product_id", productID, "key", key, "error", err)
		return nil, err
	}

	image := &models.ProductImage{
		ProductID:  product.ID,
		URL:        url,
		StorageKey: key,
	}
	if err := s.productRepo.AddImage(ctx, image); err != nil {
		_ = s.storage.DeleteFile(ctx, key)
		return nil, err
	}

	logger.InfoContext(ctx, "Product image uploaded", "product_id", productID, "key", key, "provider", s.storage.GetProviderName())
	return image, nil
}

func (s *CatalogServiceImpl) DeleteProductImage(ctx context.Context, imageID uuid.UUID) error {
	image, err := s.productRepo.GetImage(ctx, imageID)
	if err != nil {
		if isNotFound(err) {
			return services.NotFound("image")
		}
		return err
	}

	if err := s.productRepo.DeleteImage(ctx, imageID); err != nil {
		return err
	}
	if image.StorageKey != "" {
		if err := s.storage.DeleteFile(ctx, image.StorageKey); err != nil {
			logger.WarnContext(ctx, "Failed to delete image file", "key", image.StorageKey, "error", err)
		}
	}
	return nil
}

func (s *CatalogServiceImpl) CreateProductModel(ctx context.Context, req *dto.CreateProductModelRequest) (*models.ProductModel, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, services.NewValidationError("invalid model", utils.GetValidationErrors(err))
	}

	m := &models.ProductModel{Title: strings.TrimSpace(req.Title)}
	if err := s.modelRepo.Create(ctx, m); err != nil {
		if isDuplicate(err) {
			return nil, services.Conflict("model already exists")
		}
		return nil, err
	}
	return m, nil
}

func (s *CatalogServiceImpl) ListProductModels(ctx context.Context) ([]*models.ProductModel, error) {
	return s.modelRepo.List(ctx)
}
