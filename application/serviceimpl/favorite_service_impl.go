package serviceimpl

import (
	"context"

	"github.com/google/uuid"

	"loft-shop/domain/models"
	"loft-shop/domain/repositories"
	"loft-shop/domain/services"
	"loft-shop/pkg/logger"
)

type FavoriteServiceImpl struct {
	favoriteRepo repositories.FavoriteRepository
	productRepo  repositories.ProductRepository
}

func NewFavoriteService(favoriteRepo repositories.FavoriteRepository, productRepo repositories.ProductRepository) services.FavoriteService {
	return &FavoriteServiceImpl{
		favoriteRepo: favoriteRepo,
		productRepo:  productRepo,
	}
}

func (s *FavoriteServiceImpl) ToggleFavorite(ctx context.Context, identity services.Identity, productSlug string) (bool, error) {
	if err := requireIdentity(identity); err != nil {
		return false, err
	}

	product, err := s.productRepo.GetBySlug(ctx, productSlug)
	if err != nil {
		if isNotFound(err) {
			return false, services.NotFound("product")
		}
		return false, err
	}

	added, err := s.favoriteRepo.Toggle(ctx, identity.UserID, product.ID)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to toggle favorite", "user_id", identity.UserID, "product_id", product.ID, "error", err)
		return false, err
	}

	logger.InfoContext(ctx, "Favorite toggled", "user_id", identity.UserID, "product", product.Slug, "added", added)
	return added, nil
}

func (s *FavoriteServiceImpl) ListFavorites(ctx context.Context, identity services.Identity) ([]*models.Product, error) {
	if err := requireIdentity(identity); err != nil {
		return nil, err
	}
	return s.favoriteRepo.ListProducts(ctx, identity.UserID)
}

// FavoriteSet ใช้ mark isFavorite ในรายการสินค้า anonymous ได้ set ว่าง
func (s *FavoriteServiceImpl) FavoriteSet(ctx context.Context, identity services.Identity) (map[uuid.UUID]bool, error) {
	set := make(map[uuid.UUID]bool)
	if identity.IsAnonymous() {
		return set, nil
	}
	ids, err := s.favoriteRepo.ProductIDs(ctx, identity.UserID)
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		set[id] = true
	}
	return set, nil
}
