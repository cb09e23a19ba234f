package handlers

import (
	"github.com/gofiber/fiber/v2"

	"loft-shop/domain/dto"
	"loft-shop/domain/services"
	"loft-shop/pkg/utils"
)

type FavoriteHandler struct {
	favoriteService services.FavoriteService
}

func NewFavoriteHandler(favoriteService services.FavoriteService) *FavoriteHandler {
	return &FavoriteHandler{favoriteService: favoriteService}
}

// Toggle POST /favorites/:slug/toggle
func (h *FavoriteHandler) Toggle(c *fiber.Ctx) error {
	slug := c.Params("slug")
	added, err := h.favoriteService.ToggleFavorite(c.UserContext(), identityFrom(c), slug)
	if err != nil {
		return HandleServiceError(c, err)
	}
	return utils.SuccessResponse(c, &dto.ToggleFavoriteResponse{
		Slug:    slug,
		Added:   added,
		Removed: !added,
	})
}

func (h *FavoriteHandler) List(c *fiber.Ctx) error {
	products, err := h.favoriteService.ListFavorites(c.UserContext(), identityFrom(c))
	if err != nil {
		return HandleServiceError(c, err)
	}

	out := dto.ProductsToResponses(products)
	for _, p := range out {
		p.IsFavorite = true
	}
	return utils.SuccessResponse(c, out)
}
