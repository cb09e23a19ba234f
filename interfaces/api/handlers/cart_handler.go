package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"loft-shop/domain/dto"
	"loft-shop/domain/services"
	"loft-shop/pkg/logger"
	"loft-shop/pkg/utils"
)

type CartHandler struct {
	cartService services.CartService
}

func NewCartHandler(cartService services.CartService) *CartHandler {
	return &CartHandler{cartService: cartService}
}

// GetCart cart ปัจจุบันพร้อมสินค้าล่าสุด
func (h *CartHandler) GetCart(c *fiber.Ctx) error {
	view, err := h.cartService.GetCartView(c.UserContext(), identityFrom(c))
	if err != nil {
		return HandleServiceError(c, err)
	}
	return utils.SuccessResponse(c, &dto.CartViewResponse{
		Cart:   dto.OrderToCartResponse(view.Order),
		Recent: dto.ProductsToResponses(view.Recent),
	})
}

// UpdateLine POST /cart/items {slug, action}
func (h *CartHandler) UpdateLine(c *fiber.Ctx) error {
	ctx := c.UserContext()

	var req dto.UpdateCartLineRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c, err)
	}
	if err := utils.ValidateStruct(&req); err != nil {
		errors := utils.GetValidationErrors(err)
		logger.WarnContext(ctx, "Validation failed", "errors", errors)
		return utils.ValidationErrorResponse(c, errors)
	}

	action, _ := dto.ParseCartAction(req.Action)
	order, err := h.cartService.AddOrUpdateLine(ctx, identityFrom(c), req.Slug, action)
	if err != nil {
		return HandleServiceError(c, err)
	}
	return utils.SuccessResponse(c, dto.OrderToCartResponse(order))
}

// RemoveLine DELETE /cart/items/:lineID?order=<orderID>
func (h *CartHandler) RemoveLine(c *fiber.Ctx) error {
	lineID, err := uuid.Parse(c.Params("lineID"))
	if err != nil {
		return utils.BadRequestResponse(c, "Invalid line ID")
	}
	orderID, err := uuid.Parse(c.Query("order"))
	if err != nil {
		return utils.BadRequestResponse(c, "Invalid order ID")
	}

	order, err := h.cartService.RemoveLine(c.UserContext(), identityFrom(c), lineID, orderID)
	if err != nil {
		return HandleServiceError(c, err)
	}
	return utils.SuccessResponse(c, dto.OrderToCartResponse(order))
}

func (h *CartHandler) ClearCart(c *fiber.Ctx) error {
	order, err := h.cartService.ClearCart(c.UserContext(), identityFrom(c))
	if err != nil {
		return HandleServiceError(c, err)
	}
	return utils.SuccessResponse(c, dto.OrderToCartResponse(order))
}
