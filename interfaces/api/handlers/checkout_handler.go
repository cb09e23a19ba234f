package handlers

import (
	"github.com/gofiber/fiber/v2"

	"loft-shop/domain/dto"
	"loft-shop/domain/services"
	"loft-shop/pkg/utils"
)

type CheckoutHandler struct {
	checkoutService services.CheckoutService
}

func NewCheckoutHandler(checkoutService services.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{checkoutService: checkoutService}
}

// GetCheckout cart, ตัวเลือก region/city และที่อยู่ที่เคยกรอก
func (h *CheckoutHandler) GetCheckout(c *fiber.Ctx) error {
	view, err := h.checkoutService.GetCheckout(c.UserContext(), identityFrom(c))
	if err != nil {
		return HandleServiceError(c, err)
	}
	return utils.SuccessResponse(c, &dto.CheckoutResponse{
		Cart:     dto.OrderToCartResponse(view.Order),
		Regions:  view.Regions,
		Shipping: dto.ShippingToResponse(view.Shipping),
	})
}

// SubmitShipping validation ทำใน service เพื่อให้ field errors มาจากที่เดียว
func (h *CheckoutHandler) SubmitShipping(c *fiber.Ctx) error {
	var req dto.ShippingRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c, err)
	}

	address, err := h.checkoutService.SubmitShipping(c.UserContext(), identityFrom(c), &req)
	if err != nil {
		return HandleServiceError(c, err)
	}
	return utils.SuccessResponse(c, dto.ShippingToResponse(address))
}

func (h *CheckoutHandler) ListRegions(c *fiber.Ctx) error {
	tree, err := h.checkoutService.ListRegionCityTree(c.UserContext())
	if err != nil {
		return HandleServiceError(c, err)
	}
	return utils.SuccessResponse(c, tree)
}
