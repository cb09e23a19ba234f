package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"loft-shop/domain/dto"
	"loft-shop/domain/services"
	"loft-shop/pkg/utils"
)

// cancelRedirect หน้าที่ client กลับไปหลังยกเลิกการชำระเงิน
const cancelRedirect = "/checkout"

type PaymentHandler struct {
	paymentService services.PaymentService
}

func NewPaymentHandler(paymentService services.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// CreateSession POST /payment/session
func (h *PaymentHandler) CreateSession(c *fiber.Ctx) error {
	session, err := h.paymentService.CreatePaymentSession(c.UserContext(), identityFrom(c))
	if err != nil {
		return HandleServiceError(c, err)
	}
	return utils.SuccessResponse(c, session)
}

// Success GET /payment/success?session_id= (เรียกซ้ำได้)
func (h *PaymentHandler) Success(c *fiber.Ctx) error {
	order, err := h.paymentService.HandlePaymentSuccess(c.UserContext(), identityFrom(c), c.Query("session_id"))
	if err != nil {
		return HandleServiceError(c, err)
	}

	resp := &dto.PaymentResultResponse{
		OrderID: order.ID,
		Status:  string(order.Status),
		PaidAt:  order.PaidAt,
	}
	if order.PaidTotal != nil {
		resp.PaidTotal = *order.PaidTotal
	} else {
		resp.PaidTotal = decimal.Zero
	}
	return utils.SuccessResponse(c, resp)
}

// Cancel GET /payment/cancel
func (h *PaymentHandler) Cancel(c *fiber.Ctx) error {
	order, err := h.paymentService.HandlePaymentCancel(c.UserContext(), identityFrom(c))
	if err != nil {
		return HandleServiceError(c, err)
	}
	return utils.SuccessResponse(c, &dto.PaymentCancelResponse{
		OrderID:  order.ID,
		Status:   string(order.Status),
		Redirect: cancelRedirect,
	})
}
