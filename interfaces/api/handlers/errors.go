package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"loft-shop/domain/services"
	"loft-shop/pkg/logger"
	"loft-shop/pkg/utils"
)

// HandleServiceError แปลง error จาก service เป็น response ตามชนิด
func HandleServiceError(c *fiber.Ctx, err error) error {
	ctx := c.UserContext()

	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		logger.WarnContext(ctx, "Validation failed", "path", c.Path(), "errors", verr.Fields)
		return utils.ErrorResponse(c, fiber.StatusBadRequest, utils.ErrCodeValidation, verr.Message, verr.Fields)
	case errors.Is(err, services.ErrValidation):
		return utils.ValidationErrorResponse(c, nil)
	case errors.Is(err, services.ErrNotFound):
		return utils.NotFoundResponse(c, err.Error())
	case errors.Is(err, services.ErrUnauthenticated):
		return utils.UnauthorizedResponse(c, "")
	case errors.Is(err, services.ErrConflict):
		logger.WarnContext(ctx, "Conflict", "path", c.Path(), "error", err)
		return utils.ConflictResponse(c, err.Error())
	case errors.Is(err, services.ErrGateway):
		logger.ErrorContext(ctx, "Payment gateway error", "path", c.Path(), "error", err)
		return utils.GatewayErrorResponse(c, "")
	}

	logger.ErrorContext(ctx, "Unhandled service error", "path", c.Path(), "error", err)
	return utils.InternalServerErrorResponse(c)
}

// identityFrom ผู้ใช้จาก auth middleware ไม่มี token = anonymous
func identityFrom(c *fiber.Ctx) services.Identity {
	user, err := utils.GetUserFromContext(c)
	if err != nil {
		return services.Identity{}
	}
	return services.Identity{UserID: user.ID}
}

func invalidBody(c *fiber.Ctx, err error) error {
	logger.WarnContext(c.UserContext(), "Invalid request body", "error", err)
	return utils.BadRequestResponse(c, "Invalid request body")
}
