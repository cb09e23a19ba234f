package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"loft-shop/pkg/logger"
	"loft-shop/pkg/utils"
)

func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		errCode := utils.ErrCodeInternalError
		message := "Internal server error"

		var e *fiber.Error
		if errors.As(err, &e) {
			code = e.Code
			message = e.Message
			switch code {
			case fiber.StatusBadRequest:
				errCode = utils.ErrCodeBadRequest
			case fiber.StatusUnauthorized:
				errCode = utils.ErrCodeUnauthorized
			case fiber.StatusForbidden:
				errCode = utils.ErrCodeForbidden
			case fiber.StatusNotFound:
				errCode = utils.ErrCodeNotFound
			case fiber.StatusConflict:
				errCode = utils.ErrCodeConflict
			}
		}

		if code >= fiber.StatusInternalServerError {
			logger.ErrorContext(c.UserContext(), "Request failed", "path", c.Path(), "error", err)
		}

		return utils.ErrorResponse(c, code, errCode, message, nil)
	}
}
