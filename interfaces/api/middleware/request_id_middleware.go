package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"loft-shop/pkg/logger"
)

const RequestIDHeader = "X-Request-ID"

// RequestIDMiddleware ใช้ X-Request-ID จาก client ถ้ามี ไม่มีจะสร้างใหม่
func RequestIDMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		requestID := c.Get(RequestIDHeader)
		if requestID == "" || len(requestID) > 64 {
			requestID = uuid.New().String()
		}

		c.Set(RequestIDHeader, requestID)
		c.SetUserContext(logger.ContextWithRequestID(c.UserContext(), requestID))
		c.Locals("request_id", requestID)

		return c.Next()
	}
}
