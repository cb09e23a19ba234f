package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"loft-shop/pkg/logger"
	"loft-shop/pkg/utils"
)

// LoggerMiddleware log หนึ่งบรรทัดต่อ request หลังทำงานเสร็จ (ข้าม /health)
func LoggerMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Path() == "/health" {
			return c.Next()
		}

		start := time.Now()
		err := c.Next()
		latency := time.Since(start)

		status := c.Response().StatusCode()
		logFunc := logger.InfoContext
		if status >= 500 {
			logFunc = logger.ErrorContext
		} else if status >= 400 {
			logFunc = logger.WarnContext
		}

		attrs := []any{
			"method", c.Method(),
			"path", c.Path(),
			"status", status,
			"latency", latency.String(),
			"ip", c.IP(),
		}
		if user, uerr := utils.GetUserFromContext(c); uerr == nil {
			attrs = append(attrs, "user_id", user.ID)
		}
		logFunc(c.UserContext(), "Request completed", attrs...)

		return err
	}
}
