package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

// CorsMiddleware เปิด credentials เพื่อให้ cookie loft_token ส่งข้าม origin ได้
// origin "*" ใช้ร่วมกับ credentials ไม่ได้ (fiber จะ panic) จึงปิด credentials ในกรณีนั้น
func CorsMiddleware(origins []string) fiber.Handler {
	allowOrigins := strings.Join(origins, ",")
	if allowOrigins == "" {
		allowOrigins = "*"
	}

	return cors.New(cors.Config{
		AllowOrigins:     allowOrigins,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS,HEAD",
		AllowHeaders:     "Origin,Content-Type,Accept,Authorization,X-Requested-With,X-Request-ID",
		ExposeHeaders:    "Content-Length,Content-Type,X-Request-ID",
		AllowCredentials: !strings.Contains(allowOrigins, "*"),
		MaxAge:           86400,
	})
}
