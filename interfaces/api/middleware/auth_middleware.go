package middleware

import (
	"github.com/gofiber/fiber/v2"

	"loft-shop/domain/models"
	"loft-shop/pkg/logger"
	"loft-shop/pkg/utils"
)

// AuthConfig secret สำหรับตรวจ JWT และชื่อ cookie ที่ใช้แทน header ได้
type AuthConfig struct {
	Secret     string
	CookieName string
}

// tokenFrom อ่าน Bearer token ก่อน ไม่มีค่อยดูจาก cookie
func (cfg AuthConfig) tokenFrom(c *fiber.Ctx) string {
	if authHeader := c.Get("Authorization"); authHeader != "" {
		return utils.ExtractTokenFromHeader(authHeader)
	}
	if cfg.CookieName != "" {
		return c.Cookies(cfg.CookieName)
	}
	return ""
}

// Protected middleware validates JWT tokens and sets user context
func Protected(cfg AuthConfig) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := cfg.tokenFrom(c)
		if token == "" {
			return utils.UnauthorizedResponse(c, "Missing authorization token")
		}

		userCtx, err := utils.ValidateTokenStringToUUID(token, cfg.Secret)
		if err != nil {
			logger.WarnContext(c.UserContext(), "Token validation failed", "path", c.Path(), "error", err)
			switch err {
			case utils.ErrExpiredToken:
				return utils.UnauthorizedResponse(c, "Token has expired")
			case utils.ErrInvalidToken:
				return utils.UnauthorizedResponse(c, "Invalid token")
			case utils.ErrMissingToken:
				return utils.UnauthorizedResponse(c, "Missing token")
			default:
				return utils.UnauthorizedResponse(c, "Token validation failed")
			}
		}

		utils.SetUserInContext(c, userCtx)
		return c.Next()
	}
}

// Optional middleware that doesn't require authentication but sets user context if token is present
func Optional(cfg AuthConfig) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := cfg.tokenFrom(c)
		if token == "" {
			return c.Next()
		}

		userCtx, err := utils.ValidateTokenStringToUUID(token, cfg.Secret)
		if err != nil {
			return c.Next()
		}

		utils.SetUserInContext(c, userCtx)
		return c.Next()
	}
}

// RequireRole middleware checks if user has specific role
func RequireRole(role string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := utils.GetUserFromContext(c)
		if err != nil {
			return utils.UnauthorizedResponse(c, "User not authenticated")
		}

		if user.Role != role {
			logger.WarnContext(c.UserContext(), "Insufficient permissions", "user_id", user.ID, "role", user.Role)
			return utils.ForbiddenResponse(c, "Insufficient permissions")
		}

		return c.Next()
	}
}

// AdminOnly middleware ensures only admin users can access
func AdminOnly() fiber.Handler {
	return RequireRole(models.RoleAdmin)
}
