package routes

import (
	"github.com/gofiber/fiber/v2"

	"loft-shop/interfaces/api/handlers"
	"loft-shop/interfaces/api/middleware"
)

func SetupRoutes(app *fiber.App, h *handlers.Handlers, auth middleware.AuthConfig) {
	SetupHealthRoutes(app)

	api := app.Group("/api/v1")

	SetupAuthRoutes(api, h, auth)
	SetupCatalogRoutes(api, h, auth)
	SetupShopRoutes(api, h, auth)
	SetupAdminRoutes(api, h, auth)
}
