package routes

import (
	"github.com/gofiber/fiber/v2"

	"loft-shop/interfaces/api/handlers"
	"loft-shop/interfaces/api/middleware"
)

// SetupCatalogRoutes public แต่ถ้ามี token จะ mark isFavorite ให้
func SetupCatalogRoutes(api fiber.Router, h *handlers.Handlers, auth middleware.AuthConfig) {
	catalog := api.Group("/catalog", middleware.Optional(auth))

	catalog.Get("/categories", h.CatalogHandler.ListCategories)
	catalog.Get("/categories/:slug/products", h.CatalogHandler.CategoryProducts)
	catalog.Get("/products/:slug", h.CatalogHandler.GetProduct)
	catalog.Get("/sales", h.CatalogHandler.ListSales)

	api.Get("/checkout/regions", h.CheckoutHandler.ListRegions)
}
