package routes

import (
	"github.com/gofiber/fiber/v2"

	"loft-shop/interfaces/api/handlers"
	"loft-shop/interfaces/api/middleware"
)

func SetupAdminRoutes(api fiber.Router, h *handlers.Handlers, auth middleware.AuthConfig) {
	admin := api.Group("/admin", middleware.Protected(auth), middleware.AdminOnly())

	admin.Post("/categories", h.AdminHandler.CreateCategory)
	admin.Delete("/categories/:id", h.AdminHandler.DeleteCategory)

	admin.Post("/products", h.AdminHandler.CreateProduct)
	admin.Put("/products/:id", h.AdminHandler.UpdateProduct)
	admin.Delete("/products/:id", h.AdminHandler.DeleteProduct)
	admin.Post("/products/:id/images", h.AdminHandler.UploadImage)
	admin.Delete("/images/:id", h.AdminHandler.DeleteImage)

	admin.Get("/models", h.AdminHandler.ListModels)
	admin.Post("/models", h.AdminHandler.CreateModel)

	admin.Post("/regions", h.AdminHandler.CreateRegion)
	admin.Post("/cities", h.AdminHandler.CreateCity)
}
