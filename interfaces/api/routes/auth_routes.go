package routes

import (
	"github.com/gofiber/fiber/v2"

	"loft-shop/interfaces/api/handlers"
	"loft-shop/interfaces/api/middleware"
)

func SetupAuthRoutes(api fiber.Router, h *handlers.Handlers, auth middleware.AuthConfig) {
	group := api.Group("/auth")

	group.Post("/register", h.UserHandler.Register)
	group.Post("/login", h.UserHandler.Login)
	group.Post("/logout", h.UserHandler.Logout)

	group.Get("/me", middleware.Protected(auth), h.UserHandler.GetProfile)
}
