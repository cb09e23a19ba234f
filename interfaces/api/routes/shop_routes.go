package routes

import (
	"github.com/gofiber/fiber/v2"

	"loft-shop/interfaces/api/handlers"
	"loft-shop/interfaces/api/middleware"
)

// SetupShopRoutes favorites, cart, checkout, payment (ต้อง login)
func SetupShopRoutes(api fiber.Router, h *handlers.Handlers, auth middleware.AuthConfig) {
	protected := middleware.Protected(auth)

	favorites := api.Group("/favorites", protected)
	favorites.Get("/", h.FavoriteHandler.List)
	favorites.Post("/:slug/toggle", h.FavoriteHandler.Toggle)

	cart := api.Group("/cart", protected)
	cart.Get("/", h.CartHandler.GetCart)
	cart.Delete("/", h.CartHandler.ClearCart)
	cart.Post("/items", h.CartHandler.UpdateLine)
	cart.Delete("/items/:lineID", h.CartHandler.RemoveLine)

	checkout := api.Group("/checkout", protected)
	checkout.Get("/", h.CheckoutHandler.GetCheckout)
	checkout.Post("/shipping", h.CheckoutHandler.SubmitShipping)

	payment := api.Group("/payment", protected)
	payment.Post("/session", h.PaymentHandler.CreateSession)
	payment.Get("/success", h.PaymentHandler.Success)
	payment.Get("/cancel", h.PaymentHandler.Cancel)
}
