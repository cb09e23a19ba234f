package handlers

import (
	"time"

	"loft-shop/domain/services"
)

// Services สิ่งที่ handlers ต้องใช้
type Services struct {
	UserService     services.UserService
	CatalogService  services.CatalogService
	CartService     services.CartService
	CheckoutService services.CheckoutService
	PaymentService  services.PaymentService
	FavoriteService services.FavoriteService

	CookieName    string        // cookie ที่เก็บ JWT (loft_token)
	CookieTTL     time.Duration // อายุ cookie ให้ตรงกับ JWT TTL
	SecureCookie  bool          // production = true
	MaxUploadSize int64         // bytes
}

// Handlers contains all HTTP handlers
type Handlers struct {
	UserHandler     *UserHandler
	CatalogHandler  *CatalogHandler
	CartHandler     *CartHandler
	CheckoutHandler *CheckoutHandler
	PaymentHandler  *PaymentHandler
	FavoriteHandler *FavoriteHandler
	AdminHandler    *AdminHandler
}

// NewHandlers creates a new instance of Handlers with all dependencies
func NewHandlers(s *Services) *Handlers {
	return &Handlers{
		UserHandler:     NewUserHandler(s.UserService, CookieSettings{Name: s.CookieName, TTL: s.CookieTTL, Secure: s.SecureCookie}),
		CatalogHandler:  NewCatalogHandler(s.CatalogService, s.FavoriteService),
		CartHandler:     NewCartHandler(s.CartService),
		CheckoutHandler: NewCheckoutHandler(s.CheckoutService),
		PaymentHandler:  NewPaymentHandler(s.PaymentService),
		FavoriteHandler: NewFavoriteHandler(s.FavoriteService),
		AdminHandler:    NewAdminHandler(s.CatalogService, s.CheckoutService, s.MaxUploadSize),
	}
}
