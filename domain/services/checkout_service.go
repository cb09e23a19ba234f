package services

import (
	"context"

	"loft-shop/domain/dto"
	"loft-shop/domain/models"
)

type CheckoutView struct {
	Order    *models.Order
	Regions  []dto.RegionOption
	Shipping *models.ShippingAddress
}

type CheckoutService interface {
	GetCheckout(ctx context.Context, identity Identity) (*CheckoutView, error)
	// SubmitShipping หนึ่ง order มีได้หนึ่ง address ส่งซ้ำจะอัปเดตของเดิม
	SubmitShipping(ctx context.Context, identity Identity, req *dto.ShippingRequest) (*models.ShippingAddress, error)
	ListRegionCityTree(ctx context.Context) ([]dto.RegionOption, error)

	// Admin
	CreateRegion(ctx context.Context, req *dto.CreateRegionRequest) (*models.Region, error)
	CreateCity(ctx context.Context, req *dto.CreateCityRequest) (*models.City, error)
}
