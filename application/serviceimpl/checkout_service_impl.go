package serviceimpl

import (
	"context"
	"strings"
	"time"

	"loft-shop/domain/dto"
	"loft-shop/domain/models"
	"loft-shop/domain/ports"
	"loft-shop/domain/repositories"
	"loft-shop/domain/services"
	"loft-shop/pkg/logger"
	"loft-shop/pkg/utils"
)

const (
	regionTreeCacheKey = "loft:regions:tree"
	regionTreeCacheTTL = 10 * time.Minute
)

type CheckoutServiceImpl struct {
	uow          repositories.UnitOfWork
	orderRepo    repositories.OrderRepository
	shippingRepo repositories.ShippingRepository
	regionRepo   repositories.RegionRepository
	carts        services.CartService
	cache        ports.CachePort // nil = ไม่ cache
}

func NewCheckoutService(
	uow repositories.UnitOfWork,
	orderRepo repositories.OrderRepository,
	shippingRepo repositories.ShippingRepository,
	regionRepo repositories.RegionRepository,
	carts services.CartService,
	cache ports.CachePort,
) services.CheckoutService {
	return &CheckoutServiceImpl{
		uow:          uow,
		orderRepo:    orderRepo,
		shippingRepo: shippingRepo,
		regionRepo:   regionRepo,
		carts:        carts,
		cache:        cache,
	}
}

func emptyCartError() error {
	return services.NewValidationError("cart is empty", map[string]string{"cart": "Cart is empty"})
}

func (s *CheckoutServiceImpl) GetCheckout(ctx context.Context, identity services.Identity) (*services.CheckoutView, error) {
	cart, err := s.carts.GetOrCreateCart(ctx, identity)
	if err != nil {
		return nil, err
	}

	order, err := s.orderRepo.GetWithLines(ctx, cart.ID)
	if err != nil {
		return nil, err
	}
	if len(order.Lines) == 0 {
		return nil, emptyCartError()
	}

	regions, err := s.ListRegionCityTree(ctx)
	if err != nil {
		return nil, err
	}

	shipping, err := s.shippingRepo.GetByOrderID(ctx, order.ID)
	if err != nil {
		if !isNotFound(err) {
			return nil, err
		}
		shipping = nil
	}

	return &services.CheckoutView{Order: order, Regions: regions, Shipping: shipping}, nil
}

func (s *CheckoutServiceImpl) SubmitShipping(ctx context.Context, identity services.Identity, req *dto.ShippingRequest) (*models.ShippingAddress, error) {
	req.Address = strings.TrimSpace(req.Address)
	req.Phone = strings.TrimSpace(req.Phone)
	req.Comment = strings.TrimSpace(req.Comment)
	if err := utils.ValidateStruct(req); err != nil {
		return nil, services.NewValidationError("invalid shipping data", utils.GetValidationErrors(err))
	}

	if _, err := s.regionRepo.GetRegion(ctx, req.RegionID); err != nil {
		if isNotFound(err) {
			return nil, services.NewValidationError("invalid shipping data", map[string]string{"regionId": "Region does not exist"})
		}
		return nil, err
	}
	city, err := s.regionRepo.GetCity(ctx, req.CityID)
	if err != nil {
		if isNotFound(err) {
			return nil, services.NewValidationError("invalid shipping data", map[string]string{"cityId": "City does not exist"})
		}
		return nil, err
	}
	if city.RegionID != req.RegionID {
		return nil, services.NewValidationError("invalid shipping data", map[string]string{"cityId": "City does not belong to the selected region"})
	}

	cart, err := s.carts.GetOrCreateCart(ctx, identity)
	if err != nil {
		return nil, err
	}
	ctx = logger.ContextWithCustomerID(ctx, cart.CustomerID.String())

	lines, err := s.orderRepo.CountLines(ctx, cart.ID)
	if err != nil {
		return nil, err
	}
	if lines == 0 {
		return nil, emptyCartError()
	}

	address := &models.ShippingAddress{
		CustomerID: cart.CustomerID,
		OrderID:    cart.ID,
		Address:    req.Address,
		Phone:      req.Phone,
		Comment:    req.Comment,
		RegionID:   req.RegionID,
		CityID:     req.CityID,
	}
	err = s.uow.Do(ctx, func(tx *repositories.TxRepositories) error {
		if _, err := lockCart(ctx, tx, cart.ID); err != nil {
			return err
		}
		return tx.Shipping.Upsert(ctx, address)
	})
	if err != nil {
		logger.ErrorContext(ctx, "Failed to save shipping address", "order_id", cart.ID, "error", err)
		return nil, err
	}

	logger.InfoContext(ctx, "Shipping address saved", "order_id", cart.ID, "city_id", req.CityID)
	return address, nil
}

// ListRegionCityTree region เรียงตามชื่อ แต่ละ region มี city เรียงตามชื่อ
func (s *CheckoutServiceImpl) ListRegionCityTree(ctx context.Context) ([]dto.RegionOption, error) {
	if s.cache != nil {
		var cached []dto.RegionOption
		if err := s.cache.GetJSON(ctx, regionTreeCacheKey, &cached); err == nil {
			return cached, nil
		}
	}

	regions, err := s.regionRepo.ListWithCities(ctx)
	if err != nil {
		return nil, err
	}
	tree := dto.RegionsToOptions(regions)

	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, regionTreeCacheKey, tree, regionTreeCacheTTL); err != nil {
			logger.WarnContext(ctx, "Failed to cache region tree", "error", err)
		}
	}
	return tree, nil
}

func (s *CheckoutServiceImpl) invalidateRegions(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, regionTreeCacheKey); err != nil {
		logger.WarnContext(ctx, "Failed to invalidate region tree cache", "error", err)
	}
}

func (s *CheckoutServiceImpl) CreateRegion(ctx context.Context, req *dto.CreateRegionRequest) (*models.Region, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, services.NewValidationError("invalid region", utils.GetValidationErrors(err))
	}

	region := &models.Region{Title: req.Title}
	if err := s.regionRepo.CreateRegion(ctx, region); err != nil {
		if isDuplicate(err) {
			return nil, services.Conflict("region already exists")
		}
		return nil, err
	}
	s.invalidateRegions(ctx)

	logger.InfoContext(ctx, "Region created", "region_id", region.ID, "title", region.Title)
	return region, nil
}

func (s *CheckoutServiceImpl) CreateCity(ctx context.Context, req *dto.CreateCityRequest) (*models.City, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, services.NewValidationError("invalid city", utils.GetValidationErrors(err))
	}

	if _, err := s.regionRepo.GetRegion(ctx, req.RegionID); err != nil {
		if isNotFound(err) {
			return nil, services.NotFound("region")
		}
		return nil, err
	}

	city := &models.City{Title: req.Title, RegionID: req.RegionID}
	if err := s.regionRepo.CreateCity(ctx, city); err != nil {
		return nil, err
	}
	s.invalidateRegions(ctx)

	logger.InfoContext(ctx, "City created", "city_id", city.ID, "region_id", city.RegionID)
	return city, nil
}
