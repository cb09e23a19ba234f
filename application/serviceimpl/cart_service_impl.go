package serviceimpl

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"loft-shop/domain/dto"
	"loft-shop/domain/models"
	"loft-shop/domain/ports"
	"loft-shop/domain/repositories"
	"loft-shop/domain/services"
	"loft-shop/pkg/logger"
)

const cartLockTTL = 5 * time.Second

type CartServiceImpl struct {
	uow         repositories.UnitOfWork
	orderRepo   repositories.OrderRepository
	productRepo repositories.ProductRepository
	customers   services.CustomerService
	locker      ports.LockPort
	gateway     ports.PaymentGatewayPort // nil = ไม่ expire session ที่ gateway
	recentLimit int
}

func NewCartService(
	uow repositories.UnitOfWork,
	orderRepo repositories.OrderRepository,
	productRepo repositories.ProductRepository,
	customers services.CustomerService,
	locker ports.LockPort,
	gateway ports.PaymentGatewayPort,
	recentLimit int,
) services.CartService {
	if recentLimit <= 0 {
		recentLimit = 8
	}
	return &CartServiceImpl{
		uow:         uow,
		orderRepo:   orderRepo,
		productRepo: productRepo,
		customers:   customers,
		locker:      locker,
		gateway:     gateway,
		recentLimit: recentLimit,
	}
}

func cartLockKey(customerID uuid.UUID) string {
	return "cart:create:" + customerID.String()
}

func (s *CartServiceImpl) GetOrCreateCart(ctx context.Context, identity services.Identity) (*models.Order, error) {
	customer, err := s.customers.EnsureCustomer(ctx, identity)
	if err != nil {
		return nil, err
	}
	ctx = logger.ContextWithCustomerID(ctx, customer.ID.String())

	order, err := s.orderRepo.FindCart(ctx, customer.ID)
	if err == nil {
		return order, nil
	}
	if !isNotFound(err) {
		return nil, err
	}

	release, err := acquireWait(ctx, s.locker, cartLockKey(customer.ID), cartLockTTL)
	if err != nil {
		return nil, err
	}
	defer release()

	// อีก request อาจสร้างไปแล้วระหว่างรอ lock
	order, err = s.orderRepo.FindCart(ctx, customer.ID)
	if err == nil {
		return order, nil
	}
	if !isNotFound(err) {
		return nil, err
	}

	order = &models.Order{
		CustomerID: customer.ID,
		Status:     models.OrderStatusOpen,
		Payment:    false,
		Shipping:   true,
	}
	if err := s.orderRepo.Create(ctx, order); err != nil {
		logger.ErrorContext(ctx, "Failed to create cart", "error", err)
		return nil, err
	}

	logger.InfoContext(ctx, "Cart created", "order_id", order.ID)
	return order, nil
}

func (s *CartServiceImpl) AddOrUpdateLine(ctx context.Context, identity services.Identity, productSlug string, action dto.CartAction) (*models.Order, error) {
	if action != dto.CartActionIncrement && action != dto.CartActionDecrement {
		return nil, services.NewValidationError("invalid cart action", map[string]string{
			"action": "Must be one of: add remove increment decrement",
		})
	}

	product, err := s.productRepo.GetBySlug(ctx, productSlug)
	if err != nil {
		if isNotFound(err) {
			return nil, services.NotFound("product")
		}
		return nil, err
	}

	cart, err := s.GetOrCreateCart(ctx, identity)
	if err != nil {
		return nil, err
	}
	ctx = logger.ContextWithCustomerID(ctx, cart.CustomerID.String())

	var stale []string
	err = s.uow.Do(ctx, func(tx *repositories.TxRepositories) error {
		order, err := lockCart(ctx, tx, cart.ID)
		if err != nil {
			return err
		}

		line, err := tx.Orders.FindLine(ctx, order.ID, product.ID)
		missing := isNotFound(err)
		if err != nil && !missing {
			return err
		}

		switch action {
		case dto.CartActionIncrement:
			if missing {
				err = tx.Orders.CreateLine(ctx, &models.OrderLine{
					OrderID:   order.ID,
					ProductID: product.ID,
					Quantity:  1,
				})
			} else {
				err = tx.Orders.UpdateLineQuantity(ctx, line.ID, line.Quantity+1)
			}
		case dto.CartActionDecrement:
			if missing {
				return services.NotFound("cart line")
			}
			if line.Quantity <= 1 {
				err = tx.Orders.DeleteLine(ctx, line.ID)
			} else {
				err = tx.Orders.UpdateLineQuantity(ctx, line.ID, line.Quantity-1)
			}
		}
		if err != nil {
			return err
		}

		stale, err = touchCart(ctx, tx, order)
		return err
	})
	if err != nil {
		return nil, err
	}
	expireRemoteSessions(ctx, s.gateway, stale)

	logger.InfoContext(ctx, "Cart line updated", "order_id", cart.ID, "product", product.Slug, "action", action)
	return s.orderRepo.GetWithLines(ctx, cart.ID)
}

func (s *CartServiceImpl) RemoveLine(ctx context.Context, identity services.Identity, lineID, orderID uuid.UUID) (*models.Order, error) {
	customer, err := s.customers.EnsureCustomer(ctx, identity)
	if err != nil {
		return nil, err
	}

	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		if isNotFound(err) {
			return nil, services.NotFound("cart line")
		}
		return nil, err
	}
	if order.CustomerID != customer.ID || !order.IsCart() {
		return nil, services.NotFound("cart line")
	}

	var stale []string
	err = s.uow.Do(ctx, func(tx *repositories.TxRepositories) error {
		locked, err := lockCart(ctx, tx, order.ID)
		if err != nil {
			return err
		}

		line, err := tx.Orders.FindLineByID(ctx, locked.ID, lineID)
		if err != nil {
			if isNotFound(err) {
				return services.NotFound("cart line")
			}
			return err
		}
		if err := tx.Orders.DeleteLine(ctx, line.ID); err != nil {
			return err
		}

		stale, err = touchCart(ctx, tx, locked)
		return err
	})
	if err != nil {
		return nil, err
	}
	expireRemoteSessions(ctx, s.gateway, stale)

	logger.InfoContext(ctx, "Cart line removed", "order_id", order.ID, "line_id", lineID)
	return s.orderRepo.GetWithLines(ctx, order.ID)
}

func (s *CartServiceImpl) ClearCart(ctx context.Context, identity services.Identity) (*models.Order, error) {
	cart, err := s.GetOrCreateCart(ctx, identity)
	if err != nil {
		return nil, err
	}

	var (
		removed int64
		stale   []string
	)
	err = s.uow.Do(ctx, func(tx *repositories.TxRepositories) error {
		order, err := lockCart(ctx, tx, cart.ID)
		if err != nil {
			return err
		}
		if removed, err = tx.Orders.DeleteLines(ctx, order.ID); err != nil {
			return err
		}
		stale, err = touchCart(ctx, tx, order)
		return err
	})
	if err != nil {
		return nil, err
	}
	expireRemoteSessions(ctx, s.gateway, stale)

	logger.InfoContext(ctx, "Cart cleared", "order_id", cart.ID, "lines_removed", removed)
	return s.orderRepo.GetWithLines(ctx, cart.ID)
}

func (s *CartServiceImpl) GetCartView(ctx context.Context, identity services.Identity) (*services.CartView, error) {
	cart, err := s.GetOrCreateCart(ctx, identity)
	if err != nil {
		return nil, err
	}

	order, err := s.orderRepo.GetWithLines(ctx, cart.ID)
	if err != nil {
		return nil, err
	}

	recent, err := s.productRepo.ListLatest(ctx, s.recentLimit)
	if err != nil {
		logger.WarnContext(ctx, "Failed to load recent products", "error", err)
		recent = nil
	}

	return &services.CartView{Order: order, Recent: recent}, nil
}

// ComputeTotals ไม่แตะ DB และไม่เขียนราคาหลังส่วนลดกลับ
func (s *CartServiceImpl) ComputeTotals(order *models.Order) (decimal.Decimal, int) {
	if order == nil {
		return decimal.Zero, 0
	}
	return order.Totals()
}

// lockCart SELECT ... FOR UPDATE แล้วตรวจว่ายังเป็น cart อยู่
func lockCart(ctx context.Context, tx *repositories.TxRepositories, orderID uuid.UUID) (*models.Order, error) {
	order, err := tx.Orders.LockByID(ctx, orderID)
	if err != nil {
		if isNotFound(err) {
			return nil, services.NotFound("cart")
		}
		return nil, err
	}
	if !order.IsCart() {
		return nil, services.Conflict("order is no longer editable")
	}
	return order, nil
}

// touchCart อัปเดต updated_at และคืน awaiting_payment กลับเป็น open
// session ที่รอชำระอยู่จะถูก supersede เพราะยอดเงินเปลี่ยนแล้ว
// return provider session ids ที่ต้อง expire หลัง commit
func touchCart(ctx context.Context, tx *repositories.TxRepositories, order *models.Order) ([]string, error) {
	var stale []string
	if order.Status == models.OrderStatusAwaitingPayment {
		ids, err := tx.Payments.SupersedePending(ctx, order.ID)
		if err != nil {
			return nil, err
		}
		stale = ids
		order.Status = models.OrderStatusOpen
		logger.InfoContext(ctx, "Cart reopened after change", "order_id", order.ID, "superseded", len(ids))
	}
	return stale, tx.Orders.Update(ctx, order)
}
