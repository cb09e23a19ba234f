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

// DefaultPaymentItemName ชื่อรายการเดียวที่แสดงบนหน้า hosted checkout
const DefaultPaymentItemName = "Товары магазина LOFT"

// PaymentConfig การตั้งค่าสำหรับสร้าง checkout session
type PaymentConfig struct {
	Currency   string
	SuccessURL string
	CancelURL  string
	ItemName   string
	LockTTL    time.Duration // ระยะเวลาถือ lock ต่อ order (default: 30s)
}

type PaymentServiceImpl struct {
	uow          repositories.UnitOfWork
	orderRepo    repositories.OrderRepository
	paymentRepo  repositories.PaymentSessionRepository
	shippingRepo repositories.ShippingRepository
	userRepo     repositories.UserRepository
	carts        services.CartService
	customers    services.CustomerService
	gateway      ports.PaymentGatewayPort
	locker       ports.LockPort
	publisher    ports.EventPublisherPort
	notifier     ports.NotifierPort
	config       PaymentConfig
}

type PaymentDeps struct {
	UnitOfWork   repositories.UnitOfWork
	OrderRepo    repositories.OrderRepository
	PaymentRepo  repositories.PaymentSessionRepository
	ShippingRepo repositories.ShippingRepository
	UserRepo     repositories.UserRepository
	Carts        services.CartService
	Customers    services.CustomerService
	Gateway      ports.PaymentGatewayPort
	Locker       ports.LockPort
	Publisher    ports.EventPublisherPort
	Notifier     ports.NotifierPort
}

func NewPaymentService(deps PaymentDeps, config PaymentConfig) services.PaymentService {
	if config.Currency == "" {
		config.Currency = "rub"
	}
	if config.ItemName == "" {
		config.ItemName = DefaultPaymentItemName
	}
	if config.LockTTL == 0 {
		config.LockTTL = 30 * time.Second
	}
	return &PaymentServiceImpl{
		uow:          deps.UnitOfWork,
		orderRepo:    deps.OrderRepo,
		paymentRepo:  deps.PaymentRepo,
		shippingRepo: deps.ShippingRepo,
		userRepo:     deps.UserRepo,
		carts:        deps.Carts,
		customers:    deps.Customers,
		gateway:      deps.Gateway,
		locker:       deps.Locker,
		publisher:    deps.Publisher,
		notifier:     deps.Notifier,
		config:       config,
	}
}

func paymentLockKey(order *models.Order) string {
	return "payment:order:" + order.ID.String()
}

// ═══════════════════════════════════════════════════════════════════════════════
// Create session
// ═══════════════════════════════════════════════════════════════════════════════

func (s *PaymentServiceImpl) CreatePaymentSession(ctx context.Context, identity services.Identity) (*dto.PaymentSessionResponse, error) {
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
	if _, err := s.shippingRepo.GetByOrderID(ctx, cart.ID); err != nil {
		if isNotFound(err) {
			return nil, services.NewValidationError("shipping address is required", map[string]string{
				"shipping": "Shipping address is required",
			})
		}
		return nil, err
	}

	ok, err := s.locker.Acquire(ctx, paymentLockKey(cart), s.config.LockTTL)
	if err != nil {
		return nil, err
	}
	if !ok {
		logger.WarnContext(ctx, "Payment session already in progress", "order_id", cart.ID)
		return nil, services.Conflict("payment session is already being created")
	}
	defer func() { _ = s.locker.Release(context.Background(), paymentLockKey(cart)) }()

	reservation, err := s.reserveAttempt(ctx, cart)
	if err != nil {
		return nil, err
	}
	expireRemoteSessions(ctx, s.gateway, reservation.stale)
	if reservation.reuse != nil {
		logger.InfoContext(ctx, "Reusing pending payment session", "order_id", cart.ID, "attempt", reservation.reuse.Attempt)
		return sessionResponse(reservation.reuse, true), nil
	}

	attempt, amount := reservation.attempt, reservation.amount
	key := models.IdempotencyKeyFor(cart.ID, attempt)
	req := &ports.CreateCheckoutRequest{
		IdempotencyKey: key,
		Currency:       s.config.Currency,
		Items: []ports.CheckoutLineItem{
			{Name: s.config.ItemName, AmountMinor: amount, Quantity: 1},
		},
		SuccessURL: s.config.SuccessURL,
		CancelURL:  s.config.CancelURL,
		ClientRef:  cart.ID.String(),
	}
	if user, err := s.userRepo.GetByID(ctx, identity.UserID); err == nil {
		req.CustomerEmail = user.Email
	}

	remote, err := s.gateway.CreateCheckoutSession(ctx, req)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to create checkout session",
			"order_id", cart.ID,
			"attempt", attempt,
			"provider", s.gateway.ProviderName(),
			"error", err,
		)
		failed := &models.PaymentSession{
			OrderID:        cart.ID,
			Attempt:        attempt,
			IdempotencyKey: key,
			AmountMinor:    amount,
			Currency:       s.config.Currency,
			Status:         models.PaymentSessionFailed,
		}
		if perr := s.paymentRepo.Create(ctx, failed); perr != nil {
			logger.WarnContext(ctx, "Failed to record failed payment attempt", "order_id", cart.ID, "error", perr)
		}
		return nil, &services.GatewayError{Op: "create checkout session", Err: err}
	}

	session := &models.PaymentSession{
		OrderID:           cart.ID,
		Attempt:           attempt,
		IdempotencyKey:    key,
		ProviderSessionID: remote.ID,
		RedirectURL:       remote.RedirectURL,
		AmountMinor:       amount,
		Currency:          s.config.Currency,
		Status:            models.PaymentSessionPending,
	}

	// cart อาจถูกแก้ระหว่างรอ gateway: ยอดต้องตรงกับ lines ตอน commit
	changed := false
	err = s.uow.Do(ctx, func(tx *repositories.TxRepositories) error {
		locked, err := lockCart(ctx, tx, cart.ID)
		if err != nil {
			return err
		}
		current, err := liveAmount(ctx, tx, locked)
		if err != nil {
			return err
		}
		if current != amount || locked.PaymentAttempt != attempt {
			changed = true
			session.Status = models.PaymentSessionSuperseded
			return tx.Payments.Create(ctx, session)
		}

		locked.Status = models.OrderStatusAwaitingPayment
		if err := tx.Orders.Update(ctx, locked); err != nil {
			return err
		}
		return tx.Payments.Create(ctx, session)
	})
	if err != nil {
		logger.ErrorContext(ctx, "Failed to persist payment session", "order_id", cart.ID, "session_id", remote.ID, "error", err)
		expireRemoteSessions(ctx, s.gateway, []string{remote.ID})
		return nil, err
	}
	if changed {
		logger.WarnContext(ctx, "Cart changed while creating payment session", "order_id", cart.ID, "attempt", attempt)
		expireRemoteSessions(ctx, s.gateway, []string{remote.ID})
		return nil, services.Conflict("cart changed while creating payment session")
	}

	logger.InfoContext(ctx, "Payment session created",
		"order_id", cart.ID,
		"attempt", attempt,
		"amount_minor", amount,
		"provider", s.gateway.ProviderName(),
	)
	return sessionResponse(session, false), nil
}

type attemptReservation struct {
	reuse   *models.PaymentSession
	attempt int
	amount  int64
	stale   []string
}

// reserveAttempt คำนวณยอดจาก lines ภายใต้ row lock ของ order
// pending session ที่ยอดตรงถูกใช้ซ้ำ ไม่ตรงถูก supersede แล้วจอง attempt ใหม่
func (s *PaymentServiceImpl) reserveAttempt(ctx context.Context, cart *models.Order) (*attemptReservation, error) {
	res := &attemptReservation{}
	err := s.uow.Do(ctx, func(tx *repositories.TxRepositories) error {
		locked, err := lockCart(ctx, tx, cart.ID)
		if err != nil {
			return err
		}
		amount, err := liveAmount(ctx, tx, locked)
		if err != nil {
			return err
		}
		res.amount = amount

		pending, err := tx.Payments.FindPending(ctx, locked.ID)
		switch {
		case err == nil:
			if pending.Attempt == locked.PaymentAttempt && pending.AmountMinor == amount &&
				pending.Currency == s.config.Currency && pending.RedirectURL != "" {
				res.reuse = pending
				if locked.Status == models.OrderStatusAwaitingPayment {
					return nil
				}
				locked.Status = models.OrderStatusAwaitingPayment
				return tx.Orders.Update(ctx, locked)
			}
		case !isNotFound(err):
			return err
		}

		if res.stale, err = tx.Payments.SupersedePending(ctx, locked.ID); err != nil {
			return err
		}
		locked.PaymentAttempt++
		res.attempt = locked.PaymentAttempt
		return tx.Orders.Update(ctx, locked)
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// liveAmount ยอดปัจจุบันของ order เป็นหน่วยย่อย (อ่านใน transaction เดียวกับ lock)
func liveAmount(ctx context.Context, tx *repositories.TxRepositories, order *models.Order) (int64, error) {
	withLines, err := tx.Orders.GetWithLines(ctx, order.ID)
	if err != nil {
		return 0, err
	}
	if len(withLines.Lines) == 0 {
		return 0, emptyCartError()
	}
	total, _ := withLines.Totals()
	amount := utils.ToMinorUnits(total)
	if amount <= 0 {
		return 0, services.NewValidationError("invalid order total", map[string]string{"total": "Order total must be positive"})
	}
	return amount, nil
}

func sessionResponse(session *models.PaymentSession, reused bool) *dto.PaymentSessionResponse {
	return &dto.PaymentSessionResponse{
		OrderID:     session.OrderID,
		SessionID:   session.ProviderSessionID,
		RedirectURL: session.RedirectURL,
		Attempt:     session.Attempt,
		AmountMinor: session.AmountMinor,
		Currency:    session.Currency,
		Reused:      reused,
	}
}

// ═══════════════════════════════════════════════════════════════════════════════
// Callbacks
// ═══════════════════════════════════════════════════════════════════════════════

func (s *PaymentServiceImpl) HandlePaymentSuccess(ctx context.Context, identity services.Identity, providerSessionID string) (*models.Order, error) {
	providerSessionID = strings.TrimSpace(providerSessionID)
	if providerSessionID == "" {
		return nil, services.NewValidationError("session id is required", map[string]string{"session_id": "This field is required"})
	}

	customer, err := s.customers.EnsureCustomer(ctx, identity)
	if err != nil {
		return nil, err
	}
	ctx = logger.ContextWithCustomerID(ctx, customer.ID.String())

	session, err := s.paymentRepo.GetByProviderSessionID(ctx, providerSessionID)
	if err != nil {
		if isNotFound(err) {
			return nil, services.NotFound("payment session")
		}
		return nil, err
	}
	order, err := s.orderRepo.GetByID(ctx, session.OrderID)
	if err != nil {
		return nil, err
	}
	if order.CustomerID != customer.ID {
		return nil, services.NotFound("payment session")
	}

	switch session.Status {
	case models.PaymentSessionPaid:
		if order.IsCompleted() {
			return s.orderRepo.GetWithLines(ctx, order.ID)
		}
	case models.PaymentSessionRefundRequired:
		return nil, services.Conflict("payment session is no longer valid")
	}

	remote, err := s.gateway.GetCheckoutSession(ctx, providerSessionID)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to verify checkout session", "session_id", providerSessionID, "error", err)
		return nil, &services.GatewayError{Op: "verify checkout session", Err: err}
	}
	if !remote.Paid {
		logger.WarnContext(ctx, "Checkout session is not paid", "session_id", providerSessionID, "order_id", order.ID)
		return nil, services.Conflict("payment is not completed")
	}
	if remote.AmountMinor != 0 && remote.AmountMinor != session.AmountMinor {
		logger.WarnContext(ctx, "Paid amount differs from session amount",
			"order_id", order.ID,
			"session_amount", session.AmountMinor,
			"paid_amount", remote.AmountMinor,
		)
	}

	firstTime, stale := false, false
	err = s.uow.Do(ctx, func(tx *repositories.TxRepositories) error {
		locked, err := tx.Orders.LockByID(ctx, order.ID)
		if err != nil {
			return err
		}
		// อ่าน session ใหม่หลังได้ lock callback ซ้ำที่มาพร้อมกันจะเห็นสถานะ paid
		fresh, err := tx.Payments.GetByProviderSessionID(ctx, providerSessionID)
		if err != nil {
			return err
		}
		session = fresh
		if session.Status == models.PaymentSessionPaid && locked.IsCompleted() {
			return nil
		}

		// จ่ายแล้วแต่ไม่ใช่ attempt ปัจจุบัน (ถูก supersede / expire / order จ่ายไปแล้ว)
		current := session.Status == models.PaymentSessionPending &&
			session.Attempt == locked.PaymentAttempt &&
			locked.IsCart()
		if !current {
			stale = true
			session.Status = models.PaymentSessionRefundRequired
			return tx.Payments.Update(ctx, session)
		}

		session.Status = models.PaymentSessionPaid
		if err := tx.Payments.Update(ctx, session); err != nil {
			return err
		}

		paidTotal := utils.FromMinorUnits(session.AmountMinor)
		now := time.Now().UTC()
		locked.Status = models.OrderStatusPaid
		locked.Payment = true
		locked.PaidTotal = &paidTotal
		locked.PaidAt = &now
		if err := tx.Orders.Update(ctx, locked); err != nil {
			return err
		}
		firstTime = true
		return nil
	})
	if err != nil {
		logger.ErrorContext(ctx, "Failed to mark order paid", "order_id", order.ID, "error", err)
		return nil, err
	}
	if stale {
		logger.ErrorContext(ctx, "Paid checkout session is not current, refund required",
			"order_id", order.ID,
			"session_id", providerSessionID,
			"attempt", session.Attempt,
			"amount_minor", session.AmountMinor,
		)
		return nil, services.Conflict("payment session is no longer valid")
	}

	paid, err := s.orderRepo.GetWithLines(ctx, order.ID)
	if err != nil {
		return nil, err
	}

	if firstTime {
		logger.InfoContext(ctx, "Order paid", "order_id", paid.ID, "session_id", providerSessionID, "amount_minor", session.AmountMinor)
		s.announcePaid(ctx, identity, paid, session)
	}
	return paid, nil
}

// announcePaid ส่ง event และแจ้งเตือน ล้มเหลวแค่ log ไว้ order ถูก mark paid แล้ว
func (s *PaymentServiceImpl) announcePaid(ctx context.Context, identity services.Identity, order *models.Order, session *models.PaymentSession) {
	total, qty := order.Totals()
	paidAt := time.Now().UTC()
	if order.PaidAt != nil {
		paidAt = *order.PaidAt
	}

	if s.publisher != nil {
		event := &ports.OrderPaidEvent{
			OrderID:           order.ID.String(),
			CustomerID:        order.CustomerID.String(),
			ProviderSessionID: session.ProviderSessionID,
			AmountMinor:       session.AmountMinor,
			Currency:          session.Currency,
			TotalQuantity:     qty,
			PaidAt:            paidAt,
		}
		if err := s.publisher.PublishOrderPaid(ctx, event); err != nil {
			logger.WarnContext(ctx, "Failed to publish order paid event", "order_id", order.ID, "error", err)
		}
	}

	if s.notifier == nil || !s.notifier.IsEnabled() {
		return
	}
	note := &ports.OrderNotification{
		OrderID: order.ID.String(),
		Total:   utils.FormatPrice(total),
		Items:   qty,
	}
	if order.PaidTotal != nil {
		note.Total = utils.FormatPrice(*order.PaidTotal)
	}
	if user, err := s.userRepo.GetByID(ctx, identity.UserID); err == nil {
		note.Customer = strings.TrimSpace(user.FirstName + " " + user.LastName)
		if note.Customer == "" {
			note.Customer = user.Username
		}
	}
	if order.Shipment != nil {
		note.Address = order.Shipment.Address
		note.Phone = order.Shipment.Phone
	}
	if err := s.notifier.SendOrderPaidAlert(ctx, note); err != nil {
		logger.WarnContext(ctx, "Failed to send order paid alert", "order_id", order.ID, "error", err)
	}
}

func (s *PaymentServiceImpl) HandlePaymentCancel(ctx context.Context, identity services.Identity) (*models.Order, error) {
	cart, err := s.carts.GetOrCreateCart(ctx, identity)
	if err != nil {
		return nil, err
	}

	var stale []string
	err = s.uow.Do(ctx, func(tx *repositories.TxRepositories) error {
		locked, err := lockCart(ctx, tx, cart.ID)
		if err != nil {
			return err
		}
		if locked.Status != models.OrderStatusAwaitingPayment {
			return nil
		}
		if stale, err = tx.Payments.SupersedePending(ctx, locked.ID); err != nil {
			return err
		}
		locked.Status = models.OrderStatusOpen
		return tx.Orders.Update(ctx, locked)
	})
	if err != nil {
		return nil, err
	}
	expireRemoteSessions(ctx, s.gateway, stale)

	logger.InfoContext(ctx, "Payment cancelled", "order_id", cart.ID)
	return s.orderRepo.GetWithLines(ctx, cart.ID)
}
