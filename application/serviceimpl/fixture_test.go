package serviceimpl

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"loft-shop/domain/models"
	"loft-shop/domain/ports"
	"loft-shop/domain/repositories"
	"loft-shop/domain/services"
	"loft-shop/infrastructure/payment"
	"loft-shop/infrastructure/postgres"
	"loft-shop/infrastructure/redis"
	"loft-shop/infrastructure/storage"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []*ports.OrderPaidEvent
}

func (p *recordingPublisher) PublishOrderPaid(ctx context.Context, event *ports.OrderPaidEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

type recordingNotifier struct {
	sent []*ports.OrderNotification
}

func (n *recordingNotifier) SendOrderPaidAlert(ctx context.Context, note *ports.OrderNotification) error {
	n.sent = append(n.sent, note)
	return nil
}

func (n *recordingNotifier) IsEnabled() bool { return true }

// memoryCache CachePort ใน memory สำหรับ test
type memoryCache struct {
	data map[string][]byte
	sets int
}

func newMemoryCache() *memoryCache {
	return &memoryCache{data: map[string][]byte{}}
}

func (c *memoryCache) GetJSON(ctx context.Context, key string, target interface{}) error {
	raw, ok := c.data[key]
	if !ok {
		return redis.ErrCacheMiss
	}
	return json.Unmarshal(raw, target)
}

func (c *memoryCache) SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.data[key] = raw
	c.sets++
	return nil
}

func (c *memoryCache) Del(ctx context.Context, keys ...string) error {
	for _, k := range keys {
		delete(c.data, k)
	}
	return nil
}

type fixture struct {
	db *gorm.DB

	uow          repositories.UnitOfWork
	users        repositories.UserRepository
	categoryRepo repositories.CategoryRepository
	productRepo  repositories.ProductRepository
	modelRepo    repositories.ProductModelRepository
	orderRepo    repositories.OrderRepository
	paymentRepo  repositories.PaymentSessionRepository
	shippingRepo repositories.ShippingRepository
	regionRepo   repositories.RegionRepository
	favoriteRepo repositories.FavoriteRepository

	store     *storage.LocalStorage
	gateway   *payment.FakeGateway
	locker    *redis.LocalLocker
	publisher *recordingPublisher
	notifier  *recordingNotifier
	cache     *memoryCache

	customers services.CustomerService
	carts     services.CartService
	checkout  services.CheckoutService
	payments  services.PaymentService
	favorites services.FavoriteService
	catalog   services.CatalogService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(uuid.NewString(), "-", ""))
	db, err := postgres.NewSQLiteDatabase(dsn, "silent")
	require.NoError(t, err)
	require.NoError(t, postgres.Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	store, err := storage.NewLocalStorage(storage.LocalStorageConfig{
		BasePath: t.TempDir(),
		BaseURL:  "http://localhost:8080/files",
	})
	require.NoError(t, err)

	f := &fixture{
		db:           db,
		uow:          postgres.NewUnitOfWork(db),
		users:        postgres.NewUserRepository(db),
		categoryRepo: postgres.NewCategoryRepository(db),
		productRepo:  postgres.NewProductRepository(db),
		modelRepo:    postgres.NewProductModelRepository(db),
		orderRepo:    postgres.NewOrderRepository(db),
		paymentRepo:  postgres.NewPaymentSessionRepository(db),
		shippingRepo: postgres.NewShippingRepository(db),
		regionRepo:   postgres.NewRegionRepository(db),
		favoriteRepo: postgres.NewFavoriteRepository(db),
		store:        store,
		gateway:      payment.NewFakeGateway("http://localhost:8080"),
		locker:       redis.NewLocalLocker(),
		publisher:    &recordingPublisher{},
		notifier:     &recordingNotifier{},
		cache:        newMemoryCache(),
	}

	f.customers = NewCustomerService(postgres.NewCustomerRepository(db))
	f.carts = NewCartService(f.uow, f.orderRepo, f.productRepo, f.customers, f.locker, f.gateway, 8)
	f.checkout = NewCheckoutService(f.uow, f.orderRepo, f.shippingRepo, f.regionRepo, f.carts, f.cache)
	f.payments = f.paymentService(f.gateway)
	f.favorites = NewFavoriteService(f.favoriteRepo, f.productRepo)
	f.catalog = NewCatalogService(f.categoryRepo, f.productRepo, f.modelRepo, store, 2)

	return f
}

func (f *fixture) paymentService(gateway ports.PaymentGatewayPort) services.PaymentService {
	return NewPaymentService(PaymentDeps{
		UnitOfWork:   f.uow,
		OrderRepo:    f.orderRepo,
		PaymentRepo:  f.paymentRepo,
		ShippingRepo: f.shippingRepo,
		UserRepo:     f.users,
		Carts:        f.carts,
		Customers:    f.customers,
		Gateway:      gateway,
		Locker:       f.locker,
		Publisher:    f.publisher,
		Notifier:     f.notifier,
	}, PaymentConfig{
		Currency:   "rub",
		SuccessURL: "http://localhost:5173/payment/success?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:  "http://localhost:5173/checkout",
	})
}

func (f *fixture) user(t *testing.T, username string) services.Identity {
	t.Helper()
	u := &models.User{
		Email:     username + "@loft.test",
		Username:  username,
		Password:  "x",
		FirstName: "Ivan",
		LastName:  "Petrov",
		IsActive:  true,
	}
	require.NoError(t, f.users.Create(context.Background(), u))
	return services.Identity{UserID: u.ID}
}

func (f *fixture) category(t *testing.T, title string, parent *models.Category) *models.Category {
	t.Helper()
	c := &models.Category{Title: title, Slug: strings.ToLower(strings.ReplaceAll(title, " ", "-"))}
	if parent != nil {
		c.ParentID = &parent.ID
	}
	require.NoError(t, f.categoryRepo.Create(context.Background(), c))
	return c
}

func (f *fixture) product(t *testing.T, cat *models.Category, slug, price string, discount *int) *models.Product {
	t.Helper()
	p := &models.Product{
		Title:      slug,
		Slug:       slug,
		Price:      decimal.RequireFromString(price),
		Quantity:   10,
		Discount:   discount,
		CategoryID: cat.ID,
	}
	require.NoError(t, f.productRepo.Create(context.Background(), p))
	return p
}

func (f *fixture) region(t *testing.T, title string, cities ...string) (*models.Region, []*models.City) {
	t.Helper()
	ctx := context.Background()
	r := &models.Region{Title: title}
	require.NoError(t, f.regionRepo.CreateRegion(ctx, r))
	out := make([]*models.City, 0, len(cities))
	for _, name := range cities {
		c := &models.City{Title: name, RegionID: r.ID}
		require.NoError(t, f.regionRepo.CreateCity(ctx, c))
		out = append(out, c)
	}
	return r, out
}

func (f *fixture) countLines(t *testing.T, orderID uuid.UUID) int64 {
	t.Helper()
	n, err := f.orderRepo.CountLines(context.Background(), orderID)
	require.NoError(t, err)
	return n
}

func intPtr(v int) *int { return &v }
