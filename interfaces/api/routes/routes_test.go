package routes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loft-shop/application/serviceimpl"
	"loft-shop/domain/dto"
	"loft-shop/domain/models"
	"loft-shop/infrastructure/nats"
	"loft-shop/infrastructure/payment"
	"loft-shop/infrastructure/postgres"
	"loft-shop/infrastructure/redis"
	"loft-shop/infrastructure/storage"
	"loft-shop/interfaces/api/handlers"
	"loft-shop/interfaces/api/middleware"
	"loft-shop/pkg/utils"
)

const testSecret = "routes-test-secret"

type envelope struct {
	Success bool             `json:"success"`
	Data    json.RawMessage  `json:"data"`
	Error   *utils.ErrorInfo `json:"error"`
}

type testServer struct {
	app     *fiber.App
	gateway *payment.FakeGateway
}

func newTestServer(t *testing.T) *testServer {
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

	uow := postgres.NewUnitOfWork(db)
	userRepo := postgres.NewUserRepository(db)
	orderRepo := postgres.NewOrderRepository(db)
	productRepo := postgres.NewProductRepository(db)
	paymentRepo := postgres.NewPaymentSessionRepository(db)
	shippingRepo := postgres.NewShippingRepository(db)
	locker := redis.NewLocalLocker()
	gateway := payment.NewFakeGateway("http://localhost:8080")

	customers := serviceimpl.NewCustomerService(postgres.NewCustomerRepository(db))
	carts := serviceimpl.NewCartService(uow, orderRepo, productRepo, customers, locker, gateway, 8)
	checkout := serviceimpl.NewCheckoutService(uow, orderRepo, shippingRepo, postgres.NewRegionRepository(db), carts, nil)
	favorites := serviceimpl.NewFavoriteService(postgres.NewFavoriteRepository(db), productRepo)

	h := handlers.NewHandlers(&handlers.Services{
		UserService: serviceimpl.NewUserService(userRepo, testSecret, time.Hour),
		CatalogService: serviceimpl.NewCatalogService(
			postgres.NewCategoryRepository(db), productRepo, postgres.NewProductModelRepository(db), store, 12,
		),
		CartService:     carts,
		CheckoutService: checkout,
		PaymentService: serviceimpl.NewPaymentService(serviceimpl.PaymentDeps{
			UnitOfWork:   uow,
			OrderRepo:    orderRepo,
			PaymentRepo:  paymentRepo,
			ShippingRepo: shippingRepo,
			UserRepo:     userRepo,
			Carts:        carts,
			Customers:    customers,
			Gateway:      gateway,
			Locker:       locker,
			Publisher:    nats.NewNoopPublisher(),
		}, serviceimpl.PaymentConfig{
			Currency:   "rub",
			SuccessURL: "http://localhost:5173/payment/success?session_id={CHECKOUT_SESSION_ID}",
			CancelURL:  "http://localhost:5173/checkout",
		}),
		FavoriteService: favorites,
		CookieName:      "loft_token",
		CookieTTL:       time.Hour,
	})

	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler()})
	SetupRoutes(app, h, middleware.AuthConfig{Secret: testSecret, CookieName: "loft_token"})

	return &testServer{app: app, gateway: gateway}
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) (int, *envelope) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent {
		return resp.StatusCode, nil
	}
	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp.StatusCode, &env
}

func decode[T any](t *testing.T, env *envelope) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(env.Data, &out))
	return out
}

func adminToken(t *testing.T) string {
	t.Helper()
	tok, err := utils.GenerateToken(utils.UserContext{ID: uuid.New(), Username: "admin", Role: models.RoleAdmin}, testSecret, time.Hour)
	require.NoError(t, err)
	return tok
}

func register(t *testing.T, s *testServer, username string) string {
	t.Helper()
	status, env := s.do(t, "POST", "/api/v1/auth/register", "", fiber.Map{
		"email":     username + "@loft.test",
		"username":  username,
		"password":  "secret-pass",
		"firstName": "Anna",
		"lastName":  "Ivanova",
	})
	require.Equal(t, fiber.StatusCreated, status)
	return decode[dto.RegisterResponse](t, env).Token
}

// seedSofa สร้างหมวดและสินค้าผ่าน admin API
func seedSofa(t *testing.T, s *testServer) {
	t.Helper()
	admin := adminToken(t)

	status, env := s.do(t, "POST", "/api/v1/admin/categories", admin, fiber.Map{"title": "Sofas"})
	require.Equal(t, fiber.StatusCreated, status)
	category := decode[dto.CategoryResponse](t, env)

	status, env = s.do(t, "POST", "/api/v1/admin/products", admin, fiber.Map{
		"title":      "Oslo Sofa",
		"price":      "1500",
		"quantity":   5,
		"colorName":  "Grey",
		"categoryId": category.ID,
	})
	require.Equal(t, fiber.StatusCreated, status)
	assert.Equal(t, "oslo-sofa", decode[dto.ProductResponse](t, env).Slug)
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)

	resp, err := s.app.Test(httptest.NewRequest("GET", "/health", nil))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestCartRequiresLogin(t *testing.T) {
	s := newTestServer(t)

	status, env := s.do(t, "GET", "/api/v1/cart", "", nil)
	assert.Equal(t, fiber.StatusUnauthorized, status)
	require.NotNil(t, env.Error)
	assert.Equal(t, utils.ErrCodeUnauthorized, env.Error.Code)
}

func TestAdminRoutesRejectCustomers(t *testing.T) {
	s := newTestServer(t)
	tok := register(t, s, "anna")

	status, _ := s.do(t, "POST", "/api/v1/admin/categories", tok, fiber.Map{"title": "Sofas"})
	assert.Equal(t, fiber.StatusForbidden, status)
}

func TestLoginAndProfile(t *testing.T) {
	s := newTestServer(t)
	register(t, s, "boris")

	status, _ := s.do(t, "POST", "/api/v1/auth/login", "", fiber.Map{"email": "boris@loft.test", "password": "wrong-pass"})
	assert.Equal(t, fiber.StatusUnauthorized, status)

	status, env := s.do(t, "POST", "/api/v1/auth/login", "", fiber.Map{"email": "BORIS@loft.test", "password": "secret-pass"})
	require.Equal(t, fiber.StatusOK, status)
	tok := decode[dto.LoginResponse](t, env).Token

	status, env = s.do(t, "GET", "/api/v1/auth/me", tok, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "boris", decode[dto.UserResponse](t, env).Username)
}

func TestCatalogAndFavorites(t *testing.T) {
	s := newTestServer(t)
	seedSofa(t, s)
	tok := register(t, s, "vera")

	status, env := s.do(t, "GET", "/api/v1/catalog/categories/sofas/products?from=1000&till=2000", "", nil)
	require.Equal(t, fiber.StatusOK, status)
	page := decode[dto.CategoryPageResponse](t, env)
	require.Len(t, page.Products, 1)
	assert.Equal(t, []string{"Grey"}, page.ColorNames)

	status, _ = s.do(t, "GET", "/api/v1/catalog/categories/sofas/products?from=abc", "", nil)
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, _ = s.do(t, "GET", "/api/v1/catalog/products/missing", "", nil)
	assert.Equal(t, fiber.StatusNotFound, status)

	status, env = s.do(t, "POST", "/api/v1/favorites/oslo-sofa/toggle", tok, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.True(t, decode[dto.ToggleFavoriteResponse](t, env).Added)

	status, env = s.do(t, "GET", "/api/v1/catalog/products/oslo-sofa", tok, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.True(t, decode[dto.ProductDetailResponse](t, env).Product.IsFavorite)

	status, env = s.do(t, "GET", "/api/v1/catalog/products/oslo-sofa", "", nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.False(t, decode[dto.ProductDetailResponse](t, env).Product.IsFavorite)
}

func TestSalesIsPaginated(t *testing.T) {
	s := newTestServer(t)
	seedSofa(t, s)

	resp, err := s.app.Test(httptest.NewRequest("GET", "/api/v1/catalog/sales?page=1&limit=5", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body utils.PaginatedResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.True(t, body.Success)
	assert.EqualValues(t, 0, body.Meta.Total)
	assert.Equal(t, 1, body.Meta.Page)
	assert.Equal(t, 5, body.Meta.Limit)
	assert.False(t, body.Meta.HasNext)
}

func TestCartFlow(t *testing.T) {
	s := newTestServer(t)
	seedSofa(t, s)
	tok := register(t, s, "gleb")

	var cart dto.CartResponse
	for i := 0; i < 2; i++ {
		status, env := s.do(t, "POST", "/api/v1/cart/items", tok, fiber.Map{"slug": "oslo-sofa", "action": "add"})
		require.Equal(t, fiber.StatusOK, status)
		cart = decode[dto.CartResponse](t, env)
	}
	require.Len(t, cart.Lines, 1)
	assert.Equal(t, 2, cart.Lines[0].Quantity)
	assert.True(t, decimal.NewFromInt(3000).Equal(cart.TotalPrice), "got %s", cart.TotalPrice)

	status, env := s.do(t, "POST", "/api/v1/cart/items", tok, fiber.Map{"slug": "oslo-sofa", "action": "explode"})
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, utils.ErrCodeValidation, env.Error.Code)

	status, _ = s.do(t, "POST", "/api/v1/cart/items", tok, fiber.Map{"slug": "missing", "action": "add"})
	assert.Equal(t, fiber.StatusNotFound, status)

	path := fmt.Sprintf("/api/v1/cart/items/%s?order=%s", cart.Lines[0].ID, cart.OrderID)
	status, env = s.do(t, "DELETE", path, tok, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Empty(t, decode[dto.CartResponse](t, env).Lines)

	status, env = s.do(t, "GET", "/api/v1/checkout", tok, nil)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, utils.ErrCodeValidation, env.Error.Code)
}

func TestCheckoutAndPayment(t *testing.T) {
	s := newTestServer(t)
	seedSofa(t, s)
	admin := adminToken(t)
	tok := register(t, s, "dina")

	status, env := s.do(t, "POST", "/api/v1/admin/regions", admin, fiber.Map{"title": "Moscow Oblast"})
	require.Equal(t, fiber.StatusCreated, status)
	region := decode[dto.RegionOption](t, env)

	status, env = s.do(t, "POST", "/api/v1/admin/cities", admin, fiber.Map{"title": "Khimki", "regionId": region.ID})
	require.Equal(t, fiber.StatusCreated, status)
	city := decode[dto.CityOption](t, env)

	status, _ = s.do(t, "POST", "/api/v1/cart/items", tok, fiber.Map{"slug": "oslo-sofa", "action": "add"})
	require.Equal(t, fiber.StatusOK, status)

	status, env = s.do(t, "POST", "/api/v1/payment/session", tok, nil)
	assert.Equal(t, fiber.StatusBadRequest, status, "shipping must come first")
	assert.Equal(t, utils.ErrCodeValidation, env.Error.Code)

	status, env = s.do(t, "POST", "/api/v1/checkout/shipping", tok, fiber.Map{
		"address": "Lenina 1", "phone": "+79990000000", "regionId": region.ID, "cityId": city.ID,
	})
	require.Equal(t, fiber.StatusOK, status, "%+v", env.Error)

	status, env = s.do(t, "GET", "/api/v1/checkout", tok, nil)
	require.Equal(t, fiber.StatusOK, status)
	view := decode[dto.CheckoutResponse](t, env)
	require.NotNil(t, view.Shipping)
	require.Len(t, view.Regions, 1)
	assert.Equal(t, "Moscow Oblast", view.Regions[0].Title)

	status, env = s.do(t, "POST", "/api/v1/payment/session", tok, nil)
	require.Equal(t, fiber.StatusOK, status)
	session := decode[dto.PaymentSessionResponse](t, env)
	assert.Equal(t, int64(150000), session.AmountMinor)
	assert.NotEmpty(t, session.RedirectURL)

	status, _ = s.do(t, "GET", "/api/v1/payment/success?session_id="+session.SessionID, tok, nil)
	assert.Equal(t, fiber.StatusConflict, status, "unpaid session")

	require.NoError(t, s.gateway.MarkPaid(session.SessionID))

	status, env = s.do(t, "GET", "/api/v1/payment/success?session_id="+session.SessionID, tok, nil)
	require.Equal(t, fiber.StatusOK, status)
	result := decode[dto.PaymentResultResponse](t, env)
	assert.Equal(t, string(models.OrderStatusPaid), result.Status)
	assert.True(t, decimal.NewFromInt(1500).Equal(result.PaidTotal))

	status, env = s.do(t, "GET", "/api/v1/cart", tok, nil)
	require.Equal(t, fiber.StatusOK, status)
	next := decode[dto.CartViewResponse](t, env)
	assert.NotEqual(t, session.OrderID, next.Cart.OrderID)
	assert.Empty(t, next.Cart.Lines)
}
