package di

import (
	"fmt"

	"gorm.io/gorm"

	"loft-shop/application/serviceimpl"
	"loft-shop/domain/ports"
	"loft-shop/domain/repositories"
	"loft-shop/domain/services"
	natspkg "loft-shop/infrastructure/nats"
	"loft-shop/infrastructure/payment"
	"loft-shop/infrastructure/postgres"
	redispkg "loft-shop/infrastructure/redis"
	"loft-shop/infrastructure/storage"
	"loft-shop/infrastructure/telegram"
	"loft-shop/interfaces/api/handlers"
	"loft-shop/interfaces/api/middleware"
	"loft-shop/pkg/config"
	"loft-shop/pkg/logger"
	"loft-shop/pkg/scheduler"
)

type Container struct {
	// Configuration
	Config *config.Config

	// Infrastructure
	DB             *gorm.DB
	RedisClient    *redispkg.Client      // cache + distributed lock (optional)
	NATSClient     *natspkg.Client       // orders.paid event bus (optional)
	Storage        ports.StoragePort     // local หรือ S3 (MinIO / R2)
	LocalStorage   *storage.LocalStorage // ไม่ nil เมื่อใช้ local storage (เสิร์ฟ /files)
	Gateway        ports.PaymentGatewayPort
	Locker         ports.LockPort
	Cache          ports.CachePort
	Publisher      ports.EventPublisherPort
	Notifier       ports.NotifierPort
	EventScheduler scheduler.EventScheduler

	// Repositories
	UnitOfWork         repositories.UnitOfWork
	UserRepository     repositories.UserRepository
	CustomerRepository repositories.CustomerRepository
	CategoryRepository repositories.CategoryRepository
	ProductRepository  repositories.ProductRepository
	ModelRepository    repositories.ProductModelRepository
	OrderRepository    repositories.OrderRepository
	PaymentRepository  repositories.PaymentSessionRepository
	ShippingRepository repositories.ShippingRepository
	RegionRepository   repositories.RegionRepository
	FavoriteRepository repositories.FavoriteRepository

	// Services
	UserService     services.UserService
	CustomerService services.CustomerService
	CatalogService  services.CatalogService
	CartService     services.CartService
	CheckoutService services.CheckoutService
	PaymentService  services.PaymentService
	FavoriteService services.FavoriteService
	CartSweeper     *serviceimpl.CartSweeperService
}

func NewContainer() *Container {
	return &Container{}
}

func (c *Container) Initialize() error {
	if err := c.initConfig(); err != nil {
		return err
	}

	if err := c.initLogger(); err != nil {
		return err
	}

	if err := c.initInfrastructure(); err != nil {
		return err
	}

	if err := c.initRepositories(); err != nil {
		return err
	}

	if err := c.initServices(); err != nil {
		return err
	}

	if err := c.initScheduler(); err != nil {
		return err
	}

	return nil
}

func (c *Container) initConfig() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	c.Config = cfg
	return nil
}

func (c *Container) initLogger() error {
	logConfig := logger.Config{
		Level:      c.Config.Log.Level,
		Format:     c.Config.Log.Format,
		Output:     c.Config.Log.Output,
		FilePath:   c.Config.Log.FilePath,
		MaxSize:    c.Config.Log.MaxSize,
		MaxBackups: c.Config.Log.MaxBackups,
		MaxAge:     c.Config.Log.MaxAge,
		Compress:   c.Config.Log.Compress,
	}

	if err := logger.Init(logConfig); err != nil {
		return err
	}

	logger.Info("Logger initialized",
		"level", c.Config.Log.Level,
		"format", c.Config.Log.Format,
		"output", c.Config.Log.Output,
	)
	return nil
}

func (c *Container) initInfrastructure() error {
	dbConfig := postgres.DatabaseConfig{
		Driver:   c.Config.Database.Driver,
		DSN:      c.Config.Database.DSN,
		Host:     c.Config.Database.Host,
		Port:     c.Config.Database.Port,
		User:     c.Config.Database.User,
		Password: c.Config.Database.Password,
		DBName:   c.Config.Database.DBName,
		SSLMode:  c.Config.Database.SSLMode,
		LogLevel: c.Config.Database.LogLevel,
	}

	db, err := postgres.NewDatabase(dbConfig)
	if err != nil {
		return err
	}
	c.DB = db
	logger.Info("Database connected", "driver", c.Config.Database.Driver, "db", c.Config.Database.DBName)

	if err := postgres.Migrate(db); err != nil {
		return err
	}
	logger.Info("Database migrated")

	c.initRedis()
	c.initEvents()

	if err := c.initStorage(); err != nil {
		return err
	}

	if err := c.initPayment(); err != nil {
		return err
	}

	c.initNotifications()
	return nil
}

// initRedis ไม่มี Redis ก็ทำงานได้ ใช้ lock ใน process และไม่ cache
func (c *Container) initRedis() {
	if c.Config.Redis.URL != "" {
		redisClient, err := redispkg.NewClient(&c.Config.Redis)
		if err != nil {
			logger.Warn("Redis client initialization failed (cache disabled)", "error", err)
		} else {
			c.RedisClient = redisClient
			c.Locker = redispkg.NewLocker(redisClient)
			c.Cache = redisClient
			logger.Info("Redis client initialized", "url", c.Config.Redis.URL)
			return
		}
	}

	c.Locker = redispkg.NewLocalLocker()
	logger.Info("Using in-process locker (Redis not configured)")
}

func (c *Container) initEvents() {
	if c.Config.NATS.URL != "" {
		natsClient, err := natspkg.NewClient(natspkg.ClientConfig{URL: c.Config.NATS.URL})
		if err != nil {
			logger.Warn("NATS client initialization failed (events disabled)", "error", err)
		} else {
			c.NATSClient = natsClient
			c.Publisher = natspkg.NewPublisher(natsClient)
			logger.Info("NATS client initialized", "url", c.Config.NATS.URL)
			return
		}
	}

	c.Publisher = natspkg.NewNoopPublisher()
}

// initStorage สร้าง storage adapter ตาม config
func (c *Container) initStorage() error {
	switch c.Config.Storage.Type {
	case "s3":
		s3Config := storage.S3StorageConfig{
			Endpoint:  c.Config.Storage.S3.Endpoint,
			AccessKey: c.Config.Storage.S3.AccessKey,
			SecretKey: c.Config.Storage.S3.SecretKey,
			Bucket:    c.Config.Storage.S3.Bucket,
			UseSSL:    c.Config.Storage.S3.UseSSL,
			Region:    c.Config.Storage.S3.Region,
			PublicURL: c.Config.Storage.S3.PublicURL,
		}
		s3Storage, err := storage.NewS3Storage(s3Config)
		if err != nil {
			return fmt.Errorf("failed to initialize S3 storage: %w", err)
		}
		c.Storage = s3Storage
		logger.Info("S3 Storage initialized",
			"endpoint", c.Config.Storage.S3.Endpoint,
			"bucket", c.Config.Storage.S3.Bucket,
		)

	default:
		localConfig := storage.LocalStorageConfig{
			BasePath: c.Config.Storage.BasePath,
			BaseURL:  c.Config.Storage.BaseURL,
		}
		localStorage, err := storage.NewLocalStorage(localConfig)
		if err != nil {
			return fmt.Errorf("failed to initialize local storage: %w", err)
		}
		c.Storage = localStorage
		c.LocalStorage = localStorage
		logger.Info("Local Storage initialized", "path", c.Config.Storage.BasePath)
	}

	return nil
}

func (c *Container) initPayment() error {
	switch c.Config.Payment.Provider {
	case "fake":
		c.Gateway = payment.NewFakeGateway(fmt.Sprintf("http://localhost:%s", c.Config.App.Port))
		logger.Warn("Using fake payment gateway", "env", c.Config.App.Env)

	default:
		gateway, err := payment.NewStripeGateway(payment.StripeConfig{
			SecretKey: c.Config.Payment.SecretKey,
			Timeout:   c.Config.Payment.Timeout,
		})
		if err != nil {
			return fmt.Errorf("failed to initialize payment gateway: %w", err)
		}
		c.Gateway = gateway
		logger.Info("Stripe gateway initialized", "currency", c.Config.Payment.Currency)
	}
	return nil
}

func (c *Container) initNotifications() {
	notifier := telegram.NewTelegramNotifier(telegram.Config{
		BotToken: c.Config.Notify.TelegramBotToken,
		ChatID:   c.Config.Notify.TelegramChatID,
	})
	c.Notifier = notifier

	if notifier.IsEnabled() {
		logger.Info("Telegram notifier enabled")
	} else {
		logger.Info("Telegram notifier disabled (TELEGRAM_BOT_TOKEN / TELEGRAM_CHAT_ID not set)")
	}
}

func (c *Container) initRepositories() error {
	c.UnitOfWork = postgres.NewUnitOfWork(c.DB)
	c.UserRepository = postgres.NewUserRepository(c.DB)
	c.CustomerRepository = postgres.NewCustomerRepository(c.DB)
	c.CategoryRepository = postgres.NewCategoryRepository(c.DB)
	c.ProductRepository = postgres.NewProductRepository(c.DB)
	c.ModelRepository = postgres.NewProductModelRepository(c.DB)
	c.OrderRepository = postgres.NewOrderRepository(c.DB)
	c.PaymentRepository = postgres.NewPaymentSessionRepository(c.DB)
	c.ShippingRepository = postgres.NewShippingRepository(c.DB)
	c.RegionRepository = postgres.NewRegionRepository(c.DB)
	c.FavoriteRepository = postgres.NewFavoriteRepository(c.DB)
	logger.Info("Repositories initialized")
	return nil
}

func (c *Container) initServices() error {
	c.UserService = serviceimpl.NewUserService(c.UserRepository, c.Config.JWT.Secret, c.Config.JWT.TTL)
	c.CustomerService = serviceimpl.NewCustomerService(c.CustomerRepository)

	c.CatalogService = serviceimpl.NewCatalogService(
		c.CategoryRepository,
		c.ProductRepository,
		c.ModelRepository,
		c.Storage,
		c.Config.Cart.PageSize,
	)

	c.CartService = serviceimpl.NewCartService(
		c.UnitOfWork,
		c.OrderRepository,
		c.ProductRepository,
		c.CustomerService,
		c.Locker,
		c.Gateway,
		c.Config.Cart.RecentLimit,
	)

	c.CheckoutService = serviceimpl.NewCheckoutService(
		c.UnitOfWork,
		c.OrderRepository,
		c.ShippingRepository,
		c.RegionRepository,
		c.CartService,
		c.Cache, // nil = ไม่ cache region tree
	)

	c.PaymentService = serviceimpl.NewPaymentService(serviceimpl.PaymentDeps{
		UnitOfWork:   c.UnitOfWork,
		OrderRepo:    c.OrderRepository,
		PaymentRepo:  c.PaymentRepository,
		ShippingRepo: c.ShippingRepository,
		UserRepo:     c.UserRepository,
		Carts:        c.CartService,
		Customers:    c.CustomerService,
		Gateway:      c.Gateway,
		Locker:       c.Locker,
		Publisher:    c.Publisher,
		Notifier:     c.Notifier,
	}, serviceimpl.PaymentConfig{
		Currency:   c.Config.Payment.Currency,
		SuccessURL: c.Config.Payment.SuccessURL,
		CancelURL:  c.Config.Payment.CancelURL,
	})

	c.FavoriteService = serviceimpl.NewFavoriteService(c.FavoriteRepository, c.ProductRepository)

	logger.Info("Services initialized")
	return nil
}

func (c *Container) initScheduler() error {
	c.EventScheduler = scheduler.NewEventScheduler()

	c.CartSweeper = serviceimpl.NewCartSweeperService(
		serviceimpl.CartSweeperConfig{
			SessionTTL:   c.Config.Cart.PaymentSessionTTL,
			AbandonAfter: c.Config.Cart.AbandonAfter,
		},
		c.OrderRepository,
		c.PaymentRepository,
		c.EventScheduler,
	)
	if err := c.CartSweeper.RegisterJobs(); err != nil {
		logger.Warn("Failed to register cart sweeper jobs", "error", err)
	}

	c.EventScheduler.Start()
	return nil
}

func (c *Container) Cleanup() error {
	logger.Info("Starting cleanup...")

	if c.EventScheduler != nil && c.EventScheduler.IsRunning() {
		c.EventScheduler.Stop()
	}

	if c.NATSClient != nil {
		if err := c.NATSClient.Close(); err != nil {
			logger.Warn("Failed to close NATS connection", "error", err)
		} else {
			logger.Info("NATS connection closed")
		}
	}

	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			logger.Warn("Failed to close Redis connection", "error", err)
		} else {
			logger.Info("Redis connection closed")
		}
	}

	if c.DB != nil {
		sqlDB, err := c.DB.DB()
		if err == nil {
			if err := sqlDB.Close(); err != nil {
				logger.Warn("Failed to close database connection", "error", err)
			} else {
				logger.Info("Database connection closed")
			}
		}
	}

	logger.Info("Cleanup completed")
	return nil
}

func (c *Container) GetConfig() *config.Config {
	return c.Config
}

func (c *Container) GetAuthConfig() middleware.AuthConfig {
	return middleware.AuthConfig{
		Secret:     c.Config.JWT.Secret,
		CookieName: c.Config.JWT.CookieName,
	}
}

func (c *Container) GetHandlerServices() *handlers.Services {
	return &handlers.Services{
		UserService:     c.UserService,
		CatalogService:  c.CatalogService,
		CartService:     c.CartService,
		CheckoutService: c.CheckoutService,
		PaymentService:  c.PaymentService,
		FavoriteService: c.FavoriteService,
		CookieName:      c.Config.JWT.CookieName,
		CookieTTL:       c.Config.JWT.TTL,
		SecureCookie:    c.Config.IsProduction(),
		MaxUploadSize:   c.Config.Storage.MaxUploadSize,
	}
}
