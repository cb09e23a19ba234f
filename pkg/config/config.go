package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	NATS     NATSConfig // event bus สำหรับ orders.paid (optional)
	Redis    RedisConfig
	JWT      JWTConfig
	Log      LogConfig
	Storage  StorageConfig
	Payment  PaymentConfig
	Cart     CartConfig
	Notify   NotifyConfig
}

// NotifyConfig แจ้งเตือน order ใหม่ผ่าน Telegram (ว่าง = ปิด)
type NotifyConfig struct {
	TelegramBotToken string
	TelegramChatID   string
}

// RedisConfig สำหรับ cache และ distributed lock (optional)
type RedisConfig struct {
	URL      string // redis://localhost:6379
	Password string
	DB       int
}

type AppConfig struct {
	Name        string
	Port        string
	Env         string
	FrontendURL string
	CORSOrigins []string
}

type DatabaseConfig struct {
	Driver   string // postgres, sqlite
	DSN      string // สำหรับ sqlite เช่น file:loft.db
	LogLevel string
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type NATSConfig struct {
	URL string // nats://localhost:4222, ว่าง = ปิด
}

type JWTConfig struct {
	Secret     string
	TTL        time.Duration
	CookieName string
}

type LogConfig struct {
	Level      string // debug, info, warn, error
	Format     string // json, text
	Output     string // stdout, file, both
	FilePath   string // logs/app.log
	MaxSize    int    // MB
	MaxBackups int
	MaxAge     int // วัน
	Compress   bool
}

type StorageConfig struct {
	Type          string // local, s3
	BasePath      string // สำหรับ local: ./uploads
	BaseURL       string // URL สำหรับเข้าถึงไฟล์ (เช่น http://localhost:8080/files)
	MaxUploadSize int64  // bytes

	// S3-Compatible Storage (MinIO / Cloudflare R2)
	S3 S3Config
}

type S3Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	Region    string
	PublicURL string
}

// PaymentConfig สำหรับ hosted checkout (Stripe)
type PaymentConfig struct {
	Provider   string // stripe, fake
	SecretKey  string
	Currency   string
	SuccessURL string // ควรมี {CHECKOUT_SESSION_ID}
	CancelURL  string
	Timeout    time.Duration
}

// CartConfig กำหนดอายุ session และ cart
type CartConfig struct {
	PaymentSessionTTL time.Duration
	AbandonAfter      time.Duration
	PageSize          int
	RecentLimit       int
}

func LoadConfig() (*Config, error) {
	// ไม่มี .env ก็ได้ ใช้ environment variables แทน
	_ = godotenv.Load()

	logMaxSize, _ := strconv.Atoi(getEnv("LOG_MAX_SIZE", "100"))
	logMaxBackups, _ := strconv.Atoi(getEnv("LOG_MAX_BACKUPS", "5"))
	logMaxAge, _ := strconv.Atoi(getEnv("LOG_MAX_AGE", "30"))
	logCompress := getEnv("LOG_COMPRESS", "true") == "true"

	maxUploadSize, _ := strconv.ParseInt(getEnv("STORAGE_MAX_UPLOAD_SIZE", "10485760"), 10, 64) // 10MB
	s3UseSSL := getEnv("S3_USE_SSL", "false") == "true"

	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	pageSize, _ := strconv.Atoi(getEnv("CATALOG_PAGE_SIZE", "2"))
	recentLimit, _ := strconv.Atoi(getEnv("CART_RECENT_LIMIT", "8"))

	config := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "Loft"),
			Port:        getEnv("APP_PORT", "8080"),
			Env:         getEnv("APP_ENV", "development"),
			FrontendURL: getEnv("FRONTEND_URL", "http://localhost:5173"),
			CORSOrigins: parseList(getEnv("CORS_ORIGINS", "http://localhost:5173")),
		},
		Database: DatabaseConfig{
			Driver:   getEnv("DB_DRIVER", "postgres"),
			DSN:      getEnv("DB_DSN", "file:loft.db"),
			LogLevel: getEnv("DB_LOG_LEVEL", "warn"),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			DBName:   getEnv("DB_NAME", "loft"),
			SSLMode:  getEnv("DB_SSL_MODE", "disable"),
		},
		NATS: NATSConfig{
			URL: getEnv("NATS_URL", ""),
		},
		Redis: RedisConfig{
			URL:      getEnv("REDIS_URL", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		JWT: JWTConfig{
			Secret:     getEnv("JWT_SECRET", "your-secret-key"),
			TTL:        getDuration("JWT_TTL", 7*24*time.Hour),
			CookieName: getEnv("JWT_COOKIE_NAME", "loft_token"),
		},
		Log: LogConfig{
			Level:      getEnv("LOG_LEVEL", "info"),
			Format:     getEnv("LOG_FORMAT", "json"),
			Output:     getEnv("LOG_OUTPUT", "stdout"),
			FilePath:   getEnv("LOG_FILE", "logs/app.log"),
			MaxSize:    logMaxSize,
			MaxBackups: logMaxBackups,
			MaxAge:     logMaxAge,
			Compress:   logCompress,
		},
		Storage: StorageConfig{
			Type:          getEnv("STORAGE_TYPE", "local"),
			BasePath:      getEnv("STORAGE_BASE_PATH", "./uploads"),
			BaseURL:       getEnv("STORAGE_BASE_URL", "http://localhost:8080/files"),
			MaxUploadSize: maxUploadSize,
			S3: S3Config{
				Endpoint:  getEnv("S3_ENDPOINT", "localhost:9000"),
				AccessKey: getEnv("S3_ACCESS_KEY", "minioadmin"),
				SecretKey: getEnv("S3_SECRET_KEY", "minioadmin"),
				Bucket:    getEnv("S3_BUCKET", "loft-media"),
				UseSSL:    s3UseSSL,
				Region:    getEnv("S3_REGION", "auto"),
				PublicURL: getEnv("S3_PUBLIC_URL", ""),
			},
		},
		Payment: PaymentConfig{
			Provider:   getEnv("PAYMENT_PROVIDER", "stripe"),
			SecretKey:  getEnv("STRIPE_SECRET_KEY", ""),
			Currency:   getEnv("PAYMENT_CURRENCY", "rub"),
			SuccessURL: getEnv("PAYMENT_SUCCESS_URL", "http://localhost:5173/payment/success?session_id={CHECKOUT_SESSION_ID}"),
			CancelURL:  getEnv("PAYMENT_CANCEL_URL", "http://localhost:5173/checkout"),
			Timeout:    getDuration("PAYMENT_TIMEOUT", 15*time.Second),
		},
		Cart: CartConfig{
			PaymentSessionTTL: getDuration("PAYMENT_SESSION_TTL", 24*time.Hour),
			AbandonAfter:      getDuration("CART_ABANDON_AFTER", 720*time.Hour),
			PageSize:          pageSize,
			RecentLimit:       recentLimit,
		},
		Notify: NotifyConfig{
			TelegramBotToken: getEnv("TELEGRAM_BOT_TOKEN", ""),
			TelegramChatID:   getEnv("TELEGRAM_CHAT_ID", ""),
		},
	}

	return config, nil
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getDuration อ่านค่าแบบ time.ParseDuration (เช่น 15s, 24h)
func getDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return d
}

// parseList แปลง comma-separated string เป็น slice
func parseList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if v := strings.TrimSpace(p); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// IsDevelopment ตรวจสอบว่าเป็น development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Env == "development"
}

// IsProduction ตรวจสอบว่าเป็น production mode
func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}
