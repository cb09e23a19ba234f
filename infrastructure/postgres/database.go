package postgres

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"loft-shop/domain/models"
)

type DatabaseConfig struct {
	Driver   string // postgres, sqlite
	DSN      string // ใช้กับ sqlite
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
	LogLevel string // silent, error, warn, info
}

func NewDatabase(config DatabaseConfig) (*gorm.DB, error) {
	if config.Driver == "sqlite" {
		return NewSQLiteDatabase(config.DSN, config.LogLevel)
	}

	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
		config.Host, config.User, config.Password, config.DBName, config.Port, config.SSLMode)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(gormLogLevel(config.LogLevel)),
		TranslateError: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	return db, nil
}

func gormLogLevel(level string) logger.LogLevel {
	switch level {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "info", "debug":
		return logger.Info
	default:
		return logger.Warn
	}
}

// Models ทุก table ที่ต้อง migrate (เรียงตาม dependency)
func Models() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Customer{},
		&models.Category{},
		&models.ProductModel{},
		&models.Product{},
		&models.ProductImage{},
		&models.FavoriteProduct{},
		&models.Region{},
		&models.City{},
		&models.Order{},
		&models.OrderLine{},
		&models.ShippingAddress{},
		&models.PaymentSession{},
	}
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}

// isUniqueViolation ตรวจ duplicate key ทั้ง postgres และ sqlite
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "SQLSTATE 23505")
}
