package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("PAYMENT_TIMEOUT", "")
	t.Setenv("DB_DRIVER", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "rub", cfg.Payment.Currency)
	assert.Equal(t, 15*time.Second, cfg.Payment.Timeout)
	assert.Equal(t, 24*time.Hour, cfg.Cart.PaymentSessionTTL)
	assert.Equal(t, 2, cfg.Cart.PageSize)
	assert.Equal(t, 8, cfg.Cart.RecentLimit)
	assert.Equal(t, "loft_token", cfg.JWT.CookieName)
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("PAYMENT_TIMEOUT", "3s")
	t.Setenv("CART_ABANDON_AFTER", "48h")
	t.Setenv("CORS_ORIGINS", "https://loft.example, https://admin.loft.example ,")
	t.Setenv("APP_ENV", "production")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 3*time.Second, cfg.Payment.Timeout)
	assert.Equal(t, 48*time.Hour, cfg.Cart.AbandonAfter)
	assert.Equal(t, []string{"https://loft.example", "https://admin.loft.example"}, cfg.App.CORSOrigins)
	assert.True(t, cfg.IsProduction())
	assert.False(t, cfg.IsDevelopment())
}

func TestGetDurationFallsBackOnGarbage(t *testing.T) {
	t.Setenv("SOME_DURATION", "soon")
	assert.Equal(t, time.Minute, getDuration("SOME_DURATION", time.Minute))
}
