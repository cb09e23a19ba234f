package middleware

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loft-shop/domain/models"
	"loft-shop/pkg/utils"
)

const testSecret = "middleware-test-secret"

func newAuthApp() *fiber.App {
	cfg := AuthConfig{Secret: testSecret, CookieName: "loft_token"}

	app := fiber.New()
	whoami := func(c *fiber.Ctx) error {
		user, err := utils.GetUserFromContext(c)
		if err != nil {
			return c.SendString("anonymous")
		}
		return c.SendString(user.ID.String())
	}
	app.Get("/protected", Protected(cfg), whoami)
	app.Get("/optional", Optional(cfg), whoami)
	app.Get("/admin", Protected(cfg), AdminOnly(), whoami)
	return app
}

func token(t *testing.T, role string, ttl time.Duration) (string, uuid.UUID) {
	t.Helper()
	id := uuid.New()
	tok, err := utils.GenerateToken(utils.UserContext{ID: id, Username: "anna", Email: "anna@loft.test", Role: role}, testSecret, ttl)
	require.NoError(t, err)
	return tok, id
}

func TestProtectedAcceptsBearerToken(t *testing.T) {
	app := newAuthApp()
	tok, id := token(t, models.RoleUser, time.Hour)

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, id.String(), readBody(t, resp.Body))
}

func TestProtectedAcceptsCookie(t *testing.T) {
	app := newAuthApp()
	tok, id := token(t, models.RoleUser, time.Hour)

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Cookie", "loft_token="+tok)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, id.String(), readBody(t, resp.Body))
}

func TestProtectedRejects(t *testing.T) {
	app := newAuthApp()
	expired, _ := token(t, models.RoleUser, -time.Minute)

	tests := []struct {
		name   string
		header string
	}{
		{"missing", ""},
		{"garbage", "Bearer not-a-jwt"},
		{"expired", "Bearer " + expired},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/protected", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			defer resp.Body.Close()
			assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
		})
	}
}

func TestOptionalIgnoresBadToken(t *testing.T) {
	app := newAuthApp()

	req := httptest.NewRequest("GET", "/optional", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "anonymous", readBody(t, resp.Body))
}

func TestAdminOnly(t *testing.T) {
	app := newAuthApp()
	userTok, _ := token(t, models.RoleUser, time.Hour)
	adminTok, _ := token(t, models.RoleAdmin, time.Hour)

	req := httptest.NewRequest("GET", "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+userTok)
	resp, err := app.Test(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	req = httptest.NewRequest("GET", "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+adminTok)
	resp, err = app.Test(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestRequestIDPropagates(t *testing.T) {
	app := fiber.New()
	app.Use(RequestIDMiddleware())
	app.Get("/", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusNoContent) })

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set(RequestIDHeader, "req-123")
	resp, err := app.Test(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, "req-123", resp.Header.Get(RequestIDHeader))

	resp, err = app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	resp.Body.Close()
	_, err = uuid.Parse(resp.Header.Get(RequestIDHeader))
	assert.NoError(t, err)
}
