package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loft-shop/domain/services"
	"loft-shop/pkg/utils"
)

func TestHandleServiceErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"validation with fields", services.NewValidationError("invalid shipping data", map[string]string{"address": "required"}), fiber.StatusBadRequest, utils.ErrCodeValidation},
		{"bare validation", fmt.Errorf("bad action: %w", services.ErrValidation), fiber.StatusBadRequest, utils.ErrCodeValidation},
		{"not found", services.NotFound("product"), fiber.StatusNotFound, utils.ErrCodeNotFound},
		{"unauthenticated", services.ErrUnauthenticated, fiber.StatusUnauthorized, utils.ErrCodeUnauthorized},
		{"conflict", services.Conflict("payment already in progress"), fiber.StatusConflict, utils.ErrCodeConflict},
		{"gateway", fmt.Errorf("create session: %w", services.ErrGateway), fiber.StatusBadGateway, utils.ErrCodeGateway},
		{"unknown", errors.New("disk on fire"), fiber.StatusInternalServerError, utils.ErrCodeInternalError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			app.Get("/", func(c *fiber.Ctx) error {
				return HandleServiceError(c, tt.err)
			})

			resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tt.status, resp.StatusCode)

			var body utils.Response
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.False(t, body.Success)
			require.NotNil(t, body.Error)
			assert.Equal(t, tt.code, body.Error.Code)
		})
	}
}

func TestHandleServiceErrorValidationDetails(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		return HandleServiceError(c, services.NewValidationError("invalid shipping data", map[string]string{"cityId": "City does not exist"}))
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	var body struct {
		Error struct {
			Message string            `json:"message"`
			Details map[string]string `json:"details"`
		} `json:"error"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "invalid shipping data", body.Error.Message)
	assert.Equal(t, "City does not exist", body.Error.Details["cityId"])
}

func TestUnauthenticatedCarriesLoginURL(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		return HandleServiceError(c, services.ErrUnauthenticated)
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	var body struct {
		Error struct {
			Details map[string]string `json:"details"`
		} `json:"error"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, utils.LoginPath, body.Error.Details["login_url"])
}

func TestIdentityFromAnonymous(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"anonymous": identityFrom(c).IsAnonymous()})
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	var body map[string]bool
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.True(t, body["anonymous"])
}
