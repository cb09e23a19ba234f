package telegram

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loft-shop/domain/ports"
)

func TestDisabledNotifierSkipsRequest(t *testing.T) {
	n := NewTelegramNotifier(Config{})
	assert.False(t, n.IsEnabled())
	assert.NoError(t, n.SendOrderPaidAlert(context.Background(), &ports.OrderNotification{OrderID: "x"}))
}

func TestSendOrderPaidAlert(t *testing.T) {
	var got map[string]interface{}
	var path string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	n := NewTelegramNotifier(Config{BotToken: "TOKEN", ChatID: "42", APIBase: srv.URL})
	err := n.SendOrderPaidAlert(context.Background(), &ports.OrderNotification{
		OrderID:  "o-1",
		Customer: "Anna <anna@example.com>",
		Total:    "2 300",
		Items:    3,
		Address:  "Tverskaya 1",
		Phone:    "+7 900 000 00 00",
	})
	require.NoError(t, err)

	assert.Equal(t, "/botTOKEN/sendMessage", path)
	assert.Equal(t, "42", got["chat_id"])
	assert.Contains(t, got["text"], "2 300")
	assert.Contains(t, got["text"], "Anna &lt;anna@example.com&gt;")
}

func TestSendOrderPaidAlertAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	n := NewTelegramNotifier(Config{BotToken: "T", ChatID: "1", APIBase: srv.URL})
	assert.Error(t, n.SendOrderPaidAlert(context.Background(), &ports.OrderNotification{}))
}
