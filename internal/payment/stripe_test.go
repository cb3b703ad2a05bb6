package payment

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCreateIntent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/v1/payment_intents", r.URL.Path)
		require.Equal(t, "Bearer sk_test_key", r.Header.Get("Authorization"))

		require.NoError(t, r.ParseForm())
		require.Equal(t, "12000", r.PostForm.Get("amount"))
		require.Equal(t, "usd", r.PostForm.Get("currency"))
		require.Equal(t, "card", r.PostForm.Get("payment_method_types[]"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"pi_123","client_secret":"pi_123_secret_456"}`))
	}))
	defer srv.Close()

	c := NewStripeClient("sk_test_key")
	c.baseURL = srv.URL

	intent, err := c.CreateIntent(context.Background(), 12000, "usd")
	require.NoError(t, err)
	require.Equal(t, "pi_123", intent.ID)
	require.Equal(t, "pi_123_secret_456", intent.ClientSecret)
}

func TestCreateIntentGatewayError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
		w.Write([]byte(`{"error":{"message":"your card was declined"}}`))
	}))
	defer srv.Close()

	c := NewStripeClient("sk_test_key")
	c.baseURL = srv.URL

	_, err := c.CreateIntent(context.Background(), 100, "usd")
	require.Error(t, err)
	require.Contains(t, err.Error(), "402")
}
