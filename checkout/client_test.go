package checkout_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/marcelsud/payment-relay/checkout"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_CreatePaymentSession(t *testing.T) {
	ctx := context.Background()
	payload := checkout.PaymentSessionPayload{
		Amount:   1999,
		Currency: "GBP",
		Metadata: checkout.PayloadMetadata{OrderRef: "20250129100000-abcdef0123456789"},
	}

	t.Run("success - 201 passes the body through", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/payment-sessions", r.URL.Path)
			assert.Equal(t, "Bearer sk_sbox_test", r.Header.Get("Authorization"))
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

			body, err := io.ReadAll(r.Body)
			require.NoError(t, err)
			var got map[string]interface{}
			require.NoError(t, json.Unmarshal(body, &got))
			assert.Equal(t, float64(1999), got["amount"])
			assert.Equal(t, "20250129100000-abcdef0123456789", got["metadata"].(map[string]interface{})["order_ref"])

			w.WriteHeader(http.StatusCreated)
			w.Write([]byte(`{"id":"ps_2Un6","payment_session_secret":"pss_x","_links":{}}`))
		}))
		defer server.Close()

		client := checkout.NewClient(server.URL+"/", "sk_sbox_test")
		body, err := client.CreatePaymentSession(ctx, payload)

		require.NoError(t, err)
		assert.JSONEq(t, `{"id":"ps_2Un6","payment_session_secret":"pss_x","_links":{}}`, string(body))
	})

	t.Run("error - processor rejects request", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnprocessableEntity)
			w.Write([]byte(`{"request_id":"0HL80","error_type":"request_invalid","error_codes":["amount_invalid"]}`))
		}))
		defer server.Close()

		client := checkout.NewClient(server.URL, "sk_sbox_test")
		_, err := client.CreatePaymentSession(ctx, payload)

		var apiErr *checkout.APIError
		require.True(t, errors.As(err, &apiErr))
		assert.Equal(t, http.StatusUnprocessableEntity, apiErr.Status)
		assert.Equal(t, "request_invalid", apiErr.ErrorType)
		assert.JSONEq(t, `{"request_id":"0HL80","error_type":"request_invalid","error_codes":["amount_invalid"]}`, string(apiErr.Details))
	})

	t.Run("error - non JSON error body", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte("unauthorized"))
		}))
		defer server.Close()

		client := checkout.NewClient(server.URL, "sk_sbox_wrong")
		_, err := client.CreatePaymentSession(ctx, payload)

		var apiErr *checkout.APIError
		require.True(t, errors.As(err, &apiErr))
		assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
		assert.Equal(t, "Unknown error occurred", apiErr.ErrorType)
		assert.Equal(t, `"unauthorized"`, string(apiErr.Details))
	})

	t.Run("error - missing secret key", func(t *testing.T) {
		client := checkout.NewClient("http://127.0.0.1:1", "")
		_, err := client.CreatePaymentSession(ctx, payload)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "CHECKOUT_SECRET_KEY")
	})

	t.Run("error - unreachable processor", func(t *testing.T) {
		server := httptest.NewServer(http.NotFoundHandler())
		url := server.URL
		server.Close()

		client := checkout.NewClient(url, "sk_sbox_test")
		_, err := client.CreatePaymentSession(ctx, payload)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "calling checkout API")
	})
}
