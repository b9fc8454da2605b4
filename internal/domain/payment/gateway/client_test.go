package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"senpai_store/internal/pkg/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(serverURL string) *Client {
	return NewClient(config.CashfreeConfig{
		BaseURL:    serverURL,
		ClientID:   "test-app-id",
		SecretKey:  "test-secret",
		APIVersion: "2023-08-01",
	})
}

func TestCreateOrder(t *testing.T) {
	t.Run("sends credentials and decodes session", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/pg/orders", r.URL.Path)
			assert.Equal(t, "test-app-id", r.Header.Get("x-client-id"))
			assert.Equal(t, "test-secret", r.Header.Get("x-client-secret"))
			assert.Equal(t, "2023-08-01", r.Header.Get("x-api-version"))

			var req CreateOrderRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "order-1", req.OrderID)
			assert.Equal(t, "INR", req.OrderCurrency)

			json.NewEncoder(w).Encode(CreateOrderResponse{
				CFOrderID:        "cf-100",
				OrderID:          req.OrderID,
				PaymentSessionID: "session_abc",
			})
		}))
		defer srv.Close()

		resp, err := testClient(srv.URL).CreateOrder(context.Background(), &CreateOrderRequest{
			OrderID:       "order-1",
			OrderAmount:   899,
			OrderCurrency: "INR",
		})

		require.NoError(t, err)
		assert.Equal(t, "session_abc", resp.PaymentSessionID)
		assert.Equal(t, "cf-100", resp.CFOrderID)
	})

	t.Run("non-2xx surfaces as APIError", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"message":"authentication failed"}`))
		}))
		defer srv.Close()

		_, err := testClient(srv.URL).CreateOrder(context.Background(), &CreateOrderRequest{OrderID: "order-1"})

		var apiErr *APIError
		require.True(t, errors.As(err, &apiErr))
		assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
		assert.Contains(t, apiErr.Body, "authentication failed")
	})
}

func TestGetOrderPayments(t *testing.T) {
	t.Run("decodes numeric payment id", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/pg/orders/order-1/payments", r.URL.Path)
			w.Write([]byte(`[{"cf_payment_id":5114911130,"payment_status":"SUCCESS","payment_amount":899}]`))
		}))
		defer srv.Close()

		payments, err := testClient(srv.URL).GetOrderPayments(context.Background(), "order-1")

		require.NoError(t, err)
		require.Len(t, payments, 1)
		assert.Equal(t, "5114911130", payments[0].CFPaymentID.String())
		assert.Equal(t, PaymentStatusSuccess, payments[0].PaymentStatus)
	})

	t.Run("context cancellation aborts the call", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			<-r.Context().Done()
		}))
		defer srv.Close()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := testClient(srv.URL).GetOrderPayments(ctx, "order-1")
		assert.Error(t, err)
	})
}
