package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"senpai_store/internal/pkg/config"
)

// Gateway is the outbound Cashfree API surface the payment service needs.
// It is an interface so webhook reconciliation can be tested against a fake.
type Gateway interface {
	CreateOrder(ctx context.Context, req *CreateOrderRequest) (*CreateOrderResponse, error)
	GetOrderPayments(ctx context.Context, orderID string) ([]Payment, error)
}

// APIError is a non-2xx gateway response. The body is kept for operator
// logs; handlers must not leak it to end users.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("cashfree api error: status %d: %s", e.StatusCode, e.Body)
}

// Client talks to the Cashfree PG API. Credentials come from the injected
// config, never from the environment at call time.
type Client struct {
	baseURL    string
	clientID   string
	secretKey  string
	apiVersion string
	httpClient *http.Client
}

func NewClient(cfg config.CashfreeConfig) *Client {
	return &Client{
		baseURL:    cfg.BaseURL,
		clientID:   cfg.ClientID,
		secretKey:  cfg.SecretKey,
		apiVersion: cfg.APIVersion,
		// Webhook handlers block on this client while the gateway retries
		// the delivery clock, so the timeout has to be well under typical
		// webhook retry intervals.
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// CreateOrder mints a gateway order + payment session (POST /pg/orders).
func (c *Client) CreateOrder(ctx context.Context, req *CreateOrderRequest) (*CreateOrderResponse, error) {
	var resp CreateOrderResponse
	if err := c.do(ctx, http.MethodPost, "/pg/orders", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetOrderPayments lists payments recorded against a merchant order id
// (GET /pg/orders/{id}/payments). This is the authoritative source consulted
// before trusting a success webhook.
func (c *Client) GetOrderPayments(ctx context.Context, orderID string) ([]Payment, error) {
	var payments []Payment
	path := fmt.Sprintf("/pg/orders/%s/payments", orderID)
	if err := c.do(ctx, http.MethodGet, path, nil, &payments); err != nil {
		return nil, err
	}
	return payments, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-client-id", c.clientID)
	req.Header.Set("x-client-secret", c.secretKey)
	req.Header.Set("x-api-version", c.apiVersion)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("cashfree request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read cashfree response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{StatusCode: resp.StatusCode, Body: string(data)}
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("decode cashfree response: %w", err)
		}
	}
	return nil
}

var _ Gateway = (*Client)(nil)
