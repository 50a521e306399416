// Package gateway implements the outbound payment-gateway client.
package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"

	"marketplace-fulfillment/internal/core"
)

const defaultTimeout = 10 * time.Second

// Client talks to the payment provider's REST API. Every call carries the
// configured timeout so a slow provider cannot stall order processing.
type Client struct {
	http *resty.Client
}

// NewClient builds a Client from PAYMENT_GATEWAY_URL and
// PAYMENT_GATEWAY_SECRET.
func NewClient() (*Client, error) {
	baseURL := os.Getenv("PAYMENT_GATEWAY_URL")
	if baseURL == "" {
		return nil, fmt.Errorf("PAYMENT_GATEWAY_URL environment variable is required")
	}
	secret := os.Getenv("PAYMENT_GATEWAY_SECRET")
	if secret == "" {
		return nil, fmt.Errorf("PAYMENT_GATEWAY_SECRET environment variable is required")
	}
	return NewClientWith(baseURL, secret, defaultTimeout), nil
}

// NewClientWith builds a Client against an explicit endpoint, used by tests
// to point at a stub server.
func NewClientWith(baseURL, secret string, timeout time.Duration) *Client {
	http := resty.New().
		SetBaseURL(baseURL).
		SetAuthToken(secret).
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json")
	return &Client{http: http}
}

type initializeRequest struct {
	Amount    string            `json:"amount"`
	Reference string            `json:"reference"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

type initializeResponse struct {
	Status bool `json:"status"`
	Data   struct {
		AuthorizationURL string `json:"authorization_url"`
	} `json:"data"`
	Message string `json:"message"`
}

// Initialize registers a pending charge and returns the provider's checkout
// redirect URL.
func (c *Client) Initialize(ctx context.Context, amount decimal.Decimal, reference string, metadata map[string]string) (string, error) {
	var out initializeResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(initializeRequest{Amount: amount.StringFixed(2), Reference: reference, Metadata: metadata}).
		SetResult(&out).
		Post("/transaction/initialize")
	if err != nil {
		return "", fmt.Errorf("gateway initialize request failed: %w", err)
	}
	if resp.IsError() || !out.Status {
		return "", fmt.Errorf("gateway initialize rejected reference %s: %s (%s)", reference, out.Message, resp.Status())
	}
	return out.Data.AuthorizationURL, nil
}

type verifyResponse struct {
	Status bool `json:"status"`
	Data   struct {
		Status    string          `json:"status"`
		Reference string          `json:"reference"`
		Amount    decimal.Decimal `json:"amount"`
	} `json:"data"`
	Message string `json:"message"`
}

// Verify reports the settled outcome for a reference. The raw provider
// response is preserved on the result for audit logging.
func (c *Client) Verify(ctx context.Context, reference string) (*core.GatewayResult, error) {
	var out verifyResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&out).
		Get("/transaction/verify/" + reference)
	if err != nil {
		return nil, fmt.Errorf("gateway verify request failed: %w", err)
	}
	if resp.IsError() || !out.Status {
		return nil, fmt.Errorf("gateway verify rejected reference %s: %s (%s)", reference, out.Message, resp.Status())
	}
	return &core.GatewayResult{
		Reference: out.Data.Reference,
		Success:   out.Data.Status == "success",
		Amount:    out.Data.Amount,
		Raw:       json.RawMessage(resp.Body()),
	}, nil
}
