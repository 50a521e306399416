package core

import (
	"context"
	"encoding/json"

	"github.com/shopspring/decimal"
)

// GatewayResult is the outcome of verifying a payment reference with the
// external gateway. Raw carries the gateway's response for audit logging.
type GatewayResult struct {
	Reference string          `json:"reference"`
	Success   bool            `json:"success"`
	Amount    decimal.Decimal `json:"amount"`
	Raw       json.RawMessage `json:"raw,omitempty"`
}

// PaymentGateway is the outbound contract to the payment provider.
// Initialize registers a pending charge and returns a redirect URL for the
// client; Verify reports the settled outcome for a reference. Both calls are
// bounded by the client's configured timeout — a timeout error means the
// outcome is unknown and the caller must leave the order pending.
type PaymentGateway interface {
	Initialize(ctx context.Context, amount decimal.Decimal, reference string, metadata map[string]string) (redirectURL string, err error)
	Verify(ctx context.Context, reference string) (*GatewayResult, error)
}
