package core

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// serviceFeeRate is the platform fee applied to every order subtotal.
var serviceFeeRate = decimal.NewFromFloat(0.10)

// Quote is the priced breakdown of an order. All amounts are rounded
// half-up to two decimal places.
type Quote struct {
	Subtotal    decimal.Decimal `json:"subtotal"`
	ServiceFee  decimal.Decimal `json:"service_fee"`
	DeliveryFee decimal.Decimal `json:"delivery_fee"`
	Total       decimal.Decimal `json:"total"`
}

// Pricer computes order totals from validated lines. It is a pure
// calculation: prices come from the lines (captured at validation time),
// never re-read from the catalog.
type Pricer struct {
	deliveryFee decimal.Decimal
}

// NewPricer constructs a Pricer with the configured flat delivery fee.
func NewPricer(deliveryFee decimal.Decimal) *Pricer {
	return &Pricer{deliveryFee: deliveryFee}
}

// PriceLines computes subtotal, service fee, delivery fee, and total.
// The only failure mode is an empty line list.
func (p *Pricer) PriceLines(lines []ValidatedLine) (Quote, error) {
	if len(lines) == 0 {
		return Quote{}, fmt.Errorf("cannot price an order with no lines")
	}

	subtotal := decimal.Zero
	for _, line := range lines {
		subtotal = subtotal.Add(line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	subtotal = subtotal.Round(2)

	// decimal.Round is half away from zero, which is half-up for the
	// non-negative amounts handled here.
	serviceFee := subtotal.Mul(serviceFeeRate).Round(2)
	total := subtotal.Add(serviceFee).Add(p.deliveryFee)

	return Quote{
		Subtotal:    subtotal,
		ServiceFee:  serviceFee,
		DeliveryFee: p.deliveryFee,
		Total:       total,
	}, nil
}
