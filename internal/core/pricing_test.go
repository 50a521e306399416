package core_test

import (
	"testing"

	"github.com/shopspring/decimal"

	"marketplace-fulfillment/internal/core"
)

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

func TestPriceLines(t *testing.T) {
	tests := []struct {
		name        string
		deliveryFee string
		lines       []core.ValidatedLine
		subtotal    string
		serviceFee  string
		total       string
	}{
		{
			name:        "two lines with flat delivery fee",
			deliveryFee: "50.00",
			lines: []core.ValidatedLine{
				{ItemCode: "WTR-1L", Quantity: 2, UnitPrice: d("1000.00")},
				{ItemCode: "SNCK-01", Quantity: 1, UnitPrice: d("500.00")},
			},
			subtotal:   "2500.00",
			serviceFee: "250.00",
			total:      "2800.00",
		},
		{
			name:        "single line no delivery fee",
			deliveryFee: "0",
			lines: []core.ValidatedLine{
				{ItemCode: "WTR-1L", Quantity: 3, UnitPrice: d("12.50")},
			},
			subtotal:   "37.50",
			serviceFee: "3.75",
			total:      "41.25",
		},
		{
			name:        "service fee rounds half up",
			deliveryFee: "0",
			lines: []core.ValidatedLine{
				{ItemCode: "SNCK-01", Quantity: 1, UnitPrice: d("10.25")},
			},
			subtotal:   "10.25",
			serviceFee: "1.03", // 1.025 rounds up
			total:      "11.28",
		},
		{
			name:        "fractional unit prices",
			deliveryFee: "5.00",
			lines: []core.ValidatedLine{
				{ItemCode: "A", Quantity: 3, UnitPrice: d("0.99")},
				{ItemCode: "B", Quantity: 2, UnitPrice: d("1.01")},
			},
			subtotal:   "4.99",
			serviceFee: "0.50", // 0.499 rounds up
			total:      "10.49",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pricer := core.NewPricer(d(tt.deliveryFee))
			quote, err := pricer.PriceLines(tt.lines)
			if err != nil {
				t.Fatalf("PriceLines: %v", err)
			}
			if !quote.Subtotal.Equal(d(tt.subtotal)) {
				t.Errorf("subtotal = %s, want %s", quote.Subtotal, tt.subtotal)
			}
			if !quote.ServiceFee.Equal(d(tt.serviceFee)) {
				t.Errorf("service fee = %s, want %s", quote.ServiceFee, tt.serviceFee)
			}
			if !quote.DeliveryFee.Equal(d(tt.deliveryFee)) {
				t.Errorf("delivery fee = %s, want %s", quote.DeliveryFee, tt.deliveryFee)
			}
			if !quote.Total.Equal(d(tt.total)) {
				t.Errorf("total = %s, want %s", quote.Total, tt.total)
			}
		})
	}
}

func TestPriceLines_EmptyLinesRejected(t *testing.T) {
	pricer := core.NewPricer(d("50.00"))
	if _, err := pricer.PriceLines(nil); err == nil {
		t.Fatal("expected error for empty line list, got nil")
	}
}

func TestPriceLines_TotalIsSumOfParts(t *testing.T) {
	pricer := core.NewPricer(d("25.00"))
	quote, err := pricer.PriceLines([]core.ValidatedLine{
		{ItemCode: "A", Quantity: 7, UnitPrice: d("13.37")},
		{ItemCode: "B", Quantity: 4, UnitPrice: d("2.49")},
	})
	if err != nil {
		t.Fatalf("PriceLines: %v", err)
	}
	sum := quote.Subtotal.Add(quote.ServiceFee).Add(quote.DeliveryFee)
	if !quote.Total.Equal(sum) {
		t.Errorf("total = %s, want subtotal+fees = %s", quote.Total, sum)
	}
}
