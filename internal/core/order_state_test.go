package core

import (
	"errors"
	"testing"
)

func TestCheckAdvance(t *testing.T) {
	tests := []struct {
		name      string
		pay       PaymentStatus
		cur, next FulfillmentStatus
		expectErr bool
	}{
		{name: "confirmed to preparing", pay: PaymentPaid, cur: FulfillmentConfirmed, next: FulfillmentPreparing},
		{name: "preparing to out for delivery", pay: PaymentPaid, cur: FulfillmentPreparing, next: FulfillmentOutForDelivery},
		{name: "out for delivery to delivered", pay: PaymentPaid, cur: FulfillmentOutForDelivery, next: FulfillmentDelivered},
		{name: "skipping forward is allowed", pay: PaymentPaid, cur: FulfillmentConfirmed, next: FulfillmentDelivered},
		{name: "backwards move rejected", pay: PaymentPaid, cur: FulfillmentOutForDelivery, next: FulfillmentPreparing, expectErr: true},
		{name: "same state rejected", pay: PaymentPaid, cur: FulfillmentPreparing, next: FulfillmentPreparing, expectErr: true},
		{name: "cannot advance into confirmed", pay: PaymentPaid, cur: FulfillmentPending, next: FulfillmentConfirmed, expectErr: true},
		{name: "cannot advance from pending", pay: PaymentPending, cur: FulfillmentPending, next: FulfillmentPreparing, expectErr: true},
		{name: "cannot advance from delivered", pay: PaymentPaid, cur: FulfillmentDelivered, next: FulfillmentDelivered, expectErr: true},
		{name: "cannot advance from cancelled", pay: PaymentPaid, cur: FulfillmentCancelled, next: FulfillmentPreparing, expectErr: true},
		{name: "unpaid order cannot advance", pay: PaymentPending, cur: FulfillmentConfirmed, next: FulfillmentPreparing, expectErr: true},
		{name: "failed payment cannot advance", pay: PaymentFailed, cur: FulfillmentConfirmed, next: FulfillmentPreparing, expectErr: true},
		{name: "cancel is not an advance target", pay: PaymentPaid, cur: FulfillmentConfirmed, next: FulfillmentCancelled, expectErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := checkAdvance(tt.pay, tt.cur, tt.next)
			if tt.expectErr {
				if !errors.Is(err, ErrInvalidTransition) {
					t.Fatalf("checkAdvance(%s, %s, %s) = %v, want ErrInvalidTransition", tt.pay, tt.cur, tt.next, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("checkAdvance(%s, %s, %s) unexpected error: %v", tt.pay, tt.cur, tt.next, err)
			}
		})
	}
}

func TestCheckCancel(t *testing.T) {
	allowed := []FulfillmentStatus{
		FulfillmentPending, FulfillmentConfirmed, FulfillmentPreparing, FulfillmentOutForDelivery,
	}
	for _, cur := range allowed {
		if err := checkCancel(cur); err != nil {
			t.Errorf("checkCancel(%s) unexpected error: %v", cur, err)
		}
	}

	terminal := []FulfillmentStatus{FulfillmentDelivered, FulfillmentCancelled, FulfillmentRefunded}
	for _, cur := range terminal {
		if err := checkCancel(cur); !errors.Is(err, ErrInvalidTransition) {
			t.Errorf("checkCancel(%s) = %v, want ErrInvalidTransition", cur, err)
		}
	}
}

func TestCheckRefund(t *testing.T) {
	tests := []struct {
		name      string
		pay       PaymentStatus
		cur       FulfillmentStatus
		wantFul   FulfillmentStatus
		expectErr bool
	}{
		{name: "paid confirmed refunds", pay: PaymentPaid, cur: FulfillmentConfirmed, wantFul: FulfillmentRefunded},
		{name: "paid preparing refunds", pay: PaymentPaid, cur: FulfillmentPreparing, wantFul: FulfillmentRefunded},
		{name: "delivered keeps its fulfillment state", pay: PaymentPaid, cur: FulfillmentDelivered, wantFul: FulfillmentDelivered},
		{name: "pending payment cannot refund", pay: PaymentPending, cur: FulfillmentPending, expectErr: true},
		{name: "failed payment cannot refund", pay: PaymentFailed, cur: FulfillmentPending, expectErr: true},
		{name: "double refund rejected", pay: PaymentRefunded, cur: FulfillmentRefunded, expectErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := checkRefund(tt.pay, tt.cur)
			if tt.expectErr {
				if !errors.Is(err, ErrInvalidTransition) {
					t.Fatalf("checkRefund(%s, %s) = %v, want ErrInvalidTransition", tt.pay, tt.cur, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("checkRefund(%s, %s) unexpected error: %v", tt.pay, tt.cur, err)
			}
			if got != tt.wantFul {
				t.Errorf("checkRefund(%s, %s) = %s, want %s", tt.pay, tt.cur, got, tt.wantFul)
			}
		})
	}
}
