package core

import (
	"errors"
	"testing"
)

func TestApplyMovement(t *testing.T) {
	tests := []struct {
		name    string
		prev    int
		mt      MovementType
		amount  int
		want    int
		wantErr error
	}{
		{name: "in adds to previous", prev: 10, mt: MovementIn, amount: 5, want: 15},
		{name: "in from zero", prev: 0, mt: MovementIn, amount: 3, want: 3},
		{name: "out subtracts from previous", prev: 10, mt: MovementOut, amount: 4, want: 6},
		{name: "out to exactly zero", prev: 4, mt: MovementOut, amount: 4, want: 0},
		{name: "out below zero rejected", prev: 3, mt: MovementOut, amount: 4, wantErr: ErrNegativeStock},
		{name: "out from zero rejected", prev: 0, mt: MovementOut, amount: 1, wantErr: ErrNegativeStock},
		{name: "adjustment sets absolute quantity", prev: 10, mt: MovementAdjustment, amount: 2, want: 2},
		{name: "adjustment to zero", prev: 10, mt: MovementAdjustment, amount: 0, want: 0},
		{name: "adjustment up", prev: 1, mt: MovementAdjustment, amount: 50, want: 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := applyMovement(tt.prev, tt.mt, tt.amount)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("applyMovement(%d, %s, %d) error = %v, want %v", tt.prev, tt.mt, tt.amount, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("applyMovement(%d, %s, %d) unexpected error: %v", tt.prev, tt.mt, tt.amount, err)
			}
			if got != tt.want {
				t.Errorf("applyMovement(%d, %s, %d) = %d, want %d", tt.prev, tt.mt, tt.amount, got, tt.want)
			}
		})
	}
}

func TestApplyMovement_RejectsBadAmounts(t *testing.T) {
	cases := []struct {
		mt     MovementType
		amount int
	}{
		{MovementIn, 0},
		{MovementIn, -5},
		{MovementOut, 0},
		{MovementOut, -1},
		{MovementAdjustment, -1},
		{MovementType("bogus"), 5},
	}
	// Caller errors carry ErrInvalidMovement so the web layer can map them
	// to a 4xx instead of a generic 500.
	for _, c := range cases {
		if _, err := applyMovement(10, c.mt, c.amount); !errors.Is(err, ErrInvalidMovement) {
			t.Errorf("applyMovement(10, %s, %d) = %v, want ErrInvalidMovement", c.mt, c.amount, err)
		}
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		quantity  int
		threshold int
		want      StockStatus
	}{
		{0, 5, StatusOutOfStock},
		{0, 0, StatusOutOfStock},
		{1, 5, StatusLowStock},
		{5, 5, StatusLowStock},
		{6, 5, StatusInStock},
		{100, 5, StatusInStock},
		{1, 0, StatusInStock},
	}
	for _, tt := range tests {
		if got := StatusFor(tt.quantity, tt.threshold); got != tt.want {
			t.Errorf("StatusFor(%d, %d) = %s, want %s", tt.quantity, tt.threshold, got, tt.want)
		}
	}
}
