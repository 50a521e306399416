package core

import (
	"fmt"
	"time"
)

// MovementType is the kind of stock movement recorded in the ledger.
type MovementType string

const (
	// MovementIn increases quantity by the movement amount (restock, return).
	MovementIn MovementType = "in"
	// MovementOut decreases quantity; rejected if it would go below zero.
	MovementOut MovementType = "out"
	// MovementAdjustment sets quantity to the movement amount (stocktake).
	MovementAdjustment MovementType = "adjustment"
)

// StockMovement is one immutable entry in an item's ledger. Movements are
// never edited or deleted; the ordered sequence of movements is the audit
// trail of truth, and an item's quantity is always the fold of its movements.
type StockMovement struct {
	ID               int          `json:"id"`
	ItemID           int          `json:"item_id"`
	Type             MovementType `json:"movement_type"`
	Quantity         int          `json:"quantity"`
	Reason           string       `json:"reason"`
	Actor            string       `json:"actor"`
	PreviousQuantity int          `json:"previous_quantity"`
	NewQuantity      int          `json:"new_quantity"`
	OrderID          *int         `json:"order_id,omitempty"`
	CreatedAt        time.Time    `json:"created_at"`
}

// StockLevel is a read view of an item's stock fields for reporting.
type StockLevel struct {
	ItemCode         string      `json:"item_code"`
	ItemName         string      `json:"item_name"`
	VendorCode       string      `json:"vendor_code"`
	Quantity         int         `json:"quantity"`
	MinimumThreshold int         `json:"minimum_threshold"`
	ReorderThreshold int         `json:"reorder_threshold"`
	StockStatus      StockStatus `json:"stock_status"`
}

// applyMovement returns the quantity after applying a movement of the given
// type and amount to prev. It reports ErrNegativeStock when an out movement
// would drive the quantity below zero, and rejects non-positive amounts for
// in/out and negative targets for adjustments.
func applyMovement(prev int, mt MovementType, amount int) (int, error) {
	switch mt {
	case MovementIn:
		if amount <= 0 {
			return 0, fmt.Errorf("in movement quantity must be positive, got %d: %w", amount, ErrInvalidMovement)
		}
		return prev + amount, nil
	case MovementOut:
		if amount <= 0 {
			return 0, fmt.Errorf("out movement quantity must be positive, got %d: %w", amount, ErrInvalidMovement)
		}
		if prev-amount < 0 {
			return 0, ErrNegativeStock
		}
		return prev - amount, nil
	case MovementAdjustment:
		if amount < 0 {
			return 0, fmt.Errorf("adjustment target cannot be negative, got %d: %w", amount, ErrInvalidMovement)
		}
		return amount, nil
	default:
		return 0, fmt.Errorf("unknown movement type %q: %w", mt, ErrInvalidMovement)
	}
}
