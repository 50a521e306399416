package core

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockStatus classifies an item's stock level. It is derived from quantity
// and minimum_threshold on every ledger append and never set independently,
// with one exception: StatusOnOrder is a manual operator override and is
// never auto-assigned.
type StockStatus string

const (
	StatusInStock    StockStatus = "in_stock"
	StatusLowStock   StockStatus = "low_stock"
	StatusOutOfStock StockStatus = "out_of_stock"
	StatusOnOrder    StockStatus = "on_order"
)

// StatusFor computes the derived stock status for a quantity.
func StatusFor(quantity, minimumThreshold int) StockStatus {
	switch {
	case quantity == 0:
		return StatusOutOfStock
	case quantity <= minimumThreshold:
		return StatusLowStock
	default:
		return StatusInStock
	}
}

// Item is a vendor good on the marketplace. It carries both the catalog
// definition (price, availability, order limits) and the stock record
// (quantity, thresholds). quantity is mutated only by the stock ledger.
type Item struct {
	ID               int             `json:"id"`
	VendorID         int             `json:"vendor_id"`
	Code             string          `json:"code"`
	Name             string          `json:"name"`
	Description      string          `json:"description"`
	UnitPrice        decimal.Decimal `json:"unit_price"`
	IsAvailable      bool            `json:"is_available"`
	MinOrderQty      int             `json:"min_order_qty"`
	MaxOrderQty      int             `json:"max_order_qty"`
	Quantity         int             `json:"quantity"`
	MinimumThreshold int             `json:"minimum_threshold"`
	ReorderThreshold int             `json:"reorder_threshold"`
	UnitCost         decimal.Decimal `json:"unit_cost"`
	StockStatus      StockStatus     `json:"stock_status"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// ItemInput holds the fields required to create a marketplace item.
// If MaxOrderQty is zero a default of 100 is applied; MinOrderQty defaults to 1.
type ItemInput struct {
	VendorCode       string
	Code             string
	Name             string
	Description      string
	UnitPrice        decimal.Decimal
	MinOrderQty      int
	MaxOrderQty      int
	MinimumThreshold int
	ReorderThreshold int
	UnitCost         decimal.Decimal
}

// PurchaseLineInput is one requested line of a purchase: an item, a quantity,
// and optional preparation/delivery instructions.
type PurchaseLineInput struct {
	ItemCode     string `json:"item_code"`
	Quantity     int    `json:"quantity"`
	Instructions string `json:"instructions"`
}

// ValidatedLine is a purchase line that passed catalog validation, annotated
// with the item identity and the unit price captured at validation time.
type ValidatedLine struct {
	ItemID       int
	ItemCode     string
	ItemName     string
	Quantity     int
	UnitPrice    decimal.Decimal
	Instructions string
}
