package core

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentStatus tracks the money side of an order.
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentFailed   PaymentStatus = "failed"
	PaymentRefunded PaymentStatus = "refunded"
)

// FulfillmentStatus tracks the goods side of an order.
//
//	pending → confirmed → preparing → out_for_delivery → delivered (terminal)
//
// cancelled (terminal) is reachable from any state before delivered;
// refunded is reachable from any paid state except delivered.
type FulfillmentStatus string

const (
	FulfillmentPending        FulfillmentStatus = "pending"
	FulfillmentConfirmed      FulfillmentStatus = "confirmed"
	FulfillmentPreparing      FulfillmentStatus = "preparing"
	FulfillmentOutForDelivery FulfillmentStatus = "out_for_delivery"
	FulfillmentDelivered      FulfillmentStatus = "delivered"
	FulfillmentCancelled      FulfillmentStatus = "cancelled"
	FulfillmentRefunded       FulfillmentStatus = "refunded"
)

// DeliveryInfo is the delivery target attached to an order: a property, a
// unit within it, and contact details supplied by the booking context.
type DeliveryInfo struct {
	PropertyCode string `json:"property_code"`
	UnitLabel    string `json:"unit_label"`
	ContactName  string `json:"contact_name"`
	ContactPhone string `json:"contact_phone"`
	Notes        string `json:"notes"`
}

// Order is a guest purchase from one vendor. Fulfillment may only reach
// confirmed or later once payment is paid; stock is decremented exactly once,
// on the first transition into paid.
type Order struct {
	ID                int               `json:"id"`
	OrderNumber       string            `json:"order_number"`
	VendorID          int               `json:"vendor_id"`
	VendorCode        string            `json:"vendor_code"`
	PaymentReference  string            `json:"payment_reference"`
	PaymentStatus     PaymentStatus     `json:"payment_status"`
	FulfillmentStatus FulfillmentStatus `json:"fulfillment_status"`
	Subtotal          decimal.Decimal   `json:"subtotal"`
	ServiceFee        decimal.Decimal   `json:"service_fee"`
	DeliveryFee       decimal.Decimal   `json:"delivery_fee"`
	Total             decimal.Decimal   `json:"total"`
	Delivery          DeliveryInfo      `json:"delivery"`
	StatusNotes       string            `json:"status_notes"`
	PlacedBy          string            `json:"placed_by"`
	Lines             []OrderLine       `json:"lines"`
	CreatedAt         time.Time         `json:"created_at"`
	ConfirmedAt       *time.Time        `json:"confirmed_at,omitempty"`
	DeliveredAt       *time.Time        `json:"delivered_at,omitempty"`
	CancelledAt       *time.Time        `json:"cancelled_at,omitempty"`
	RefundedAt        *time.Time        `json:"refunded_at,omitempty"`
}

// OrderLine is one line of an order. Unit price and item name are captured
// at order-creation time; later catalog changes never alter a placed order.
type OrderLine struct {
	ID           int             `json:"id"`
	OrderID      int             `json:"order_id"`
	LineNumber   int             `json:"line_number"`
	ItemID       int             `json:"item_id"`
	ItemCode     string          `json:"item_code"`
	ItemName     string          `json:"item_name"`
	Quantity     int             `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	LineTotal    decimal.Decimal `json:"line_total"`
	Instructions string          `json:"instructions"`
}
