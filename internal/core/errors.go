package core

import "errors"

// Sentinel errors returned by the services in this package. Callers match
// with errors.Is; the wrapping message carries the specifics.
var (
	// ErrVendorNotFound is returned when a vendor code resolves to nothing.
	ErrVendorNotFound = errors.New("vendor not found")

	// ErrItemNotFound is returned when an item code or id resolves to nothing.
	ErrItemNotFound = errors.New("item not found")

	// ErrOrderNotFound is returned when an order number, id, or payment
	// reference resolves to nothing.
	ErrOrderNotFound = errors.New("order not found")

	// ErrVendorInactive rejects a purchase against a deactivated vendor.
	ErrVendorInactive = errors.New("vendor is not active")

	// ErrLineInvalid rejects a purchase line whose item is unknown, belongs
	// to another vendor, or is marked unavailable.
	ErrLineInvalid = errors.New("order line is invalid")

	// ErrQuantityOutOfRange rejects a line quantity outside the item's
	// min/max per-order limits.
	ErrQuantityOutOfRange = errors.New("quantity outside allowed range")

	// ErrInsufficientStock rejects a purchase line exceeding the stock
	// snapshot at validation time.
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrInvalidMovement rejects a malformed movement request: a non-positive
	// amount for in/out, a negative adjustment target, or an unknown type.
	ErrInvalidMovement = errors.New("invalid stock movement")

	// ErrNegativeStock rejects an out movement that would drive an item's
	// quantity below zero.
	ErrNegativeStock = errors.New("movement would make stock negative")

	// ErrStockConflict reports a payment confirmation that lost the stock
	// race: the payment is pinned failed and needs out-of-band settlement.
	ErrStockConflict = errors.New("stock conflict during payment confirmation")

	// ErrInvalidTransition rejects an order status change not permitted from
	// the current state.
	ErrInvalidTransition = errors.New("invalid order status transition")

	// ErrGatewayUnavailable reports that the payment gateway could not be
	// reached or timed out; the payment outcome is unknown.
	ErrGatewayUnavailable = errors.New("payment gateway unavailable")
)
