package core

import "fmt"

// All order status changes funnel through the checks in this file. The two
// persisted columns (payment_status, fulfillment_status) are treated as one
// tagged state: there is no way to set either field outside an enumerated
// transition, so illegal combinations are unrepresentable in practice.

// fulfillmentRank orders the forward delivery chain. Terminal and off-chain
// states have no rank.
var fulfillmentRank = map[FulfillmentStatus]int{
	FulfillmentConfirmed:      1,
	FulfillmentPreparing:      2,
	FulfillmentOutForDelivery: 3,
	FulfillmentDelivered:      4,
}

func fulfillmentTerminal(f FulfillmentStatus) bool {
	return f == FulfillmentDelivered || f == FulfillmentCancelled || f == FulfillmentRefunded
}

// checkAdvance validates an operator-driven forward move through
// preparing → out_for_delivery → delivered. Moves are monotonic: the target
// must be strictly later in the chain than the current state, and the order
// must already be confirmed (which implies payment is paid).
func checkAdvance(pay PaymentStatus, cur, next FulfillmentStatus) error {
	nextRank, ok := fulfillmentRank[next]
	if !ok || next == FulfillmentConfirmed {
		return fmt.Errorf("cannot advance to %q: %w", next, ErrInvalidTransition)
	}
	curRank, ok := fulfillmentRank[cur]
	if !ok || fulfillmentTerminal(cur) {
		return fmt.Errorf("cannot advance from %q: %w", cur, ErrInvalidTransition)
	}
	if nextRank <= curRank {
		return fmt.Errorf("cannot move back from %q to %q: %w", cur, next, ErrInvalidTransition)
	}
	if pay != PaymentPaid {
		return fmt.Errorf("cannot advance fulfillment while payment is %q: %w", pay, ErrInvalidTransition)
	}
	return nil
}

// checkCancel validates cancellation: allowed from any non-terminal
// fulfillment state before delivery.
func checkCancel(cur FulfillmentStatus) error {
	if fulfillmentTerminal(cur) {
		return fmt.Errorf("cannot cancel a %q order: %w", cur, ErrInvalidTransition)
	}
	return nil
}

// checkRefund validates a refund: only a paid order can be refunded. The
// fulfillment side moves to refunded unless the goods were already delivered,
// in which case delivered stands (a refund does not undo a delivery).
func checkRefund(pay PaymentStatus, cur FulfillmentStatus) (FulfillmentStatus, error) {
	if pay != PaymentPaid {
		return cur, fmt.Errorf("cannot refund an order with payment %q: %w", pay, ErrInvalidTransition)
	}
	if cur == FulfillmentDelivered {
		return FulfillmentDelivered, nil
	}
	return FulfillmentRefunded, nil
}
