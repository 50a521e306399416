package core

import (
	"context"
	"log"
)

// Notifier receives order events for delivery to guests and vendors.
// Calls are fire-and-forget: implementations must not block order processing,
// and their failures never roll back an order.
type Notifier interface {
	OrderConfirmed(ctx context.Context, order *Order)
	OrderStatusChanged(ctx context.Context, order *Order, previous FulfillmentStatus)
}

// logNotifier is the in-process fallback used when no delivery channel is
// configured. Real delivery (email, push) lives outside this service.
type logNotifier struct{}

// NewLogNotifier returns a Notifier that records events to the process log.
func NewLogNotifier() Notifier {
	return logNotifier{}
}

func (logNotifier) OrderConfirmed(_ context.Context, order *Order) {
	log.Printf("notify: order %s confirmed, total %s", order.OrderNumber, order.Total)
}

func (logNotifier) OrderStatusChanged(_ context.Context, order *Order, previous FulfillmentStatus) {
	log.Printf("notify: order %s moved %s -> %s", order.OrderNumber, previous, order.FulfillmentStatus)
}
