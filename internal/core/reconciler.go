package core

import (
	"context"
	"fmt"
	"log"
)

// PaymentReconciler settles an order's payment state against the gateway's
// verdict. It never touches stock or pricing itself; those effects belong to
// the order service transitions it invokes.
type PaymentReconciler interface {
	// Reconcile verifies the reference with the gateway and applies the
	// outcome. If the gateway cannot be reached or times out the outcome is
	// unknown: the order is left untouched and ErrGatewayUnavailable is
	// returned so the caller retries later.
	Reconcile(ctx context.Context, reference string) (*Order, error)
}

type paymentReconciler struct {
	orders  OrderService
	gateway PaymentGateway
}

// NewPaymentReconciler constructs a PaymentReconciler over the order service
// and the gateway client.
func NewPaymentReconciler(orders OrderService, gateway PaymentGateway) PaymentReconciler {
	return &paymentReconciler{orders: orders, gateway: gateway}
}

func (r *paymentReconciler) Reconcile(ctx context.Context, reference string) (*Order, error) {
	order, err := r.orders.GetOrderByReference(ctx, reference)
	if err != nil {
		return nil, err
	}

	result, err := r.gateway.Verify(ctx, reference)
	if err != nil {
		return nil, fmt.Errorf("could not verify payment %s: %v: %w", reference, err, ErrGatewayUnavailable)
	}

	if !result.Success {
		return r.orders.FailPayment(ctx, reference)
	}

	// A settled amount that does not match the order total is treated as a
	// failed payment, never a partial confirmation.
	if !result.Amount.Equal(order.Total) {
		log.Printf("reconcile: order %s amount mismatch, gateway %s vs total %s",
			order.OrderNumber, result.Amount, order.Total)
		return r.orders.FailPayment(ctx, reference)
	}

	return r.orders.ConfirmPayment(ctx, reference)
}
