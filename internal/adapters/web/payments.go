package web

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"marketplace-fulfillment/internal/core"
)

// paymentWebhook handles POST /api/payments/webhook. The payload is used only
// to extract the reference; the outcome is re-verified with the gateway, so a
// forged or stale callback cannot confirm anything the gateway does not stand
// behind. Confirmation is idempotent, which makes provider retries harmless.
func (h *Handler) paymentWebhook(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Reference string `json:"reference"`
		Data      struct {
			Reference string `json:"reference"`
		} `json:"data"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	reference := req.Reference
	if reference == "" {
		reference = req.Data.Reference
	}
	if reference == "" {
		writeError(w, r, "reference is required", "BAD_REQUEST", http.StatusBadRequest)
		return
	}

	order, err := h.reconciler.Reconcile(r.Context(), reference)
	if err != nil {
		// A stock conflict already pinned the payment to failed. Acknowledge
		// so the provider stops retrying a callback we can never fulfill.
		if errors.Is(err, core.ErrStockConflict) {
			type response struct {
				Status string `json:"status"`
			}
			writeJSON(w, response{Status: "stock_conflict"})
			return
		}
		serviceError(w, r, err)
		return
	}

	type response struct {
		OrderNumber   string             `json:"order_number"`
		PaymentStatus core.PaymentStatus `json:"payment_status"`
	}
	writeJSON(w, response{OrderNumber: order.OrderNumber, PaymentStatus: order.PaymentStatus})
}

// reconcilePayment handles POST /api/payments/{reference}/reconcile — a manual
// or scheduled settlement check for orders stuck in pending.
func (h *Handler) reconcilePayment(w http.ResponseWriter, r *http.Request) {
	order, err := h.reconciler.Reconcile(r.Context(), chi.URLParam(r, "reference"))
	if err != nil {
		serviceError(w, r, err)
		return
	}
	writeJSON(w, order)
}
