package web

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"marketplace-fulfillment/internal/core"
)

// createOrder handles POST /api/orders. On success the order is persisted in
// (pending, pending) and a gateway charge is initialized for its payment
// reference; the response carries the checkout redirect URL. If the gateway
// cannot be reached the order still stands and the client retries payment via
// reconcile later, so redirect_url may be empty.
func (h *Handler) createOrder(w http.ResponseWriter, r *http.Request) {
	var req struct {
		VendorCode string                   `json:"vendor_code"`
		Lines      []core.PurchaseLineInput `json:"lines"`
		Delivery   core.DeliveryInfo        `json:"delivery"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.VendorCode == "" {
		writeError(w, r, "vendor_code is required", "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	if len(req.Lines) == 0 {
		writeError(w, r, "at least one line is required", "BAD_REQUEST", http.StatusBadRequest)
		return
	}

	order, err := h.orders.CreateOrder(r.Context(), req.VendorCode, req.Lines, req.Delivery, actorFromContext(r.Context()))
	if err != nil {
		serviceError(w, r, err)
		return
	}

	redirectURL, err := h.gateway.Initialize(r.Context(), order.Total, order.PaymentReference, map[string]string{
		"order_number":  order.OrderNumber,
		"property_code": order.Delivery.PropertyCode,
	})
	if err != nil {
		log.Printf("gateway initialize failed for order %s: %v", order.OrderNumber, err)
	}

	type response struct {
		Order       *core.Order `json:"order"`
		RedirectURL string      `json:"redirect_url,omitempty"`
	}
	writeJSONStatus(w, http.StatusCreated, response{Order: order, RedirectURL: redirectURL})
}

// listOrders handles GET /api/orders?status=.
func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	var statusPtr *core.FulfillmentStatus
	if s := r.URL.Query().Get("status"); s != "" {
		status := core.FulfillmentStatus(s)
		statusPtr = &status
	}

	orders, err := h.orders.ListOrders(r.Context(), statusPtr)
	if err != nil {
		serviceError(w, r, err)
		return
	}
	writeJSON(w, orders)
}

// getOrder handles GET /api/orders/{number}.
func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	order, err := h.orders.GetOrderByNumber(r.Context(), chi.URLParam(r, "number"))
	if err != nil {
		serviceError(w, r, err)
		return
	}
	writeJSON(w, order)
}

// advanceOrder handles POST /api/orders/{number}/status.
func (h *Handler) advanceOrder(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status core.FulfillmentStatus `json:"status"`
		Notes  string                 `json:"notes"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	order, err := h.orders.AdvanceStatus(r.Context(), chi.URLParam(r, "number"), req.Status, req.Notes, actorFromContext(r.Context()))
	if err != nil {
		serviceError(w, r, err)
		return
	}
	writeJSON(w, order)
}

// cancelOrder handles POST /api/orders/{number}/cancel.
func (h *Handler) cancelOrder(w http.ResponseWriter, r *http.Request) {
	order, err := h.orders.CancelOrder(r.Context(), chi.URLParam(r, "number"), actorFromContext(r.Context()))
	if err != nil {
		serviceError(w, r, err)
		return
	}
	writeJSON(w, order)
}

// refundOrder handles POST /api/orders/{number}/refund.
func (h *Handler) refundOrder(w http.ResponseWriter, r *http.Request) {
	order, err := h.orders.RefundOrder(r.Context(), chi.URLParam(r, "number"), actorFromContext(r.Context()))
	if err != nil {
		serviceError(w, r, err)
		return
	}
	writeJSON(w, order)
}
