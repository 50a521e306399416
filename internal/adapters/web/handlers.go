// Package web exposes the fulfillment service over a JSON HTTP API.
package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"marketplace-fulfillment/internal/core"
)

// Handler holds the domain services and the chi router.
type Handler struct {
	vendors    core.VendorService
	catalog    core.CatalogService
	ledger     core.StockLedger
	orders     core.OrderService
	reconciler core.PaymentReconciler
	gateway    core.PaymentGateway
	jwtSecret  string
}

// NewHandler creates and wires the chi router with all routes.
func NewHandler(
	vendors core.VendorService,
	catalog core.CatalogService,
	ledger core.StockLedger,
	orders core.OrderService,
	reconciler core.PaymentReconciler,
	gateway core.PaymentGateway,
	allowedOrigins, jwtSecret string,
) http.Handler {
	h := &Handler{
		vendors:    vendors,
		catalog:    catalog,
		ledger:     ledger,
		orders:     orders,
		reconciler: reconciler,
		gateway:    gateway,
		jwtSecret:  jwtSecret,
	}

	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(Logger)
	r.Use(Recoverer)
	r.Use(CORS(allowedOrigins))
	r.Use(RequestBodyLimit(1 << 20)) // 1 MB

	// ── Public ────────────────────────────────────────────────────────────────
	r.Get("/api/health", h.health)

	// Gateway callback. Authenticated by re-verifying the reference with the
	// gateway, never by trusting the payload.
	r.Post("/api/payments/webhook", h.paymentWebhook)

	// ── Protected API (platform-issued JWT) ──────────────────────────────────
	r.Group(func(r chi.Router) {
		r.Use(h.RequireAuth)

		// Vendors
		r.Get("/api/vendors", h.listVendors)
		r.Post("/api/vendors", h.createVendor)
		r.Get("/api/vendors/{code}", h.getVendor)
		r.Post("/api/vendors/{code}/active", h.setVendorActive)

		// Catalog items
		r.Get("/api/items", h.listItems)
		r.Post("/api/items", h.createItem)
		r.Get("/api/items/{code}", h.getItem)
		r.Post("/api/items/{code}/availability", h.setItemAvailability)
		r.Post("/api/items/{code}/on-order", h.markItemOnOrder)

		// Stock ledger
		r.Get("/api/items/{code}/movements", h.listMovements)
		r.Post("/api/items/{code}/movements", h.recordMovement)
		r.Get("/api/stock", h.stockLevels)
		r.Get("/api/stock/reorder", h.reorderReport)

		// Orders
		r.Get("/api/orders", h.listOrders)
		r.Post("/api/orders", h.createOrder)
		r.Get("/api/orders/{number}", h.getOrder)
		r.Post("/api/orders/{number}/status", h.advanceOrder)
		r.Post("/api/orders/{number}/cancel", h.cancelOrder)
		r.Post("/api/orders/{number}/refund", h.refundOrder)

		// Payments
		r.Post("/api/payments/{reference}/reconcile", h.reconcilePayment)
	})

	return r
}

// health returns service status.
func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	type response struct {
		Status string `json:"status"`
	}
	writeJSON(w, response{Status: "ok"})
}

// decodeJSON decodes the request body into v and writes an appropriate error
// response on failure. Returns HTTP 413 when the body exceeds the size limit
// set by RequestBodyLimit middleware; HTTP 400 for all other decode errors.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			writeError(w, r, "request body too large", "REQUEST_TOO_LARGE", http.StatusRequestEntityTooLarge)
			return false
		}
		writeError(w, r, "invalid JSON body: "+err.Error(), "BAD_REQUEST", http.StatusBadRequest)
		return false
	}
	return true
}
