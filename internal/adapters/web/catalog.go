package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"marketplace-fulfillment/internal/core"
)

// ── Vendors ──────────────────────────────────────────────────────────────────

// listVendors handles GET /api/vendors.
func (h *Handler) listVendors(w http.ResponseWriter, r *http.Request) {
	vendors, err := h.vendors.GetVendors(r.Context())
	if err != nil {
		serviceError(w, r, err)
		return
	}
	writeJSON(w, vendors)
}

// createVendor handles POST /api/vendors.
func (h *Handler) createVendor(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Code         string `json:"code"`
		Name         string `json:"name"`
		ContactEmail string `json:"contact_email"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Code == "" || req.Name == "" {
		writeError(w, r, "code and name are required", "BAD_REQUEST", http.StatusBadRequest)
		return
	}

	vendor, err := h.vendors.CreateVendor(r.Context(), core.VendorInput{
		Code:         req.Code,
		Name:         req.Name,
		ContactEmail: req.ContactEmail,
	})
	if err != nil {
		serviceError(w, r, err)
		return
	}
	writeJSONStatus(w, http.StatusCreated, vendor)
}

// getVendor handles GET /api/vendors/{code}.
func (h *Handler) getVendor(w http.ResponseWriter, r *http.Request) {
	vendor, err := h.vendors.GetVendorByCode(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		serviceError(w, r, err)
		return
	}
	writeJSON(w, vendor)
}

// setVendorActive handles POST /api/vendors/{code}/active.
func (h *Handler) setVendorActive(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Active bool `json:"active"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	code := chi.URLParam(r, "code")
	if err := h.vendors.SetVendorActive(r.Context(), code, req.Active); err != nil {
		serviceError(w, r, err)
		return
	}
	vendor, err := h.vendors.GetVendorByCode(r.Context(), code)
	if err != nil {
		serviceError(w, r, err)
		return
	}
	writeJSON(w, vendor)
}

// ── Items ────────────────────────────────────────────────────────────────────

// listItems handles GET /api/items?vendor={code}.
func (h *Handler) listItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.catalog.GetItems(r.Context(), r.URL.Query().Get("vendor"))
	if err != nil {
		serviceError(w, r, err)
		return
	}
	writeJSON(w, items)
}

// createItem handles POST /api/items.
func (h *Handler) createItem(w http.ResponseWriter, r *http.Request) {
	var req struct {
		VendorCode       string          `json:"vendor_code"`
		Code             string          `json:"code"`
		Name             string          `json:"name"`
		Description      string          `json:"description"`
		UnitPrice        decimal.Decimal `json:"unit_price"`
		MinOrderQty      int             `json:"min_order_qty"`
		MaxOrderQty      int             `json:"max_order_qty"`
		MinimumThreshold int             `json:"minimum_threshold"`
		ReorderThreshold int             `json:"reorder_threshold"`
		UnitCost         decimal.Decimal `json:"unit_cost"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	item, err := h.catalog.CreateItem(r.Context(), core.ItemInput{
		VendorCode:       req.VendorCode,
		Code:             req.Code,
		Name:             req.Name,
		Description:      req.Description,
		UnitPrice:        req.UnitPrice,
		MinOrderQty:      req.MinOrderQty,
		MaxOrderQty:      req.MaxOrderQty,
		MinimumThreshold: req.MinimumThreshold,
		ReorderThreshold: req.ReorderThreshold,
		UnitCost:         req.UnitCost,
	})
	if err != nil {
		serviceError(w, r, err)
		return
	}
	writeJSONStatus(w, http.StatusCreated, item)
}

// getItem handles GET /api/items/{code}.
func (h *Handler) getItem(w http.ResponseWriter, r *http.Request) {
	item, err := h.catalog.GetItemByCode(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		serviceError(w, r, err)
		return
	}
	writeJSON(w, item)
}

// setItemAvailability handles POST /api/items/{code}/availability.
func (h *Handler) setItemAvailability(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Available bool `json:"available"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	code := chi.URLParam(r, "code")
	if err := h.catalog.SetItemAvailability(r.Context(), code, req.Available); err != nil {
		serviceError(w, r, err)
		return
	}
	item, err := h.catalog.GetItemByCode(r.Context(), code)
	if err != nil {
		serviceError(w, r, err)
		return
	}
	writeJSON(w, item)
}

// markItemOnOrder handles POST /api/items/{code}/on-order.
func (h *Handler) markItemOnOrder(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	if err := h.catalog.MarkOnOrder(r.Context(), code); err != nil {
		serviceError(w, r, err)
		return
	}
	item, err := h.catalog.GetItemByCode(r.Context(), code)
	if err != nil {
		serviceError(w, r, err)
		return
	}
	writeJSON(w, item)
}
