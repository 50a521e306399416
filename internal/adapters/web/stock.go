package web

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"marketplace-fulfillment/internal/core"
)

// listMovements handles GET /api/items/{code}/movements?page=&page_size=.
func (h *Handler) listMovements(w http.ResponseWriter, r *http.Request) {
	item, err := h.catalog.GetItemByCode(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		serviceError(w, r, err)
		return
	}

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("page_size"))

	movements, total, err := h.ledger.Movements(r.Context(), item.ID, page, pageSize)
	if err != nil {
		serviceError(w, r, err)
		return
	}

	type response struct {
		ItemCode  string               `json:"item_code"`
		Movements []core.StockMovement `json:"movements"`
		Total     int64                `json:"total"`
	}
	writeJSON(w, response{ItemCode: item.Code, Movements: movements, Total: total})
}

// recordMovement handles POST /api/items/{code}/movements — a manual in, out,
// or adjustment by an inventory operator.
func (h *Handler) recordMovement(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Type     core.MovementType `json:"type"`
		Quantity int               `json:"quantity"`
		Reason   string            `json:"reason"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Reason == "" {
		writeError(w, r, "reason is required", "BAD_REQUEST", http.StatusBadRequest)
		return
	}

	item, err := h.catalog.GetItemByCode(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		serviceError(w, r, err)
		return
	}

	newQty, err := h.ledger.Append(r.Context(), item.ID, req.Type, req.Quantity, req.Reason, actorFromContext(r.Context()))
	if err != nil {
		serviceError(w, r, err)
		return
	}

	type response struct {
		ItemCode    string `json:"item_code"`
		NewQuantity int    `json:"new_quantity"`
	}
	writeJSONStatus(w, http.StatusCreated, response{ItemCode: item.Code, NewQuantity: newQty})
}

// stockLevels handles GET /api/stock.
func (h *Handler) stockLevels(w http.ResponseWriter, r *http.Request) {
	levels, err := h.ledger.StockLevels(r.Context())
	if err != nil {
		serviceError(w, r, err)
		return
	}
	writeJSON(w, levels)
}

// reorderReport handles GET /api/stock/reorder.
func (h *Handler) reorderReport(w http.ResponseWriter, r *http.Request) {
	levels, err := h.ledger.ReorderReport(r.Context())
	if err != nil {
		serviceError(w, r, err)
		return
	}
	writeJSON(w, levels)
}
