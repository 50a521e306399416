package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"marketplace-fulfillment/internal/core"
)

type errorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code"`
	RequestID string `json:"request_id,omitempty"`
}

// writeError writes a structured JSON error response.
func writeError(w http.ResponseWriter, r *http.Request, message, code string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	resp := errorResponse{
		Error:     message,
		Code:      code,
		RequestID: requestIDFromContext(r.Context()),
	}
	_ = json.NewEncoder(w).Encode(resp)
}

// writeJSON writes a JSON response with status 200.
func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

// writeJSONStatus writes a JSON response with an explicit status code.
func writeJSONStatus(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// serviceError translates a service error into its HTTP representation.
// Unrecognized errors become a generic 500 without leaking internals.
func serviceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, core.ErrVendorNotFound),
		errors.Is(err, core.ErrItemNotFound),
		errors.Is(err, core.ErrOrderNotFound):
		writeError(w, r, err.Error(), "NOT_FOUND", http.StatusNotFound)
	case errors.Is(err, core.ErrVendorInactive):
		writeError(w, r, err.Error(), "VENDOR_INACTIVE", http.StatusUnprocessableEntity)
	case errors.Is(err, core.ErrLineInvalid):
		writeError(w, r, err.Error(), "LINE_INVALID", http.StatusUnprocessableEntity)
	case errors.Is(err, core.ErrQuantityOutOfRange):
		writeError(w, r, err.Error(), "QUANTITY_OUT_OF_RANGE", http.StatusUnprocessableEntity)
	case errors.Is(err, core.ErrInsufficientStock):
		writeError(w, r, err.Error(), "INSUFFICIENT_STOCK", http.StatusUnprocessableEntity)
	case errors.Is(err, core.ErrInvalidMovement):
		writeError(w, r, err.Error(), "INVALID_MOVEMENT", http.StatusUnprocessableEntity)
	case errors.Is(err, core.ErrStockConflict):
		writeError(w, r, "order could not be fulfilled, contact support", "STOCK_CONFLICT", http.StatusConflict)
	case errors.Is(err, core.ErrNegativeStock):
		writeError(w, r, err.Error(), "NEGATIVE_STOCK", http.StatusConflict)
	case errors.Is(err, core.ErrInvalidTransition):
		writeError(w, r, err.Error(), "INVALID_TRANSITION", http.StatusConflict)
	case errors.Is(err, core.ErrGatewayUnavailable):
		writeError(w, r, "payment gateway unavailable, try again later", "GATEWAY_UNAVAILABLE", http.StatusBadGateway)
	default:
		writeError(w, r, "internal server error", "INTERNAL_ERROR", http.StatusInternalServerError)
	}
}
