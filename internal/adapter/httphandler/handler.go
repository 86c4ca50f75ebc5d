package httphandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/botifalho/storefront/internal/core/domain"
)

const sessionHeader = "X-Session-ID"

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to write response body", "err", err)
	}
}

func reasonCode(err error) string {
	switch {
	case errors.Is(err, domain.ErrProductNotFound):
		return "product-not-found"
	case errors.Is(err, domain.ErrProductDisabled):
		return "product-disabled"
	case errors.Is(err, domain.ErrInsufficientStock):
		return "insufficient-stock"
	case errors.Is(err, domain.ErrLockTimeout):
		return "lock-timeout"
	default:
		return "internal"
	}
}

// writeDomainError maps the error taxonomy onto HTTP statuses: caller
// mistakes are 4xx, contention is 409, lock timeout is 504.
func writeDomainError(w http.ResponseWriter, err error) {
	var paymentErr *domain.InvalidPaymentError
	if errors.As(err, &paymentErr) {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error: "invalid payment",
			Field: paymentErr.Field,
		})
		return
	}

	var checkoutErr *domain.CheckoutError
	if errors.As(err, &checkoutErr) {
		lines := make([]LineError, len(checkoutErr.Lines))
		for i, l := range checkoutErr.Lines {
			lines[i] = LineError{ProductID: l.ProductID, Reason: reasonCode(l.Err)}
		}
		writeJSON(w, http.StatusConflict, ErrorResponse{
			Error: "checkout rejected",
			Lines: lines,
		})
		return
	}

	switch {
	case errors.Is(err, domain.ErrProductNotFound):
		writeJSON(w, http.StatusNotFound, ErrorResponse{Error: "product not found"})
	case errors.Is(err, domain.ErrInvalidQuantity):
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid quantity"})
	case errors.Is(err, domain.ErrInvalidPrice):
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid price"})
	case errors.Is(err, domain.ErrEmptyCart):
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "empty cart"})
	case errors.Is(err, domain.ErrProductDisabled):
		writeJSON(w, http.StatusConflict, ErrorResponse{Error: "product disabled"})
	case errors.Is(err, domain.ErrInsufficientStock):
		writeJSON(w, http.StatusConflict, ErrorResponse{Error: "insufficient stock"})
	case errors.Is(err, domain.ErrLockTimeout):
		writeJSON(w, http.StatusGatewayTimeout, ErrorResponse{Error: "stock lock timeout"})
	default:
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
	}
}

func session(w http.ResponseWriter, r *http.Request) (string, bool) {
	s := r.Header.Get(sessionHeader)
	if s == "" {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error: "missing " + sessionHeader + " header",
		})
		return "", false
	}
	return s, true
}
