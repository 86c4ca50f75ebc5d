package httphandler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/botifalho/storefront/internal/core/domain"
	"github.com/botifalho/storefront/internal/core/payment"
	"github.com/botifalho/storefront/internal/core/port"
)

// POST /v1/checkout  settle the session's cart: 201 with the order, or
// a structured error carrying one entry per failing line.

type CheckoutHandler struct {
	processor port.CheckoutProcessor
}

func RegisterCheckout(mux *http.ServeMux, processor port.CheckoutProcessor) {
	h := CheckoutHandler{processor}
	mux.HandleFunc("POST /v1/checkout", h.Checkout)
}

func (h CheckoutHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	const op = "CheckoutHandler.Checkout"
	log := slog.With("op", op)

	s, ok := session(w, r)
	if !ok {
		return
	}

	var req CheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Warn("failed to parse JSON", "err", err)
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid JSON data"})
		return
	}

	pay, err := payment.FromRequest(
		domain.PaymentMethod(req.PaymentMethod),
		req.Card.Number, req.Card.Holder, req.Card.Expiry, req.Card.CVC,
	)
	if err != nil {
		log.Warn("rejected payment method", "err", err)
		writeDomainError(w, err)
		return
	}

	order, err := h.processor.Checkout(r.Context(), s, pay)
	if err != nil {
		log.Warn("checkout failed", "err", err)
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toOrderResponse(order))
}
