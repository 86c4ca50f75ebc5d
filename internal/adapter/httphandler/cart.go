package httphandler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/botifalho/storefront/internal/core/port"
)

// POST   /v1/cart/items        add/merge a line (advisory stock check)
// DELETE /v1/cart/items/{id}   drop a line
// GET    /v1/cart              lines + total
// DELETE /v1/cart              clear
//
// Session comes from the X-Session-ID header.

type CartHandler struct {
	carts port.CartKeeper
}

func RegisterCart(mux *http.ServeMux, carts port.CartKeeper) {
	h := CartHandler{carts}
	mux.HandleFunc("POST /v1/cart/items", h.AddItem)
	mux.HandleFunc("DELETE /v1/cart/items/{id}", h.RemoveItem)
	mux.HandleFunc("GET /v1/cart", h.GetCart)
	mux.HandleFunc("DELETE /v1/cart", h.ClearCart)
}

func (h CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	const op = "CartHandler.AddItem"
	log := slog.With("op", op)

	s, ok := session(w, r)
	if !ok {
		return
	}

	var req AddCartItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Warn("failed to parse JSON", "err", err)
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid JSON data"})
		return
	}

	line, err := h.carts.AddItem(r.Context(), s, req.ProductID, req.Quantity)
	if err != nil {
		log.Warn("failed to add item", "err", err)
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toCartLineResponse(line))
}

func (h CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	const op = "CartHandler.RemoveItem"
	log := slog.With("op", op)

	s, ok := session(w, r)
	if !ok {
		return
	}

	if err := h.carts.RemoveItem(s, r.PathValue("id")); err != nil {
		log.Warn("failed to remove item", "err", err)
		writeDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	s, ok := session(w, r)
	if !ok {
		return
	}

	lines := h.carts.CartLines(s)
	res := CartResponse{
		Lines: make([]CartLine, len(lines)),
		Total: h.carts.CartTotal(s).StringFixed(2),
	}
	for i, l := range lines {
		res.Lines[i] = toCartLineResponse(l)
	}

	writeJSON(w, http.StatusOK, res)
}

func (h CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	s, ok := session(w, r)
	if !ok {
		return
	}

	h.carts.ClearCart(s)
	w.WriteHeader(http.StatusNoContent)
}
