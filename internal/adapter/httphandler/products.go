package httphandler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/botifalho/storefront/internal/core/domain"
	"github.com/botifalho/storefront/internal/core/port"
)

// GET  /v1/products            catalog snapshot (may be stale)
// GET  /v1/products/{id}       point read
// POST /v1/products            admin upsert passthrough
// PATCH /v1/products/{id}/stock  ledger-driven stock delta

type ProductsHandler struct {
	reader   port.CatalogReader
	storer   port.ProductStorer
	adjuster port.StockAdjuster
}

func RegisterProducts(
	mux *http.ServeMux,
	reader port.CatalogReader,
	storer port.ProductStorer,
	adjuster port.StockAdjuster,
) {
	h := ProductsHandler{reader, storer, adjuster}
	mux.HandleFunc("GET /v1/products", h.ListProducts)
	mux.HandleFunc("GET /v1/products/{id}", h.GetProduct)
	mux.HandleFunc("POST /v1/products", h.StoreProduct)
	mux.HandleFunc("PATCH /v1/products/{id}/stock", h.AdjustStock)
}

func (h ProductsHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	const op = "ProductsHandler.ListProducts"
	log := slog.With("op", op)

	ps, err := h.reader.ListProducts(r.Context())
	if err != nil {
		log.Error("failed to list products", "err", err)
		writeDomainError(w, err)
		return
	}

	res := make([]Product, len(ps))
	for i, p := range ps {
		res[i] = toProductResponse(p)
	}
	writeJSON(w, http.StatusOK, res)
}

func (h ProductsHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	const op = "ProductsHandler.GetProduct"
	log := slog.With("op", op)

	p, err := h.reader.GetProduct(r.Context(), r.PathValue("id"))
	if err != nil {
		log.Warn("failed to get product", "err", err)
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toProductResponse(p))
}

func (h ProductsHandler) StoreProduct(w http.ResponseWriter, r *http.Request) {
	const op = "ProductsHandler.StoreProduct"
	log := slog.With("op", op)

	var req StoreProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Warn("failed to parse JSON", "err", err)
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid JSON data"})
		return
	}

	unitPrice, err := decimal.NewFromString(req.UnitPrice)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid price"})
		return
	}

	p, err := h.storer.StoreProduct(r.Context(), domain.Product{
		ProductID:     req.ProductID,
		Name:          req.Name,
		Category:      req.Category,
		UnitPrice:     unitPrice,
		StockQuantity: req.StockQuantity,
		Status:        domain.ProductStatus(req.Status),
	})
	if err != nil {
		log.Warn("failed to store product", "err", err)
		writeDomainError(w, err)
		return
	}

	log.Info("product stored", "productID", p.ProductID)
	writeJSON(w, http.StatusCreated, toProductResponse(p))
}

func (h ProductsHandler) AdjustStock(w http.ResponseWriter, r *http.Request) {
	const op = "ProductsHandler.AdjustStock"
	log := slog.With("op", op)

	var req AdjustStockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Warn("failed to parse JSON", "err", err)
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid JSON data"})
		return
	}

	p, err := h.adjuster.AdjustStock(r.Context(), r.PathValue("id"), req.Delta)
	if err != nil {
		log.Warn("failed to adjust stock", "err", err)
		writeDomainError(w, err)
		return
	}

	log.Info("stock adjusted", "productID", p.ProductID, "delta", req.Delta)
	writeJSON(w, http.StatusOK, toProductResponse(p))
}
