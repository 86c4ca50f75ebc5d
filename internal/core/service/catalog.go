package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/botifalho/storefront/internal/core/domain"
	"github.com/botifalho/storefront/internal/core/port"
)

var _ port.CatalogReader = (*CatalogService)(nil)
var _ port.ProductStorer = (*CatalogService)(nil)
var _ port.StockAdjuster = (*CatalogService)(nil)

// CatalogService serves catalog reads and the admin-facing mutations.
// Browsing reads are snapshot reads and may be stale; only the ledger
// path is authoritative for stock.
type CatalogService struct {
	store  port.CatalogStore
	ledger port.StockLedger
}

func NewCatalogService(store port.CatalogStore, ledger port.StockLedger) *CatalogService {
	return &CatalogService{store: store, ledger: ledger}
}

func (s *CatalogService) GetProduct(
	ctx context.Context, productID string,
) (domain.Product, error) {
	const op = "CatalogService.GetProduct"

	p, err := s.store.Get(ctx, productID)
	if err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

func (s *CatalogService) ListProducts(ctx context.Context) ([]domain.Product, error) {
	const op = "CatalogService.ListProducts"

	ps, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return ps, nil
}

// StoreProduct upserts an admin-authored record. Name, price and
// category pass through untouched beyond boundary validation and the
// category fallback.
func (s *CatalogService) StoreProduct(
	ctx context.Context, p domain.Product,
) (domain.Product, error) {
	const op = "CatalogService.StoreProduct"

	if p.ProductID == "" {
		p.ProductID = uuid.NewString()
	}
	if p.Status == "" {
		p.Status = domain.StatusEnabled
	}
	p.Category = domain.NormalizeCategory(p.Category)

	if err := p.Validate(); err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}
	if p.StockQuantity == 0 {
		p.Status = domain.StatusDisabled
	}

	if err := s.store.Store(ctx, p); err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

// AdjustStock routes the stock-affecting admin mutation through the
// ledger's per-product gate.
func (s *CatalogService) AdjustStock(
	ctx context.Context, productID string, delta int,
) (domain.Product, error) {
	const op = "CatalogService.AdjustStock"

	if delta == 0 {
		return domain.Product{}, fmt.Errorf("%s: %w", op, domain.ErrInvalidQuantity)
	}

	p, err := s.ledger.Adjust(ctx, productID, delta)
	if err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}
