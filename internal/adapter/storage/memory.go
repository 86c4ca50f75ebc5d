package storage

import (
	"context"
	"fmt"
	"sync"

	"github.com/botifalho/storefront/internal/core/domain"
	"github.com/botifalho/storefront/internal/core/port"
)

var _ port.CatalogStore = (*MemCatalog)(nil)

// MemCatalog is an in-memory catalog store with the same single-key
// atomicity contract as the SQL repository. It backs the unit and
// concurrency suites and local runs without a database.
type MemCatalog struct {
	mu       sync.Mutex
	products map[string]domain.Product
}

func NewMemCatalog() *MemCatalog {
	return &MemCatalog{products: make(map[string]domain.Product)}
}

func (m *MemCatalog) Get(
	ctx context.Context, productID string,
) (domain.Product, error) {
	const op = "MemCatalog.Get"

	if err := ctx.Err(); err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.products[productID]
	if !ok {
		return domain.Product{}, fmt.Errorf("%s: %w", op, domain.ErrProductNotFound)
	}
	return p, nil
}

func (m *MemCatalog) List(ctx context.Context) ([]domain.Product, error) {
	const op = "MemCatalog.List"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	ps := make([]domain.Product, 0, len(m.products))
	for _, p := range m.products {
		ps = append(ps, p)
	}
	return ps, nil
}

func (m *MemCatalog) ApplyDelta(
	ctx context.Context, productID string, delta int,
) (domain.Product, error) {
	const op = "MemCatalog.ApplyDelta"

	if err := ctx.Err(); err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.products[productID]
	if !ok {
		return domain.Product{}, fmt.Errorf("%s: %w", op, domain.ErrProductNotFound)
	}

	newQuantity := p.StockQuantity + delta
	if newQuantity < 0 {
		return domain.Product{}, fmt.Errorf("%s: %w", op, domain.ErrInsufficientStock)
	}

	p.StockQuantity = newQuantity
	if newQuantity == 0 {
		p.Status = domain.StatusDisabled
	}

	m.products[productID] = p
	return p, nil
}

func (m *MemCatalog) Store(ctx context.Context, p domain.Product) error {
	const op = "MemCatalog.Store"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.products[p.ProductID] = p
	return nil
}
