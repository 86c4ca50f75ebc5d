package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/botifalho/storefront/internal/core/domain"
	"github.com/botifalho/storefront/internal/core/port"
	"github.com/shopspring/decimal"
)

var _ port.CartKeeper = (*CartService)(nil)

// CartService keeps one cart per shopping session, in memory only.
// A restart loses carts: they are a convenience view, not a
// reservation.
type CartService struct {
	store port.CatalogStore

	mu    sync.Mutex
	carts map[string]*domain.Cart
}

func NewCartService(store port.CatalogStore) *CartService {
	return &CartService{
		store: store,
		carts: make(map[string]*domain.Cart),
	}
}

// AddItem merges the quantity into the session's cart after an
// advisory stock check. The check reads a snapshot without locks: it
// guards the shopper's expectations, the ledger re-validates at
// commit.
func (s *CartService) AddItem(
	ctx context.Context, session, productID string, quantity int,
) (domain.CartLine, error) {
	const op = "CartService.AddItem"

	if err := ctx.Err(); err != nil {
		return domain.CartLine{}, fmt.Errorf("%s: %w", op, err)
	}

	if quantity < 1 {
		return domain.CartLine{}, fmt.Errorf("%s: %w", op, domain.ErrInvalidQuantity)
	}

	p, err := s.store.Get(ctx, productID)
	if err != nil {
		return domain.CartLine{}, fmt.Errorf("%s: %w", op, err)
	}

	if p.Status != domain.StatusEnabled {
		return domain.CartLine{}, fmt.Errorf("%s: %w", op, domain.ErrProductDisabled)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cart := s.cart(session)
	cumulative := cart.Quantity(productID) + quantity
	if cumulative > p.StockQuantity {
		return domain.CartLine{}, fmt.Errorf("%s: %w", op, domain.ErrInsufficientStock)
	}

	cart.Upsert(domain.CartLine{
		ProductID: productID,
		Name:      p.Name,
		UnitPrice: p.UnitPrice,
		Quantity:  quantity,
	})

	return domain.CartLine{
		ProductID: productID,
		Name:      p.Name,
		UnitPrice: p.UnitPrice,
		Quantity:  cumulative,
	}, nil
}

func (s *CartService) RemoveItem(session, productID string) error {
	const op = "CartService.RemoveItem"

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.cart(session).Remove(productID) {
		return fmt.Errorf("%s: %w", op, domain.ErrProductNotFound)
	}
	return nil
}

func (s *CartService) ClearCart(session string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.carts, session)
}

func (s *CartService) CartLines(session string) []domain.CartLine {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.cart(session).Lines()
}

func (s *CartService) CartTotal(session string) decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.cart(session).Total()
}

// cart returns the session's cart, creating it lazily. Callers hold
// s.mu.
func (s *CartService) cart(session string) *domain.Cart {
	c, ok := s.carts[session]
	if !ok {
		c = new(domain.Cart)
		s.carts[session] = c
	}
	return c
}
