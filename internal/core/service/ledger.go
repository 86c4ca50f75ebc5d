package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/botifalho/storefront/internal/core/domain"
	"github.com/botifalho/storefront/internal/core/port"
)

var _ port.StockLedger = (*StockLedger)(nil)

// lockRegistry hands out one critical section per product id.
// Entries live for the process lifetime; the set is bounded by the
// catalog size.
type lockRegistry struct {
	mu    sync.Mutex
	locks map[string]chan struct{}
}

func newLockRegistry() *lockRegistry {
	return &lockRegistry{locks: make(map[string]chan struct{})}
}

func (r *lockRegistry) lock(productID string) chan struct{} {
	r.mu.Lock()
	defer r.mu.Unlock()

	l, ok := r.locks[productID]
	if !ok {
		l = make(chan struct{}, 1)
		r.locks[productID] = l
	}
	return l
}

// acquire takes the product's critical section, giving up when the
// shared deadline fires or the caller's context ends.
func (r *lockRegistry) acquire(
	ctx context.Context, productID string, deadline <-chan time.Time,
) error {
	select {
	case r.lock(productID) <- struct{}{}:
		return nil
	case <-deadline:
		return domain.ErrLockTimeout
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (r *lockRegistry) release(productID string) {
	<-r.lock(productID)
}

// StockLedger applies a whole cart's stock decrements as one
// all-or-nothing operation, safe under concurrent overlapping commits.
type StockLedger struct {
	store       port.CatalogStore
	locks       *lockRegistry
	lockTimeout time.Duration
}

func NewStockLedger(store port.CatalogStore, lockTimeout time.Duration) *StockLedger {
	return &StockLedger{
		store:       store,
		locks:       newLockRegistry(),
		lockTimeout: lockTimeout,
	}
}

// ReserveAndCommit validates and applies every line under per-product
// locks taken in sorted id order, so overlapping commits can never
// deadlock and no other commit can move stock between check and apply.
func (l *StockLedger) ReserveAndCommit(
	ctx context.Context, lines []domain.StockLine,
) (domain.CommitResult, error) {
	const op = "StockLedger.ReserveAndCommit"

	if err := ctx.Err(); err != nil {
		return domain.CommitResult{}, fmt.Errorf("%s: %w", op, err)
	}

	merged := mergeLines(lines)
	if len(merged) == 0 {
		return domain.CommitResult{}, fmt.Errorf("%s: %w", op, domain.ErrEmptyCart)
	}

	acquired, err := l.lockAll(ctx, merged)
	defer l.unlockAll(acquired)
	if err != nil {
		return domain.CommitResult{}, fmt.Errorf("%s: %w", op, err)
	}

	reasons, err := l.verify(ctx, merged)
	if err != nil {
		return domain.CommitResult{}, fmt.Errorf("%s: %w", op, err)
	}
	if len(reasons) != 0 {
		return domain.CommitResult{Reasons: reasons}, nil
	}

	products, err := l.apply(ctx, merged)
	if err != nil {
		return domain.CommitResult{}, fmt.Errorf("%s: %w", op, err)
	}

	return domain.CommitResult{Committed: true, Products: products}, nil
}

// Adjust is the admin stock mutation: a single-line delta through the
// same per-product gate, positive or negative.
func (l *StockLedger) Adjust(
	ctx context.Context, productID string, delta int,
) (domain.Product, error) {
	const op = "StockLedger.Adjust"

	if err := ctx.Err(); err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}

	deadline := time.NewTimer(l.lockTimeout)
	defer deadline.Stop()

	if err := l.locks.acquire(ctx, productID, deadline.C); err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}
	defer l.locks.release(productID)

	p, err := l.store.ApplyDelta(ctx, productID, delta)
	if err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

// mergeLines deduplicates by product id, summing quantities, and
// returns lines sorted lexicographically. The sort is the deadlock
// avoidance discipline: every commit acquires locks in the same order.
func mergeLines(lines []domain.StockLine) []domain.StockLine {
	byID := make(map[string]int, len(lines))
	for _, line := range lines {
		byID[line.ProductID] += line.Quantity
	}

	merged := make([]domain.StockLine, 0, len(byID))
	for id, qty := range byID {
		merged = append(merged, domain.StockLine{ProductID: id, Quantity: qty})
	}
	sort.Slice(merged, func(i, j int) bool {
		return merged[i].ProductID < merged[j].ProductID
	})
	return merged
}

// lockAll acquires every line's lock under one shared deadline and
// reports how many were taken, so the caller can release exactly those.
func (l *StockLedger) lockAll(
	ctx context.Context, merged []domain.StockLine,
) ([]domain.StockLine, error) {
	deadline := time.NewTimer(l.lockTimeout)
	defer deadline.Stop()

	for i, line := range merged {
		if err := l.locks.acquire(ctx, line.ProductID, deadline.C); err != nil {
			return merged[:i], err
		}
	}
	return merged, nil
}

func (l *StockLedger) unlockAll(acquired []domain.StockLine) {
	for _, line := range acquired {
		l.locks.release(line.ProductID)
	}
}

// verify re-reads every product under the held locks and collects one
// reason per failing line. Storage faults abort the whole commit.
func (l *StockLedger) verify(
	ctx context.Context, merged []domain.StockLine,
) ([]domain.LineReason, error) {
	var reasons []domain.LineReason

	for _, line := range merged {
		if line.Quantity < 1 {
			reasons = append(reasons, domain.LineReason{
				ProductID: line.ProductID, Err: domain.ErrInvalidQuantity,
			})
			continue
		}

		p, err := l.store.Get(ctx, line.ProductID)
		if err != nil {
			if errors.Is(err, domain.ErrProductNotFound) {
				reasons = append(reasons, domain.LineReason{
					ProductID: line.ProductID, Err: domain.ErrProductNotFound,
				})
				continue
			}
			return nil, err
		}

		if p.Status != domain.StatusEnabled {
			reasons = append(reasons, domain.LineReason{
				ProductID: line.ProductID, Err: domain.ErrProductDisabled,
			})
			continue
		}

		if line.Quantity > p.StockQuantity {
			reasons = append(reasons, domain.LineReason{
				ProductID: line.ProductID, Err: domain.ErrInsufficientStock,
			})
		}
	}

	return reasons, nil
}

// apply decrements every line. Once application starts the commit runs
// to completion even if the caller's context ends; a storage fault
// mid-apply compensates the already applied lines before returning.
func (l *StockLedger) apply(
	ctx context.Context, merged []domain.StockLine,
) ([]domain.Product, error) {
	const op = "StockLedger.apply"

	ctx = context.WithoutCancel(ctx)

	products := make([]domain.Product, 0, len(merged))
	for i, line := range merged {
		p, err := l.store.ApplyDelta(ctx, line.ProductID, -line.Quantity)
		if err != nil {
			l.compensate(ctx, merged[:i])
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		products = append(products, p)
	}
	return products, nil
}

func (l *StockLedger) compensate(ctx context.Context, applied []domain.StockLine) {
	const op = "StockLedger.compensate"
	log := slog.With("op", op)

	for _, line := range applied {
		_, err := l.store.ApplyDelta(ctx, line.ProductID, line.Quantity)
		if err != nil {
			log.Error("failed to restore stock",
				"productID", line.ProductID, "quantity", line.Quantity, "err", err)
		}
	}
}
