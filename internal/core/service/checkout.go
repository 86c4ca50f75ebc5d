package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/botifalho/storefront/internal/core/domain"
	"github.com/botifalho/storefront/internal/core/port"
	"github.com/botifalho/storefront/pkg/retry"
)

var _ port.CheckoutProcessor = (*CheckoutService)(nil)

const commitBackoffDelay = 100 * time.Millisecond

// CheckoutService turns a cart plus a payment authorization into an
// order, or a fully itemized failure. It never produces a partial
// order.
type CheckoutService struct {
	carts         port.CartKeeper
	ledger        port.StockLedger
	receipts      port.OrdersProducer
	commitRetries int
}

func NewCheckoutService(
	carts port.CartKeeper,
	ledger port.StockLedger,
	receipts port.OrdersProducer,
	commitRetries int,
) *CheckoutService {
	return &CheckoutService{
		carts:         carts,
		ledger:        ledger,
		receipts:      receipts,
		commitRetries: commitRetries,
	}
}

func (s *CheckoutService) Checkout(
	ctx context.Context, session string, payment port.Payment,
) (domain.Order, error) {
	const op = "CheckoutService.Checkout"
	log := slog.With("op", op)

	if err := ctx.Err(); err != nil {
		return domain.Order{}, fmt.Errorf("%s: %w", op, err)
	}

	lines := s.carts.CartLines(session)
	if len(lines) == 0 {
		return domain.Order{}, fmt.Errorf("%s: %w", op, domain.ErrEmptyCart)
	}

	if err := payment.Validate(); err != nil {
		return domain.Order{}, fmt.Errorf("%s: %w", op, err)
	}

	res, err := s.commit(ctx, lines)
	if err != nil {
		return domain.Order{}, fmt.Errorf("%s: %w", op, err)
	}
	if !res.Committed {
		return domain.Order{}, fmt.Errorf(
			"%s: %w", op, &domain.CheckoutError{Lines: res.Reasons},
		)
	}

	order := domain.NewOrder(lines, payment.Method())

	// Stock is already durably decremented: a receipts publish fault
	// must not fail the checkout.
	if err := s.receipts.ProduceOrder(ctx, order); err != nil {
		log.Error("failed to publish order receipt",
			"orderID", order.OrderID, "err", err)
	}

	s.carts.ClearCart(session)

	log.Info("order committed",
		"orderID", order.OrderID, "total", order.Total, "nLines", len(order.Lines))

	return order, nil
}

// commit runs the ledger commit, retrying only lock timeouts with a
// jittered backoff.
func (s *CheckoutService) commit(
	ctx context.Context, lines []domain.CartLine,
) (domain.CommitResult, error) {
	stockLines := make([]domain.StockLine, len(lines))
	for i, l := range lines {
		stockLines[i] = domain.StockLine{
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
		}
	}

	retryCfg := retry.RetryConfig{
		MaxAttempts: 1 + s.commitRetries,
		Backoff:     retry.ExponentialBackoff(commitBackoffDelay),
		ShouldRetry: func(err error) bool {
			return errors.Is(err, domain.ErrLockTimeout)
		},
	}

	return retry.DoWithResult(ctx, retryCfg,
		func() (domain.CommitResult, error) {
			return s.ledger.ReserveAndCommit(ctx, stockLines)
		})
}
