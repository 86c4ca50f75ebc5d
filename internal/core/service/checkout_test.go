package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/botifalho/storefront/internal/core/domain"
	"github.com/botifalho/storefront/internal/core/payment"
	"github.com/botifalho/storefront/internal/core/service"
)

type MockOrdersProducer struct {
	mock.Mock
}

func (m *MockOrdersProducer) ProduceOrder(
	ctx context.Context, order domain.Order,
) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func validCard() payment.Card {
	return payment.Card{
		Kind:   domain.PaymentCardCredit,
		Number: "4111111111111111",
		Holder: "Maria Silva",
		Expiry: "12/30",
		CVC:    "123",
	}
}

func TestCheckoutService(t *testing.T) {

	t.Run("EmptyCart", func(t *testing.T) {
		store := seedCatalog(t)
		carts := service.NewCartService(store)
		ledger := service.NewStockLedger(store, testLockTimeout)
		producer := new(MockOrdersProducer)
		checkout := service.NewCheckoutService(carts, ledger, producer, 2)

		_, err := checkout.Checkout(t.Context(), "s1", validCard())
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrEmptyCart)
		producer.AssertNotCalled(t, "ProduceOrder", mock.Anything, mock.Anything)
	})

	t.Run("InvalidCardLeavesStockUntouched", func(t *testing.T) {
		store := seedCatalog(t, enabledProduct("p1", "10.00", 5))
		carts := service.NewCartService(store)
		ledger := service.NewStockLedger(store, testLockTimeout)
		producer := new(MockOrdersProducer)
		checkout := service.NewCheckoutService(carts, ledger, producer, 2)

		_, err := carts.AddItem(t.Context(), "s1", "p1", 1)
		require.NoError(t, err)

		card := validCard()
		card.Number = "123"

		_, err = checkout.Checkout(t.Context(), "s1", card)
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrInvalidPayment)

		var paymentErr *domain.InvalidPaymentError
		require.ErrorAs(t, err, &paymentErr)
		assert.Equal(t, "card_number", paymentErr.Field)

		p, err := store.Get(t.Context(), "p1")
		require.NoError(t, err)
		assert.Equal(t, 5, p.StockQuantity)
	})

	t.Run("CommitsAndBuildsOrder", func(t *testing.T) {
		store := seedCatalog(t, enabledProduct("p1", "10.00", 5))
		carts := service.NewCartService(store)
		ledger := service.NewStockLedger(store, testLockTimeout)
		producer := new(MockOrdersProducer)
		producer.On("ProduceOrder", mock.Anything, mock.Anything).Return(nil)
		checkout := service.NewCheckoutService(carts, ledger, producer, 2)

		_, err := carts.AddItem(t.Context(), "s1", "p1", 5)
		require.NoError(t, err)

		order, err := checkout.Checkout(t.Context(), "s1", validCard())
		require.NoError(t, err)

		assert.NotEmpty(t, order.OrderID)
		assert.Equal(t, "50.00", order.Total.StringFixed(2))
		assert.Equal(t, domain.PaymentCardCredit, order.PaymentMethod)
		require.Len(t, order.Lines, 1)
		assert.Equal(t, "10.00", order.Lines[0].UnitPrice.StringFixed(2))
		assert.Equal(t, 5, order.Lines[0].Quantity)
		assert.False(t, order.CreatedAt.IsZero())

		p, err := store.Get(t.Context(), "p1")
		require.NoError(t, err)
		assert.Equal(t, 0, p.StockQuantity)
		assert.Equal(t, domain.StatusDisabled, p.Status)

		assert.Empty(t, carts.CartLines("s1"), "cart must clear after commit")
		producer.AssertCalled(t, "ProduceOrder", mock.Anything, mock.Anything)
	})

	t.Run("ChargesQuotedPriceNotLivePrice", func(t *testing.T) {
		store := seedCatalog(t, enabledProduct("p1", "10.00", 5))
		carts := service.NewCartService(store)
		ledger := service.NewStockLedger(store, testLockTimeout)
		producer := new(MockOrdersProducer)
		producer.On("ProduceOrder", mock.Anything, mock.Anything).Return(nil)
		checkout := service.NewCheckoutService(carts, ledger, producer, 2)

		_, err := carts.AddItem(t.Context(), "s1", "p1", 2)
		require.NoError(t, err)

		// admin raises the price after the shopper saw it
		repriced := enabledProduct("p1", "15.00", 5)
		require.NoError(t, store.Store(t.Context(), repriced))

		order, err := checkout.Checkout(t.Context(), "s1", validCard())
		require.NoError(t, err)
		assert.Equal(t, "20.00", order.Total.StringFixed(2))
	})

	t.Run("RejectionListsEveryFailingLine", func(t *testing.T) {
		store := seedCatalog(t,
			enabledProduct("p1", "10.00", 1),
			enabledProduct("p2", "5.00", 1),
		)
		carts := service.NewCartService(store)
		ledger := service.NewStockLedger(store, testLockTimeout)
		producer := new(MockOrdersProducer)
		checkout := service.NewCheckoutService(carts, ledger, producer, 2)

		_, err := carts.AddItem(t.Context(), "s1", "p1", 1)
		require.NoError(t, err)
		_, err = carts.AddItem(t.Context(), "s1", "p2", 1)
		require.NoError(t, err)

		// another shopper drains both products first
		res, err := ledger.ReserveAndCommit(t.Context(), []domain.StockLine{
			{ProductID: "p1", Quantity: 1},
			{ProductID: "p2", Quantity: 1},
		})
		require.NoError(t, err)
		require.True(t, res.Committed)

		_, err = checkout.Checkout(t.Context(), "s1", validCard())
		require.Error(t, err)

		var checkoutErr *domain.CheckoutError
		require.ErrorAs(t, err, &checkoutErr)
		assert.Len(t, checkoutErr.Lines, 2)

		assert.NotEmpty(t, carts.CartLines("s1"),
			"cart must survive rejection so the shopper can adjust")
		producer.AssertNotCalled(t, "ProduceOrder", mock.Anything, mock.Anything)
	})

	t.Run("PublishFaultDoesNotFailCheckout", func(t *testing.T) {
		store := seedCatalog(t, enabledProduct("p1", "10.00", 5))
		carts := service.NewCartService(store)
		ledger := service.NewStockLedger(store, testLockTimeout)
		producer := new(MockOrdersProducer)
		producer.On("ProduceOrder", mock.Anything, mock.Anything).
			Return(context.DeadlineExceeded)
		checkout := service.NewCheckoutService(carts, ledger, producer, 2)

		_, err := carts.AddItem(t.Context(), "s1", "p1", 1)
		require.NoError(t, err)

		order, err := checkout.Checkout(t.Context(), "s1", validCard())
		require.NoError(t, err)
		assert.NotEmpty(t, order.OrderID)
	})

	t.Run("CashEquivalentNeedsNoCardFields", func(t *testing.T) {
		store := seedCatalog(t, enabledProduct("p1", "10.00", 5))
		carts := service.NewCartService(store)
		ledger := service.NewStockLedger(store, testLockTimeout)
		producer := new(MockOrdersProducer)
		producer.On("ProduceOrder", mock.Anything, mock.Anything).Return(nil)
		checkout := service.NewCheckoutService(carts, ledger, producer, 2)

		_, err := carts.AddItem(t.Context(), "s1", "p1", 1)
		require.NoError(t, err)

		order, err := checkout.Checkout(t.Context(), "s1", payment.CashEquivalent{})
		require.NoError(t, err)
		assert.Equal(t, domain.PaymentCashEquivalent, order.PaymentMethod)
	})
}

// stubLedger scripts ReserveAndCommit outcomes per attempt.
type stubLedger struct {
	attempts int
	script   []error
}

func (s *stubLedger) ReserveAndCommit(
	ctx context.Context, lines []domain.StockLine,
) (domain.CommitResult, error) {
	err := s.script[min(s.attempts, len(s.script)-1)]
	s.attempts++
	if err != nil {
		return domain.CommitResult{}, err
	}
	return domain.CommitResult{Committed: true}, nil
}

func (s *stubLedger) Adjust(
	ctx context.Context, productID string, delta int,
) (domain.Product, error) {
	return domain.Product{}, nil
}

func TestCheckoutRetriesLockTimeout(t *testing.T) {

	newCartWithLine := func(t *testing.T) *service.CartService {
		t.Helper()
		store := seedCatalog(t, enabledProduct("p1", "10.00", 5))
		carts := service.NewCartService(store)
		_, err := carts.AddItem(t.Context(), "s1", "p1", 1)
		require.NoError(t, err)
		return carts
	}

	t.Run("RecoversWithinBudget", func(t *testing.T) {
		carts := newCartWithLine(t)

		ledger := &stubLedger{script: []error{
			domain.ErrLockTimeout, domain.ErrLockTimeout, nil,
		}}
		producer := new(MockOrdersProducer)
		producer.On("ProduceOrder", mock.Anything, mock.Anything).Return(nil)
		checkout := service.NewCheckoutService(carts, ledger, producer, 2)

		_, err := checkout.Checkout(t.Context(), "s1", validCard())
		require.NoError(t, err)
		assert.Equal(t, 3, ledger.attempts)
	})

	t.Run("SurfacesAfterBudget", func(t *testing.T) {
		carts := newCartWithLine(t)

		ledger := &stubLedger{script: []error{domain.ErrLockTimeout}}
		producer := new(MockOrdersProducer)
		checkout := service.NewCheckoutService(carts, ledger, producer, 2)

		start := time.Now()
		_, err := checkout.Checkout(t.Context(), "s1", validCard())
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrLockTimeout)
		assert.Equal(t, 3, ledger.attempts)
		assert.Less(t, time.Since(start), 10*time.Second)
	})
}
