package domain_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/botifalho/storefront/internal/core/domain"
)

func price(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestNormalizeCategory(t *testing.T) {
	assert.Equal(t, "Hygiene", domain.NormalizeCategory("Hygiene"))
	assert.Equal(t, domain.CategoryOther, domain.NormalizeCategory("hygiene"))
	assert.Equal(t, domain.CategoryOther, domain.NormalizeCategory("Snacks"))
	assert.Equal(t, domain.CategoryOther, domain.NormalizeCategory(""))
}

func TestProductValidate(t *testing.T) {

	valid := domain.Product{
		ProductID:     "p1",
		Name:          "Glycerin Soap",
		Category:      "Hygiene",
		UnitPrice:     price("4.50"),
		StockQuantity: 12,
		Status:        domain.StatusEnabled,
	}

	t.Run("Valid", func(t *testing.T) {
		require.NoError(t, valid.Validate())
	})

	t.Run("EmptyName", func(t *testing.T) {
		p := valid
		p.Name = ""
		require.Error(t, p.Validate())
	})

	t.Run("ZeroPrice", func(t *testing.T) {
		p := valid
		p.UnitPrice = decimal.Zero
		err := p.Validate()
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrInvalidPrice)
	})

	t.Run("SubCentPrice", func(t *testing.T) {
		p := valid
		p.UnitPrice = price("4.509")
		err := p.Validate()
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrInvalidPrice)
	})

	t.Run("NegativeStock", func(t *testing.T) {
		p := valid
		p.StockQuantity = -1
		err := p.Validate()
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
	})

	t.Run("UnknownStatus", func(t *testing.T) {
		p := valid
		p.Status = "paused"
		require.Error(t, p.Validate())
	})
}

func TestProductSellable(t *testing.T) {
	p := domain.Product{
		Status:        domain.StatusEnabled,
		StockQuantity: 1,
	}
	assert.True(t, p.Sellable())

	p.StockQuantity = 0
	assert.False(t, p.Sellable())

	p.StockQuantity = 1
	p.Status = domain.StatusDisabled
	assert.False(t, p.Sellable())
}

func TestCart(t *testing.T) {

	soap := domain.CartLine{
		ProductID: "p1",
		Name:      "Glycerin Soap",
		UnitPrice: price("4.50"),
		Quantity:  2,
	}
	shampoo := domain.CartLine{
		ProductID: "p2",
		Name:      "Herbal Shampoo",
		UnitPrice: price("12.00"),
		Quantity:  1,
	}

	t.Run("UpsertMergesSameProduct", func(t *testing.T) {
		var cart domain.Cart
		cart.Upsert(soap)
		cart.Upsert(soap)

		lines := cart.Lines()
		require.Len(t, lines, 1)
		assert.Equal(t, 4, lines[0].Quantity)
		assert.Equal(t, 4, cart.Quantity("p1"))
	})

	t.Run("KeepsInsertionOrder", func(t *testing.T) {
		var cart domain.Cart
		cart.Upsert(shampoo)
		cart.Upsert(soap)

		lines := cart.Lines()
		require.Len(t, lines, 2)
		assert.Equal(t, "p2", lines[0].ProductID)
		assert.Equal(t, "p1", lines[1].ProductID)
	})

	t.Run("Remove", func(t *testing.T) {
		var cart domain.Cart
		cart.Upsert(soap)
		cart.Upsert(shampoo)

		assert.True(t, cart.Remove("p1"))
		assert.False(t, cart.Remove("p1"))

		lines := cart.Lines()
		require.Len(t, lines, 1)
		assert.Equal(t, "p2", lines[0].ProductID)
	})

	t.Run("Clear", func(t *testing.T) {
		var cart domain.Cart
		cart.Upsert(soap)
		cart.Clear()
		assert.True(t, cart.Empty())
	})

	t.Run("Total", func(t *testing.T) {
		var cart domain.Cart
		cart.Upsert(soap)
		cart.Upsert(shampoo)
		assert.Equal(t, "21.00", cart.Total().StringFixed(2))
	})

	t.Run("LinesReturnsCopy", func(t *testing.T) {
		var cart domain.Cart
		cart.Upsert(soap)

		lines := cart.Lines()
		lines[0].Quantity = 99
		assert.Equal(t, 2, cart.Quantity("p1"))
	})
}

func TestNewOrder(t *testing.T) {
	cartLines := []domain.CartLine{
		{ProductID: "p1", Name: "Glycerin Soap", UnitPrice: price("4.50"), Quantity: 2},
		{ProductID: "p2", Name: "Herbal Shampoo", UnitPrice: price("12.00"), Quantity: 1},
	}

	order := domain.NewOrder(cartLines, domain.PaymentCashEquivalent)

	assert.NotEmpty(t, order.OrderID)
	assert.Equal(t, domain.PaymentCashEquivalent, order.PaymentMethod)
	assert.Equal(t, "21.00", order.Total.StringFixed(2))
	assert.False(t, order.CreatedAt.IsZero())

	require.Len(t, order.Lines, 2)
	assert.Equal(t, "4.50", order.Lines[0].UnitPrice.StringFixed(2))
	assert.Equal(t, 2, order.Lines[0].Quantity)

	other := domain.NewOrder(cartLines, domain.PaymentCardDebit)
	assert.NotEqual(t, order.OrderID, other.OrderID)
}
