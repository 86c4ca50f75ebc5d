package service_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/botifalho/storefront/internal/core/domain"
	"github.com/botifalho/storefront/internal/core/service"
)

func TestCartServiceAddItem(t *testing.T) {

	t.Run("AccumulatesSameProduct", func(t *testing.T) {
		store := seedCatalog(t, enabledProduct("p1", "10.00", 5))
		carts := service.NewCartService(store)

		line, err := carts.AddItem(t.Context(), "s1", "p1", 2)
		require.NoError(t, err)
		assert.Equal(t, 2, line.Quantity)

		line, err = carts.AddItem(t.Context(), "s1", "p1", 3)
		require.NoError(t, err)
		assert.Equal(t, 5, line.Quantity)

		lines := carts.CartLines("s1")
		require.Len(t, lines, 1, "same product must merge, not duplicate")
		assert.Equal(t, 5, lines[0].Quantity)
	})

	t.Run("RejectsQuantityBelowOne", func(t *testing.T) {
		store := seedCatalog(t, enabledProduct("p1", "10.00", 5))
		carts := service.NewCartService(store)

		_, err := carts.AddItem(t.Context(), "s1", "p1", 0)
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
	})

	t.Run("AdvisoryCheckCapsAtStock", func(t *testing.T) {
		store := seedCatalog(t, enabledProduct("p1", "10.00", 3))
		carts := service.NewCartService(store)

		_, err := carts.AddItem(t.Context(), "s1", "p1", 2)
		require.NoError(t, err)

		_, err = carts.AddItem(t.Context(), "s1", "p1", 2)
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	})

	t.Run("RejectsUnknownProduct", func(t *testing.T) {
		store := seedCatalog(t)
		carts := service.NewCartService(store)

		_, err := carts.AddItem(t.Context(), "s1", "missing", 1)
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrProductNotFound)
	})

	t.Run("RejectsDisabledProduct", func(t *testing.T) {
		p := enabledProduct("p1", "10.00", 5)
		p.Status = domain.StatusDisabled
		store := seedCatalog(t, p)
		carts := service.NewCartService(store)

		_, err := carts.AddItem(t.Context(), "s1", "p1", 1)
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrProductDisabled)
	})

	t.Run("SessionsAreIsolated", func(t *testing.T) {
		store := seedCatalog(t, enabledProduct("p1", "10.00", 5))
		carts := service.NewCartService(store)

		_, err := carts.AddItem(t.Context(), "s1", "p1", 2)
		require.NoError(t, err)

		assert.Empty(t, carts.CartLines("s2"))
	})
}

func TestCartServiceEditing(t *testing.T) {

	t.Run("RemoveItem", func(t *testing.T) {
		store := seedCatalog(t,
			enabledProduct("p1", "10.00", 5),
			enabledProduct("p2", "4.50", 5),
		)
		carts := service.NewCartService(store)

		_, err := carts.AddItem(t.Context(), "s1", "p1", 1)
		require.NoError(t, err)
		_, err = carts.AddItem(t.Context(), "s1", "p2", 1)
		require.NoError(t, err)

		require.NoError(t, carts.RemoveItem("s1", "p1"))

		lines := carts.CartLines("s1")
		require.Len(t, lines, 1)
		assert.Equal(t, "p2", lines[0].ProductID)
	})

	t.Run("RemoveMissingLine", func(t *testing.T) {
		store := seedCatalog(t)
		carts := service.NewCartService(store)

		err := carts.RemoveItem("s1", "p1")
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrProductNotFound)
	})

	t.Run("ClearCart", func(t *testing.T) {
		store := seedCatalog(t, enabledProduct("p1", "10.00", 5))
		carts := service.NewCartService(store)

		_, err := carts.AddItem(t.Context(), "s1", "p1", 2)
		require.NoError(t, err)

		carts.ClearCart("s1")
		assert.Empty(t, carts.CartLines("s1"))
	})
}

func TestCartServiceTotal(t *testing.T) {
	store := seedCatalog(t,
		enabledProduct("p1", "10.00", 10),
		enabledProduct("p2", "0.99", 10),
	)
	carts := service.NewCartService(store)

	_, err := carts.AddItem(t.Context(), "s1", "p1", 3)
	require.NoError(t, err)
	_, err = carts.AddItem(t.Context(), "s1", "p2", 3)
	require.NoError(t, err)

	assert.Equal(t, "32.97", carts.CartTotal("s1").StringFixed(2))
}
