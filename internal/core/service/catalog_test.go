package service_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/botifalho/storefront/internal/core/domain"
	"github.com/botifalho/storefront/internal/core/service"
)

func TestCatalogServiceStoreProduct(t *testing.T) {

	newCatalog := func(t *testing.T) *service.CatalogService {
		t.Helper()
		store := seedCatalog(t)
		ledger := service.NewStockLedger(store, testLockTimeout)
		return service.NewCatalogService(store, ledger)
	}

	t.Run("FillsDefaults", func(t *testing.T) {
		catalog := newCatalog(t)

		p, err := catalog.StoreProduct(t.Context(), domain.Product{
			Name:          "Glycerin Soap",
			Category:      "soaps and such",
			UnitPrice:     decimal.RequireFromString("4.50"),
			StockQuantity: 12,
		})
		require.NoError(t, err)

		assert.NotEmpty(t, p.ProductID, "missing id must be generated")
		assert.Equal(t, domain.StatusEnabled, p.Status)
		assert.Equal(t, domain.CategoryOther, p.Category,
			"unknown category must fall back")
	})

	t.Run("ZeroStockStoresDisabled", func(t *testing.T) {
		catalog := newCatalog(t)

		p, err := catalog.StoreProduct(t.Context(), domain.Product{
			Name:      "Glycerin Soap",
			Category:  "Hygiene",
			UnitPrice: decimal.RequireFromString("4.50"),
		})
		require.NoError(t, err)
		assert.Equal(t, domain.StatusDisabled, p.Status)
	})

	t.Run("RejectsInvalidPrice", func(t *testing.T) {
		catalog := newCatalog(t)

		_, err := catalog.StoreProduct(t.Context(), domain.Product{
			Name:      "Glycerin Soap",
			UnitPrice: decimal.RequireFromString("-1.00"),
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrInvalidPrice)
	})
}

func TestCatalogServiceAdjustStock(t *testing.T) {

	t.Run("RejectsZeroDelta", func(t *testing.T) {
		store := seedCatalog(t, enabledProduct("p1", "4.50", 5))
		ledger := service.NewStockLedger(store, testLockTimeout)
		catalog := service.NewCatalogService(store, ledger)

		_, err := catalog.AdjustStock(t.Context(), "p1", 0)
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
	})

	t.Run("RoutesThroughLedger", func(t *testing.T) {
		store := seedCatalog(t, enabledProduct("p1", "4.50", 5))
		ledger := service.NewStockLedger(store, testLockTimeout)
		catalog := service.NewCatalogService(store, ledger)

		p, err := catalog.AdjustStock(t.Context(), "p1", 7)
		require.NoError(t, err)
		assert.Equal(t, 12, p.StockQuantity)
	})
}
