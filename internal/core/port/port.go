package port

import (
	"context"

	"github.com/botifalho/storefront/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CatalogStore is the single source of truth for stock levels.
// ApplyDelta is the single-key atomic read-modify-write primitive the
// stock ledger composes into multi-line commits.
type CatalogStore interface {
	Get(ctx context.Context, productID string) (domain.Product, error)
	List(ctx context.Context) ([]domain.Product, error)
	ApplyDelta(ctx context.Context, productID string, delta int) (domain.Product, error)
	Store(ctx context.Context, p domain.Product) error
}

// StockLedger serializes every stock mutation per product.
type StockLedger interface {
	ReserveAndCommit(ctx context.Context, lines []domain.StockLine) (domain.CommitResult, error)
	Adjust(ctx context.Context, productID string, delta int) (domain.Product, error)
}

type CatalogReader interface {
	GetProduct(ctx context.Context, productID string) (domain.Product, error)
	ListProducts(ctx context.Context) ([]domain.Product, error)
}

type ProductStorer interface {
	StoreProduct(ctx context.Context, p domain.Product) (domain.Product, error)
}

type StockAdjuster interface {
	AdjustStock(ctx context.Context, productID string, delta int) (domain.Product, error)
}

type CartKeeper interface {
	AddItem(ctx context.Context, session, productID string, quantity int) (domain.CartLine, error)
	RemoveItem(session, productID string) error
	ClearCart(session string)
	CartLines(session string) []domain.CartLine
	CartTotal(session string) decimal.Decimal
}

// Payment is the pluggable payment capability: the checkout engine only
// needs the method tag and a shape validation.
type Payment interface {
	Method() domain.PaymentMethod
	Validate() error
}

type CheckoutProcessor interface {
	Checkout(ctx context.Context, session string, payment Payment) (domain.Order, error)
}

type OrdersProducer interface {
	ProduceOrder(ctx context.Context, order domain.Order) error
}

type OrdersSaver interface {
	SaveOrders(ctx context.Context, orders []domain.Order) error
}
