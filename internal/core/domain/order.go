package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PaymentMethod string

const (
	PaymentCardCredit     PaymentMethod = "card-credit"
	PaymentCardDebit      PaymentMethod = "card-debit"
	PaymentCashEquivalent PaymentMethod = "cash-equivalent"
)

type OrderLine struct {
	ProductID string
	Name      string
	UnitPrice decimal.Decimal
	Quantity  int
}

// Order is the immutable snapshot of a committed checkout. Lines keep
// the prices quoted in the cart, not re-fetched catalog prices.
type Order struct {
	OrderID       string
	Lines         []OrderLine
	Total         decimal.Decimal
	PaymentMethod PaymentMethod
	CreatedAt     time.Time
}

func NewOrder(cartLines []CartLine, method PaymentMethod) Order {
	lines := make([]OrderLine, len(cartLines))
	total := decimal.Zero
	for i, cl := range cartLines {
		lines[i] = OrderLine{
			ProductID: cl.ProductID,
			Name:      cl.Name,
			UnitPrice: cl.UnitPrice,
			Quantity:  cl.Quantity,
		}
		lineTotal := cl.UnitPrice.Mul(decimal.NewFromInt(int64(cl.Quantity)))
		total = total.Add(lineTotal)
	}

	return Order{
		OrderID:       uuid.NewString(),
		Lines:         lines,
		Total:         total,
		PaymentMethod: method,
		CreatedAt:     time.Now().UTC(),
	}
}

// CommitResult reports an all-or-nothing stock commit: either every
// line applied (Committed with post-commit snapshots) or none did.
type CommitResult struct {
	Committed bool
	Products  []Product
	Reasons   []LineReason
}
