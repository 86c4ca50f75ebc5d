package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/botifalho/storefront/internal/core/domain"
	"github.com/botifalho/storefront/internal/core/port"
)

var _ port.OrdersSaver = (*OrdersRepository)(nil)

type orderLineRow struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	UnitPrice string `json:"unit_price"`
	Quantity  int    `json:"quantity"`
}

// OrdersRepository is the receipts ledger store: committed orders
// consumed from the receipts stream land here.
type OrdersRepository struct {
	sqldb sqldb
}

func NewOrdersRepository(sqldb sqldb) OrdersRepository {
	return OrdersRepository{sqldb}
}

func (r OrdersRepository) SaveOrders(
	ctx context.Context, orders []domain.Order,
) (saveErr error) {
	const op = "OrdersRepository.SaveOrders"
	log := slog.With("op", op)

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	tx, err := r.sqldb.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: failed to begin tx: %w", op, err)
	}

	defer func() {
		if saveErr == nil {
			if err := tx.Commit(); err != nil {
				saveErr = fmt.Errorf("%s: failed to commit: %w", op, err)
			}
			return
		}

		if err := tx.Rollback(); err != nil {
			log.Error("failed to rollback tx", "err", err)
		}
	}()

	query := `
		INSERT INTO orders (
			order_id, payment_method, total, created_at, lines
		)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (order_id) DO NOTHING;
	`

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("%s: failed to prepare stmt: %w", op, err)
	}
	defer func() {
		if err := stmt.Close(); err != nil {
			log.Error("failed to close prepared stmt", "err", err)
		}
	}()

	for _, o := range orders {
		lines := make([]orderLineRow, len(o.Lines))
		for i, l := range o.Lines {
			lines[i] = orderLineRow{
				ProductID: l.ProductID,
				Name:      l.Name,
				UnitPrice: l.UnitPrice.StringFixed(2),
				Quantity:  l.Quantity,
			}
		}
		linesB, _ := json.Marshal(lines)

		_, err := stmt.ExecContext(ctx,
			o.OrderID, string(o.PaymentMethod), o.Total.StringFixed(2),
			o.CreatedAt, string(linesB),
		)
		if err != nil {
			return fmt.Errorf("%s: failed to exec: %w", op, err)
		}
	}

	return nil
}
