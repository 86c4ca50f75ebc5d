package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/botifalho/storefront/internal/core/domain"
	"github.com/botifalho/storefront/internal/core/port"
)

var _ port.CatalogStore = (*ProductsRepository)(nil)

// ProductsRepository is the durable catalog: the single source of
// truth for stock levels.
type ProductsRepository struct {
	sqldb sqldb
}

func NewProductsRepository(sqldb sqldb) ProductsRepository {
	return ProductsRepository{sqldb}
}

func (r ProductsRepository) Get(
	ctx context.Context, productID string,
) (domain.Product, error) {
	const op = "ProductsRepository.Get"

	if err := ctx.Err(); err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}

	query := `
		SELECT product_id, name, category, unit_price, stock_quantity, status
		FROM products
		WHERE product_id = $1;`

	p, err := scanProduct(r.sqldb.QueryRowContext(ctx, query, productID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Product{}, fmt.Errorf("%s: %w", op, domain.ErrProductNotFound)
		}
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

// List returns a snapshot of the catalog in unspecified order.
func (r ProductsRepository) List(ctx context.Context) ([]domain.Product, error) {
	const op = "ProductsRepository.List"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	query := `
		SELECT product_id, name, category, unit_price, stock_quantity, status
		FROM products;`

	rows, err := r.sqldb.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var ps []domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		ps = append(ps, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return ps, nil
}

// ApplyDelta atomically reads the row under a row lock, rejects
// deltas that would drive stock negative, writes the new quantity and
// auto-disables at zero, returning the post-update record.
func (r ProductsRepository) ApplyDelta(
	ctx context.Context, productID string, delta int,
) (p domain.Product, applyErr error) {
	const op = "ProductsRepository.ApplyDelta"
	log := slog.With("op", op)

	if err := ctx.Err(); err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}

	tx, err := r.sqldb.BeginTx(ctx, nil)
	if err != nil {
		return domain.Product{}, fmt.Errorf("%s: failed to begin tx: %w", op, err)
	}

	defer func() {
		if applyErr == nil {
			if err := tx.Commit(); err != nil {
				applyErr = fmt.Errorf("%s: failed to commit: %w", op, err)
			}
			return
		}

		if err := tx.Rollback(); err != nil {
			log.Error("failed to rollback tx", "err", err)
		}
	}()

	selectQuery := `
		SELECT product_id, name, category, unit_price, stock_quantity, status
		FROM products
		WHERE product_id = $1
		FOR UPDATE;`

	p, err = scanProduct(tx.QueryRowContext(ctx, selectQuery, productID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Product{}, fmt.Errorf("%s: %w", op, domain.ErrProductNotFound)
		}
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}

	newQuantity := p.StockQuantity + delta
	if newQuantity < 0 {
		return domain.Product{}, fmt.Errorf("%s: %w", op, domain.ErrInsufficientStock)
	}

	p.StockQuantity = newQuantity
	if newQuantity == 0 {
		p.Status = domain.StatusDisabled
	}

	updateQuery := `
		UPDATE products SET stock_quantity = $2, status = $3
		WHERE product_id = $1;`

	_, err = tx.ExecContext(ctx, updateQuery, p.ProductID, p.StockQuantity, p.Status)
	if err != nil {
		return domain.Product{}, fmt.Errorf("%s: failed to exec: %w", op, err)
	}

	return p, nil
}

func (r ProductsRepository) Store(ctx context.Context, p domain.Product) error {
	const op = "ProductsRepository.Store"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	query := `
		INSERT INTO products (
			product_id, name, category, unit_price, stock_quantity, status
		)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (product_id) DO UPDATE SET
			name = EXCLUDED.name,
			category = EXCLUDED.category,
			unit_price = EXCLUDED.unit_price,
			stock_quantity = EXCLUDED.stock_quantity,
			status = EXCLUDED.status;
	`

	_, err := r.sqldb.ExecContext(ctx, query,
		p.ProductID, p.Name, p.Category,
		p.UnitPrice.StringFixed(2), p.StockQuantity, p.Status,
	)
	if err != nil {
		return fmt.Errorf("%s: failed to exec: %w", op, err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (domain.Product, error) {
	var (
		p      domain.Product
		priceS string
	)
	err := row.Scan(
		&p.ProductID, &p.Name, &p.Category, &priceS, &p.StockQuantity, &p.Status,
	)
	if err != nil {
		return domain.Product{}, err
	}

	p.UnitPrice, err = decimal.NewFromString(priceS)
	if err != nil {
		return domain.Product{}, err
	}
	return p, nil
}
