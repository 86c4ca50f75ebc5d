package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

type ProductStatus string

const (
	StatusEnabled  ProductStatus = "enabled"
	StatusDisabled ProductStatus = "disabled"
)

const CategoryOther = "Other"

var knownCategories = map[string]struct{}{
	"Cosmetics":   {},
	"Hygiene":     {},
	"Fragrance":   {},
	"Household":   {},
	CategoryOther: {},
}

type Product struct {
	ProductID     string
	Name          string
	Category      string
	UnitPrice     decimal.Decimal
	StockQuantity int
	Status        ProductStatus
}

// NormalizeCategory maps free-text categories onto the known set,
// falling back to [CategoryOther].
func NormalizeCategory(category string) string {
	if _, ok := knownCategories[category]; ok {
		return category
	}
	return CategoryOther
}

// Validate checks boundary constraints for an admin-authored product.
// Unit price must be positive with at most 2 fractional digits.
func (p Product) Validate() error {
	const op = "Product.Validate"

	var errs []error

	if p.Name == "" {
		errs = append(errs, errors.New("name is empty"))
	}
	if !p.UnitPrice.IsPositive() {
		errs = append(errs, fmt.Errorf("%w: not positive", ErrInvalidPrice))
	}
	if p.UnitPrice.Exponent() < -2 {
		errs = append(errs, fmt.Errorf(
			"%w: more than 2 fractional digits", ErrInvalidPrice,
		))
	}
	if p.StockQuantity < 0 {
		errs = append(errs, fmt.Errorf("%w: negative stock", ErrInvalidQuantity))
	}
	switch p.Status {
	case StatusEnabled, StatusDisabled:
	default:
		errs = append(errs, fmt.Errorf("unknown status %q", p.Status))
	}

	if len(errs) != 0 {
		return fmt.Errorf("%s: %w", op, errors.Join(errs...))
	}
	return nil
}

func (p Product) Sellable() bool {
	return p.Status == StatusEnabled && p.StockQuantity > 0
}
