package domain

import "github.com/shopspring/decimal"

type (
	// CartLine is one prospective purchase: the quoted name and unit
	// price are captured at add time and used for the final order.
	CartLine struct {
		ProductID string
		Name      string
		UnitPrice decimal.Decimal
		Quantity  int
	}

	// StockLine is the ledger-facing projection of a cart line.
	StockLine struct {
		ProductID string
		Quantity  int
	}
)

// Cart accumulates lines in insertion order, one line per product.
// It is a plain value; the owning service serializes access.
type Cart struct {
	lines []CartLine
}

// Upsert adds the line, merging quantity into an existing line for the
// same product instead of duplicating it.
func (c *Cart) Upsert(line CartLine) {
	for i := range c.lines {
		if c.lines[i].ProductID == line.ProductID {
			c.lines[i].Quantity += line.Quantity
			return
		}
	}
	c.lines = append(c.lines, line)
}

func (c *Cart) Remove(productID string) bool {
	for i := range c.lines {
		if c.lines[i].ProductID == productID {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			return true
		}
	}
	return false
}

func (c *Cart) Clear() {
	c.lines = nil
}

func (c *Cart) Quantity(productID string) int {
	for _, l := range c.lines {
		if l.ProductID == productID {
			return l.Quantity
		}
	}
	return 0
}

func (c *Cart) Lines() []CartLine {
	lines := make([]CartLine, len(c.lines))
	copy(lines, c.lines)
	return lines
}

func (c *Cart) Empty() bool {
	return len(c.lines) == 0
}

func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, l := range c.lines {
		lineTotal := l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
		total = total.Add(lineTotal)
	}
	return total
}
