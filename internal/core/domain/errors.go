package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrProductNotFound   = errors.New("product not found")
	ErrProductDisabled   = errors.New("product disabled")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrLockTimeout       = errors.New("stock lock timeout")
	ErrInvalidQuantity   = errors.New("invalid quantity")
	ErrInvalidPrice      = errors.New("invalid price")
	ErrEmptyCart         = errors.New("empty cart")
	ErrInvalidPayment    = errors.New("invalid payment")
)

// LineReason names the cart line a commit rejected and why.
type LineReason struct {
	ProductID string
	Err       error
}

func (r LineReason) String() string {
	return fmt.Sprintf("product %q: %v", r.ProductID, r.Err)
}

// CheckoutError carries one reason per failing cart line, never just
// the first, so the shopper can fix the whole cart at once.
type CheckoutError struct {
	Lines []LineReason
}

func (e *CheckoutError) Error() string {
	reasons := make([]string, len(e.Lines))
	for i, l := range e.Lines {
		reasons[i] = l.String()
	}
	return "checkout rejected: " + strings.Join(reasons, "; ")
}

// InvalidPaymentError names the first offending payment field.
type InvalidPaymentError struct {
	Field  string
	Reason string
}

func (e *InvalidPaymentError) Error() string {
	return fmt.Sprintf("%v: field %q: %s", ErrInvalidPayment, e.Field, e.Reason)
}

func (e *InvalidPaymentError) Unwrap() error {
	return ErrInvalidPayment
}
