package payment

import (
	"regexp"

	validatorv10 "github.com/go-playground/validator/v10"

	"github.com/botifalho/storefront/internal/core/domain"
	"github.com/botifalho/storefront/internal/core/port"
)

var _ port.Payment = (*Card)(nil)
var _ port.Payment = (*CashEquivalent)(nil)

var (
	expiryRe = regexp.MustCompile(`^\d{2}/\d{2}$`)
	digitsRe = regexp.MustCompile(`^\d+$`)
)

var validate = newValidator()

func newValidator() *validatorv10.Validate {
	v := validatorv10.New()

	// card expiry must look like MM/YY
	err := v.RegisterValidation("expiry", func(fl validatorv10.FieldLevel) bool {
		return expiryRe.MatchString(fl.Field().String())
	})
	if err != nil {
		panic(err) // develop mistake
	}

	// digits only, no sign or decimal point
	err = v.RegisterValidation("digits", func(fl validatorv10.FieldLevel) bool {
		return digitsRe.MatchString(fl.Field().String())
	})
	if err != nil {
		panic(err) // develop mistake
	}
	return v
}

type cardFields struct {
	Number string `validate:"required,min=16,digits"`
	Holder string `validate:"required"`
	Expiry string `validate:"required,expiry"`
	CVC    string `validate:"required,min=3,digits"`
}

var cardFieldNames = map[string]string{
	"Number": "card_number",
	"Holder": "card_holder",
	"Expiry": "card_expiry",
	"CVC":    "card_cvc",
}

// Card covers both credit and debit card methods.
type Card struct {
	Kind   domain.PaymentMethod
	Number string
	Holder string
	Expiry string
	CVC    string
}

func (c Card) Method() domain.PaymentMethod {
	return c.Kind
}

func (c Card) Validate() error {
	switch c.Kind {
	case domain.PaymentCardCredit, domain.PaymentCardDebit:
	default:
		return &domain.InvalidPaymentError{
			Field: "method", Reason: "unknown card method",
		}
	}

	fields := cardFields{
		Number: c.Number,
		Holder: c.Holder,
		Expiry: c.Expiry,
		CVC:    c.CVC,
	}

	err := validate.Struct(fields)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validatorv10.ValidationErrors)
	if !ok || len(verrs) == 0 {
		return &domain.InvalidPaymentError{Field: "card", Reason: err.Error()}
	}

	fe := verrs[0]
	return &domain.InvalidPaymentError{
		Field:  cardFieldNames[fe.Field()],
		Reason: failReason(fe),
	}
}

func failReason(fe validatorv10.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return "is too short"
	case "digits":
		return "must contain only digits"
	case "expiry":
		return "must match MM/YY"
	default:
		return "is invalid"
	}
}

// CashEquivalent is the Pix-style method: nothing to validate beyond
// the method tag itself.
type CashEquivalent struct{}

func (CashEquivalent) Method() domain.PaymentMethod {
	return domain.PaymentCashEquivalent
}

func (CashEquivalent) Validate() error {
	return nil
}

// FromRequest builds the payment capability for a method tag and its
// card fields, which may be empty for cash-equivalent payments.
func FromRequest(
	method domain.PaymentMethod, number, holder, expiry, cvc string,
) (port.Payment, error) {
	switch method {
	case domain.PaymentCardCredit, domain.PaymentCardDebit:
		return Card{
			Kind:   method,
			Number: number,
			Holder: holder,
			Expiry: expiry,
			CVC:    cvc,
		}, nil
	case domain.PaymentCashEquivalent:
		return CashEquivalent{}, nil
	default:
		return nil, &domain.InvalidPaymentError{
			Field: "method", Reason: "unknown payment method",
		}
	}
}
