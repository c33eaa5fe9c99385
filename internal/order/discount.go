package order

import (
	"context"
	"strings"
)

type DiscountType string

const (
	DiscountFixed      DiscountType = "fixed"
	DiscountPercentage DiscountType = "percentage"
)

// Discount is a resolved discount code. Amount is a currency amount for
// fixed discounts and a percentage of the subtotal for percentage ones.
type Discount struct {
	Code   string
	Type   DiscountType
	Amount float64
}

// AmountFor converts the discount into a currency amount for the given
// subtotal.
func (d Discount) AmountFor(subtotal float64) float64 {
	switch d.Type {
	case DiscountFixed:
		return d.Amount
	case DiscountPercentage:
		return subtotal * d.Amount / 100
	default:
		return 0
	}
}

// DiscountResolver looks up a discount code. An unknown code reports false;
// it is never an error.
type DiscountResolver interface {
	ResolveCode(ctx context.Context, code string) (Discount, bool)
}

// StaticDiscounts is a fixed in-memory code registry, keyed by uppercase
// code.
type StaticDiscounts map[string]Discount

func (s StaticDiscounts) ResolveCode(_ context.Context, code string) (Discount, bool) {
	d, ok := s[strings.ToUpper(strings.TrimSpace(code))]
	return d, ok
}
