// Package order turns cart contents into a submittable order payload and
// delivers it to the external order endpoint.
package order

import (
	"context"
	"errors"
	"time"

	"github.com/maryaskin70/pharma-shop/internal/domain"
)

var ErrEmptyCart = errors.New("cart is empty, nothing to order")

// ShippingRule prices shipping as a flat amount, waived once the subtotal
// reaches FreeThreshold. A zero threshold disables free shipping.
type ShippingRule struct {
	FlatAmount    float64
	FreeThreshold float64
}

func (r ShippingRule) AmountFor(subtotal float64) float64 {
	if r.FreeThreshold > 0 && subtotal >= r.FreeThreshold {
		return 0
	}
	return r.FlatAmount
}

// Assembler combines cart lines with shipping, tax and discount adjustments
// into an order draft. It is a pure combination step: unknown discount codes
// resolve to zero, and the only failure mode is an empty cart.
type Assembler struct {
	Shipping  ShippingRule
	TaxRate   float64 // fraction of the subtotal, e.g. 0.10
	Discounts DiscountResolver
}

func (a *Assembler) Assemble(ctx context.Context, lines []domain.CartLine, discountCode string) (*domain.OrderDraft, error) {
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}

	var subtotal float64
	for _, line := range lines {
		subtotal += line.LineTotal()
	}

	shipping := a.Shipping.AmountFor(subtotal)
	tax := subtotal * a.TaxRate

	var discount float64
	if discountCode != "" && a.Discounts != nil {
		if d, ok := a.Discounts.ResolveCode(ctx, discountCode); ok {
			discount = d.AmountFor(subtotal)
		}
	}

	grand := subtotal + shipping + tax - discount
	if grand < 0 {
		grand = 0
	}

	copied := make([]domain.CartLine, len(lines))
	copy(copied, lines)

	return &domain.OrderDraft{
		Subtotal:       subtotal,
		ShippingAmount: shipping,
		TaxAmount:      tax,
		DiscountAmount: discount,
		GrandTotal:     grand,
		Currency:       "USD",
		Lines:          copied,
		CreatedAt:      time.Now(),
	}, nil
}
