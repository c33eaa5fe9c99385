// Package service orchestrates catalog lookups, variation resolution and
// cart mutations on behalf of the presentation layer.
package service

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/maryaskin70/pharma-shop/internal/cart"
	"github.com/maryaskin70/pharma-shop/internal/catalog"
	"github.com/maryaskin70/pharma-shop/internal/domain"
	"github.com/maryaskin70/pharma-shop/internal/order"
	"github.com/maryaskin70/pharma-shop/internal/resolver"
)

// OrderSubmitter delivers a finalized order to the external order endpoint.
type OrderSubmitter interface {
	Submit(ctx context.Context, submission *domain.OrderSubmission) (*domain.OrderConfirmation, error)
}

// ObserverFactory builds a cart observer bound to one session.
type ObserverFactory func(sessionID string) cart.Observer

// Storefront owns one cart per buyer session and runs the resolve-then-add
// flow. Stock is validated here, at the moment of add, because the cart
// store has no catalog reference.
type Storefront struct {
	catalog   *catalog.Service
	assembler *order.Assembler
	submitter OrderSubmitter
	factories []ObserverFactory

	mu    sync.Mutex
	carts map[string]*cart.Store
}

func NewStorefront(cat *catalog.Service, assembler *order.Assembler, submitter OrderSubmitter, factories ...ObserverFactory) *Storefront {
	return &Storefront{
		catalog:   cat,
		assembler: assembler,
		submitter: submitter,
		factories: factories,
		carts:     make(map[string]*cart.Store),
	}
}

// Cart returns the session's cart, creating it on first use.
func (s *Storefront) Cart(sessionID string) *cart.Store {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.carts[sessionID]; ok {
		return c
	}
	c := cart.NewStore()
	for _, factory := range s.factories {
		c.Subscribe(factory(sessionID))
	}
	s.carts[sessionID] = c
	return c
}

func (s *Storefront) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	return s.catalog.GetProduct(ctx, id)
}

func (s *Storefront) FilterProducts(c catalog.Criteria) []*domain.Product {
	return s.catalog.Filter(c)
}

func (s *Storefront) RelatedProducts(productID string, limit int) []*domain.Product {
	return s.catalog.Related(productID, limit)
}

// ResolveOffer resolves the given attribute selection against a product.
// Attributes not mentioned keep their defaults.
func (s *Storefront) ResolveOffer(ctx context.Context, productID string, attrs map[string]string) (domain.ResolvedOffer, error) {
	_, offer, err := s.resolve(ctx, productID, attrs)
	return offer, err
}

func (s *Storefront) resolve(ctx context.Context, productID string, attrs map[string]string) (*domain.Product, domain.ResolvedOffer, error) {
	p, err := s.catalog.GetProduct(ctx, productID)
	if err != nil {
		return nil, domain.ResolvedOffer{}, err
	}

	sel := resolver.NewSelection(p)
	for name, value := range attrs {
		if err := sel.Select(name, value); err != nil {
			return nil, domain.ResolvedOffer{}, fmt.Errorf("%w: %s=%s", err, name, value)
		}
	}
	return p, sel.Offer(), nil
}

// AddToCart resolves the selection, validates stock against the offer plus
// what the cart already holds, and merges the line in. On failure the cart
// is left unchanged.
func (s *Storefront) AddToCart(ctx context.Context, sessionID, productID string, attrs map[string]string, quantity int) (domain.ResolvedOffer, error) {
	if quantity <= 0 {
		return domain.ResolvedOffer{}, cart.ErrInvalidQuantity
	}

	p, offer, err := s.resolve(ctx, productID, attrs)
	if err != nil {
		return domain.ResolvedOffer{}, err
	}
	if offer.State != domain.StateResolved {
		return offer, ErrNotPurchasable
	}

	c := s.Cart(sessionID)
	if !offer.InStock || c.Quantity(offer.ItemID)+quantity > offer.Stock {
		available := offer.Stock
		if !offer.InStock {
			available = 0
		}
		return offer, &InsufficientStockError{ItemID: offer.ItemID, Available: available}
	}

	line := domain.CartLine{
		ItemID:    offer.ItemID,
		Name:      lineName(p, offer),
		UnitPrice: offer.Price,
		Quantity:  quantity,
		Image:     offer.Image,
		Category:  p.Category,
	}
	if err := c.Add(line); err != nil {
		return offer, err
	}
	return offer, nil
}

// UpdateQuantity overwrites a line's quantity; zero or less removes it.
// Clamping to live stock is the caller's concern, per the cart contract.
func (s *Storefront) UpdateQuantity(sessionID, itemID string, quantity int) {
	s.Cart(sessionID).SetQuantity(itemID, quantity)
}

func (s *Storefront) RemoveFromCart(sessionID, itemID string) {
	s.Cart(sessionID).Remove(itemID)
}

func (s *Storefront) ClearCart(sessionID string) {
	s.Cart(sessionID).Clear()
}

// Checkout assembles the order draft, submits it, and clears the cart only
// after the endpoint confirms the order.
func (s *Storefront) Checkout(ctx context.Context, sessionID string, billing domain.BillingDetails, discountCode string) (*domain.OrderConfirmation, error) {
	c := s.Cart(sessionID)

	draft, err := s.assembler.Assemble(ctx, c.Lines(), discountCode)
	if err != nil {
		return nil, err
	}

	confirmation, err := s.submitter.Submit(ctx, &domain.OrderSubmission{
		Billing: billing,
		Draft:   *draft,
	})
	if err != nil {
		return nil, err
	}

	c.Clear()
	return confirmation, nil
}

// lineName extends the product name with the chosen variation attributes,
// in catalog attribute order, e.g. "Sertraline Tablets (Dosage: 50mg)".
func lineName(p *domain.Product, offer domain.ResolvedOffer) string {
	if offer.VariationID == "" {
		return p.Name
	}
	var v *domain.Variation
	for i := range p.Variations {
		if p.Variations[i].ID == offer.VariationID {
			v = &p.Variations[i]
			break
		}
	}
	if v == nil || len(v.Attributes) == 0 {
		return p.Name
	}
	parts := make([]string, 0, len(v.Attributes))
	for _, attr := range p.Attributes {
		if value, ok := v.Attributes[attr.Name]; ok {
			parts = append(parts, fmt.Sprintf("%s: %s", attr.Name, value))
		}
	}
	if len(parts) == 0 {
		return p.Name
	}
	return fmt.Sprintf("%s (%s)", p.Name, strings.Join(parts, ", "))
}
