// Package resolver maps a buyer's attribute selection on one product to a
// concrete purchasable variation and its effective price, stock and SKU.
package resolver

import (
	"errors"

	"github.com/maryaskin70/pharma-shop/internal/domain"
)

var (
	ErrUnknownAttribute = errors.New("attribute not defined for product")
	ErrUnknownOption    = errors.New("option not allowed for attribute")
)

// Selection holds the current attribute choices for one product within one
// browsing session. The offer is recomputed from the full selection map on
// every call; no history is retained.
type Selection struct {
	product *domain.Product
	chosen  map[string]string
}

// NewSelection starts a selection pre-populated with the product's default
// attributes, falling back to the first option of each variation attribute.
// The initial state is therefore Resolved or Partial, never ambiguous.
func NewSelection(p *domain.Product) *Selection {
	s := &Selection{product: p, chosen: make(map[string]string)}
	if p.Type != domain.ProductTypeVariable {
		return s
	}
	for _, attr := range p.VariationAttributes() {
		if v, ok := p.DefaultAttributes[attr.Name]; ok {
			s.chosen[attr.Name] = v
			continue
		}
		if len(attr.Options) > 0 {
			s.chosen[attr.Name] = attr.Options[0]
		}
	}
	return s
}

// Select chooses an option for one attribute. The attribute must exist on
// the product and the value must be one of its options.
func (s *Selection) Select(name, value string) error {
	for _, attr := range s.product.Attributes {
		if attr.Name != name {
			continue
		}
		for _, opt := range attr.Options {
			if opt == value {
				s.chosen[name] = value
				return nil
			}
		}
		return ErrUnknownOption
	}
	return ErrUnknownAttribute
}

// Clear drops the choice for one attribute. Clearing an unchosen attribute
// is a no-op.
func (s *Selection) Clear(name string) {
	delete(s.chosen, name)
}

// Selected returns a copy of the current selection map.
func (s *Selection) Selected() map[string]string {
	out := make(map[string]string, len(s.chosen))
	for k, v := range s.chosen {
		out[k] = v
	}
	return out
}

// Offer derives the effective purchasing terms from the current selection.
// Simple products bypass the state machine and are always resolved to their
// base fields. For non-resolved states the offer carries the base price and
// image for display, but no purchasable item.
func (s *Selection) Offer() domain.ResolvedOffer {
	p := s.product
	if p.Type != domain.ProductTypeVariable {
		return domain.ResolvedOffer{
			State:   domain.StateResolved,
			ItemID:  p.ID,
			Price:   p.Price,
			Stock:   p.Stock,
			InStock: p.InStock,
			SKU:     p.SKU,
			Image:   p.Image(),
		}
	}

	needed := p.VariationAttributes()
	chosen := 0
	for _, attr := range needed {
		if _, ok := s.chosen[attr.Name]; ok {
			chosen++
		}
	}

	switch {
	case chosen == 0 && len(needed) > 0:
		return s.displayOffer(domain.StateUnselected)
	case chosen < len(needed):
		return s.displayOffer(domain.StatePartial)
	}

	// Duplicate combinations are forbidden by the catalog invariant; if one
	// slips through, the first variation in catalog order wins.
	for _, v := range p.Variations {
		if s.matchesVariation(v) {
			image := v.Image
			if image == "" {
				image = p.Image()
			}
			return domain.ResolvedOffer{
				State:       domain.StateResolved,
				ItemID:      v.ID,
				VariationID: v.ID,
				Price:       v.Price,
				Stock:       v.Stock,
				InStock:     v.InStock,
				SKU:         v.SKU,
				Image:       image,
			}
		}
	}

	return s.displayOffer(domain.StateNoMatch)
}

func (s *Selection) matchesVariation(v domain.Variation) bool {
	for name, value := range v.Attributes {
		if s.chosen[name] != value {
			return false
		}
	}
	return true
}

func (s *Selection) displayOffer(state domain.ResolveState) domain.ResolvedOffer {
	return domain.ResolvedOffer{
		State: state,
		Price: s.product.Price,
		Image: s.product.Image(),
	}
}
