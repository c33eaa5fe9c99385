package catalog

import (
	"errors"
	"strings"

	"github.com/maryaskin70/pharma-shop/internal/domain"
)

var ErrProductNotFound = errors.New("product not found")

// Wildcard values recognized by Criteria; the empty string works the same.
const (
	CategoryAll = "All Products"
	BrandAll    = "All Brands"
)

// Criteria configures Filter. Category and Brand are exact matches unless
// set to a wildcard. The price range is inclusive; MaxPrice <= 0 leaves the
// upper bound open. Search is a case-insensitive substring match against
// name, description, category and brand.
type Criteria struct {
	Category string
	Brand    string
	MinPrice float64
	MaxPrice float64
	Search   string
}

// Index is a read-only lookup over an immutable catalog snapshot. It is safe
// for concurrent readers without locking.
type Index struct {
	products []*domain.Product
	byID     map[string]*domain.Product
}

func NewIndex(products []*domain.Product) *Index {
	byID := make(map[string]*domain.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	return &Index{products: products, byID: byID}
}

func (i *Index) FindByID(id string) (*domain.Product, error) {
	p, ok := i.byID[id]
	if !ok {
		return nil, ErrProductNotFound
	}
	return p, nil
}

// Products returns the full snapshot in catalog order.
func (i *Index) Products() []*domain.Product {
	out := make([]*domain.Product, len(i.products))
	copy(out, i.products)
	return out
}

// Filter returns the products matching every criterion, in catalog order.
// It never fails; an empty slice means nothing matched.
func (i *Index) Filter(c Criteria) []*domain.Product {
	matched := make([]*domain.Product, 0)
	for _, p := range i.products {
		if matches(p, c) {
			matched = append(matched, p)
		}
	}
	return matched
}

// Related returns up to limit products sharing the category of the given
// product, excluding the product itself.
func (i *Index) Related(productID string, limit int) []*domain.Product {
	p, ok := i.byID[productID]
	if !ok {
		return nil
	}
	related := make([]*domain.Product, 0, limit)
	for _, other := range i.products {
		if other.ID == p.ID || other.Category != p.Category {
			continue
		}
		related = append(related, other)
		if len(related) == limit {
			break
		}
	}
	return related
}

func matches(p *domain.Product, c Criteria) bool {
	if c.Category != "" && c.Category != CategoryAll && p.Category != c.Category {
		return false
	}
	if c.Brand != "" && c.Brand != BrandAll && p.Brand != c.Brand {
		return false
	}
	if p.Price < c.MinPrice {
		return false
	}
	if c.MaxPrice > 0 && p.Price > c.MaxPrice {
		return false
	}
	if c.Search != "" {
		q := strings.ToLower(c.Search)
		if !strings.Contains(strings.ToLower(p.Name), q) &&
			!strings.Contains(strings.ToLower(p.Description), q) &&
			!strings.Contains(strings.ToLower(p.Category), q) &&
			!strings.Contains(strings.ToLower(p.Brand), q) {
			return false
		}
	}
	return true
}
