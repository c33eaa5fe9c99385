package domain

type ProductType string

const (
	ProductTypeSimple   ProductType = "simple"
	ProductTypeVariable ProductType = "variable"
)

// Attribute describes one configurable axis of a variable product,
// e.g. Dosage with options 25mg/50mg/100mg.
type Attribute struct {
	Name             string   `json:"name"`
	Options          []string `json:"options"`
	UsedForVariation bool     `json:"used_for_variation"`
	Visible          bool     `json:"visible"`
}

// Variation is one concrete attribute combination of a variable product,
// carrying its own price, stock and SKU. Attributes must cover every
// UsedForVariation attribute of the parent product.
type Variation struct {
	ID           string            `json:"id"`
	ProductID    string            `json:"product_id"`
	Attributes   map[string]string `json:"attributes"`
	Price        float64           `json:"price"`
	RegularPrice float64           `json:"regular_price,omitempty"`
	SalePrice    float64           `json:"sale_price,omitempty"`
	Stock        int               `json:"stock"`
	InStock      bool              `json:"in_stock"`
	SKU          string            `json:"sku"`
	Image        string            `json:"image,omitempty"`
}

// Product is an immutable catalog record. Simple products are purchasable
// as-is; variable products are purchasable only through one of their
// variations.
type Product struct {
	ID                string
	Name              string
	Category          string
	Brand             string
	Price             float64
	Stock             int
	InStock           bool
	SKU               string
	Description       string
	Type              ProductType
	Attributes        []Attribute
	Variations        []Variation
	DefaultAttributes map[string]string
	Images            []string
}

// Image returns the primary gallery image, or "" when the product has none.
func (p *Product) Image() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}

// VariationAttributes returns the attributes that participate in variation
// matching, in catalog order.
func (p *Product) VariationAttributes() []Attribute {
	var attrs []Attribute
	for _, a := range p.Attributes {
		if a.UsedForVariation {
			attrs = append(attrs, a)
		}
	}
	return attrs
}
