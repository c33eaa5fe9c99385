package domain

// ResolveState tracks how far a buyer's attribute selection has progressed
// towards a purchasable item.
type ResolveState string

const (
	// StateUnselected means no variation-relevant attribute is chosen.
	StateUnselected ResolveState = "unselected"
	// StatePartial means some but not all variation attributes are chosen.
	StatePartial ResolveState = "partial"
	// StateResolved means the selection maps to exactly one purchasable item.
	StateResolved ResolveState = "resolved"
	// StateNoMatch means every attribute is chosen but no variation carries
	// that combination. This is a valid terminal state, not an error; the
	// caller must disable purchase actions.
	StateNoMatch ResolveState = "no_match"
)

func (s ResolveState) String() string {
	return string(s)
}

// ResolvedOffer is the effective purchasing terms for the current attribute
// selection. ItemID is the purchasable-item identifier used as the cart line
// key: the variation ID for variable products, the product ID for simple
// ones. ItemID is empty unless State is StateResolved.
type ResolvedOffer struct {
	State       ResolveState `json:"state"`
	ItemID      string       `json:"item_id,omitempty"`
	VariationID string       `json:"variation_id,omitempty"`
	Price       float64      `json:"price"`
	Stock       int          `json:"stock"`
	InStock     bool         `json:"in_stock"`
	SKU         string       `json:"sku,omitempty"`
	Image       string       `json:"image,omitempty"`
}
