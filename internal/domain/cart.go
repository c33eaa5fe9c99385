package domain

// CartLine is one entry in a cart, uniquely keyed by purchasable-item
// identifier. UnitPrice is captured at add time so later catalog price
// changes do not retroactively alter cart totals.
type CartLine struct {
	ItemID    string  `json:"item_id"`
	Name      string  `json:"name"`
	UnitPrice float64 `json:"unit_price"`
	Quantity  int     `json:"quantity"`
	Image     string  `json:"image,omitempty"`
	Category  string  `json:"category,omitempty"`
}

// LineTotal is the extended price of the line.
func (l CartLine) LineTotal() float64 {
	return l.UnitPrice * float64(l.Quantity)
}
