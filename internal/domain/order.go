package domain

import "time"

// BillingDetails are the buyer-entered checkout fields.
type BillingDetails struct {
	FirstName     string `json:"first_name"`
	LastName      string `json:"last_name"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	Address       string `json:"address"`
	City          string `json:"city"`
	State         string `json:"state"`
	Postcode      string `json:"postcode"`
	Country       string `json:"country"`
	Notes         string `json:"notes,omitempty"`
	CreateAccount bool   `json:"create_account,omitempty"`
}

// OrderDraft is the fully priced cart state submitted to the order endpoint.
type OrderDraft struct {
	Subtotal       float64    `json:"subtotal"`
	ShippingAmount float64    `json:"shipping_amount"`
	TaxAmount      float64    `json:"tax_amount"`
	DiscountAmount float64    `json:"discount_amount"`
	GrandTotal     float64    `json:"grand_total"`
	Currency       string     `json:"currency"`
	Lines          []CartLine `json:"lines"`
	CreatedAt      time.Time  `json:"created_at"`
}

// OrderSubmission is the payload sent to the external order endpoint.
type OrderSubmission struct {
	Billing BillingDetails `json:"billing"`
	Draft   OrderDraft     `json:"order"`
}

// OrderConfirmation is returned by the order endpoint on success.
type OrderConfirmation struct {
	OrderID string `json:"order_id"`
	Status  string `json:"status"`
}
