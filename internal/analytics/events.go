package analytics

import "github.com/bazarly/storefront-backend/pkg/enums"

// ItemEvent is the tracking payload for add/update/remove cart mutations.
// Price fields are 2-decimal strings so the pixel endpoint receives exactly
// what the cart charged.
type ItemEvent struct {
	ProductID    int64          `json:"product_id"`
	ProductName  string         `json:"product_name"`
	ProductPrice string         `json:"product_price"`
	Currency     enums.Currency `json:"currency"`
	Quantity     int            `json:"quantity"`
	Value        string         `json:"value"`
}

// CheckoutContent is one cart line inside a checkout-level event.
type CheckoutContent struct {
	ID        int64  `json:"id"`
	Quantity  int    `json:"quantity"`
	ItemPrice string `json:"item_price"`
}

// CheckoutEvent is the tracking payload for checkout-level events.
type CheckoutEvent struct {
	Value    string            `json:"value"`
	Currency enums.Currency    `json:"currency"`
	Contents []CheckoutContent `json:"contents"`
}
