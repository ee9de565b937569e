package cart

// AddItemRequest adds a quantity of one product to the cart.
type AddItemRequest struct {
	ProductID int64 `json:"product_id" validate:"required,gt=0"`
	Quantity  int   `json:"quantity" validate:"required"`
}

// UpdateItemRequest replaces the quantity of an existing line. Zero is
// legal and removes the line, hence the pointer.
type UpdateItemRequest struct {
	Quantity *int `json:"quantity" validate:"required"`
}
