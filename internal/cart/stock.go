package cart

import (
	"github.com/bazarly/storefront-backend/internal/catalog"
	"github.com/bazarly/storefront-backend/pkg/enums"
)

// Capacity is the stock headroom left for a product. Unbounded means the
// catalog does not track a finite stock quantity for it.
type Capacity struct {
	Remaining int
	Unbounded bool
}

// Fits reports whether the requested quantity fits the capacity.
func (c Capacity) Fits(requested int) bool {
	return c.Unbounded || requested <= c.Remaining
}

// IsPurchasable reports whether the product can be added at all.
func IsPurchasable(p catalog.Product) bool {
	return p.StockStatus != enums.StockStatusOutOfStock
}

// RemainingCapacity returns the quantity headroom given what is already in
// the cart. Products that are not stock-managed, or whose stock quantity is
// unknown, have unbounded capacity.
func RemainingCapacity(p catalog.Product, alreadyInCart int) Capacity {
	if !p.ManageStock || p.StockQuantity == nil {
		return Capacity{Unbounded: true}
	}
	remaining := *p.StockQuantity - alreadyInCart
	if remaining < 0 {
		remaining = 0
	}
	return Capacity{Remaining: remaining}
}

// CanAdd reports whether adding the requested quantity on top of what is
// already in the cart respects both purchasability and the stock ceiling.
func CanAdd(p catalog.Product, alreadyInCart, requested int) bool {
	return IsPurchasable(p) && RemainingCapacity(p, alreadyInCart).Fits(requested)
}
