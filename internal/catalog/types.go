package catalog

import "github.com/bazarly/storefront-backend/pkg/enums"

// Image is a catalog image reference.
type Image struct {
	Src string `json:"src"`
	Alt string `json:"alt,omitempty"`
}

// Product is the catalog shape consumed from the commerce platform. Cart line
// items hold it by value as a snapshot taken at add time; the cart never
// refreshes it. Price fields are decimal-bearing strings as delivered by the
// platform and may carry currency symbols or thousands separators.
type Product struct {
	ID            int64             `json:"id"`
	Name          string            `json:"name"`
	Price         string            `json:"price"`
	RegularPrice  string            `json:"regular_price,omitempty"`
	SalePrice     string            `json:"sale_price,omitempty"`
	Images        []Image           `json:"images,omitempty"`
	StockQuantity *int              `json:"stock_quantity"`
	ManageStock   bool              `json:"manage_stock"`
	StockStatus   enums.StockStatus `json:"stock_status"`
}

// EffectiveUnitPriceString picks the raw price string the cart should charge:
// the sale price when present and distinct from the regular price, else the
// regular price, else the base price field.
func (p Product) EffectiveUnitPriceString() string {
	if p.SalePrice != "" && p.SalePrice != p.RegularPrice {
		return p.SalePrice
	}
	if p.RegularPrice != "" {
		return p.RegularPrice
	}
	return p.Price
}

// OnSale reports whether the product carries a distinct sale price.
func (p Product) OnSale() bool {
	return p.SalePrice != "" && p.RegularPrice != "" && p.SalePrice != p.RegularPrice
}
