package cart

import (
	cartsvc "github.com/bazarly/storefront-backend/internal/cart"
)

type itemView struct {
	ProductID int64  `json:"product_id"`
	Name      string `json:"name"`
	UnitPrice string `json:"unit_price"`
	Quantity  int    `json:"quantity"`
	LineTotal string `json:"line_total"`
	ImageSrc  string `json:"image_src,omitempty"`
	OnSale    bool   `json:"on_sale,omitempty"`
}

type resultView struct {
	OK        bool   `json:"ok"`
	Reason    string `json:"reason,omitempty"`
	Remaining *int   `json:"remaining,omitempty"`
}

type cartView struct {
	Items      []itemView  `json:"items"`
	TotalItems int         `json:"total_items"`
	TotalPrice string      `json:"total_price"`
	Result     *resultView `json:"result,omitempty"`
}

func newCartView(state cartsvc.State) cartView {
	items := make([]itemView, 0, len(state.Items))
	for _, item := range state.Items {
		view := itemView{
			ProductID: item.Product.ID,
			Name:      item.Product.Name,
			UnitPrice: item.Product.EffectiveUnitPriceString(),
			Quantity:  item.Quantity,
			LineTotal: item.LineValue().StringFixed(2),
			OnSale:    item.Product.OnSale(),
		}
		if len(item.Product.Images) > 0 {
			view.ImageSrc = item.Product.Images[0].Src
		}
		items = append(items, view)
	}
	return cartView{
		Items:      items,
		TotalItems: state.TotalItems,
		TotalPrice: state.TotalPrice.StringFixed(2),
	}
}

func newCartViewWithResult(state cartsvc.State, result cartsvc.Result) cartView {
	view := newCartView(state)
	view.Result = &resultView{
		OK:        result.OK,
		Reason:    result.Reason.String(),
		Remaining: result.Remaining,
	}
	return view
}
