package cart

import (
	"github.com/bazarly/storefront-backend/internal/catalog"
	"github.com/bazarly/storefront-backend/pkg/enums"
	"github.com/shopspring/decimal"
)

// LineItem is one cart row: a product snapshot taken at add time plus the
// selected quantity. At most one line item exists per distinct product id.
type LineItem struct {
	Product  catalog.Product `json:"product"`
	Quantity int             `json:"quantity"`
}

// LineValue is the effective unit price times the quantity, rounded to 2dp.
func (li LineItem) LineValue() decimal.Decimal {
	return effectiveUnitPrice(li.Product).Mul(decimal.NewFromInt(int64(li.Quantity))).Round(2)
}

// State is the cart contents with derived totals. Totals are never set
// directly; every transition ends in a recompute pass.
type State struct {
	Items      []LineItem      `json:"items"`
	TotalItems int             `json:"total_items"`
	TotalPrice decimal.Decimal `json:"total_price"`
}

// Empty returns the zero cart with totals initialized.
func Empty() State {
	return recomputeTotals(State{})
}

// ItemFor returns a copy of the line item for the product id.
func (s State) ItemFor(productID int64) (LineItem, bool) {
	for _, item := range s.Items {
		if item.Product.ID == productID {
			return item, true
		}
	}
	return LineItem{}, false
}

// Contains reports whether a line item exists for the product id.
func (s State) Contains(productID int64) bool {
	_, ok := s.ItemFor(productID)
	return ok
}

// QuantityFor returns the in-cart quantity for the product id, zero if absent.
func (s State) QuantityFor(productID int64) int {
	if item, ok := s.ItemFor(productID); ok {
		return item.Quantity
	}
	return 0
}

// Result is the outcome of a cart transition. A rejected transition leaves
// the state unchanged; Remaining carries the stock headroom when the
// rejection was capacity-driven so the caller can surface "only N left".
type Result struct {
	OK        bool               `json:"ok"`
	Reason    enums.RejectReason `json:"reason,omitempty"`
	Remaining *int               `json:"remaining,omitempty"`
}

func accepted() Result {
	return Result{OK: true}
}

func rejected(reason enums.RejectReason) Result {
	return Result{Reason: reason}
}

func rejectedWithRemaining(reason enums.RejectReason, remaining int) Result {
	return Result{Reason: reason, Remaining: &remaining}
}

// recomputeTotals derives TotalItems and TotalPrice from the line items. It
// is idempotent and never fails: malformed price strings count as zero.
func recomputeTotals(s State) State {
	totalItems := 0
	totalPrice := decimal.Zero
	for _, item := range s.Items {
		totalItems += item.Quantity
		totalPrice = totalPrice.Add(effectiveUnitPrice(item.Product).Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	s.TotalItems = totalItems
	s.TotalPrice = totalPrice.Round(2)
	return s
}

func cloneItems(items []LineItem) []LineItem {
	out := make([]LineItem, len(items))
	copy(out, items)
	return out
}

// applyAdd merge-increments an existing line or appends a new one, subject
// to purchasability and the stock ceiling. Pure: the input state is never
// mutated.
func applyAdd(s State, product catalog.Product, quantity int) (State, Result) {
	if quantity < 1 {
		return s, rejected(enums.RejectReasonInvalidQuantity)
	}
	if !IsPurchasable(product) {
		return s, rejected(enums.RejectReasonOutOfStock)
	}

	capacity := RemainingCapacity(product, s.QuantityFor(product.ID))
	if !capacity.Fits(quantity) {
		return s, rejectedWithRemaining(enums.RejectReasonInsufficientStock, capacity.Remaining)
	}

	items := cloneItems(s.Items)
	merged := false
	for i := range items {
		if items[i].Product.ID == product.ID {
			items[i].Quantity += quantity
			merged = true
			break
		}
	}
	if !merged {
		items = append(items, LineItem{Product: product, Quantity: quantity})
	}

	s.Items = items
	return recomputeTotals(s), accepted()
}

// applyUpdate replaces (not increments) the quantity of an existing line.
// A non-positive quantity removes the line; an absent product id is a no-op.
// The stock check uses the snapshot captured at add time; the requested
// replacement quantity must fit the full stock quantity.
func applyUpdate(s State, productID int64, quantity int) (State, Result, *LineItem) {
	if quantity <= 0 {
		next, removed := applyRemove(s, productID)
		return next, accepted(), removed
	}

	item, ok := s.ItemFor(productID)
	if !ok {
		return s, accepted(), nil
	}

	capacity := RemainingCapacity(item.Product, 0)
	if !capacity.Fits(quantity) {
		return s, rejectedWithRemaining(enums.RejectReasonInsufficientStock, capacity.Remaining), nil
	}

	items := cloneItems(s.Items)
	for i := range items {
		if items[i].Product.ID == productID {
			items[i].Quantity = quantity
			break
		}
	}

	s.Items = items
	next := recomputeTotals(s)
	updated, _ := next.ItemFor(productID)
	return next, accepted(), &updated
}

// applyRemove drops the line item for the product id, returning the removed
// line so callers can report it. Absent ids are a no-op.
func applyRemove(s State, productID int64) (State, *LineItem) {
	for i, item := range s.Items {
		if item.Product.ID == productID {
			removed := item
			items := cloneItems(s.Items)
			items = append(items[:i], items[i+1:]...)
			s.Items = items
			return recomputeTotals(s), &removed
		}
	}
	return s, nil
}

// applyClear empties the cart.
func applyClear(s State) State {
	s.Items = nil
	return recomputeTotals(s)
}
