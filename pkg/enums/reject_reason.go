package enums

import "fmt"

// RejectReason explains why a cart mutation was refused.
type RejectReason string

const (
	RejectReasonOutOfStock        RejectReason = "out_of_stock"
	RejectReasonInsufficientStock RejectReason = "insufficient_stock"
	RejectReasonInvalidQuantity   RejectReason = "invalid_quantity"
)

var validRejectReasons = []RejectReason{
	RejectReasonOutOfStock,
	RejectReasonInsufficientStock,
	RejectReasonInvalidQuantity,
}

// String implements fmt.Stringer.
func (r RejectReason) String() string {
	return string(r)
}

// IsValid reports whether the value matches a known RejectReason.
func (r RejectReason) IsValid() bool {
	for _, candidate := range validRejectReasons {
		if candidate == r {
			return true
		}
	}
	return false
}

// ParseRejectReason converts raw input into a RejectReason.
func ParseRejectReason(value string) (RejectReason, error) {
	for _, candidate := range validRejectReasons {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid reject reason %q", value)
}
