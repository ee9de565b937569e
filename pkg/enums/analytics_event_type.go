package enums

import "fmt"

// AnalyticsEventType is the canonical event_type for tracking payloads.
type AnalyticsEventType string

const (
	AnalyticsEventAddToCart      AnalyticsEventType = "add_to_cart"
	AnalyticsEventUpdateCart     AnalyticsEventType = "update_cart"
	AnalyticsEventRemoveFromCart AnalyticsEventType = "remove_from_cart"
	AnalyticsEventBeginCheckout  AnalyticsEventType = "begin_checkout"
)

var validAnalyticsEventTypes = []AnalyticsEventType{
	AnalyticsEventAddToCart,
	AnalyticsEventUpdateCart,
	AnalyticsEventRemoveFromCart,
	AnalyticsEventBeginCheckout,
}

// String implements fmt.Stringer.
func (a AnalyticsEventType) String() string {
	return string(a)
}

// IsValid reports whether the value matches the canonical analytics event_type enum.
func (a AnalyticsEventType) IsValid() bool {
	for _, candidate := range validAnalyticsEventTypes {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseAnalyticsEventType converts the raw string to AnalyticsEventType.
func ParseAnalyticsEventType(value string) (AnalyticsEventType, error) {
	for _, candidate := range validAnalyticsEventTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid analytics event type %q", value)
}
