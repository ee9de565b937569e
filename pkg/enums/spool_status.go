package enums

import "fmt"

// SpoolStatus tracks delivery state of locally spooled analytics events.
type SpoolStatus string

const (
	SpoolStatusPending   SpoolStatus = "pending"
	SpoolStatusDelivered SpoolStatus = "delivered"
	SpoolStatusFailed    SpoolStatus = "failed"
)

var validSpoolStatuses = []SpoolStatus{
	SpoolStatusPending,
	SpoolStatusDelivered,
	SpoolStatusFailed,
}

// String implements fmt.Stringer.
func (s SpoolStatus) String() string {
	return string(s)
}

// IsValid reports whether the value matches a known SpoolStatus.
func (s SpoolStatus) IsValid() bool {
	for _, candidate := range validSpoolStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseSpoolStatus converts raw input into a SpoolStatus.
func ParseSpoolStatus(value string) (SpoolStatus, error) {
	for _, candidate := range validSpoolStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid spool status %q", value)
}
