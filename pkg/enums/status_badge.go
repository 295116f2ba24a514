package enums

import "fmt"

// StatusBadge represents the visual category a status is rendered with.
type StatusBadge string

const (
	StatusBadgeWarning StatusBadge = "warning"
	StatusBadgeInfo    StatusBadge = "info"
	StatusBadgeAccent  StatusBadge = "accent"
	StatusBadgeSuccess StatusBadge = "success"
	StatusBadgeDanger  StatusBadge = "danger"
)

var validStatusBadges = []StatusBadge{
	StatusBadgeWarning,
	StatusBadgeInfo,
	StatusBadgeAccent,
	StatusBadgeSuccess,
	StatusBadgeDanger,
}

// String implements fmt.Stringer.
func (s StatusBadge) String() string {
	return string(s)
}

// IsValid reports whether the value is a known StatusBadge.
func (s StatusBadge) IsValid() bool {
	for _, candidate := range validStatusBadges {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseStatusBadge converts raw input into a StatusBadge.
func ParseStatusBadge(value string) (StatusBadge, error) {
	for _, candidate := range validStatusBadges {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid status badge %q", value)
}
