package valueobject

import "fmt"

// Severity is an immutable value object classifying how serious a finding is.
type Severity struct {
	value string
	rank  int
}

var (
	SeverityLow      = Severity{value: "LOW", rank: 1}
	SeverityMedium   = Severity{value: "MEDIUM", rank: 2}
	SeverityHigh     = Severity{value: "HIGH", rank: 3}
	SeverityCritical = Severity{value: "CRITICAL", rank: 4}
)

// SeverityFromString reconstructs a Severity from its string representation.
func SeverityFromString(s string) (Severity, error) {
	switch s {
	case "LOW":
		return SeverityLow, nil
	case "MEDIUM":
		return SeverityMedium, nil
	case "HIGH":
		return SeverityHigh, nil
	case "CRITICAL":
		return SeverityCritical, nil
	default:
		return Severity{}, fmt.Errorf("invalid severity: %s", s)
	}
}

// String returns the string representation.
func (s Severity) String() string {
	return s.value
}

// Rank returns the ordinal position, LOW=1 through CRITICAL=4.
func (s Severity) Rank() int {
	return s.rank
}

// AtLeast reports whether this severity is at or above the given one.
func (s Severity) AtLeast(other Severity) bool {
	return s.rank >= other.rank
}

// IsZero returns true if the Severity has not been set.
func (s Severity) IsZero() bool {
	return s.value == ""
}

// Equal checks equality with another Severity.
func (s Severity) Equal(other Severity) bool {
	return s.value == other.value
}
