package valueobject

import "fmt"

// IntegrityStatus is the outcome of verifying a stored audit event
// against its recorded payload hash.
type IntegrityStatus struct {
	value string
}

var (
	IntegrityVerified    = IntegrityStatus{value: "VERIFIED"}
	IntegrityCompromised = IntegrityStatus{value: "COMPROMISED"}
	IntegrityNotFound    = IntegrityStatus{value: "NOT_FOUND"}
)

// IntegrityStatusFromString reconstructs an IntegrityStatus from its string representation.
func IntegrityStatusFromString(s string) (IntegrityStatus, error) {
	switch s {
	case "VERIFIED":
		return IntegrityVerified, nil
	case "COMPROMISED":
		return IntegrityCompromised, nil
	case "NOT_FOUND":
		return IntegrityNotFound, nil
	default:
		return IntegrityStatus{}, fmt.Errorf("invalid integrity status: %s", s)
	}
}

// String returns the string representation.
func (i IntegrityStatus) String() string {
	return i.value
}

// IsZero returns true if the IntegrityStatus has not been set.
func (i IntegrityStatus) IsZero() bool {
	return i.value == ""
}

// Equal checks equality with another IntegrityStatus.
func (i IntegrityStatus) Equal(other IntegrityStatus) bool {
	return i.value == other.value
}
