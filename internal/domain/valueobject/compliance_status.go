package valueobject

import "fmt"

// ComplianceStatus is the aggregate outcome of a compliance check.
// A record is COMPLIANT unless at least one hard violation was found;
// soft alerts alone do not change the status.
type ComplianceStatus struct {
	value string
}

var (
	StatusCompliant = ComplianceStatus{value: "COMPLIANT"}
	StatusViolation = ComplianceStatus{value: "VIOLATION"}
)

// ComplianceStatusFromString reconstructs a ComplianceStatus from its string representation.
func ComplianceStatusFromString(s string) (ComplianceStatus, error) {
	switch s {
	case "COMPLIANT":
		return StatusCompliant, nil
	case "VIOLATION":
		return StatusViolation, nil
	default:
		return ComplianceStatus{}, fmt.Errorf("invalid compliance status: %s", s)
	}
}

// String returns the string representation.
func (c ComplianceStatus) String() string {
	return c.value
}

// IsZero returns true if the ComplianceStatus has not been set.
func (c ComplianceStatus) IsZero() bool {
	return c.value == ""
}

// IsViolation returns true if the status is VIOLATION.
func (c ComplianceStatus) IsViolation() bool {
	return c.value == "VIOLATION"
}

// Equal checks equality with another ComplianceStatus.
func (c ComplianceStatus) Equal(other ComplianceStatus) bool {
	return c.value == other.value
}
