package usecase

import "github.com/quantsingularity/FinovaBank/internal/domain/valueobject"

// severityForLevel maps a scorer's risk-level name onto an audit
// severity. Unknown names classify low rather than failing the append.
func severityForLevel(level string) valueobject.Severity {
	switch level {
	case "CRITICAL", "VERY_HIGH":
		return valueobject.SeverityCritical
	case "HIGH":
		return valueobject.SeverityHigh
	case "MEDIUM":
		return valueobject.SeverityMedium
	default:
		return valueobject.SeverityLow
	}
}
