package event

import (
	"time"

	"github.com/google/uuid"

	"github.com/quantsingularity/FinovaBank/pkg/events"
)

const (
	// EventTypeDecisionRecorded is emitted when a scoring decision is
	// written to the audit ledger.
	EventTypeDecisionRecorded = "risk.decision.recorded"

	// EventTypeHighRiskDetected is emitted when a decision lands in a
	// tier at or above the configured high-severity threshold.
	EventTypeHighRiskDetected = "risk.high_risk.detected"

	// EventTypeViolationDetected is emitted when a compliance check
	// finds at least one hard violation.
	EventTypeViolationDetected = "compliance.violation.detected"
)

// DecisionRecordedBody is the payload of a DecisionRecorded event.
type DecisionRecordedBody struct {
	AuditID    uuid.UUID `json:"audit_id"`
	Sequence   uint64    `json:"sequence"`
	ActorID    string    `json:"actor_id"`
	Action     string    `json:"action"`
	Tier       string    `json:"tier"`
	Score      float64   `json:"score"`
	RecordedAt time.Time `json:"recorded_at"`
}

// NewDecisionRecorded creates the event published after every successful ledger append.
func NewDecisionRecorded(body DecisionRecordedBody) events.DomainEvent {
	return events.NewBaseEvent(EventTypeDecisionRecorded, body.AuditID, "AuditEvent", body)
}

// HighRiskDetectedBody is the payload of a HighRiskDetected event.
type HighRiskDetectedBody struct {
	AuditID    uuid.UUID `json:"audit_id"`
	ActorID    string    `json:"actor_id"`
	Action     string    `json:"action"`
	Tier       string    `json:"tier"`
	Score      float64   `json:"score"`
	Signals    []string  `json:"signals"`
	DetectedAt time.Time `json:"detected_at"`
}

// NewHighRiskDetected creates the event published for decisions in a
// high-severity tier, feeding downstream alerting.
func NewHighRiskDetected(body HighRiskDetectedBody) events.DomainEvent {
	return events.NewBaseEvent(EventTypeHighRiskDetected, body.AuditID, "AuditEvent", body)
}

// ViolationDetectedBody is the payload of a ViolationDetected event.
type ViolationDetectedBody struct {
	CheckID    uuid.UUID `json:"check_id"`
	RecordID   string    `json:"record_id"`
	Rules      []string  `json:"rules"`
	Severity   string    `json:"severity"`
	DetectedAt time.Time `json:"detected_at"`
}

// NewViolationDetected creates the event published when a compliance
// check returns VIOLATION status.
func NewViolationDetected(body ViolationDetectedBody) events.DomainEvent {
	return events.NewBaseEvent(EventTypeViolationDetected, body.CheckID, "ComplianceCheck", body)
}
