package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/quantsingularity/FinovaBank/internal/domain/valueobject"
)

// AuditEvent is the root aggregate of the audit ledger. It is an
// immutable, hashed record of one decision or action. The payload held
// here is the sanitized form; raw input never reaches this type.
//
// Events are value types: the ledger hands out copies, so no caller can
// mutate the stored sequence. An event is never updated after creation;
// only a retention-policy purge may remove it.
type AuditEvent struct {
	sequenceID     uint64
	id             uuid.UUID
	timestamp      time.Time
	actorID        string
	sessionID      string
	ipAddress      string
	userAgent      string
	service        string
	action         string
	resource       string
	resourceID     string
	status         string
	errorMessage   string
	payload        map[string]any
	payloadHash    string
	riskLevel      valueobject.Severity
	tags           []string
	retentionYears int
}

// NewAuditEvent assembles an audit event from ledger-prepared parts.
// The payload must already be sanitized and payloadHash computed over
// it; the sequence id is zero until the store assigns one.
func NewAuditEvent(
	timestamp time.Time,
	actorID, sessionID, ipAddress, userAgent string,
	service, action, resource, resourceID string,
	status, errorMessage string,
	payload map[string]any,
	payloadHash string,
	riskLevel valueobject.Severity,
	tags []string,
	retentionYears int,
) (AuditEvent, error) {
	if action == "" {
		return AuditEvent{}, fmt.Errorf("action is required")
	}
	if timestamp.IsZero() {
		return AuditEvent{}, fmt.Errorf("timestamp is required")
	}
	if payloadHash == "" {
		return AuditEvent{}, fmt.Errorf("payload hash is required")
	}
	if riskLevel.IsZero() {
		riskLevel = valueobject.SeverityLow
	}
	if retentionYears <= 0 {
		return AuditEvent{}, fmt.Errorf("retention years must be positive, got %d", retentionYears)
	}
	if status == "" {
		status = "SUCCESS"
	}

	return AuditEvent{
		id:             uuid.New(),
		timestamp:      timestamp.UTC(),
		actorID:        actorID,
		sessionID:      sessionID,
		ipAddress:      ipAddress,
		userAgent:      userAgent,
		service:        service,
		action:         action,
		resource:       resource,
		resourceID:     resourceID,
		status:         status,
		errorMessage:   errorMessage,
		payload:        copyPayload(payload),
		payloadHash:    payloadHash,
		riskLevel:      riskLevel,
		tags:           append([]string(nil), tags...),
		retentionYears: retentionYears,
	}, nil
}

// Reconstruct rebuilds an AuditEvent from persisted data (no validation).
func Reconstruct(
	sequenceID uint64,
	id uuid.UUID,
	timestamp time.Time,
	actorID, sessionID, ipAddress, userAgent string,
	service, action, resource, resourceID string,
	status, errorMessage string,
	payload map[string]any,
	payloadHash string,
	riskLevel valueobject.Severity,
	tags []string,
	retentionYears int,
) AuditEvent {
	return AuditEvent{
		sequenceID:     sequenceID,
		id:             id,
		timestamp:      timestamp,
		actorID:        actorID,
		sessionID:      sessionID,
		ipAddress:      ipAddress,
		userAgent:      userAgent,
		service:        service,
		action:         action,
		resource:       resource,
		resourceID:     resourceID,
		status:         status,
		errorMessage:   errorMessage,
		payload:        copyPayload(payload),
		payloadHash:    payloadHash,
		riskLevel:      riskLevel,
		tags:           append([]string(nil), tags...),
		retentionYears: retentionYears,
	}
}

// WithSequence returns a copy of the event carrying the assigned
// sequence id. Called exactly once by the audit store during append.
func (e AuditEvent) WithSequence(seq uint64) AuditEvent {
	stamped := e
	stamped.sequenceID = seq
	return stamped
}

// HasTag reports whether the event carries the given classification tag.
func (e AuditEvent) HasTag(tag string) bool {
	for _, t := range e.tags {
		if t == tag {
			return true
		}
	}
	return false
}

// --- Accessors ---

func (e AuditEvent) SequenceID() uint64              { return e.sequenceID }
func (e AuditEvent) ID() uuid.UUID                   { return e.id }
func (e AuditEvent) Timestamp() time.Time            { return e.timestamp }
func (e AuditEvent) ActorID() string                 { return e.actorID }
func (e AuditEvent) SessionID() string               { return e.sessionID }
func (e AuditEvent) IPAddress() string               { return e.ipAddress }
func (e AuditEvent) UserAgent() string               { return e.userAgent }
func (e AuditEvent) Service() string                 { return e.service }
func (e AuditEvent) Action() string                  { return e.action }
func (e AuditEvent) Resource() string                { return e.resource }
func (e AuditEvent) ResourceID() string              { return e.resourceID }
func (e AuditEvent) Status() string                  { return e.status }
func (e AuditEvent) ErrorMessage() string            { return e.errorMessage }
func (e AuditEvent) PayloadHash() string             { return e.payloadHash }
func (e AuditEvent) RiskLevel() valueobject.Severity { return e.riskLevel }
func (e AuditEvent) RetentionYears() int             { return e.retentionYears }

// Payload returns a copy of the sanitized payload.
func (e AuditEvent) Payload() map[string]any {
	return copyPayload(e.payload)
}

// Tags returns a copy of the classification tags.
func (e AuditEvent) Tags() []string {
	return append([]string(nil), e.tags...)
}

func copyPayload(payload map[string]any) map[string]any {
	if payload == nil {
		return map[string]any{}
	}
	copied := make(map[string]any, len(payload))
	for k, v := range payload {
		copied[k] = v
	}
	return copied
}
