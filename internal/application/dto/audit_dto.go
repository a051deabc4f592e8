package dto

import (
	"time"

	"github.com/quantsingularity/FinovaBank/internal/domain/model"
	"github.com/quantsingularity/FinovaBank/internal/domain/service"
)

// RecordEventRequest is the input for recording an audit event.
type RecordEventRequest struct {
	EventType    string         `json:"event_type"`
	ActorID      string         `json:"actor_id"`
	SessionID    string         `json:"session_id"`
	IPAddress    string         `json:"ip_address"`
	UserAgent    string         `json:"user_agent"`
	Service      string         `json:"service"`
	Action       string         `json:"action"`
	Resource     string         `json:"resource"`
	ResourceID   string         `json:"resource_id"`
	Status       string         `json:"status"`
	ErrorMessage string         `json:"error_message"`
	RiskLevel    string         `json:"risk_level"`
	Data         map[string]any `json:"data"`
}

// AuditEventDTO is the transport form of one stored audit event.
type AuditEventDTO struct {
	SequenceID     uint64         `json:"sequence_id"`
	AuditID        string         `json:"audit_id"`
	Timestamp      time.Time      `json:"timestamp"`
	ActorID        string         `json:"actor_id"`
	Service        string         `json:"service"`
	Action         string         `json:"action"`
	Resource       string         `json:"resource"`
	ResourceID     string         `json:"resource_id"`
	Status         string         `json:"status"`
	Payload        map[string]any `json:"payload"`
	PayloadHash    string         `json:"payload_hash"`
	RiskLevel      string         `json:"risk_level"`
	Tags           []string       `json:"tags"`
	RetentionYears int            `json:"retention_years"`
}

// FromAuditEvent maps a stored event to its transport form.
func FromAuditEvent(e model.AuditEvent) AuditEventDTO {
	return AuditEventDTO{
		SequenceID:     e.SequenceID(),
		AuditID:        e.ID().String(),
		Timestamp:      e.Timestamp(),
		ActorID:        e.ActorID(),
		Service:        e.Service(),
		Action:         e.Action(),
		Resource:       e.Resource(),
		ResourceID:     e.ResourceID(),
		Status:         e.Status(),
		Payload:        e.Payload(),
		PayloadHash:    e.PayloadHash(),
		RiskLevel:      e.RiskLevel().String(),
		Tags:           e.Tags(),
		RetentionYears: e.RetentionYears(),
	}
}

// FromAuditEvents maps a slice of stored events.
func FromAuditEvents(events []model.AuditEvent) []AuditEventDTO {
	out := make([]AuditEventDTO, 0, len(events))
	for _, e := range events {
		out = append(out, FromAuditEvent(e))
	}
	return out
}

// QueryEventsRequest is the input for querying the audit trail.
// Zero-valued fields are ignored.
type QueryEventsRequest struct {
	From        time.Time `json:"from"`
	To          time.Time `json:"to"`
	ActorID     string    `json:"actor_id"`
	Action      string    `json:"action"`
	Service     string    `json:"service"`
	Tag         string    `json:"tag"`
	MinSeverity string    `json:"min_severity"`
	Limit       int       `json:"limit"`
}

// VerifyEventRequest asks for an integrity check of one stored event.
type VerifyEventRequest struct {
	AuditID string `json:"audit_id"`
}

// VerifyEventResponse is the integrity check outcome.
type VerifyEventResponse struct {
	AuditID      string    `json:"audit_id"`
	Status       string    `json:"status"`
	StoredHash   string    `json:"stored_hash,omitempty"`
	ComputedHash string    `json:"computed_hash,omitempty"`
	Timestamp    time.Time `json:"timestamp"`
	VerifiedAt   time.Time `json:"verified_at"`
}

// FromVerifyResult maps the domain result to the response DTO.
func FromVerifyResult(r service.VerifyResult) VerifyEventResponse {
	return VerifyEventResponse{
		AuditID:      r.AuditID.String(),
		Status:       r.Status.String(),
		StoredHash:   r.StoredHash,
		ComputedHash: r.ComputedHash,
		Timestamp:    r.Timestamp,
		VerifiedAt:   r.VerifiedAt,
	}
}

// ActivityReportRequest selects the ledger window to summarize.
type ActivityReportRequest struct {
	From        time.Time `json:"from"`
	To          time.Time `json:"to"`
	Tag         string    `json:"tag"`
	Service     string    `json:"service"`
	MinSeverity string    `json:"min_severity"`
	Limit       int       `json:"limit"`
}

// ActorActivityDTO is one ranked actor.
type ActorActivityDTO struct {
	ActorID string `json:"actor_id"`
	Count   int    `json:"count"`
}

// ActivityReportResponse is the ledger summary output.
type ActivityReportResponse struct {
	TotalEvents    int                `json:"total_events"`
	CountsByTier   map[string]int     `json:"counts_by_tier"`
	CountsByAction map[string]int     `json:"counts_by_action"`
	CountsByActor  map[string]int     `json:"counts_by_actor"`
	CountsByTag    map[string]int     `json:"counts_by_tag"`
	TopActors      []ActorActivityDTO `json:"top_actors"`
	UniqueActors   int                `json:"unique_actors"`
	Anomalies      []AuditEventDTO    `json:"anomalies"`
	Status         string             `json:"status"`
	GeneratedAt    time.Time          `json:"generated_at"`
}

// FromReport maps the domain report to the response DTO.
func FromReport(r service.Report) ActivityReportResponse {
	actors := make([]ActorActivityDTO, 0, len(r.TopActors))
	for _, a := range r.TopActors {
		actors = append(actors, ActorActivityDTO{ActorID: a.ActorID, Count: a.Count})
	}
	return ActivityReportResponse{
		TotalEvents:    r.TotalEvents,
		CountsByTier:   r.CountsByTier,
		CountsByAction: r.CountsByAction,
		CountsByActor:  r.CountsByActor,
		CountsByTag:    r.CountsByTag,
		TopActors:      actors,
		UniqueActors:   r.UniqueActors,
		Anomalies:      FromAuditEvents(r.Anomalies),
		Status:         r.Status,
		GeneratedAt:    r.GeneratedAt,
	}
}
