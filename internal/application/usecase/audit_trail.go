package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/quantsingularity/FinovaBank/internal/application/dto"
	"github.com/quantsingularity/FinovaBank/internal/domain/event"
	"github.com/quantsingularity/FinovaBank/internal/domain/port"
	"github.com/quantsingularity/FinovaBank/internal/domain/service"
	"github.com/quantsingularity/FinovaBank/internal/domain/valueobject"
)

// AuditTrail is the use case covering the ledger surface: recording
// caller-supplied events, querying, integrity verification and the
// activity summary.
type AuditTrail struct {
	ledger     *service.Ledger
	aggregator *service.ReportAggregator
	publisher  port.EventPublisher
}

// NewAuditTrail creates a new AuditTrail use case.
func NewAuditTrail(ledger *service.Ledger, aggregator *service.ReportAggregator, publisher port.EventPublisher) *AuditTrail {
	return &AuditTrail{ledger: ledger, aggregator: aggregator, publisher: publisher}
}

// Record appends one caller-supplied event to the ledger and publishes
// the recorded-decision event. An empty risk level defaults to LOW.
func (uc *AuditTrail) Record(ctx context.Context, req dto.RecordEventRequest) (dto.AuditEventDTO, error) {
	riskLevel := valueobject.SeverityLow
	if req.RiskLevel != "" {
		parsed, err := valueobject.SeverityFromString(req.RiskLevel)
		if err != nil {
			return dto.AuditEventDTO{}, fmt.Errorf("parse risk level: %w", err)
		}
		riskLevel = parsed
	}

	stored, err := uc.ledger.Append(ctx, service.EventDraft{
		EventType:    req.EventType,
		ActorID:      req.ActorID,
		SessionID:    req.SessionID,
		IPAddress:    req.IPAddress,
		UserAgent:    req.UserAgent,
		Service:      req.Service,
		Action:       req.Action,
		Resource:     req.Resource,
		ResourceID:   req.ResourceID,
		Status:       req.Status,
		ErrorMessage: req.ErrorMessage,
		RiskLevel:    riskLevel,
		Data:         req.Data,
	})
	if err != nil {
		return dto.AuditEventDTO{}, fmt.Errorf("record audit event: %w", err)
	}

	evt := event.NewDecisionRecorded(event.DecisionRecordedBody{
		AuditID:    stored.ID(),
		Sequence:   stored.SequenceID(),
		ActorID:    stored.ActorID(),
		Action:     stored.Action(),
		Tier:       stored.RiskLevel().String(),
		RecordedAt: stored.Timestamp(),
	})
	if err := uc.publisher.Publish(ctx, evt); err != nil {
		return dto.AuditEventDTO{}, fmt.Errorf("publish recorded event: %w", err)
	}

	return dto.FromAuditEvent(stored), nil
}

// Query returns events matching the request, newest first.
func (uc *AuditTrail) Query(ctx context.Context, req dto.QueryEventsRequest) ([]dto.AuditEventDTO, error) {
	filter, err := auditFilter(req.From, req.To, req.ActorID, req.Action, req.Service, req.Tag, req.MinSeverity, req.Limit)
	if err != nil {
		return nil, err
	}
	events, err := uc.ledger.Query(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("query audit trail: %w", err)
	}
	return dto.FromAuditEvents(events), nil
}

// Verify runs an integrity check on one stored event.
func (uc *AuditTrail) Verify(ctx context.Context, req dto.VerifyEventRequest) (dto.VerifyEventResponse, error) {
	id, err := uuid.Parse(req.AuditID)
	if err != nil {
		return dto.VerifyEventResponse{}, fmt.Errorf("parse audit id: %w", err)
	}
	result, err := uc.ledger.Verify(ctx, id)
	if err != nil {
		return dto.VerifyEventResponse{}, fmt.Errorf("verify audit event: %w", err)
	}
	return dto.FromVerifyResult(result), nil
}

// Summarize builds the activity report over the selected window.
func (uc *AuditTrail) Summarize(ctx context.Context, req dto.ActivityReportRequest) (dto.ActivityReportResponse, error) {
	filter, err := auditFilter(req.From, req.To, "", "", req.Service, req.Tag, req.MinSeverity, req.Limit)
	if err != nil {
		return dto.ActivityReportResponse{}, err
	}
	report, err := uc.aggregator.Summarize(ctx, filter)
	if err != nil {
		return dto.ActivityReportResponse{}, fmt.Errorf("summarize activity: %w", err)
	}
	return dto.FromReport(report), nil
}

func auditFilter(from, to time.Time, actorID, action, svc, tag, minSeverity string, limit int) (port.AuditFilter, error) {
	filter := port.AuditFilter{
		From:    from,
		To:      to,
		ActorID: actorID,
		Action:  action,
		Service: svc,
		Tag:     tag,
		Limit:   limit,
	}
	if minSeverity != "" {
		parsed, err := valueobject.SeverityFromString(minSeverity)
		if err != nil {
			return port.AuditFilter{}, fmt.Errorf("parse minimum severity: %w", err)
		}
		filter.MinSeverity = parsed
	}
	return filter, nil
}
