package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/quantsingularity/FinovaBank/internal/application/dto"
	"github.com/quantsingularity/FinovaBank/internal/domain/event"
	"github.com/quantsingularity/FinovaBank/internal/domain/port"
	"github.com/quantsingularity/FinovaBank/internal/domain/service"
	"github.com/quantsingularity/FinovaBank/internal/domain/valueobject"
)

// RiskServiceName tags audit events recorded by the scoring use cases.
const RiskServiceName = "risk-assessment"

// ScoreCredit is the use case for computing a consumer credit score.
type ScoreCredit struct {
	scorer    *service.CreditScorer
	ledger    *service.Ledger
	publisher port.EventPublisher
	now       func() time.Time
}

// NewScoreCredit creates a new ScoreCredit use case.
func NewScoreCredit(scorer *service.CreditScorer, ledger *service.Ledger, publisher port.EventPublisher) *ScoreCredit {
	return &ScoreCredit{
		scorer:    scorer,
		ledger:    ledger,
		publisher: publisher,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// WithClock overrides the use case clock. Test hook.
func (uc *ScoreCredit) WithClock(now func() time.Time) *ScoreCredit {
	uc.now = now
	return uc
}

// Execute scores the application, records the decision on the audit
// ledger and publishes the decision event. The decision is stored
// before publishing; a publish failure is returned but does not undo
// the append.
func (uc *ScoreCredit) Execute(ctx context.Context, req dto.ScoreRequest) (dto.CreditScoreResponse, error) {
	result, err := uc.scorer.Score(req.Record, uc.now())
	if err != nil {
		return dto.CreditScoreResponse{}, fmt.Errorf("score credit application: %w", err)
	}

	riskLevel := valueobject.SeverityLow
	switch result.RecommendedAction {
	case "DECLINE":
		riskLevel = valueobject.SeverityHigh
	case "MANUAL_REVIEW":
		riskLevel = valueobject.SeverityMedium
	}

	stored, err := uc.ledger.Append(ctx, service.EventDraft{
		EventType: "credit_score_computed",
		ActorID:   req.ActorID,
		SessionID: req.SessionID,
		IPAddress: req.IPAddress,
		Service:   RiskServiceName,
		Action:    "credit_score",
		Resource:  "credit_application",
		RiskLevel: riskLevel,
		Data: map[string]any{
			"credit_score":       result.CreditScore,
			"grade":              result.Grade,
			"recommended_action": result.RecommendedAction,
			"utilization_pct":    result.UtilizationPct,
			"used_fallback":      result.UsedFallback,
		},
	})
	if err != nil {
		return dto.CreditScoreResponse{}, fmt.Errorf("record credit decision: %w", err)
	}

	evt := event.NewDecisionRecorded(event.DecisionRecordedBody{
		AuditID:    stored.ID(),
		Sequence:   stored.SequenceID(),
		ActorID:    req.ActorID,
		Action:     stored.Action(),
		Tier:       result.Grade,
		Score:      float64(result.CreditScore),
		RecordedAt: stored.Timestamp(),
	})
	if err := uc.publisher.Publish(ctx, evt); err != nil {
		return dto.CreditScoreResponse{}, fmt.Errorf("publish decision event: %w", err)
	}

	return dto.FromCreditResult(stored.ID().String(), result), nil
}
