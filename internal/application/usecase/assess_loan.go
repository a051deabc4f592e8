package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/quantsingularity/FinovaBank/internal/application/dto"
	"github.com/quantsingularity/FinovaBank/internal/domain/event"
	"github.com/quantsingularity/FinovaBank/internal/domain/port"
	"github.com/quantsingularity/FinovaBank/internal/domain/service"
	"github.com/quantsingularity/FinovaBank/pkg/events"
)

// AssessLoan is the use case for underwriting one loan application.
type AssessLoan struct {
	scorer    *service.LoanScorer
	ledger    *service.Ledger
	publisher port.EventPublisher
	now       func() time.Time
}

// NewAssessLoan creates a new AssessLoan use case.
func NewAssessLoan(scorer *service.LoanScorer, ledger *service.Ledger, publisher port.EventPublisher) *AssessLoan {
	return &AssessLoan{
		scorer:    scorer,
		ledger:    ledger,
		publisher: publisher,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// WithClock overrides the use case clock. Test hook.
func (uc *AssessLoan) WithClock(now func() time.Time) *AssessLoan {
	uc.now = now
	return uc
}

// Execute assesses the application, records the decision and publishes
// decision events. Decisions in the HIGH or VERY_HIGH band additionally
// raise a high-risk alert event.
func (uc *AssessLoan) Execute(ctx context.Context, req dto.ScoreRequest) (dto.LoanAssessmentResponse, error) {
	result, err := uc.scorer.Assess(req.Record, uc.now())
	if err != nil {
		return dto.LoanAssessmentResponse{}, fmt.Errorf("assess loan application: %w", err)
	}

	stored, err := uc.ledger.Append(ctx, service.EventDraft{
		EventType: "loan_risk_assessed",
		ActorID:   req.ActorID,
		SessionID: req.SessionID,
		IPAddress: req.IPAddress,
		Service:   RiskServiceName,
		Action:    "loan_approval",
		Resource:  "loan_application",
		RiskLevel: severityForLevel(result.RiskLevel),
		Data: map[string]any{
			"risk_score":               result.RiskScore,
			"risk_percentage":          result.RiskPercentage,
			"risk_level":               result.RiskLevel,
			"recommendation":           result.Recommendation,
			"interest_rate_adjustment": result.InterestRateAdjustment,
			"used_fallback":            result.UsedFallback,
		},
	})
	if err != nil {
		return dto.LoanAssessmentResponse{}, fmt.Errorf("record loan decision: %w", err)
	}

	evts := []events.DomainEvent{
		event.NewDecisionRecorded(event.DecisionRecordedBody{
			AuditID:    stored.ID(),
			Sequence:   stored.SequenceID(),
			ActorID:    req.ActorID,
			Action:     stored.Action(),
			Tier:       result.RiskLevel,
			Score:      result.RiskPercentage,
			RecordedAt: stored.Timestamp(),
		}),
	}
	if result.RiskLevel == "HIGH" || result.RiskLevel == "VERY_HIGH" {
		evts = append(evts, event.NewHighRiskDetected(event.HighRiskDetectedBody{
			AuditID:    stored.ID(),
			ActorID:    req.ActorID,
			Action:     stored.Action(),
			Tier:       result.RiskLevel,
			Score:      result.RiskPercentage,
			Signals:    []string{result.Recommendation},
			DetectedAt: stored.Timestamp(),
		}))
	}
	if err := uc.publisher.Publish(ctx, evts...); err != nil {
		return dto.LoanAssessmentResponse{}, fmt.Errorf("publish decision events: %w", err)
	}

	return dto.FromLoanResult(stored.ID().String(), result), nil
}
