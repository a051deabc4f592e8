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

// FraudServiceName tags audit events recorded by the fraud use cases.
const FraudServiceName = "fraud-detection"

// AnalyzeFraud is the use case for scoring transactions for fraud risk,
// single or in batch.
type AnalyzeFraud struct {
	scorer    *service.FraudScorer
	ledger    *service.Ledger
	publisher port.EventPublisher
	now       func() time.Time
}

// NewAnalyzeFraud creates a new AnalyzeFraud use case.
func NewAnalyzeFraud(scorer *service.FraudScorer, ledger *service.Ledger, publisher port.EventPublisher) *AnalyzeFraud {
	return &AnalyzeFraud{
		scorer:    scorer,
		ledger:    ledger,
		publisher: publisher,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// WithClock overrides the use case clock. Test hook.
func (uc *AnalyzeFraud) WithClock(now func() time.Time) *AnalyzeFraud {
	uc.now = now
	return uc
}

// Execute scores one transaction, records the outcome and publishes
// decision events. HIGH outcomes additionally raise a high-risk alert.
func (uc *AnalyzeFraud) Execute(ctx context.Context, req dto.TransactionRequest) (dto.FraudAnalysisResponse, error) {
	result, err := uc.scorer.Analyze(req.ToRecord(), uc.now())
	if err != nil {
		return dto.FraudAnalysisResponse{}, fmt.Errorf("analyze transaction: %w", err)
	}

	stored, err := uc.ledger.Append(ctx, service.EventDraft{
		EventType:  "fraud_risk_analyzed",
		ActorID:    req.ActorID,
		Service:    FraudServiceName,
		Action:     "fraud_analysis",
		Resource:   "transaction",
		ResourceID: result.TransactionID,
		RiskLevel:  severityForLevel(result.RiskLevel),
		Data: map[string]any{
			"risk_score":         result.RiskScore,
			"risk_level":         result.RiskLevel,
			"recommended_action": result.RecommendedAction,
			"indicators":         result.Indicators,
		},
	})
	if err != nil {
		return dto.FraudAnalysisResponse{}, fmt.Errorf("record fraud analysis: %w", err)
	}

	evts := []events.DomainEvent{
		event.NewDecisionRecorded(event.DecisionRecordedBody{
			AuditID:    stored.ID(),
			Sequence:   stored.SequenceID(),
			ActorID:    req.ActorID,
			Action:     stored.Action(),
			Tier:       result.RiskLevel,
			Score:      result.RiskScore,
			RecordedAt: stored.Timestamp(),
		}),
	}
	if result.RiskLevel == "HIGH" {
		evts = append(evts, event.NewHighRiskDetected(event.HighRiskDetectedBody{
			AuditID:    stored.ID(),
			ActorID:    req.ActorID,
			Action:     stored.Action(),
			Tier:       result.RiskLevel,
			Score:      result.RiskScore,
			Signals:    result.Indicators,
			DetectedAt: stored.Timestamp(),
		}))
	}
	if err := uc.publisher.Publish(ctx, evts...); err != nil {
		return dto.FraudAnalysisResponse{}, fmt.Errorf("publish fraud events: %w", err)
	}

	return dto.FromFraudAnalysis(result), nil
}

// ExecuteBatch scores a batch of transactions. The batch is analytical
// throughput work, so it records one summary event instead of one per
// transaction.
func (uc *AnalyzeFraud) ExecuteBatch(ctx context.Context, req dto.BatchFraudRequest) (dto.BatchFraudResponse, error) {
	records := make([]service.Record, 0, len(req.Transactions))
	for _, tx := range req.Transactions {
		records = append(records, service.Record(tx))
	}

	result, err := uc.scorer.AnalyzeBatch(req.BatchID, records, uc.now())
	if err != nil {
		return dto.BatchFraudResponse{}, fmt.Errorf("analyze transaction batch: %w", err)
	}

	batchRisk := severityForLevel("LOW")
	if result.CountsByLevel["HIGH"] > 0 {
		batchRisk = severityForLevel("HIGH")
	}
	if _, err := uc.ledger.Append(ctx, service.EventDraft{
		EventType:  "fraud_batch_analyzed",
		ActorID:    req.ActorID,
		Service:    FraudServiceName,
		Action:     "fraud_analysis",
		Resource:   "transaction_batch",
		ResourceID: result.BatchID,
		RiskLevel:  batchRisk,
		Data: map[string]any{
			"total_transactions": result.TotalTransactions,
			"counts_by_level":    result.CountsByLevel,
		},
	}); err != nil {
		return dto.BatchFraudResponse{}, fmt.Errorf("record batch analysis: %w", err)
	}

	return dto.FromBatchFraudAnalysis(result), nil
}
