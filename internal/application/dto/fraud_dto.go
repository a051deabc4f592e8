package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/quantsingularity/FinovaBank/internal/domain/service"
)

// TransactionRequest is the input for single-transaction fraud analysis.
// Amount is carried as a decimal and folded into the record, so callers
// sending exact monetary values never lose precision on the way in.
type TransactionRequest struct {
	Record  map[string]any  `json:"record"`
	Amount  decimal.Decimal `json:"amount"`
	ActorID string          `json:"actor_id"`
}

// ToRecord merges the typed amount into the raw record.
func (r TransactionRequest) ToRecord() map[string]any {
	rec := make(map[string]any, len(r.Record)+1)
	for k, v := range r.Record {
		rec[k] = v
	}
	if !r.Amount.IsZero() {
		rec["amount"] = r.Amount
	}
	return rec
}

// BatchFraudRequest is the input for batch fraud analysis.
type BatchFraudRequest struct {
	BatchID      string           `json:"batch_id"`
	Transactions []map[string]any `json:"transactions"`
	ActorID      string           `json:"actor_id"`
}

// FraudAnalysisResponse is the output for one analyzed transaction.
type FraudAnalysisResponse struct {
	TransactionID     string    `json:"transaction_id"`
	RiskScore         float64   `json:"risk_score"`
	RiskLevel         string    `json:"risk_level"`
	RecommendedAction string    `json:"recommended_action"`
	Indicators        []string  `json:"indicators"`
	FeaturesAnalyzed  int       `json:"features_analyzed"`
	ComputedAt        time.Time `json:"computed_at"`
}

// FromFraudAnalysis maps the domain result to the response DTO.
func FromFraudAnalysis(r service.FraudAnalysis) FraudAnalysisResponse {
	return FraudAnalysisResponse{
		TransactionID:     r.TransactionID,
		RiskScore:         r.RiskScore,
		RiskLevel:         r.RiskLevel,
		RecommendedAction: r.RecommendedAction,
		Indicators:        r.Indicators,
		FeaturesAnalyzed:  r.FeaturesAnalyzed,
		ComputedAt:        r.ComputedAt,
	}
}

// BatchFraudResponse is the output for one analyzed batch.
type BatchFraudResponse struct {
	BatchID           string                  `json:"batch_id"`
	TotalTransactions int                     `json:"total_transactions"`
	CountsByLevel     map[string]int          `json:"counts_by_level"`
	Results           []FraudAnalysisResponse `json:"results"`
	ComputedAt        time.Time               `json:"computed_at"`
}

// FromBatchFraudAnalysis maps the domain result to the response DTO.
func FromBatchFraudAnalysis(r service.BatchFraudAnalysis) BatchFraudResponse {
	results := make([]FraudAnalysisResponse, 0, len(r.Results))
	for _, analysis := range r.Results {
		results = append(results, FromFraudAnalysis(analysis))
	}
	return BatchFraudResponse{
		BatchID:           r.BatchID,
		TotalTransactions: r.TotalTransactions,
		CountsByLevel:     r.CountsByLevel,
		Results:           results,
		ComputedAt:        r.ComputedAt,
	}
}
