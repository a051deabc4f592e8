package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/quantsingularity/FinovaBank/internal/application/dto"
	"github.com/quantsingularity/FinovaBank/internal/domain/service"
	"github.com/quantsingularity/FinovaBank/internal/domain/valueobject"
)

// AssessPortfolio is the use case for assessing a whole loan book.
type AssessPortfolio struct {
	analyzer *service.PortfolioAnalyzer
	ledger   *service.Ledger
	now      func() time.Time
}

// NewAssessPortfolio creates a new AssessPortfolio use case.
func NewAssessPortfolio(analyzer *service.PortfolioAnalyzer, ledger *service.Ledger) *AssessPortfolio {
	return &AssessPortfolio{
		analyzer: analyzer,
		ledger:   ledger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// WithClock overrides the use case clock. Test hook.
func (uc *AssessPortfolio) WithClock(now func() time.Time) *AssessPortfolio {
	uc.now = now
	return uc
}

// Execute assesses the portfolio and records a summary of the run on
// the audit ledger. Individual loans inside the book are isolated by
// the analyzer; a malformed loan is skipped, not fatal.
func (uc *AssessPortfolio) Execute(ctx context.Context, req dto.PortfolioRequest) (dto.PortfolioResponse, error) {
	records := make([]service.Record, 0, len(req.Loans))
	for _, loan := range req.Loans {
		records = append(records, service.Record(loan))
	}

	result, err := uc.analyzer.Assess(req.PortfolioID, records, uc.now())
	if err != nil {
		return dto.PortfolioResponse{}, fmt.Errorf("assess portfolio: %w", err)
	}

	riskLevel := valueobject.SeverityLow
	if result.HighRiskLoans > 0 {
		riskLevel = valueobject.SeverityMedium
	}
	if _, err := uc.ledger.Append(ctx, service.EventDraft{
		EventType:  "portfolio_assessed",
		ActorID:    req.ActorID,
		Service:    RiskServiceName,
		Action:     "portfolio_assessment",
		Resource:   "loan_portfolio",
		ResourceID: result.PortfolioID,
		RiskLevel:  riskLevel,
		Data: map[string]any{
			"total_loans":        result.TotalLoans,
			"total_exposure":     result.TotalExposure,
			"portfolio_risk_pct": result.PortfolioRiskPct,
			"high_risk_loans":    result.HighRiskLoans,
			"value_at_risk_95":   result.ValueAtRisk95,
		},
	}); err != nil {
		return dto.PortfolioResponse{}, fmt.Errorf("record portfolio assessment: %w", err)
	}

	return dto.FromPortfolioResult(result), nil
}
