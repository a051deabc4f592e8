package service_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantsingularity/FinovaBank/internal/domain/service"
)

var portfolioNow = time.Date(2024, 3, 13, 12, 0, 0, 0, time.UTC)

func newPortfolioAnalyzer() *service.PortfolioAnalyzer {
	extractor := service.NewFactorExtractor(nil)
	return service.NewPortfolioAnalyzer(
		service.NewLoanScorer(extractor, service.NewScoreEngine(nil)),
		service.NewDefaultProbabilityScorer(extractor),
	)
}

func safeLoan() service.Record {
	return service.Record{
		"loan_id":                   "ln-001",
		"credit_score":              760,
		"monthly_income":            8000.0,
		"annual_income":             96000.0,
		"monthly_debt":              500.0,
		"estimated_monthly_payment": 1200.0,
		"employment_months":         30,
		"loan_amount":               200000.0,
		"collateral_value":          250000.0,
		"income_verified":           true,
		"has_collateral":            true,
		"industry":                  "healthcare",
	}
}

func riskyLoan() service.Record {
	return service.Record{
		"loan_id":                   "ln-002",
		"credit_score":              550,
		"monthly_income":            3000.0,
		"annual_income":             36000.0,
		"monthly_debt":              1500.0,
		"estimated_monthly_payment": 800.0,
		"employment_months":         3,
		"loan_amount":               100000.0,
		"industry":                  "retail",
	}
}

func TestPortfolioAnalyzer_AggregatesExposureWeightedRisk(t *testing.T) {
	analyzer := newPortfolioAnalyzer()

	assessment, err := analyzer.Assess("pf-1", []service.Record{safeLoan(), riskyLoan()}, portfolioNow)
	require.NoError(t, err)

	assert.Equal(t, "pf-1", assessment.PortfolioID)
	assert.Equal(t, 2, assessment.TotalLoans)
	assert.InDelta(t, 300000.0, assessment.TotalExposure, 1e-9)
	assert.Equal(t, map[string]int{"LOW": 1, "VERY_HIGH": 1}, assessment.RiskDistribution)
	assert.Equal(t, 1, assessment.HighRiskLoans)
	assert.Equal(t, map[string]int{"Very Good": 1, "Poor": 1}, assessment.CreditDistribution)
	assert.Equal(t, portfolioNow, assessment.ComputedAt)

	// (3.5 * 200000 + 59 * 100000) / 300000.
	assert.InDelta(t, 22.0, assessment.PortfolioRiskPct, 0.01)

	require.Len(t, assessment.Loans, 2)
	safe, risky := assessment.Loans[0], assessment.Loans[1]
	assert.Equal(t, "ln-001", safe.LoanID)
	assert.Equal(t, "LOW", safe.RiskLevel)
	assert.Equal(t, "VERY_HIGH", risky.RiskLevel)
	assert.Greater(t, risky.DefaultProbability, safe.DefaultProbability)
}

func TestPortfolioAnalyzer_ExpectedLossTracksDefaultProbability(t *testing.T) {
	analyzer := newPortfolioAnalyzer()

	assessment, err := analyzer.Assess("pf-1", []service.Record{safeLoan(), riskyLoan()}, portfolioNow)
	require.NoError(t, err)

	var sum float64
	for _, loan := range assessment.Loans {
		assert.InDelta(t, loan.DefaultProbability/100*loan.LoanAmount, loan.ExpectedLoss, 0.01)
		assert.Positive(t, loan.ExpectedLoss)
		sum += loan.ExpectedLoss
	}
	assert.InDelta(t, sum, assessment.TotalExpectedLoss, 0.02)
	assert.InDelta(t, assessment.TotalExpectedLoss/assessment.TotalExposure*100, assessment.ExpectedLossRate, 0.01)
}

func TestPortfolioAnalyzer_ValueAtRiskInterpolatesTopLosses(t *testing.T) {
	analyzer := newPortfolioAnalyzer()

	assessment, err := analyzer.Assess("pf-1", []service.Record{safeLoan(), riskyLoan()}, portfolioNow)
	require.NoError(t, err)

	low, high := assessment.Loans[0].ExpectedLoss, assessment.Loans[1].ExpectedLoss
	if low > high {
		low, high = high, low
	}
	assert.InDelta(t, low*0.05+high*0.95, assessment.ValueAtRisk95, 0.01)
}

func TestPortfolioAnalyzer_ConcentrationByIndustry(t *testing.T) {
	analyzer := newPortfolioAnalyzer()

	assessment, err := analyzer.Assess("pf-1", []service.Record{safeLoan(), riskyLoan()}, portfolioNow)
	require.NoError(t, err)

	assert.InDelta(t, 200000.0, assessment.Concentration["healthcare"], 1e-9)
	assert.InDelta(t, 100000.0, assessment.Concentration["retail"], 1e-9)

	// Healthcare is 200k of a 300k book.
	assert.InDelta(t, 66.67, assessment.MaxConcentration, 0.01)
}

func TestPortfolioAnalyzer_NilLoanIsAssessedWithDefaults(t *testing.T) {
	analyzer := newPortfolioAnalyzer()

	assessment, err := analyzer.Assess("pf-1", []service.Record{safeLoan(), nil}, portfolioNow)
	require.NoError(t, err)

	assert.Equal(t, 2, assessment.TotalLoans)
	require.Len(t, assessment.Loans, 2)
	assert.Empty(t, assessment.Loans[1].LoanID)
	assert.Zero(t, assessment.Loans[1].LoanAmount)
}

func TestPortfolioAnalyzer_EmptyBookIsAnError(t *testing.T) {
	analyzer := newPortfolioAnalyzer()

	_, err := analyzer.Assess("pf-1", nil, portfolioNow)
	assert.Error(t, err)
}
