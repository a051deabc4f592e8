package service_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantsingularity/FinovaBank/internal/domain/service"
)

func newHealthScorer() *service.HealthScorer {
	return service.NewHealthScorer(service.NewScoreEngine(nil))
}

func TestHealthScorer_HealthyProfileGradesA(t *testing.T) {
	scorer := newHealthScorer()
	now := time.Date(2024, 3, 13, 12, 0, 0, 0, time.UTC)

	result, err := scorer.Score(service.Record{
		"annual_income":    120000.0,
		"monthly_expenses": 5000.0,
		"current_savings":  30000.0,
		"total_debt":       20000.0,
		"credit_score":     750,
	}, now)
	require.NoError(t, err)

	// savings 100, emergency 100, debt 66.7, credit 81.8, equal weights.
	assert.InDelta(t, 87.1, result.OverallScore, 0.1)
	assert.Equal(t, "A", result.Grade)
	assert.Equal(t, "MAINTAIN", result.RecommendedAction)
	assert.InDelta(t, 0.5, result.SavingsRate, 0.001)
	assert.InDelta(t, 6.0, result.EmergencyFundMonths, 0.1)
	assert.Contains(t, result.Strengths, "Excellent savings rate")
	assert.Contains(t, result.Strengths, "Strong emergency fund")
	assert.Empty(t, result.Improvements)
}

func TestHealthScorer_NoIncomeZeroesIncomeMetrics(t *testing.T) {
	scorer := newHealthScorer()

	result, err := scorer.Score(service.Record{
		"total_debt": 50000.0,
	}, time.Now().UTC())
	require.NoError(t, err)

	assert.Zero(t, result.SavingsRate)
	assert.Zero(t, result.DebtToIncome)
	assert.Zero(t, result.EmergencyFundMonths)
	assert.Contains(t, result.Improvements, "Increase savings rate")
	assert.Contains(t, result.Improvements, "Build emergency fund")
}

func TestHealthScorer_MissingCreditScoreDefaultsTo650(t *testing.T) {
	scorer := newHealthScorer()

	result, err := scorer.Score(service.Record{"annual_income": 60000.0}, time.Now().UTC())
	require.NoError(t, err)

	// (650-300)/5.5 normalizes to 63.6.
	assert.InDelta(t, 63.6, result.Components["credit_score"], 0.1)
}

func TestHealthScorer_GradeBoundsAreFloors(t *testing.T) {
	scorer := newHealthScorer()
	now := time.Now().UTC()

	// Heavy debt drags the weighted score under 50.
	result, err := scorer.Score(service.Record{
		"annual_income":    40000.0,
		"monthly_expenses": 3300.0,
		"current_savings":  0.0,
		"total_debt":       100000.0,
		"credit_score":     420,
	}, now)
	require.NoError(t, err)

	assert.Equal(t, "F", result.Grade)
	assert.Equal(t, "FINANCIAL_COACHING", result.RecommendedAction)
}

func TestHealthScorer_NilRecordIsAnError(t *testing.T) {
	scorer := newHealthScorer()

	_, err := scorer.Score(nil, time.Now().UTC())
	assert.Error(t, err)
}
