package service_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantsingularity/FinovaBank/internal/domain/service"
)

func newFraudScorer() *service.FraudScorer {
	return service.NewFraudScorer(service.NewFactorExtractor(nil))
}

// Wednesday noon, so no weekend or night surcharge applies.
var fraudNow = time.Date(2024, 3, 13, 12, 0, 0, 0, time.UTC)

func TestFraudScorer_RoutineTransactionIsMinimal(t *testing.T) {
	scorer := newFraudScorer()

	analysis, err := scorer.Analyze(service.Record{
		"transaction_id":          "tx-001",
		"amount":                  100.0,
		"timestamp":               "2024-03-13T12:00:00Z",
		"account_created_date":    "2023-01-01",
		"daily_transaction_count": 1,
	}, fraudNow)
	require.NoError(t, err)

	assert.Equal(t, "tx-001", analysis.TransactionID)
	assert.Zero(t, analysis.RiskScore)
	assert.Equal(t, "MINIMAL", analysis.RiskLevel)
	assert.Equal(t, "APPROVE", analysis.RecommendedAction)
	assert.Empty(t, analysis.Indicators)
}

func TestFraudScorer_StackedSignalsCapAtOne(t *testing.T) {
	scorer := newFraudScorer()
	now := time.Date(2024, 3, 17, 0, 0, 0, 0, time.UTC)

	analysis, err := scorer.Analyze(service.Record{
		"transaction_id":           "tx-002",
		"amount":                   12000.0,
		"timestamp":                "2024-03-16T23:30:00Z",
		"account_created_date":     "2024-03-14",
		"daily_transaction_count":  15,
		"daily_transaction_amount": 25000.0,
		"country":                  "RU",
		"channel":                  "ONLINE",
	}, now)
	require.NoError(t, err)

	assert.InDelta(t, 1.0, analysis.RiskScore, 1e-9)
	assert.Equal(t, "HIGH", analysis.RiskLevel)
	assert.Equal(t, "BLOCK", analysis.RecommendedAction)
	assert.Contains(t, analysis.Indicators, "High transaction amount")
	assert.Contains(t, analysis.Indicators, "Transaction during unusual hours")
	assert.Contains(t, analysis.Indicators, "High transaction frequency")
	assert.Contains(t, analysis.Indicators, "Transaction from foreign country")
	assert.Contains(t, analysis.Indicators, "New account")
	assert.Contains(t, analysis.Indicators, "Multiple risk factors detected")
}

func TestFraudScorer_TierBoundIsFloor(t *testing.T) {
	scorer := newFraudScorer()

	// Amount 12000 contributes 0.3, foreign country 0.2: exactly 0.5.
	analysis, err := scorer.Analyze(service.Record{
		"amount":               12000.0,
		"timestamp":            "2024-03-13T12:00:00Z",
		"account_created_date": "2023-01-01",
		"country":              "DE",
	}, fraudNow)
	require.NoError(t, err)

	assert.InDelta(t, 0.5, analysis.RiskScore, 1e-9)
	assert.Equal(t, "MEDIUM", analysis.RiskLevel)
	assert.Equal(t, "REVIEW", analysis.RecommendedAction)
}

func TestFraudScorer_HomeCountryOverride(t *testing.T) {
	scorer := newFraudScorer()

	analysis, err := scorer.Analyze(service.Record{
		"amount":               100.0,
		"timestamp":            "2024-03-13T12:00:00Z",
		"account_created_date": "2023-01-01",
		"country":              "DE",
		"home_country":         "DE",
	}, fraudNow)
	require.NoError(t, err)

	assert.Zero(t, analysis.RiskScore)
}

func TestFraudScorer_RiskScoreRuleWeights(t *testing.T) {
	scorer := newFraudScorer()

	cases := []struct {
		features service.FraudFeatures
		want     float64
	}{
		{service.FraudFeatures{Amount: 500, AccountAgeDays: 365, DailyCount: 1}, 0},
		{service.FraudFeatures{Amount: 1500, AccountAgeDays: 365, DailyCount: 1}, 0.1},
		{service.FraudFeatures{Amount: 6000, AccountAgeDays: 365, DailyCount: 1}, 0.2},
		{service.FraudFeatures{Amount: 15000, AccountAgeDays: 365, DailyCount: 1}, 0.3},
		{service.FraudFeatures{Amount: 500, AccountAgeDays: 365, DailyCount: 1, IsNight: true, IsWeekend: true}, 0.25},
		{service.FraudFeatures{Amount: 500, AccountAgeDays: 10, DailyCount: 11}, 0.4},
	}
	for _, tc := range cases {
		assert.InDelta(t, tc.want, scorer.RiskScore(tc.features), 1e-9)
	}
}

func TestFraudScorer_BatchCountsByLevel(t *testing.T) {
	scorer := newFraudScorer()

	batch, err := scorer.AnalyzeBatch("batch-7", []service.Record{
		{"amount": 100.0, "timestamp": "2024-03-13T12:00:00Z", "account_created_date": "2023-01-01", "daily_transaction_count": 1},
		{"amount": 12000.0, "timestamp": "2024-03-13T12:00:00Z", "account_created_date": "2023-01-01", "country": "DE", "daily_transaction_count": 1},
	}, fraudNow)
	require.NoError(t, err)

	assert.Equal(t, "batch-7", batch.BatchID)
	assert.Equal(t, 2, batch.TotalTransactions)
	assert.Equal(t, 1, batch.CountsByLevel["MINIMAL"])
	assert.Equal(t, 1, batch.CountsByLevel["MEDIUM"])
	assert.Len(t, batch.Results, 2)
}

func TestFraudScorer_BatchGeneratesIDWhenAbsent(t *testing.T) {
	scorer := newFraudScorer()

	batch, err := scorer.AnalyzeBatch("", []service.Record{
		{"amount": 100.0, "timestamp": "2024-03-13T12:00:00Z", "account_created_date": "2023-01-01", "daily_transaction_count": 1},
	}, fraudNow)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(batch.BatchID, "batch_"))
}

func TestFraudScorer_BatchToleratesNilRecord(t *testing.T) {
	scorer := newFraudScorer()

	batch, err := scorer.AnalyzeBatch("b", []service.Record{nil}, fraudNow)
	require.NoError(t, err)

	assert.Equal(t, 1, batch.TotalTransactions)
	assert.Len(t, batch.Results, 1)
}

func TestFraudScorer_EmptyBatchIsAnError(t *testing.T) {
	scorer := newFraudScorer()

	_, err := scorer.AnalyzeBatch("b", nil, fraudNow)
	assert.Error(t, err)
}
