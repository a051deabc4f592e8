package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantsingularity/FinovaBank/internal/domain/port"
	"github.com/quantsingularity/FinovaBank/internal/domain/service"
	"github.com/quantsingularity/FinovaBank/internal/domain/valueobject"
	"github.com/quantsingularity/FinovaBank/internal/infrastructure/memory"
)

var aggregateNow = time.Date(2024, 3, 13, 12, 0, 0, 0, time.UTC)

func seedAggregatorLedger(t *testing.T) *memory.AuditStore {
	t.Helper()
	store := memory.NewAuditStore()
	ledger := newTestLedger(t, store)
	ctx := context.Background()

	drafts := []service.EventDraft{
		{ActorID: "alice", Service: "credit-service", Action: "credit_score", RiskLevel: valueobject.SeverityLow},
		{ActorID: "alice", Service: "credit-service", Action: "credit_score", RiskLevel: valueobject.SeverityLow},
		{ActorID: "bob", Service: "loan-service", Action: "loan_assessment", RiskLevel: valueobject.SeverityMedium},
		{ActorID: "mallory", Service: "security-monitor", Action: "login_screened", RiskLevel: valueobject.SeverityHigh},
		{ActorID: "mallory", Service: "compliance-service", Action: "payment_processing", Resource: "payment_gateway", RiskLevel: valueobject.SeverityCritical},
	}
	for _, draft := range drafts {
		_, err := ledger.Append(ctx, draft)
		require.NoError(t, err)
	}
	return store
}

func TestReportAggregator_CountsDistributions(t *testing.T) {
	store := seedAggregatorLedger(t)
	aggregator := service.NewReportAggregator(store, valueobject.SeverityHigh).
		WithClock(func() time.Time { return aggregateNow })

	report, err := aggregator.Summarize(context.Background(), port.AuditFilter{})
	require.NoError(t, err)

	assert.Equal(t, 5, report.TotalEvents)
	assert.Equal(t, map[string]int{"LOW": 2, "MEDIUM": 1, "HIGH": 1, "CRITICAL": 1}, report.CountsByTier)
	assert.Equal(t, 2, report.CountsByAction["credit_score"])
	assert.Equal(t, 1, report.CountsByAction["login_screened"])
	assert.Equal(t, map[string]int{"alice": 2, "bob": 1, "mallory": 2}, report.CountsByActor)
	assert.Equal(t, 3, report.UniqueActors)
	assert.Equal(t, aggregateNow, report.GeneratedAt)
}

func TestReportAggregator_AnomaliesAtOrAboveBar(t *testing.T) {
	store := seedAggregatorLedger(t)
	aggregator := service.NewReportAggregator(store, valueobject.SeverityHigh).
		WithClock(func() time.Time { return aggregateNow })

	report, err := aggregator.Summarize(context.Background(), port.AuditFilter{})
	require.NoError(t, err)

	require.Len(t, report.Anomalies, 2)
	for _, evt := range report.Anomalies {
		assert.True(t, evt.RiskLevel().AtLeast(valueobject.SeverityHigh))
	}
	assert.Equal(t, "REVIEW_REQUIRED", report.Status)
}

func TestReportAggregator_CleanWindowIsCompliant(t *testing.T) {
	store := memory.NewAuditStore()
	ledger := newTestLedger(t, store)
	_, err := ledger.Append(context.Background(), service.EventDraft{
		ActorID: "alice", Service: "credit-service", Action: "credit_score",
		RiskLevel: valueobject.SeverityLow,
	})
	require.NoError(t, err)

	aggregator := service.NewReportAggregator(store, valueobject.SeverityHigh).
		WithClock(func() time.Time { return aggregateNow })

	report, err := aggregator.Summarize(context.Background(), port.AuditFilter{})
	require.NoError(t, err)

	assert.Empty(t, report.Anomalies)
	assert.Equal(t, "COMPLIANT", report.Status)
}

func TestReportAggregator_TopActorsRankByCountThenName(t *testing.T) {
	store := seedAggregatorLedger(t)
	aggregator := service.NewReportAggregator(store, valueobject.SeverityHigh).
		WithClock(func() time.Time { return aggregateNow })

	report, err := aggregator.Summarize(context.Background(), port.AuditFilter{})
	require.NoError(t, err)

	require.Len(t, report.TopActors, 3)
	assert.Equal(t, service.ActorActivity{ActorID: "alice", Count: 2}, report.TopActors[0])
	assert.Equal(t, service.ActorActivity{ActorID: "mallory", Count: 2}, report.TopActors[1])
	assert.Equal(t, service.ActorActivity{ActorID: "bob", Count: 1}, report.TopActors[2])
}

func TestReportAggregator_FilterNarrowsTheWindow(t *testing.T) {
	store := seedAggregatorLedger(t)
	aggregator := service.NewReportAggregator(store, valueobject.SeverityHigh).
		WithClock(func() time.Time { return aggregateNow })

	report, err := aggregator.Summarize(context.Background(), port.AuditFilter{Service: "credit-service"})
	require.NoError(t, err)

	assert.Equal(t, 2, report.TotalEvents)
	assert.Equal(t, "COMPLIANT", report.Status)
}

func TestReportAggregator_ZeroSeverityBarDefaultsToHigh(t *testing.T) {
	store := seedAggregatorLedger(t)
	aggregator := service.NewReportAggregator(store, valueobject.Severity{}).
		WithClock(func() time.Time { return aggregateNow })

	report, err := aggregator.Summarize(context.Background(), port.AuditFilter{})
	require.NoError(t, err)
	assert.Len(t, report.Anomalies, 2)
}
