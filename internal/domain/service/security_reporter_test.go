package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantsingularity/FinovaBank/internal/domain/service"
	"github.com/quantsingularity/FinovaBank/internal/infrastructure/memory"
)

var reportNow = time.Date(2024, 3, 13, 12, 0, 0, 0, time.UTC)

func appendSecurityEvent(t *testing.T, ledger *service.Ledger, ip string, score float64, action string, threatTypes ...string) {
	t.Helper()
	threats := make([]any, 0, len(threatTypes))
	for _, typ := range threatTypes {
		threats = append(threats, map[string]any{"type": typ})
	}
	draft := service.EventDraft{
		IPAddress: ip,
		Service:   service.SecurityServiceName,
		Action:    "login_screened",
		Data: map[string]any{
			"risk_score": score,
			"action":     action,
		},
	}
	if len(threats) > 0 {
		draft.Data["threats"] = threats
	}
	_, err := ledger.Append(context.Background(), draft)
	require.NoError(t, err)
}

func TestSecurityReporter_EmptyWindowIsLowRisk(t *testing.T) {
	store := memory.NewAuditStore()
	reporter := service.NewSecurityReporter(store, memory.NewBlocklist()).
		WithClock(func() time.Time { return reportNow })

	report, err := reporter.Report(context.Background(), 24)
	require.NoError(t, err)

	assert.Zero(t, report.TotalEvents)
	assert.Zero(t, report.ThreatEvents)
	assert.Equal(t, "LOW", report.OverallRisk)
	assert.Equal(t, 24, report.PeriodHours)
	assert.Empty(t, report.TopSources)
}

func TestSecurityReporter_CountsThreatsBlocksAndLevels(t *testing.T) {
	store := memory.NewAuditStore()
	ledger := newTestLedger(t, store)
	blocklist := memory.NewBlocklist()
	ctx := context.Background()

	appendSecurityEvent(t, ledger, "203.0.113.5", 0, "ALLOW")
	appendSecurityEvent(t, ledger, "192.168.1.7", 20, "MONITOR", service.ThreatSuspiciousIP)
	appendSecurityEvent(t, ledger, "192.168.1.7", 55, "BLOCK", service.ThreatSuspiciousIP, service.ThreatGeoAnomaly)
	require.NoError(t, blocklist.Block(ctx, "192.168.1.7"))

	report, err := service.NewSecurityReporter(store, blocklist).
		WithClock(func() time.Time { return reportNow }).
		Report(ctx, 24)
	require.NoError(t, err)

	assert.Equal(t, 3, report.TotalEvents)
	assert.Equal(t, 2, report.ThreatEvents)
	assert.Equal(t, 1, report.BlockedAttempts)
	assert.Equal(t, 1, report.UniqueThreatIPs)
	assert.Equal(t, 2, report.ThreatTypes[service.ThreatSuspiciousIP])
	assert.Equal(t, 1, report.ThreatTypes[service.ThreatGeoAnomaly])
	assert.Equal(t, map[string]int{"LOW": 1, "MEDIUM": 1, "CRITICAL": 1}, report.RiskLevels)
	assert.Equal(t, []string{"192.168.1.7"}, report.BlockedIPs)
	assert.Equal(t, "LOW", report.OverallRisk)

	require.Len(t, report.TopSources, 1)
	assert.Equal(t, "192.168.1.7", report.TopSources[0].IPAddress)
	assert.Equal(t, 2, report.TopSources[0].Threats)
}

func TestSecurityReporter_TopSourcesRankByCountThenAddress(t *testing.T) {
	store := memory.NewAuditStore()
	ledger := newTestLedger(t, store)

	appendSecurityEvent(t, ledger, "10.0.0.2", 10, "ALLOW", service.ThreatSuspiciousAgent)
	appendSecurityEvent(t, ledger, "10.0.0.1", 10, "ALLOW", service.ThreatSuspiciousAgent)
	appendSecurityEvent(t, ledger, "10.0.0.3", 20, "MONITOR", service.ThreatSuspiciousIP)
	appendSecurityEvent(t, ledger, "10.0.0.3", 20, "MONITOR", service.ThreatSuspiciousIP)

	report, err := service.NewSecurityReporter(store, memory.NewBlocklist()).
		WithClock(func() time.Time { return reportNow }).
		Report(context.Background(), 24)
	require.NoError(t, err)

	require.Len(t, report.TopSources, 3)
	assert.Equal(t, "10.0.0.3", report.TopSources[0].IPAddress)
	assert.Equal(t, "10.0.0.1", report.TopSources[1].IPAddress)
	assert.Equal(t, "10.0.0.2", report.TopSources[2].IPAddress)
}

func TestSecurityReporter_ManyThreatEventsRaiseOverallRisk(t *testing.T) {
	store := memory.NewAuditStore()
	ledger := newTestLedger(t, store)

	for i := 0; i < 6; i++ {
		appendSecurityEvent(t, ledger, "203.0.113.50", 20, "MONITOR", service.ThreatSuspiciousIP)
	}

	report, err := service.NewSecurityReporter(store, memory.NewBlocklist()).
		WithClock(func() time.Time { return reportNow }).
		Report(context.Background(), 24)
	require.NoError(t, err)
	assert.Equal(t, "MEDIUM", report.OverallRisk)
}

func TestSecurityReporter_ManyBlocksRaiseOverallRiskToHigh(t *testing.T) {
	store := memory.NewAuditStore()
	ledger := newTestLedger(t, store)

	for i := 0; i < 11; i++ {
		appendSecurityEvent(t, ledger, "203.0.113.60", 60, "BLOCK", service.ThreatSuspiciousIP)
	}

	report, err := service.NewSecurityReporter(store, memory.NewBlocklist()).
		WithClock(func() time.Time { return reportNow }).
		Report(context.Background(), 24)
	require.NoError(t, err)
	assert.Equal(t, "HIGH", report.OverallRisk)
}

func TestSecurityReporter_IgnoresOtherServices(t *testing.T) {
	store := memory.NewAuditStore()
	ledger := newTestLedger(t, store)

	_, err := ledger.Append(context.Background(), service.EventDraft{
		Service: "credit-service",
		Action:  "credit_score",
		Data:    map[string]any{"risk_score": 90.0},
	})
	require.NoError(t, err)

	report, err := service.NewSecurityReporter(store, memory.NewBlocklist()).
		WithClock(func() time.Time { return reportNow }).
		Report(context.Background(), 24)
	require.NoError(t, err)
	assert.Zero(t, report.TotalEvents)
}
