package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantsingularity/FinovaBank/internal/application/dto"
	"github.com/quantsingularity/FinovaBank/internal/application/usecase"
	"github.com/quantsingularity/FinovaBank/internal/domain/service"
	"github.com/quantsingularity/FinovaBank/internal/infrastructure/memory"
)

func newAnalyzeLogin(t *testing.T, store *memory.AuditStore, blocklist *memory.Blocklist) *usecase.AnalyzeLogin {
	t.Helper()
	analyzer, err := service.NewLoginAnalyzer(memory.NewActivityWindow(), blocklist, service.DefaultSecurityPolicy(), nil)
	require.NoError(t, err)
	return usecase.NewAnalyzeLogin(analyzer, newLedger(t, store)).
		WithClock(func() time.Time { return useCaseNow })
}

func TestAnalyzeLogin_RecordsScreeningOutcome(t *testing.T) {
	store := memory.NewAuditStore()
	uc := newAnalyzeLogin(t, store, memory.NewBlocklist())
	ctx := context.Background()

	resp, err := uc.Execute(ctx, dto.LoginEventRequest{Record: map[string]any{
		"username":   "alice",
		"ip_address": "192.168.1.40",
		"user_agent": "curl/8.5",
		"success":    true,
		"location":   map[string]any{"country": "US"},
		"timestamp":  "2024-03-13T12:00:00Z",
	}})
	require.NoError(t, err)

	// Suspicious address 20 plus automation agent 10.
	assert.Equal(t, 30, resp.RiskScore)
	assert.Equal(t, "HIGH", resp.RiskLevel)
	assert.Equal(t, "CHALLENGE", resp.Action)
	assert.Len(t, resp.Threats, 2)

	recorded, err := store.List(ctx, listAll())
	require.NoError(t, err)
	require.Len(t, recorded, 1)
	assert.Equal(t, service.SecurityServiceName, recorded[0].Service())
	assert.Equal(t, "login_attempt", recorded[0].Action())
	assert.Equal(t, "alice", recorded[0].ActorID())
	assert.Equal(t, "192.168.1.40", recorded[0].IPAddress())
	assert.Equal(t, 30, recorded[0].Payload()["risk_score"])
}

func TestAnalyzeLogin_ScreeningsFeedThePostureReport(t *testing.T) {
	store := memory.NewAuditStore()
	blocklist := memory.NewBlocklist()
	uc := newAnalyzeLogin(t, store, blocklist)
	ctx := context.Background()

	// Foreign country, suspicious address, empty agent and the small
	// hours push this attempt past the blocking bound.
	resp, err := uc.Execute(ctx, dto.LoginEventRequest{Record: map[string]any{
		"username":   "mallory",
		"ip_address": "10.0.0.8",
		"user_agent": "",
		"success":    false,
		"location":   map[string]any{"country": "KP"},
		"timestamp":  "2024-03-13T03:00:00Z",
	}})
	require.NoError(t, err)
	require.True(t, resp.Blocked)

	report, err := service.NewSecurityReporter(store, blocklist).
		WithClock(func() time.Time { return useCaseNow }).
		Report(ctx, 24)
	require.NoError(t, err)

	assert.Equal(t, 1, report.TotalEvents)
	assert.Equal(t, 1, report.ThreatEvents)
	assert.Equal(t, 1, report.BlockedAttempts)
	assert.Equal(t, []string{"10.0.0.8"}, report.BlockedIPs)
	assert.Equal(t, map[string]int{"CRITICAL": 1}, report.RiskLevels)
	assert.Equal(t, 1, report.ThreatTypes[service.ThreatGeoAnomaly])
}

func TestAnalyzeLogin_NilRecordIsAnError(t *testing.T) {
	uc := newAnalyzeLogin(t, memory.NewAuditStore(), memory.NewBlocklist())

	_, err := uc.Execute(context.Background(), dto.LoginEventRequest{})
	assert.Error(t, err)
}
