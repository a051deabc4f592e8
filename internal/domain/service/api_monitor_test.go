package service_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantsingularity/FinovaBank/internal/domain/service"
	"github.com/quantsingularity/FinovaBank/internal/infrastructure/memory"
)

var apiNow = time.Date(2024, 3, 13, 12, 0, 0, 0, time.UTC)

func newAPIMonitor(t *testing.T) (*service.APIMonitor, *memory.ActivityWindow) {
	t.Helper()
	window := memory.NewActivityWindow()
	monitor, err := service.NewAPIMonitor(window, service.DefaultSecurityPolicy(), nil)
	require.NoError(t, err)
	return monitor, window
}

func benignRequest() service.Record {
	return service.Record{
		"endpoint":      "/api/v1/balance",
		"ip_address":    "203.0.113.20",
		"response_code": 200,
		"parameters":    map[string]any{"account": "chk-main"},
	}
}

func TestAPIMonitor_BenignRequestIsLowRisk(t *testing.T) {
	monitor, _ := newAPIMonitor(t)

	assessment, err := monitor.Monitor(context.Background(), benignRequest(), apiNow)
	require.NoError(t, err)

	assert.Zero(t, assessment.RiskScore)
	assert.Equal(t, "LOW", assessment.RiskLevel)
	assert.Empty(t, assessment.Threats)
	assert.Equal(t, "/api/v1/balance", assessment.Endpoint)
}

func TestAPIMonitor_FlagsSQLInjectionInParameters(t *testing.T) {
	monitor, _ := newAPIMonitor(t)

	req := benignRequest()
	req["parameters"] = map[string]any{"id": "1' OR '1'='1"}

	assessment, err := monitor.Monitor(context.Background(), req, apiNow)
	require.NoError(t, err)

	assert.Contains(t, threatTypes(assessment.Threats), service.ThreatSQLInjection)
	assert.Equal(t, 40, assessment.RiskScore)
	assert.Equal(t, "HIGH", assessment.RiskLevel)
}

func TestAPIMonitor_FlagsXSSInParameters(t *testing.T) {
	monitor, _ := newAPIMonitor(t)

	req := benignRequest()
	req["parameters"] = map[string]any{"comment": "<script>alert(1)</script>"}

	assessment, err := monitor.Monitor(context.Background(), req, apiNow)
	require.NoError(t, err)

	assert.Contains(t, threatTypes(assessment.Threats), service.ThreatXSS)
	assert.Equal(t, 30, assessment.RiskScore)
	assert.Equal(t, "HIGH", assessment.RiskLevel)
}

func TestAPIMonitor_FlagsUnauthorizedResponses(t *testing.T) {
	monitor, _ := newAPIMonitor(t)

	for _, code := range []int{401, 403} {
		req := benignRequest()
		req["response_code"] = code

		assessment, err := monitor.Monitor(context.Background(), req, apiNow)
		require.NoError(t, err)

		assert.Contains(t, threatTypes(assessment.Threats), service.ThreatUnauthorized, "code %d", code)
		assert.Equal(t, 15, assessment.RiskScore, "code %d", code)
	}
}

func TestAPIMonitor_FlagsSensitiveEndpoints(t *testing.T) {
	monitor, _ := newAPIMonitor(t)

	req := benignRequest()
	req["endpoint"] = "/admin/users"

	assessment, err := monitor.Monitor(context.Background(), req, apiNow)
	require.NoError(t, err)

	assert.Contains(t, threatTypes(assessment.Threats), service.ThreatSensitiveEndpoint)
	assert.Equal(t, 10, assessment.RiskScore)
	assert.Equal(t, "LOW", assessment.RiskLevel)
}

func TestAPIMonitor_RateLimitTripsAboveThreshold(t *testing.T) {
	monitor, _ := newAPIMonitor(t)
	ctx := context.Background()

	// The request under screening is recorded afterwards, so 101 prior
	// requests are needed to exceed the 100/minute budget.
	for i := 0; i < 101; i++ {
		_, err := monitor.Monitor(ctx, benignRequest(), apiNow.Add(time.Duration(i)*100*time.Millisecond))
		require.NoError(t, err)
	}

	assessment, err := monitor.Monitor(ctx, benignRequest(), apiNow.Add(30*time.Second))
	require.NoError(t, err)

	assert.Contains(t, threatTypes(assessment.Threats), service.ThreatRateLimit)
	assert.Equal(t, 25, assessment.RiskScore)
	assert.Equal(t, "MEDIUM", assessment.RiskLevel)
}

func TestAPIMonitor_RateCountIsPerSourceAddress(t *testing.T) {
	monitor, _ := newAPIMonitor(t)
	ctx := context.Background()

	for i := 0; i < 101; i++ {
		req := benignRequest()
		req["ip_address"] = fmt.Sprintf("198.51.100.%d", i%200)
		_, err := monitor.Monitor(ctx, req, apiNow)
		require.NoError(t, err)
	}

	assessment, err := monitor.Monitor(ctx, benignRequest(), apiNow.Add(time.Second))
	require.NoError(t, err)
	assert.NotContains(t, threatTypes(assessment.Threats), service.ThreatRateLimit)
}

func TestAPIMonitor_StackedThreatsAccumulate(t *testing.T) {
	monitor, _ := newAPIMonitor(t)

	assessment, err := monitor.Monitor(context.Background(), service.Record{
		"endpoint":      "/admin/export",
		"ip_address":    "203.0.113.99",
		"response_code": 403,
		"parameters":    map[string]any{"q": "1; DROP TABLE accounts"},
	}, apiNow)
	require.NoError(t, err)

	// Injection 40, unauthorized 15, sensitive endpoint 10.
	assert.Equal(t, 65, assessment.RiskScore)
	assert.Equal(t, "CRITICAL", assessment.RiskLevel)
	assert.Len(t, assessment.Threats, 3)
}

func TestAPIMonitor_NilRecordIsAnError(t *testing.T) {
	monitor, _ := newAPIMonitor(t)

	_, err := monitor.Monitor(context.Background(), nil, apiNow)
	assert.Error(t, err)
}
