package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantsingularity/FinovaBank/internal/application/dto"
	"github.com/quantsingularity/FinovaBank/internal/application/usecase"
	"github.com/quantsingularity/FinovaBank/internal/domain/event"
	"github.com/quantsingularity/FinovaBank/internal/domain/service"
	"github.com/quantsingularity/FinovaBank/internal/infrastructure/memory"
)

func newCheckCompliance(t *testing.T, store *memory.AuditStore, publisher *capturePublisher) *usecase.CheckCompliance {
	t.Helper()
	return usecase.NewCheckCompliance(
		service.NewRuleEvaluator(),
		service.DefaultComplianceThresholds(),
		newLedger(t, store),
		publisher,
	).WithClock(func() time.Time { return useCaseNow })
}

func TestCheckCompliance_ViolationLeavesTrailAndPublishes(t *testing.T) {
	store := memory.NewAuditStore()
	publisher := &capturePublisher{}
	uc := newCheckCompliance(t, store, publisher)
	ctx := context.Background()

	resp, err := uc.Execute(ctx, dto.ComplianceCheckRequest{
		Domain:   dto.ComplianceDomainTransaction,
		Record:   map[string]any{"approvers": []any{"alice"}},
		RecordID: "txn-42",
		Amount:   decimal.NewFromInt(15000),
		ActorID:  "ops-3",
	})
	require.NoError(t, err)

	assert.Equal(t, "VIOLATION", resp.Status)
	require.Len(t, resp.Violations, 1)
	assert.Equal(t, "SOX-DUAL-APPROVAL", resp.Violations[0].RuleID)

	recorded, err := store.List(ctx, listAll())
	require.NoError(t, err)
	require.Len(t, recorded, 1)
	assert.Equal(t, service.ComplianceViolationAction, recorded[0].Action())
	assert.Equal(t, usecase.ComplianceServiceName, recorded[0].Service())
	assert.Equal(t, "txn-42", recorded[0].ResourceID())
	assert.Equal(t, resp.CheckID, recorded[0].Payload()["check_id"])
	assert.Equal(t, "SOX", recorded[0].Payload()["regulation"])

	require.Len(t, publisher.published, 1)
	assert.Equal(t, event.EventTypeViolationDetected, publisher.published[0].EventType())
}

func TestCheckCompliance_AlertsLeaveNoTrail(t *testing.T) {
	store := memory.NewAuditStore()
	publisher := &capturePublisher{}
	uc := newCheckCompliance(t, store, publisher)
	ctx := context.Background()

	resp, err := uc.Execute(ctx, dto.ComplianceCheckRequest{
		Domain:   dto.ComplianceDomainTransaction,
		Record:   map[string]any{"type": "cash", "approvers": []any{"alice", "bob"}},
		RecordID: "txn-43",
		Amount:   decimal.NewFromInt(12000),
	})
	require.NoError(t, err)

	assert.NotEqual(t, "VIOLATION", resp.Status)
	assert.NotEmpty(t, resp.Alerts)
	assert.Empty(t, resp.Violations)

	recorded, err := store.List(ctx, listAll())
	require.NoError(t, err)
	assert.Empty(t, recorded)
	assert.Empty(t, publisher.published)
}

func TestCheckCompliance_ViolationsFeedTheDashboard(t *testing.T) {
	store := memory.NewAuditStore()
	uc := newCheckCompliance(t, store, &capturePublisher{})
	ctx := context.Background()

	_, err := uc.Execute(ctx, dto.ComplianceCheckRequest{
		Domain:   dto.ComplianceDomainTransaction,
		Record:   map[string]any{"user_id": "u-1", "approver_id": "u-1"},
		RecordID: "txn-44",
		Amount:   decimal.NewFromInt(500),
	})
	require.NoError(t, err)

	dashboard, err := service.NewDashboardBuilder(store).
		WithClock(func() time.Time { return useCaseNow }).
		Build(ctx)
	require.NoError(t, err)

	assert.Equal(t, 1, dashboard.TotalViolations)
	assert.Equal(t, 1, dashboard.CriticalViolations)
	assert.Equal(t, 90, dashboard.ComplianceScore)
	assert.Equal(t, map[string]int{"SOX": 1}, dashboard.ByRegulation)
}

func TestCheckCompliance_UnknownDomainIsAnError(t *testing.T) {
	uc := newCheckCompliance(t, memory.NewAuditStore(), &capturePublisher{})

	_, err := uc.Execute(context.Background(), dto.ComplianceCheckRequest{Domain: "derivatives"})
	assert.Error(t, err)
}
