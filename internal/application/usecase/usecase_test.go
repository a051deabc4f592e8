package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/quantsingularity/FinovaBank/internal/domain/port"
	"github.com/quantsingularity/FinovaBank/internal/domain/service"
	"github.com/quantsingularity/FinovaBank/internal/infrastructure/memory"
	"github.com/quantsingularity/FinovaBank/pkg/events"
)

func listAll() port.AuditFilter {
	return port.AuditFilter{}
}

var useCaseNow = time.Date(2024, 3, 13, 12, 0, 0, 0, time.UTC)

// capturePublisher collects published domain events for assertion.
type capturePublisher struct {
	published []events.DomainEvent
}

func (p *capturePublisher) Publish(_ context.Context, evts ...events.DomainEvent) error {
	p.published = append(p.published, evts...)
	return nil
}

func newLedger(t *testing.T, store *memory.AuditStore) *service.Ledger {
	t.Helper()
	classifier, err := service.NewClassifier([]service.ClassifierRule{
		{Tag: "PCI", RetentionYears: 3, ResourceContains: "payment"},
		{Tag: "SOX", RetentionYears: 7, Actions: []string{"financial_transaction"}},
	}, 5)
	require.NoError(t, err)

	policy := service.NewSanitizePolicy([]string{"password", "ssn", "account_number"})
	return service.NewLedger(store, policy, classifier, nil).
		WithClock(func() time.Time { return useCaseNow })
}

func creditApplication() map[string]any {
	return map[string]any{
		"on_time_payments":      95,
		"total_payments":        100,
		"late_payments":         2,
		"total_credit_used":     2000.0,
		"total_credit_limit":    10000.0,
		"credit_history_months": 60,
		"credit_types":          []any{"card", "auto"},
		"recent_inquiries":      1,
	}
}
