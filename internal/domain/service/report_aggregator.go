package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/quantsingularity/FinovaBank/internal/domain/model"
	"github.com/quantsingularity/FinovaBank/internal/domain/port"
	"github.com/quantsingularity/FinovaBank/internal/domain/valueobject"
)

// maxAnomalies caps the anomaly list carried inside a report.
const maxAnomalies = 20

// ActorActivity is one entry of a report's most-active-actors ranking.
type ActorActivity struct {
	ActorID string
	Count   int
}

// Report is a read-only distribution summary over a window of the
// audit ledger.
type Report struct {
	TotalEvents    int
	CountsByTier   map[string]int
	CountsByAction map[string]int
	CountsByActor  map[string]int
	CountsByTag    map[string]int
	TopActors      []ActorActivity
	UniqueActors   int
	Anomalies      []model.AuditEvent
	Status         string
	GeneratedAt    time.Time
}

// ReportAggregator produces distribution summaries from the audit
// ledger's read API. It never mutates ledger state and operates on the
// consistent snapshot the store hands back, so it is safe to run while
// appends continue.
type ReportAggregator struct {
	store port.AuditStore
	// highBar is the severity at or above which an event counts as an
	// anomaly.
	highBar valueobject.Severity
	now     func() time.Time
}

// NewReportAggregator creates a ReportAggregator flagging events at or
// above the given severity as anomalies.
func NewReportAggregator(store port.AuditStore, highBar valueobject.Severity) *ReportAggregator {
	if highBar.IsZero() {
		highBar = valueobject.SeverityHigh
	}
	return &ReportAggregator{
		store:   store,
		highBar: highBar,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// WithClock overrides the aggregator's clock. Test hook.
func (a *ReportAggregator) WithClock(now func() time.Time) *ReportAggregator {
	a.now = now
	return a
}

// Summarize queries the ledger with the given filter and aggregates the
// result into tier/action/actor/tag distributions plus the anomaly
// list. Status is COMPLIANT when no anomalies were found and
// REVIEW_REQUIRED otherwise.
func (a *ReportAggregator) Summarize(ctx context.Context, filter port.AuditFilter) (Report, error) {
	if filter.Limit <= 0 {
		filter.Limit = defaultQueryLimit
	}
	events, err := a.store.List(ctx, filter)
	if err != nil {
		return Report{}, fmt.Errorf("query audit events: %w", err)
	}

	report := Report{
		TotalEvents:    len(events),
		CountsByTier:   make(map[string]int),
		CountsByAction: make(map[string]int),
		CountsByActor:  make(map[string]int),
		CountsByTag:    make(map[string]int),
		Anomalies:      make([]model.AuditEvent, 0),
		GeneratedAt:    a.now(),
	}

	for _, evt := range events {
		report.CountsByTier[evt.RiskLevel().String()]++
		report.CountsByAction[evt.Action()]++
		if actor := evt.ActorID(); actor != "" {
			report.CountsByActor[actor]++
		}
		for _, tag := range evt.Tags() {
			report.CountsByTag[tag]++
		}
		if evt.RiskLevel().AtLeast(a.highBar) && len(report.Anomalies) < maxAnomalies {
			report.Anomalies = append(report.Anomalies, evt)
		}
	}

	report.UniqueActors = len(report.CountsByActor)
	report.TopActors = rankActors(report.CountsByActor, 10)

	report.Status = "COMPLIANT"
	if len(report.Anomalies) > 0 {
		report.Status = "REVIEW_REQUIRED"
	}
	return report, nil
}

func rankActors(counts map[string]int, limit int) []ActorActivity {
	ranked := make([]ActorActivity, 0, len(counts))
	for actor, count := range counts {
		ranked = append(ranked, ActorActivity{ActorID: actor, Count: count})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		return ranked[i].ActorID < ranked[j].ActorID
	})
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}
