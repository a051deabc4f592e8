package service

import (
	"context"
	"fmt"
	"time"

	"github.com/quantsingularity/FinovaBank/internal/domain/port"
	"github.com/quantsingularity/FinovaBank/internal/domain/valueobject"
)

// ComplianceViolationAction tags audit events recorded for broken
// mandatory rules so the dashboard can find them.
const ComplianceViolationAction = "compliance.violation"

var complianceStatusTiers = MustTierTable(valueobject.HigherIsBetter, []TierBound{
	{Bound: 0, Name: "NON_COMPLIANT", Action: "ESCALATE"},
	{Bound: 70, Name: "NEEDS_ATTENTION", Action: "REVIEW"},
	{Bound: 90, Name: "COMPLIANT", Action: "MAINTAIN"},
})

// ComplianceDashboard is the point-in-time compliance posture.
type ComplianceDashboard struct {
	ComplianceScore    int
	TotalViolations    int
	CriticalViolations int
	HighViolations     int
	MediumViolations   int
	ByRegulation       map[string]int
	RecentViolations   int
	Status             string
	RecommendedAction  string
	GeneratedAt        time.Time
}

// DashboardBuilder derives the compliance posture from recorded
// violation events. Critical violations cost 10 points each, high 5,
// anything else 2, off a base of 100.
type DashboardBuilder struct {
	store port.AuditStore
	now   func() time.Time
}

// NewDashboardBuilder creates a new DashboardBuilder.
func NewDashboardBuilder(store port.AuditStore) *DashboardBuilder {
	return &DashboardBuilder{store: store, now: time.Now}
}

// WithClock overrides the builder's clock.
func (b *DashboardBuilder) WithClock(now func() time.Time) *DashboardBuilder {
	b.now = now
	return b
}

// Build assembles the dashboard from every recorded violation.
func (b *DashboardBuilder) Build(ctx context.Context) (ComplianceDashboard, error) {
	generatedAt := b.now()

	violations, err := b.store.List(ctx, port.AuditFilter{Action: ComplianceViolationAction})
	if err != nil {
		return ComplianceDashboard{}, fmt.Errorf("list violations: %w", err)
	}

	byRegulation := make(map[string]int)
	critical, high, recent := 0, 0, 0
	cutoff := generatedAt.Add(-24 * time.Hour)

	for _, v := range violations {
		switch {
		case v.RiskLevel().Equal(valueobject.SeverityCritical):
			critical++
		case v.RiskLevel().Equal(valueobject.SeverityHigh):
			high++
		}

		regulation, _ := v.Payload()["regulation"].(string)
		if regulation == "" {
			regulation = "UNKNOWN"
		}
		byRegulation[regulation]++

		if v.Timestamp().After(cutoff) {
			recent++
		}
	}

	total := len(violations)
	score := 100
	if total > 0 {
		penalty := critical*10 + high*5 + (total-critical-high)*2
		score = 100 - penalty
		if score < 0 {
			score = 0
		}
	}

	tier, action := complianceStatusTiers.Map(float64(score))

	return ComplianceDashboard{
		ComplianceScore:    score,
		TotalViolations:    total,
		CriticalViolations: critical,
		HighViolations:     high,
		MediumViolations:   total - critical - high,
		ByRegulation:       byRegulation,
		RecentViolations:   recent,
		Status:             tier.Name(),
		RecommendedAction:  action,
		GeneratedAt:        generatedAt,
	}, nil
}
