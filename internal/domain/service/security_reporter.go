package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/quantsingularity/FinovaBank/internal/domain/port"
)

// SecurityServiceName tags audit events produced by the login and API
// monitors so the posture report can find them.
const SecurityServiceName = "security-monitor"

// ThreatSource is one origin address ranked by threat count.
type ThreatSource struct {
	IPAddress string
	Threats   int
}

// SecurityReport summarizes security activity over a trailing window.
type SecurityReport struct {
	PeriodHours     int
	TotalEvents     int
	ThreatEvents    int
	BlockedAttempts int
	UniqueThreatIPs int
	ThreatTypes     map[string]int
	RiskLevels      map[string]int
	TopSources      []ThreatSource
	OverallRisk     string
	BlockedIPs      []string
	GeneratedAt     time.Time
}

// SecurityReporter builds posture reports from recorded security audit
// events and the shared blocklist.
type SecurityReporter struct {
	store     port.AuditStore
	blocklist port.Blocklist
	now       func() time.Time
}

// NewSecurityReporter creates a new SecurityReporter.
func NewSecurityReporter(store port.AuditStore, blocklist port.Blocklist) *SecurityReporter {
	return &SecurityReporter{store: store, blocklist: blocklist, now: time.Now}
}

// WithClock overrides the reporter's clock.
func (r *SecurityReporter) WithClock(now func() time.Time) *SecurityReporter {
	r.now = now
	return r
}

// Report summarizes the trailing window. Hours at or below zero default
// to 24.
func (r *SecurityReporter) Report(ctx context.Context, hours int) (SecurityReport, error) {
	if hours <= 0 {
		hours = 24
	}
	generatedAt := r.now()

	events, err := r.store.List(ctx, port.AuditFilter{
		From:    generatedAt.Add(-time.Duration(hours) * time.Hour),
		Service: SecurityServiceName,
	})
	if err != nil {
		return SecurityReport{}, fmt.Errorf("list security events: %w", err)
	}

	threatTypes := make(map[string]int)
	riskLevels := make(map[string]int)
	sourceThreats := make(map[string]int)
	threatEvents := 0
	blockedAttempts := 0

	for _, event := range events {
		payload := event.Payload()

		score, _ := toFloat(payload["risk_score"])
		tier, _ := securityTiers.Map(score)
		riskLevels[tier.Name()]++

		types := threatTypesOf(payload)
		if len(types) > 0 {
			threatEvents++
			for _, t := range types {
				threatTypes[t]++
			}
			if ip := event.IPAddress(); ip != "" {
				sourceThreats[ip]++
			}
		}
		if action, _ := payload["action"].(string); action == "BLOCK" {
			blockedAttempts++
		}
	}

	blockedIPs, err := r.blocklist.Snapshot(ctx)
	if err != nil {
		return SecurityReport{}, fmt.Errorf("snapshot blocklist: %w", err)
	}
	sort.Strings(blockedIPs)

	overall := "LOW"
	switch {
	case blockedAttempts > 10:
		overall = "HIGH"
	case threatEvents > 5:
		overall = "MEDIUM"
	}

	return SecurityReport{
		PeriodHours:     hours,
		TotalEvents:     len(events),
		ThreatEvents:    threatEvents,
		BlockedAttempts: blockedAttempts,
		UniqueThreatIPs: len(sourceThreats),
		ThreatTypes:     threatTypes,
		RiskLevels:      riskLevels,
		TopSources:      rankSources(sourceThreats),
		OverallRisk:     overall,
		BlockedIPs:      blockedIPs,
		GeneratedAt:     generatedAt,
	}, nil
}

// threatTypesOf extracts the threat type strings from a stored security
// event payload.
func threatTypesOf(payload map[string]any) []string {
	raw, ok := payload["threats"]
	if !ok {
		return nil
	}
	list, isList := raw.([]any)
	if !isList {
		return nil
	}
	var types []string
	for _, entry := range list {
		if m, isMap := entry.(map[string]any); isMap {
			if t, isStr := m["type"].(string); isStr {
				types = append(types, t)
			}
		}
	}
	return types
}

// rankSources orders origin addresses by threat count, ties broken by
// address, capped at ten.
func rankSources(counts map[string]int) []ThreatSource {
	sources := make([]ThreatSource, 0, len(counts))
	for ip, n := range counts {
		sources = append(sources, ThreatSource{IPAddress: ip, Threats: n})
	}
	sort.Slice(sources, func(i, j int) bool {
		if sources[i].Threats != sources[j].Threats {
			return sources[i].Threats > sources[j].Threats
		}
		return sources[i].IPAddress < sources[j].IPAddress
	})
	if len(sources) > 10 {
		sources = sources[:10]
	}
	return sources
}
