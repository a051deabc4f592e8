package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/quantsingularity/FinovaBank/internal/domain/service"
)

// Compliance check domains.
const (
	ComplianceDomainTransaction  = "transaction"
	ComplianceDomainDataPrivacy  = "data_privacy"
	ComplianceDomainSystemAccess = "system_access"
)

// ComplianceCheckRequest is the input for a compliance check. Domain
// selects the rule catalog; the record carries the fields the catalog's
// predicates read. A non-zero Amount overrides the record's amount with
// an exact decimal value.
type ComplianceCheckRequest struct {
	Domain   string          `json:"domain"`
	Record   map[string]any  `json:"record"`
	RecordID string          `json:"record_id"`
	Amount   decimal.Decimal `json:"amount"`
	ActorID  string          `json:"actor_id"`
}

// ToRecord merges the typed amount into the raw record.
func (r ComplianceCheckRequest) ToRecord() map[string]any {
	rec := make(map[string]any, len(r.Record)+1)
	for k, v := range r.Record {
		rec[k] = v
	}
	if !r.Amount.IsZero() {
		rec["amount"] = r.Amount
	}
	return rec
}

// RuleResultDTO describes one triggered rule.
type RuleResultDTO struct {
	RuleID         string `json:"rule_id"`
	Regulation     string `json:"regulation"`
	Description    string `json:"description"`
	Severity       string `json:"severity"`
	ActionRequired string `json:"action_required,omitempty"`
}

func fromRuleResults(results []service.RuleResult) []RuleResultDTO {
	out := make([]RuleResultDTO, 0, len(results))
	for _, r := range results {
		out = append(out, RuleResultDTO{
			RuleID:         r.RuleID,
			Regulation:     r.Regulation,
			Description:    r.Description,
			Severity:       r.Severity.String(),
			ActionRequired: r.ActionRequired,
		})
	}
	return out
}

// ComplianceCheckResponse is the result of one compliance check.
type ComplianceCheckResponse struct {
	CheckID    string          `json:"check_id"`
	Domain     string          `json:"domain"`
	RecordID   string          `json:"record_id"`
	Status     string          `json:"status"`
	Violations []RuleResultDTO `json:"violations"`
	Alerts     []RuleResultDTO `json:"alerts"`
	CheckedAt  time.Time       `json:"checked_at"`
}

// FromEvaluation maps a rule evaluation to the response DTO.
func FromEvaluation(checkID, domain, recordID string, eval service.Evaluation, checkedAt time.Time) ComplianceCheckResponse {
	return ComplianceCheckResponse{
		CheckID:    checkID,
		Domain:     domain,
		RecordID:   recordID,
		Status:     eval.Status.String(),
		Violations: fromRuleResults(eval.Violations),
		Alerts:     fromRuleResults(eval.Alerts),
		CheckedAt:  checkedAt,
	}
}

// ComplianceDashboardResponse is the dashboard output.
type ComplianceDashboardResponse struct {
	ComplianceScore    int            `json:"compliance_score"`
	TotalViolations    int            `json:"total_violations"`
	CriticalViolations int            `json:"critical_violations"`
	HighViolations     int            `json:"high_violations"`
	MediumViolations   int            `json:"medium_violations"`
	ByRegulation       map[string]int `json:"by_regulation"`
	RecentViolations   int            `json:"recent_violations"`
	Status             string         `json:"status"`
	RecommendedAction  string         `json:"recommended_action"`
	GeneratedAt        time.Time      `json:"generated_at"`
}

// FromDashboard maps the domain dashboard to the response DTO.
func FromDashboard(d service.ComplianceDashboard) ComplianceDashboardResponse {
	return ComplianceDashboardResponse{
		ComplianceScore:    d.ComplianceScore,
		TotalViolations:    d.TotalViolations,
		CriticalViolations: d.CriticalViolations,
		HighViolations:     d.HighViolations,
		MediumViolations:   d.MediumViolations,
		ByRegulation:       d.ByRegulation,
		RecentViolations:   d.RecentViolations,
		Status:             d.Status,
		RecommendedAction:  d.RecommendedAction,
		GeneratedAt:        d.GeneratedAt,
	}
}
