package service_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantsingularity/FinovaBank/internal/domain/service"
	"github.com/quantsingularity/FinovaBank/internal/domain/valueobject"
)

func evaluateTransactions(t *testing.T, rec service.Record) service.Evaluation {
	t.Helper()
	evaluator := service.NewRuleEvaluator()
	return evaluator.Evaluate(rec, service.TransactionRules(service.DefaultComplianceThresholds()))
}

func ruleIDs(results []service.RuleResult) []string {
	ids := make([]string, 0, len(results))
	for _, r := range results {
		ids = append(ids, r.RuleID)
	}
	return ids
}

func TestTransactionRules_DualApprovalRequiredAboveThreshold(t *testing.T) {
	eval := evaluateTransactions(t, service.Record{
		"amount":    15000.0,
		"approvers": []any{"alice"},
	})

	assert.Contains(t, ruleIDs(eval.Violations), "SOX-DUAL-APPROVAL")
	assert.True(t, eval.Status.IsViolation())
}

func TestTransactionRules_DualApprovalSatisfiedByTwoApprovers(t *testing.T) {
	eval := evaluateTransactions(t, service.Record{
		"amount":    15000.0,
		"approvers": []any{"alice", "bob"},
	})

	assert.NotContains(t, ruleIDs(eval.Violations), "SOX-DUAL-APPROVAL")
}

func TestTransactionRules_DualApprovalNotRequiredAtThreshold(t *testing.T) {
	eval := evaluateTransactions(t, service.Record{
		"amount": 10000.0,
	})

	assert.NotContains(t, ruleIDs(eval.Violations), "SOX-DUAL-APPROVAL")
}

func TestTransactionRules_SegregationOfDuties(t *testing.T) {
	eval := evaluateTransactions(t, service.Record{
		"amount":      500.0,
		"user_id":     "u-1",
		"approver_id": "u-1",
	})

	require.Contains(t, ruleIDs(eval.Violations), "SOX-SEGREGATION-OF-DUTIES")
	for _, v := range eval.Violations {
		if v.RuleID == "SOX-SEGREGATION-OF-DUTIES" {
			assert.True(t, v.Severity.Equal(valueobject.SeverityCritical))
		}
	}
}

func TestTransactionRules_CashOverCTRThresholdIsAnAlert(t *testing.T) {
	eval := evaluateTransactions(t, service.Record{
		"amount":    12000.0,
		"type":      "cash",
		"approvers": []any{"alice", "bob"},
	})

	require.Contains(t, ruleIDs(eval.Alerts), "AML-CTR")
	for _, a := range eval.Alerts {
		if a.RuleID == "AML-CTR" {
			assert.Equal(t, "FILE_CTR", a.ActionRequired)
		}
	}
	// Alerts alone never fail the check.
	assert.False(t, eval.Status.IsViolation())
}

func TestTransactionRules_StructuringPattern(t *testing.T) {
	eval := evaluateTransactions(t, service.Record{
		"amount": 9000.0,
	})

	assert.Contains(t, ruleIDs(eval.Alerts), "AML-SUSPICIOUS-ACTIVITY")
}

func TestTransactionRules_ZeroAmountIsNotStructuring(t *testing.T) {
	eval := evaluateTransactions(t, service.Record{
		"amount": 0.0,
	})

	assert.NotContains(t, ruleIDs(eval.Alerts), "AML-SUSPICIOUS-ACTIVITY")
	assert.False(t, eval.Status.IsViolation())
}

func TestTransactionRules_HighVelocityIsSuspicious(t *testing.T) {
	eval := evaluateTransactions(t, service.Record{
		"amount":                  150.0,
		"daily_transaction_count": 25,
	})

	assert.Contains(t, ruleIDs(eval.Alerts), "AML-SUSPICIOUS-ACTIVITY")
}

func TestTransactionRules_LocationMismatchIsSuspicious(t *testing.T) {
	eval := evaluateTransactions(t, service.Record{
		"amount":                150.0,
		"location":              map[string]any{"country": "PA"},
		"customer_home_country": "US",
	})

	assert.Contains(t, ruleIDs(eval.Alerts), "AML-SUSPICIOUS-ACTIVITY")
}

func TestTransactionRules_EnumeratesEveryBrokenRule(t *testing.T) {
	eval := evaluateTransactions(t, service.Record{
		"amount":      15000.0,
		"approvers":   []any{"u-1"},
		"user_id":     "u-1",
		"approver_id": "u-1",
	})

	ids := ruleIDs(eval.Violations)
	assert.Contains(t, ids, "SOX-DUAL-APPROVAL")
	assert.Contains(t, ids, "SOX-SEGREGATION-OF-DUTIES")
}

func TestDataPrivacyRules_ConsentRequiredForPersonalData(t *testing.T) {
	evaluator := service.NewRuleEvaluator()
	rules := service.DataPrivacyRules(service.DefaultComplianceThresholds())

	eval := evaluator.Evaluate(service.Record{
		"data_type":      "personal_info",
		"consent_status": false,
		"purpose":        "fraud investigation case 2291",
	}, rules)
	assert.Contains(t, ruleIDs(eval.Violations), "GDPR-CONSENT")

	eval = evaluator.Evaluate(service.Record{
		"data_type":      "personal_info",
		"consent_status": true,
		"purpose":        "fraud investigation case 2291",
	}, rules)
	assert.Empty(t, eval.Violations)
	assert.False(t, eval.Status.IsViolation())
}

func TestDataPrivacyRules_RetentionCeiling(t *testing.T) {
	evaluator := service.NewRuleEvaluator()
	rules := service.DataPrivacyRules(service.DefaultComplianceThresholds())

	eval := evaluator.Evaluate(service.Record{
		"data_type":             "account_metadata",
		"retention_period_days": 3000,
		"purpose":               "regulatory reporting archive",
	}, rules)

	assert.Contains(t, ruleIDs(eval.Violations), "GDPR-RETENTION")
}

func TestDataPrivacyRules_VaguePurposeIsAnAlert(t *testing.T) {
	evaluator := service.NewRuleEvaluator()
	rules := service.DataPrivacyRules(service.DefaultComplianceThresholds())

	eval := evaluator.Evaluate(service.Record{
		"data_type": "account_metadata",
		"purpose":   "  misc  ",
	}, rules)

	assert.Contains(t, ruleIDs(eval.Alerts), "GDPR-PURPOSE-LIMITATION")
	assert.False(t, eval.Status.IsViolation())
}

func TestSystemAccessRules_PaymentSystemRoleCheck(t *testing.T) {
	evaluator := service.NewRuleEvaluator()
	rules := service.SystemAccessRules(service.DefaultComplianceThresholds())

	eval := evaluator.Evaluate(service.Record{
		"system":    "payment-gateway",
		"user_role": "TELLER",
	}, rules)
	assert.Contains(t, ruleIDs(eval.Violations), "PCI-ACCESS-CONTROL")

	eval = evaluator.Evaluate(service.Record{
		"system":    "payment-gateway",
		"user_role": "ADMIN",
	}, rules)
	assert.NotContains(t, ruleIDs(eval.Violations), "PCI-ACCESS-CONTROL")
}

func TestSystemAccessRules_FinancialSystemRoleCheck(t *testing.T) {
	evaluator := service.NewRuleEvaluator()
	rules := service.SystemAccessRules(service.DefaultComplianceThresholds())

	eval := evaluator.Evaluate(service.Record{
		"system":    "core-accounting",
		"user_role": "CONTRACTOR",
	}, rules)

	assert.Contains(t, ruleIDs(eval.Violations), "SOX-FINANCIAL-ACCESS")
}

func TestSystemAccessRules_AfterHoursAccessIsAnAlert(t *testing.T) {
	evaluator := service.NewRuleEvaluator()
	rules := service.SystemAccessRules(service.DefaultComplianceThresholds())

	eval := evaluator.Evaluate(service.Record{
		"system":      "hr-portal",
		"user_role":   "EMPLOYEE",
		"access_time": "2024-03-13T23:30:00Z",
	}, rules)
	assert.Contains(t, ruleIDs(eval.Alerts), "SEC-AFTER-HOURS")

	eval = evaluator.Evaluate(service.Record{
		"system":      "hr-portal",
		"user_role":   "EMPLOYEE",
		"access_time": "2024-03-13T10:30:00Z",
	}, rules)
	assert.Empty(t, eval.Alerts)
}

func TestNewRuleSet_Validation(t *testing.T) {
	_, err := service.NewRuleSet([]service.ComplianceRule{
		{ID: "", Kind: service.RuleKindViolation},
	})
	assert.ErrorContains(t, err, "without an id")

	pred := func(service.Record) bool { return false }
	_, err = service.NewRuleSet([]service.ComplianceRule{
		{ID: "R-1", Kind: service.RuleKindViolation, Severity: valueobject.SeverityLow, Predicate: pred},
		{ID: "R-1", Kind: service.RuleKindAlert, Severity: valueobject.SeverityLow, Predicate: pred},
	})
	assert.ErrorContains(t, err, "duplicate")

	_, err = service.NewRuleSet([]service.ComplianceRule{
		{ID: "R-2", Kind: service.RuleKindViolation, Severity: valueobject.SeverityLow},
	})
	assert.ErrorContains(t, err, "no predicate")
}
