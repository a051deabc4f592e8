package service

import (
	"math"
	"strings"

	"github.com/quantsingularity/FinovaBank/internal/domain/valueobject"
)

// ComplianceThresholds carries the tunable limits behind the stock rule
// catalog. Loaded once at startup and treated as immutable.
type ComplianceThresholds struct {
	DualApprovalAmount   float64
	RequiredApprovers    int
	CTRAmount            float64
	SuspiciousAmount     float64
	SuspiciousDailyCount float64
	StructuringCeiling   float64
	StructuringMultiple  float64
	MaxRetentionYears    int
	MinPurposeLength     int
	PaymentSystemRoles   []string
	FinancialSystemRoles []string
}

// DefaultComplianceThresholds returns the stock limits.
func DefaultComplianceThresholds() ComplianceThresholds {
	return ComplianceThresholds{
		DualApprovalAmount:   10000,
		RequiredApprovers:    2,
		CTRAmount:            10000,
		SuspiciousAmount:     50000,
		SuspiciousDailyCount: 20,
		StructuringCeiling:   10000,
		StructuringMultiple:  1000,
		MaxRetentionYears:    7,
		MinPurposeLength:     10,
		PaymentSystemRoles:   []string{"ADMIN", "PAYMENT_PROCESSOR", "COMPLIANCE_OFFICER"},
		FinancialSystemRoles: []string{"ADMIN", "MANAGER", "EMPLOYEE", "AUDITOR"},
	}
}

// TransactionRules is the SOX and BSA/AML catalog applied to financial
// transactions.
func TransactionRules(t ComplianceThresholds) RuleSet {
	return MustRuleSet([]ComplianceRule{
		{
			ID:          "SOX-DUAL-APPROVAL",
			Regulation:  "SOX",
			Description: "Transactions above the dual approval threshold require two approvers",
			Severity:    valueobject.SeverityHigh,
			Kind:        RuleKindViolation,
			Predicate: func(rec Record) bool {
				amount, _ := numericAt(rec, "amount")
				if amount <= t.DualApprovalAmount {
					return false
				}
				return approverCount(rec) < t.RequiredApprovers
			},
		},
		{
			ID:          "SOX-SEGREGATION-OF-DUTIES",
			Regulation:  "SOX",
			Description: "Same user cannot initiate and approve a transaction",
			Severity:    valueobject.SeverityCritical,
			Kind:        RuleKindViolation,
			Predicate: func(rec Record) bool {
				user := stringAt(rec, "user_id")
				approver := stringAt(rec, "approver_id")
				return user != "" && approver != "" && user == approver
			},
		},
		{
			ID:             "AML-CTR",
			Regulation:     "BSA_AML",
			Description:    "Cash transactions over the CTR threshold must be reported",
			Severity:       valueobject.SeverityHigh,
			Kind:           RuleKindAlert,
			ActionRequired: "FILE_CTR",
			Predicate: func(rec Record) bool {
				amount, _ := numericAt(rec, "amount")
				return strings.EqualFold(stringAt(rec, "type"), "CASH") && amount > t.CTRAmount
			},
		},
		{
			ID:             "AML-SUSPICIOUS-ACTIVITY",
			Regulation:     "BSA_AML",
			Description:    "Transaction flagged for suspicious activity review",
			Severity:       valueobject.SeverityCritical,
			Kind:           RuleKindAlert,
			ActionRequired: "REVIEW_SAR",
			Predicate: func(rec Record) bool {
				return isSuspiciousTransaction(rec, t)
			},
		},
	})
}

// DataPrivacyRules is the GDPR catalog applied to data access requests.
func DataPrivacyRules(t ComplianceThresholds) RuleSet {
	return MustRuleSet([]ComplianceRule{
		{
			ID:          "GDPR-CONSENT",
			Regulation:  "GDPR",
			Description: "Personal data access requires explicit consent",
			Severity:    valueobject.SeverityHigh,
			Kind:        RuleKindViolation,
			Predicate: func(rec Record) bool {
				if !strings.Contains(strings.ToLower(stringAt(rec, "data_type")), "personal") {
					return false
				}
				consent, _ := rec.Lookup("consent_status")
				granted, _ := consent.(bool)
				return !granted
			},
		},
		{
			ID:          "GDPR-RETENTION",
			Regulation:  "GDPR",
			Description: "Retention period exceeds the regulatory maximum",
			Severity:    valueobject.SeverityMedium,
			Kind:        RuleKindViolation,
			Predicate: func(rec Record) bool {
				days, _ := numericAt(rec, "retention_period_days")
				return days > float64(t.MaxRetentionYears*365)
			},
		},
		{
			ID:          "GDPR-PURPOSE-LIMITATION",
			Regulation:  "GDPR",
			Description: "Data processing purpose must be clearly specified",
			Severity:    valueobject.SeverityMedium,
			Kind:        RuleKindAlert,
			Predicate: func(rec Record) bool {
				purpose := strings.TrimSpace(stringAt(rec, "purpose"))
				return len(purpose) < t.MinPurposeLength
			},
		},
	})
}

// SystemAccessRules is the PCI DSS and SOX catalog applied to system
// access events.
func SystemAccessRules(t ComplianceThresholds) RuleSet {
	return MustRuleSet([]ComplianceRule{
		{
			ID:          "PCI-ACCESS-CONTROL",
			Regulation:  "PCI_DSS",
			Description: "User role not authorized for payment system access",
			Severity:    valueobject.SeverityHigh,
			Kind:        RuleKindViolation,
			Predicate: func(rec Record) bool {
				system := strings.ToLower(stringAt(rec, "system"))
				if !strings.Contains(system, "payment") && !strings.Contains(system, "card") {
					return false
				}
				return !containsString(t.PaymentSystemRoles, stringAt(rec, "user_role"))
			},
		},
		{
			ID:          "SOX-FINANCIAL-ACCESS",
			Regulation:  "SOX",
			Description: "User role not authorized for financial system access",
			Severity:    valueobject.SeverityHigh,
			Kind:        RuleKindViolation,
			Predicate: func(rec Record) bool {
				system := strings.ToLower(stringAt(rec, "system"))
				if !strings.Contains(system, "financial") && !strings.Contains(system, "accounting") {
					return false
				}
				return !containsString(t.FinancialSystemRoles, stringAt(rec, "user_role"))
			},
		},
		{
			ID:          "SEC-AFTER-HOURS",
			Regulation:  "INTERNAL",
			Description: "System access outside normal business hours",
			Severity:    valueobject.SeverityMedium,
			Kind:        RuleKindAlert,
			Predicate: func(rec Record) bool {
				raw, ok := rec.Lookup("access_time")
				if !ok {
					return false
				}
				ts, err := timeValue(raw)
				if err != nil {
					return false
				}
				hour := ts.Hour()
				return hour < 6 || hour > 22
			},
		},
	})
}

// isSuspiciousTransaction flags high amounts, high velocity, location
// mismatches, and sub-threshold round amounts that suggest structuring.
// A zero amount is not treated as a round number.
func isSuspiciousTransaction(rec Record, t ComplianceThresholds) bool {
	amount, _ := numericAt(rec, "amount")
	if amount > t.SuspiciousAmount {
		return true
	}

	count, ok := numericAt(rec, "daily_transaction_count")
	if ok && count > t.SuspiciousDailyCount {
		return true
	}

	if stringAt(rec, "location.country") != stringAt(rec, "customer_home_country") {
		return true
	}

	if amount > 0 && amount < t.StructuringCeiling && math.Mod(amount, t.StructuringMultiple) == 0 {
		return true
	}
	return false
}

func approverCount(rec Record) int {
	raw, ok := rec.Lookup("approvers")
	if !ok {
		return 0
	}
	switch list := raw.(type) {
	case []any:
		return len(list)
	case []string:
		return len(list)
	default:
		return 0
	}
}

func containsString(list []string, s string) bool {
	for _, entry := range list {
		if entry == s {
			return true
		}
	}
	return false
}
