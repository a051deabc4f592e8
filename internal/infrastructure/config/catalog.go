package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/quantsingularity/FinovaBank/internal/domain/service"
)

// Catalog holds the declarative policy tables that tune the engine:
// sensitive-field names, audit classification rules, the security
// policy and the compliance thresholds. Catalogs are loaded once at
// startup and treated as immutable for the process lifetime.
type Catalog struct {
	SensitiveFields       []string             `yaml:"sensitive_fields"`
	DefaultRetentionYears int                  `yaml:"default_retention_years"`
	Classifiers           []classifierRuleYAML `yaml:"classifiers"`
	Security              securityPolicyYAML   `yaml:"security"`
	Compliance            complianceYAML       `yaml:"compliance"`
}

type classifierRuleYAML struct {
	Tag              string   `yaml:"tag"`
	RetentionYears   int      `yaml:"retention_years"`
	Actions          []string `yaml:"actions"`
	Services         []string `yaml:"services"`
	ResourceContains string   `yaml:"resource_contains"`
}

type securityPolicyYAML struct {
	MaxFailedAttempts       int      `yaml:"max_failed_attempts"`
	FailedAttemptWindowMins int      `yaml:"failed_attempt_window_minutes"`
	MaxRequestsPerMinute    int      `yaml:"max_requests_per_minute"`
	AllowedCountries        []string `yaml:"allowed_countries"`
	SuspiciousIPPatterns    []string `yaml:"suspicious_ip_patterns"`
	SuspiciousUserAgents    []string `yaml:"suspicious_user_agents"`
	SensitiveEndpoints      []string `yaml:"sensitive_endpoints"`
}

type complianceYAML struct {
	DualApprovalAmount   float64  `yaml:"dual_approval_amount"`
	RequiredApprovers    int      `yaml:"required_approvers"`
	CTRAmount            float64  `yaml:"ctr_amount"`
	SuspiciousAmount     float64  `yaml:"suspicious_amount"`
	SuspiciousDailyCount float64  `yaml:"suspicious_daily_count"`
	StructuringCeiling   float64  `yaml:"structuring_ceiling"`
	StructuringMultiple  float64  `yaml:"structuring_multiple"`
	MaxRetentionYears    int      `yaml:"max_retention_years"`
	MinPurposeLength     int      `yaml:"min_purpose_length"`
	PaymentSystemRoles   []string `yaml:"payment_system_roles"`
	FinancialSystemRoles []string `yaml:"financial_system_roles"`
}

// DefaultCatalog returns the embedded catalog used when no override
// file is configured. The classification table and field list follow
// the platform's regulatory defaults: SOX events keep 7 years, PCI 3,
// GDPR 6, everything else 5.
func DefaultCatalog() Catalog {
	securityDefaults := service.DefaultSecurityPolicy()
	complianceDefaults := service.DefaultComplianceThresholds()

	return Catalog{
		SensitiveFields:       []string{"password", "ssn", "account_number", "routing_number"},
		DefaultRetentionYears: 5,
		Classifiers: []classifierRuleYAML{
			{
				Tag:            "SOX",
				RetentionYears: 7,
				Actions:        []string{"financial_transaction", "account_creation", "balance_update", "loan_approval"},
				Services:       []string{"account-management", "transaction-service"},
			},
			{
				Tag:              "PCI",
				RetentionYears:   3,
				Actions:          []string{"payment_processing", "card_data_access", "payment_method_update"},
				ResourceContains: "payment",
			},
			{
				Tag:              "GDPR",
				RetentionYears:   6,
				Actions:          []string{"personal_data_access", "data_export", "data_deletion", "consent_update"},
				ResourceContains: "personal",
			},
		},
		Security: securityPolicyYAML{
			MaxFailedAttempts:       securityDefaults.MaxFailedAttempts,
			FailedAttemptWindowMins: int(securityDefaults.FailedAttemptWindow / time.Minute),
			MaxRequestsPerMinute:    securityDefaults.MaxRequestsPerMinute,
			AllowedCountries:        securityDefaults.AllowedCountries,
			SuspiciousIPPatterns:    securityDefaults.SuspiciousIPPatterns,
			SuspiciousUserAgents:    securityDefaults.SuspiciousUserAgents,
			SensitiveEndpoints:      securityDefaults.SensitiveEndpoints,
		},
		Compliance: complianceYAML{
			DualApprovalAmount:   complianceDefaults.DualApprovalAmount,
			RequiredApprovers:    complianceDefaults.RequiredApprovers,
			CTRAmount:            complianceDefaults.CTRAmount,
			SuspiciousAmount:     complianceDefaults.SuspiciousAmount,
			SuspiciousDailyCount: complianceDefaults.SuspiciousDailyCount,
			StructuringCeiling:   complianceDefaults.StructuringCeiling,
			StructuringMultiple:  complianceDefaults.StructuringMultiple,
			MaxRetentionYears:    complianceDefaults.MaxRetentionYears,
			MinPurposeLength:     complianceDefaults.MinPurposeLength,
			PaymentSystemRoles:   complianceDefaults.PaymentSystemRoles,
			FinancialSystemRoles: complianceDefaults.FinancialSystemRoles,
		},
	}
}

// LoadCatalog returns the default catalog, overridden by the YAML file
// at path when one is configured. A missing or malformed file is a hard
// error: a service running with a half-applied policy is worse than one
// that refuses to start.
func LoadCatalog(path string) (Catalog, error) {
	catalog := DefaultCatalog()
	if path == "" {
		return catalog, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return Catalog{}, fmt.Errorf("read catalog %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, &catalog); err != nil {
		return Catalog{}, fmt.Errorf("parse catalog %s: %w", path, err)
	}
	return catalog, nil
}

// SanitizePolicy converts the catalog's field list to the domain policy.
func (c Catalog) SanitizePolicy() service.SanitizePolicy {
	return service.NewSanitizePolicy(c.SensitiveFields)
}

// Classifier converts the catalog's classification table to the domain
// classifier, validating it in the process.
func (c Catalog) Classifier() (service.Classifier, error) {
	rules := make([]service.ClassifierRule, 0, len(c.Classifiers))
	for _, r := range c.Classifiers {
		rules = append(rules, service.ClassifierRule{
			Tag:              r.Tag,
			RetentionYears:   r.RetentionYears,
			Actions:          r.Actions,
			Services:         r.Services,
			ResourceContains: r.ResourceContains,
		})
	}
	return service.NewClassifier(rules, c.DefaultRetentionYears)
}

// SecurityPolicy converts the catalog's security section to the domain policy.
func (c Catalog) SecurityPolicy() service.SecurityPolicy {
	return service.SecurityPolicy{
		MaxFailedAttempts:    c.Security.MaxFailedAttempts,
		FailedAttemptWindow:  time.Duration(c.Security.FailedAttemptWindowMins) * time.Minute,
		MaxRequestsPerMinute: c.Security.MaxRequestsPerMinute,
		AllowedCountries:     c.Security.AllowedCountries,
		SuspiciousIPPatterns: c.Security.SuspiciousIPPatterns,
		SuspiciousUserAgents: c.Security.SuspiciousUserAgents,
		SensitiveEndpoints:   c.Security.SensitiveEndpoints,
	}
}

// ComplianceThresholds converts the catalog's compliance section to the
// domain thresholds.
func (c Catalog) ComplianceThresholds() service.ComplianceThresholds {
	return service.ComplianceThresholds{
		DualApprovalAmount:   c.Compliance.DualApprovalAmount,
		RequiredApprovers:    c.Compliance.RequiredApprovers,
		CTRAmount:            c.Compliance.CTRAmount,
		SuspiciousAmount:     c.Compliance.SuspiciousAmount,
		SuspiciousDailyCount: c.Compliance.SuspiciousDailyCount,
		StructuringCeiling:   c.Compliance.StructuringCeiling,
		StructuringMultiple:  c.Compliance.StructuringMultiple,
		MaxRetentionYears:    c.Compliance.MaxRetentionYears,
		MinPurposeLength:     c.Compliance.MinPurposeLength,
		PaymentSystemRoles:   c.Compliance.PaymentSystemRoles,
		FinancialSystemRoles: c.Compliance.FinancialSystemRoles,
	}
}
