package service

import (
	"fmt"

	"github.com/quantsingularity/FinovaBank/internal/domain/valueobject"
)

// RuleKind distinguishes hard violations from soft advisory alerts.
type RuleKind string

const (
	// RuleKindViolation marks a mandatory control; failing it fails
	// the record's compliance status.
	RuleKindViolation RuleKind = "violation"
	// RuleKindAlert marks an advisory check; failing it produces an
	// informational finding only.
	RuleKindAlert RuleKind = "alert"
)

// ComplianceRule is one declarative predicate over a record. The
// predicate is pure and side-effect-free; it reads the record and any
// static thresholds captured at rule construction, nothing else.
type ComplianceRule struct {
	ID             string
	Regulation     string
	Description    string
	Severity       valueobject.Severity
	Kind           RuleKind
	ActionRequired string
	// Predicate returns true when the rule is BROKEN by the record.
	Predicate func(Record) bool
}

// RuleResult is one broken rule in an evaluation.
type RuleResult struct {
	RuleID         string
	Regulation     string
	Description    string
	Severity       valueobject.Severity
	ActionRequired string
}

// Evaluation is the outcome of evaluating a record against a rule set.
type Evaluation struct {
	Violations []RuleResult
	Alerts     []RuleResult
	Status     valueobject.ComplianceStatus
}

// RuleSet is a validated, immutable collection of compliance rules.
type RuleSet struct {
	rules []ComplianceRule
}

// NewRuleSet validates and builds a rule set: ids must be unique and
// every rule needs a predicate.
func NewRuleSet(rules []ComplianceRule) (RuleSet, error) {
	seen := make(map[string]bool, len(rules))
	for _, r := range rules {
		if r.ID == "" {
			return RuleSet{}, fmt.Errorf("compliance rule without an id")
		}
		if seen[r.ID] {
			return RuleSet{}, fmt.Errorf("duplicate compliance rule id %q", r.ID)
		}
		seen[r.ID] = true
		if r.Predicate == nil {
			return RuleSet{}, fmt.Errorf("compliance rule %q has no predicate", r.ID)
		}
		if r.Kind != RuleKindViolation && r.Kind != RuleKindAlert {
			return RuleSet{}, fmt.Errorf("compliance rule %q has unknown kind %q", r.ID, r.Kind)
		}
		if r.Severity.IsZero() {
			return RuleSet{}, fmt.Errorf("compliance rule %q has no severity", r.ID)
		}
	}
	return RuleSet{rules: append([]ComplianceRule(nil), rules...)}, nil
}

// MustRuleSet builds a rule set and panics on invalid input. Reserved
// for static catalogs defined in code.
func MustRuleSet(rules []ComplianceRule) RuleSet {
	rs, err := NewRuleSet(rules)
	if err != nil {
		panic(err)
	}
	return rs
}

// Rules returns the rules of the set in declaration order.
func (rs RuleSet) Rules() []ComplianceRule {
	return append([]ComplianceRule(nil), rs.rules...)
}

// RuleEvaluator applies rule sets to records. It is stateless and safe
// for concurrent use.
type RuleEvaluator struct{}

// NewRuleEvaluator creates a new RuleEvaluator.
func NewRuleEvaluator() *RuleEvaluator {
	return &RuleEvaluator{}
}

// Evaluate applies every rule of the set to the record. Rules are
// evaluated independently, no short-circuiting: the result enumerates
// every broken rule, not just the first. The aggregate status is
// VIOLATION when at least one hard violation was found, COMPLIANT
// otherwise (alerts do not affect the status).
func (e *RuleEvaluator) Evaluate(rec Record, rules RuleSet) Evaluation {
	eval := Evaluation{
		Violations: make([]RuleResult, 0),
		Alerts:     make([]RuleResult, 0),
		Status:     valueobject.StatusCompliant,
	}

	for _, rule := range rules.rules {
		if !rule.Predicate(rec) {
			continue
		}
		result := RuleResult{
			RuleID:         rule.ID,
			Regulation:     rule.Regulation,
			Description:    rule.Description,
			Severity:       rule.Severity,
			ActionRequired: rule.ActionRequired,
		}
		switch rule.Kind {
		case RuleKindViolation:
			eval.Violations = append(eval.Violations, result)
		case RuleKindAlert:
			eval.Alerts = append(eval.Alerts, result)
		}
	}

	if len(eval.Violations) > 0 {
		eval.Status = valueobject.StatusViolation
	}
	return eval
}
