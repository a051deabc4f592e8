package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/quantsingularity/FinovaBank/internal/application/dto"
	"github.com/quantsingularity/FinovaBank/internal/domain/event"
	"github.com/quantsingularity/FinovaBank/internal/domain/port"
	"github.com/quantsingularity/FinovaBank/internal/domain/service"
	"github.com/quantsingularity/FinovaBank/internal/domain/valueobject"
)

// ComplianceServiceName tags audit events recorded by the compliance
// use cases.
const ComplianceServiceName = "compliance-service"

// CheckCompliance is the use case for evaluating one record against a
// domain rule catalog.
type CheckCompliance struct {
	evaluator *service.RuleEvaluator
	catalogs  map[string]service.RuleSet
	ledger    *service.Ledger
	publisher port.EventPublisher
	now       func() time.Time
}

// NewCheckCompliance creates a new CheckCompliance use case over the
// given thresholds.
func NewCheckCompliance(evaluator *service.RuleEvaluator, thresholds service.ComplianceThresholds, ledger *service.Ledger, publisher port.EventPublisher) *CheckCompliance {
	return &CheckCompliance{
		evaluator: evaluator,
		catalogs: map[string]service.RuleSet{
			dto.ComplianceDomainTransaction:  service.TransactionRules(thresholds),
			dto.ComplianceDomainDataPrivacy:  service.DataPrivacyRules(thresholds),
			dto.ComplianceDomainSystemAccess: service.SystemAccessRules(thresholds),
		},
		ledger:    ledger,
		publisher: publisher,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// WithClock overrides the use case clock. Test hook.
func (uc *CheckCompliance) WithClock(now func() time.Time) *CheckCompliance {
	uc.now = now
	return uc
}

// Execute evaluates the record. Every broken mandatory rule is recorded
// as its own audit event, tagged with the rule's regulation so the
// dashboard can group them; alerts leave no trail. A VIOLATION outcome
// additionally publishes one violation-detected event naming all broken
// rules.
func (uc *CheckCompliance) Execute(ctx context.Context, req dto.ComplianceCheckRequest) (dto.ComplianceCheckResponse, error) {
	rules, ok := uc.catalogs[req.Domain]
	if !ok {
		return dto.ComplianceCheckResponse{}, fmt.Errorf("unknown compliance domain %q", req.Domain)
	}

	checkedAt := uc.now()
	checkID := uuid.New()
	eval := uc.evaluator.Evaluate(req.ToRecord(), rules)

	for _, violation := range eval.Violations {
		if _, err := uc.ledger.Append(ctx, service.EventDraft{
			EventType:  "compliance_rule_broken",
			ActorID:    req.ActorID,
			Service:    ComplianceServiceName,
			Action:     service.ComplianceViolationAction,
			Resource:   req.Domain,
			ResourceID: req.RecordID,
			RiskLevel:  violation.Severity,
			Data: map[string]any{
				"check_id":        checkID.String(),
				"rule_id":         violation.RuleID,
				"regulation":      violation.Regulation,
				"description":     violation.Description,
				"action_required": violation.ActionRequired,
			},
			Timestamp: checkedAt,
		}); err != nil {
			return dto.ComplianceCheckResponse{}, fmt.Errorf("record violation %s: %w", violation.RuleID, err)
		}
	}

	if eval.Status.IsViolation() {
		ruleIDs := make([]string, 0, len(eval.Violations))
		worst := valueobject.SeverityLow
		for _, v := range eval.Violations {
			ruleIDs = append(ruleIDs, v.RuleID)
			if v.Severity.AtLeast(worst) {
				worst = v.Severity
			}
		}
		evt := event.NewViolationDetected(event.ViolationDetectedBody{
			CheckID:    checkID,
			RecordID:   req.RecordID,
			Rules:      ruleIDs,
			Severity:   worst.String(),
			DetectedAt: checkedAt,
		})
		if err := uc.publisher.Publish(ctx, evt); err != nil {
			return dto.ComplianceCheckResponse{}, fmt.Errorf("publish violation event: %w", err)
		}
	}

	return dto.FromEvaluation(checkID.String(), req.Domain, req.RecordID, eval, checkedAt), nil
}
