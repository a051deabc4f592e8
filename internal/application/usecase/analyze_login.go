package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/quantsingularity/FinovaBank/internal/application/dto"
	"github.com/quantsingularity/FinovaBank/internal/domain/service"
)

// AnalyzeLogin is the use case for screening login attempts.
type AnalyzeLogin struct {
	analyzer *service.LoginAnalyzer
	ledger   *service.Ledger
	now      func() time.Time
}

// NewAnalyzeLogin creates a new AnalyzeLogin use case.
func NewAnalyzeLogin(analyzer *service.LoginAnalyzer, ledger *service.Ledger) *AnalyzeLogin {
	return &AnalyzeLogin{
		analyzer: analyzer,
		ledger:   ledger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// WithClock overrides the use case clock. Test hook.
func (uc *AnalyzeLogin) WithClock(now func() time.Time) *AnalyzeLogin {
	uc.now = now
	return uc
}

// Execute screens the attempt and records the outcome. The recorded
// payload carries the score, the enforcement action and the detected
// threats so the posture report can aggregate them later.
func (uc *AnalyzeLogin) Execute(ctx context.Context, req dto.LoginEventRequest) (dto.LoginAnalysisResponse, error) {
	result, err := uc.analyzer.Analyze(ctx, req.Record, uc.now())
	if err != nil {
		return dto.LoginAnalysisResponse{}, fmt.Errorf("analyze login attempt: %w", err)
	}

	if _, err := uc.ledger.Append(ctx, service.EventDraft{
		EventType: "login_screened",
		ActorID:   result.Username,
		IPAddress: result.IPAddress,
		UserAgent: stringField(req.Record, "user_agent"),
		Service:   service.SecurityServiceName,
		Action:    "login_attempt",
		Resource:  "login",
		RiskLevel: severityForLevel(result.RiskLevel),
		Data: map[string]any{
			"risk_score": result.RiskScore,
			"risk_level": result.RiskLevel,
			"action":     result.Action,
			"blocked":    result.Blocked,
			"threats":    threatPayload(result.Threats),
		},
	}); err != nil {
		return dto.LoginAnalysisResponse{}, fmt.Errorf("record login screening: %w", err)
	}

	return dto.FromLoginAnalysis(result), nil
}

// threatPayload flattens threats into the generic shape stored on the
// audit event.
func threatPayload(threats []service.Threat) []any {
	out := make([]any, 0, len(threats))
	for _, t := range threats {
		out = append(out, map[string]any{
			"type":        t.Type,
			"description": t.Description,
			"severity":    t.Severity.String(),
			"risk_points": t.RiskPoints,
		})
	}
	return out
}

func stringField(rec map[string]any, key string) string {
	str, _ := rec[key].(string)
	return str
}
