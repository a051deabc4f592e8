package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/quantsingularity/FinovaBank/internal/application/dto"
	"github.com/quantsingularity/FinovaBank/internal/domain/service"
)

// MonitorAPI is the use case for screening API traffic.
type MonitorAPI struct {
	monitor *service.APIMonitor
	ledger  *service.Ledger
	now     func() time.Time
}

// NewMonitorAPI creates a new MonitorAPI use case.
func NewMonitorAPI(monitor *service.APIMonitor, ledger *service.Ledger) *MonitorAPI {
	return &MonitorAPI{
		monitor: monitor,
		ledger:  ledger,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// WithClock overrides the use case clock. Test hook.
func (uc *MonitorAPI) WithClock(now func() time.Time) *MonitorAPI {
	uc.now = now
	return uc
}

// Execute screens the request and records the outcome in the same
// payload shape the login screen uses, so posture reports aggregate
// both streams uniformly.
func (uc *MonitorAPI) Execute(ctx context.Context, req dto.APIRequestEvent) (dto.APIAssessmentResponse, error) {
	result, err := uc.monitor.Monitor(ctx, req.Record, uc.now())
	if err != nil {
		return dto.APIAssessmentResponse{}, fmt.Errorf("monitor api request: %w", err)
	}

	if _, err := uc.ledger.Append(ctx, service.EventDraft{
		EventType: "api_request_screened",
		ActorID:   stringField(req.Record, "user_id"),
		IPAddress: result.IPAddress,
		UserAgent: stringField(req.Record, "user_agent"),
		Service:   service.SecurityServiceName,
		Action:    "api_request",
		Resource:  result.Endpoint,
		RiskLevel: severityForLevel(result.RiskLevel),
		Data: map[string]any{
			"risk_score": result.RiskScore,
			"risk_level": result.RiskLevel,
			"endpoint":   result.Endpoint,
			"threats":    threatPayload(result.Threats),
		},
	}); err != nil {
		return dto.APIAssessmentResponse{}, fmt.Errorf("record api screening: %w", err)
	}

	return dto.FromAPIAssessment(result), nil
}
