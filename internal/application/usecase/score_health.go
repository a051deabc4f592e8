package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/quantsingularity/FinovaBank/internal/application/dto"
	"github.com/quantsingularity/FinovaBank/internal/domain/service"
)

// ScoreHealth is the use case for the financial health score. Health
// scores are advisory analytics, not decisions, so they leave no audit
// trail.
type ScoreHealth struct {
	scorer *service.HealthScorer
	now    func() time.Time
}

// NewScoreHealth creates a new ScoreHealth use case.
func NewScoreHealth(scorer *service.HealthScorer) *ScoreHealth {
	return &ScoreHealth{
		scorer: scorer,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// WithClock overrides the use case clock. Test hook.
func (uc *ScoreHealth) WithClock(now func() time.Time) *ScoreHealth {
	uc.now = now
	return uc
}

// Execute computes the health score for one customer record.
func (uc *ScoreHealth) Execute(_ context.Context, req dto.ScoreRequest) (dto.HealthScoreResponse, error) {
	result, err := uc.scorer.Score(req.Record, uc.now())
	if err != nil {
		return dto.HealthScoreResponse{}, fmt.Errorf("score financial health: %w", err)
	}
	return dto.FromHealthResult(result), nil
}
