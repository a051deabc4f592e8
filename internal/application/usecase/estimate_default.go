package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/quantsingularity/FinovaBank/internal/application/dto"
	"github.com/quantsingularity/FinovaBank/internal/domain/service"
)

// EstimateDefault is the use case for estimating default probability.
// Estimates are advisory and leave no audit trail; only decisions do.
type EstimateDefault struct {
	scorer *service.DefaultProbabilityScorer
	now    func() time.Time
}

// NewEstimateDefault creates a new EstimateDefault use case.
func NewEstimateDefault(scorer *service.DefaultProbabilityScorer) *EstimateDefault {
	return &EstimateDefault{
		scorer: scorer,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// WithClock overrides the use case clock. Test hook.
func (uc *EstimateDefault) WithClock(now func() time.Time) *EstimateDefault {
	uc.now = now
	return uc
}

// Execute estimates the probability of default for one borrower.
func (uc *EstimateDefault) Execute(_ context.Context, req dto.ScoreRequest) (dto.DefaultProbabilityResponse, error) {
	result, err := uc.scorer.Estimate(req.Record, uc.now())
	if err != nil {
		return dto.DefaultProbabilityResponse{}, fmt.Errorf("estimate default probability: %w", err)
	}
	return dto.FromDefaultResult(result), nil
}
