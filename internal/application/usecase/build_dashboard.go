package usecase

import (
	"context"
	"fmt"

	"github.com/quantsingularity/FinovaBank/internal/application/dto"
	"github.com/quantsingularity/FinovaBank/internal/domain/service"
)

// BuildDashboard is the use case for the compliance posture dashboard.
type BuildDashboard struct {
	builder *service.DashboardBuilder
}

// NewBuildDashboard creates a new BuildDashboard use case.
func NewBuildDashboard(builder *service.DashboardBuilder) *BuildDashboard {
	return &BuildDashboard{builder: builder}
}

// Execute assembles the dashboard from recorded violations.
func (uc *BuildDashboard) Execute(ctx context.Context) (dto.ComplianceDashboardResponse, error) {
	dashboard, err := uc.builder.Build(ctx)
	if err != nil {
		return dto.ComplianceDashboardResponse{}, fmt.Errorf("build compliance dashboard: %w", err)
	}
	return dto.FromDashboard(dashboard), nil
}
