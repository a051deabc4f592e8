package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/quantsingularity/FinovaBank/internal/application/dto"
	"github.com/quantsingularity/FinovaBank/internal/domain/service"
)

// SegmentCustomers is the use case for RFM customer segmentation.
type SegmentCustomers struct {
	segmenter *service.RFMSegmenter
	now       func() time.Time
}

// NewSegmentCustomers creates a new SegmentCustomers use case.
func NewSegmentCustomers(segmenter *service.RFMSegmenter) *SegmentCustomers {
	return &SegmentCustomers{
		segmenter: segmenter,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// WithClock overrides the use case clock. Test hook.
func (uc *SegmentCustomers) WithClock(now func() time.Time) *SegmentCustomers {
	uc.now = now
	return uc
}

// Execute segments the customer base by recency, frequency and
// monetary value.
func (uc *SegmentCustomers) Execute(_ context.Context, req dto.SegmentationRequest) (dto.SegmentationResponse, error) {
	customers := make([]service.Record, 0, len(req.Customers))
	for _, c := range req.Customers {
		customers = append(customers, service.Record(c))
	}

	analysis, err := uc.segmenter.Segment(customers, uc.now())
	if err != nil {
		return dto.SegmentationResponse{}, fmt.Errorf("segment customers: %w", err)
	}
	return dto.FromRFMAnalysis(analysis), nil
}
