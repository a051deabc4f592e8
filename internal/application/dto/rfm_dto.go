package dto

import (
	"time"

	"github.com/quantsingularity/FinovaBank/internal/domain/service"
)

// SegmentationRequest is the input for RFM customer segmentation. Each
// customer record carries a customer_id and its transaction history.
type SegmentationRequest struct {
	Customers []map[string]any `json:"customers"`
}

// RFMCustomerDTO is one segmented customer.
type RFMCustomerDTO struct {
	CustomerID string  `json:"customer_id"`
	Recency    int     `json:"recency"`
	Frequency  int     `json:"frequency"`
	Monetary   float64 `json:"monetary"`
	RScore     int     `json:"r_score"`
	FScore     int     `json:"f_score"`
	MScore     int     `json:"m_score"`
	Code       string  `json:"code"`
	Segment    string  `json:"segment"`
}

// SegmentStatDTO summarizes one segment.
type SegmentStatDTO struct {
	Customers    int     `json:"customers"`
	AvgRecency   float64 `json:"avg_recency"`
	AvgFrequency float64 `json:"avg_frequency"`
	AvgMonetary  float64 `json:"avg_monetary"`
}

// SegmentationResponse is the segmentation output.
type SegmentationResponse struct {
	TotalCustomers int                       `json:"total_customers"`
	Distribution   map[string]int            `json:"distribution"`
	SegmentStats   map[string]SegmentStatDTO `json:"segment_stats"`
	AvgRecency     float64                   `json:"avg_recency"`
	AvgFrequency   float64                   `json:"avg_frequency"`
	AvgMonetary    float64                   `json:"avg_monetary"`
	TopCustomers   []RFMCustomerDTO          `json:"top_customers"`
	ComputedAt     time.Time                 `json:"computed_at"`
}

// FromRFMAnalysis maps the domain analysis to the response DTO.
func FromRFMAnalysis(r service.RFMAnalysis) SegmentationResponse {
	stats := make(map[string]SegmentStatDTO, len(r.SegmentStats))
	for segment, s := range r.SegmentStats {
		stats[segment] = SegmentStatDTO{
			Customers:    s.Customers,
			AvgRecency:   s.AvgRecency,
			AvgFrequency: s.AvgFrequency,
			AvgMonetary:  s.AvgMonetary,
		}
	}
	top := make([]RFMCustomerDTO, 0, len(r.TopCustomers))
	for _, c := range r.TopCustomers {
		top = append(top, RFMCustomerDTO{
			CustomerID: c.CustomerID,
			Recency:    c.Recency,
			Frequency:  c.Frequency,
			Monetary:   c.Monetary,
			RScore:     c.RScore,
			FScore:     c.FScore,
			MScore:     c.MScore,
			Code:       c.Code,
			Segment:    c.Segment,
		})
	}
	return SegmentationResponse{
		TotalCustomers: r.TotalCustomers,
		Distribution:   r.Distribution,
		SegmentStats:   stats,
		AvgRecency:     r.AvgRecency,
		AvgFrequency:   r.AvgFrequency,
		AvgMonetary:    r.AvgMonetary,
		TopCustomers:   top,
		ComputedAt:     r.ComputedAt,
	}
}
