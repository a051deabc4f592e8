package service_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantsingularity/FinovaBank/internal/domain/service"
)

var rfmNow = time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

// rfmPopulation builds five customers whose recency, frequency and
// monetary value all rank in the same order, so each lands in its own
// quintile: customer c5 scores 555, c1 scores 111.
func rfmPopulation() []service.Record {
	customers := make([]service.Record, 0, 5)
	for k := 1; k <= 5; k++ {
		lastTx := rfmNow.AddDate(0, 0, -(6 - k))
		txs := make([]any, 0, k)
		for i := 0; i < k; i++ {
			txs = append(txs, map[string]any{
				"date":   lastTx.Format("2006-01-02"),
				"amount": 1000.0,
			})
		}
		customers = append(customers, service.Record{
			"customer_id":  fmt.Sprintf("c%d", k),
			"transactions": txs,
		})
	}
	return customers
}

func TestRFMSegmenter_QuintilesAreRankBased(t *testing.T) {
	segmenter := service.NewRFMSegmenter()

	analysis, err := segmenter.Segment(rfmPopulation(), rfmNow)
	require.NoError(t, err)

	assert.Equal(t, 5, analysis.TotalCustomers)
	assert.Equal(t, 1, analysis.Distribution["Champions"])

	byID := make(map[string]service.RFMCustomer, len(analysis.TopCustomers))
	for _, c := range analysis.TopCustomers {
		byID[c.CustomerID] = c
	}

	assert.Equal(t, "555", byID["c5"].Code)
	assert.Equal(t, "Champions", byID["c5"].Segment)
	assert.Equal(t, "111", byID["c1"].Code)
	assert.Equal(t, "Others", byID["c1"].Segment)
}

func TestRFMSegmenter_LowerRecencyScoresHigher(t *testing.T) {
	segmenter := service.NewRFMSegmenter()

	analysis, err := segmenter.Segment(rfmPopulation(), rfmNow)
	require.NoError(t, err)

	// c5 transacted 1 day ago, c1 five days ago.
	assert.Equal(t, "c5", analysis.TopCustomers[0].CustomerID)
	assert.Equal(t, 5, analysis.TopCustomers[0].RScore)
	assert.Equal(t, 1, analysis.TopCustomers[0].Recency)
}

func TestRFMSegmenter_SegmentStatsAverageMembers(t *testing.T) {
	segmenter := service.NewRFMSegmenter()

	analysis, err := segmenter.Segment(rfmPopulation(), rfmNow)
	require.NoError(t, err)

	champions := analysis.SegmentStats["Champions"]
	assert.Equal(t, 1, champions.Customers)
	assert.InDelta(t, 5000.0, champions.AvgMonetary, 0.01)
	assert.InDelta(t, 1.0, champions.AvgRecency, 0.01)

	// Population averages: recency 3, frequency 3, monetary 3000.
	assert.InDelta(t, 3.0, analysis.AvgRecency, 0.01)
	assert.InDelta(t, 3.0, analysis.AvgFrequency, 0.01)
	assert.InDelta(t, 3000.0, analysis.AvgMonetary, 0.01)
}

func TestRFMSegmenter_MonetaryUsesAbsoluteAmounts(t *testing.T) {
	segmenter := service.NewRFMSegmenter()

	analysis, err := segmenter.Segment([]service.Record{
		{
			"customer_id": "refunds",
			"transactions": []any{
				map[string]any{"date": "2024-05-30", "amount": -500.0},
				map[string]any{"date": "2024-05-31", "amount": 500.0},
			},
		},
	}, rfmNow)
	require.NoError(t, err)

	require.Len(t, analysis.TopCustomers, 1)
	assert.InDelta(t, 1000.0, analysis.TopCustomers[0].Monetary, 0.01)
	assert.Equal(t, 2, analysis.TopCustomers[0].Frequency)
}

func TestRFMSegmenter_SkipsCustomersWithoutHistory(t *testing.T) {
	segmenter := service.NewRFMSegmenter()

	population := append(rfmPopulation(),
		service.Record{"customer_id": "dormant"},
		nil,
	)

	analysis, err := segmenter.Segment(population, rfmNow)
	require.NoError(t, err)
	assert.Equal(t, 5, analysis.TotalCustomers)
}

func TestRFMSegmenter_AllDormantIsAnError(t *testing.T) {
	segmenter := service.NewRFMSegmenter()

	_, err := segmenter.Segment([]service.Record{
		{"customer_id": "dormant"},
	}, rfmNow)
	assert.ErrorContains(t, err, "transaction history")
}

func TestRFMSegmenter_EmptyPopulationIsAnError(t *testing.T) {
	segmenter := service.NewRFMSegmenter()

	_, err := segmenter.Segment(nil, rfmNow)
	assert.Error(t, err)
}
