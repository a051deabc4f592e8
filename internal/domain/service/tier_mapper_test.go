package service_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantsingularity/FinovaBank/internal/domain/service"
	"github.com/quantsingularity/FinovaBank/internal/domain/valueobject"
)

func testTierTable(t *testing.T) service.TierTable {
	t.Helper()
	table, err := service.NewTierTable(valueobject.HigherIsWorse, []service.TierBound{
		{Bound: 0, Name: "LOW", Action: "ALLOW"},
		{Bound: 15, Name: "MEDIUM", Action: "MONITOR"},
		{Bound: 30, Name: "HIGH", Action: "CHALLENGE"},
		{Bound: 50, Name: "CRITICAL", Action: "BLOCK"},
	})
	require.NoError(t, err)
	return table
}

func TestTierTable_BoundIsFloorOfItsTier(t *testing.T) {
	table := testTierTable(t)

	cases := []struct {
		score  float64
		tier   string
		action string
	}{
		{0, "LOW", "ALLOW"},
		{14.99, "LOW", "ALLOW"},
		{15, "MEDIUM", "MONITOR"},
		{29.99, "MEDIUM", "MONITOR"},
		{30, "HIGH", "CHALLENGE"},
		{50, "CRITICAL", "BLOCK"},
		{10000, "CRITICAL", "BLOCK"},
	}
	for _, tc := range cases {
		tier, action := table.Map(tc.score)
		assert.Equal(t, tc.tier, tier.Name(), "score %v", tc.score)
		assert.Equal(t, tc.action, action, "score %v", tc.score)
	}
}

func TestTierTable_ScoreBelowFirstBoundFallsIntoFirstTier(t *testing.T) {
	table := testTierTable(t)

	tier, action := table.Map(-5)
	assert.Equal(t, "LOW", tier.Name())
	assert.Equal(t, "ALLOW", action)
}

func TestTierTable_RanksAscendWithBounds(t *testing.T) {
	table := testTierTable(t)

	tiers := table.Tiers()
	require.Len(t, tiers, 4)
	for i, tier := range tiers {
		assert.Equal(t, i, tier.Rank())
	}
}

func TestNewTierTable_RejectsNonAscendingBounds(t *testing.T) {
	_, err := service.NewTierTable(valueobject.HigherIsWorse, []service.TierBound{
		{Bound: 0, Name: "A", Action: "X"},
		{Bound: 0, Name: "B", Action: "Y"},
	})
	assert.ErrorContains(t, err, "strictly ascending")
}

func TestNewTierTable_RejectsDuplicateTierName(t *testing.T) {
	_, err := service.NewTierTable(valueobject.HigherIsWorse, []service.TierBound{
		{Bound: 0, Name: "A", Action: "X"},
		{Bound: 10, Name: "A", Action: "Y"},
	})
	assert.ErrorContains(t, err, "duplicate")
}

func TestNewTierTable_RejectsMissingAction(t *testing.T) {
	_, err := service.NewTierTable(valueobject.HigherIsWorse, []service.TierBound{
		{Bound: 0, Name: "A"},
	})
	assert.ErrorContains(t, err, "no recommended action")
}

func TestNewTierTable_RequiresDirection(t *testing.T) {
	_, err := service.NewTierTable(valueobject.Direction{}, []service.TierBound{
		{Bound: 0, Name: "A", Action: "X"},
	})
	assert.ErrorContains(t, err, "direction")
}

func TestTierTable_Action(t *testing.T) {
	table := testTierTable(t)

	action, ok := table.Action("HIGH")
	assert.True(t, ok)
	assert.Equal(t, "CHALLENGE", action)

	_, ok = table.Action("UNKNOWN")
	assert.False(t, ok)
}
