package service

import (
	"fmt"

	"github.com/quantsingularity/FinovaBank/internal/domain/valueobject"
)

// TierBound pairs the inclusive lower bound of a tier with its name and
// the recommended action for that tier.
type TierBound struct {
	Bound  float64
	Name   string
	Action string
}

// TierTable maps a scalar score onto a discrete tier through an ordered
// list of ascending lower bounds. The bound is the floor of its tier:
// a score exactly on a bound resolves to the tier that starts there.
// The first bound covers all scores at or below it as well.
//
// Direction is configured explicitly and never inferred from the bound
// ordering; bounds ascend in both directions, direction only states
// whether ascending scores mean worsening (fraud, security) or
// improving (credit, financial health) outcomes.
type TierTable struct {
	direction valueobject.Direction
	bounds    []TierBound
	tiers     []valueobject.Tier
	actions   map[string]string
}

// NewTierTable validates and builds a tier table. Bounds must be in
// strictly ascending order with unique tier names; each tier must carry
// a recommended action.
func NewTierTable(direction valueobject.Direction, bounds []TierBound) (TierTable, error) {
	if direction.IsZero() {
		return TierTable{}, fmt.Errorf("tier table direction is required")
	}
	if len(bounds) == 0 {
		return TierTable{}, fmt.Errorf("tier table must have at least one bound")
	}

	tiers := make([]valueobject.Tier, 0, len(bounds))
	actions := make(map[string]string, len(bounds))
	seen := make(map[string]bool, len(bounds))
	for i, b := range bounds {
		if i > 0 && b.Bound <= bounds[i-1].Bound {
			return TierTable{}, fmt.Errorf("tier bounds must be strictly ascending: %v after %v", b.Bound, bounds[i-1].Bound)
		}
		if seen[b.Name] {
			return TierTable{}, fmt.Errorf("duplicate tier name %q", b.Name)
		}
		if b.Action == "" {
			return TierTable{}, fmt.Errorf("tier %q has no recommended action", b.Name)
		}
		seen[b.Name] = true

		tier, err := valueobject.NewTier(b.Name, i)
		if err != nil {
			return TierTable{}, err
		}
		tiers = append(tiers, tier)
		actions[b.Name] = b.Action
	}

	return TierTable{
		direction: direction,
		bounds:    append([]TierBound(nil), bounds...),
		tiers:     tiers,
		actions:   actions,
	}, nil
}

// MustTierTable builds a tier table and panics on invalid input.
// Reserved for static tables defined in code.
func MustTierTable(direction valueobject.Direction, bounds []TierBound) TierTable {
	t, err := NewTierTable(direction, bounds)
	if err != nil {
		panic(err)
	}
	return t
}

// Map resolves a score to its tier and recommended action. The tier
// whose bound is the greatest bound at or below the score wins; scores
// below the first bound fall into the first tier.
func (t TierTable) Map(score float64) (valueobject.Tier, string) {
	idx := 0
	for i, b := range t.bounds {
		if score >= b.Bound {
			idx = i
		} else {
			break
		}
	}
	tier := t.tiers[idx]
	return tier, t.actions[tier.Name()]
}

// Direction returns the configured score direction.
func (t TierTable) Direction() valueobject.Direction {
	return t.direction
}

// Tiers returns the tiers of the table in ascending bound order.
func (t TierTable) Tiers() []valueobject.Tier {
	return append([]valueobject.Tier(nil), t.tiers...)
}

// Action returns the recommended action configured for a tier name.
func (t TierTable) Action(tierName string) (string, bool) {
	a, ok := t.actions[tierName]
	return a, ok
}
