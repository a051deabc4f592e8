package valueobject

import "fmt"

// Direction declares which end of a score scale is the risky one.
// It is always configured explicitly on a tier table, never inferred
// from the ordering of the bounds.
type Direction struct {
	value string
}

var (
	// HigherIsWorse is the direction for risk scales (fraud, security,
	// loan risk percentage): a larger score means a worse outcome.
	HigherIsWorse = Direction{value: "HIGHER_IS_WORSE"}

	// HigherIsBetter is the direction for quality scales (credit score,
	// financial health): a larger score means a better outcome.
	HigherIsBetter = Direction{value: "HIGHER_IS_BETTER"}
)

// DirectionFromString reconstructs a Direction from its string representation.
func DirectionFromString(s string) (Direction, error) {
	switch s {
	case "HIGHER_IS_WORSE":
		return HigherIsWorse, nil
	case "HIGHER_IS_BETTER":
		return HigherIsBetter, nil
	default:
		return Direction{}, fmt.Errorf("invalid direction: %s", s)
	}
}

// String returns the string representation.
func (d Direction) String() string {
	return d.value
}

// IsZero returns true if the Direction has not been set.
func (d Direction) IsZero() bool {
	return d.value == ""
}

// Tier is an immutable value object representing one discrete decision
// bucket of a tier table. Rank orders tiers from least to most severe
// for HigherIsWorse tables, and from worst to best for HigherIsBetter
// tables, so that rank always increases along ascending score bounds.
type Tier struct {
	name string
	rank int
}

// NewTier creates a Tier with the given name and ordinal rank.
func NewTier(name string, rank int) (Tier, error) {
	if name == "" {
		return Tier{}, fmt.Errorf("tier name is required")
	}
	if rank < 0 {
		return Tier{}, fmt.Errorf("tier rank must be non-negative, got %d", rank)
	}
	return Tier{name: name, rank: rank}, nil
}

// Name returns the tier's configured name, e.g. "LOW" or "Very Good".
func (t Tier) Name() string {
	return t.name
}

// Rank returns the tier's ordinal position within its table.
func (t Tier) Rank() int {
	return t.rank
}

// IsZero returns true if the Tier has not been set.
func (t Tier) IsZero() bool {
	return t.name == ""
}

// Equal checks equality with another Tier.
func (t Tier) Equal(other Tier) bool {
	return t.name == other.name && t.rank == other.rank
}
