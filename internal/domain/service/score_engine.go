package service

import (
	"fmt"
	"io"
	"log/slog"
	"math"
	"sort"
	"time"

	"github.com/quantsingularity/FinovaBank/internal/domain/valueobject"
)

// weightEpsilon is the tolerance allowed when checking that a weight
// table sums to 1.
const weightEpsilon = 1e-6

// Factor is a single named, normalized numeric input to a score.
// UsedFallback is set when the extractor had to substitute a declared
// fallback (guarded division, unparsable field) so that degraded inputs
// stay observable downstream.
type Factor struct {
	Name         string
	Value        float64
	UsedFallback bool
}

// WeightTable maps factor names to their weights. A table is only
// constructible in valid form: weights are non-negative and sum to 1
// within weightEpsilon. Validation happens here, at configuration load,
// never per scoring call.
type WeightTable struct {
	weights map[string]float64
}

// NewWeightTable validates and builds a weight table.
func NewWeightTable(weights map[string]float64) (WeightTable, error) {
	if len(weights) == 0 {
		return WeightTable{}, fmt.Errorf("weight table must not be empty")
	}

	sum := 0.0
	for name, w := range weights {
		if name == "" {
			return WeightTable{}, fmt.Errorf("weight table contains an unnamed factor")
		}
		if w < 0 {
			return WeightTable{}, fmt.Errorf("weight for %q must be non-negative, got %v", name, w)
		}
		sum += w
	}
	if math.Abs(sum-1.0) > weightEpsilon {
		return WeightTable{}, fmt.Errorf("weights must sum to 1.0 (±%v), got %v", weightEpsilon, sum)
	}

	copied := make(map[string]float64, len(weights))
	for name, w := range weights {
		copied[name] = w
	}
	return WeightTable{weights: copied}, nil
}

// MustWeightTable builds a weight table and panics on invalid input.
// Reserved for static tables defined in code, where a bad table is a
// programming error caught at startup.
func MustWeightTable(weights map[string]float64) WeightTable {
	t, err := NewWeightTable(weights)
	if err != nil {
		panic(err)
	}
	return t
}

// Weight returns the weight for a factor name.
func (t WeightTable) Weight(name string) (float64, bool) {
	w, ok := t.weights[name]
	return w, ok
}

// Names returns the factor names of the table in stable sorted order.
func (t WeightTable) Names() []string {
	names := make([]string, 0, len(t.weights))
	for name := range t.weights {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of weighted factors.
func (t WeightTable) Len() int {
	return len(t.weights)
}

// ScoreResult is the immutable outcome of one engine invocation. The
// engine does not retain it; the caller owns the value. Components
// decompose the raw score exactly: summing them reconstructs RawScore.
type ScoreResult struct {
	RawScore        float64
	NormalizedScore float64
	Components      map[string]float64
	Tier            valueobject.Tier
	Action          string
	Ignored         []string
	ComputedAt      time.Time
}

// ScoreEngine combines named factors with a weight table into a scalar
// score. It holds no mutable state and is safe for unrestricted
// concurrent use.
type ScoreEngine struct {
	logger *slog.Logger
}

// NewScoreEngine creates a new ScoreEngine. A nil logger disables
// diagnostic output.
func NewScoreEngine(logger *slog.Logger) *ScoreEngine {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &ScoreEngine{logger: logger}
}

// Compute produces the weighted score of the given factors.
//
// Every weight in the table contributes a component: a weighted factor
// name with no matching factor contributes value*0 (missing inputs
// default to zero, they do not fail the call). Factors whose name is
// not in the table are ignored, reported in Ignored and logged, so the
// drop is visible rather than silent. An empty factor set yields a zero
// score with all components zero.
//
// NormalizedScore starts equal to RawScore; domain scorers rescale it
// to their own standard range.
func (e *ScoreEngine) Compute(now time.Time, factors []Factor, weights WeightTable) ScoreResult {
	byName := make(map[string]Factor, len(factors))
	var ignored []string
	for _, f := range factors {
		if _, weighted := weights.Weight(f.Name); !weighted {
			ignored = append(ignored, f.Name)
			continue
		}
		byName[f.Name] = f
	}

	if len(ignored) > 0 {
		e.logger.Debug("factors not present in weight table, ignored", "factors", ignored)
	}

	components := make(map[string]float64, weights.Len())
	raw := 0.0
	for _, name := range weights.Names() {
		w, _ := weights.Weight(name)
		value := 0.0
		if f, ok := byName[name]; ok {
			value = f.Value
		}
		contribution := value * w
		components[name] = contribution
		raw += contribution
	}

	return ScoreResult{
		RawScore:        raw,
		NormalizedScore: raw,
		Components:      components,
		Ignored:         ignored,
		ComputedAt:      now.UTC(),
	}
}
