package service

import (
	"fmt"
	"io"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Record is a raw field-name-keyed domain record, as decoded from JSON
// or assembled by a transport handler. Nested objects are reached with
// dotted paths.
type Record map[string]any

// Lookup resolves a dotted path against the record. It returns false
// when any segment is absent or a non-object value is traversed.
func (r Record) Lookup(path string) (any, bool) {
	var current any = map[string]any(r)
	for _, segment := range strings.Split(path, ".") {
		obj, ok := current.(map[string]any)
		if !ok {
			if rec, isRecord := current.(Record); isRecord {
				obj = map[string]any(rec)
			} else {
				return nil, false
			}
		}
		current, ok = obj[segment]
		if !ok {
			return nil, false
		}
	}
	return current, true
}

// TransformKind selects how a raw field becomes a numeric factor value.
type TransformKind string

const (
	// TransformIdentity uses the field's numeric value as-is.
	TransformIdentity TransformKind = "identity"
	// TransformRatio divides the sum of the numerator fields by the
	// denominator field, with a guarded division.
	TransformRatio TransformKind = "ratio"
	// TransformDaysSince counts whole days between the field's
	// timestamp and the extraction's injected now.
	TransformDaysSince TransformKind = "days_since"
	// TransformBool maps true to 1 and false to 0.
	TransformBool TransformKind = "bool"
	// TransformCount uses the length of a list-valued field.
	TransformCount TransformKind = "count"
	// TransformLog1p applies log(1+x) to the field's numeric value.
	TransformLog1p TransformKind = "log1p"
)

// Band pairs the inclusive lower bound of a value band with the factor
// value assigned to that band. Bands follow the same floor semantics as
// tier tables.
type Band struct {
	Bound float64
	Value float64
}

// FieldSpec declares one factor of a schema: where its raw data lives,
// how it is transformed, and which defaults apply when data is missing
// or a guard trips.
type FieldSpec struct {
	// Name is the factor name carried into scoring.
	Name string
	// Path is the dotted path of the source field.
	Path string
	// SumPaths, when set, replaces Path as the numerator of a ratio:
	// the values at all listed paths are summed.
	SumPaths []string
	// DenomPath is the dotted path of a ratio's denominator.
	DenomPath string
	// Transform selects the conversion applied to the source value.
	Transform TransformKind
	// Default is the factor value when the source field is absent.
	Default float64
	// Fallback is the factor value when a division guard trips
	// (denominator <= 0) or a timestamp cannot be parsed.
	Fallback float64
	// Scale multiplies the transformed value when non-zero.
	Scale float64
	// Cap clamps the transformed value from above when CapSet is true.
	Cap    float64
	CapSet bool
	// Bands, when non-empty, map the transformed value onto a banded
	// factor value as the final step.
	Bands []Band
}

// Schema is the validated set of factor declarations for one domain.
type Schema struct {
	fields []FieldSpec
}

// NewSchema validates and builds a schema: factor names must be unique,
// transforms known, ratio specs complete, and bands strictly ascending.
func NewSchema(fields []FieldSpec) (Schema, error) {
	if len(fields) == 0 {
		return Schema{}, fmt.Errorf("schema must declare at least one factor")
	}
	seen := make(map[string]bool, len(fields))
	for _, f := range fields {
		if f.Name == "" {
			return Schema{}, fmt.Errorf("schema contains an unnamed factor")
		}
		if seen[f.Name] {
			return Schema{}, fmt.Errorf("duplicate factor name %q", f.Name)
		}
		seen[f.Name] = true

		switch f.Transform {
		case TransformIdentity, TransformDaysSince, TransformBool, TransformCount, TransformLog1p:
			if f.Path == "" {
				return Schema{}, fmt.Errorf("factor %q requires a path", f.Name)
			}
		case TransformRatio:
			if f.Path == "" && len(f.SumPaths) == 0 {
				return Schema{}, fmt.Errorf("ratio factor %q requires a numerator path", f.Name)
			}
			if f.DenomPath == "" {
				return Schema{}, fmt.Errorf("ratio factor %q requires a denominator path", f.Name)
			}
		default:
			return Schema{}, fmt.Errorf("factor %q has unknown transform %q", f.Name, f.Transform)
		}

		for i := 1; i < len(f.Bands); i++ {
			if f.Bands[i].Bound <= f.Bands[i-1].Bound {
				return Schema{}, fmt.Errorf("factor %q bands must be strictly ascending", f.Name)
			}
		}
	}
	return Schema{fields: append([]FieldSpec(nil), fields...)}, nil
}

// MustSchema builds a schema and panics on invalid input. Reserved for
// static schemas defined in code.
func MustSchema(fields []FieldSpec) Schema {
	s, err := NewSchema(fields)
	if err != nil {
		panic(err)
	}
	return s
}

// Fields returns the schema's factor declarations.
func (s Schema) Fields() []FieldSpec {
	return append([]FieldSpec(nil), s.fields...)
}

// FactorExtractor turns raw records into named factor sets according to
// a schema. It is pure: the same record, schema and now always produce
// the same factors, and a batch extracted with one now is internally
// consistent (no clock drift mid-batch).
type FactorExtractor struct {
	logger *slog.Logger
}

// NewFactorExtractor creates a new FactorExtractor. A nil logger
// disables diagnostic output.
func NewFactorExtractor(logger *slog.Logger) *FactorExtractor {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &FactorExtractor{logger: logger}
}

// Extract produces one factor per schema field. Missing fields resolve
// to the declared default, guarded divisions and unparsable timestamps
// resolve to the declared fallback with UsedFallback set. Extract never
// returns NaN or infinite factor values.
func (e *FactorExtractor) Extract(rec Record, schema Schema, now time.Time) []Factor {
	factors := make([]Factor, 0, len(schema.fields))
	for _, spec := range schema.fields {
		factors = append(factors, e.extractOne(rec, spec, now))
	}
	return factors
}

func (e *FactorExtractor) extractOne(rec Record, spec FieldSpec, now time.Time) Factor {
	value, usedFallback, present := e.rawValue(rec, spec, now)
	if !present {
		return Factor{Name: spec.Name, Value: spec.Default}
	}

	if spec.Scale != 0 {
		value *= spec.Scale
	}
	if spec.CapSet && value > spec.Cap {
		value = spec.Cap
	}
	if len(spec.Bands) > 0 {
		value = bandValue(spec.Bands, value)
	}

	if math.IsNaN(value) || math.IsInf(value, 0) {
		e.logger.Warn("non-finite factor value replaced with fallback", "factor", spec.Name)
		return Factor{Name: spec.Name, Value: spec.Fallback, UsedFallback: true}
	}
	return Factor{Name: spec.Name, Value: value, UsedFallback: usedFallback}
}

// rawValue applies the transform. The third return value is false when
// the source field is absent and the default should apply instead.
func (e *FactorExtractor) rawValue(rec Record, spec FieldSpec, now time.Time) (value float64, usedFallback bool, present bool) {
	switch spec.Transform {
	case TransformRatio:
		numerator := 0.0
		anyPresent := false
		paths := spec.SumPaths
		if len(paths) == 0 {
			paths = []string{spec.Path}
		}
		for _, p := range paths {
			if v, ok := numericAt(rec, p); ok {
				numerator += v
				anyPresent = true
			}
		}
		denom, denomOK := numericAt(rec, spec.DenomPath)
		if !anyPresent && !denomOK {
			return 0, false, false
		}
		// Guarded division: a zero or negative denominator always
		// resolves to the declared fallback, never NaN or +Inf.
		if !denomOK || denom <= 0 {
			e.logger.Debug("division guard tripped", "factor", spec.Name, "denominator", spec.DenomPath)
			return spec.Fallback, true, true
		}
		return numerator / denom, false, true

	case TransformDaysSince:
		raw, ok := rec.Lookup(spec.Path)
		if !ok {
			return 0, false, false
		}
		ts, err := timeValue(raw)
		if err != nil {
			e.logger.Debug("unparsable timestamp", "factor", spec.Name, "error", err)
			return spec.Fallback, true, true
		}
		return math.Floor(now.Sub(ts).Hours() / 24), false, true

	case TransformBool:
		raw, ok := rec.Lookup(spec.Path)
		if !ok {
			return 0, false, false
		}
		if b, isBool := raw.(bool); isBool {
			if b {
				return 1, false, true
			}
			return 0, false, true
		}
		return spec.Fallback, true, true

	case TransformCount:
		raw, ok := rec.Lookup(spec.Path)
		if !ok {
			return 0, false, false
		}
		if list, isList := raw.([]any); isList {
			return float64(len(list)), false, true
		}
		if list, isList := raw.([]string); isList {
			return float64(len(list)), false, true
		}
		return spec.Fallback, true, true

	case TransformLog1p:
		v, ok := numericAt(rec, spec.Path)
		if !ok {
			return 0, false, false
		}
		if v < 0 {
			return spec.Fallback, true, true
		}
		return math.Log1p(v), false, true

	default: // TransformIdentity
		v, ok := numericAt(rec, spec.Path)
		if !ok {
			return 0, false, false
		}
		return v, false, true
	}
}

func bandValue(bands []Band, value float64) float64 {
	banded := bands[0].Value
	for _, b := range bands {
		if value >= b.Bound {
			banded = b.Value
		} else {
			break
		}
	}
	return banded
}

func numericAt(rec Record, path string) (float64, bool) {
	raw, ok := rec.Lookup(path)
	if !ok {
		return 0, false
	}
	return toFloat(raw)
}

func toFloat(raw any) (float64, bool) {
	switch v := raw.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint64:
		return float64(v), true
	case decimal.Decimal:
		return v.InexactFloat64(), true
	default:
		return 0, false
	}
}

func timeValue(raw any) (time.Time, error) {
	switch v := raw.(type) {
	case time.Time:
		return v, nil
	case string:
		if ts, err := time.Parse(time.RFC3339, v); err == nil {
			return ts, nil
		}
		ts, err := time.Parse("2006-01-02", v)
		if err != nil {
			return time.Time{}, fmt.Errorf("parse timestamp %q: %w", v, err)
		}
		return ts, nil
	default:
		return time.Time{}, fmt.Errorf("unsupported timestamp type %T", raw)
	}
}
