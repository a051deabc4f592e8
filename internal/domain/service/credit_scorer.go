package service

import (
	"fmt"
	"math"
	"time"

	"github.com/quantsingularity/FinovaBank/internal/domain/valueobject"
)

// Credit scoring weights: payment history 35%, utilization 30%, history
// length 15%, credit mix 10%, new credit 10%.
var creditWeights = MustWeightTable(map[string]float64{
	"payment_history":          0.35,
	"credit_utilization":       0.30,
	"length_of_credit_history": 0.15,
	"credit_mix":               0.10,
	"new_credit":               0.10,
})

// creditGrades maps the 300-850 score onto consumer credit grades.
var creditGrades = MustTierTable(valueobject.HigherIsBetter, []TierBound{
	{Bound: 300, Name: "Poor", Action: "DECLINE"},
	{Bound: 580, Name: "Fair", Action: "MANUAL_REVIEW"},
	{Bound: 670, Name: "Good", Action: "APPROVE"},
	{Bound: 740, Name: "Very Good", Action: "APPROVE"},
	{Bound: 800, Name: "Excellent", Action: "APPROVE"},
})

var creditSchema = MustSchema([]FieldSpec{
	{Name: "on_time_ratio", Transform: TransformRatio, Path: "on_time_payments", DenomPath: "total_payments", Fallback: 0},
	{Name: "late_payments", Transform: TransformIdentity, Path: "late_payments", Default: 0},
	{Name: "utilization_ratio", Transform: TransformRatio, Path: "total_credit_used", DenomPath: "total_credit_limit", Fallback: 0},
	{Name: "credit_history_months", Transform: TransformIdentity, Path: "credit_history_months", Default: 0},
	{Name: "credit_types", Transform: TransformCount, Path: "credit_types", Default: 0},
	{Name: "recent_inquiries", Transform: TransformIdentity, Path: "recent_inquiries", Default: 0},
})

// CreditScoreResult is the outcome of one credit score calculation.
// Component scores are on the 0-100 scale, rounded to one decimal.
type CreditScoreResult struct {
	CreditScore       int
	Grade             string
	RecommendedAction string
	Components        map[string]float64
	UtilizationPct    float64
	UsedFallback      bool
	ComputedAt        time.Time
}

// CreditScorer computes consumer credit scores on the standard 300-850
// scale from payment, utilization, history, mix and inquiry data. It is
// a pure domain service: identical input always reproduces the same
// score and grade.
type CreditScorer struct {
	extractor *FactorExtractor
	engine    *ScoreEngine
}

// NewCreditScorer creates a new CreditScorer.
func NewCreditScorer(extractor *FactorExtractor, engine *ScoreEngine) *CreditScorer {
	return &CreditScorer{extractor: extractor, engine: engine}
}

// Score calculates the credit score for one customer record.
//
// Component scores (each 0-100):
//   - payment history: on-time ratio as percent, minus 5 points per
//     late payment
//   - utilization: 100 at <=10%, linear to 70 at 30%, then declining
//   - history length: 120 months of history = 100
//   - credit mix: 20 points per distinct credit type
//   - new credit: 100 minus 10 per recent inquiry
//
// The weighted 0-100 total maps linearly onto 300-850.
func (s *CreditScorer) Score(rec Record, now time.Time) (CreditScoreResult, error) {
	if rec == nil {
		return CreditScoreResult{}, fmt.Errorf("customer record is required")
	}

	raw := s.extractor.Extract(rec, creditSchema, now)
	in := indexFactors(raw)

	paymentScore := clamp(in["on_time_ratio"].Value*100-in["late_payments"].Value*5, 0, 100)

	utilization := in["utilization_ratio"].Value
	var utilizationScore float64
	switch {
	case utilization <= 0.1:
		utilizationScore = 100
	case utilization <= 0.3:
		utilizationScore = 90 - (utilization-0.1)*100
	default:
		utilizationScore = math.Max(0, 70-(utilization-0.3)*100)
	}

	historyScore := math.Min(100, in["credit_history_months"].Value/120*100)
	mixScore := math.Min(100, in["credit_types"].Value*20)
	newCreditScore := math.Max(0, 100-in["recent_inquiries"].Value*10)

	factors := []Factor{
		{Name: "payment_history", Value: paymentScore, UsedFallback: in["on_time_ratio"].UsedFallback},
		{Name: "credit_utilization", Value: utilizationScore, UsedFallback: in["utilization_ratio"].UsedFallback},
		{Name: "length_of_credit_history", Value: historyScore},
		{Name: "credit_mix", Value: mixScore},
		{Name: "new_credit", Value: newCreditScore},
	}
	result := s.engine.Compute(now, factors, creditWeights)

	// Map the weighted 0-100 score onto the standard 300-850 range.
	creditScore := int(300 + result.RawScore/100*550)
	grade, action := creditGrades.Map(float64(creditScore))

	return CreditScoreResult{
		CreditScore:       creditScore,
		Grade:             grade.Name(),
		RecommendedAction: action,
		Components: map[string]float64{
			"payment_history":       round1(paymentScore),
			"credit_utilization":    round1(utilizationScore),
			"credit_history_length": round1(historyScore),
			"credit_mix":            round1(mixScore),
			"new_credit":            round1(newCreditScore),
		},
		UtilizationPct: round2(utilization * 100),
		UsedFallback:   anyFallback(raw),
		ComputedAt:     result.ComputedAt,
	}, nil
}

func indexFactors(factors []Factor) map[string]Factor {
	byName := make(map[string]Factor, len(factors))
	for _, f := range factors {
		byName[f.Name] = f
	}
	return byName
}

func anyFallback(factors []Factor) bool {
	for _, f := range factors {
		if f.UsedFallback {
			return true
		}
	}
	return false
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
