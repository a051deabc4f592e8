package service

import (
	"fmt"
	"time"

	"github.com/quantsingularity/FinovaBank/internal/domain/valueobject"
)

// Loan risk weights: credit score 25%, debt-to-income 20%, employment
// and loan-to-value 15% each, verification and collateral 10% each,
// market conditions 5%.
var loanRiskWeights = MustWeightTable(map[string]float64{
	"credit_score":         0.25,
	"debt_to_income":       0.20,
	"employment_stability": 0.15,
	"loan_to_value":        0.15,
	"income_verification":  0.10,
	"collateral_value":     0.10,
	"market_conditions":    0.05,
})

var loanRiskTiers = MustTierTable(valueobject.HigherIsWorse, []TierBound{
	{Bound: 0, Name: "LOW", Action: "APPROVE"},
	{Bound: 15, Name: "MEDIUM", Action: "APPROVE_WITH_CONDITIONS"},
	{Bound: 30, Name: "HIGH", Action: "MANUAL_REVIEW"},
	{Bound: 50, Name: "VERY_HIGH", Action: "DECLINE"},
})

// Interest rate adjustment in percentage points per risk level.
var interestAdjustments = map[string]float64{
	"LOW":       0.0,
	"MEDIUM":    1.0,
	"HIGH":      2.5,
	"VERY_HIGH": 5.0,
}

// marketConditionsFactor is a fixed haircut for the current lending
// environment. TODO: feed this from the treasury desk's rate outlook
// once that service publishes one.
const marketConditionsFactor = 0.9

// Each underwriting input is banded onto a 0-1 quality value, higher
// meaning safer. Band bounds are floors: a value maps to the greatest
// bound not exceeding it.
var loanSchema = MustSchema([]FieldSpec{
	{Name: "credit_score", Transform: TransformIdentity, Path: "credit_score", Default: 0.6,
		Bands: []Band{{Bound: 0, Value: 0.2}, {Bound: 600, Value: 0.4}, {Bound: 650, Value: 0.6}, {Bound: 700, Value: 0.8}, {Bound: 750, Value: 1.0}}},
	{Name: "debt_to_income", Transform: TransformRatio, SumPaths: []string{"monthly_debt", "estimated_monthly_payment"}, DenomPath: "monthly_income", Default: 1.0, Fallback: 1.0,
		Bands: []Band{{Bound: 0, Value: 1.0}, {Bound: 0.28, Value: 0.8}, {Bound: 0.36, Value: 0.6}, {Bound: 0.43, Value: 0.3}}},
	{Name: "employment_stability", Transform: TransformIdentity, Path: "employment_months", Default: 0.4,
		Bands: []Band{{Bound: 0, Value: 0.4}, {Bound: 6, Value: 0.6}, {Bound: 12, Value: 0.8}, {Bound: 24, Value: 1.0}}},
	{Name: "loan_to_value", Transform: TransformRatio, Path: "loan_amount", DenomPath: "collateral_value", Default: 0.3, Fallback: 1.0,
		Bands: []Band{{Bound: 0, Value: 1.0}, {Bound: 0.8, Value: 0.8}, {Bound: 0.9, Value: 0.6}, {Bound: 0.95, Value: 0.3}}},
	{Name: "income_verification", Transform: TransformBool, Path: "income_verified", Default: 0.7,
		Bands: []Band{{Bound: 0, Value: 0.7}, {Bound: 1, Value: 1.0}}},
	{Name: "collateral_value", Transform: TransformBool, Path: "has_collateral", Default: 0.8,
		Bands: []Band{{Bound: 0, Value: 0.8}, {Bound: 1, Value: 1.0}}},

	// Raw ratios, reported alongside the banded factors.
	{Name: "dti_ratio", Transform: TransformRatio, SumPaths: []string{"monthly_debt", "estimated_monthly_payment"}, DenomPath: "monthly_income", Default: 0, Fallback: 1.0},
	{Name: "ltv_ratio", Transform: TransformRatio, Path: "loan_amount", DenomPath: "collateral_value", Default: 1.0, Fallback: 1.0},
})

// LoanRiskResult is the outcome of underwriting one loan application.
type LoanRiskResult struct {
	RiskScore              float64
	RiskPercentage         float64
	RiskLevel              string
	Recommendation         string
	InterestRateAdjustment float64
	Factors                map[string]float64
	DebtToIncomePct        float64
	LoanToValuePct         float64
	UsedFallback           bool
	ComputedAt             time.Time
}

// LoanScorer assesses loan applications. The weighted quality score is
// inverted into a risk percentage, so a perfectly safe application
// scores near zero risk.
type LoanScorer struct {
	extractor *FactorExtractor
	engine    *ScoreEngine
}

// NewLoanScorer creates a new LoanScorer.
func NewLoanScorer(extractor *FactorExtractor, engine *ScoreEngine) *LoanScorer {
	return &LoanScorer{extractor: extractor, engine: engine}
}

// Assess underwrites a loan application record.
func (s *LoanScorer) Assess(rec Record, now time.Time) (LoanRiskResult, error) {
	if rec == nil {
		return LoanRiskResult{}, fmt.Errorf("loan application record is required")
	}

	extracted := s.extractor.Extract(rec, loanSchema, now)
	in := indexFactors(extracted)

	factors := make([]Factor, 0, loanRiskWeights.Len()-1)
	for _, name := range loanRiskWeights.Names() {
		if name == "market_conditions" {
			continue
		}
		factors = append(factors, in[name])
	}
	factors = append(factors, Factor{Name: "market_conditions", Value: marketConditionsFactor})

	result := s.engine.Compute(now, factors, loanRiskWeights)

	// Invert: the weighted score measures quality, risk is its complement.
	riskPct := (1 - result.RawScore) * 100
	tier, action := loanRiskTiers.Map(riskPct)

	reported := make(map[string]float64, len(factors))
	for _, f := range factors {
		reported[f.Name] = round3(f.Value)
	}

	return LoanRiskResult{
		RiskScore:              round3(result.RawScore),
		RiskPercentage:         round2(riskPct),
		RiskLevel:              tier.Name(),
		Recommendation:         action,
		InterestRateAdjustment: interestAdjustments[tier.Name()],
		Factors:                reported,
		DebtToIncomePct:        round2(in["dti_ratio"].Value * 100),
		LoanToValuePct:         round2(in["ltv_ratio"].Value * 100),
		UsedFallback:           anyFallback(extracted),
		ComputedAt:             result.ComputedAt,
	}, nil
}
