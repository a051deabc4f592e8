package service

import (
	"fmt"
	"math"
	"time"
)

// Logistic model coefficients. Positive coefficients on the repayment
// side: a higher value means repayment is more likely.
const (
	pdIntercept        = -2.5
	pdCreditCoef       = 3.0
	pdDTICoef          = -2.0
	pdEmploymentCoef   = 1.5
	pdLoanToIncomeCoef = -1.0
)

var defaultProbabilitySchema = MustSchema([]FieldSpec{
	{Name: "credit_score", Transform: TransformIdentity, Path: "credit_score", Default: 650},
	{Name: "dti_ratio", Transform: TransformIdentity, Path: "debt_to_income_ratio", Default: 0.3, Cap: 1.0, CapSet: true},
	{Name: "employment_months", Transform: TransformIdentity, Path: "employment_months", Default: 12},
	{Name: "loan_to_income", Transform: TransformRatio, Path: "loan_amount", DenomPath: "annual_income", Default: 0.2, Fallback: 1.0, Cap: 1.0, CapSet: true},
})

// defaultRiskCategories maps a default probability to its category.
var defaultRiskCategories = []struct {
	Bound float64
	Name  string
}{
	{0, "Very Low Risk"},
	{0.05, "Low Risk"},
	{0.15, "Medium Risk"},
	{0.30, "High Risk"},
	{0.50, "Very High Risk"},
}

// DefaultProbabilityResult is the outcome of one default probability
// calculation. The confidence interval is a fixed +/-5 point band
// clipped to [0, 1].
type DefaultProbabilityResult struct {
	DefaultProbability float64
	DefaultPercentage  float64
	RiskCategory       string
	ConfidenceLower    float64
	ConfidenceUpper    float64
	UsedFallback       bool
	ComputedAt         time.Time
}

// DefaultProbabilityScorer estimates the probability that a borrower
// defaults, using a fixed-coefficient logistic model over normalized
// credit, debt, employment and loan size features.
type DefaultProbabilityScorer struct {
	extractor *FactorExtractor
}

// NewDefaultProbabilityScorer creates a new DefaultProbabilityScorer.
func NewDefaultProbabilityScorer(extractor *FactorExtractor) *DefaultProbabilityScorer {
	return &DefaultProbabilityScorer{extractor: extractor}
}

// Estimate computes the default probability for one borrower record.
func (s *DefaultProbabilityScorer) Estimate(rec Record, now time.Time) (DefaultProbabilityResult, error) {
	if rec == nil {
		return DefaultProbabilityResult{}, fmt.Errorf("borrower record is required")
	}

	extracted := s.extractor.Extract(rec, defaultProbabilitySchema, now)
	in := indexFactors(extracted)

	creditNorm := (in["credit_score"].Value - 300) / 550
	dtiNorm := math.Min(in["dti_ratio"].Value, 1.0)
	employmentNorm := math.Min(in["employment_months"].Value/60, 1.0)
	loanToIncome := in["loan_to_income"].Value

	linear := pdIntercept +
		pdCreditCoef*creditNorm +
		pdDTICoef*(1-dtiNorm) +
		pdEmploymentCoef*employmentNorm +
		pdLoanToIncomeCoef*(1-loanToIncome)

	// Sigmoid yields the repayment probability; default is its
	// complement.
	repayment := 1 / (1 + math.Exp(-linear))
	defaultProb := 1 - repayment

	return DefaultProbabilityResult{
		DefaultProbability: round4(defaultProb),
		DefaultPercentage:  round2(defaultProb * 100),
		RiskCategory:       categorizeDefaultProbability(defaultProb),
		ConfidenceLower:    round4(math.Max(0, defaultProb-0.05)),
		ConfidenceUpper:    round4(math.Min(1, defaultProb+0.05)),
		UsedFallback:       anyFallback(extracted),
		ComputedAt:         now,
	}, nil
}

func categorizeDefaultProbability(p float64) string {
	category := defaultRiskCategories[0].Name
	for _, c := range defaultRiskCategories {
		if p >= c.Bound {
			category = c.Name
		}
	}
	return category
}
