package service

import (
	"fmt"
	"math"
	"sort"
	"time"
)

// PortfolioLoan is the per-loan slice of a portfolio assessment.
type PortfolioLoan struct {
	LoanID             string
	LoanAmount         float64
	RiskLevel          string
	RiskPercentage     float64
	DefaultProbability float64
	ExpectedLoss       float64
}

// PortfolioAssessment is the outcome of assessing a loan book.
type PortfolioAssessment struct {
	PortfolioID        string
	TotalLoans         int
	TotalExposure      float64
	PortfolioRiskPct   float64
	AvgDefaultProbPct  float64
	HighRiskLoans      int
	RiskDistribution   map[string]int
	TotalExpectedLoss  float64
	ExpectedLossRate   float64
	ValueAtRisk95      float64
	Concentration      map[string]float64
	MaxConcentration   float64
	CreditDistribution map[string]int
	Loans              []PortfolioLoan
	ComputedAt         time.Time
}

// PortfolioAnalyzer assesses a whole loan book by running each loan
// through underwriting and default estimation, then aggregating the
// exposure-weighted risk. Loans are isolated: one malformed record
// never poisons the rest of the book.
type PortfolioAnalyzer struct {
	loans    *LoanScorer
	defaults *DefaultProbabilityScorer
}

// NewPortfolioAnalyzer creates a new PortfolioAnalyzer.
func NewPortfolioAnalyzer(loans *LoanScorer, defaults *DefaultProbabilityScorer) *PortfolioAnalyzer {
	return &PortfolioAnalyzer{loans: loans, defaults: defaults}
}

// Assess scores every loan in the book with one shared timestamp and
// aggregates the results. Portfolio risk is each loan's risk
// percentage weighted by its exposure.
func (a *PortfolioAnalyzer) Assess(portfolioID string, records []Record, now time.Time) (PortfolioAssessment, error) {
	if len(records) == 0 {
		return PortfolioAssessment{}, fmt.Errorf("at least one loan is required")
	}

	loans := make([]PortfolioLoan, 0, len(records))
	riskDist := make(map[string]int, 4)
	creditDist := make(map[string]int)
	concentration := make(map[string]float64)

	var totalExposure, weightedRisk, sumDefaultPct, totalExpectedLoss float64
	highRisk := 0

	for _, rec := range records {
		if rec == nil {
			rec = Record{}
		}
		risk, err := a.loans.Assess(rec, now)
		if err != nil {
			continue
		}
		pd, err := a.defaults.Estimate(rec, now)
		if err != nil {
			continue
		}

		amount, _ := numericAt(rec, "loan_amount")
		expectedLoss := pd.DefaultProbability * amount

		totalExposure += amount
		weightedRisk += risk.RiskPercentage * amount
		sumDefaultPct += pd.DefaultPercentage
		totalExpectedLoss += expectedLoss

		riskDist[risk.RiskLevel]++
		if risk.RiskLevel == "HIGH" || risk.RiskLevel == "VERY_HIGH" {
			highRisk++
		}
		if score, ok := numericAt(rec, "credit_score"); ok {
			grade, _ := creditGrades.Map(score)
			creditDist[grade.Name()]++
		}
		if industry := stringAt(rec, "industry"); industry != "" {
			concentration[industry] += amount
		}

		loans = append(loans, PortfolioLoan{
			LoanID:             stringAt(rec, "loan_id"),
			LoanAmount:         amount,
			RiskLevel:          risk.RiskLevel,
			RiskPercentage:     risk.RiskPercentage,
			DefaultProbability: pd.DefaultPercentage,
			ExpectedLoss:       round2(expectedLoss),
		})
	}
	if len(loans) == 0 {
		return PortfolioAssessment{}, fmt.Errorf("no loan in the portfolio could be assessed")
	}

	portfolioRisk := 0.0
	lossRate := 0.0
	if totalExposure > 0 {
		portfolioRisk = weightedRisk / totalExposure
		lossRate = totalExpectedLoss / totalExposure * 100
	}

	maxConcentration := 0.0
	for _, exposure := range concentration {
		if totalExposure > 0 {
			pct := exposure / totalExposure * 100
			if pct > maxConcentration {
				maxConcentration = pct
			}
		}
	}

	losses := make([]float64, len(loans))
	for i, l := range loans {
		losses[i] = l.ExpectedLoss
	}

	return PortfolioAssessment{
		PortfolioID:        portfolioID,
		TotalLoans:         len(records),
		TotalExposure:      totalExposure,
		PortfolioRiskPct:   round2(portfolioRisk),
		AvgDefaultProbPct:  round2(sumDefaultPct / float64(len(loans))),
		HighRiskLoans:      highRisk,
		RiskDistribution:   riskDist,
		TotalExpectedLoss:  round2(totalExpectedLoss),
		ExpectedLossRate:   round2(lossRate),
		ValueAtRisk95:      round2(percentile(losses, 95)),
		Concentration:      concentration,
		MaxConcentration:   round2(maxConcentration),
		CreditDistribution: creditDist,
		Loans:              loans,
		ComputedAt:         now,
	}, nil
}

// percentile computes the p-th percentile with linear interpolation
// between closest ranks.
func percentile(values []float64, p float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	rank := p / 100 * float64(len(sorted)-1)
	lower := int(math.Floor(rank))
	upper := int(math.Ceil(rank))
	if lower == upper {
		return sorted[lower]
	}
	weight := rank - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}
