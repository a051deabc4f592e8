package service

import (
	"fmt"
	"math"
	"time"

	"github.com/quantsingularity/FinovaBank/internal/domain/valueobject"
)

var healthWeights = MustWeightTable(map[string]float64{
	"savings_rate":    0.25,
	"emergency_fund":  0.25,
	"debt_management": 0.25,
	"credit_score":    0.25,
})

var healthGrades = MustTierTable(valueobject.HigherIsBetter, []TierBound{
	{Bound: 0, Name: "F", Action: "FINANCIAL_COACHING"},
	{Bound: 50, Name: "D", Action: "FINANCIAL_COACHING"},
	{Bound: 60, Name: "C", Action: "MONITOR"},
	{Bound: 70, Name: "B", Action: "MONITOR"},
	{Bound: 80, Name: "A", Action: "MAINTAIN"},
	{Bound: 90, Name: "A+", Action: "MAINTAIN"},
})

// HealthResult is the outcome of one financial health calculation.
type HealthResult struct {
	OverallScore        float64
	Grade               string
	RecommendedAction   string
	Components          map[string]float64
	SavingsRate         float64
	DebtToIncome        float64
	EmergencyFundMonths float64
	Strengths           []string
	Improvements        []string
	ComputedAt          time.Time
}

// HealthScorer grades a customer's overall financial health from
// income, savings, debt and credit standing. Each component is scored
// 0-100 and weighted equally.
type HealthScorer struct {
	engine *ScoreEngine
}

// NewHealthScorer creates a new HealthScorer.
func NewHealthScorer(engine *ScoreEngine) *HealthScorer {
	return &HealthScorer{engine: engine}
}

// Score computes the financial health of one customer record. Monthly
// expenses default to 70% of monthly income when absent; a missing or
// non-positive income zeroes the income-derived metrics instead of
// dividing by it.
func (s *HealthScorer) Score(rec Record, now time.Time) (HealthResult, error) {
	if rec == nil {
		return HealthResult{}, fmt.Errorf("customer record is required")
	}

	income, _ := numericAt(rec, "annual_income")
	savings, _ := numericAt(rec, "current_savings")
	debt, _ := numericAt(rec, "total_debt")
	creditScore, ok := numericAt(rec, "credit_score")
	if !ok {
		creditScore = 650
	}
	expenses, ok := numericAt(rec, "monthly_expenses")
	if !ok {
		expenses = income / 12 * 0.7
	}

	savingsRate := 0.0
	debtToIncome := 0.0
	if income > 0 {
		savingsRate = (income - expenses*12) / income
		debtToIncome = debt / income
	}
	emergencyMonths := 0.0
	if expenses > 0 {
		emergencyMonths = savings / expenses
	}

	// Component scores: 20% savings rate, 5 months of runway and 0%
	// debt each max out at 100.
	savingsScore := math.Min(100, savingsRate*500)
	emergencyScore := math.Min(100, emergencyMonths*20)
	debtScore := math.Max(0, 100-debtToIncome*200)
	creditNorm := (creditScore - 300) / 5.5

	result := s.engine.Compute(now, []Factor{
		{Name: "savings_rate", Value: savingsScore},
		{Name: "emergency_fund", Value: emergencyScore},
		{Name: "debt_management", Value: debtScore},
		{Name: "credit_score", Value: creditNorm},
	}, healthWeights)

	grade, action := healthGrades.Map(result.RawScore)

	return HealthResult{
		OverallScore:      round1(result.RawScore),
		Grade:             grade.Name(),
		RecommendedAction: action,
		Components: map[string]float64{
			"savings_rate":    round1(savingsScore),
			"emergency_fund":  round1(emergencyScore),
			"debt_management": round1(debtScore),
			"credit_score":    round1(creditNorm),
		},
		SavingsRate:         round3(savingsRate),
		DebtToIncome:        round3(debtToIncome),
		EmergencyFundMonths: round1(emergencyMonths),
		Strengths:           healthStrengths(savingsScore, emergencyScore, debtScore, creditNorm),
		Improvements:        healthImprovements(savingsScore, emergencyScore, debtScore, creditNorm),
		ComputedAt:          result.ComputedAt,
	}, nil
}

func healthStrengths(savings, emergency, debt, credit float64) []string {
	var strengths []string
	if savings >= 70 {
		strengths = append(strengths, "Excellent savings rate")
	}
	if emergency >= 70 {
		strengths = append(strengths, "Strong emergency fund")
	}
	if debt >= 70 {
		strengths = append(strengths, "Good debt management")
	}
	if credit >= 70 {
		strengths = append(strengths, "Good credit score")
	}
	return strengths
}

func healthImprovements(savings, emergency, debt, credit float64) []string {
	var improvements []string
	if savings < 50 {
		improvements = append(improvements, "Increase savings rate")
	}
	if emergency < 50 {
		improvements = append(improvements, "Build emergency fund")
	}
	if debt < 50 {
		improvements = append(improvements, "Reduce debt burden")
	}
	if credit < 50 {
		improvements = append(improvements, "Improve credit score")
	}
	return improvements
}
