package dto

import (
	"time"

	"github.com/quantsingularity/FinovaBank/internal/domain/service"
)

// ScoreRequest is the shared input for record-based scoring use cases.
// The record is the raw field-name-keyed application data; the actor
// and session identify who asked, for the audit trail.
type ScoreRequest struct {
	Record    map[string]any `json:"record"`
	ActorID   string         `json:"actor_id"`
	SessionID string         `json:"session_id"`
	IPAddress string         `json:"ip_address"`
}

// CreditScoreResponse is the output of the credit scoring use case.
type CreditScoreResponse struct {
	AuditID           string             `json:"audit_id"`
	CreditScore       int                `json:"credit_score"`
	Grade             string             `json:"grade"`
	RecommendedAction string             `json:"recommended_action"`
	Components        map[string]float64 `json:"components"`
	UtilizationPct    float64            `json:"utilization_pct"`
	UsedFallback      bool               `json:"used_fallback"`
	ComputedAt        time.Time          `json:"computed_at"`
}

// FromCreditResult maps the domain result to the response DTO.
func FromCreditResult(auditID string, r service.CreditScoreResult) CreditScoreResponse {
	return CreditScoreResponse{
		AuditID:           auditID,
		CreditScore:       r.CreditScore,
		Grade:             r.Grade,
		RecommendedAction: r.RecommendedAction,
		Components:        r.Components,
		UtilizationPct:    r.UtilizationPct,
		UsedFallback:      r.UsedFallback,
		ComputedAt:        r.ComputedAt,
	}
}

// LoanAssessmentResponse is the output of the loan risk use case.
type LoanAssessmentResponse struct {
	AuditID                string             `json:"audit_id"`
	RiskScore              float64            `json:"risk_score"`
	RiskPercentage         float64            `json:"risk_percentage"`
	RiskLevel              string             `json:"risk_level"`
	Recommendation         string             `json:"recommendation"`
	InterestRateAdjustment float64            `json:"interest_rate_adjustment"`
	Factors                map[string]float64 `json:"factors"`
	DebtToIncomePct        float64            `json:"debt_to_income_pct"`
	LoanToValuePct         float64            `json:"loan_to_value_pct"`
	UsedFallback           bool               `json:"used_fallback"`
	ComputedAt             time.Time          `json:"computed_at"`
}

// FromLoanResult maps the domain result to the response DTO.
func FromLoanResult(auditID string, r service.LoanRiskResult) LoanAssessmentResponse {
	return LoanAssessmentResponse{
		AuditID:                auditID,
		RiskScore:              r.RiskScore,
		RiskPercentage:         r.RiskPercentage,
		RiskLevel:              r.RiskLevel,
		Recommendation:         r.Recommendation,
		InterestRateAdjustment: r.InterestRateAdjustment,
		Factors:                r.Factors,
		DebtToIncomePct:        r.DebtToIncomePct,
		LoanToValuePct:         r.LoanToValuePct,
		UsedFallback:           r.UsedFallback,
		ComputedAt:             r.ComputedAt,
	}
}

// DefaultProbabilityResponse is the output of the default estimation use case.
type DefaultProbabilityResponse struct {
	DefaultProbability float64   `json:"default_probability"`
	DefaultPercentage  float64   `json:"default_percentage"`
	RiskCategory       string    `json:"risk_category"`
	ConfidenceLower    float64   `json:"confidence_lower"`
	ConfidenceUpper    float64   `json:"confidence_upper"`
	UsedFallback       bool      `json:"used_fallback"`
	ComputedAt         time.Time `json:"computed_at"`
}

// FromDefaultResult maps the domain result to the response DTO.
func FromDefaultResult(r service.DefaultProbabilityResult) DefaultProbabilityResponse {
	return DefaultProbabilityResponse{
		DefaultProbability: r.DefaultProbability,
		DefaultPercentage:  r.DefaultPercentage,
		RiskCategory:       r.RiskCategory,
		ConfidenceLower:    r.ConfidenceLower,
		ConfidenceUpper:    r.ConfidenceUpper,
		UsedFallback:       r.UsedFallback,
		ComputedAt:         r.ComputedAt,
	}
}

// PortfolioRequest is the input for the portfolio assessment use case.
type PortfolioRequest struct {
	PortfolioID string           `json:"portfolio_id"`
	Loans       []map[string]any `json:"loans"`
	ActorID     string           `json:"actor_id"`
}

// PortfolioLoanDTO summarizes one loan inside a portfolio response.
type PortfolioLoanDTO struct {
	LoanID             string  `json:"loan_id"`
	LoanAmount         float64 `json:"loan_amount"`
	RiskLevel          string  `json:"risk_level"`
	RiskPercentage     float64 `json:"risk_percentage"`
	DefaultProbability float64 `json:"default_probability"`
	ExpectedLoss       float64 `json:"expected_loss"`
}

// PortfolioResponse is the output of the portfolio assessment use case.
type PortfolioResponse struct {
	PortfolioID        string             `json:"portfolio_id"`
	TotalLoans         int                `json:"total_loans"`
	TotalExposure      float64            `json:"total_exposure"`
	PortfolioRiskPct   float64            `json:"portfolio_risk_pct"`
	AvgDefaultProbPct  float64            `json:"avg_default_prob_pct"`
	HighRiskLoans      int                `json:"high_risk_loans"`
	RiskDistribution   map[string]int     `json:"risk_distribution"`
	TotalExpectedLoss  float64            `json:"total_expected_loss"`
	ExpectedLossRate   float64            `json:"expected_loss_rate"`
	ValueAtRisk95      float64            `json:"value_at_risk_95"`
	Concentration      map[string]float64 `json:"concentration"`
	MaxConcentration   float64            `json:"max_concentration"`
	CreditDistribution map[string]int     `json:"credit_distribution"`
	Loans              []PortfolioLoanDTO `json:"loans"`
	ComputedAt         time.Time          `json:"computed_at"`
}

// FromPortfolioResult maps the domain result to the response DTO.
func FromPortfolioResult(r service.PortfolioAssessment) PortfolioResponse {
	loans := make([]PortfolioLoanDTO, 0, len(r.Loans))
	for _, loan := range r.Loans {
		loans = append(loans, PortfolioLoanDTO{
			LoanID:             loan.LoanID,
			LoanAmount:         loan.LoanAmount,
			RiskLevel:          loan.RiskLevel,
			RiskPercentage:     loan.RiskPercentage,
			DefaultProbability: loan.DefaultProbability,
			ExpectedLoss:       loan.ExpectedLoss,
		})
	}
	return PortfolioResponse{
		PortfolioID:        r.PortfolioID,
		TotalLoans:         r.TotalLoans,
		TotalExposure:      r.TotalExposure,
		PortfolioRiskPct:   r.PortfolioRiskPct,
		AvgDefaultProbPct:  r.AvgDefaultProbPct,
		HighRiskLoans:      r.HighRiskLoans,
		RiskDistribution:   r.RiskDistribution,
		TotalExpectedLoss:  r.TotalExpectedLoss,
		ExpectedLossRate:   r.ExpectedLossRate,
		ValueAtRisk95:      r.ValueAtRisk95,
		Concentration:      r.Concentration,
		MaxConcentration:   r.MaxConcentration,
		CreditDistribution: r.CreditDistribution,
		Loans:              loans,
		ComputedAt:         r.ComputedAt,
	}
}

// HealthScoreResponse is the output of the financial health use case.
type HealthScoreResponse struct {
	OverallScore        float64            `json:"overall_score"`
	Grade               string             `json:"grade"`
	RecommendedAction   string             `json:"recommended_action"`
	Components          map[string]float64 `json:"components"`
	SavingsRate         float64            `json:"savings_rate"`
	DebtToIncome        float64            `json:"debt_to_income"`
	EmergencyFundMonths float64            `json:"emergency_fund_months"`
	Strengths           []string           `json:"strengths"`
	Improvements        []string           `json:"improvements"`
	ComputedAt          time.Time          `json:"computed_at"`
}

// FromHealthResult maps the domain result to the response DTO.
func FromHealthResult(r service.HealthResult) HealthScoreResponse {
	return HealthScoreResponse{
		OverallScore:        r.OverallScore,
		Grade:               r.Grade,
		RecommendedAction:   r.RecommendedAction,
		Components:          r.Components,
		SavingsRate:         r.SavingsRate,
		DebtToIncome:        r.DebtToIncome,
		EmergencyFundMonths: r.EmergencyFundMonths,
		Strengths:           r.Strengths,
		Improvements:        r.Improvements,
		ComputedAt:          r.ComputedAt,
	}
}
