package grpc

import (
	"context"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/quantsingularity/FinovaBank/internal/application/dto"
	"github.com/quantsingularity/FinovaBank/internal/application/usecase"
	"github.com/quantsingularity/FinovaBank/pkg/auth"
)

// requireRole checks that the caller has at least one of the given roles.
func requireRole(ctx context.Context, roles ...string) error {
	claims, ok := auth.ClaimsFromContext(ctx)
	if !ok {
		return status.Error(codes.Unauthenticated, "authentication required")
	}
	for _, role := range roles {
		if claims.HasRole(role) {
			return nil
		}
	}
	return status.Error(codes.PermissionDenied, "insufficient permissions")
}

func ts(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func intMap(in map[string]int) map[string]int32 {
	out := make(map[string]int32, len(in))
	for k, v := range in {
		out[k] = int32(v)
	}
	return out
}

// moneyAmount parses the optional Money message into an exact decimal.
func moneyAmount(m *MoneyMsg) (decimal.Decimal, error) {
	if m == nil || m.Amount == "" {
		return decimal.Decimal{}, nil
	}
	amount, err := decimal.NewFromString(m.Amount)
	if err != nil {
		return decimal.Decimal{}, status.Errorf(codes.InvalidArgument, "invalid amount: %v", err)
	}
	return amount, nil
}

// Compile-time assertion that RiskHandler implements RiskServiceServer.
var _ RiskServiceServer = (*RiskHandler)(nil)

// RiskHandler implements the gRPC RiskServiceServer interface.
type RiskHandler struct {
	UnimplementedRiskServiceServer
	scoreCredit      *usecase.ScoreCredit
	assessLoan       *usecase.AssessLoan
	estimateDefault  *usecase.EstimateDefault
	assessPortfolio  *usecase.AssessPortfolio
	analyzeFraud     *usecase.AnalyzeFraud
	scoreHealth      *usecase.ScoreHealth
	segmentCustomers *usecase.SegmentCustomers
	logger           *slog.Logger
}

// NewRiskHandler creates a new gRPC handler for the risk service.
func NewRiskHandler(
	scoreCredit *usecase.ScoreCredit,
	assessLoan *usecase.AssessLoan,
	estimateDefault *usecase.EstimateDefault,
	assessPortfolio *usecase.AssessPortfolio,
	analyzeFraud *usecase.AnalyzeFraud,
	scoreHealth *usecase.ScoreHealth,
	segmentCustomers *usecase.SegmentCustomers,
	logger *slog.Logger,
) *RiskHandler {
	return &RiskHandler{
		scoreCredit:      scoreCredit,
		assessLoan:       assessLoan,
		estimateDefault:  estimateDefault,
		assessPortfolio:  assessPortfolio,
		analyzeFraud:     analyzeFraud,
		scoreHealth:      scoreHealth,
		segmentCustomers: segmentCustomers,
		logger:           logger,
	}
}

// ScoreCredit handles a credit scoring request.
func (h *RiskHandler) ScoreCredit(ctx context.Context, req *ScoreCreditRequest) (*ScoreCreditResponse, error) {
	if err := requireRole(ctx, auth.RoleAdmin, auth.RoleOperator, auth.RoleAnalyst, auth.RoleAPIClient); err != nil {
		return nil, err
	}
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	result, err := h.scoreCredit.Execute(ctx, dto.ScoreRequest{
		Record:    req.Record,
		ActorID:   req.ActorID,
		SessionID: req.SessionID,
		IPAddress: req.IPAddress,
	})
	if err != nil {
		h.logger.Error("credit scoring failed", slog.String("error", err.Error()))
		return nil, status.Error(codes.Internal, "internal error")
	}

	return &ScoreCreditResponse{Score: &CreditScoreMsg{
		AuditID:           result.AuditID,
		CreditScore:       int32(result.CreditScore),
		Grade:             result.Grade,
		RecommendedAction: result.RecommendedAction,
		Components:        result.Components,
		UtilizationPct:    result.UtilizationPct,
		UsedFallback:      result.UsedFallback,
		ComputedAt:        ts(result.ComputedAt),
	}}, nil
}

// AssessLoan handles a loan underwriting request.
func (h *RiskHandler) AssessLoan(ctx context.Context, req *AssessLoanRequest) (*AssessLoanResponse, error) {
	if err := requireRole(ctx, auth.RoleAdmin, auth.RoleOperator, auth.RoleAnalyst, auth.RoleAPIClient); err != nil {
		return nil, err
	}
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	result, err := h.assessLoan.Execute(ctx, dto.ScoreRequest{
		Record:    req.Record,
		ActorID:   req.ActorID,
		SessionID: req.SessionID,
		IPAddress: req.IPAddress,
	})
	if err != nil {
		h.logger.Error("loan assessment failed", slog.String("error", err.Error()))
		return nil, status.Error(codes.Internal, "internal error")
	}

	return &AssessLoanResponse{Assessment: &LoanAssessmentMsg{
		AuditID:                result.AuditID,
		RiskScore:              result.RiskScore,
		RiskPercentage:         result.RiskPercentage,
		RiskLevel:              result.RiskLevel,
		Recommendation:         result.Recommendation,
		InterestRateAdjustment: result.InterestRateAdjustment,
		Factors:                result.Factors,
		DebtToIncomePct:        result.DebtToIncomePct,
		LoanToValuePct:         result.LoanToValuePct,
		UsedFallback:           result.UsedFallback,
		ComputedAt:             ts(result.ComputedAt),
	}}, nil
}

// EstimateDefaultProbability handles a default probability request.
func (h *RiskHandler) EstimateDefaultProbability(ctx context.Context, req *EstimateDefaultRequest) (*EstimateDefaultResponse, error) {
	if err := requireRole(ctx, auth.RoleAdmin, auth.RoleOperator, auth.RoleAnalyst, auth.RoleAPIClient); err != nil {
		return nil, err
	}
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	result, err := h.estimateDefault.Execute(ctx, dto.ScoreRequest{Record: req.Record, ActorID: req.ActorID})
	if err != nil {
		h.logger.Error("default estimation failed", slog.String("error", err.Error()))
		return nil, status.Error(codes.Internal, "internal error")
	}

	return &EstimateDefaultResponse{Estimate: &DefaultProbabilityMsg{
		DefaultProbability: result.DefaultProbability,
		DefaultPercentage:  result.DefaultPercentage,
		RiskCategory:       result.RiskCategory,
		ConfidenceLower:    result.ConfidenceLower,
		ConfidenceUpper:    result.ConfidenceUpper,
		UsedFallback:       result.UsedFallback,
		ComputedAt:         ts(result.ComputedAt),
	}}, nil
}

// AssessPortfolio handles a portfolio risk request.
func (h *RiskHandler) AssessPortfolio(ctx context.Context, req *AssessPortfolioRequest) (*AssessPortfolioResponse, error) {
	if err := requireRole(ctx, auth.RoleAdmin, auth.RoleOperator, auth.RoleAnalyst); err != nil {
		return nil, err
	}
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	result, err := h.assessPortfolio.Execute(ctx, dto.PortfolioRequest{
		PortfolioID: req.PortfolioID,
		Loans:       req.Loans,
		ActorID:     req.ActorID,
	})
	if err != nil {
		h.logger.Error("portfolio assessment failed", slog.String("error", err.Error()))
		return nil, status.Error(codes.Internal, "internal error")
	}

	loans := make([]*PortfolioLoanMsg, 0, len(result.Loans))
	for _, loan := range result.Loans {
		loans = append(loans, &PortfolioLoanMsg{
			LoanID:             loan.LoanID,
			LoanAmount:         loan.LoanAmount,
			RiskLevel:          loan.RiskLevel,
			RiskPercentage:     loan.RiskPercentage,
			DefaultProbability: loan.DefaultProbability,
			ExpectedLoss:       loan.ExpectedLoss,
		})
	}
	return &AssessPortfolioResponse{Assessment: &PortfolioAssessmentMsg{
		PortfolioID:        result.PortfolioID,
		TotalLoans:         int32(result.TotalLoans),
		TotalExposure:      result.TotalExposure,
		PortfolioRiskPct:   result.PortfolioRiskPct,
		AvgDefaultProbPct:  result.AvgDefaultProbPct,
		HighRiskLoans:      int32(result.HighRiskLoans),
		RiskDistribution:   intMap(result.RiskDistribution),
		TotalExpectedLoss:  result.TotalExpectedLoss,
		ExpectedLossRate:   result.ExpectedLossRate,
		ValueAtRisk95:      result.ValueAtRisk95,
		Concentration:      result.Concentration,
		MaxConcentration:   result.MaxConcentration,
		CreditDistribution: intMap(result.CreditDistribution),
		Loans:              loans,
		ComputedAt:         ts(result.ComputedAt),
	}}, nil
}

// AnalyzeTransaction handles a single-transaction fraud request.
func (h *RiskHandler) AnalyzeTransaction(ctx context.Context, req *AnalyzeTransactionRequest) (*AnalyzeTransactionResponse, error) {
	if err := requireRole(ctx, auth.RoleAdmin, auth.RoleOperator, auth.RoleAPIClient); err != nil {
		return nil, err
	}
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	amount, err := moneyAmount(req.Amount)
	if err != nil {
		return nil, err
	}

	result, err := h.analyzeFraud.Execute(ctx, dto.TransactionRequest{
		Record:  req.Record,
		Amount:  amount,
		ActorID: req.ActorID,
	})
	if err != nil {
		h.logger.Error("fraud analysis failed", slog.String("error", err.Error()))
		return nil, status.Error(codes.Internal, "internal error")
	}

	return &AnalyzeTransactionResponse{Analysis: fraudAnalysisMsg(result)}, nil
}

// AnalyzeTransactionBatch handles a batch fraud request.
func (h *RiskHandler) AnalyzeTransactionBatch(ctx context.Context, req *AnalyzeBatchRequest) (*AnalyzeBatchResponse, error) {
	if err := requireRole(ctx, auth.RoleAdmin, auth.RoleOperator, auth.RoleAPIClient); err != nil {
		return nil, err
	}
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	result, err := h.analyzeFraud.ExecuteBatch(ctx, dto.BatchFraudRequest{
		BatchID:      req.BatchID,
		Transactions: req.Transactions,
		ActorID:      req.ActorID,
	})
	if err != nil {
		h.logger.Error("batch fraud analysis failed", slog.String("error", err.Error()))
		return nil, status.Error(codes.Internal, "internal error")
	}

	results := make([]*FraudAnalysisMsg, 0, len(result.Results))
	for _, analysis := range result.Results {
		results = append(results, fraudAnalysisMsg(analysis))
	}
	return &AnalyzeBatchResponse{Analysis: &BatchFraudAnalysisMsg{
		BatchID:           result.BatchID,
		TotalTransactions: int32(result.TotalTransactions),
		CountsByLevel:     intMap(result.CountsByLevel),
		Results:           results,
		ComputedAt:        ts(result.ComputedAt),
	}}, nil
}

// ScoreFinancialHealth handles a financial health request.
func (h *RiskHandler) ScoreFinancialHealth(ctx context.Context, req *ScoreHealthRequest) (*ScoreHealthResponse, error) {
	if err := requireRole(ctx, auth.RoleAdmin, auth.RoleOperator, auth.RoleAnalyst, auth.RoleAPIClient); err != nil {
		return nil, err
	}
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	result, err := h.scoreHealth.Execute(ctx, dto.ScoreRequest{Record: req.Record, ActorID: req.ActorID})
	if err != nil {
		h.logger.Error("health scoring failed", slog.String("error", err.Error()))
		return nil, status.Error(codes.Internal, "internal error")
	}

	return &ScoreHealthResponse{Score: &HealthScoreMsg{
		OverallScore:        result.OverallScore,
		Grade:               result.Grade,
		RecommendedAction:   result.RecommendedAction,
		Components:          result.Components,
		SavingsRate:         result.SavingsRate,
		DebtToIncome:        result.DebtToIncome,
		EmergencyFundMonths: result.EmergencyFundMonths,
		Strengths:           result.Strengths,
		Improvements:        result.Improvements,
		ComputedAt:          ts(result.ComputedAt),
	}}, nil
}

// SegmentCustomers handles an RFM segmentation request.
func (h *RiskHandler) SegmentCustomers(ctx context.Context, req *SegmentCustomersRequest) (*SegmentCustomersResponse, error) {
	if err := requireRole(ctx, auth.RoleAdmin, auth.RoleOperator, auth.RoleAnalyst); err != nil {
		return nil, err
	}
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	result, err := h.segmentCustomers.Execute(ctx, dto.SegmentationRequest{Customers: req.Customers})
	if err != nil {
		h.logger.Error("customer segmentation failed", slog.String("error", err.Error()))
		return nil, status.Error(codes.Internal, "internal error")
	}

	stats := make(map[string]*SegmentStatMsg, len(result.SegmentStats))
	for segment, s := range result.SegmentStats {
		stats[segment] = &SegmentStatMsg{
			Customers:    int32(s.Customers),
			AvgRecency:   s.AvgRecency,
			AvgFrequency: s.AvgFrequency,
			AvgMonetary:  s.AvgMonetary,
		}
	}
	top := make([]*RFMCustomerMsg, 0, len(result.TopCustomers))
	for _, c := range result.TopCustomers {
		top = append(top, &RFMCustomerMsg{
			CustomerID: c.CustomerID,
			Recency:    int32(c.Recency),
			Frequency:  int32(c.Frequency),
			Monetary:   c.Monetary,
			RScore:     int32(c.RScore),
			FScore:     int32(c.FScore),
			MScore:     int32(c.MScore),
			Code:       c.Code,
			Segment:    c.Segment,
		})
	}
	return &SegmentCustomersResponse{Analysis: &SegmentationMsg{
		TotalCustomers: int32(result.TotalCustomers),
		Distribution:   intMap(result.Distribution),
		SegmentStats:   stats,
		AvgRecency:     result.AvgRecency,
		AvgFrequency:   result.AvgFrequency,
		AvgMonetary:    result.AvgMonetary,
		TopCustomers:   top,
		ComputedAt:     ts(result.ComputedAt),
	}}, nil
}

func fraudAnalysisMsg(r dto.FraudAnalysisResponse) *FraudAnalysisMsg {
	return &FraudAnalysisMsg{
		TransactionID:     r.TransactionID,
		RiskScore:         r.RiskScore,
		RiskLevel:         r.RiskLevel,
		RecommendedAction: r.RecommendedAction,
		Indicators:        r.Indicators,
		FeaturesAnalyzed:  int32(r.FeaturesAnalyzed),
		ComputedAt:        ts(r.ComputedAt),
	}
}
