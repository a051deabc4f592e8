package grpc

import (
	"context"
	"log/slog"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/quantsingularity/FinovaBank/internal/application/dto"
	"github.com/quantsingularity/FinovaBank/internal/application/usecase"
	"github.com/quantsingularity/FinovaBank/pkg/auth"
)

// Compile-time assertion that ComplianceHandler implements ComplianceServiceServer.
var _ ComplianceServiceServer = (*ComplianceHandler)(nil)

// ComplianceHandler implements the gRPC ComplianceServiceServer interface.
type ComplianceHandler struct {
	UnimplementedComplianceServiceServer
	checkCompliance *usecase.CheckCompliance
	buildDashboard  *usecase.BuildDashboard
	analyzeLogin    *usecase.AnalyzeLogin
	monitorAPI      *usecase.MonitorAPI
	posture         *usecase.SecurityPosture
	auditTrail      *usecase.AuditTrail
	logger          *slog.Logger
}

// NewComplianceHandler creates a new gRPC handler for the compliance service.
func NewComplianceHandler(
	checkCompliance *usecase.CheckCompliance,
	buildDashboard *usecase.BuildDashboard,
	analyzeLogin *usecase.AnalyzeLogin,
	monitorAPI *usecase.MonitorAPI,
	posture *usecase.SecurityPosture,
	auditTrail *usecase.AuditTrail,
	logger *slog.Logger,
) *ComplianceHandler {
	return &ComplianceHandler{
		checkCompliance: checkCompliance,
		buildDashboard:  buildDashboard,
		analyzeLogin:    analyzeLogin,
		monitorAPI:      monitorAPI,
		posture:         posture,
		auditTrail:      auditTrail,
		logger:          logger,
	}
}

// CheckCompliance handles a compliance check request.
func (h *ComplianceHandler) CheckCompliance(ctx context.Context, req *CheckComplianceRequest) (*CheckComplianceResponse, error) {
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

	result, err := h.checkCompliance.Execute(ctx, dto.ComplianceCheckRequest{
		Domain:   req.Domain,
		Record:   req.Record,
		RecordID: req.RecordID,
		Amount:   amount,
		ActorID:  req.ActorID,
	})
	if err != nil {
		h.logger.Error("compliance check failed", slog.String("error", err.Error()))
		return nil, status.Error(codes.Internal, "internal error")
	}

	return &CheckComplianceResponse{Result: &ComplianceCheckMsg{
		CheckID:    result.CheckID,
		Domain:     result.Domain,
		RecordID:   result.RecordID,
		Status:     result.Status,
		Violations: ruleResultMsgs(result.Violations),
		Alerts:     ruleResultMsgs(result.Alerts),
		CheckedAt:  ts(result.CheckedAt),
	}}, nil
}

// GetComplianceDashboard handles a dashboard request.
func (h *ComplianceHandler) GetComplianceDashboard(ctx context.Context, req *GetDashboardRequest) (*GetDashboardResponse, error) {
	if err := requireRole(ctx, auth.RoleAdmin, auth.RoleOperator, auth.RoleAuditor, auth.RoleAnalyst); err != nil {
		return nil, err
	}

	result, err := h.buildDashboard.Execute(ctx)
	if err != nil {
		h.logger.Error("dashboard build failed", slog.String("error", err.Error()))
		return nil, status.Error(codes.Internal, "internal error")
	}

	return &GetDashboardResponse{Dashboard: &DashboardMsg{
		ComplianceScore:    int32(result.ComplianceScore),
		TotalViolations:    int32(result.TotalViolations),
		CriticalViolations: int32(result.CriticalViolations),
		HighViolations:     int32(result.HighViolations),
		MediumViolations:   int32(result.MediumViolations),
		ByRegulation:       intMap(result.ByRegulation),
		RecentViolations:   int32(result.RecentViolations),
		Status:             result.Status,
		RecommendedAction:  result.RecommendedAction,
		GeneratedAt:        ts(result.GeneratedAt),
	}}, nil
}

// ScreenLogin handles a login screening request.
func (h *ComplianceHandler) ScreenLogin(ctx context.Context, req *ScreenLoginRequest) (*ScreenLoginResponse, error) {
	if err := requireRole(ctx, auth.RoleAdmin, auth.RoleOperator, auth.RoleAPIClient); err != nil {
		return nil, err
	}
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	result, err := h.analyzeLogin.Execute(ctx, dto.LoginEventRequest{Record: req.Record})
	if err != nil {
		h.logger.Error("login screening failed", slog.String("error", err.Error()))
		return nil, status.Error(codes.Internal, "internal error")
	}

	return &ScreenLoginResponse{Analysis: &LoginAnalysisMsg{
		EventID:         result.EventID,
		Username:        result.Username,
		IPAddress:       result.IPAddress,
		RiskScore:       int32(result.RiskScore),
		RiskLevel:       result.RiskLevel,
		Action:          result.Action,
		Threats:         threatMsgs(result.Threats),
		Recommendations: result.Recommendations,
		Blocked:         result.Blocked,
		ComputedAt:      ts(result.ComputedAt),
	}}, nil
}

// MonitorAPIRequest handles an API traffic screening request.
func (h *ComplianceHandler) MonitorAPIRequest(ctx context.Context, req *MonitorAPIRequestMsg) (*MonitorAPIResponse, error) {
	if err := requireRole(ctx, auth.RoleAdmin, auth.RoleOperator, auth.RoleAPIClient); err != nil {
		return nil, err
	}
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	result, err := h.monitorAPI.Execute(ctx, dto.APIRequestEvent{Record: req.Record})
	if err != nil {
		h.logger.Error("api screening failed", slog.String("error", err.Error()))
		return nil, status.Error(codes.Internal, "internal error")
	}

	return &MonitorAPIResponse{Assessment: &APIAssessmentMsg{
		Endpoint:   result.Endpoint,
		IPAddress:  result.IPAddress,
		RiskScore:  int32(result.RiskScore),
		RiskLevel:  result.RiskLevel,
		Threats:    threatMsgs(result.Threats),
		ComputedAt: ts(result.ComputedAt),
	}}, nil
}

// GetSecurityReport handles a posture report request.
func (h *ComplianceHandler) GetSecurityReport(ctx context.Context, req *GetSecurityReportRequest) (*GetSecurityReportResponse, error) {
	if err := requireRole(ctx, auth.RoleAdmin, auth.RoleOperator, auth.RoleAuditor, auth.RoleAnalyst); err != nil {
		return nil, err
	}
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	result, err := h.posture.Report(ctx, dto.SecurityReportRequest{PeriodHours: int(req.PeriodHours)})
	if err != nil {
		h.logger.Error("security report failed", slog.String("error", err.Error()))
		return nil, status.Error(codes.Internal, "internal error")
	}

	sources := make([]*ThreatSourceMsg, 0, len(result.TopSources))
	for _, s := range result.TopSources {
		sources = append(sources, &ThreatSourceMsg{IPAddress: s.IPAddress, Threats: int32(s.Threats)})
	}
	return &GetSecurityReportResponse{Report: &SecurityReportMsg{
		PeriodHours:     int32(result.PeriodHours),
		TotalEvents:     int32(result.TotalEvents),
		ThreatEvents:    int32(result.ThreatEvents),
		BlockedAttempts: int32(result.BlockedAttempts),
		UniqueThreatIPs: int32(result.UniqueThreatIPs),
		ThreatTypes:     intMap(result.ThreatTypes),
		RiskLevels:      intMap(result.RiskLevels),
		TopSources:      sources,
		OverallRisk:     result.OverallRisk,
		BlockedIPs:      result.BlockedIPs,
		GeneratedAt:     ts(result.GeneratedAt),
	}}, nil
}

// ListBlockedIPs handles a blocklist listing request.
func (h *ComplianceHandler) ListBlockedIPs(ctx context.Context, _ *ListBlockedIPsRequest) (*ListBlockedIPsResponse, error) {
	if err := requireRole(ctx, auth.RoleAdmin, auth.RoleOperator, auth.RoleAuditor); err != nil {
		return nil, err
	}

	result, err := h.posture.ListBlocked(ctx)
	if err != nil {
		h.logger.Error("blocklist listing failed", slog.String("error", err.Error()))
		return nil, status.Error(codes.Internal, "internal error")
	}
	return &ListBlockedIPsResponse{BlockedIPs: result.BlockedIPs}, nil
}

// UnblockIP handles an administrative unblock request.
func (h *ComplianceHandler) UnblockIP(ctx context.Context, req *UnblockIPRequest) (*UnblockIPResponse, error) {
	if err := requireRole(ctx, auth.RoleAdmin, auth.RoleOperator); err != nil {
		return nil, err
	}
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	claims, _ := auth.ClaimsFromContext(ctx)
	result, err := h.posture.Unblock(ctx, dto.UnblockRequest{
		IPAddress: req.IPAddress,
		ActorID:   claims.UserID.String(),
	})
	if err != nil {
		h.logger.Error("unblock failed",
			slog.String("ip", req.IPAddress),
			slog.String("error", err.Error()),
		)
		return nil, status.Error(codes.Internal, "internal error")
	}
	return &UnblockIPResponse{IPAddress: result.IPAddress, Removed: result.Removed}, nil
}

// RecordAuditEvent handles an audit append request.
func (h *ComplianceHandler) RecordAuditEvent(ctx context.Context, req *RecordAuditEventRequest) (*RecordAuditEventResponse, error) {
	if err := requireRole(ctx, auth.RoleAdmin, auth.RoleOperator, auth.RoleAPIClient); err != nil {
		return nil, err
	}
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	result, err := h.auditTrail.Record(ctx, dto.RecordEventRequest{
		EventType:    req.EventType,
		ActorID:      req.ActorID,
		SessionID:    req.SessionID,
		IPAddress:    req.IPAddress,
		UserAgent:    req.UserAgent,
		Service:      req.Service,
		Action:       req.Action,
		Resource:     req.Resource,
		ResourceID:   req.ResourceID,
		Status:       req.Status,
		ErrorMessage: req.ErrorMessage,
		RiskLevel:    req.RiskLevel,
		Data:         req.Data,
	})
	if err != nil {
		h.logger.Error("audit record failed", slog.String("error", err.Error()))
		return nil, status.Error(codes.Internal, "internal error")
	}
	return &RecordAuditEventResponse{Event: auditEventMsg(result)}, nil
}

// QueryAuditEvents handles an audit trail query.
func (h *ComplianceHandler) QueryAuditEvents(ctx context.Context, req *QueryAuditEventsRequest) (*QueryAuditEventsResponse, error) {
	if err := requireRole(ctx, auth.RoleAdmin, auth.RoleOperator, auth.RoleAuditor); err != nil {
		return nil, err
	}
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	from, err := parseTimestamp(req.From)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid from: %v", err)
	}
	to, err := parseTimestamp(req.To)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid to: %v", err)
	}

	results, err := h.auditTrail.Query(ctx, dto.QueryEventsRequest{
		From:        from,
		To:          to,
		ActorID:     req.ActorID,
		Action:      req.Action,
		Service:     req.Service,
		Tag:         req.Tag,
		MinSeverity: req.MinSeverity,
		Limit:       int(req.Limit),
	})
	if err != nil {
		h.logger.Error("audit query failed", slog.String("error", err.Error()))
		return nil, status.Error(codes.Internal, "internal error")
	}

	events := make([]*AuditEventMsg, 0, len(results))
	for _, e := range results {
		events = append(events, auditEventMsg(e))
	}
	return &QueryAuditEventsResponse{Events: events}, nil
}

// VerifyAuditEvent handles an integrity verification request.
func (h *ComplianceHandler) VerifyAuditEvent(ctx context.Context, req *VerifyAuditEventRequest) (*VerifyAuditEventResponse, error) {
	if err := requireRole(ctx, auth.RoleAdmin, auth.RoleOperator, auth.RoleAuditor); err != nil {
		return nil, err
	}
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	result, err := h.auditTrail.Verify(ctx, dto.VerifyEventRequest{AuditID: req.AuditID})
	if err != nil {
		h.logger.Error("audit verify failed", slog.String("error", err.Error()))
		return nil, status.Error(codes.Internal, "internal error")
	}

	return &VerifyAuditEventResponse{
		AuditID:      result.AuditID,
		Status:       result.Status,
		StoredHash:   result.StoredHash,
		ComputedHash: result.ComputedHash,
		Timestamp:    ts(result.Timestamp),
		VerifiedAt:   ts(result.VerifiedAt),
	}, nil
}

// GetActivityReport handles an activity summary request.
func (h *ComplianceHandler) GetActivityReport(ctx context.Context, req *GetActivityReportRequest) (*GetActivityReportResponse, error) {
	if err := requireRole(ctx, auth.RoleAdmin, auth.RoleOperator, auth.RoleAuditor); err != nil {
		return nil, err
	}
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	from, err := parseTimestamp(req.From)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid from: %v", err)
	}
	to, err := parseTimestamp(req.To)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid to: %v", err)
	}

	result, err := h.auditTrail.Summarize(ctx, dto.ActivityReportRequest{
		From:        from,
		To:          to,
		Tag:         req.Tag,
		Service:     req.Service,
		MinSeverity: req.MinSeverity,
		Limit:       int(req.Limit),
	})
	if err != nil {
		h.logger.Error("activity report failed", slog.String("error", err.Error()))
		return nil, status.Error(codes.Internal, "internal error")
	}

	actors := make([]*ActorActivityMsg, 0, len(result.TopActors))
	for _, a := range result.TopActors {
		actors = append(actors, &ActorActivityMsg{ActorID: a.ActorID, Count: int32(a.Count)})
	}
	anomalies := make([]*AuditEventMsg, 0, len(result.Anomalies))
	for _, e := range result.Anomalies {
		anomalies = append(anomalies, auditEventMsg(e))
	}
	return &GetActivityReportResponse{Report: &ActivityReportMsg{
		TotalEvents:    int32(result.TotalEvents),
		CountsByTier:   intMap(result.CountsByTier),
		CountsByAction: intMap(result.CountsByAction),
		CountsByActor:  intMap(result.CountsByActor),
		CountsByTag:    intMap(result.CountsByTag),
		TopActors:      actors,
		UniqueActors:   int32(result.UniqueActors),
		Anomalies:      anomalies,
		Status:         result.Status,
		GeneratedAt:    ts(result.GeneratedAt),
	}}, nil
}

func parseTimestamp(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339, s)
}

func ruleResultMsgs(results []dto.RuleResultDTO) []*RuleResultMsg {
	out := make([]*RuleResultMsg, 0, len(results))
	for _, r := range results {
		out = append(out, &RuleResultMsg{
			RuleID:         r.RuleID,
			Regulation:     r.Regulation,
			Description:    r.Description,
			Severity:       r.Severity,
			ActionRequired: r.ActionRequired,
		})
	}
	return out
}

func threatMsgs(threats []dto.ThreatDTO) []*ThreatMsg {
	out := make([]*ThreatMsg, 0, len(threats))
	for _, t := range threats {
		out = append(out, &ThreatMsg{
			Type:        t.Type,
			Description: t.Description,
			Severity:    t.Severity,
			RiskPoints:  int32(t.RiskPoints),
		})
	}
	return out
}

func auditEventMsg(e dto.AuditEventDTO) *AuditEventMsg {
	return &AuditEventMsg{
		SequenceID:     e.SequenceID,
		AuditID:        e.AuditID,
		Timestamp:      ts(e.Timestamp),
		ActorID:        e.ActorID,
		Service:        e.Service,
		Action:         e.Action,
		Resource:       e.Resource,
		ResourceID:     e.ResourceID,
		Status:         e.Status,
		Payload:        e.Payload,
		PayloadHash:    e.PayloadHash,
		RiskLevel:      e.RiskLevel,
		Tags:           e.Tags,
		RetentionYears: int32(e.RetentionYears),
	}
}
