package grpc

// proto.go defines the gRPC server interfaces derived from
// finova/riskcore/v1/riskcore.proto. This file serves as a stand-in for
// buf-generated code. Once `buf generate` is run, replace this file with
// the import from github.com/quantsingularity/FinovaBank/api/gen/go/finova/riskcore/v1.

import (
	"context"

	grpclib "google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// RiskServiceServer is the server API for RiskService.
type RiskServiceServer interface {
	ScoreCredit(context.Context, *ScoreCreditRequest) (*ScoreCreditResponse, error)
	AssessLoan(context.Context, *AssessLoanRequest) (*AssessLoanResponse, error)
	EstimateDefaultProbability(context.Context, *EstimateDefaultRequest) (*EstimateDefaultResponse, error)
	AssessPortfolio(context.Context, *AssessPortfolioRequest) (*AssessPortfolioResponse, error)
	AnalyzeTransaction(context.Context, *AnalyzeTransactionRequest) (*AnalyzeTransactionResponse, error)
	AnalyzeTransactionBatch(context.Context, *AnalyzeBatchRequest) (*AnalyzeBatchResponse, error)
	ScoreFinancialHealth(context.Context, *ScoreHealthRequest) (*ScoreHealthResponse, error)
	SegmentCustomers(context.Context, *SegmentCustomersRequest) (*SegmentCustomersResponse, error)
	mustEmbedUnimplementedRiskServiceServer()
}

// UnimplementedRiskServiceServer provides forward-compatible default implementations.
type UnimplementedRiskServiceServer struct{}

func (UnimplementedRiskServiceServer) ScoreCredit(context.Context, *ScoreCreditRequest) (*ScoreCreditResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method ScoreCredit not implemented")
}
func (UnimplementedRiskServiceServer) AssessLoan(context.Context, *AssessLoanRequest) (*AssessLoanResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method AssessLoan not implemented")
}
func (UnimplementedRiskServiceServer) EstimateDefaultProbability(context.Context, *EstimateDefaultRequest) (*EstimateDefaultResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method EstimateDefaultProbability not implemented")
}
func (UnimplementedRiskServiceServer) AssessPortfolio(context.Context, *AssessPortfolioRequest) (*AssessPortfolioResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method AssessPortfolio not implemented")
}
func (UnimplementedRiskServiceServer) AnalyzeTransaction(context.Context, *AnalyzeTransactionRequest) (*AnalyzeTransactionResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method AnalyzeTransaction not implemented")
}
func (UnimplementedRiskServiceServer) AnalyzeTransactionBatch(context.Context, *AnalyzeBatchRequest) (*AnalyzeBatchResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method AnalyzeTransactionBatch not implemented")
}
func (UnimplementedRiskServiceServer) ScoreFinancialHealth(context.Context, *ScoreHealthRequest) (*ScoreHealthResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method ScoreFinancialHealth not implemented")
}
func (UnimplementedRiskServiceServer) SegmentCustomers(context.Context, *SegmentCustomersRequest) (*SegmentCustomersResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method SegmentCustomers not implemented")
}
func (UnimplementedRiskServiceServer) mustEmbedUnimplementedRiskServiceServer() {}

// RegisterRiskServiceServer registers the RiskServiceServer with the gRPC server.
func RegisterRiskServiceServer(s *grpclib.Server, srv RiskServiceServer) {
	s.RegisterService(&_RiskService_serviceDesc, srv)
}

var _RiskService_serviceDesc = grpclib.ServiceDesc{
	ServiceName: "finova.riskcore.v1.RiskService",
	HandlerType: (*RiskServiceServer)(nil),
	Methods: []grpclib.MethodDesc{
		{MethodName: "ScoreCredit", Handler: _RiskService_ScoreCredit_Handler},
		{MethodName: "AssessLoan", Handler: _RiskService_AssessLoan_Handler},
		{MethodName: "EstimateDefaultProbability", Handler: _RiskService_EstimateDefaultProbability_Handler},
		{MethodName: "AssessPortfolio", Handler: _RiskService_AssessPortfolio_Handler},
		{MethodName: "AnalyzeTransaction", Handler: _RiskService_AnalyzeTransaction_Handler},
		{MethodName: "AnalyzeTransactionBatch", Handler: _RiskService_AnalyzeTransactionBatch_Handler},
		{MethodName: "ScoreFinancialHealth", Handler: _RiskService_ScoreFinancialHealth_Handler},
		{MethodName: "SegmentCustomers", Handler: _RiskService_SegmentCustomers_Handler},
	},
	Streams: []grpclib.StreamDesc{},
}

func _RiskService_ScoreCredit_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, _ grpclib.UnaryServerInterceptor) (interface{}, error) {
	req := new(ScoreCreditRequest)
	if err := dec(req); err != nil {
		return nil, err
	}
	return srv.(RiskServiceServer).ScoreCredit(ctx, req)
}

func _RiskService_AssessLoan_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, _ grpclib.UnaryServerInterceptor) (interface{}, error) {
	req := new(AssessLoanRequest)
	if err := dec(req); err != nil {
		return nil, err
	}
	return srv.(RiskServiceServer).AssessLoan(ctx, req)
}

func _RiskService_EstimateDefaultProbability_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, _ grpclib.UnaryServerInterceptor) (interface{}, error) {
	req := new(EstimateDefaultRequest)
	if err := dec(req); err != nil {
		return nil, err
	}
	return srv.(RiskServiceServer).EstimateDefaultProbability(ctx, req)
}

func _RiskService_AssessPortfolio_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, _ grpclib.UnaryServerInterceptor) (interface{}, error) {
	req := new(AssessPortfolioRequest)
	if err := dec(req); err != nil {
		return nil, err
	}
	return srv.(RiskServiceServer).AssessPortfolio(ctx, req)
}

func _RiskService_AnalyzeTransaction_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, _ grpclib.UnaryServerInterceptor) (interface{}, error) {
	req := new(AnalyzeTransactionRequest)
	if err := dec(req); err != nil {
		return nil, err
	}
	return srv.(RiskServiceServer).AnalyzeTransaction(ctx, req)
}

func _RiskService_AnalyzeTransactionBatch_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, _ grpclib.UnaryServerInterceptor) (interface{}, error) {
	req := new(AnalyzeBatchRequest)
	if err := dec(req); err != nil {
		return nil, err
	}
	return srv.(RiskServiceServer).AnalyzeTransactionBatch(ctx, req)
}

func _RiskService_ScoreFinancialHealth_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, _ grpclib.UnaryServerInterceptor) (interface{}, error) {
	req := new(ScoreHealthRequest)
	if err := dec(req); err != nil {
		return nil, err
	}
	return srv.(RiskServiceServer).ScoreFinancialHealth(ctx, req)
}

func _RiskService_SegmentCustomers_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, _ grpclib.UnaryServerInterceptor) (interface{}, error) {
	req := new(SegmentCustomersRequest)
	if err := dec(req); err != nil {
		return nil, err
	}
	return srv.(RiskServiceServer).SegmentCustomers(ctx, req)
}

// ComplianceServiceServer is the server API for ComplianceService.
type ComplianceServiceServer interface {
	CheckCompliance(context.Context, *CheckComplianceRequest) (*CheckComplianceResponse, error)
	GetComplianceDashboard(context.Context, *GetDashboardRequest) (*GetDashboardResponse, error)
	ScreenLogin(context.Context, *ScreenLoginRequest) (*ScreenLoginResponse, error)
	MonitorAPIRequest(context.Context, *MonitorAPIRequestMsg) (*MonitorAPIResponse, error)
	GetSecurityReport(context.Context, *GetSecurityReportRequest) (*GetSecurityReportResponse, error)
	ListBlockedIPs(context.Context, *ListBlockedIPsRequest) (*ListBlockedIPsResponse, error)
	UnblockIP(context.Context, *UnblockIPRequest) (*UnblockIPResponse, error)
	RecordAuditEvent(context.Context, *RecordAuditEventRequest) (*RecordAuditEventResponse, error)
	QueryAuditEvents(context.Context, *QueryAuditEventsRequest) (*QueryAuditEventsResponse, error)
	VerifyAuditEvent(context.Context, *VerifyAuditEventRequest) (*VerifyAuditEventResponse, error)
	GetActivityReport(context.Context, *GetActivityReportRequest) (*GetActivityReportResponse, error)
	mustEmbedUnimplementedComplianceServiceServer()
}

// UnimplementedComplianceServiceServer provides forward-compatible default implementations.
type UnimplementedComplianceServiceServer struct{}

func (UnimplementedComplianceServiceServer) CheckCompliance(context.Context, *CheckComplianceRequest) (*CheckComplianceResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method CheckCompliance not implemented")
}
func (UnimplementedComplianceServiceServer) GetComplianceDashboard(context.Context, *GetDashboardRequest) (*GetDashboardResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GetComplianceDashboard not implemented")
}
func (UnimplementedComplianceServiceServer) ScreenLogin(context.Context, *ScreenLoginRequest) (*ScreenLoginResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method ScreenLogin not implemented")
}
func (UnimplementedComplianceServiceServer) MonitorAPIRequest(context.Context, *MonitorAPIRequestMsg) (*MonitorAPIResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method MonitorAPIRequest not implemented")
}
func (UnimplementedComplianceServiceServer) GetSecurityReport(context.Context, *GetSecurityReportRequest) (*GetSecurityReportResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GetSecurityReport not implemented")
}
func (UnimplementedComplianceServiceServer) ListBlockedIPs(context.Context, *ListBlockedIPsRequest) (*ListBlockedIPsResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method ListBlockedIPs not implemented")
}
func (UnimplementedComplianceServiceServer) UnblockIP(context.Context, *UnblockIPRequest) (*UnblockIPResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method UnblockIP not implemented")
}
func (UnimplementedComplianceServiceServer) RecordAuditEvent(context.Context, *RecordAuditEventRequest) (*RecordAuditEventResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method RecordAuditEvent not implemented")
}
func (UnimplementedComplianceServiceServer) QueryAuditEvents(context.Context, *QueryAuditEventsRequest) (*QueryAuditEventsResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method QueryAuditEvents not implemented")
}
func (UnimplementedComplianceServiceServer) VerifyAuditEvent(context.Context, *VerifyAuditEventRequest) (*VerifyAuditEventResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method VerifyAuditEvent not implemented")
}
func (UnimplementedComplianceServiceServer) GetActivityReport(context.Context, *GetActivityReportRequest) (*GetActivityReportResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GetActivityReport not implemented")
}
func (UnimplementedComplianceServiceServer) mustEmbedUnimplementedComplianceServiceServer() {}

// RegisterComplianceServiceServer registers the ComplianceServiceServer with the gRPC server.
func RegisterComplianceServiceServer(s *grpclib.Server, srv ComplianceServiceServer) {
	s.RegisterService(&_ComplianceService_serviceDesc, srv)
}

var _ComplianceService_serviceDesc = grpclib.ServiceDesc{
	ServiceName: "finova.riskcore.v1.ComplianceService",
	HandlerType: (*ComplianceServiceServer)(nil),
	Methods: []grpclib.MethodDesc{
		{MethodName: "CheckCompliance", Handler: _ComplianceService_CheckCompliance_Handler},
		{MethodName: "GetComplianceDashboard", Handler: _ComplianceService_GetComplianceDashboard_Handler},
		{MethodName: "ScreenLogin", Handler: _ComplianceService_ScreenLogin_Handler},
		{MethodName: "MonitorAPIRequest", Handler: _ComplianceService_MonitorAPIRequest_Handler},
		{MethodName: "GetSecurityReport", Handler: _ComplianceService_GetSecurityReport_Handler},
		{MethodName: "ListBlockedIPs", Handler: _ComplianceService_ListBlockedIPs_Handler},
		{MethodName: "UnblockIP", Handler: _ComplianceService_UnblockIP_Handler},
		{MethodName: "RecordAuditEvent", Handler: _ComplianceService_RecordAuditEvent_Handler},
		{MethodName: "QueryAuditEvents", Handler: _ComplianceService_QueryAuditEvents_Handler},
		{MethodName: "VerifyAuditEvent", Handler: _ComplianceService_VerifyAuditEvent_Handler},
		{MethodName: "GetActivityReport", Handler: _ComplianceService_GetActivityReport_Handler},
	},
	Streams: []grpclib.StreamDesc{},
}

func _ComplianceService_CheckCompliance_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, _ grpclib.UnaryServerInterceptor) (interface{}, error) {
	req := new(CheckComplianceRequest)
	if err := dec(req); err != nil {
		return nil, err
	}
	return srv.(ComplianceServiceServer).CheckCompliance(ctx, req)
}

func _ComplianceService_GetComplianceDashboard_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, _ grpclib.UnaryServerInterceptor) (interface{}, error) {
	req := new(GetDashboardRequest)
	if err := dec(req); err != nil {
		return nil, err
	}
	return srv.(ComplianceServiceServer).GetComplianceDashboard(ctx, req)
}

func _ComplianceService_ScreenLogin_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, _ grpclib.UnaryServerInterceptor) (interface{}, error) {
	req := new(ScreenLoginRequest)
	if err := dec(req); err != nil {
		return nil, err
	}
	return srv.(ComplianceServiceServer).ScreenLogin(ctx, req)
}

func _ComplianceService_MonitorAPIRequest_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, _ grpclib.UnaryServerInterceptor) (interface{}, error) {
	req := new(MonitorAPIRequestMsg)
	if err := dec(req); err != nil {
		return nil, err
	}
	return srv.(ComplianceServiceServer).MonitorAPIRequest(ctx, req)
}

func _ComplianceService_GetSecurityReport_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, _ grpclib.UnaryServerInterceptor) (interface{}, error) {
	req := new(GetSecurityReportRequest)
	if err := dec(req); err != nil {
		return nil, err
	}
	return srv.(ComplianceServiceServer).GetSecurityReport(ctx, req)
}

func _ComplianceService_ListBlockedIPs_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, _ grpclib.UnaryServerInterceptor) (interface{}, error) {
	req := new(ListBlockedIPsRequest)
	if err := dec(req); err != nil {
		return nil, err
	}
	return srv.(ComplianceServiceServer).ListBlockedIPs(ctx, req)
}

func _ComplianceService_UnblockIP_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, _ grpclib.UnaryServerInterceptor) (interface{}, error) {
	req := new(UnblockIPRequest)
	if err := dec(req); err != nil {
		return nil, err
	}
	return srv.(ComplianceServiceServer).UnblockIP(ctx, req)
}

func _ComplianceService_RecordAuditEvent_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, _ grpclib.UnaryServerInterceptor) (interface{}, error) {
	req := new(RecordAuditEventRequest)
	if err := dec(req); err != nil {
		return nil, err
	}
	return srv.(ComplianceServiceServer).RecordAuditEvent(ctx, req)
}

func _ComplianceService_QueryAuditEvents_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, _ grpclib.UnaryServerInterceptor) (interface{}, error) {
	req := new(QueryAuditEventsRequest)
	if err := dec(req); err != nil {
		return nil, err
	}
	return srv.(ComplianceServiceServer).QueryAuditEvents(ctx, req)
}

func _ComplianceService_VerifyAuditEvent_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, _ grpclib.UnaryServerInterceptor) (interface{}, error) {
	req := new(VerifyAuditEventRequest)
	if err := dec(req); err != nil {
		return nil, err
	}
	return srv.(ComplianceServiceServer).VerifyAuditEvent(ctx, req)
}

func _ComplianceService_GetActivityReport_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, _ grpclib.UnaryServerInterceptor) (interface{}, error) {
	req := new(GetActivityReportRequest)
	if err := dec(req); err != nil {
		return nil, err
	}
	return srv.(ComplianceServiceServer).GetActivityReport(ctx, req)
}
