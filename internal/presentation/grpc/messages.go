package grpc

// Proto-aligned request/response message types for the RiskService and
// ComplianceService. Record payloads map to google.protobuf.Struct;
// timestamps travel as RFC 3339 strings.

// MoneyMsg represents the proto Money message.
type MoneyMsg struct {
	Amount   string `json:"amount"`
	Currency string `json:"currency"`
}

// ScoreCreditRequest represents the proto ScoreCreditRequest message.
type ScoreCreditRequest struct {
	Record    map[string]any `json:"record"`
	ActorID   string         `json:"actor_id"`
	SessionID string         `json:"session_id"`
	IPAddress string         `json:"ip_address"`
}

// CreditScoreMsg represents the proto CreditScore message.
type CreditScoreMsg struct {
	AuditID           string             `json:"audit_id"`
	CreditScore       int32              `json:"credit_score"`
	Grade             string             `json:"grade"`
	RecommendedAction string             `json:"recommended_action"`
	Components        map[string]float64 `json:"components"`
	UtilizationPct    float64            `json:"utilization_pct"`
	UsedFallback      bool               `json:"used_fallback"`
	ComputedAt        string             `json:"computed_at"`
}

// ScoreCreditResponse represents the proto ScoreCreditResponse message.
type ScoreCreditResponse struct {
	Score *CreditScoreMsg `json:"score"`
}

// AssessLoanRequest represents the proto AssessLoanRequest message.
type AssessLoanRequest struct {
	Record    map[string]any `json:"record"`
	ActorID   string         `json:"actor_id"`
	SessionID string         `json:"session_id"`
	IPAddress string         `json:"ip_address"`
}

// LoanAssessmentMsg represents the proto LoanAssessment message.
type LoanAssessmentMsg struct {
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
	ComputedAt             string             `json:"computed_at"`
}

// AssessLoanResponse represents the proto AssessLoanResponse message.
type AssessLoanResponse struct {
	Assessment *LoanAssessmentMsg `json:"assessment"`
}

// EstimateDefaultRequest represents the proto EstimateDefaultRequest message.
type EstimateDefaultRequest struct {
	Record  map[string]any `json:"record"`
	ActorID string         `json:"actor_id"`
}

// DefaultProbabilityMsg represents the proto DefaultProbability message.
type DefaultProbabilityMsg struct {
	DefaultProbability float64 `json:"default_probability"`
	DefaultPercentage  float64 `json:"default_percentage"`
	RiskCategory       string  `json:"risk_category"`
	ConfidenceLower    float64 `json:"confidence_lower"`
	ConfidenceUpper    float64 `json:"confidence_upper"`
	UsedFallback       bool    `json:"used_fallback"`
	ComputedAt         string  `json:"computed_at"`
}

// EstimateDefaultResponse represents the proto EstimateDefaultResponse message.
type EstimateDefaultResponse struct {
	Estimate *DefaultProbabilityMsg `json:"estimate"`
}

// AssessPortfolioRequest represents the proto AssessPortfolioRequest message.
type AssessPortfolioRequest struct {
	PortfolioID string           `json:"portfolio_id"`
	Loans       []map[string]any `json:"loans"`
	ActorID     string           `json:"actor_id"`
}

// PortfolioLoanMsg represents the proto PortfolioLoan message.
type PortfolioLoanMsg struct {
	LoanID             string  `json:"loan_id"`
	LoanAmount         float64 `json:"loan_amount"`
	RiskLevel          string  `json:"risk_level"`
	RiskPercentage     float64 `json:"risk_percentage"`
	DefaultProbability float64 `json:"default_probability"`
	ExpectedLoss       float64 `json:"expected_loss"`
}

// PortfolioAssessmentMsg represents the proto PortfolioAssessment message.
type PortfolioAssessmentMsg struct {
	PortfolioID        string              `json:"portfolio_id"`
	TotalLoans         int32               `json:"total_loans"`
	TotalExposure      float64             `json:"total_exposure"`
	PortfolioRiskPct   float64             `json:"portfolio_risk_pct"`
	AvgDefaultProbPct  float64             `json:"avg_default_prob_pct"`
	HighRiskLoans      int32               `json:"high_risk_loans"`
	RiskDistribution   map[string]int32    `json:"risk_distribution"`
	TotalExpectedLoss  float64             `json:"total_expected_loss"`
	ExpectedLossRate   float64             `json:"expected_loss_rate"`
	ValueAtRisk95      float64             `json:"value_at_risk_95"`
	Concentration      map[string]float64  `json:"concentration"`
	MaxConcentration   float64             `json:"max_concentration"`
	CreditDistribution map[string]int32    `json:"credit_distribution"`
	Loans              []*PortfolioLoanMsg `json:"loans"`
	ComputedAt         string              `json:"computed_at"`
}

// AssessPortfolioResponse represents the proto AssessPortfolioResponse message.
type AssessPortfolioResponse struct {
	Assessment *PortfolioAssessmentMsg `json:"assessment"`
}

// AnalyzeTransactionRequest represents the proto AnalyzeTransactionRequest message.
type AnalyzeTransactionRequest struct {
	Record  map[string]any `json:"record"`
	Amount  *MoneyMsg      `json:"amount"`
	ActorID string         `json:"actor_id"`
}

// FraudAnalysisMsg represents the proto FraudAnalysis message.
type FraudAnalysisMsg struct {
	TransactionID     string   `json:"transaction_id"`
	RiskScore         float64  `json:"risk_score"`
	RiskLevel         string   `json:"risk_level"`
	RecommendedAction string   `json:"recommended_action"`
	Indicators        []string `json:"indicators"`
	FeaturesAnalyzed  int32    `json:"features_analyzed"`
	ComputedAt        string   `json:"computed_at"`
}

// AnalyzeTransactionResponse represents the proto AnalyzeTransactionResponse message.
type AnalyzeTransactionResponse struct {
	Analysis *FraudAnalysisMsg `json:"analysis"`
}

// AnalyzeBatchRequest represents the proto AnalyzeBatchRequest message.
type AnalyzeBatchRequest struct {
	BatchID      string           `json:"batch_id"`
	Transactions []map[string]any `json:"transactions"`
	ActorID      string           `json:"actor_id"`
}

// BatchFraudAnalysisMsg represents the proto BatchFraudAnalysis message.
type BatchFraudAnalysisMsg struct {
	BatchID           string              `json:"batch_id"`
	TotalTransactions int32               `json:"total_transactions"`
	CountsByLevel     map[string]int32    `json:"counts_by_level"`
	Results           []*FraudAnalysisMsg `json:"results"`
	ComputedAt        string              `json:"computed_at"`
}

// AnalyzeBatchResponse represents the proto AnalyzeBatchResponse message.
type AnalyzeBatchResponse struct {
	Analysis *BatchFraudAnalysisMsg `json:"analysis"`
}

// ScoreHealthRequest represents the proto ScoreHealthRequest message.
type ScoreHealthRequest struct {
	Record  map[string]any `json:"record"`
	ActorID string         `json:"actor_id"`
}

// HealthScoreMsg represents the proto HealthScore message.
type HealthScoreMsg struct {
	OverallScore        float64            `json:"overall_score"`
	Grade               string             `json:"grade"`
	RecommendedAction   string             `json:"recommended_action"`
	Components          map[string]float64 `json:"components"`
	SavingsRate         float64            `json:"savings_rate"`
	DebtToIncome        float64            `json:"debt_to_income"`
	EmergencyFundMonths float64            `json:"emergency_fund_months"`
	Strengths           []string           `json:"strengths"`
	Improvements        []string           `json:"improvements"`
	ComputedAt          string             `json:"computed_at"`
}

// ScoreHealthResponse represents the proto ScoreHealthResponse message.
type ScoreHealthResponse struct {
	Score *HealthScoreMsg `json:"score"`
}

// SegmentCustomersRequest represents the proto SegmentCustomersRequest message.
type SegmentCustomersRequest struct {
	Customers []map[string]any `json:"customers"`
}

// RFMCustomerMsg represents the proto RFMCustomer message.
type RFMCustomerMsg struct {
	CustomerID string  `json:"customer_id"`
	Recency    int32   `json:"recency"`
	Frequency  int32   `json:"frequency"`
	Monetary   float64 `json:"monetary"`
	RScore     int32   `json:"r_score"`
	FScore     int32   `json:"f_score"`
	MScore     int32   `json:"m_score"`
	Code       string  `json:"code"`
	Segment    string  `json:"segment"`
}

// SegmentStatMsg represents the proto SegmentStat message.
type SegmentStatMsg struct {
	Customers    int32   `json:"customers"`
	AvgRecency   float64 `json:"avg_recency"`
	AvgFrequency float64 `json:"avg_frequency"`
	AvgMonetary  float64 `json:"avg_monetary"`
}

// SegmentationMsg represents the proto Segmentation message.
type SegmentationMsg struct {
	TotalCustomers int32                      `json:"total_customers"`
	Distribution   map[string]int32           `json:"distribution"`
	SegmentStats   map[string]*SegmentStatMsg `json:"segment_stats"`
	AvgRecency     float64                    `json:"avg_recency"`
	AvgFrequency   float64                    `json:"avg_frequency"`
	AvgMonetary    float64                    `json:"avg_monetary"`
	TopCustomers   []*RFMCustomerMsg          `json:"top_customers"`
	ComputedAt     string                     `json:"computed_at"`
}

// SegmentCustomersResponse represents the proto SegmentCustomersResponse message.
type SegmentCustomersResponse struct {
	Analysis *SegmentationMsg `json:"analysis"`
}

// CheckComplianceRequest represents the proto CheckComplianceRequest message.
type CheckComplianceRequest struct {
	Domain   string         `json:"domain"`
	Record   map[string]any `json:"record"`
	RecordID string         `json:"record_id"`
	Amount   *MoneyMsg      `json:"amount"`
	ActorID  string         `json:"actor_id"`
}

// RuleResultMsg represents the proto RuleResult message.
type RuleResultMsg struct {
	RuleID         string `json:"rule_id"`
	Regulation     string `json:"regulation"`
	Description    string `json:"description"`
	Severity       string `json:"severity"`
	ActionRequired string `json:"action_required"`
}

// ComplianceCheckMsg represents the proto ComplianceCheck message.
type ComplianceCheckMsg struct {
	CheckID    string           `json:"check_id"`
	Domain     string           `json:"domain"`
	RecordID   string           `json:"record_id"`
	Status     string           `json:"status"`
	Violations []*RuleResultMsg `json:"violations"`
	Alerts     []*RuleResultMsg `json:"alerts"`
	CheckedAt  string           `json:"checked_at"`
}

// CheckComplianceResponse represents the proto CheckComplianceResponse message.
type CheckComplianceResponse struct {
	Result *ComplianceCheckMsg `json:"result"`
}

// GetDashboardRequest represents the proto GetDashboardRequest message.
type GetDashboardRequest struct{}

// DashboardMsg represents the proto Dashboard message.
type DashboardMsg struct {
	ComplianceScore    int32            `json:"compliance_score"`
	TotalViolations    int32            `json:"total_violations"`
	CriticalViolations int32            `json:"critical_violations"`
	HighViolations     int32            `json:"high_violations"`
	MediumViolations   int32            `json:"medium_violations"`
	ByRegulation       map[string]int32 `json:"by_regulation"`
	RecentViolations   int32            `json:"recent_violations"`
	Status             string           `json:"status"`
	RecommendedAction  string           `json:"recommended_action"`
	GeneratedAt        string           `json:"generated_at"`
}

// GetDashboardResponse represents the proto GetDashboardResponse message.
type GetDashboardResponse struct {
	Dashboard *DashboardMsg `json:"dashboard"`
}

// ScreenLoginRequest represents the proto ScreenLoginRequest message.
type ScreenLoginRequest struct {
	Record map[string]any `json:"record"`
}

// ThreatMsg represents the proto Threat message.
type ThreatMsg struct {
	Type        string `json:"type"`
	Description string `json:"description"`
	Severity    string `json:"severity"`
	RiskPoints  int32  `json:"risk_points"`
}

// LoginAnalysisMsg represents the proto LoginAnalysis message.
type LoginAnalysisMsg struct {
	EventID         string       `json:"event_id"`
	Username        string       `json:"username"`
	IPAddress       string       `json:"ip_address"`
	RiskScore       int32        `json:"risk_score"`
	RiskLevel       string       `json:"risk_level"`
	Action          string       `json:"action"`
	Threats         []*ThreatMsg `json:"threats"`
	Recommendations []string     `json:"recommendations"`
	Blocked         bool         `json:"blocked"`
	ComputedAt      string       `json:"computed_at"`
}

// ScreenLoginResponse represents the proto ScreenLoginResponse message.
type ScreenLoginResponse struct {
	Analysis *LoginAnalysisMsg `json:"analysis"`
}

// MonitorAPIRequestMsg represents the proto MonitorAPIRequest message.
type MonitorAPIRequestMsg struct {
	Record map[string]any `json:"record"`
}

// APIAssessmentMsg represents the proto APIAssessment message.
type APIAssessmentMsg struct {
	Endpoint   string       `json:"endpoint"`
	IPAddress  string       `json:"ip_address"`
	RiskScore  int32        `json:"risk_score"`
	RiskLevel  string       `json:"risk_level"`
	Threats    []*ThreatMsg `json:"threats"`
	ComputedAt string       `json:"computed_at"`
}

// MonitorAPIResponse represents the proto MonitorAPIResponse message.
type MonitorAPIResponse struct {
	Assessment *APIAssessmentMsg `json:"assessment"`
}

// GetSecurityReportRequest represents the proto GetSecurityReportRequest message.
type GetSecurityReportRequest struct {
	PeriodHours int32 `json:"period_hours"`
}

// ThreatSourceMsg represents the proto ThreatSource message.
type ThreatSourceMsg struct {
	IPAddress string `json:"ip_address"`
	Threats   int32  `json:"threats"`
}

// SecurityReportMsg represents the proto SecurityReport message.
type SecurityReportMsg struct {
	PeriodHours     int32              `json:"period_hours"`
	TotalEvents     int32              `json:"total_events"`
	ThreatEvents    int32              `json:"threat_events"`
	BlockedAttempts int32              `json:"blocked_attempts"`
	UniqueThreatIPs int32              `json:"unique_threat_ips"`
	ThreatTypes     map[string]int32   `json:"threat_types"`
	RiskLevels      map[string]int32   `json:"risk_levels"`
	TopSources      []*ThreatSourceMsg `json:"top_sources"`
	OverallRisk     string             `json:"overall_risk"`
	BlockedIPs      []string           `json:"blocked_ips"`
	GeneratedAt     string             `json:"generated_at"`
}

// GetSecurityReportResponse represents the proto GetSecurityReportResponse message.
type GetSecurityReportResponse struct {
	Report *SecurityReportMsg `json:"report"`
}

// ListBlockedIPsRequest represents the proto ListBlockedIPsRequest message.
type ListBlockedIPsRequest struct{}

// ListBlockedIPsResponse represents the proto ListBlockedIPsResponse message.
type ListBlockedIPsResponse struct {
	BlockedIPs []string `json:"blocked_ips"`
}

// UnblockIPRequest represents the proto UnblockIPRequest message.
type UnblockIPRequest struct {
	IPAddress string `json:"ip_address"`
}

// UnblockIPResponse represents the proto UnblockIPResponse message.
type UnblockIPResponse struct {
	IPAddress string `json:"ip_address"`
	Removed   bool   `json:"removed"`
}

// RecordAuditEventRequest represents the proto RecordAuditEventRequest message.
type RecordAuditEventRequest struct {
	EventType    string         `json:"event_type"`
	ActorID      string         `json:"actor_id"`
	SessionID    string         `json:"session_id"`
	IPAddress    string         `json:"ip_address"`
	UserAgent    string         `json:"user_agent"`
	Service      string         `json:"service"`
	Action       string         `json:"action"`
	Resource     string         `json:"resource"`
	ResourceID   string         `json:"resource_id"`
	Status       string         `json:"status"`
	ErrorMessage string         `json:"error_message"`
	RiskLevel    string         `json:"risk_level"`
	Data         map[string]any `json:"data"`
}

// AuditEventMsg represents the proto AuditEvent message.
type AuditEventMsg struct {
	SequenceID     uint64         `json:"sequence_id"`
	AuditID        string         `json:"audit_id"`
	Timestamp      string         `json:"timestamp"`
	ActorID        string         `json:"actor_id"`
	Service        string         `json:"service"`
	Action         string         `json:"action"`
	Resource       string         `json:"resource"`
	ResourceID     string         `json:"resource_id"`
	Status         string         `json:"status"`
	Payload        map[string]any `json:"payload"`
	PayloadHash    string         `json:"payload_hash"`
	RiskLevel      string         `json:"risk_level"`
	Tags           []string       `json:"tags"`
	RetentionYears int32          `json:"retention_years"`
}

// RecordAuditEventResponse represents the proto RecordAuditEventResponse message.
type RecordAuditEventResponse struct {
	Event *AuditEventMsg `json:"event"`
}

// QueryAuditEventsRequest represents the proto QueryAuditEventsRequest message.
type QueryAuditEventsRequest struct {
	From        string `json:"from"`
	To          string `json:"to"`
	ActorID     string `json:"actor_id"`
	Action      string `json:"action"`
	Service     string `json:"service"`
	Tag         string `json:"tag"`
	MinSeverity string `json:"min_severity"`
	Limit       int32  `json:"limit"`
}

// QueryAuditEventsResponse represents the proto QueryAuditEventsResponse message.
type QueryAuditEventsResponse struct {
	Events []*AuditEventMsg `json:"events"`
}

// VerifyAuditEventRequest represents the proto VerifyAuditEventRequest message.
type VerifyAuditEventRequest struct {
	AuditID string `json:"audit_id"`
}

// VerifyAuditEventResponse represents the proto VerifyAuditEventResponse message.
type VerifyAuditEventResponse struct {
	AuditID      string `json:"audit_id"`
	Status       string `json:"status"`
	StoredHash   string `json:"stored_hash"`
	ComputedHash string `json:"computed_hash"`
	Timestamp    string `json:"timestamp"`
	VerifiedAt   string `json:"verified_at"`
}

// GetActivityReportRequest represents the proto GetActivityReportRequest message.
type GetActivityReportRequest struct {
	From        string `json:"from"`
	To          string `json:"to"`
	Tag         string `json:"tag"`
	Service     string `json:"service"`
	MinSeverity string `json:"min_severity"`
	Limit       int32  `json:"limit"`
}

// ActorActivityMsg represents the proto ActorActivity message.
type ActorActivityMsg struct {
	ActorID string `json:"actor_id"`
	Count   int32  `json:"count"`
}

// ActivityReportMsg represents the proto ActivityReport message.
type ActivityReportMsg struct {
	TotalEvents    int32               `json:"total_events"`
	CountsByTier   map[string]int32    `json:"counts_by_tier"`
	CountsByAction map[string]int32    `json:"counts_by_action"`
	CountsByActor  map[string]int32    `json:"counts_by_actor"`
	CountsByTag    map[string]int32    `json:"counts_by_tag"`
	TopActors      []*ActorActivityMsg `json:"top_actors"`
	UniqueActors   int32               `json:"unique_actors"`
	Anomalies      []*AuditEventMsg    `json:"anomalies"`
	Status         string              `json:"status"`
	GeneratedAt    string              `json:"generated_at"`
}

// GetActivityReportResponse represents the proto GetActivityReportResponse message.
type GetActivityReportResponse struct {
	Report *ActivityReportMsg `json:"report"`
}
