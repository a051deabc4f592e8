package dto

import (
	"time"

	"github.com/quantsingularity/FinovaBank/internal/domain/service"
)

// LoginEventRequest is the input for login screening.
type LoginEventRequest struct {
	Record map[string]any `json:"record"`
}

// APIRequestEvent is the input for API traffic screening.
type APIRequestEvent struct {
	Record map[string]any `json:"record"`
}

// ThreatDTO describes one detected threat.
type ThreatDTO struct {
	Type        string `json:"type"`
	Description string `json:"description"`
	Severity    string `json:"severity"`
	RiskPoints  int    `json:"risk_points"`
}

func fromThreats(threats []service.Threat) []ThreatDTO {
	out := make([]ThreatDTO, 0, len(threats))
	for _, t := range threats {
		out = append(out, ThreatDTO{
			Type:        t.Type,
			Description: t.Description,
			Severity:    t.Severity.String(),
			RiskPoints:  t.RiskPoints,
		})
	}
	return out
}

// LoginAnalysisResponse is the output of login screening.
type LoginAnalysisResponse struct {
	EventID         string      `json:"event_id"`
	Username        string      `json:"username"`
	IPAddress       string      `json:"ip_address"`
	RiskScore       int         `json:"risk_score"`
	RiskLevel       string      `json:"risk_level"`
	Action          string      `json:"action"`
	Threats         []ThreatDTO `json:"threats"`
	Recommendations []string    `json:"recommendations"`
	Blocked         bool        `json:"blocked"`
	ComputedAt      time.Time   `json:"computed_at"`
}

// FromLoginAnalysis maps the domain result to the response DTO.
func FromLoginAnalysis(r service.LoginAnalysis) LoginAnalysisResponse {
	return LoginAnalysisResponse{
		EventID:         r.EventID.String(),
		Username:        r.Username,
		IPAddress:       r.IPAddress,
		RiskScore:       r.RiskScore,
		RiskLevel:       r.RiskLevel,
		Action:          r.Action,
		Threats:         fromThreats(r.Threats),
		Recommendations: r.Recommendations,
		Blocked:         r.Blocked,
		ComputedAt:      r.ComputedAt,
	}
}

// APIAssessmentResponse is the output of API traffic screening.
type APIAssessmentResponse struct {
	Endpoint   string      `json:"endpoint"`
	IPAddress  string      `json:"ip_address"`
	RiskScore  int         `json:"risk_score"`
	RiskLevel  string      `json:"risk_level"`
	Threats    []ThreatDTO `json:"threats"`
	ComputedAt time.Time   `json:"computed_at"`
}

// FromAPIAssessment maps the domain result to the response DTO.
func FromAPIAssessment(r service.APIAssessment) APIAssessmentResponse {
	return APIAssessmentResponse{
		Endpoint:   r.Endpoint,
		IPAddress:  r.IPAddress,
		RiskScore:  r.RiskScore,
		RiskLevel:  r.RiskLevel,
		Threats:    fromThreats(r.Threats),
		ComputedAt: r.ComputedAt,
	}
}

// SecurityReportRequest selects the trailing window for a posture report.
type SecurityReportRequest struct {
	PeriodHours int `json:"period_hours"`
}

// ThreatSourceDTO is one ranked threat source.
type ThreatSourceDTO struct {
	IPAddress string `json:"ip_address"`
	Threats   int    `json:"threats"`
}

// SecurityReportResponse is the posture report output.
type SecurityReportResponse struct {
	PeriodHours     int               `json:"period_hours"`
	TotalEvents     int               `json:"total_events"`
	ThreatEvents    int               `json:"threat_events"`
	BlockedAttempts int               `json:"blocked_attempts"`
	UniqueThreatIPs int               `json:"unique_threat_ips"`
	ThreatTypes     map[string]int    `json:"threat_types"`
	RiskLevels      map[string]int    `json:"risk_levels"`
	TopSources      []ThreatSourceDTO `json:"top_sources"`
	OverallRisk     string            `json:"overall_risk"`
	BlockedIPs      []string          `json:"blocked_ips"`
	GeneratedAt     time.Time         `json:"generated_at"`
}

// FromSecurityReport maps the domain report to the response DTO.
func FromSecurityReport(r service.SecurityReport) SecurityReportResponse {
	sources := make([]ThreatSourceDTO, 0, len(r.TopSources))
	for _, s := range r.TopSources {
		sources = append(sources, ThreatSourceDTO{IPAddress: s.IPAddress, Threats: s.Threats})
	}
	return SecurityReportResponse{
		PeriodHours:     r.PeriodHours,
		TotalEvents:     r.TotalEvents,
		ThreatEvents:    r.ThreatEvents,
		BlockedAttempts: r.BlockedAttempts,
		UniqueThreatIPs: r.UniqueThreatIPs,
		ThreatTypes:     r.ThreatTypes,
		RiskLevels:      r.RiskLevels,
		TopSources:      sources,
		OverallRisk:     r.OverallRisk,
		BlockedIPs:      r.BlockedIPs,
		GeneratedAt:     r.GeneratedAt,
	}
}

// BlocklistResponse lists the currently blocked addresses.
type BlocklistResponse struct {
	BlockedIPs []string `json:"blocked_ips"`
}

// UnblockRequest asks for one address to be removed from the blocklist.
type UnblockRequest struct {
	IPAddress string `json:"ip_address"`
	ActorID   string `json:"actor_id"`
}

// UnblockResponse reports whether the address was present.
type UnblockResponse struct {
	IPAddress string `json:"ip_address"`
	Removed   bool   `json:"removed"`
}
