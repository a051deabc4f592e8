package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/quantsingularity/FinovaBank/internal/domain/port"
	"github.com/quantsingularity/FinovaBank/internal/domain/valueobject"
)

// Injection patterns are matched against every string-valued request
// parameter. SQL patterns run against the upper-cased value.
var (
	sqlInjectionPatterns = []*regexp.Regexp{
		regexp.MustCompile(`\b(SELECT|INSERT|UPDATE|DELETE|DROP|CREATE|ALTER)\b`),
		regexp.MustCompile(`\b(UNION|OR|AND)\b.*\b(SELECT|INSERT|UPDATE|DELETE)\b`),
		regexp.MustCompile(`('|"|;|--|\*|/\*|\*/)`),
		regexp.MustCompile(`\b(EXEC|EXECUTE|SP_|XP_)\b`),
	}
	xssPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)<script[^>]*>.*?</script>`),
		regexp.MustCompile(`(?i)javascript:`),
		regexp.MustCompile(`(?i)on\w+\s*=`),
		regexp.MustCompile(`(?i)<iframe[^>]*>`),
		regexp.MustCompile(`(?i)<object[^>]*>`),
		regexp.MustCompile(`(?i)<embed[^>]*>`),
	}
)

// APIAssessment is the outcome of screening one API request.
type APIAssessment struct {
	Endpoint   string
	IPAddress  string
	RiskScore  int
	RiskLevel  string
	Threats    []Threat
	ComputedAt time.Time
}

// APIMonitor screens API traffic for rate abuse, injection attempts,
// and sensitive endpoint access.
type APIMonitor struct {
	window port.ActivityWindow
	policy SecurityPolicy
	logger *slog.Logger
}

// NewAPIMonitor creates a new APIMonitor.
func NewAPIMonitor(window port.ActivityWindow, policy SecurityPolicy, logger *slog.Logger) (*APIMonitor, error) {
	if window == nil {
		return nil, fmt.Errorf("activity window is required")
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &APIMonitor{window: window, policy: policy, logger: logger}, nil
}

// Monitor screens one API request record. The request is recorded in
// the activity window after screening, so it does not count toward its
// own rate check.
func (m *APIMonitor) Monitor(ctx context.Context, rec Record, now time.Time) (APIAssessment, error) {
	if rec == nil {
		return APIAssessment{}, fmt.Errorf("api request record is required")
	}

	endpoint := stringAt(rec, "endpoint")
	ip := stringAt(rec, "ip_address")
	responseCode := 200
	if v, ok := numericAt(rec, "response_code"); ok {
		responseCode = int(v)
	}

	var threats []Threat
	score := 0

	requests, err := m.window.CountRequests(ctx, ip, now.Add(-time.Minute))
	if err != nil {
		return APIAssessment{}, fmt.Errorf("count requests: %w", err)
	}
	if requests > m.policy.MaxRequestsPerMinute {
		threats = append(threats, Threat{
			Type:        ThreatRateLimit,
			Description: fmt.Sprintf("IP %s exceeded rate limit: %d requests/minute", ip, requests),
			Severity:    valueobject.SeverityHigh,
			RiskPoints:  25,
		})
		score += 25
	}

	params := parameterValues(rec)
	if matchesAny(params, sqlInjectionPatterns, strings.ToUpper) {
		threats = append(threats, Threat{
			Type:        ThreatSQLInjection,
			Description: "Potential SQL injection detected in request parameters",
			Severity:    valueobject.SeverityCritical,
			RiskPoints:  40,
		})
		score += 40
	}
	if matchesAny(params, xssPatterns, nil) {
		threats = append(threats, Threat{
			Type:        ThreatXSS,
			Description: "Potential XSS attack detected in request parameters",
			Severity:    valueobject.SeverityHigh,
			RiskPoints:  30,
		})
		score += 30
	}

	if responseCode == 401 || responseCode == 403 {
		threats = append(threats, Threat{
			Type:        ThreatUnauthorized,
			Description: fmt.Sprintf("Unauthorized access attempt to %s", endpoint),
			Severity:    valueobject.SeverityMedium,
			RiskPoints:  15,
		})
		score += 15
	}

	if m.isSensitiveEndpoint(endpoint) {
		threats = append(threats, Threat{
			Type:        ThreatSensitiveEndpoint,
			Description: fmt.Sprintf("Access to sensitive endpoint: %s", endpoint),
			Severity:    valueobject.SeverityMedium,
			RiskPoints:  10,
		})
		score += 10
	}

	if err := m.window.RecordRequest(ctx, ip, now); err != nil {
		return APIAssessment{}, fmt.Errorf("record request: %w", err)
	}

	tier, _ := securityTiers.Map(float64(score))
	return APIAssessment{
		Endpoint:   endpoint,
		IPAddress:  ip,
		RiskScore:  score,
		RiskLevel:  tier.Name(),
		Threats:    threats,
		ComputedAt: now,
	}, nil
}

func (m *APIMonitor) isSensitiveEndpoint(endpoint string) bool {
	lower := strings.ToLower(endpoint)
	for _, pattern := range m.policy.SensitiveEndpoints {
		if strings.Contains(lower, pattern) {
			return true
		}
	}
	return false
}

// parameterValues collects the string values of the request's
// parameters map.
func parameterValues(rec Record) []string {
	raw, ok := rec.Lookup("parameters")
	if !ok {
		return nil
	}
	params, isMap := raw.(map[string]any)
	if !isMap {
		return nil
	}
	values := make([]string, 0, len(params))
	for _, v := range params {
		if str, isStr := v.(string); isStr {
			values = append(values, str)
		}
	}
	return values
}

func matchesAny(values []string, patterns []*regexp.Regexp, normalize func(string) string) bool {
	for _, v := range values {
		if normalize != nil {
			v = normalize(v)
		}
		for _, re := range patterns {
			if re.MatchString(v) {
				return true
			}
		}
	}
	return false
}
