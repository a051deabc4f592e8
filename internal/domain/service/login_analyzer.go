package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/quantsingularity/FinovaBank/internal/domain/port"
	"github.com/quantsingularity/FinovaBank/internal/domain/valueobject"
)

// securityTiers serves both login and API monitoring. The tier action
// is the enforcement step for login attempts; API monitoring only uses
// the level.
var securityTiers = MustTierTable(valueobject.HigherIsWorse, []TierBound{
	{Bound: 0, Name: "LOW", Action: "ALLOW"},
	{Bound: 15, Name: "MEDIUM", Action: "MONITOR"},
	{Bound: 30, Name: "HIGH", Action: "CHALLENGE"},
	{Bound: 50, Name: "CRITICAL", Action: "BLOCK"},
})

// Threat types raised by the login and API analyzers.
const (
	ThreatBruteForce        = "BRUTE_FORCE_ATTACK"
	ThreatSuspiciousIP      = "SUSPICIOUS_IP"
	ThreatSuspiciousAgent   = "SUSPICIOUS_USER_AGENT"
	ThreatGeoAnomaly        = "GEOGRAPHIC_ANOMALY"
	ThreatTimeAnomaly       = "TIME_ANOMALY"
	ThreatRateLimit         = "RATE_LIMIT_VIOLATION"
	ThreatSQLInjection      = "SQL_INJECTION_ATTEMPT"
	ThreatXSS               = "XSS_ATTEMPT"
	ThreatUnauthorized      = "UNAUTHORIZED_ACCESS"
	ThreatSensitiveEndpoint = "SENSITIVE_ENDPOINT_ACCESS"
)

// Threat is one detected security signal with its risk contribution.
type Threat struct {
	Type        string
	Description string
	Severity    valueobject.Severity
	RiskPoints  int
}

// SecurityPolicy carries the tunable thresholds for login and API
// threat analysis. Loaded once at startup and treated as immutable.
type SecurityPolicy struct {
	MaxFailedAttempts    int
	FailedAttemptWindow  time.Duration
	MaxRequestsPerMinute int
	AllowedCountries     []string
	SuspiciousIPPatterns []string
	SuspiciousUserAgents []string
	SensitiveEndpoints   []string
}

// DefaultSecurityPolicy returns the stock policy.
func DefaultSecurityPolicy() SecurityPolicy {
	return SecurityPolicy{
		MaxFailedAttempts:    5,
		FailedAttemptWindow:  15 * time.Minute,
		MaxRequestsPerMinute: 100,
		AllowedCountries:     []string{"US", "CA", "GB", "AU"},
		SuspiciousIPPatterns: []string{`^10\.0\.0\.`, `^192\.168\.1\.`},
		SuspiciousUserAgents: []string{
			"bot", "crawler", "spider", "scraper", "automated",
			"python-requests", "curl", "wget",
		},
		SensitiveEndpoints: []string{
			"/admin/", "/api/admin/", "/management/", "/config/",
			"/settings/", "/users/", "/accounts/", "/transactions/", "/reports/",
		},
	}
}

// LoginAnalysis is the outcome of screening one login attempt.
type LoginAnalysis struct {
	EventID         uuid.UUID
	Username        string
	IPAddress       string
	RiskScore       int
	RiskLevel       string
	Action          string
	Threats         []Threat
	Recommendations []string
	Blocked         bool
	ComputedAt      time.Time
}

// LoginAnalyzer screens login attempts for brute force, suspicious
// origin, and timing anomalies. A CRITICAL score blocks the source
// address on the shared blocklist.
type LoginAnalyzer struct {
	window     port.ActivityWindow
	blocklist  port.Blocklist
	policy     SecurityPolicy
	ipPatterns []*regexp.Regexp
	logger     *slog.Logger
}

// NewLoginAnalyzer creates a new LoginAnalyzer. Invalid IP patterns in
// the policy are rejected.
func NewLoginAnalyzer(window port.ActivityWindow, blocklist port.Blocklist, policy SecurityPolicy, logger *slog.Logger) (*LoginAnalyzer, error) {
	if window == nil || blocklist == nil {
		return nil, fmt.Errorf("activity window and blocklist are required")
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	patterns := make([]*regexp.Regexp, 0, len(policy.SuspiciousIPPatterns))
	for _, p := range policy.SuspiciousIPPatterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("compile suspicious ip pattern %q: %w", p, err)
		}
		patterns = append(patterns, re)
	}
	return &LoginAnalyzer{window: window, blocklist: blocklist, policy: policy, ipPatterns: patterns, logger: logger}, nil
}

// Analyze screens one login attempt. The attempt itself is recorded in
// the activity window after screening, so the current attempt does not
// count toward its own brute force check.
func (a *LoginAnalyzer) Analyze(ctx context.Context, rec Record, now time.Time) (LoginAnalysis, error) {
	if rec == nil {
		return LoginAnalysis{}, fmt.Errorf("login record is required")
	}

	username := stringAt(rec, "username")
	ip := stringAt(rec, "ip_address")
	userAgent := stringAt(rec, "user_agent")
	success := false
	if raw, ok := rec.Lookup("success"); ok {
		success, _ = raw.(bool)
	}

	var threats []Threat
	score := 0

	failed, err := a.window.CountFailedLogins(ctx, username, ip, now.Add(-a.policy.FailedAttemptWindow))
	if err != nil {
		return LoginAnalysis{}, fmt.Errorf("count failed logins: %w", err)
	}
	if failed >= a.policy.MaxFailedAttempts {
		threats = append(threats, Threat{
			Type:        ThreatBruteForce,
			Description: fmt.Sprintf("Multiple failed login attempts detected for %s", username),
			Severity:    valueobject.SeverityHigh,
			RiskPoints:  30,
		})
		score += 30
	}

	suspicious, err := a.isSuspiciousIP(ctx, ip)
	if err != nil {
		return LoginAnalysis{}, err
	}
	if suspicious {
		threats = append(threats, Threat{
			Type:        ThreatSuspiciousIP,
			Description: fmt.Sprintf("Login attempt from suspicious IP: %s", ip),
			Severity:    valueobject.SeverityMedium,
			RiskPoints:  20,
		})
		score += 20
	}

	if a.isSuspiciousUserAgent(userAgent) {
		threats = append(threats, Threat{
			Type:        ThreatSuspiciousAgent,
			Description: "Login attempt with suspicious user agent",
			Severity:    valueobject.SeverityLow,
			RiskPoints:  10,
		})
		score += 10
	}

	if a.isGeographicAnomaly(rec) {
		threats = append(threats, Threat{
			Type:        ThreatGeoAnomaly,
			Description: "Login from unusual geographic location",
			Severity:    valueobject.SeverityMedium,
			RiskPoints:  25,
		})
		score += 25
	}

	if isAfterHours(rec, "timestamp", now) {
		threats = append(threats, Threat{
			Type:        ThreatTimeAnomaly,
			Description: "Login attempt outside normal business hours",
			Severity:    valueobject.SeverityLow,
			RiskPoints:  5,
		})
		score += 5
	}

	tier, action := securityTiers.Map(float64(score))

	blocked := false
	if action == "BLOCK" && ip != "" {
		if err := a.blocklist.Block(ctx, ip); err != nil {
			return LoginAnalysis{}, fmt.Errorf("block ip %s: %w", ip, err)
		}
		blocked = true
		a.logger.Warn("source address blocked", "ip", ip, "risk_score", score)
	}

	if !success {
		if err := a.window.RecordFailedLogin(ctx, username, ip, now); err != nil {
			return LoginAnalysis{}, fmt.Errorf("record failed login: %w", err)
		}
	}

	return LoginAnalysis{
		EventID:         uuid.New(),
		Username:        username,
		IPAddress:       ip,
		RiskScore:       score,
		RiskLevel:       tier.Name(),
		Action:          action,
		Threats:         threats,
		Recommendations: securityRecommendations(threats),
		Blocked:         blocked,
		ComputedAt:      now,
	}, nil
}

func (a *LoginAnalyzer) isSuspiciousIP(ctx context.Context, ip string) (bool, error) {
	for _, re := range a.ipPatterns {
		if re.MatchString(ip) {
			return true, nil
		}
	}
	blocked, err := a.blocklist.IsBlocked(ctx, ip)
	if err != nil {
		return false, fmt.Errorf("check blocklist: %w", err)
	}
	return blocked, nil
}

func (a *LoginAnalyzer) isSuspiciousUserAgent(userAgent string) bool {
	if userAgent == "" {
		return true
	}
	lower := strings.ToLower(userAgent)
	for _, indicator := range a.policy.SuspiciousUserAgents {
		if strings.Contains(lower, indicator) {
			return true
		}
	}
	return false
}

func (a *LoginAnalyzer) isGeographicAnomaly(rec Record) bool {
	raw, ok := rec.Lookup("location.country")
	if !ok {
		return false
	}
	country, _ := raw.(string)
	if country == "" {
		return false
	}
	for _, allowed := range a.policy.AllowedCountries {
		if country == allowed {
			return false
		}
	}
	return true
}

// securityRecommendations maps detected threat types to operator
// guidance.
func securityRecommendations(threats []Threat) []string {
	types := make(map[string]bool, len(threats))
	for _, t := range threats {
		types[t.Type] = true
	}

	var recs []string
	if types[ThreatBruteForce] {
		recs = append(recs,
			"Implement account lockout and CAPTCHA",
			"Enable multi-factor authentication")
	}
	if types[ThreatSuspiciousIP] {
		recs = append(recs,
			"Review and update IP whitelist/blacklist",
			"Implement geo-blocking for high-risk regions")
	}
	if types[ThreatGeoAnomaly] {
		recs = append(recs,
			"Require additional verification for foreign logins",
			"Notify user of login from new location")
	}
	if len(recs) == 0 {
		recs = append(recs, "Continue monitoring for suspicious activity")
	}
	return recs
}

// isAfterHours reports whether the record's timestamp falls outside the
// 06:00-22:00 business window. An absent field uses now; an unparsable
// one is not an anomaly.
func isAfterHours(rec Record, path string, now time.Time) bool {
	at := now
	if raw, ok := rec.Lookup(path); ok {
		ts, err := timeValue(raw)
		if err != nil {
			return false
		}
		at = ts
	}
	hour := at.Hour()
	return hour < 6 || hour > 22
}

func stringAt(rec Record, path string) string {
	raw, ok := rec.Lookup(path)
	if !ok {
		return ""
	}
	str, _ := raw.(string)
	return str
}
