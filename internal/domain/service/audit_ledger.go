package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/quantsingularity/FinovaBank/internal/domain/model"
	"github.com/quantsingularity/FinovaBank/internal/domain/port"
	"github.com/quantsingularity/FinovaBank/internal/domain/valueobject"
)

// defaultQueryLimit caps query results when the caller does not bound
// them, so responses never grow without limit.
const defaultQueryLimit = 100

// maskedPlaceholder replaces sensitive values too short to keep a
// recognizable suffix.
const maskedPlaceholder = "***MASKED***"

// EventDraft is the caller-supplied input to Ledger.Append. The ledger
// sanitizes, hashes and classifies it into an immutable AuditEvent;
// the draft itself is never stored.
type EventDraft struct {
	EventType    string
	ActorID      string
	SessionID    string
	IPAddress    string
	UserAgent    string
	Service      string
	Action       string
	Resource     string
	ResourceID   string
	Status       string
	ErrorMessage string
	RiskLevel    valueobject.Severity
	Data         map[string]any
	// Timestamp defaults to the append time when zero.
	Timestamp time.Time
}

// SanitizePolicy is the configurable list of sensitive field names.
// Matching is case-insensitive on the exact field name.
type SanitizePolicy struct {
	sensitive map[string]bool
}

// NewSanitizePolicy builds a policy from the configured field names.
func NewSanitizePolicy(fieldNames []string) SanitizePolicy {
	sensitive := make(map[string]bool, len(fieldNames))
	for _, name := range fieldNames {
		sensitive[strings.ToLower(name)] = true
	}
	return SanitizePolicy{sensitive: sensitive}
}

// Sanitize returns a copy of data with sensitive values masked. String
// values longer than 4 characters keep exactly their trailing 4
// characters behind a run of asterisks; anything shorter, and any
// non-string sensitive value, is fully masked.
func (p SanitizePolicy) Sanitize(data map[string]any) map[string]any {
	sanitized := make(map[string]any, len(data))
	for key, value := range data {
		if !p.sensitive[strings.ToLower(key)] {
			sanitized[key] = value
			continue
		}
		if s, isString := value.(string); isString && len(s) > 4 {
			sanitized[key] = strings.Repeat("*", len(s)-4) + s[len(s)-4:]
		} else {
			sanitized[key] = maskedPlaceholder
		}
	}
	return sanitized
}

// ClassifierRule tags events matching an action, service or resource
// pattern with a regulatory classification and its retention period.
type ClassifierRule struct {
	Tag            string
	RetentionYears int
	Actions        []string
	Services       []string
	// ResourceContains matches case-insensitively on a substring of
	// the event's resource name.
	ResourceContains string
}

// Classifier derives classification tags and the retention period for
// an event from a declarative rule table. When several rules apply,
// every matching tag is kept and the LONGEST applicable retention
// period wins; the rule order never decides retention.
type Classifier struct {
	rules            []ClassifierRule
	defaultRetention int
}

// NewClassifier validates and builds a classifier.
func NewClassifier(rules []ClassifierRule, defaultRetentionYears int) (Classifier, error) {
	if defaultRetentionYears <= 0 {
		return Classifier{}, fmt.Errorf("default retention must be positive, got %d", defaultRetentionYears)
	}
	seen := make(map[string]bool, len(rules))
	for _, r := range rules {
		if r.Tag == "" {
			return Classifier{}, fmt.Errorf("classifier rule without a tag")
		}
		if seen[r.Tag] {
			return Classifier{}, fmt.Errorf("duplicate classifier tag %q", r.Tag)
		}
		seen[r.Tag] = true
		if r.RetentionYears <= 0 {
			return Classifier{}, fmt.Errorf("classifier tag %q retention must be positive", r.Tag)
		}
	}
	return Classifier{
		rules:            append([]ClassifierRule(nil), rules...),
		defaultRetention: defaultRetentionYears,
	}, nil
}

// Classify returns the tags of every matching rule and the longest
// applicable retention period (the default when nothing matches).
func (c Classifier) Classify(action, service, resource string) (tags []string, retentionYears int) {
	retentionYears = 0
	lowerResource := strings.ToLower(resource)
	for _, rule := range c.rules {
		if !rule.matches(action, service, lowerResource) {
			continue
		}
		tags = append(tags, rule.Tag)
		if rule.RetentionYears > retentionYears {
			retentionYears = rule.RetentionYears
		}
	}
	if retentionYears == 0 {
		retentionYears = c.defaultRetention
	}
	return tags, retentionYears
}

func (r ClassifierRule) matches(action, service, lowerResource string) bool {
	for _, a := range r.Actions {
		if a == action {
			return true
		}
	}
	for _, s := range r.Services {
		if s == service {
			return true
		}
	}
	return r.ResourceContains != "" && strings.Contains(lowerResource, strings.ToLower(r.ResourceContains))
}

// VerifyResult is the outcome of an integrity verification.
type VerifyResult struct {
	AuditID      uuid.UUID
	Status       valueobject.IntegrityStatus
	StoredHash   string
	ComputedHash string
	Timestamp    time.Time
	VerifiedAt   time.Time
}

// Ledger is the audit ledger domain service. It owns sanitization,
// hashing and classification; sequence assignment and storage belong to
// the injected store. Verification detects post-hoc tampering with a
// stored payload; it cannot detect omission of whole events, which is a
// documented limitation of a hash-per-event scheme.
type Ledger struct {
	store      port.AuditStore
	policy     SanitizePolicy
	classifier Classifier
	logger     *slog.Logger
	now        func() time.Time
}

// NewLedger creates the audit ledger service.
func NewLedger(store port.AuditStore, policy SanitizePolicy, classifier Classifier, logger *slog.Logger) *Ledger {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Ledger{
		store:      store,
		policy:     policy,
		classifier: classifier,
		logger:     logger,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// WithClock overrides the ledger's clock. Test hook.
func (l *Ledger) WithClock(now func() time.Time) *Ledger {
	l.now = now
	return l
}

// Append sanitizes, hashes and classifies the draft, then hands the
// resulting event to the store, which assigns the sequence id. The
// returned event is the stored copy.
func (l *Ledger) Append(ctx context.Context, draft EventDraft) (model.AuditEvent, error) {
	timestamp := draft.Timestamp
	if timestamp.IsZero() {
		timestamp = l.now()
	}

	sanitized := l.policy.Sanitize(draft.Data)
	hash, err := CanonicalHash(sanitized)
	if err != nil {
		return model.AuditEvent{}, fmt.Errorf("hash payload: %w", err)
	}

	tags, retention := l.classifier.Classify(draft.Action, draft.Service, draft.Resource)

	evt, err := model.NewAuditEvent(
		timestamp,
		draft.ActorID, draft.SessionID, draft.IPAddress, draft.UserAgent,
		draft.Service, draft.Action, draft.Resource, draft.ResourceID,
		draft.Status, draft.ErrorMessage,
		sanitized, hash, draft.RiskLevel, tags, retention,
	)
	if err != nil {
		return model.AuditEvent{}, fmt.Errorf("build audit event: %w", err)
	}

	stored, err := l.store.Append(ctx, evt)
	if err != nil {
		return model.AuditEvent{}, fmt.Errorf("append audit event: %w", err)
	}

	if stored.RiskLevel().AtLeast(valueobject.SeverityHigh) {
		l.logger.Warn("high-risk audit event recorded",
			"action", stored.Action(),
			"actor_id", stored.ActorID(),
			"risk_level", stored.RiskLevel().String(),
		)
	}
	return stored, nil
}

// Query returns events matching the filter, newest first. A missing or
// non-positive limit is replaced with the default cap.
func (l *Ledger) Query(ctx context.Context, filter port.AuditFilter) ([]model.AuditEvent, error) {
	if filter.Limit <= 0 {
		filter.Limit = defaultQueryLimit
	}
	return l.store.List(ctx, filter)
}

// Verify recomputes the payload hash of a stored event and compares it
// to the hash recorded at append time. A mismatch means the stored
// payload was altered after the fact.
func (l *Ledger) Verify(ctx context.Context, id uuid.UUID) (VerifyResult, error) {
	evt, err := l.store.FindByID(ctx, id)
	if err != nil {
		if err == port.ErrEventNotFound {
			return VerifyResult{AuditID: id, Status: valueobject.IntegrityNotFound, VerifiedAt: l.now()}, nil
		}
		return VerifyResult{}, fmt.Errorf("load audit event: %w", err)
	}

	computed, err := CanonicalHash(evt.Payload())
	if err != nil {
		return VerifyResult{}, fmt.Errorf("recompute payload hash: %w", err)
	}

	status := valueobject.IntegrityVerified
	if computed != evt.PayloadHash() {
		status = valueobject.IntegrityCompromised
		l.logger.Error("audit event integrity check failed",
			"audit_id", id.String(),
			"stored_hash", evt.PayloadHash(),
			"computed_hash", computed,
		)
	}

	return VerifyResult{
		AuditID:      id,
		Status:       status,
		StoredHash:   evt.PayloadHash(),
		ComputedHash: computed,
		Timestamp:    evt.Timestamp(),
		VerifiedAt:   l.now(),
	}, nil
}

// CanonicalHash computes the SHA-256 hex digest of the payload's
// canonical JSON form. encoding/json marshals map keys in sorted order
// at every nesting level, so the digest is independent of map iteration
// order.
func CanonicalHash(payload map[string]any) (string, error) {
	canonical, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal payload: %w", err)
	}
	digest := sha256.Sum256(canonical)
	return hex.EncodeToString(digest[:]), nil
}
