package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantsingularity/FinovaBank/internal/domain/model"
	"github.com/quantsingularity/FinovaBank/internal/domain/port"
	"github.com/quantsingularity/FinovaBank/internal/domain/service"
	"github.com/quantsingularity/FinovaBank/internal/domain/valueobject"
	"github.com/quantsingularity/FinovaBank/internal/infrastructure/memory"
)

var ledgerNow = time.Date(2024, 3, 13, 12, 0, 0, 0, time.UTC)

func newTestLedger(t *testing.T, store *memory.AuditStore) *service.Ledger {
	t.Helper()
	classifier, err := service.NewClassifier([]service.ClassifierRule{
		{Tag: "PCI", RetentionYears: 3, ResourceContains: "payment"},
		{Tag: "SOX", RetentionYears: 7, Actions: []string{"financial_transaction"}},
	}, 5)
	require.NoError(t, err)

	policy := service.NewSanitizePolicy([]string{"password", "ssn", "account_number"})
	return service.NewLedger(store, policy, classifier, nil).
		WithClock(func() time.Time { return ledgerNow })
}

func TestSanitizePolicy_MasksSensitiveFields(t *testing.T) {
	policy := service.NewSanitizePolicy([]string{"password", "ssn"})

	sanitized := policy.Sanitize(map[string]any{
		"password": "supersecret",
		"ssn":      123456789,
		"pin":      "1234",
		"user":     "bob",
	})

	// Long strings keep their trailing four characters.
	assert.Equal(t, "*******cret", sanitized["password"])
	// Non-string sensitive values are fully masked.
	assert.Equal(t, "***MASKED***", sanitized["ssn"])
	// Fields not in the policy pass through untouched.
	assert.Equal(t, "1234", sanitized["pin"])
	assert.Equal(t, "bob", sanitized["user"])
}

func TestSanitizePolicy_ShortStringsFullyMasked(t *testing.T) {
	policy := service.NewSanitizePolicy([]string{"password"})

	sanitized := policy.Sanitize(map[string]any{"password": "abcd"})
	assert.Equal(t, "***MASKED***", sanitized["password"])
}

func TestSanitizePolicy_MatchingIsCaseInsensitive(t *testing.T) {
	policy := service.NewSanitizePolicy([]string{"Password"})

	sanitized := policy.Sanitize(map[string]any{"PASSWORD": "supersecret"})
	assert.Equal(t, "*******cret", sanitized["PASSWORD"])
}

func TestClassifier_AllMatchingTagsKeptLongestRetentionWins(t *testing.T) {
	// PCI (3y) is declared before SOX (7y): rule order never decides
	// retention.
	classifier, err := service.NewClassifier([]service.ClassifierRule{
		{Tag: "PCI", RetentionYears: 3, ResourceContains: "payment"},
		{Tag: "SOX", RetentionYears: 7, Actions: []string{"financial_transaction"}},
	}, 5)
	require.NoError(t, err)

	tags, retention := classifier.Classify("financial_transaction", "", "payment-instruction")
	assert.ElementsMatch(t, []string{"PCI", "SOX"}, tags)
	assert.Equal(t, 7, retention)
}

func TestClassifier_NoMatchUsesDefaultRetention(t *testing.T) {
	classifier, err := service.NewClassifier(nil, 5)
	require.NoError(t, err)

	tags, retention := classifier.Classify("login", "auth", "session")
	assert.Empty(t, tags)
	assert.Equal(t, 5, retention)
}

func TestNewClassifier_Validation(t *testing.T) {
	_, err := service.NewClassifier(nil, 0)
	assert.ErrorContains(t, err, "retention")

	_, err = service.NewClassifier([]service.ClassifierRule{
		{Tag: "A", RetentionYears: 1},
		{Tag: "A", RetentionYears: 2},
	}, 5)
	assert.ErrorContains(t, err, "duplicate")
}

func TestCanonicalHash_IndependentOfInsertionOrder(t *testing.T) {
	first := map[string]any{"a": 1, "b": map[string]any{"x": true, "y": "z"}}
	second := map[string]any{"b": map[string]any{"y": "z", "x": true}, "a": 1}

	h1, err := service.CanonicalHash(first)
	require.NoError(t, err)
	h2, err := service.CanonicalHash(second)
	require.NoError(t, err)

	assert.Equal(t, h1, h2)
}

func TestCanonicalHash_DiffersForDifferentPayloads(t *testing.T) {
	h1, err := service.CanonicalHash(map[string]any{"amount": 100})
	require.NoError(t, err)
	h2, err := service.CanonicalHash(map[string]any{"amount": 101})
	require.NoError(t, err)

	assert.NotEqual(t, h1, h2)
}

func TestLedger_AppendSanitizesClassifiesAndStamps(t *testing.T) {
	store := memory.NewAuditStore()
	ledger := newTestLedger(t, store)

	stored, err := ledger.Append(context.Background(), service.EventDraft{
		EventType: "transaction_recorded",
		ActorID:   "user-1",
		Service:   "transaction-service",
		Action:    "financial_transaction",
		Resource:  "payment-instruction",
		Data: map[string]any{
			"amount":         2500,
			"account_number": "9876543210",
		},
	})
	require.NoError(t, err)

	assert.Equal(t, uint64(1), stored.SequenceID())
	assert.Equal(t, ledgerNow, stored.Timestamp())
	assert.Equal(t, "******3210", stored.Payload()["account_number"])
	assert.ElementsMatch(t, []string{"PCI", "SOX"}, stored.Tags())
	assert.Equal(t, 7, stored.RetentionYears())
	assert.True(t, stored.RiskLevel().Equal(valueobject.SeverityLow))
	assert.Equal(t, "SUCCESS", stored.Status())
	assert.NotEmpty(t, stored.PayloadHash())
}

func TestLedger_AppendKeepsExplicitTimestamp(t *testing.T) {
	store := memory.NewAuditStore()
	ledger := newTestLedger(t, store)

	explicit := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)
	stored, err := ledger.Append(context.Background(), service.EventDraft{
		Action:    "login",
		Timestamp: explicit,
	})
	require.NoError(t, err)

	assert.Equal(t, explicit, stored.Timestamp())
}

func TestLedger_VerifyIntactEvent(t *testing.T) {
	store := memory.NewAuditStore()
	ledger := newTestLedger(t, store)

	stored, err := ledger.Append(context.Background(), service.EventDraft{
		Action: "credit_score",
		Data:   map[string]any{"score": 720},
	})
	require.NoError(t, err)

	result, err := ledger.Verify(context.Background(), stored.ID())
	require.NoError(t, err)

	assert.True(t, result.Status.Equal(valueobject.IntegrityVerified))
	assert.Equal(t, result.StoredHash, result.ComputedHash)
	assert.Equal(t, stored.ID(), result.AuditID)
}

func TestLedger_VerifyDetectsTamperedPayload(t *testing.T) {
	store := memory.NewAuditStore()
	ledger := newTestLedger(t, store)

	// An event whose stored hash does not cover its payload, as if the
	// payload had been altered after the append.
	tampered := model.Reconstruct(
		0, uuid.New(), ledgerNow,
		"user-1", "", "", "",
		"risk-assessment", "credit_score", "credit_application", "",
		"SUCCESS", "",
		map[string]any{"score": 9999},
		"0000000000000000000000000000000000000000000000000000000000000000",
		valueobject.SeverityLow, nil, 5,
	)
	_, err := store.Append(context.Background(), tampered)
	require.NoError(t, err)

	result, err := ledger.Verify(context.Background(), tampered.ID())
	require.NoError(t, err)

	assert.True(t, result.Status.Equal(valueobject.IntegrityCompromised))
	assert.NotEqual(t, result.StoredHash, result.ComputedHash)
}

func TestLedger_VerifyUnknownEvent(t *testing.T) {
	store := memory.NewAuditStore()
	ledger := newTestLedger(t, store)

	result, err := ledger.Verify(context.Background(), uuid.New())
	require.NoError(t, err)

	assert.True(t, result.Status.Equal(valueobject.IntegrityNotFound))
}

func TestLedger_QueryAppliesDefaultLimit(t *testing.T) {
	store := memory.NewAuditStore()
	ledger := newTestLedger(t, store)

	for i := 0; i < 3; i++ {
		_, err := ledger.Append(context.Background(), service.EventDraft{Action: "login"})
		require.NoError(t, err)
	}

	events, err := ledger.Query(context.Background(), port.AuditFilter{})
	require.NoError(t, err)

	require.Len(t, events, 3)
	// Newest first.
	assert.Equal(t, uint64(3), events[0].SequenceID())
	assert.Equal(t, uint64(1), events[2].SequenceID())
}
