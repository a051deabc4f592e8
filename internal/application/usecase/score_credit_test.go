package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantsingularity/FinovaBank/internal/application/dto"
	"github.com/quantsingularity/FinovaBank/internal/application/usecase"
	"github.com/quantsingularity/FinovaBank/internal/domain/event"
	"github.com/quantsingularity/FinovaBank/internal/domain/service"
	"github.com/quantsingularity/FinovaBank/internal/domain/valueobject"
	"github.com/quantsingularity/FinovaBank/internal/infrastructure/memory"
)

func newScoreCredit(t *testing.T, store *memory.AuditStore, publisher *capturePublisher) *usecase.ScoreCredit {
	t.Helper()
	scorer := service.NewCreditScorer(service.NewFactorExtractor(nil), service.NewScoreEngine(nil))
	return usecase.NewScoreCredit(scorer, newLedger(t, store), publisher).
		WithClock(func() time.Time { return useCaseNow })
}

func TestScoreCredit_RecordsDecisionAndPublishes(t *testing.T) {
	store := memory.NewAuditStore()
	publisher := &capturePublisher{}
	uc := newScoreCredit(t, store, publisher)
	ctx := context.Background()

	resp, err := uc.Execute(ctx, dto.ScoreRequest{
		Record:    creditApplication(),
		ActorID:   "underwriter-7",
		SessionID: "sess-1",
		IPAddress: "203.0.113.9",
	})
	require.NoError(t, err)

	assert.Equal(t, 708, resp.CreditScore)
	assert.Equal(t, "Good", resp.Grade)
	assert.Equal(t, "APPROVE", resp.RecommendedAction)
	require.NotEmpty(t, resp.AuditID)

	id, err := uuid.Parse(resp.AuditID)
	require.NoError(t, err)
	stored, err := store.FindByID(ctx, id)
	require.NoError(t, err)

	assert.Equal(t, usecase.RiskServiceName, stored.Service())
	assert.Equal(t, "credit_score", stored.Action())
	assert.Equal(t, "underwriter-7", stored.ActorID())
	assert.True(t, stored.RiskLevel().Equal(valueobject.SeverityLow))
	assert.Equal(t, 708, stored.Payload()["credit_score"])

	require.Len(t, publisher.published, 1)
	assert.Equal(t, event.EventTypeDecisionRecorded, publisher.published[0].EventType())
	assert.Equal(t, id, publisher.published[0].AggregateID())
}

func TestScoreCredit_DeclineIsRecordedHighRisk(t *testing.T) {
	store := memory.NewAuditStore()
	uc := newScoreCredit(t, store, &capturePublisher{})
	ctx := context.Background()

	// An empty application scores 520, grade Poor.
	resp, err := uc.Execute(ctx, dto.ScoreRequest{Record: map[string]any{}, ActorID: "underwriter-7"})
	require.NoError(t, err)
	assert.Equal(t, "DECLINE", resp.RecommendedAction)

	id, err := uuid.Parse(resp.AuditID)
	require.NoError(t, err)
	stored, err := store.FindByID(ctx, id)
	require.NoError(t, err)
	assert.True(t, stored.RiskLevel().Equal(valueobject.SeverityHigh))
}

func TestScoreCredit_NilRecordIsAnError(t *testing.T) {
	store := memory.NewAuditStore()
	uc := newScoreCredit(t, store, &capturePublisher{})

	_, err := uc.Execute(context.Background(), dto.ScoreRequest{})
	assert.Error(t, err)

	events, err := store.List(context.Background(), listAll())
	require.NoError(t, err)
	assert.Empty(t, events)
}
