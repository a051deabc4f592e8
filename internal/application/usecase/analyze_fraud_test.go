package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantsingularity/FinovaBank/internal/application/dto"
	"github.com/quantsingularity/FinovaBank/internal/application/usecase"
	"github.com/quantsingularity/FinovaBank/internal/domain/event"
	"github.com/quantsingularity/FinovaBank/internal/domain/service"
	"github.com/quantsingularity/FinovaBank/internal/infrastructure/memory"
)

func newAnalyzeFraud(t *testing.T, store *memory.AuditStore, publisher *capturePublisher) *usecase.AnalyzeFraud {
	t.Helper()
	scorer := service.NewFraudScorer(service.NewFactorExtractor(nil))
	return usecase.NewAnalyzeFraud(scorer, newLedger(t, store), publisher).
		WithClock(func() time.Time { return useCaseNow })
}

func TestAnalyzeFraud_RoutineTransactionIsRecorded(t *testing.T) {
	store := memory.NewAuditStore()
	publisher := &capturePublisher{}
	uc := newAnalyzeFraud(t, store, publisher)
	ctx := context.Background()

	resp, err := uc.Execute(ctx, dto.TransactionRequest{
		Record: map[string]any{
			"transaction_id":          "tx-001",
			"timestamp":               "2024-03-13T12:00:00Z",
			"account_created_date":    "2023-01-01",
			"daily_transaction_count": 1,
		},
		Amount:  decimal.NewFromInt(100),
		ActorID: "teller-4",
	})
	require.NoError(t, err)

	assert.Equal(t, "MINIMAL", resp.RiskLevel)
	assert.Equal(t, "APPROVE", resp.RecommendedAction)

	recorded, err := store.List(ctx, listAll())
	require.NoError(t, err)
	require.Len(t, recorded, 1)
	assert.Equal(t, usecase.FraudServiceName, recorded[0].Service())
	assert.Equal(t, "fraud_analysis", recorded[0].Action())
	assert.Equal(t, "tx-001", recorded[0].ResourceID())

	require.Len(t, publisher.published, 1)
	assert.Equal(t, event.EventTypeDecisionRecorded, publisher.published[0].EventType())
}

func TestAnalyzeFraud_HighRiskRaisesAlertEvent(t *testing.T) {
	store := memory.NewAuditStore()
	publisher := &capturePublisher{}
	uc := newAnalyzeFraud(t, store, publisher)

	_, err := uc.Execute(context.Background(), dto.TransactionRequest{
		Record: map[string]any{
			"transaction_id":           "tx-002",
			"timestamp":                "2024-03-13T12:00:00Z",
			"account_created_date":     "2023-01-01",
			"daily_transaction_count":  15,
			"daily_transaction_amount": 25000.0,
			"country":                  "RU",
		},
		Amount:  decimal.NewFromInt(12000),
		ActorID: "teller-4",
	})
	require.NoError(t, err)

	require.Len(t, publisher.published, 2)
	assert.Equal(t, event.EventTypeDecisionRecorded, publisher.published[0].EventType())
	assert.Equal(t, event.EventTypeHighRiskDetected, publisher.published[1].EventType())
}

func TestAnalyzeFraud_BatchRecordsOneSummaryEvent(t *testing.T) {
	store := memory.NewAuditStore()
	uc := newAnalyzeFraud(t, store, &capturePublisher{})
	ctx := context.Background()

	resp, err := uc.ExecuteBatch(ctx, dto.BatchFraudRequest{
		BatchID: "batch-7",
		Transactions: []map[string]any{
			{"transaction_id": "tx-010", "amount": 100.0, "timestamp": "2024-03-13T12:00:00Z", "account_created_date": "2023-01-01"},
			{"transaction_id": "tx-011", "amount": 12000.0, "timestamp": "2024-03-13T12:00:00Z", "account_created_date": "2023-01-01", "country": "DE"},
		},
		ActorID: "analyst-2",
	})
	require.NoError(t, err)

	assert.Equal(t, "batch-7", resp.BatchID)
	assert.Equal(t, 2, resp.TotalTransactions)

	recorded, err := store.List(ctx, listAll())
	require.NoError(t, err)
	require.Len(t, recorded, 1)
	assert.Equal(t, "transaction_batch", recorded[0].Resource())
	assert.Equal(t, 2, recorded[0].Payload()["total_transactions"])
}

func TestAnalyzeFraud_EmptyBatchIsAnError(t *testing.T) {
	uc := newAnalyzeFraud(t, memory.NewAuditStore(), &capturePublisher{})

	_, err := uc.ExecuteBatch(context.Background(), dto.BatchFraudRequest{BatchID: "batch-8"})
	assert.Error(t, err)
}
