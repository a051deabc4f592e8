package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantsingularity/FinovaBank/internal/infrastructure/memory"
)

var windowNow = time.Date(2024, 3, 13, 12, 0, 0, 0, time.UTC)

func TestActivityWindow_CountsFailedLoginsSinceCutoff(t *testing.T) {
	window := memory.NewActivityWindow()
	ctx := context.Background()

	require.NoError(t, window.RecordFailedLogin(ctx, "alice", "203.0.113.1", windowNow.Add(-20*time.Minute)))
	require.NoError(t, window.RecordFailedLogin(ctx, "alice", "203.0.113.1", windowNow.Add(-10*time.Minute)))
	require.NoError(t, window.RecordFailedLogin(ctx, "alice", "203.0.113.1", windowNow.Add(-15*time.Minute)))

	count, err := window.CountFailedLogins(ctx, "alice", "203.0.113.1", windowNow.Add(-15*time.Minute))
	require.NoError(t, err)

	// The cutoff is inclusive.
	assert.Equal(t, 2, count)
}

func TestActivityWindow_FailedLoginsAreKeyedByUserAndAddress(t *testing.T) {
	window := memory.NewActivityWindow()
	ctx := context.Background()

	require.NoError(t, window.RecordFailedLogin(ctx, "alice", "203.0.113.1", windowNow))

	count, err := window.CountFailedLogins(ctx, "alice", "203.0.113.2", windowNow.Add(-time.Hour))
	require.NoError(t, err)
	assert.Zero(t, count)

	count, err = window.CountFailedLogins(ctx, "bob", "203.0.113.1", windowNow.Add(-time.Hour))
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestActivityWindow_CountsRequestsPerAddress(t *testing.T) {
	window := memory.NewActivityWindow()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, window.RecordRequest(ctx, "203.0.113.1", windowNow.Add(time.Duration(i)*time.Second)))
	}
	require.NoError(t, window.RecordRequest(ctx, "203.0.113.2", windowNow))

	count, err := window.CountRequests(ctx, "203.0.113.1", windowNow)
	require.NoError(t, err)
	assert.Equal(t, 5, count)
}

func TestActivityWindow_OldEntriesArePrunedOnWrite(t *testing.T) {
	window := memory.NewActivityWindow()
	ctx := context.Background()

	require.NoError(t, window.RecordRequest(ctx, "203.0.113.1", windowNow.Add(-25*time.Hour)))
	require.NoError(t, window.RecordRequest(ctx, "203.0.113.1", windowNow))

	// The stale entry fell out of the 24h horizon, so even a cutoff far
	// in the past no longer sees it.
	count, err := window.CountRequests(ctx, "203.0.113.1", windowNow.Add(-48*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
