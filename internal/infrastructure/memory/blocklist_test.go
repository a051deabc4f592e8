package memory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantsingularity/FinovaBank/internal/infrastructure/memory"
)

func TestBlocklist_BlockAndCheck(t *testing.T) {
	blocklist := memory.NewBlocklist()
	ctx := context.Background()

	blocked, err := blocklist.IsBlocked(ctx, "203.0.113.1")
	require.NoError(t, err)
	assert.False(t, blocked)

	require.NoError(t, blocklist.Block(ctx, "203.0.113.1"))

	blocked, err = blocklist.IsBlocked(ctx, "203.0.113.1")
	require.NoError(t, err)
	assert.True(t, blocked)
}

func TestBlocklist_BlockingTwiceIsANoOp(t *testing.T) {
	blocklist := memory.NewBlocklist()
	ctx := context.Background()

	require.NoError(t, blocklist.Block(ctx, "203.0.113.1"))
	require.NoError(t, blocklist.Block(ctx, "203.0.113.1"))

	ips, err := blocklist.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"203.0.113.1"}, ips)
}

func TestBlocklist_UnblockReportsPresence(t *testing.T) {
	blocklist := memory.NewBlocklist()
	ctx := context.Background()

	require.NoError(t, blocklist.Block(ctx, "203.0.113.1"))

	present, err := blocklist.Unblock(ctx, "203.0.113.1")
	require.NoError(t, err)
	assert.True(t, present)

	present, err = blocklist.Unblock(ctx, "203.0.113.1")
	require.NoError(t, err)
	assert.False(t, present)

	blocked, err := blocklist.IsBlocked(ctx, "203.0.113.1")
	require.NoError(t, err)
	assert.False(t, blocked)
}

func TestBlocklist_SnapshotIsACopy(t *testing.T) {
	blocklist := memory.NewBlocklist()
	ctx := context.Background()

	require.NoError(t, blocklist.Block(ctx, "203.0.113.1"))

	ips, err := blocklist.Snapshot(ctx)
	require.NoError(t, err)
	ips[0] = "mutated"

	blocked, err := blocklist.IsBlocked(ctx, "203.0.113.1")
	require.NoError(t, err)
	assert.True(t, blocked)
}
