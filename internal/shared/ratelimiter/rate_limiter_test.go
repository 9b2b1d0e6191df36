package ratelimiter

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimiter_Unlimited(t *testing.T) {
	t.Parallel()

	rl := NewRateLimiter(0, time.Minute)
	for i := 0; i < 100; i++ {
		require.NoError(t, rl.WaitIfNeeded(context.Background()))
	}
}

func TestRateLimiter_FirstCallPasses(t *testing.T) {
	t.Parallel()

	rl := NewRateLimiter(5, time.Minute)
	start := time.Now()
	require.NoError(t, rl.WaitIfNeeded(context.Background()))
	assert.Less(t, time.Since(start), 100*time.Millisecond)
}

func TestRateLimiter_WaitsForNextSlot(t *testing.T) {
	t.Parallel()

	rl := NewRateLimiter(10, time.Second) // 100ms ごと
	ctx := context.Background()
	require.NoError(t, rl.WaitIfNeeded(ctx))

	start := time.Now()
	require.NoError(t, rl.WaitIfNeeded(ctx))
	assert.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)
}

func TestRateLimiter_ContextCanceled(t *testing.T) {
	t.Parallel()

	rl := NewRateLimiter(1, time.Hour)
	require.NoError(t, rl.WaitIfNeeded(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.Error(t, rl.WaitIfNeeded(ctx))
}
