package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTimingDelay_WaitFrom_PadsToBaseDelay(t *testing.T) {
	td := NewTimingDelay(TimingConfig{BaseDelay: 100 * time.Millisecond})
	var slept time.Duration
	td.sleep = func(_ context.Context, d time.Duration) { slept = d }

	td.WaitFrom(context.Background(), time.Now())

	assert.Greater(t, slept, 90*time.Millisecond)
	assert.LessOrEqual(t, slept, 100*time.Millisecond)
}

func TestTimingDelay_WaitFrom_NoWaitIfAlreadyExceeded(t *testing.T) {
	td := NewTimingDelay(TimingConfig{BaseDelay: 50 * time.Millisecond})
	called := false
	td.sleep = func(context.Context, time.Duration) { called = true }

	td.WaitFrom(context.Background(), time.Now().Add(-time.Second))

	assert.False(t, called)
}

func TestTimingDelay_WaitFrom_JitterBounded(t *testing.T) {
	td := NewTimingDelay(TimingConfig{BaseDelay: 10 * time.Millisecond, RandomDelay: 20 * time.Millisecond})
	var slept time.Duration
	td.sleep = func(_ context.Context, d time.Duration) { slept = d }

	for i := 0; i < 20; i++ {
		td.WaitFrom(context.Background(), time.Now())
		assert.Less(t, slept, 30*time.Millisecond)
	}
}

func TestTimingDelay_NilIsNoop(t *testing.T) {
	var td *TimingDelay
	assert.NotPanics(t, func() { td.WaitFrom(context.Background(), time.Now()) })
}

func TestSleepCtx_ReturnsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	sleepCtx(ctx, time.Minute)
	assert.Less(t, time.Since(start), time.Second)
}
