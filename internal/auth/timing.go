package auth

import (
	"context"
	"crypto/rand"
	"math/big"
	"time"
)

// TimingConfig describes the padding applied to rejected logins
type TimingConfig struct {
	BaseDelay   time.Duration
	RandomDelay time.Duration
}

// TimingDelay pads rejected login attempts to a minimum duration so that
// an unknown email and a wrong password take a similar amount of time.
type TimingDelay struct {
	config TimingConfig
	sleep  func(ctx context.Context, d time.Duration)
}

func NewTimingDelay(config TimingConfig) *TimingDelay {
	return &TimingDelay{config: config, sleep: sleepCtx}
}

// WaitFrom blocks until at least the configured delay has passed since start,
// or ctx is done.
func (td *TimingDelay) WaitFrom(ctx context.Context, start time.Time) {
	if td == nil {
		return
	}

	target := td.config.BaseDelay + td.jitter()
	if remaining := target - time.Since(start); remaining > 0 {
		td.sleep(ctx, remaining)
	}
}

func (td *TimingDelay) jitter() time.Duration {
	if td.config.RandomDelay <= 0 {
		return 0
	}
	n, err := rand.Int(rand.Reader, big.NewInt(int64(td.config.RandomDelay)))
	if err != nil {
		return 0
	}
	return time.Duration(n.Int64())
}

func sleepCtx(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
	case <-ctx.Done():
	}
}
