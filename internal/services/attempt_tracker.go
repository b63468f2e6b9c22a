package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/BradenHooton/frontdesk/internal/cache"
	"github.com/BradenHooton/frontdesk/internal/models"
)

// LockoutPolicy holds the thresholds and windows of the login gate
type LockoutPolicy struct {
	MaxFailedAttempts       int
	FailedWindow            time.Duration
	FailedBlockDuration     time.Duration
	MaxSuccessfulLogins     int
	SuccessWindow           time.Duration
	SuspiciousBlockDuration time.Duration
}

// DefaultLockoutPolicy returns 5 failures per 15m (1h block) and
// 5 successes per 10m (5h block).
func DefaultLockoutPolicy() LockoutPolicy {
	return LockoutPolicy{
		MaxFailedAttempts:       5,
		FailedWindow:            15 * time.Minute,
		FailedBlockDuration:     time.Hour,
		MaxSuccessfulLogins:     5,
		SuccessWindow:           10 * time.Minute,
		SuspiciousBlockDuration: 5 * time.Hour,
	}
}

func failedKey(email string) string  { return "failed:" + email }
func successKey(email string) string { return "success:" + email }
func blockedKey(email string) string { return "blocked:" + email }

// AttemptTracker keeps the per-email counters and block records in the cache
type AttemptTracker struct {
	store  cache.Store
	policy LockoutPolicy
	now    func() time.Time
}

func NewAttemptTracker(store cache.Store, policy LockoutPolicy, now func() time.Time) *AttemptTracker {
	if now == nil {
		now = time.Now
	}
	return &AttemptTracker{store: store, policy: policy, now: now}
}

func (t *AttemptTracker) Policy() LockoutPolicy {
	return t.policy
}

// ActiveBlock returns the block record for email if one exists and has not
// passed its blockedUntil. A record the cache still holds after its expiry
// is ignored.
func (t *AttemptTracker) ActiveBlock(ctx context.Context, email string) (*models.BlockRecord, error) {
	raw, err := t.store.Get(ctx, blockedKey(email))
	if errors.Is(err, cache.ErrMiss) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read block record: %w", err)
	}

	var rec models.BlockRecord
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		return nil, fmt.Errorf("decode block record: %w", err)
	}
	if !rec.Active(t.now()) {
		return nil, nil
	}
	return &rec, nil
}

// RecordFailure increments the failure counter, restarts its window and
// returns the new count.
func (t *AttemptTracker) RecordFailure(ctx context.Context, email string) (int64, error) {
	return t.bump(ctx, failedKey(email), t.policy.FailedWindow)
}

// SuccessCount returns the successes recorded in the current window
func (t *AttemptTracker) SuccessCount(ctx context.Context, email string) (int64, error) {
	raw, err := t.store.Get(ctx, successKey(email))
	if errors.Is(err, cache.ErrMiss) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read success counter: %w", err)
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("decode success counter: %w", err)
	}
	return n, nil
}

// RecordSuccess bumps the success counter and clears the failure counter
func (t *AttemptTracker) RecordSuccess(ctx context.Context, email string) (int64, error) {
	n, err := t.bump(ctx, successKey(email), t.policy.SuccessWindow)
	if err != nil {
		return 0, err
	}
	if err := t.store.Del(ctx, failedKey(email)); err != nil {
		return 0, fmt.Errorf("clear failure counter: %w", err)
	}
	return n, nil
}

// Block writes a block record that lives for d. An existing record is
// overwritten.
func (t *AttemptTracker) Block(ctx context.Context, email, reason string, d time.Duration) (*models.BlockRecord, error) {
	rec := &models.BlockRecord{
		Reason:       reason,
		BlockedUntil: t.now().Add(d).UTC(),
	}
	payload, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("encode block record: %w", err)
	}
	if err := t.store.SetEx(ctx, blockedKey(email), string(payload), d); err != nil {
		return nil, fmt.Errorf("write block record: %w", err)
	}
	return rec, nil
}

func (t *AttemptTracker) bump(ctx context.Context, key string, window time.Duration) (int64, error) {
	n, err := t.store.Incr(ctx, key)
	if err != nil {
		return 0, fmt.Errorf("increment counter: %w", err)
	}
	if err := t.store.Expire(ctx, key, window); err != nil {
		return 0, fmt.Errorf("expire counter: %w", err)
	}
	return n, nil
}
