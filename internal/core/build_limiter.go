package core

// build_limiter.go bounds how many tables are built at once. A build holds a
// job's whole property set in memory, so parallel builds are capped and
// callers wait up to maxWait for a slot before failing with ErrTooManyBuilds.

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"golang.org/x/sync/semaphore"
)

// ErrTooManyBuilds is returned when no build slot frees up in time.
var ErrTooManyBuilds = errors.New("too many concurrent table builds")

const (
	DefaultMaxConcurrentBuilds = 4
	DefaultBuildWait           = 10 * time.Second
)

// BuildLimiter caps concurrent table builds.
type BuildLimiter struct {
	sem     *semaphore.Weighted
	max     int64
	maxWait time.Duration
	active  atomic.Int64
}

// NewBuildLimiter allows at most maxConcurrent builds. Non-positive
// arguments select the defaults.
func NewBuildLimiter(maxConcurrent int, maxWait time.Duration) *BuildLimiter {
	if maxConcurrent <= 0 {
		maxConcurrent = DefaultMaxConcurrentBuilds
	}
	if maxWait <= 0 {
		maxWait = DefaultBuildWait
	}
	return &BuildLimiter{
		sem:     semaphore.NewWeighted(int64(maxConcurrent)),
		max:     int64(maxConcurrent),
		maxWait: maxWait,
	}
}

// Acquire takes a slot. The caller must Release it.
func (l *BuildLimiter) Acquire(ctx context.Context) error {
	waitCtx, cancel := context.WithTimeout(ctx, l.maxWait)
	defer cancel()

	if err := l.sem.Acquire(waitCtx, 1); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return ErrTooManyBuilds
	}
	l.active.Add(1)
	return nil
}

// TryAcquire takes a slot without waiting.
func (l *BuildLimiter) TryAcquire() bool {
	if !l.sem.TryAcquire(1) {
		return false
	}
	l.active.Add(1)
	return true
}

// Release returns a slot taken by Acquire or TryAcquire.
func (l *BuildLimiter) Release() {
	l.active.Add(-1)
	l.sem.Release(1)
}

// BuildLimiterStatus is a snapshot of limiter usage.
type BuildLimiterStatus struct {
	Active        int `json:"active"`
	MaxConcurrent int `json:"max_concurrent"`
}

func (l *BuildLimiter) Status() BuildLimiterStatus {
	return BuildLimiterStatus{
		Active:        int(l.active.Load()),
		MaxConcurrent: int(l.max),
	}
}

// WaitForDrain blocks until every slot is free or ctx is done. Used on
// shutdown.
func (l *BuildLimiter) WaitForDrain(ctx context.Context) error {
	if err := l.sem.Acquire(ctx, l.max); err != nil {
		return err
	}
	l.sem.Release(l.max)
	return nil
}
