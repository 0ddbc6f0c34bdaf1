package core

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestBuildLimiter_AcquireRelease(t *testing.T) {
	limiter := NewBuildLimiter(2, time.Second)
	ctx := context.Background()

	if got := limiter.Status(); got.Active != 0 || got.MaxConcurrent != 2 {
		t.Errorf("initial Status = %+v", got)
	}

	if err := limiter.Acquire(ctx); err != nil {
		t.Fatalf("first Acquire: %v", err)
	}
	if err := limiter.Acquire(ctx); err != nil {
		t.Fatalf("second Acquire: %v", err)
	}
	if got := limiter.Status().Active; got != 2 {
		t.Errorf("Active = %d, want 2", got)
	}
	if limiter.TryAcquire() {
		t.Error("TryAcquire succeeded on a full limiter")
	}

	limiter.Release()
	if !limiter.TryAcquire() {
		t.Error("TryAcquire failed after Release")
	}
	limiter.Release()
	limiter.Release()

	if got := limiter.Status().Active; got != 0 {
		t.Errorf("Active = %d after releasing all, want 0", got)
	}
}

func TestBuildLimiter_Timeout(t *testing.T) {
	limiter := NewBuildLimiter(1, 20*time.Millisecond)
	ctx := context.Background()

	if err := limiter.Acquire(ctx); err != nil {
		t.Fatal(err)
	}
	defer limiter.Release()

	if err := limiter.Acquire(ctx); !errors.Is(err, ErrTooManyBuilds) {
		t.Errorf("Acquire on full limiter = %v, want ErrTooManyBuilds", err)
	}
}

func TestBuildLimiter_ContextCanceled(t *testing.T) {
	limiter := NewBuildLimiter(1, time.Second)
	if err := limiter.Acquire(context.Background()); err != nil {
		t.Fatal(err)
	}
	defer limiter.Release()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := limiter.Acquire(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Acquire with canceled ctx = %v, want context.Canceled", err)
	}
}

func TestBuildLimiter_Defaults(t *testing.T) {
	limiter := NewBuildLimiter(0, 0)
	if got := limiter.Status().MaxConcurrent; got != DefaultMaxConcurrentBuilds {
		t.Errorf("MaxConcurrent = %d, want %d", got, DefaultMaxConcurrentBuilds)
	}
}

func TestBuildLimiter_WaitForDrain(t *testing.T) {
	limiter := NewBuildLimiter(2, time.Second)
	if err := limiter.Acquire(context.Background()); err != nil {
		t.Fatal(err)
	}

	done := make(chan error, 1)
	go func() {
		done <- limiter.WaitForDrain(context.Background())
	}()

	select {
	case err := <-done:
		t.Fatalf("WaitForDrain returned early: %v", err)
	case <-time.After(20 * time.Millisecond):
	}

	limiter.Release()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("WaitForDrain = %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("WaitForDrain did not return after Release")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	limiter.Acquire(context.Background())
	if err := limiter.WaitForDrain(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("WaitForDrain with busy slot = %v, want DeadlineExceeded", err)
	}
}
