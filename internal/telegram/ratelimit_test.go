package telegram

import (
	"context"
	"testing"
	"time"
)

func TestRateLimiter_FirstRequestImmediate(t *testing.T) {
	rl := NewRateLimiter(10.0, 1)

	start := time.Now()
	if err := rl.Wait(context.Background()); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	if elapsed := time.Since(start); elapsed > 50*time.Millisecond {
		t.Errorf("first request should be immediate, took %v", elapsed)
	}
}

func TestRateLimiter_WaitContextCanceled(t *testing.T) {
	rl := NewRateLimiter(0.1, 1) // 1 request per 10 seconds

	// use up the burst
	_ = rl.Wait(context.Background())

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	if err := rl.Wait(ctx); err == nil {
		t.Error("expected error from context timeout, got nil")
	}
}

func TestRateLimiter_SetFloodWait(t *testing.T) {
	rl := NewRateLimiter(10.0, 1)
	rl.SetFloodWait(1)

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	if err := rl.Wait(ctx); err != context.DeadlineExceeded {
		t.Errorf("expected DeadlineExceeded during flood wait, got %v", err)
	}
}

func TestRateLimiter_FloodWaitExpires(t *testing.T) {
	rl := NewRateLimiter(10.0, 1)
	rl.floodWaitUntil = time.Now().Add(-100 * time.Millisecond)

	start := time.Now()
	if err := rl.Wait(context.Background()); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	if elapsed := time.Since(start); elapsed > 50*time.Millisecond {
		t.Errorf("expired flood wait should not block, took %v", elapsed)
	}
}

func TestRateLimiter_Throttles(t *testing.T) {
	rl := NewRateLimiter(10.0, 1) // 100ms between requests after the burst

	start := time.Now()
	for i := 0; i < 3; i++ {
		if err := rl.Wait(context.Background()); err != nil {
			t.Fatalf("request %d: %v", i, err)
		}
	}

	if elapsed := time.Since(start); elapsed < 150*time.Millisecond {
		t.Errorf("3 requests at 10 rps should take >=150ms, took %v", elapsed)
	}
}
