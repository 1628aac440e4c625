package services

import (
	"context"
	"testing"
	"time"

	"github.com/SAP-F-2025/finance-dashboard/internal/cache"
)

// sequence returns the given steps in order, then zeros.
func sequence(steps ...int) func() int {
	i := 0
	return func() int {
		if i >= len(steps) {
			return 0
		}
		s := steps[i]
		i++
		return s
	}
}

func TestBadgeService_Tick(t *testing.T) {
	ctx := context.Background()
	svc := NewBadgeService(cache.NewBadgeStore(nil, 2), time.Minute, sequence(1, -1, -1, -1, -1, 0, 1), testLogger())

	if got := svc.Current(ctx); got.Count != 2 || !got.Visible {
		t.Fatalf("Current() = %+v", got)
	}

	wantCounts := []int{3, 2, 1, 0, 0, 0, 1}
	for i, want := range wantCounts {
		got := svc.Tick(ctx)
		if got.Count != want {
			t.Errorf("tick %d: count = %d, want %d", i, got.Count, want)
		}
		if got.Visible != (want > 0) {
			t.Errorf("tick %d: visible = %v", i, got.Visible)
		}
	}
}

func TestBadgeService_DefaultStepStaysInRange(t *testing.T) {
	ctx := context.Background()
	svc := NewBadgeService(cache.NewBadgeStore(nil, 5), 0, nil, testLogger())

	prev := svc.Current(ctx).Count
	for i := 0; i < 200; i++ {
		got := svc.Tick(ctx).Count
		if got < 0 {
			t.Fatalf("count went negative: %d", got)
		}
		if d := got - prev; d < -1 || d > 1 {
			t.Fatalf("step %d -> %d out of range", prev, got)
		}
		prev = got
	}
}

func TestBadgeService_Run(t *testing.T) {
	store := cache.NewBadgeStore(nil, 0)
	svc := NewBadgeService(store, 5*time.Millisecond, func() int { return 1 }, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		svc.Run(ctx)
		close(done)
	}()

	deadline := time.After(5 * time.Second)
	for {
		if svc.Current(context.Background()).Count >= 2 {
			break
		}
		select {
		case <-deadline:
			t.Fatal("badge never ticked")
		case <-time.After(5 * time.Millisecond):
		}
	}

	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Run() did not stop")
	}
}
