package search

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestNewLimiter(t *testing.T) {
	tests := []struct {
		name    string
		ceiling int
		wantErr bool
	}{
		{
			name:    "valid ceiling",
			ceiling: 4,
			wantErr: false,
		},
		{
			name:    "ceiling of one",
			ceiling: 1,
			wantErr: false,
		},
		{
			name:    "zero ceiling rejected",
			ceiling: 0,
			wantErr: true,
		},
		{
			name:    "negative ceiling rejected",
			ceiling: -3,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := NewLimiter(tt.ceiling)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if l.Ceiling() != tt.ceiling {
				t.Errorf("expected ceiling %d, got %d", tt.ceiling, l.Ceiling())
			}
			if l.Held() != 0 {
				t.Errorf("expected 0 held permits, got %d", l.Held())
			}
		})
	}
}

func TestLimiterAcquireRelease(t *testing.T) {
	l, err := NewLimiter(2)
	if err != nil {
		t.Fatal(err)
	}

	ctx := context.Background()

	s1, err := l.Acquire(ctx)
	if err != nil {
		t.Fatalf("first acquire failed: %v", err)
	}
	s2, err := l.Acquire(ctx)
	if err != nil {
		t.Fatalf("second acquire failed: %v", err)
	}

	if l.Held() != 2 {
		t.Errorf("expected 2 held permits, got %d", l.Held())
	}

	// Third acquire must block until a slot frees
	acquired := make(chan struct{})
	go func() {
		s3, err := l.Acquire(ctx)
		if err != nil {
			t.Errorf("third acquire failed: %v", err)
			close(acquired)
			return
		}
		close(acquired)
		s3.Release()
	}()

	select {
	case <-acquired:
		t.Fatal("third acquire should have blocked at the ceiling")
	case <-time.After(50 * time.Millisecond):
	}

	s1.Release()

	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatal("third acquire did not proceed after a release")
	}

	s2.Release()
}

func TestLimiterAcquireCancelled(t *testing.T) {
	l, err := NewLimiter(1)
	if err != nil {
		t.Fatal(err)
	}

	s, err := l.Acquire(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	defer s.Release()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if _, err := l.Acquire(ctx); err == nil {
		t.Fatal("expected context error when acquiring at the ceiling")
	}
}

func TestSlotDoubleReleasePanics(t *testing.T) {
	l, err := NewLimiter(1)
	if err != nil {
		t.Fatal(err)
	}

	s, err := l.Acquire(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	s.Release()

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on double release")
		}
	}()
	s.Release()
}

// TestLimiterCeilingUnderLoad verifies the core invariant: the number of
// concurrently held permits never exceeds the ceiling.
func TestLimiterCeilingUnderLoad(t *testing.T) {
	const ceiling = 3
	const tasks = 50

	l, err := NewLimiter(ceiling)
	if err != nil {
		t.Fatal(err)
	}

	var active atomic.Int32
	var peak atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < tasks; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			slot, err := l.Acquire(context.Background())
			if err != nil {
				t.Errorf("acquire failed: %v", err)
				return
			}
			defer slot.Release()

			n := active.Add(1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			time.Sleep(time.Millisecond)
			active.Add(-1)
		}()
	}

	wg.Wait()

	if got := peak.Load(); got > ceiling {
		t.Errorf("observed %d concurrent holders, ceiling is %d", got, ceiling)
	}
	if l.Held() != 0 {
		t.Errorf("expected all permits returned, %d still held", l.Held())
	}
}
