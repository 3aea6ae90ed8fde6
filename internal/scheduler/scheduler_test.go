package scheduler

import (
	"bytes"
	"context"
	"sync"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/rs/zerolog"

	"github.com/Andrew-LILO/agent-performance-dashboard/internal/dailysync"
)

type recordingRunner struct {
	mu      sync.Mutex
	days    []time.Time
	block   chan struct{}
	started chan struct{}
}

func (r *recordingRunner) Run(_ context.Context, day time.Time) (*dailysync.Result, error) {
	r.mu.Lock()
	r.days = append(r.days, day)
	r.mu.Unlock()

	if r.started != nil {
		r.started <- struct{}{}
	}
	if r.block != nil {
		<-r.block
	}
	return &dailysync.Result{Date: day.Format(dailysync.DateLayout)}, nil
}

func (r *recordingRunner) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.days)
}

func TestNew(t *testing.T) {
	logger := zerolog.New(&bytes.Buffer{})

	tests := []struct {
		name     string
		spec     string
		timezone string
		wantErr  bool
	}{
		{"default schedule", "0 3 * * *", "America/New_York", false},
		{"descriptor", "@daily", "UTC", false},
		{"invalid timezone", "0 3 * * *", "Mars/Olympus", true},
		{"invalid spec", "every night", "UTC", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := New(&recordingRunner{}, tt.spec, tt.timezone, logger)
			if tt.wantErr {
				if err == nil {
					t.Error("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if s.Location().String() != tt.timezone {
				t.Errorf("expected location %s, got %s", tt.timezone, s.Location())
			}
		})
	}
}

func TestNextAndYesterday(t *testing.T) {
	s, err := New(&recordingRunner{}, "0 3 * * *", "America/New_York", zerolog.New(&bytes.Buffer{}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// 01:00 UTC on March 10th is 21:00 on March 9th in New York
	s.now = func() time.Time { return time.Date(2025, 3, 10, 1, 0, 0, 0, time.UTC) }

	next := s.Next()
	if next.Hour() != 3 || next.Day() != 10 {
		t.Errorf("expected next run at 03:00 on the 10th local time, got %v", next)
	}
	if got := s.Yesterday().Format(dailysync.DateLayout); got != "2025-03-08" {
		t.Errorf("expected yesterday 2025-03-08, got %s", got)
	}
}

func TestRunOnceSkipsOverlappingRuns(t *testing.T) {
	runner := &recordingRunner{block: make(chan struct{}), started: make(chan struct{}, 1)}
	s, err := New(runner, "@daily", "UTC", zerolog.New(&bytes.Buffer{}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	day := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	done := make(chan error, 1)
	go func() {
		_, err := s.RunOnce(context.Background(), day)
		done <- err
	}()
	<-runner.started

	if !s.Running() {
		t.Error("expected Running to report the in-flight sync")
	}
	if _, err := s.RunOnce(context.Background(), day); err != ErrSyncInProgress {
		t.Errorf("expected ErrSyncInProgress, got %v", err)
	}

	close(runner.block)
	if err := <-done; err != nil {
		t.Errorf("first run failed: %v", err)
	}

	runner.block = nil
	runner.started = nil
	result, err := s.RunOnce(context.Background(), day)
	if err != nil {
		t.Fatalf("run after completion failed: %v", err)
	}
	if result.Date != "2025-03-01" {
		t.Errorf("expected result for 2025-03-01, got %s", result.Date)
	}
	if runner.count() != 2 {
		t.Errorf("expected 2 runs, got %d", runner.count())
	}
}

func TestTriggerClaimsSlotBeforeReturning(t *testing.T) {
	runner := &recordingRunner{block: make(chan struct{}), started: make(chan struct{}, 1)}
	s, err := New(runner, "@daily", "UTC", zerolog.New(&bytes.Buffer{}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	day := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	if err := s.Trigger(context.Background(), day); err != nil {
		t.Fatalf("first trigger failed: %v", err)
	}
	if !s.Running() {
		t.Error("expected the run slot to be held as soon as Trigger returns")
	}
	if err := s.Trigger(context.Background(), day); err != ErrSyncInProgress {
		t.Errorf("expected ErrSyncInProgress from a concurrent trigger, got %v", err)
	}
	if _, err := s.RunOnce(context.Background(), day); err != ErrSyncInProgress {
		t.Errorf("expected ErrSyncInProgress from the cron path, got %v", err)
	}

	<-runner.started
	close(runner.block)

	deadline := time.After(time.Second)
	for s.Running() {
		select {
		case <-deadline:
			t.Fatal("triggered sync never released the run slot")
		case <-time.After(5 * time.Millisecond):
		}
	}
	if runner.count() != 1 {
		t.Errorf("expected exactly 1 run, got %d", runner.count())
	}
}

func TestStartFiresAndStopsOnContextCancel(t *testing.T) {
	runner := &recordingRunner{}
	s, err := New(runner, "@every 1s", "UTC", zerolog.New(&bytes.Buffer{}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Start(ctx)
		close(done)
	}()

	deadline := time.After(3 * time.Second)
	for runner.count() == 0 {
		select {
		case <-deadline:
			t.Fatal("scheduled sync did not fire")
		case <-time.After(50 * time.Millisecond):
		}
	}

	cancel()
	select {
	case <-done:
	case <-time.After(1 * time.Second):
		t.Error("scheduler did not stop within timeout after context cancel")
	}
}
