// Package scheduler triggers the daily sync on a cron schedule.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/Andrew-LILO/agent-performance-dashboard/internal/dailysync"
)

// ErrSyncInProgress is returned when a sync is requested while one is running
var ErrSyncInProgress = errors.New("sync already in progress")

// Runner runs the sync for one day
type Runner interface {
	Run(ctx context.Context, day time.Time) (*dailysync.Result, error)
}

// Scheduler fires the daily sync for "yesterday" in its location
type Scheduler struct {
	runner   Runner
	spec     string
	schedule cron.Schedule
	location *time.Location
	running  atomic.Bool
	now      func() time.Time
	logger   zerolog.Logger
}

// New creates a Scheduler for a standard five-field cron spec in timezone
func New(runner Runner, spec, timezone string, logger zerolog.Logger) (*Scheduler, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid sync timezone %q: %w", timezone, err)
	}

	schedule, err := cron.ParseStandard(spec)
	if err != nil {
		return nil, fmt.Errorf("invalid sync schedule %q: %w", spec, err)
	}

	return &Scheduler{
		runner:   runner,
		spec:     spec,
		schedule: schedule,
		location: loc,
		now:      time.Now,
		logger:   logger.With().Str("component", "scheduler").Logger(),
	}, nil
}

// Location returns the scheduler's timezone
func (s *Scheduler) Location() *time.Location {
	return s.location
}

// Next returns the next firing time after now
func (s *Scheduler) Next() time.Time {
	return s.schedule.Next(s.now().In(s.location))
}

// Start runs the cron loop until ctx is cancelled, then waits for a running
// sync to finish
func (s *Scheduler) Start(ctx context.Context) {
	c := cron.New(cron.WithLocation(s.location))
	c.Schedule(s.schedule, cron.FuncJob(func() {
		day := dailysync.Yesterday(s.now(), s.location)
		if _, err := s.RunOnce(ctx, day); err != nil {
			s.logger.Error().Err(err).Str("date", day.Format(dailysync.DateLayout)).Msg("scheduled sync failed")
		}
	}))
	c.Start()

	s.logger.Info().
		Str("schedule", s.spec).
		Str("timezone", s.location.String()).
		Time("next_run", s.Next()).
		Msg("scheduler started")

	<-ctx.Done()

	stopped := c.Stop()
	<-stopped.Done()
	s.logger.Info().Msg("scheduler stopped")
}

// RunOnce syncs day unless another sync is running
func (s *Scheduler) RunOnce(ctx context.Context, day time.Time) (*dailysync.Result, error) {
	if !s.running.CompareAndSwap(false, true) {
		s.logger.Warn().Str("date", day.Format(dailysync.DateLayout)).Msg("sync already running, skipping")
		return nil, ErrSyncInProgress
	}
	defer s.running.Store(false)

	return s.runner.Run(ctx, day)
}

// Trigger claims the run slot and syncs day in the background under ctx. It
// returns ErrSyncInProgress without starting anything when a sync is running.
func (s *Scheduler) Trigger(ctx context.Context, day time.Time) error {
	date := day.Format(dailysync.DateLayout)
	if !s.running.CompareAndSwap(false, true) {
		s.logger.Warn().Str("date", date).Msg("sync already running, rejecting trigger")
		return ErrSyncInProgress
	}

	go func() {
		defer s.running.Store(false)
		if _, err := s.runner.Run(ctx, day); err != nil {
			s.logger.Error().Err(err).Str("date", date).Msg("triggered sync failed")
		}
	}()
	return nil
}

// Running reports whether a sync is in progress
func (s *Scheduler) Running() bool {
	return s.running.Load()
}

// Yesterday returns the day a sync triggered now would cover
func (s *Scheduler) Yesterday() time.Time {
	return dailysync.Yesterday(s.now(), s.location)
}
