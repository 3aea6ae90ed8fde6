// Package dailysync pulls the daily per-agent activity summaries, merges them
// and persists one performance row per agent.
package dailysync

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/Andrew-LILO/agent-performance-dashboard/internal/convoso"
	"github.com/Andrew-LILO/agent-performance-dashboard/internal/metrics"
	"github.com/Andrew-LILO/agent-performance-dashboard/internal/types"
)

// DateLayout is the day format used for sync dates
const DateLayout = "2006-01-02"

// ActivitySource fetches an activity summary for a date range, optionally
// filtered by status codes
type ActivitySource interface {
	UserActivity(ctx context.Context, q convoso.ActivityQuery) (types.ActivitySummary, error)
}

// Store persists agents and their performance rows
type Store interface {
	EnsureAgent(ctx context.Context, agentID, name, email string) error
	InsertPerformanceLogs(ctx context.Context, rows []types.AgentPerformance) error
}

// Notifier pushes a message to connected dashboards
type Notifier interface {
	Broadcast(message []byte)
}

// Options configures a Syncer
type Options struct {
	AppointmentStatusIDs string
	EmailSentStatusIDs   string
	ChunkSize            int
}

// Result summarizes one sync run
type Result struct {
	Date         string        `json:"date"`
	Merged       int           `json:"merged"`
	Skipped      int           `json:"skipped"`
	Inserted     int           `json:"inserted"`
	FailedChunks int           `json:"failedChunks"`
	Duration     time.Duration `json:"duration"`
}

// Syncer runs the daily merge-and-persist job
type Syncer struct {
	source   ActivitySource
	store    Store
	notifier Notifier
	opts     Options
	logger   zerolog.Logger
}

// New creates a Syncer. notifier may be nil.
func New(source ActivitySource, store Store, notifier Notifier, opts Options, logger zerolog.Logger) *Syncer {
	if opts.ChunkSize <= 0 {
		opts.ChunkSize = 500
	}
	return &Syncer{
		source:   source,
		store:    store,
		notifier: notifier,
		opts:     opts,
		logger:   logger.With().Str("component", "dailysync").Logger(),
	}
}

// Preview fetches and merges the summaries for day without persisting. Every
// fetch is bounded to day's calendar date. Rows are ordered by agent id and
// stamped with the day's UTC period.
func (s *Syncer) Preview(ctx context.Context, day time.Time) ([]types.AgentPerformance, error) {
	date := day.Format(DateLayout)
	logger := s.logger.With().Str("date", date).Logger()

	base := s.fetch(ctx, logger, "base", date, "", true)
	appointments := s.fetch(ctx, logger, "appointments", date, s.opts.AppointmentStatusIDs, s.opts.AppointmentStatusIDs != "")
	emails := s.fetch(ctx, logger, "emails", date, s.opts.EmailSentStatusIDs, s.opts.EmailSentStatusIDs != "")
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	merged := Merge(base, appointments, emails)

	start, end := Period(day)
	rows := make([]types.AgentPerformance, 0, len(merged))
	for _, perf := range merged {
		row := *perf
		row.PeriodStart = start
		row.PeriodEnd = end
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool {
		return rows[i].AgentID < rows[j].AgentID
	})

	logger.Info().
		Int("base", len(base)).
		Int("appointments", len(appointments)).
		Int("emails", len(emails)).
		Int("merged", len(rows)).
		Msg("activity summaries merged")

	return rows, nil
}

// Run syncs day: merge, ensure every agent exists, then insert the
// performance rows in chunks. Agent and chunk failures are counted in the
// result, not returned; only cancellation aborts the run.
func (s *Syncer) Run(ctx context.Context, day time.Time) (*Result, error) {
	startedAt := time.Now()
	result := &Result{Date: day.Format(DateLayout)}
	logger := s.logger.With().Str("date", result.Date).Logger()

	logger.Info().Msg("daily sync started")

	rows, err := s.Preview(ctx, day)
	if err != nil {
		metrics.SyncRunsTotal.WithLabelValues("canceled").Inc()
		return nil, err
	}
	result.Merged = len(rows)

	ready := make([]types.AgentPerformance, 0, len(rows))
	for _, row := range rows {
		if err := s.store.EnsureAgent(ctx, row.AgentID, row.Name, row.Email); err != nil {
			result.Skipped++
			metrics.SyncAgentsSkippedTotal.Inc()
			logger.Warn().Err(err).Str("agent_id", row.AgentID).Msg("agent upsert failed, skipping performance row")
			continue
		}
		ready = append(ready, row)
	}

	for chunkStart := 0; chunkStart < len(ready); chunkStart += s.opts.ChunkSize {
		if err := ctx.Err(); err != nil {
			metrics.SyncRunsTotal.WithLabelValues("canceled").Inc()
			return nil, err
		}

		chunk := ready[chunkStart:min(chunkStart+s.opts.ChunkSize, len(ready))]
		if err := s.store.InsertPerformanceLogs(ctx, chunk); err != nil {
			result.FailedChunks++
			metrics.SyncChunkFailuresTotal.Inc()
			logger.Error().
				Err(err).
				Int("chunk_start", chunkStart).
				Int("chunk_size", len(chunk)).
				Msg("performance log chunk failed")
			continue
		}
		result.Inserted += len(chunk)
		metrics.SyncRowsInsertedTotal.Add(float64(len(chunk)))
	}

	result.Duration = time.Since(startedAt)

	outcome := "success"
	if result.FailedChunks > 0 || result.Skipped > 0 {
		outcome = "partial"
	} else {
		metrics.SyncLastSuccess.SetToCurrentTime()
	}
	metrics.SyncRunsTotal.WithLabelValues(outcome).Inc()

	logger.Info().
		Int("merged", result.Merged).
		Int("inserted", result.Inserted).
		Int("skipped", result.Skipped).
		Int("failed_chunks", result.FailedChunks).
		Dur("duration", result.Duration).
		Msg("daily sync finished")

	s.notify(result)
	return result, nil
}

func (s *Syncer) fetch(ctx context.Context, logger zerolog.Logger, source, date, statusIDs string, enabled bool) types.ActivitySummary {
	if !enabled {
		logger.Info().Str("source", source).Msg("no status ids configured, skipping fetch")
		return types.ActivitySummary{}
	}

	summary, err := s.source.UserActivity(ctx, convoso.ActivityQuery{
		StartDate: date,
		EndDate:   date,
		StatusIDs: statusIDs,
	})
	if err != nil {
		logger.Error().Err(err).Str("source", source).Msg("activity fetch failed, continuing with empty summary")
		return types.ActivitySummary{}
	}
	return summary
}

func (s *Syncer) notify(result *Result) {
	if s.notifier == nil {
		return
	}

	data, err := json.Marshal(types.SyncEvent{
		Type:         types.MessageSyncCompleted,
		Date:         result.Date,
		Merged:       result.Merged,
		Inserted:     result.Inserted,
		Skipped:      result.Skipped,
		FailedChunks: result.FailedChunks,
		Timestamp:    time.Now().UTC(),
	})
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to marshal sync event")
		return
	}
	s.notifier.Broadcast(data)
}

// Period returns the UTC start and end of day's calendar date
func Period(day time.Time) (time.Time, time.Time) {
	y, m, d := day.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	end := time.Date(y, m, d, 23, 59, 59, 0, time.UTC)
	return start, end
}

// Yesterday returns the calendar day before now in loc
func Yesterday(now time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	y, m, d := now.In(loc).Date()
	return time.Date(y, m, d-1, 0, 0, 0, 0, loc)
}
