package dailysync

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Andrew-LILO/agent-performance-dashboard/internal/convoso"
	"github.com/Andrew-LILO/agent-performance-dashboard/internal/types"
)

type fakeSource struct {
	byStatus map[string]types.ActivitySummary
	byDate   map[string]types.ActivitySummary
	fail     map[string]bool
	calls    []string
	queries  []convoso.ActivityQuery
}

func (f *fakeSource) UserActivity(_ context.Context, q convoso.ActivityQuery) (types.ActivitySummary, error) {
	f.calls = append(f.calls, q.StatusIDs)
	f.queries = append(f.queries, q)
	if f.fail[q.StatusIDs] {
		return nil, errors.New("upstream down")
	}
	if f.byDate != nil {
		return f.byDate[q.StartDate], nil
	}
	return f.byStatus[q.StatusIDs], nil
}

type fakeStore struct {
	failAgents map[string]bool
	failChunk  map[int]bool
	ensured    []string
	chunks     [][]types.AgentPerformance
}

func (f *fakeStore) EnsureAgent(_ context.Context, agentID, name, email string) error {
	f.ensured = append(f.ensured, agentID)
	if f.failAgents[agentID] {
		return errors.New("constraint violation")
	}
	return nil
}

func (f *fakeStore) InsertPerformanceLogs(_ context.Context, rows []types.AgentPerformance) error {
	idx := len(f.chunks)
	f.chunks = append(f.chunks, rows)
	if f.failChunk[idx] {
		return errors.New("insert failed")
	}
	return nil
}

type fakeNotifier struct {
	messages [][]byte
}

func (f *fakeNotifier) Broadcast(message []byte) {
	f.messages = append(f.messages, message)
}

func summaryOf(ids ...string) types.ActivitySummary {
	s := types.ActivitySummary{}
	for _, id := range ids {
		s[id] = activity("Agent Name "+id, "5")
	}
	return s
}

var syncDay = time.Date(2025, 3, 1, 15, 0, 0, 0, time.UTC)

func TestSyncerRun(t *testing.T) {
	source := &fakeSource{byStatus: map[string]types.ActivitySummary{
		"":      summaryOf("1", "2", "3", "4", "5"),
		"MQAPP": summaryOf("2", "6"),
	}}
	store := &fakeStore{
		failAgents: map[string]bool{"3": true},
		failChunk:  map[int]bool{1: true},
	}
	notifier := &fakeNotifier{}

	s := New(source, store, notifier, Options{AppointmentStatusIDs: "MQAPP", ChunkSize: 2}, zerolog.New(&bytes.Buffer{}))

	result, err := s.Run(context.Background(), syncDay)
	require.NoError(t, err)

	assert.Equal(t, []string{"", "MQAPP"}, source.calls, "email fetch is skipped without status ids")
	assert.Equal(t, []string{"1", "2", "3", "4", "5", "6"}, store.ensured)

	assert.Equal(t, "2025-03-01", result.Date)
	assert.Equal(t, 6, result.Merged)
	assert.Equal(t, 1, result.Skipped)
	assert.Equal(t, 1, result.FailedChunks)
	assert.Equal(t, 3, result.Inserted)

	require.Len(t, store.chunks, 3, "a failed chunk does not stop later chunks")
	assert.Equal(t, "1", store.chunks[0][0].AgentID)
	assert.Equal(t, "2", store.chunks[0][1].AgentID)
	assert.Equal(t, "6", store.chunks[2][0].AgentID)

	row := store.chunks[0][1]
	assert.Equal(t, 5, row.AppointmentsSet)
	assert.Equal(t, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), row.PeriodStart)
	assert.Equal(t, time.Date(2025, 3, 1, 23, 59, 59, 0, time.UTC), row.PeriodEnd)

	require.Len(t, notifier.messages, 1)
	var event types.SyncEvent
	require.NoError(t, json.Unmarshal(notifier.messages[0], &event))
	assert.Equal(t, types.MessageSyncCompleted, event.Type)
	assert.Equal(t, "2025-03-01", event.Date)
	assert.Equal(t, 3, event.Inserted)
}

func TestSyncerFailedFetchContributesNothing(t *testing.T) {
	source := &fakeSource{
		byStatus: map[string]types.ActivitySummary{"EMAIL": summaryOf("9")},
		fail:     map[string]bool{"": true},
	}
	store := &fakeStore{}

	s := New(source, store, nil, Options{EmailSentStatusIDs: "EMAIL"}, zerolog.New(&bytes.Buffer{}))

	result, err := s.Run(context.Background(), syncDay)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Merged)
	require.Len(t, store.chunks, 1)
	assert.Equal(t, 5, store.chunks[0][0].EmailsSent)
	assert.Equal(t, 5, store.chunks[0][0].TotalInteractions)
}

func TestSyncerPreviewDoesNotPersist(t *testing.T) {
	source := &fakeSource{byStatus: map[string]types.ActivitySummary{"": summaryOf("20", "10")}}
	store := &fakeStore{}
	notifier := &fakeNotifier{}

	s := New(source, store, notifier, Options{}, zerolog.New(&bytes.Buffer{}))

	rows, err := s.Preview(context.Background(), syncDay)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "10", rows[0].AgentID)
	assert.Empty(t, store.ensured)
	assert.Empty(t, store.chunks)
	assert.Empty(t, notifier.messages)
}

func TestSyncerFetchesRequestedDay(t *testing.T) {
	source := &fakeSource{byDate: map[string]types.ActivitySummary{
		"2020-01-01": {"1": activity("Agent One", "7")},
		"2025-06-01": {"1": activity("Agent One", "3")},
	}}
	syncer := New(source, &fakeStore{}, nil, Options{AppointmentStatusIDs: "MQAPP"}, zerolog.New(&bytes.Buffer{}))

	tests := []struct {
		day   time.Time
		calls int
	}{
		{time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), 7},
		{time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), 3},
	}

	for _, tt := range tests {
		t.Run(tt.day.Format(DateLayout), func(t *testing.T) {
			source.queries = nil

			rows, err := syncer.Preview(context.Background(), tt.day)
			require.NoError(t, err)
			require.Len(t, rows, 1)
			assert.Equal(t, tt.calls, rows[0].TotalInteractions)

			require.Len(t, source.queries, 2)
			for _, q := range source.queries {
				assert.Equal(t, tt.day.Format(DateLayout), q.StartDate)
				assert.Equal(t, tt.day.Format(DateLayout), q.EndDate)
			}
		})
	}
}

func TestSyncerRunCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := New(&fakeSource{}, &fakeStore{}, nil, Options{}, zerolog.New(&bytes.Buffer{}))

	_, err := s.Run(ctx, syncDay)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestYesterday(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	// 02:00 UTC on March 2nd is still March 1st in New York
	now := time.Date(2025, 3, 2, 2, 0, 0, 0, time.UTC)

	assert.Equal(t, "2025-02-28", Yesterday(now, ny).Format(DateLayout))
	assert.Equal(t, "2025-03-01", Yesterday(now, nil).Format(DateLayout))
	assert.Equal(t, "2024-12-31", Yesterday(time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC), time.UTC).Format(DateLayout))
}
