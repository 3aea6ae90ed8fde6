package storage

import (
	"context"
	"time"

	"github.com/Andrew-LILO/agent-performance-dashboard/internal/types"
)

// Store defines the storage interface
type Store interface {
	EnsureAgent(ctx context.Context, agentID, name, email string) error
	InsertPerformanceLogs(ctx context.Context, rows []types.AgentPerformance) error
	Leaderboard(ctx context.Context, from, to time.Time) ([]types.LeaderboardEntry, error)
	AgentHistory(ctx context.Context, agentID string, limit int) ([]types.AgentPerformance, error)
	Ping(ctx context.Context) error
	Close() error
}

// NoopStore is a no-op implementation when no database is configured
type NoopStore struct{}

func NewNoopStore() *NoopStore { return &NoopStore{} }

func (s *NoopStore) EnsureAgent(_ context.Context, _, _, _ string) error { return nil }
func (s *NoopStore) InsertPerformanceLogs(_ context.Context, _ []types.AgentPerformance) error {
	return nil
}
func (s *NoopStore) Leaderboard(_ context.Context, _, _ time.Time) ([]types.LeaderboardEntry, error) {
	return nil, nil
}
func (s *NoopStore) AgentHistory(_ context.Context, _ string, _ int) ([]types.AgentPerformance, error) {
	return nil, nil
}
func (s *NoopStore) Ping(_ context.Context) error { return nil }
func (s *NoopStore) Close() error                 { return nil }
