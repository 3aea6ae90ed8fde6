package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/Andrew-LILO/agent-performance-dashboard/internal/dailysync"
	"github.com/Andrew-LILO/agent-performance-dashboard/internal/types"
)

// leaderboardDays is the default leaderboard window, ending today
const leaderboardDays = 7

// PerformanceStore reads the synced performance logs
type PerformanceStore interface {
	Leaderboard(ctx context.Context, from, to time.Time) ([]types.LeaderboardEntry, error)
	AgentHistory(ctx context.Context, agentID string, limit int) ([]types.AgentPerformance, error)
}

// PerformanceHandler provides REST endpoints for synced performance data
type PerformanceHandler struct {
	store  PerformanceStore
	now    func() time.Time
	logger zerolog.Logger
}

// NewPerformanceHandler creates a new PerformanceHandler
func NewPerformanceHandler(store PerformanceStore, logger zerolog.Logger) *PerformanceHandler {
	return &PerformanceHandler{
		store:  store,
		now:    time.Now,
		logger: logger.With().Str("component", "performance_handler").Logger(),
	}
}

// GetLeaderboard returns per-agent sums over an inclusive date range
// GET /leaderboard?startDate=YYYY-MM-DD&endDate=YYYY-MM-DD
func (h *PerformanceHandler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	y, m, d := h.now().UTC().Date()
	end := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	start := end.AddDate(0, 0, -(leaderboardDays - 1))

	var err error
	if v := r.URL.Query().Get("endDate"); v != "" {
		if end, err = time.Parse(dailysync.DateLayout, v); err != nil {
			respondError(w, http.StatusBadRequest, "Invalid endDate, expected YYYY-MM-DD", err)
			return
		}
		start = end.AddDate(0, 0, -(leaderboardDays - 1))
	}
	if v := r.URL.Query().Get("startDate"); v != "" {
		if start, err = time.Parse(dailysync.DateLayout, v); err != nil {
			respondError(w, http.StatusBadRequest, "Invalid startDate, expected YYYY-MM-DD", err)
			return
		}
	}
	if start.After(end) {
		respondError(w, http.StatusBadRequest, "startDate must not be after endDate", nil)
		return
	}

	entries, err := h.store.Leaderboard(r.Context(), start, end.AddDate(0, 0, 1))
	if err != nil {
		h.logger.Error().Err(err).Time("start", start).Time("end", end).Msg("failed to get leaderboard")
		respondError(w, http.StatusInternalServerError, "Failed to retrieve leaderboard", err)
		return
	}

	if entries == nil {
		entries = []types.LeaderboardEntry{}
	}
	respondJSON(w, http.StatusOK, entries)
}

// GetPerformance returns the most recent daily rows for one agent
// GET /agents/{agentId}/performance?limit=N
func (h *PerformanceHandler) GetPerformance(w http.ResponseWriter, r *http.Request) {
	agentID := chi.URLParam(r, "agentId")
	if agentID == "" {
		respondError(w, http.StatusBadRequest, "agentId is required", nil)
		return
	}

	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			respondError(w, http.StatusBadRequest, "limit must be a non-negative integer", nil)
			return
		}
		limit = n
	}

	history, err := h.store.AgentHistory(r.Context(), agentID, limit)
	if err != nil {
		h.logger.Error().Err(err).Str("agent_id", agentID).Msg("failed to get agent performance")
		respondError(w, http.StatusInternalServerError, "Failed to retrieve performance history", err)
		return
	}

	if history == nil {
		history = []types.AgentPerformance{}
	}
	respondJSON(w, http.StatusOK, history)
}
