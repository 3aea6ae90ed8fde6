package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/Andrew-LILO/agent-performance-dashboard/internal/dailysync"
	"github.com/Andrew-LILO/agent-performance-dashboard/internal/scheduler"
)

// SyncTrigger starts a daily sync on demand. Trigger returns
// scheduler.ErrSyncInProgress when a run is already active.
type SyncTrigger interface {
	Trigger(ctx context.Context, day time.Time) error
	Yesterday() time.Time
}

// AdminHandler exposes operator actions
type AdminHandler struct {
	// baseCtx outlives the request so a sync survives the client hanging up
	// but still stops on shutdown
	baseCtx context.Context
	trigger SyncTrigger
	logger  zerolog.Logger
}

// NewAdminHandler creates a new AdminHandler. Syncs it starts run under ctx.
func NewAdminHandler(ctx context.Context, trigger SyncTrigger, logger zerolog.Logger) *AdminHandler {
	return &AdminHandler{
		baseCtx: ctx,
		trigger: trigger,
		logger:  logger.With().Str("component", "admin_handler").Logger(),
	}
}

// TriggerSync starts the sync for ?date=YYYY-MM-DD (default yesterday) in the
// background. The result is pushed to dashboards over the websocket feed.
// POST /admin/sync
func (h *AdminHandler) TriggerSync(w http.ResponseWriter, r *http.Request) {
	day := h.trigger.Yesterday()
	if v := r.URL.Query().Get("date"); v != "" {
		parsed, err := time.Parse(dailysync.DateLayout, v)
		if err != nil {
			respondError(w, http.StatusBadRequest, "Invalid date, expected YYYY-MM-DD", err)
			return
		}
		day = parsed
	}
	date := day.Format(dailysync.DateLayout)

	if err := h.trigger.Trigger(h.baseCtx, day); err != nil {
		if errors.Is(err, scheduler.ErrSyncInProgress) {
			respondError(w, http.StatusConflict, "A sync is already running", nil)
			return
		}
		h.logger.Error().Err(err).Str("date", date).Msg("manual sync failed to start")
		respondError(w, http.StatusInternalServerError, "Failed to start sync", err)
		return
	}

	h.logger.Info().Str("date", date).Msg("manual sync started")
	respondJSON(w, http.StatusAccepted, map[string]string{
		"message": "sync started",
		"date":    date,
	})
}
