package api

import (
	"context"
	"net/http"
	"runtime"
	"time"
)

// Pinger checks a backing service
type Pinger interface {
	Ping(ctx context.Context) error
}

// StatusOptions carries the optional collaborators reported by /status
type StatusOptions struct {
	Environment string
	Store       Pinger
	Clients     func() int
	NextSync    func() time.Time
}

// StatusHandler reports service status for operators
type StatusHandler struct {
	started time.Time
	opts    StatusOptions
}

// NewStatusHandler creates a StatusHandler whose uptime counts from now
func NewStatusHandler(opts StatusOptions) *StatusHandler {
	return &StatusHandler{started: time.Now(), opts: opts}
}

type statusResponse struct {
	Status           string     `json:"status"`
	Timestamp        time.Time  `json:"timestamp"`
	Uptime           float64    `json:"uptime"`
	Environment      string     `json:"environment"`
	GoVersion        string     `json:"go_version"`
	Database         string     `json:"database"`
	WebSocketClients int        `json:"websocket_clients"`
	NextSync         *time.Time `json:"next_sync,omitempty"`
}

// GetStatus handles GET /status. A failing database degrades the status but
// still answers 200.
func (h *StatusHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	resp := statusResponse{
		Status:      "ok",
		Timestamp:   time.Now().UTC(),
		Uptime:      time.Since(h.started).Seconds(),
		Environment: h.opts.Environment,
		GoVersion:   runtime.Version(),
		Database:    "disabled",
	}

	if h.opts.Store != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.opts.Store.Ping(ctx); err != nil {
			resp.Status = "degraded"
			resp.Database = "unavailable"
		} else {
			resp.Database = "ok"
		}
	}
	if h.opts.Clients != nil {
		resp.WebSocketClients = h.opts.Clients()
	}
	if h.opts.NextSync != nil {
		next := h.opts.NextSync()
		resp.NextSync = &next
	}

	respondJSON(w, http.StatusOK, resp)
}
