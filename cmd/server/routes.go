package main

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/Andrew-LILO/agent-performance-dashboard/internal/api"
	"github.com/Andrew-LILO/agent-performance-dashboard/internal/auth"
	"github.com/Andrew-LILO/agent-performance-dashboard/internal/config"
	"github.com/Andrew-LILO/agent-performance-dashboard/internal/metrics"
	"github.com/Andrew-LILO/agent-performance-dashboard/internal/reference"
	"github.com/Andrew-LILO/agent-performance-dashboard/internal/storage"
	"github.com/Andrew-LILO/agent-performance-dashboard/internal/websocket"
	"github.com/Andrew-LILO/agent-performance-dashboard/pkg/middleware"
)

type routerDeps struct {
	cfg       *config.Config
	tables    *reference.Tables
	upstream  api.Upstream
	store     storage.Store
	persisted bool
	hub       *websocket.Hub
	scheduler api.SyncTrigger
	auth      *auth.Authenticator
	logger    zerolog.Logger
}

// newRouter wires the handlers. ctx bounds syncs started over HTTP.
func newRouter(ctx context.Context, d routerDeps) http.Handler {
	reports := api.NewReportHandler(d.upstream, api.ReportOptions{
		PageLimit:       d.cfg.CallLogPageLimit,
		MaxCallLogs:     d.cfg.MaxCallLogs,
		ModalLogLimit:   d.cfg.ModalLogLimit,
		LeadConcurrency: d.cfg.LeadLookupConcurrency,
	}, d.logger)
	refs := api.NewReferenceHandler(d.tables, d.logger)
	perf := api.NewPerformanceHandler(d.store, d.logger)
	admin := api.NewAdminHandler(ctx, d.scheduler, d.logger)
	wsHandler := websocket.NewHandler(d.hub, d.cfg, d.logger)

	statusOpts := api.StatusOptions{
		Environment: d.cfg.Environment,
		Clients:     d.hub.ClientCount,
	}
	if d.persisted {
		statusOpts.Store = d.store
	}
	if next, ok := d.scheduler.(interface{ Next() time.Time }); ok && d.cfg.SyncEnabled {
		statusOpts.NextSync = next.Next
	}
	status := api.NewStatusHandler(statusOpts)

	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(d.logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS(d.cfg.AllowedOrigins))

	// Public routes
	r.Get("/health", healthHandler)
	r.Get("/status", status.GetStatus)
	r.Handle("/metrics", metrics.Handler())

	r.Group(func(r chi.Router) {
		r.Use(d.auth.Middleware)

		r.Get("/agents", refs.GetAgents)
		r.Get("/dispositions", refs.GetDispositions)
		r.Get("/campaigns", reports.GetCampaigns)
		r.Post("/call-log-summary", reports.CallLogSummary)
		r.Post("/call-log-details", reports.CallLogDetails)
		r.Get("/leaderboard", perf.GetLeaderboard)
		r.Get("/agents/{agentId}/performance", perf.GetPerformance)
		r.Get("/ws", wsHandler.ServeHTTP)

		r.Route("/admin", func(r chi.Router) {
			r.Use(auth.RequireAdmin)
			r.Post("/sync", admin.TriggerSync)
		})
	})

	return r
}
