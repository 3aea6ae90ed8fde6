package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Andrew-LILO/agent-performance-dashboard/internal/auth"
	"github.com/Andrew-LILO/agent-performance-dashboard/internal/config"
	"github.com/Andrew-LILO/agent-performance-dashboard/internal/convoso"
	"github.com/Andrew-LILO/agent-performance-dashboard/internal/dailysync"
	"github.com/Andrew-LILO/agent-performance-dashboard/internal/reference"
	"github.com/Andrew-LILO/agent-performance-dashboard/internal/scheduler"
	"github.com/Andrew-LILO/agent-performance-dashboard/internal/storage"
	"github.com/Andrew-LILO/agent-performance-dashboard/internal/websocket"
)

const serviceName = "agent-performance-dashboard"

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Warn().Str("level", cfg.LogLevel).Msg("invalid log level, using info")
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	log.Info().
		Str("port", cfg.Port).
		Strs("allowed_origins", cfg.AllowedOrigins).
		Str("environment", cfg.Environment).
		Str("log_level", cfg.LogLevel).
		Msg("starting dashboard backend server")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tables, err := reference.Load(cfg.ReferenceDataFile)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load reference data")
	}

	client := convoso.NewClient(convoso.Options{
		BaseURL:   cfg.ConvosoBaseURL,
		AuthToken: cfg.ConvosoAuthToken,
		Timeout:   cfg.ConvosoTimeout,
		PageLimit: cfg.CallLogPageLimit,
	}, log.Logger)

	storageCfg := storage.Config{URL: cfg.DatabaseURL, MaxOpenConns: cfg.DBMaxOpenConns}
	store, err := storage.NewStore(ctx, storageCfg, log.Logger)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize storage")
	}
	defer store.Close()

	hub := websocket.NewHub(log.Logger)
	go hub.Run()

	syncer := dailysync.New(client, store, hub, dailysync.Options{
		AppointmentStatusIDs: cfg.AppointmentStatusIDs,
		EmailSentStatusIDs:   cfg.EmailSentStatusIDs,
		ChunkSize:            cfg.PerformanceChunkSize,
	}, log.Logger)

	sched, err := scheduler.New(syncer, cfg.SyncSchedule, cfg.SyncTimezone, log.Logger)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create sync scheduler")
	}
	if cfg.SyncEnabled {
		go sched.Start(ctx)
	} else {
		log.Warn().Msg("scheduled sync disabled")
	}

	authenticator := auth.New(auth.Config{
		Enabled:         cfg.AuthEnabled,
		VerifySignature: cfg.VerifyTokenSignatures(),
		OIDCIssuer:      cfg.OIDCIssuer,
	}, log.Logger)
	if !cfg.AuthEnabled {
		log.Warn().Msg("authentication disabled, requests run as a development admin")
	} else if !cfg.VerifyTokenSignatures() {
		log.Warn().Msg("ENV=development, token signatures are not verified")
	}

	router := newRouter(ctx, routerDeps{
		cfg:       cfg,
		tables:    tables,
		upstream:  client,
		store:     store,
		persisted: storageCfg.Mode() == storage.ModePostgres,
		hub:       hub,
		scheduler: sched,
		auth:      authenticator,
		logger:    log.Logger,
	})

	// Log collection for a wide summary can take minutes
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 10 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Msgf("server listening on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server...")

	// Stops the scheduler and any manual sync
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}

// healthHandler handles health check requests
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, `{"status":"ok","service":%q}`, serviceName)
}
