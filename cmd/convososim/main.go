// Command convososim serves a deterministic fake of the call-center API for
// local development. Point CONVOSO_API_BASE_URL at it.
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Andrew-LILO/agent-performance-dashboard/internal/reference"
	"github.com/Andrew-LILO/agent-performance-dashboard/internal/upstreamsim"
)

func main() {
	var (
		port          = flag.String("port", "8090", "Listen port")
		authToken     = flag.String("auth-token", os.Getenv("CONVOSO_AUTH_TOKEN"), "Expected auth_token (empty accepts any)")
		seed          = flag.Int64("seed", 1, "Data generation seed")
		callsPerAgent = flag.Int("calls-per-agent", 40, "Average calls per agent per day")
		leads         = flag.Int("leads", 5000, "Number of distinct leads")
		referenceFile = flag.String("reference", os.Getenv("REFERENCE_DATA_FILE"), "Optional YAML roster and disposition file")
		logLevel      = flag.String("log-level", "info", "Log level (debug, info, warn, error)")
	)
	flag.Parse()

	level, err := zerolog.ParseLevel(*logLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	logger := log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).
		With().
		Str("service", "convososim").
		Logger()

	tables, err := reference.Load(*referenceFile)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load reference data")
	}

	sim := upstreamsim.New(upstreamsim.Options{
		AuthToken:     *authToken,
		Seed:          *seed,
		CallsPerAgent: *callsPerAgent,
		Leads:         *leads,
		Agents:        tables.Agents,
		Dispositions:  tables.Dispositions,
	}, logger)

	srv := &http.Server{
		Addr:         ":" + *port,
		Handler:      sim.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	go func() {
		logger.Info().
			Str("port", *port).
			Int("agents", len(tables.Agents)).
			Int64("seed", *seed).
			Msg("simulator listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("failed to start simulator")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down simulator...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("simulator forced to shutdown")
	}
}
