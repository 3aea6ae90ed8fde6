package storage

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Mode represents the persistence backend
type Mode string

const (
	ModePostgres Mode = "postgres"
	ModeNone     Mode = "none"
)

// Config holds database configuration
type Config struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// Mode returns the backend selected by the configuration
func (c Config) Mode() Mode {
	if c.URL == "" {
		return ModeNone
	}
	return ModePostgres
}

// NewStore opens the configured store, falling back to a NoopStore when no
// database URL is set
func NewStore(ctx context.Context, cfg Config, logger zerolog.Logger) (Store, error) {
	if cfg.Mode() == ModeNone {
		logger.Warn().Msg("DATABASE_URL not set, performance data will not be persisted")
		return NewNoopStore(), nil
	}
	return NewPostgresStore(ctx, cfg, logger)
}
