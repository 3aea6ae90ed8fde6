package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rs/zerolog"
)

var schema = []struct {
	name string
	ddl  string
}{
	{
		name: "agents",
		ddl: `CREATE TABLE IF NOT EXISTS agents (
			id BIGSERIAL PRIMARY KEY,
			id_convoso_agent TEXT NOT NULL UNIQUE,
			name_convoso_agent TEXT NOT NULL,
			email_convoso_agent TEXT,
			is_active_agent BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
	},
	{
		name: "agent_performance_logs",
		ddl: `CREATE TABLE IF NOT EXISTS agent_performance_logs (
			id BIGSERIAL PRIMARY KEY,
			agent_id_convoso TEXT NOT NULL REFERENCES agents (id_convoso_agent),
			period_start_time TIMESTAMPTZ NOT NULL,
			period_end_time TIMESTAMPTZ NOT NULL,
			total_interactions INTEGER NOT NULL DEFAULT 0,
			appointments_set INTEGER NOT NULL DEFAULT 0,
			emails_sent INTEGER NOT NULL DEFAULT 0,
			talk_seconds INTEGER NOT NULL DEFAULT 0,
			pause_seconds INTEGER NOT NULL DEFAULT 0,
			wait_seconds INTEGER NOT NULL DEFAULT 0,
			wrap_up_seconds INTEGER NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
	},
	{
		name: "agent_performance_logs_agent_period_idx",
		ddl: `CREATE INDEX IF NOT EXISTS agent_performance_logs_agent_period_idx
			ON agent_performance_logs (agent_id_convoso, period_start_time)`,
	},
}

// CreateTablesIfNotExist bootstraps the schema
func CreateTablesIfNotExist(ctx context.Context, db *sql.DB, logger zerolog.Logger) error {
	for _, obj := range schema {
		if _, err := db.ExecContext(ctx, obj.ddl); err != nil {
			return fmt.Errorf("failed to create %s: %w", obj.name, err)
		}
		logger.Debug().Str("object", obj.name).Msg("schema object ready")
	}
	return nil
}
