package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"
	"github.com/rs/zerolog"

	"github.com/Andrew-LILO/agent-performance-dashboard/internal/types"
)

// uniqueViolation is the Postgres error code for a unique constraint failure
const uniqueViolation = "23505"

var performanceColumns = []string{
	"agent_id_convoso",
	"period_start_time",
	"period_end_time",
	"total_interactions",
	"appointments_set",
	"emails_sent",
	"talk_seconds",
	"pause_seconds",
	"wait_seconds",
	"wrap_up_seconds",
}

// PostgresStore implements Store on PostgreSQL
type PostgresStore struct {
	db     *sql.DB
	logger zerolog.Logger
}

// NewPostgresStore opens the connection pool, verifies it and bootstraps the schema
func NewPostgresStore(ctx context.Context, cfg Config, logger zerolog.Logger) (*PostgresStore, error) {
	db, err := sql.Open("postgres", cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	store := newPostgresStore(db, logger)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := store.Ping(pingCtx); err != nil {
		db.Close()
		return nil, err
	}

	if err := CreateTablesIfNotExist(ctx, db, store.logger); err != nil {
		db.Close()
		return nil, err
	}

	store.logger.Info().
		Int("max_open_conns", cfg.MaxOpenConns).
		Msg("postgres store initialized")

	return store, nil
}

func newPostgresStore(db *sql.DB, logger zerolog.Logger) *PostgresStore {
	return &PostgresStore{
		db:     db,
		logger: logger.With().Str("component", "storage").Logger(),
	}
}

// EnsureAgent makes sure an agent row exists for agentID. An existing row
// gets its name (and a non-empty differing email) refreshed; a failed refresh
// is logged and still counts as success. A concurrent insert of the same
// agent also counts as success.
func (s *PostgresStore) EnsureAgent(ctx context.Context, agentID, name, email string) error {
	if agentID == "" || name == "" {
		return fmt.Errorf("ensure agent: id and name are required")
	}

	var (
		id            int64
		existingName  string
		existingEmail sql.NullString
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name_convoso_agent, email_convoso_agent FROM agents WHERE id_convoso_agent = $1`,
		agentID,
	).Scan(&id, &existingName, &existingEmail)

	switch {
	case errors.Is(err, sql.ErrNoRows):
		return s.insertAgent(ctx, agentID, name, email)
	case err != nil:
		return fmt.Errorf("find agent %s: %w", agentID, err)
	}

	var (
		sets []string
		args []any
	)
	if existingName != name {
		args = append(args, name)
		sets = append(sets, fmt.Sprintf("name_convoso_agent = $%d", len(args)))
	}
	if email != "" && existingEmail.String != email {
		args = append(args, email)
		sets = append(sets, fmt.Sprintf("email_convoso_agent = $%d", len(args)))
	}
	if len(sets) == 0 {
		return nil
	}

	args = append(args, id)
	query := fmt.Sprintf("UPDATE agents SET %s WHERE id = $%d", strings.Join(sets, ", "), len(args))
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		s.logger.Warn().Err(err).Str("agent_id", agentID).Msg("failed to update agent")
		return nil
	}

	s.logger.Debug().Str("agent_id", agentID).Msg("agent updated")
	return nil
}

func (s *PostgresStore) insertAgent(ctx context.Context, agentID, name, email string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO agents (id_convoso_agent, name_convoso_agent, email_convoso_agent, is_active_agent) VALUES ($1, $2, $3, TRUE)`,
		agentID, name, sql.NullString{String: email, Valid: email != ""},
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			s.logger.Debug().Str("agent_id", agentID).Msg("agent created concurrently")
			return nil
		}
		return fmt.Errorf("insert agent %s: %w", agentID, err)
	}

	s.logger.Info().Str("agent_id", agentID).Str("name", name).Msg("agent created")
	return nil
}

// InsertPerformanceLogs writes rows in one transaction with a single
// multi-row insert
func (s *PostgresStore) InsertPerformanceLogs(ctx context.Context, rows []types.AgentPerformance) error {
	if len(rows) == 0 {
		return nil
	}

	placeholders := make([]string, 0, len(rows))
	args := make([]any, 0, len(rows)*len(performanceColumns))
	for _, row := range rows {
		marks := make([]string, len(performanceColumns))
		for i := range marks {
			marks[i] = fmt.Sprintf("$%d", len(args)+i+1)
		}
		placeholders = append(placeholders, "("+strings.Join(marks, ", ")+")")
		args = append(args,
			row.AgentID,
			row.PeriodStart,
			row.PeriodEnd,
			row.TotalInteractions,
			row.AppointmentsSet,
			row.EmailsSent,
			row.TalkSeconds,
			row.PauseSeconds,
			row.WaitSeconds,
			row.WrapUpSeconds,
		)
	}

	query := fmt.Sprintf("INSERT INTO agent_performance_logs (%s) VALUES %s",
		strings.Join(performanceColumns, ", "),
		strings.Join(placeholders, ", "),
	)

	return s.withTransaction(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert performance logs: %w", err)
		}
		return nil
	})
}

// Leaderboard sums performance rows whose period starts in [from, to)
func (s *PostgresStore) Leaderboard(ctx context.Context, from, to time.Time) ([]types.LeaderboardEntry, error) {
	query := `
		SELECT l.agent_id_convoso,
			COALESCE(a.name_convoso_agent, l.agent_id_convoso),
			COUNT(*),
			COALESCE(SUM(l.total_interactions), 0),
			COALESCE(SUM(l.appointments_set), 0),
			COALESCE(SUM(l.emails_sent), 0),
			COALESCE(SUM(l.talk_seconds), 0)
		FROM agent_performance_logs l
		LEFT JOIN agents a ON a.id_convoso_agent = l.agent_id_convoso
		WHERE l.period_start_time >= $1 AND l.period_start_time < $2
		GROUP BY l.agent_id_convoso, a.name_convoso_agent
		ORDER BY 5 DESC, 4 DESC, l.agent_id_convoso
	`

	rows, err := s.db.QueryContext(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("query leaderboard: %w", err)
	}
	defer rows.Close()

	var entries []types.LeaderboardEntry
	for rows.Next() {
		var e types.LeaderboardEntry
		if err := rows.Scan(
			&e.AgentID, &e.Name, &e.Days,
			&e.TotalInteractions, &e.AppointmentsSet, &e.EmailsSent, &e.TalkSeconds,
		); err != nil {
			return nil, fmt.Errorf("scan leaderboard: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return entries, nil
}

// AgentHistory returns the most recent performance rows for one agent
func (s *PostgresStore) AgentHistory(ctx context.Context, agentID string, limit int) ([]types.AgentPerformance, error) {
	if limit <= 0 {
		limit = 30
	}

	query := `
		SELECT l.agent_id_convoso,
			COALESCE(a.name_convoso_agent, ''),
			COALESCE(a.email_convoso_agent, ''),
			l.period_start_time, l.period_end_time,
			l.total_interactions, l.appointments_set, l.emails_sent,
			l.talk_seconds, l.pause_seconds, l.wait_seconds, l.wrap_up_seconds
		FROM agent_performance_logs l
		LEFT JOIN agents a ON a.id_convoso_agent = l.agent_id_convoso
		WHERE l.agent_id_convoso = $1
		ORDER BY l.period_start_time DESC
		LIMIT $2
	`

	rows, err := s.db.QueryContext(ctx, query, agentID, limit)
	if err != nil {
		return nil, fmt.Errorf("query agent history: %w", err)
	}
	defer rows.Close()

	var history []types.AgentPerformance
	for rows.Next() {
		var p types.AgentPerformance
		if err := rows.Scan(
			&p.AgentID, &p.Name, &p.Email,
			&p.PeriodStart, &p.PeriodEnd,
			&p.TotalInteractions, &p.AppointmentsSet, &p.EmailsSent,
			&p.TalkSeconds, &p.PauseSeconds, &p.WaitSeconds, &p.WrapUpSeconds,
		); err != nil {
			return nil, fmt.Errorf("scan agent history: %w", err)
		}
		history = append(history, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return history, nil
}

// Ping checks the database connection
func (s *PostgresStore) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}
	return nil
}

// Close closes the connection pool
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

// withTransaction commits when fn succeeds and rolls back otherwise
func (s *PostgresStore) withTransaction(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("transaction error: %v, rollback error: %w", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
