package migration

import (
	"context"
	"log/slog"

	"github.com/jackc/pgx/v4/pgxpool"
)

// RunMigrations creates the session tables. Every step is idempotent so it
// is safe to run on each start.
func RunMigrations(ctx context.Context, pool *pgxpool.Pool) error {
	slog.Info("Starting database migrations")

	for _, m := range Migrations() {
		if err := m.Up(ctx, pool); err != nil {
			slog.Error("Migration failed", "name", m.Name, "error", err)
			return err
		}
		slog.Info("Migration completed", "name", m.Name)
	}

	slog.Info("All migrations completed successfully")
	return nil
}

// Migration represents a database migration
type Migration struct {
	Name string
	Up   func(ctx context.Context, pool *pgxpool.Pool) error
}

func Migrations() []Migration {
	return []Migration{
		{Name: "create_sessions_table", Up: execStep(createSessionsTable)},
		{Name: "create_results_table", Up: execStep(createResultsTable)},
		{Name: "index_sessions_created_at", Up: execStep(indexSessionsCreatedAt)},
	}
}

const createSessionsTable = `
	CREATE TABLE IF NOT EXISTS sessions (
		session_id      TEXT PRIMARY KEY,
		job_description TEXT NOT NULL,
		questions       JSONB NOT NULL,
		answers         JSONB NOT NULL DEFAULT '[]'::jsonb,
		created_at      TIMESTAMPTZ NOT NULL DEFAULT now(),
		completed_at    TIMESTAMPTZ
	);
`

const createResultsTable = `
	CREATE TABLE IF NOT EXISTS results (
		id            UUID PRIMARY KEY,
		session_id    TEXT NOT NULL UNIQUE REFERENCES sessions (session_id) ON DELETE CASCADE,
		overall_score INTEGER NOT NULL CHECK (overall_score BETWEEN 0 AND 100),
		grade         TEXT NOT NULL,
		summary       TEXT NOT NULL,
		strengths     JSONB NOT NULL DEFAULT '[]'::jsonb,
		weaknesses    JSONB NOT NULL DEFAULT '[]'::jsonb,
		feedback      JSONB NOT NULL DEFAULT '[]'::jsonb,
		created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
	);
`

const indexSessionsCreatedAt = `
	CREATE INDEX IF NOT EXISTS sessions_created_at_idx ON sessions (created_at);
`

func execStep(query string) func(ctx context.Context, pool *pgxpool.Pool) error {
	return func(ctx context.Context, pool *pgxpool.Pool) error {
		_, err := pool.Exec(ctx, query)
		return err
	}
}
