// Package postgres provides a Postgres-backed store.Store using database/sql
// and the lib/pq driver. The schema is bootstrapped on construction so demo
// deployments need no migration step.
package postgres

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq" // registers the "postgres" driver

	"github.com/pronetheia/agenthub/store"
)

const schemaDDL = `
CREATE TABLE IF NOT EXISTS mcp_tools (
	name           TEXT PRIMARY KEY,
	id             TEXT NOT NULL,
	category       TEXT NOT NULL,
	description    TEXT NOT NULL DEFAULT '',
	security_level TEXT NOT NULL DEFAULT 'safe',
	timeout_ms     BIGINT NOT NULL DEFAULT 0,
	input_schema   TEXT NOT NULL DEFAULT '{}',
	output_schema  TEXT NOT NULL DEFAULT '{}',
	is_active      BOOLEAN NOT NULL DEFAULT TRUE
);

CREATE TABLE IF NOT EXISTS mcp_tool_executions (
	id                TEXT PRIMARY KEY,
	tool_name         TEXT NOT NULL,
	requesting_agent  TEXT NOT NULL,
	input_params      TEXT NOT NULL DEFAULT '{}',
	output            TEXT,
	status            TEXT NOT NULL,
	error_message     TEXT,
	execution_time_ms BIGINT NOT NULL DEFAULT 0,
	started_at        TIMESTAMPTZ NOT NULL,
	completed_at      TIMESTAMPTZ NOT NULL
);
`

// Store persists tool metadata and audit rows in Postgres.
type Store struct {
	db *sql.DB
}

// Open connects to the given DSN and bootstraps the schema.
func Open(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	s := &Store{db: db}
	if _, err := db.ExecContext(ctx, schemaDDL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("bootstrap schema: %w", err)
	}
	return s, nil
}

// NewFromDB wraps an existing connection pool without schema bootstrap.
func NewFromDB(db *sql.DB) *Store { return &Store{db: db} }

// DB exposes the underlying pool, used by the database query tool.
func (s *Store) DB() *sql.DB { return s.db }

// Close releases the connection pool.
func (s *Store) Close() error { return s.db.Close() }

// UpsertTool inserts or reactivates the tool descriptor by name.
func (s *Store) UpsertTool(ctx context.Context, rec store.ToolRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO mcp_tools (name, id, category, description, security_level, timeout_ms, input_schema, output_schema, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, TRUE)
		ON CONFLICT (name) DO UPDATE SET
			category = EXCLUDED.category,
			description = EXCLUDED.description,
			security_level = EXCLUDED.security_level,
			timeout_ms = EXCLUDED.timeout_ms,
			input_schema = EXCLUDED.input_schema,
			output_schema = EXCLUDED.output_schema,
			is_active = TRUE`,
		rec.Name, rec.ID, rec.Category, rec.Description, rec.SecurityLevel,
		rec.TimeoutMs, rec.InputSchema, rec.OutputSchema)
	if err != nil {
		return fmt.Errorf("upsert tool %q: %w", rec.Name, err)
	}
	return nil
}

// InsertExecution appends one audit row.
func (s *Store) InsertExecution(ctx context.Context, rec store.ExecutionRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO mcp_tool_executions
			(id, tool_name, requesting_agent, input_params, output, status, error_message, execution_time_ms, started_at, completed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		rec.ID, rec.ToolName, rec.RequestingAgent, rec.InputParams,
		nullable(rec.Output), rec.Status, nullable(rec.ErrorMessage),
		rec.ExecutionTimeMs, rec.StartedAt, rec.CompletedAt)
	if err != nil {
		return fmt.Errorf("insert execution for %q: %w", rec.ToolName, err)
	}
	return nil
}

// Executions returns audit rows for the tool name, oldest first.
func (s *Store) Executions(ctx context.Context, toolName string) ([]store.ExecutionRecord, error) {
	query := `
		SELECT id, tool_name, requesting_agent, input_params, COALESCE(output, ''),
			status, COALESCE(error_message, ''), execution_time_ms, started_at, completed_at
		FROM mcp_tool_executions`
	args := []any{}
	if toolName != "" {
		query += ` WHERE tool_name = $1`
		args = append(args, toolName)
	}
	query += ` ORDER BY started_at ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query executions: %w", err)
	}
	defer rows.Close()

	var out []store.ExecutionRecord
	for rows.Next() {
		var rec store.ExecutionRecord
		if err := rows.Scan(&rec.ID, &rec.ToolName, &rec.RequestingAgent, &rec.InputParams,
			&rec.Output, &rec.Status, &rec.ErrorMessage, &rec.ExecutionTimeMs,
			&rec.StartedAt, &rec.CompletedAt); err != nil {
			return nil, fmt.Errorf("scan execution: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
