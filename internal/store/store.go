// Package store keeps a per-run scrape history in SQLite. It is
// operational bookkeeping for the operator; the feed itself lives in
// the JSON output files.
package store

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog"
	_ "modernc.org/sqlite" // SQLite driver
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

// Run is one source's outcome within a pipeline run.
type Run struct {
	ID         string
	Source     string
	Status     string
	MovieCount int
	Error      string
	StartedAt  time.Time
	FinishedAt time.Time
}

// Store wraps the history database.
type Store struct {
	conn   *sql.DB
	logger zerolog.Logger
}

// Open opens (creating if necessary) the history database and applies
// pending migrations.
func Open(path string, logger zerolog.Logger) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	dsn := fmt.Sprintf("%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)", path)
	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer.
	conn.SetMaxOpenConns(1)
	conn.SetMaxIdleConns(1)

	if err := conn.PingContext(context.Background()); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := &Store{
		conn:   conn,
		logger: logger.With().Str("component", "store").Logger(),
	}
	if err := store.migrate(); err != nil {
		conn.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.conn.Close()
}

func (s *Store) migrate() error {
	goose.SetBaseFS(embedMigrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}
	if err := goose.Up(s.conn, "migrations"); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// RecordRun inserts one source outcome and returns its generated ID.
func (s *Store) RecordRun(ctx context.Context, run Run) (string, error) {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}

	_, err := s.conn.ExecContext(ctx, `
		INSERT INTO scrape_runs (id, source, status, movie_count, error, started_at, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Source, run.Status, run.MovieCount,
		sql.NullString{String: run.Error, Valid: run.Error != ""},
		run.StartedAt.UTC(), run.FinishedAt.UTC(),
	)
	if err != nil {
		return "", fmt.Errorf("failed to record run: %w", err)
	}

	s.logger.Debug().
		Str("runId", run.ID).
		Str("source", run.Source).
		Str("status", run.Status).
		Int("movies", run.MovieCount).
		Msg("Recorded scrape run")

	return run.ID, nil
}

// RecentRuns returns the most recent runs for a source, newest first.
// An empty source returns runs across all sources.
func (s *Store) RecentRuns(ctx context.Context, source string, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `
		SELECT id, source, status, movie_count, COALESCE(error, ''), started_at, finished_at
		FROM scrape_runs`
	args := []any{}
	if source != "" {
		query += ` WHERE source = ?`
		args = append(args, source)
	}
	query += ` ORDER BY started_at DESC LIMIT ?`
	args = append(args, limit)

	rows, err := s.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		if err := rows.Scan(&run.ID, &run.Source, &run.Status, &run.MovieCount,
			&run.Error, &run.StartedAt, &run.FinishedAt); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}
