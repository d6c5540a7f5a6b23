// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package history keeps a journal of conversion attempts in SQLite.
// The journal is write-mostly and is never consulted during a conversion.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/puml-render/pkg/types"
)

const defaultMaxResults = 20

// Store manages the conversion journal database.
type Store struct {
	db         *sql.DB
	path       string
	maxResults int
}

// Open opens or creates the journal at cfg.DBPath, creating parent
// directories and the schema when missing.
func Open(cfg types.HistoryConfig) (*Store, error) {
	if !cfg.Enabled() {
		return nil, fmt.Errorf("history database path not configured")
	}
	if dir := filepath.Dir(cfg.DBPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating history directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", cfg.DBPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}

	s := &Store{db: db, path: cfg.DBPath, maxResults: maxResults}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS conversions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			source_path TEXT NOT NULL,
			format TEXT NOT NULL,
			output_path TEXT NOT NULL,
			engine TEXT NOT NULL,
			succeeded INTEGER NOT NULL,
			exit_code INTEGER NOT NULL,
			stderr TEXT,
			duration_ms INTEGER NOT NULL,
			created_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_conversions_source ON conversions(source_path)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Record appends one conversion attempt and returns its row ID.
func (s *Store) Record(ctx context.Context, rec types.HistoryRecord) (int64, error) {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO conversions
			(source_path, format, output_path, engine, succeeded, exit_code, stderr, duration_ms, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.SourcePath, string(rec.Format), rec.OutputPath, rec.Engine,
		rec.Succeeded, rec.ExitCode, rec.Stderr,
		rec.Duration.Milliseconds(), rec.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return 0, fmt.Errorf("recording conversion of %s: %w", rec.SourcePath, err)
	}
	return res.LastInsertId()
}

// ListOptions filters List results.
type ListOptions struct {
	// SourcePath restricts results to one diagram file.
	SourcePath string

	// FailedOnly restricts results to failed conversions.
	FailedOnly bool

	// MaxResults limits result count. Zero uses the store default.
	MaxResults int
}

// List returns recorded conversions, newest first.
func (s *Store) List(ctx context.Context, opts ListOptions) ([]types.HistoryRecord, error) {
	limit := opts.MaxResults
	if limit <= 0 {
		limit = s.maxResults
	}
	return s.query(ctx, opts, limit)
}

func (s *Store) query(ctx context.Context, opts ListOptions, limit int) ([]types.HistoryRecord, error) {
	q := `SELECT id, source_path, format, output_path, engine, succeeded,
			exit_code, stderr, duration_ms, created_at
		FROM conversions WHERE 1=1`
	var args []any
	if opts.SourcePath != "" {
		q += ` AND source_path = ?`
		args = append(args, opts.SourcePath)
	}
	if opts.FailedOnly {
		q += ` AND succeeded = 0`
	}
	q += ` ORDER BY id DESC LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("querying history: %w", err)
	}
	defer rows.Close()

	var records []types.HistoryRecord
	for rows.Next() {
		var (
			rec        types.HistoryRecord
			format     string
			stderr     sql.NullString
			durationMS int64
			createdAt  string
		)
		if err := rows.Scan(&rec.ID, &rec.SourcePath, &format, &rec.OutputPath, &rec.Engine,
			&rec.Succeeded, &rec.ExitCode, &stderr, &durationMS, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning history row: %w", err)
		}
		rec.Format = types.Format(format)
		rec.Stderr = stderr.String
		rec.Duration = time.Duration(durationMS) * time.Millisecond
		rec.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
		records = append(records, rec)
	}
	return records, rows.Err()
}
