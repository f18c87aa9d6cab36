// Package sqlite stores interview submissions in a local SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"
)

var ErrNotFound = errors.New("submission not found")

const schema = `CREATE TABLE IF NOT EXISTS submissions (
	id TEXT PRIMARY KEY,
	email TEXT NOT NULL DEFAULT '',
	interview_status TEXT NOT NULL DEFAULT '',
	payload TEXT NOT NULL,
	created_at TEXT NOT NULL DEFAULT (datetime('now'))
)`

// Store is a SQLite-backed submission store.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens or creates the database at path and applies the schema.
func Open(ctx context.Context, path string) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("sqlite path is required")
	}

	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("creating db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			db.Close()
			return nil, fmt.Errorf("setting pragma %q: %w", p, err)
		}
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Store{db: db, path: path}, nil
}

// Insert upserts the submission fields under the given id.
func (s *Store) Insert(ctx context.Context, id string, fields map[string]any) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("submission id is required")
	}

	payload, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("marshal submission: %w", err)
	}

	email, _ := fields["email"].(string)
	status, _ := fields["interview_status"].(string)

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO submissions (id, email, interview_status, payload)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			email = excluded.email,
			interview_status = excluded.interview_status,
			payload = excluded.payload`,
		id, email, status, string(payload),
	)
	if err != nil {
		return fmt.Errorf("inserting submission: %w", err)
	}
	return nil
}

// Get loads the stored fields of a submission.
func (s *Store) Get(ctx context.Context, id string) (map[string]any, error) {
	var payload string
	err := s.db.QueryRowContext(ctx, `SELECT payload FROM submissions WHERE id = ?`, id).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying submission: %w", err)
	}

	fields := make(map[string]any)
	if err := json.Unmarshal([]byte(payload), &fields); err != nil {
		return nil, fmt.Errorf("unmarshal submission: %w", err)
	}
	return fields, nil
}

// CountByStatus returns how many submissions ended with the given status.
func (s *Store) CountByStatus(ctx context.Context, status string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM submissions WHERE interview_status = ?`, status,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting submissions: %w", err)
	}
	return n, nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}
