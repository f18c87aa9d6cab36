// Package postgres stores interview submissions in a PostgreSQL table as
// JSONB documents.
package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const DefaultTable = "candidates"

// Store wraps a PostgreSQL connection pool.
type Store struct {
	pool  *pgxpool.Pool
	table string
}

// Connect establishes a connection pool and verifies it.
func Connect(ctx context.Context, dsn, table string) (*Store, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if table = strings.TrimSpace(table); table == "" {
		table = DefaultTable
	}

	return &Store{pool: pool, table: table}, nil
}

func (s *Store) tableName() string {
	return pgx.Identifier{s.table}.Sanitize()
}

// EnsureSchema creates the submissions table when missing.
func (s *Store) EnsureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		id UUID PRIMARY KEY,
		email TEXT NOT NULL DEFAULT '',
		interview_status TEXT NOT NULL,
		payload JSONB NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`, s.tableName()))
	if err != nil {
		return fmt.Errorf("failed to create table %s: %w", s.table, err)
	}
	return nil
}

// Insert upserts the submission fields under the given id.
func (s *Store) Insert(ctx context.Context, id string, fields map[string]any) error {
	key, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid submission id %q: %w", id, err)
	}

	payload, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("failed to marshal submission: %w", err)
	}

	email, _ := fields["email"].(string)
	status, _ := fields["interview_status"].(string)

	_, err = s.pool.Exec(ctx, fmt.Sprintf(
		`INSERT INTO %s (id, email, interview_status, payload)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (id) DO UPDATE SET email = $2, interview_status = $3, payload = $4`,
		s.tableName()),
		key, email, status, payload,
	)
	if err != nil {
		return fmt.Errorf("failed to insert submission: %w", err)
	}
	return nil
}

// Get loads the stored fields of a submission.
func (s *Store) Get(ctx context.Context, id string) (map[string]any, error) {
	key, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid submission id %q: %w", id, err)
	}

	var payload []byte
	err = s.pool.QueryRow(ctx,
		fmt.Sprintf(`SELECT payload FROM %s WHERE id = $1`, s.tableName()),
		key,
	).Scan(&payload)
	if err != nil {
		return nil, fmt.Errorf("failed to get submission: %w", err)
	}

	fields := make(map[string]any)
	if err := json.Unmarshal(payload, &fields); err != nil {
		return nil, fmt.Errorf("failed to unmarshal submission: %w", err)
	}
	return fields, nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close closes the connection pool.
func (s *Store) Close() error {
	if s.pool != nil {
		s.pool.Close()
	}
	return nil
}
