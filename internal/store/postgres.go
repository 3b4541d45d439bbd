package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/inamate/sketchboard/internal/document"
)

const schema = `
CREATE TABLE IF NOT EXISTS boards (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	version    INTEGER NOT NULL,
	document   JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// PostgresStore keeps the latest snapshot of each board in one row.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPool connects and pings.
func NewPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return pool, nil
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Migrate creates the boards table if it does not exist.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

func (s *PostgresStore) Save(ctx context.Context, b *document.Board) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	var version int
	err = tx.QueryRow(ctx, `SELECT version FROM boards WHERE id = $1 FOR UPDATE`, b.ID).Scan(&version)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
	case err != nil:
		return fmt.Errorf("get version: %w", err)
	case version != b.Version:
		return fmt.Errorf("%w: stored version %d, snapshot version %d", ErrConflict, version, b.Version)
	}

	now := time.Now().UTC()
	b.Version = version + 1
	b.UpdatedAt = now.Format(time.RFC3339)
	if b.CreatedAt == "" {
		b.CreatedAt = b.UpdatedAt
	}
	doc, err := json.Marshal(b)
	if err != nil {
		return fmt.Errorf("marshal board: %w", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO boards (id, name, version, document, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE
		SET name = EXCLUDED.name, version = EXCLUDED.version,
		    document = EXCLUDED.document, updated_at = EXCLUDED.updated_at`,
		b.ID, b.Name, b.Version, doc, now)
	if err != nil {
		return fmt.Errorf("upsert board: %w", err)
	}
	return tx.Commit(ctx)
}

func (s *PostgresStore) Load(ctx context.Context, id string) (*document.Board, error) {
	var doc []byte
	err := s.pool.QueryRow(ctx, `SELECT document FROM boards WHERE id = $1`, id).Scan(&doc)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get board: %w", err)
	}
	return document.Parse(doc)
}

func (s *PostgresStore) List(ctx context.Context) ([]Summary, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, name, version, jsonb_array_length(document->'shapes'), updated_at
		FROM boards ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list boards: %w", err)
	}
	defer rows.Close()

	var out []Summary
	for rows.Next() {
		var (
			sum     Summary
			updated time.Time
		)
		if err := rows.Scan(&sum.ID, &sum.Name, &sum.Version, &sum.Shapes, &updated); err != nil {
			return nil, fmt.Errorf("scan board: %w", err)
		}
		sum.UpdatedAt = updated.UTC().Format(time.RFC3339)
		out = append(out, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list boards: %w", err)
	}
	return out, nil
}
