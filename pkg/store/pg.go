package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PGStore persists restrictions in PostgreSQL
type PGStore struct {
	pool *pgxpool.Pool
}

// NewPGStore connects, verifies the connection and creates the schema if needed
func NewPGStore(ctx context.Context, databaseURL string) (*PGStore, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	config.MaxConns = 10
	config.MinConns = 1
	config.MaxConnLifetime = 5 * time.Minute
	config.MaxConnIdleTime = 1 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("database unreachable: %w", err)
	}

	s := &PGStore{pool: pool}

	if err := s.migrate(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return s, nil
}

// migrate creates the restriction table
func (s *PGStore) migrate(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS restricted_nodes (
		node_id TEXT PRIMARY KEY,
		restricted_by TEXT NOT NULL DEFAULT '',
		updated_at TIMESTAMPTZ NOT NULL
	);
	`

	_, err := s.pool.Exec(ctx, schema)
	return err
}

// Load implements RestrictionStore.
func (s *PGStore) Load(ctx context.Context) ([]Restriction, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT node_id, restricted_by, updated_at
		FROM restricted_nodes
		ORDER BY node_id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to load restrictions: %w", err)
	}
	defer rows.Close()

	var out []Restriction
	for rows.Next() {
		var r Restriction
		if err := rows.Scan(&r.NodeID, &r.RestrictedBy, &r.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan restriction: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Set implements RestrictionStore.
func (s *PGStore) Set(ctx context.Context, r Restriction, restricted bool) error {
	if r.NodeID == "" {
		return ErrEmptyNodeID
	}

	if !restricted {
		if _, err := s.pool.Exec(ctx, `DELETE FROM restricted_nodes WHERE node_id = $1`, r.NodeID); err != nil {
			return fmt.Errorf("failed to clear restriction: %w", err)
		}
		return nil
	}

	if r.UpdatedAt.IsZero() {
		r.UpdatedAt = time.Now().UTC()
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO restricted_nodes (node_id, restricted_by, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (node_id) DO UPDATE
		SET restricted_by = EXCLUDED.restricted_by, updated_at = EXCLUDED.updated_at
	`, r.NodeID, r.RestrictedBy, r.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to set restriction: %w", err)
	}
	return nil
}

// Ping checks database connectivity
func (s *PGStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close closes the database connection pool
func (s *PGStore) Close() error {
	s.pool.Close()
	return nil
}
