package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type PostgresStore struct {
	conn *pgx.Conn
}

// NewPostgresStore connects to the database and bootstraps the schema.
// The caller is responsible for calling Close() on the store.
func NewPostgresStore(ctx context.Context, connStr string) (*PostgresStore, error) {
	conn, err := pgx.Connect(ctx, connStr)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %v", err)
	}

	schema := []string{
		`CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS rounds (
			round_id TEXT PRIMARY KEY,
			score INTEGER NOT NULL,
			ended_at TIMESTAMPTZ NOT NULL
		);`,
	}
	for _, q := range schema {
		if _, err := conn.Exec(ctx, q); err != nil {
			return nil, fmt.Errorf("failed to create schema: %v", err)
		}
	}

	return &PostgresStore{
		conn: conn,
	}, nil
}

func (s *PostgresStore) Get(ctx context.Context, key string) (int, error) {
	q := `
	SELECT value FROM settings WHERE key = $1;
	`
	var value int
	if err := s.conn.QueryRow(ctx, q, key).Scan(&value); err != nil {
		if err == pgx.ErrNoRows {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to scan value: %v", err)
	}

	return value, nil
}

func (s *PostgresStore) Set(ctx context.Context, key string, value int) error {
	q := `
	INSERT INTO settings (key, value) VALUES ($1, $2)
	ON CONFLICT (key) DO UPDATE SET value = $2;
	`
	if _, err := s.conn.Exec(ctx, q, key, value); err != nil {
		return fmt.Errorf("failed to insert value: %v", err)
	}

	return nil
}

func (s *PostgresStore) RecordRound(ctx context.Context, roundID uuid.UUID, score int, endedAt time.Time) error {
	q := `
	INSERT INTO rounds (round_id, score, ended_at) VALUES ($1, $2, $3)
	ON CONFLICT (round_id) DO NOTHING;
	`
	if _, err := s.conn.Exec(ctx, q, roundID.String(), score, endedAt); err != nil {
		return fmt.Errorf("failed to insert round: %v", err)
	}

	return nil
}

func (s *PostgresStore) Close(ctx context.Context) error {
	return s.conn.Close(ctx)
}
