package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

const createSettingsTableSQL = `
CREATE TABLE IF NOT EXISTS settings (
    key TEXT PRIMARY KEY,
    value INTEGER NOT NULL
);
`

const createRoundsTableSQL = `
CREATE TABLE IF NOT EXISTS rounds (
    round_id TEXT PRIMARY KEY,
    score INTEGER NOT NULL,
    ended_at TIMESTAMP NOT NULL
);
`

type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(ctx context.Context, path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %v", err)
	}

	for _, q := range []string{createSettingsTableSQL, createRoundsTableSQL} {
		if _, err := db.ExecContext(ctx, q); err != nil {
			return nil, fmt.Errorf("failed to create schema: %v", err)
		}
	}

	return &SQLiteStore{
		db: db,
	}, nil
}

func (s *SQLiteStore) Get(ctx context.Context, key string) (int, error) {
	q := `
	SELECT value FROM settings WHERE key = ?;
	`
	var value int
	if err := s.db.QueryRowContext(ctx, q, key).Scan(&value); err != nil {
		if err == sql.ErrNoRows {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to scan value: %v", err)
	}

	return value, nil
}

func (s *SQLiteStore) Set(ctx context.Context, key string, value int) error {
	q := `
	INSERT OR REPLACE INTO settings (key, value)
	VALUES (?, ?);
	`
	if _, err := s.db.ExecContext(ctx, q, key, value); err != nil {
		return fmt.Errorf("failed to insert value: %v", err)
	}

	return nil
}

func (s *SQLiteStore) RecordRound(ctx context.Context, roundID uuid.UUID, score int, endedAt time.Time) error {
	q := `
	INSERT OR REPLACE INTO rounds (round_id, score, ended_at)
	VALUES (?, ?, ?);
	`
	if _, err := s.db.ExecContext(ctx, q, roundID.String(), score, endedAt); err != nil {
		return fmt.Errorf("failed to insert round: %v", err)
	}

	return nil
}

func (s *SQLiteStore) Close(ctx context.Context) error {
	return s.db.Close()
}
