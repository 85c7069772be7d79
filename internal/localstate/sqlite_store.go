package localstate

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ridloal/e-commerce-go-storefront/internal/platform/logger"
)

type sqliteStore struct {
	db *sql.DB
}

func NewSQLiteStore(db *sql.DB) Store {
	return &sqliteStore{db: db}
}

func (s *sqliteStore) Get(ctx context.Context, key string) ([]byte, error) {
	query := `SELECT value FROM local_state WHERE state_key = ?`
	var value []byte
	err := s.db.QueryRowContext(ctx, query, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		logger.Error("SQLiteStore.Get: query failed for key %s", err, key)
		return nil, fmt.Errorf("failed to read local state %q: %w", key, err)
	}
	return value, nil
}

func (s *sqliteStore) Set(ctx context.Context, key string, value []byte) error {
	query := `
		INSERT INTO local_state (state_key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT (state_key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`
	if _, err := s.db.ExecContext(ctx, query, key, value); err != nil {
		logger.Error("SQLiteStore.Set: exec failed for key %s", err, key)
		return fmt.Errorf("failed to write local state %q: %w", key, err)
	}
	return nil
}

func (s *sqliteStore) Delete(ctx context.Context, key string) error {
	query := `DELETE FROM local_state WHERE state_key = ?`
	if _, err := s.db.ExecContext(ctx, query, key); err != nil {
		logger.Error("SQLiteStore.Delete: exec failed for key %s", err, key)
		return fmt.Errorf("failed to delete local state %q: %w", key, err)
	}
	return nil
}
