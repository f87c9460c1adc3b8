package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// GetSyncState returns the stored value for key, or "" when none exists.
// Used for incremental import positions such as the Plaid sync cursor.
func (s *SQLiteStorage) GetSyncState(ctx context.Context, key string) (string, error) {
	if err := validateContext(ctx); err != nil {
		return "", err
	}
	if err := validateString(key, "key"); err != nil {
		return "", err
	}

	var value string
	err := s.db.QueryRowContext(ctx, "SELECT value FROM sync_state WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get sync state %q: %w", key, err)
	}
	return value, nil
}

// SetSyncState stores value under key, replacing any previous value.
func (s *SQLiteStorage) SetSyncState(ctx context.Context, key, value string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(key, "key"); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sync_state (key, value, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			updated_at = CURRENT_TIMESTAMP
	`, key, value)
	if err != nil {
		return fmt.Errorf("failed to set sync state %q: %w", key, err)
	}
	return nil
}
