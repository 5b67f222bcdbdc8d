package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rasa-media/rasa-server/internal/store"
)

// GetInstanceValue reads a key from the instance identity table.
// Returns store.ErrNotFound if the key has never been set.
func (s *Store) GetInstanceValue(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM instance WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", store.ErrNotFound.WithMessage(fmt.Sprintf("instance key %q not set", key))
	}
	if err != nil {
		return "", fmt.Errorf("query instance key: %w", err)
	}
	return value, nil
}

// SetInstanceValue writes a key in the instance identity table,
// overwriting any previous value.
func (s *Store) SetInstanceValue(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO instance (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value)
	if err != nil {
		return fmt.Errorf("set instance key: %w", err)
	}
	return nil
}
