package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rasa-media/rasa-server/internal/domain"
)

// GetSyncState reads the sync bookkeeping singleton. The row is seeded by
// the first migration, so a missing row means the schema was tampered with.
func (s *Store) GetSyncState(ctx context.Context) (*domain.SyncState, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT status, revision, last_success_at, last_attempt_at, last_error
		FROM sync_state WHERE id = 1`)

	var (
		state         domain.SyncState
		status        string
		revision      sql.NullString
		lastSuccessAt sql.NullString
		lastAttemptAt sql.NullString
		lastError     sql.NullString
	)

	err := row.Scan(&status, &revision, &lastSuccessAt, &lastAttemptAt, &lastError)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("sync state row missing; database not migrated")
	}
	if err != nil {
		return nil, fmt.Errorf("query sync state: %w", err)
	}

	state.Status = domain.SyncStatus(status)
	state.Revision = revision.String
	state.LastError = lastError.String

	state.LastSuccessAt, err = parseNullableTime(lastSuccessAt)
	if err != nil {
		return nil, fmt.Errorf("parse last_success_at: %w", err)
	}
	state.LastAttemptAt, err = parseNullableTime(lastAttemptAt)
	if err != nil {
		return nil, fmt.Errorf("parse last_attempt_at: %w", err)
	}

	return &state, nil
}

// UpdateSyncState overwrites the singleton with the given snapshot.
// The row is updated in place and never deleted.
func (s *Store) UpdateSyncState(ctx context.Context, state *domain.SyncState) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE sync_state
		SET status = ?, revision = ?, last_success_at = ?, last_attempt_at = ?, last_error = ?
		WHERE id = 1`,
		string(state.Status),
		nullString(state.Revision),
		nullTimeString(state.LastSuccessAt),
		nullTimeString(state.LastAttemptAt),
		nullString(state.LastError),
	)
	if err != nil {
		return fmt.Errorf("update sync state: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update sync state: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("sync state row missing; database not migrated")
	}
	return nil
}
