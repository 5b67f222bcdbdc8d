package sqlite

import (
	"context"
	"fmt"
	"time"

	domainerrors "github.com/rasa-media/rasa-server/internal/errors"
)

// migration is a single versioned schema change. Versions are strictly
// ascending and each migration applies exactly once, inside its own
// transaction. Statements are written to be idempotent so a step that was
// recorded but re-run (e.g. after a restored backup) cannot fail.
type migration struct {
	version int
	name    string
	stmts   []string
}

// migrations is the ordered ledger of every schema change this binary knows.
// Append only; never reorder or renumber released entries.
var migrations = []migration{
	{
		version: 1,
		name:    "catalog and sync state",
		stmts: []string{
			`CREATE TABLE IF NOT EXISTS movies (
				external_id TEXT PRIMARY KEY,
				title       TEXT NOT NULL,
				year        INTEGER NOT NULL DEFAULT 0,
				genres      TEXT NOT NULL DEFAULT '[]',
				rating      REAL NOT NULL DEFAULT 0,
				synopsis    TEXT NOT NULL DEFAULT '',
				updated_at  TEXT NOT NULL
			)`,
			`CREATE TABLE IF NOT EXISTS sync_state (
				id              INTEGER PRIMARY KEY CHECK (id = 1),
				status          TEXT NOT NULL,
				revision        TEXT,
				last_success_at TEXT,
				last_attempt_at TEXT,
				last_error      TEXT
			)`,
			`INSERT OR IGNORE INTO sync_state (id, status) VALUES (1, 'idle')`,
		},
	},
	{
		version: 2,
		name:    "mood labels",
		stmts: []string{
			`CREATE TABLE IF NOT EXISTS movie_moods (
				movie_id TEXT NOT NULL REFERENCES movies(external_id) ON DELETE CASCADE,
				mood     TEXT NOT NULL,
				PRIMARY KEY (movie_id, mood)
			)`,
			`CREATE INDEX IF NOT EXISTS idx_movie_moods_mood ON movie_moods(mood)`,
		},
	},
	{
		version: 3,
		name:    "instance identity and catalog indexes",
		stmts: []string{
			`CREATE TABLE IF NOT EXISTS instance (
				key   TEXT PRIMARY KEY,
				value TEXT NOT NULL
			)`,
			`CREATE INDEX IF NOT EXISTS idx_movies_rating ON movies(rating)`,
			`CREATE INDEX IF NOT EXISTS idx_movies_updated_at ON movies(updated_at)`,
		},
	},
}

// MaxKnownVersion returns the highest migration version this binary knows.
func MaxKnownVersion() int {
	return migrations[len(migrations)-1].version
}

// CurrentVersion returns the schema version recorded in the database, or 0
// for a fresh database.
func (s *Store) CurrentVersion(ctx context.Context) (int, error) {
	var version int
	err := s.db.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(version), 0) FROM schema_migrations`).Scan(&version)
	if err != nil {
		return 0, fmt.Errorf("query schema version: %w", err)
	}
	return version, nil
}

// Migrate brings the database schema up to the highest known migration.
// It returns the versions applied, in order. Re-running on an up-to-date
// database is a no-op.
//
// Each pending step runs in its own all-or-nothing transaction; a failing
// step rolls back and surfaces as a migration failure so the caller can
// refuse to sync against a half-migrated schema. A database stamped with a
// version newer than this binary's ledger is rejected untouched.
func (s *Store) Migrate(ctx context.Context) ([]int, error) {
	return s.migrateAll(ctx, migrations)
}

func (s *Store) migrateAll(ctx context.Context, pending []migration) ([]int, error) {
	current, err := s.CurrentVersion(ctx)
	if err != nil {
		return nil, err
	}

	maxKnown := 0
	if len(pending) > 0 {
		maxKnown = pending[len(pending)-1].version
	}
	if current > maxKnown {
		return nil, domainerrors.IncompatibleSchema(current, maxKnown)
	}

	var applied []int
	for _, m := range pending {
		if m.version <= current {
			continue
		}
		if err := s.applyMigration(ctx, m); err != nil {
			return applied, domainerrors.MigrationFailed(m.version, err)
		}
		s.logger.Info("applied schema migration", "version", m.version, "name", m.name)
		applied = append(applied, m.version)
	}
	return applied, nil
}

// applyMigration runs a single migration step and records it in the ledger,
// atomically.
func (s *Store) applyMigration(ctx context.Context, m migration) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	for _, stmt := range m.stmts {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("exec %q: %w", truncateStmt(stmt), err)
		}
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO schema_migrations (version, name, applied_at) VALUES (?, ?, ?)`,
		m.version, m.name, formatTime(time.Now()),
	); err != nil {
		return fmt.Errorf("record migration: %w", err)
	}

	return tx.Commit()
}

// truncateStmt shortens a SQL statement for error messages.
func truncateStmt(stmt string) string {
	const maxLen = 60
	if len(stmt) <= maxLen {
		return stmt
	}
	return stmt[:maxLen] + "..."
}
