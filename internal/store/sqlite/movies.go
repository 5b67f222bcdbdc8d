package sqlite

import (
	"context"
	"database/sql"
	"encoding/json/v2"
	"fmt"
	"slices"

	"github.com/rasa-media/rasa-server/internal/domain"
	"github.com/rasa-media/rasa-server/internal/store"
)

// movieColumns is the ordered list of columns selected in movie queries.
// Must match the scan order in scanMovie.
const movieColumns = `external_id, title, year, genres, rating, synopsis, updated_at`

// scanMovie scans a sql.Row (or sql.Rows via its Scan method) into a domain.Movie.
// Mood labels live in movie_moods and are attached separately.
func scanMovie(scanner interface{ Scan(dest ...any) error }) (*domain.Movie, error) {
	var m domain.Movie

	var (
		genresJSON string
		updatedAt  string
	)

	err := scanner.Scan(
		&m.ExternalID,
		&m.Title,
		&m.Year,
		&genresJSON,
		&m.Rating,
		&m.Synopsis,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(genresJSON), &m.Genres); err != nil {
		return nil, fmt.Errorf("parse genres: %w", err)
	}

	m.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	return &m, nil
}

// UpsertMovie inserts or updates a movie keyed on its external ID, writing
// the row and its mood labels in a single transaction so readers never see
// a half-written record.
//
// Upserts are idempotent: re-applying an identical record is a no-op, and a
// record whose updated_at is older than the stored row is rejected without
// overwriting (guarding against out-of-order sync replays).
func (s *Store) UpsertMovie(ctx context.Context, m *domain.Movie) (store.UpsertOutcome, error) {
	genresJSON, err := json.Marshal(normalizeSlice(m.Genres))
	if err != nil {
		return 0, fmt.Errorf("encode genres: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx,
		`SELECT `+movieColumns+` FROM movies WHERE external_id = ?`, m.ExternalID)

	existing, err := scanMovie(row)
	switch {
	case err == sql.ErrNoRows:
		existing = nil
	case err != nil:
		return 0, fmt.Errorf("query existing movie: %w", err)
	}

	outcome := store.OutcomeCreated
	if existing != nil {
		if existing.UpdatedAt.After(m.UpdatedAt) {
			return store.OutcomeStale, nil
		}

		existing.Moods, err = movieMoodsTx(ctx, tx, m.ExternalID)
		if err != nil {
			return 0, err
		}
		if moviesEqual(existing, m) {
			return store.OutcomeUnchanged, nil
		}
		outcome = store.OutcomeUpdated
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO movies (external_id, title, year, genres, rating, synopsis, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(external_id) DO UPDATE SET
			title = excluded.title,
			year = excluded.year,
			genres = excluded.genres,
			rating = excluded.rating,
			synopsis = excluded.synopsis,
			updated_at = excluded.updated_at`,
		m.ExternalID,
		m.Title,
		m.Year,
		string(genresJSON),
		m.Rating,
		m.Synopsis,
		formatTime(m.UpdatedAt),
	); err != nil {
		return 0, fmt.Errorf("upsert movie: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM movie_moods WHERE movie_id = ?`, m.ExternalID); err != nil {
		return 0, fmt.Errorf("clear movie moods: %w", err)
	}
	for _, mood := range m.Moods {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO movie_moods (movie_id, mood) VALUES (?, ?)`,
			m.ExternalID, mood); err != nil {
			return 0, fmt.Errorf("insert movie mood: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit upsert: %w", err)
	}
	return outcome, nil
}

// GetMovie retrieves a movie by external ID, including its mood labels.
// Returns store.ErrMovieNotFound if the movie does not exist.
func (s *Store) GetMovie(ctx context.Context, externalID string) (*domain.Movie, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+movieColumns+` FROM movies WHERE external_id = ?`, externalID)

	m, err := scanMovie(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrMovieNotFound
	}
	if err != nil {
		return nil, err
	}

	m.Moods, err = s.movieMoods(ctx, externalID)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// ListMovies returns a page of movies ordered by title then external ID.
// The ordering is deterministic so repeated listings are restartable.
func (s *Store) ListMovies(ctx context.Context, params store.ListParams) ([]*domain.Movie, error) {
	params.Validate()

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+movieColumns+` FROM movies
		 ORDER BY title ASC, external_id ASC
		 LIMIT ? OFFSET ?`, params.Limit, params.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	movies, err := collectMovies(rows)
	if err != nil {
		return nil, err
	}

	for _, m := range movies {
		m.Moods, err = s.movieMoods(ctx, m.ExternalID)
		if err != nil {
			return nil, err
		}
	}
	return movies, nil
}

// MoviesByMood returns all movies labeled with the given mood bucket,
// ordered by rating descending.
func (s *Store) MoviesByMood(ctx context.Context, mood string) ([]*domain.Movie, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+movieColumns+` FROM movies
		 JOIN movie_moods ON movie_moods.movie_id = movies.external_id
		 WHERE movie_moods.mood = ?
		 ORDER BY rating DESC, external_id ASC`, mood)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	movies, err := collectMovies(rows)
	if err != nil {
		return nil, err
	}

	for _, m := range movies {
		m.Moods, err = s.movieMoods(ctx, m.ExternalID)
		if err != nil {
			return nil, err
		}
	}
	return movies, nil
}

// CountMovies returns the number of distinct movies in the catalog.
func (s *Store) CountMovies(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM movies`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count movies: %w", err)
	}
	return count, nil
}

// MoodCounts returns every mood bucket present in the catalog with its
// member count, ordered by name.
func (s *Store) MoodCounts(ctx context.Context) ([]store.MoodCount, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT mood, COUNT(*) FROM movie_moods
		GROUP BY mood
		ORDER BY mood ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var counts []store.MoodCount
	for rows.Next() {
		var mc store.MoodCount
		if err := rows.Scan(&mc.Mood, &mc.Count); err != nil {
			return nil, err
		}
		counts = append(counts, mc)
	}
	return counts, rows.Err()
}

// movieMoods returns the mood labels for a movie, sorted.
func (s *Store) movieMoods(ctx context.Context, externalID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT mood FROM movie_moods WHERE movie_id = ? ORDER BY mood ASC`, externalID)
	if err != nil {
		return nil, fmt.Errorf("query movie moods: %w", err)
	}
	defer rows.Close()
	return collectStrings(rows)
}

// movieMoodsTx is movieMoods inside an open transaction.
func movieMoodsTx(ctx context.Context, tx *sql.Tx, externalID string) ([]string, error) {
	rows, err := tx.QueryContext(ctx,
		`SELECT mood FROM movie_moods WHERE movie_id = ? ORDER BY mood ASC`, externalID)
	if err != nil {
		return nil, fmt.Errorf("query movie moods: %w", err)
	}
	defer rows.Close()
	return collectStrings(rows)
}

func collectStrings(rows *sql.Rows) ([]string, error) {
	var out []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func collectMovies(rows *sql.Rows) ([]*domain.Movie, error) {
	var movies []*domain.Movie
	for rows.Next() {
		m, err := scanMovie(rows)
		if err != nil {
			return nil, err
		}
		movies = append(movies, m)
	}
	return movies, rows.Err()
}

// moviesEqual reports whether two records are identical field for field,
// including mood labels. Used to make re-applied upserts true no-ops.
func moviesEqual(a, b *domain.Movie) bool {
	return a.Title == b.Title &&
		a.Year == b.Year &&
		a.Rating == b.Rating &&
		a.Synopsis == b.Synopsis &&
		a.UpdatedAt.Equal(b.UpdatedAt) &&
		slices.Equal(normalizeSlice(a.Genres), normalizeSlice(b.Genres)) &&
		slices.Equal(normalizeSlice(a.Moods), normalizeSlice(b.Moods))
}

// normalizeSlice returns a sorted copy, mapping nil to an empty slice so
// JSON encoding is stable.
func normalizeSlice(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	slices.Sort(out)
	return out
}
