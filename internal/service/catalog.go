// Package service orchestrates catalog operations between the HTTP layer
// and the store.
package service

import (
	"context"
	"log/slog"

	"github.com/rasa-media/rasa-server/internal/domain"
	"github.com/rasa-media/rasa-server/internal/mood"
	"github.com/rasa-media/rasa-server/internal/store"
	"github.com/rasa-media/rasa-server/internal/store/sqlite"
)

// CatalogService serves read access to the movie catalog. It never writes;
// the catalog is mutated only by sync cycles.
type CatalogService struct {
	store      *sqlite.Store
	classifier *mood.Classifier
	logger     *slog.Logger
}

// NewCatalogService creates a new catalog service.
func NewCatalogService(st *sqlite.Store, classifier *mood.Classifier, logger *slog.Logger) *CatalogService {
	return &CatalogService{
		store:      st,
		classifier: classifier,
		logger:     logger,
	}
}

// MovieListing is a page of movies with the catalog total.
type MovieListing struct {
	Movies     []*domain.Movie `json:"movies"`
	TotalCount int             `json:"total_count"`
}

// ListMovies returns a page of the catalog plus the total count of
// distinct movies.
func (s *CatalogService) ListMovies(ctx context.Context, params store.ListParams) (*MovieListing, error) {
	movies, err := s.store.ListMovies(ctx, params)
	if err != nil {
		return nil, err
	}
	total, err := s.store.CountMovies(ctx)
	if err != nil {
		return nil, err
	}
	if movies == nil {
		movies = []*domain.Movie{}
	}
	return &MovieListing{Movies: movies, TotalCount: total}, nil
}

// GetMovie returns a single movie by external ID.
func (s *CatalogService) GetMovie(ctx context.Context, externalID string) (*domain.Movie, error) {
	return s.store.GetMovie(ctx, externalID)
}

// MoodSummary is one mood bucket with its member count.
type MoodSummary struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// ListMoods returns every defined mood bucket with its member count.
// Buckets with no members are included with a count of zero so clients see
// the full enumeration.
func (s *CatalogService) ListMoods(ctx context.Context) ([]MoodSummary, error) {
	counts, err := s.store.MoodCounts(ctx)
	if err != nil {
		return nil, err
	}
	byName := make(map[string]int, len(counts))
	for _, c := range counts {
		byName[c.Mood] = c.Count
	}

	buckets := s.classifier.Buckets()
	summaries := make([]MoodSummary, 0, len(buckets))
	for _, b := range buckets {
		summaries = append(summaries, MoodSummary{Name: b, Count: byName[b]})
	}
	return summaries, nil
}

// MoviesByMood returns the members of a mood bucket. An unknown bucket
// name is a not-found error rather than an empty list, so typos are
// visible to clients.
func (s *CatalogService) MoviesByMood(ctx context.Context, name string) ([]*domain.Movie, error) {
	known := false
	for _, b := range s.classifier.Buckets() {
		if b == name {
			known = true
			break
		}
	}
	if !known {
		return nil, store.ErrNotFound.WithMessage("unknown mood bucket: " + name)
	}

	movies, err := s.store.MoviesByMood(ctx, name)
	if err != nil {
		return nil, err
	}
	if movies == nil {
		movies = []*domain.Movie{}
	}
	return movies, nil
}
