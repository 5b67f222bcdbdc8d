package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/rasa-media/rasa-server/internal/domain"
	"github.com/rasa-media/rasa-server/internal/service"
)

func (s *Server) registerMoodRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listMoods",
		Method:      http.MethodGet,
		Path:        "/api/v1/moods",
		Summary:     "List mood buckets",
		Description: "Returns every mood bucket with its member count",
		Tags:        []string{"Moods"},
	}, s.handleListMoods)

	huma.Register(s.api, huma.Operation{
		OperationID: "getMoodMovies",
		Method:      http.MethodGet,
		Path:        "/api/v1/moods/{name}/movies",
		Summary:     "Get mood movies",
		Description: "Returns the movies labeled with a mood bucket",
		Tags:        []string{"Moods"},
	}, s.handleGetMoodMovies)
}

// ListMoodsOutput wraps the mood summaries for Huma.
type ListMoodsOutput struct {
	Body struct {
		Moods []service.MoodSummary `json:"moods"`
	}
}

func (s *Server) handleListMoods(ctx context.Context, _ *struct{}) (*ListMoodsOutput, error) {
	if err := s.requireReady(); err != nil {
		return nil, err
	}

	summaries, err := s.catalog.ListMoods(ctx)
	if err != nil {
		s.logger.Error("list moods failed", "error", err)
		return nil, huma.Error500InternalServerError("failed to list moods", err)
	}

	out := &ListMoodsOutput{}
	out.Body.Moods = summaries
	return out, nil
}

// GetMoodMoviesInput identifies a mood bucket by name.
type GetMoodMoviesInput struct {
	Name string `path:"name" doc:"Mood bucket name"`
}

// GetMoodMoviesOutput wraps a mood bucket's members for Huma.
type GetMoodMoviesOutput struct {
	Body struct {
		Mood   string          `json:"mood"`
		Movies []*domain.Movie `json:"movies"`
	}
}

func (s *Server) handleGetMoodMovies(ctx context.Context, input *GetMoodMoviesInput) (*GetMoodMoviesOutput, error) {
	if err := s.requireReady(); err != nil {
		return nil, err
	}

	movies, err := s.catalog.MoviesByMood(ctx, input.Name)
	if err != nil {
		return nil, huma.Error404NotFound("unknown mood bucket", err)
	}

	out := &GetMoodMoviesOutput{}
	out.Body.Mood = input.Name
	out.Body.Movies = movies
	return out, nil
}
