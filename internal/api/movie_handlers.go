package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/rasa-media/rasa-server/internal/domain"
	"github.com/rasa-media/rasa-server/internal/service"
	"github.com/rasa-media/rasa-server/internal/store"
)

func (s *Server) registerMovieRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listMovies",
		Method:      http.MethodGet,
		Path:        "/api/v1/movies",
		Summary:     "List movies",
		Description: "Returns a page of the catalog with the total count",
		Tags:        []string{"Movies"},
	}, s.handleListMovies)

	huma.Register(s.api, huma.Operation{
		OperationID: "getMovie",
		Method:      http.MethodGet,
		Path:        "/api/v1/movies/{id}",
		Summary:     "Get movie",
		Description: "Returns a movie by its external ID",
		Tags:        []string{"Movies"},
	}, s.handleGetMovie)
}

// ListMoviesInput holds pagination parameters.
type ListMoviesInput struct {
	Limit  int `query:"limit" doc:"Page size (default 50, max 500)"`
	Offset int `query:"offset" doc:"Page offset"`
}

// ListMoviesOutput wraps a movie listing for Huma.
type ListMoviesOutput struct {
	Body service.MovieListing
}

func (s *Server) handleListMovies(ctx context.Context, input *ListMoviesInput) (*ListMoviesOutput, error) {
	if err := s.requireReady(); err != nil {
		return nil, err
	}

	params := store.ListParams{Limit: input.Limit, Offset: input.Offset}
	listing, err := s.catalog.ListMovies(ctx, params)
	if err != nil {
		s.logger.Error("list movies failed", "error", err)
		return nil, huma.Error500InternalServerError("failed to list movies", err)
	}
	return &ListMoviesOutput{Body: *listing}, nil
}

// GetMovieInput identifies a movie by external ID.
type GetMovieInput struct {
	ID string `path:"id" doc:"External movie ID"`
}

// GetMovieOutput wraps a single movie for Huma.
type GetMovieOutput struct {
	Body domain.Movie
}

func (s *Server) handleGetMovie(ctx context.Context, input *GetMovieInput) (*GetMovieOutput, error) {
	if err := s.requireReady(); err != nil {
		return nil, err
	}

	movie, err := s.catalog.GetMovie(ctx, input.ID)
	if err != nil {
		return nil, huma.Error404NotFound("movie not found", err)
	}
	return &GetMovieOutput{Body: *movie}, nil
}
