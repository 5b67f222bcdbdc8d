package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/rasa-media/rasa-server/internal/service"
)

func (s *Server) registerInstanceRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getInstance",
		Method:      http.MethodGet,
		Path:        "/api/v1/instance",
		Summary:     "Get instance",
		Description: "Returns this server's identity, creating it on first run",
		Tags:        []string{"Instance"},
	}, s.handleGetInstance)
}

// InstanceOutput wraps the instance identity for Huma.
type InstanceOutput struct {
	Body service.Instance
}

func (s *Server) handleGetInstance(ctx context.Context, _ *struct{}) (*InstanceOutput, error) {
	inst, err := s.instance.EnsureInstance(ctx)
	if err != nil {
		s.logger.Error("instance lookup failed", "error", err)
		return nil, huma.Error500InternalServerError("failed to resolve instance", err)
	}
	return &InstanceOutput{Body: *inst}, nil
}
