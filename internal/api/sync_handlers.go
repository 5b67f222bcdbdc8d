package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	domainerrors "github.com/rasa-media/rasa-server/internal/errors"
	catalogsync "github.com/rasa-media/rasa-server/internal/sync"
)

func (s *Server) registerSyncRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "triggerSync",
		Method:      http.MethodPost,
		Path:        "/api/v1/sync",
		Summary:     "Trigger sync",
		Description: "Runs a catalog sync cycle; concurrent requests are coalesced",
		Tags:        []string{"Sync"},
	}, s.handleTriggerSync)
}

// TriggerSyncOutput reports what the sync request did.
type TriggerSyncOutput struct {
	Body struct {
		Status string `json:"status" doc:"completed or coalesced"`
	}
}

// handleTriggerSync runs a sync cycle synchronously. A request arriving
// while a cycle is active is coalesced onto it rather than rejected.
// Per-IP rate limiting happens in middleware before the request gets here.
func (s *Server) handleTriggerSync(ctx context.Context, _ *struct{}) (*TriggerSyncOutput, error) {
	if err := s.requireReady(); err != nil {
		return nil, err
	}

	out := &TriggerSyncOutput{}
	err := s.orchestrator.TriggerSync(ctx)
	switch {
	case err == nil:
		out.Body.Status = "completed"
	case errors.Is(err, catalogsync.ErrSyncInProgress):
		out.Body.Status = "coalesced"
	default:
		s.logger.Error("manual sync failed", "error", err)
		return nil, domainerrors.Wrap(err, domainerrors.CodeSyncUnavailable, "sync failed")
	}
	return out, nil
}
