package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/rasa-media/rasa-server/internal/bootstrap"
	"github.com/rasa-media/rasa-server/internal/domain"
)

func (s *Server) registerHealthRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "healthCheck",
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Health check",
		Description: "Returns server health with bootstrap and sync detail",
		Tags:        []string{"Health"},
	}, s.handleHealthCheck)
}

// SyncHealth is the sync portion of the health response.
type SyncHealth struct {
	Status        string `json:"status" doc:"Sync status: idle, in_progress, or failed"`
	LastSuccessAt string `json:"last_success_at,omitempty" doc:"Timestamp of the last completed sync"`
	LastError     string `json:"last_error,omitempty" doc:"Error from the last failed sync"`
}

// HealthResponse contains health check data in API responses.
type HealthResponse struct {
	Status        string      `json:"status" doc:"Overall status: healthy, degraded, or unhealthy"`
	State         string      `json:"state" doc:"Bootstrap state"`
	FailureReason string      `json:"failure_reason,omitempty" doc:"Why bootstrap failed, if it did"`
	SchemaVersion int         `json:"schema_version" doc:"Current database schema version"`
	Sync          *SyncHealth `json:"sync,omitempty" doc:"Catalog sync detail"`
}

// HealthOutput wraps the health response for Huma.
type HealthOutput struct {
	Body HealthResponse
}

// handleHealthCheck reports liveness in every bootstrap state. A failed
// bootstrap yields an unhealthy-but-answering response rather than a
// connection error, so operators can see the reason.
func (s *Server) handleHealthCheck(ctx context.Context, _ *struct{}) (*HealthOutput, error) {
	status := s.orchestrator.Status(ctx)

	resp := HealthResponse{
		Status:        overallHealth(status),
		State:         string(status.State),
		FailureReason: status.FailureReason,
		SchemaVersion: status.SchemaVersion,
	}

	if status.Sync != nil {
		sh := &SyncHealth{
			Status:    string(status.Sync.Status),
			LastError: status.Sync.LastError,
		}
		if status.Sync.LastSuccessAt != nil {
			sh.LastSuccessAt = status.Sync.LastSuccessAt.UTC().Format(time.RFC3339)
		}
		resp.Sync = sh
	}

	return &HealthOutput{Body: resp}, nil
}

func overallHealth(status bootstrap.Status) string {
	switch status.State {
	case bootstrap.StateFailed:
		return "unhealthy"
	case bootstrap.StateReady:
		if status.Sync != nil && status.Sync.Status == domain.SyncFailed {
			return "degraded"
		}
		return "healthy"
	default:
		// Still migrating or syncing: alive but not serving the catalog.
		return "degraded"
	}
}
