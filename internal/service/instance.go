package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/rasa-media/rasa-server/internal/config"
	"github.com/rasa-media/rasa-server/internal/id"
	"github.com/rasa-media/rasa-server/internal/store"
	"github.com/rasa-media/rasa-server/internal/store/sqlite"
)

// Instance identity keys in the store.
const (
	keyInstanceID = "instance_id"
	keyInstallID  = "install_id"
)

// Instance describes this server installation for the setup wizard and
// client pairing.
type Instance struct {
	ID        string `json:"id"`
	InstallID string `json:"install_id"`
	Name      string `json:"name"`
	FirstRun  bool   `json:"first_run"`
}

// InstanceService manages the server's persistent identity.
type InstanceService struct {
	store  *sqlite.Store
	cfg    *config.Config
	logger *slog.Logger
}

// NewInstanceService creates a new instance service.
func NewInstanceService(st *sqlite.Store, cfg *config.Config, logger *slog.Logger) *InstanceService {
	return &InstanceService{store: st, cfg: cfg, logger: logger}
}

// EnsureInstance returns the instance identity, generating and persisting
// it on first run. FirstRun is true only on the call that created it.
func (s *InstanceService) EnsureInstance(ctx context.Context) (*Instance, error) {
	instanceID, err := s.store.GetInstanceValue(ctx, keyInstanceID)
	if err == nil {
		installID, err := s.store.GetInstanceValue(ctx, keyInstallID)
		if err != nil {
			return nil, err
		}
		return &Instance{
			ID:        instanceID,
			InstallID: installID,
			Name:      s.cfg.Server.Name,
		}, nil
	}

	var storeErr *store.Error
	if !errors.As(err, &storeErr) || storeErr.Code != store.ErrNotFound.Code {
		return nil, err
	}

	instanceID, err = id.Generate("rasa")
	if err != nil {
		return nil, err
	}
	installID := uuid.NewString()

	if err := s.store.SetInstanceValue(ctx, keyInstanceID, instanceID); err != nil {
		return nil, err
	}
	if err := s.store.SetInstanceValue(ctx, keyInstallID, installID); err != nil {
		return nil, err
	}

	s.logger.Info("initialized instance identity",
		"instance_id", instanceID,
	)

	return &Instance{
		ID:        instanceID,
		InstallID: installID,
		Name:      s.cfg.Server.Name,
		FirstRun:  true,
	}, nil
}
