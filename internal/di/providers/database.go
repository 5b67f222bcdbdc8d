package providers

import (
	"os"
	"path/filepath"

	"github.com/samber/do/v2"

	"github.com/rasa-media/rasa-server/internal/config"
	"github.com/rasa-media/rasa-server/internal/logger"
	"github.com/rasa-media/rasa-server/internal/store/sqlite"
)

// StoreHandle wraps the store with shutdown capability.
type StoreHandle struct {
	*sqlite.Store
}

// Shutdown implements do.Shutdownable.
func (h *StoreHandle) Shutdown() error {
	return h.Close()
}

// ProvideStore provides the SQLite catalog store. The schema is migrated
// later by the bootstrap orchestrator, not here.
func ProvideStore(i do.Injector) (*StoreHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	if err := os.MkdirAll(filepath.Dir(cfg.DB.Path), 0o755); err != nil {
		return nil, err
	}

	st, err := sqlite.Open(cfg.DB.Path, log.Logger)
	if err != nil {
		return nil, err
	}

	log.Info("Database opened", "path", cfg.DB.Path)

	return &StoreHandle{Store: st}, nil
}
