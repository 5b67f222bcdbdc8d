package providers

import (
	"context"

	"github.com/samber/do/v2"

	"github.com/rasa-media/rasa-server/internal/bootstrap"
	"github.com/rasa-media/rasa-server/internal/config"
	"github.com/rasa-media/rasa-server/internal/logger"
	catalogsync "github.com/rasa-media/rasa-server/internal/sync"
)

// OrchestratorHandle wraps the bootstrap orchestrator with shutdown support.
type OrchestratorHandle struct {
	*bootstrap.Orchestrator

	cancel context.CancelFunc
	done   chan struct{}
}

// Shutdown implements do.Shutdownable. It cancels an in-flight bootstrap
// (the sync checkpoint keeps the cycle resumable), waits for it to settle,
// then stops the background resync loop.
func (h *OrchestratorHandle) Shutdown() error {
	h.cancel()
	<-h.done
	return h.Close()
}

// ProvideOrchestrator provides the bootstrap orchestrator and starts the
// startup sequence (schema migration, then the initial catalog sync) in the
// background. The HTTP server comes up immediately so the health endpoint
// answers during Migrating and Syncing, and reports Failed with the reason
// instead of the process dying unreachable; catalog routes stay gated until
// the orchestrator is Ready.
func ProvideOrchestrator(i do.Injector) (*OrchestratorHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	engine := do.MustInvoke[*catalogsync.Engine](i)

	orchestrator := bootstrap.New(storeHandle.Store, engine, cfg.Sync.Interval, log.Logger)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := orchestrator.Run(ctx); err != nil {
			log.Error("Bootstrap failed", "error", err)
		}
	}()

	return &OrchestratorHandle{Orchestrator: orchestrator, cancel: cancel, done: done}, nil
}
