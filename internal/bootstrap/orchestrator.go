// Package bootstrap drives the startup sequence from process launch to
// serving readiness: migrate the schema, run the initial catalog sync, and
// keep the catalog fresh with periodic background resyncs.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	gosync "sync"
	"time"

	"github.com/rasa-media/rasa-server/internal/domain"
	"github.com/rasa-media/rasa-server/internal/store/sqlite"
	catalogsync "github.com/rasa-media/rasa-server/internal/sync"
)

// State is the bootstrap lifecycle state.
type State string

// Bootstrap states. Failed is absorbing for the current boot; the next
// process start re-evaluates from Uninitialized.
const (
	StateUninitialized State = "uninitialized"
	StateMigrating     State = "migrating"
	StateSyncing       State = "syncing"
	StateReady         State = "ready"
	StateFailed        State = "failed"
)

// Status is a point-in-time snapshot for the health endpoint.
type Status struct {
	State         State             `json:"state"`
	FailureReason string            `json:"failure_reason,omitempty"`
	SchemaVersion int               `json:"schema_version"`
	Sync          *domain.SyncState `json:"sync,omitempty"`
}

// Orchestrator owns the bootstrap state machine. The serving layer reads
// its Status; it never mutates state through ambient globals.
type Orchestrator struct {
	store    *sqlite.Store
	engine   *catalogsync.Engine
	logger   *slog.Logger
	interval time.Duration

	mu            gosync.RWMutex
	state         State
	failureReason string
	schemaVersion int

	cancelBg context.CancelFunc
	bgDone   chan struct{}
}

// New creates an orchestrator. interval is the background resync period;
// zero disables background resyncs.
func New(st *sqlite.Store, engine *catalogsync.Engine, interval time.Duration, logger *slog.Logger) *Orchestrator {
	return &Orchestrator{
		store:    st,
		engine:   engine,
		logger:   logger,
		interval: interval,
		state:    StateUninitialized,
	}
}

// Run executes the bootstrap sequence: migrate, then the initial sync.
//
// Migration failure is fatal for this boot; the catalog endpoints must not
// serve against a half-migrated or newer-than-binary schema. A failed
// initial sync is fatal only when the catalog is empty; with data from a
// previous boot the server comes up Ready and serves stale data while the
// background resync keeps retrying.
func (o *Orchestrator) Run(ctx context.Context) error {
	o.setState(StateMigrating, "")
	o.logger.Info("bootstrap: migrating schema")

	applied, err := o.store.Migrate(ctx)
	if err != nil {
		o.setState(StateFailed, err.Error())
		return fmt.Errorf("bootstrap migration: %w", err)
	}

	version, err := o.store.CurrentVersion(ctx)
	if err != nil {
		o.setState(StateFailed, err.Error())
		return fmt.Errorf("bootstrap schema version: %w", err)
	}
	o.setSchemaVersion(version)
	o.logger.Info("bootstrap: schema ready",
		"version", version,
		"applied", applied,
	)

	o.setState(StateSyncing, "")
	o.logger.Info("bootstrap: initial catalog sync")

	if _, err := o.engine.RunCycle(ctx); err != nil && !errors.Is(err, catalogsync.ErrSyncInProgress) {
		count, countErr := o.store.CountMovies(ctx)
		if countErr != nil || count == 0 {
			o.setState(StateFailed, err.Error())
			return fmt.Errorf("bootstrap initial sync: %w", err)
		}
		o.logger.Warn("initial sync failed, serving previously synced catalog",
			"count", count,
			"error", err,
		)
	}

	o.setState(StateReady, "")
	o.logger.Info("bootstrap: ready")

	o.startBackgroundResync()
	return nil
}

// TriggerSync requests a sync cycle outside the schedule. Returns
// catalogsync.ErrSyncInProgress when one is already running (the request
// is coalesced) and an error when the server is not Ready.
func (o *Orchestrator) TriggerSync(ctx context.Context) error {
	if o.State() != StateReady {
		return fmt.Errorf("sync unavailable in state %s", o.State())
	}
	_, err := o.engine.RunCycle(ctx)
	return err
}

// Status returns a snapshot including the persisted sync state.
func (o *Orchestrator) Status(ctx context.Context) Status {
	o.mu.RLock()
	st := Status{
		State:         o.state,
		FailureReason: o.failureReason,
		SchemaVersion: o.schemaVersion,
	}
	o.mu.RUnlock()

	// Best effort; a snapshot without sync detail is still useful.
	if syncState, err := o.store.GetSyncState(ctx); err == nil {
		st.Sync = syncState
	}
	return st
}

// State returns the current lifecycle state.
func (o *Orchestrator) State() State {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.state
}

// Ready reports whether catalog endpoints may serve.
func (o *Orchestrator) Ready() bool {
	return o.State() == StateReady
}

// Close stops the background resync loop and waits for it to exit.
// An in-flight cycle is canceled; the sync checkpoint keeps it resumable.
func (o *Orchestrator) Close() error {
	o.mu.Lock()
	cancel, done := o.cancelBg, o.bgDone
	o.cancelBg, o.bgDone = nil, nil
	o.mu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}
	return nil
}

func (o *Orchestrator) startBackgroundResync() {
	if o.interval <= 0 {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	o.mu.Lock()
	o.cancelBg = cancel
	o.bgDone = done
	o.mu.Unlock()

	go func() {
		defer close(done)
		ticker := time.NewTicker(o.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}

			// Serving stays Ready during a background resync; readers
			// observe stale data until the cycle commits.
			_, err := o.engine.RunCycle(ctx)
			switch {
			case err == nil:
			case errors.Is(err, catalogsync.ErrSyncInProgress):
			case errors.Is(err, context.Canceled):
				return
			default:
				o.logger.Warn("background resync failed", "error", err)
			}
		}
	}()
}

func (o *Orchestrator) setState(s State, reason string) {
	o.mu.Lock()
	o.state = s
	o.failureReason = reason
	o.mu.Unlock()
}

func (o *Orchestrator) setSchemaVersion(v int) {
	o.mu.Lock()
	o.schemaVersion = v
	o.mu.Unlock()
}
