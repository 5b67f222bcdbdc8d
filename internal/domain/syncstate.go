package domain

import "time"

// SyncStatus is the lifecycle status of the catalog sync singleton.
type SyncStatus string

// Sync statuses.
const (
	// SyncIdle means no sync cycle is running and the last one, if any,
	// completed successfully.
	SyncIdle SyncStatus = "idle"
	// SyncInProgress means a cycle is running, or one was interrupted and
	// will be resumed from the recorded revision on the next cycle.
	SyncInProgress SyncStatus = "in_progress"
	// SyncFailed means the last cycle exhausted its retries. Previously
	// synced catalog data remains servable.
	SyncFailed SyncStatus = "failed"
)

// SyncState is the singleton bookkeeping record for catalog synchronization.
// It is initialized by the first schema migration and mutated only by the
// sync engine; it is never deleted.
type SyncState struct {
	Status SyncStatus `json:"status"`
	// Revision is the opaque source token of the last confirmed-committed
	// batch. An interrupted sync resumes from here instead of starting over.
	Revision      string     `json:"revision,omitempty"`
	LastSuccessAt *time.Time `json:"last_success_at,omitempty"`
	LastAttemptAt *time.Time `json:"last_attempt_at,omitempty"`
	LastError     string     `json:"last_error,omitempty"`
}
