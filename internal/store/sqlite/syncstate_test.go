package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/rasa-media/rasa-server/internal/domain"
)

func TestSyncStateRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Millisecond)
	attempt := now.Add(-time.Minute)

	state := &domain.SyncState{
		Status:        domain.SyncInProgress,
		Revision:      "rev-42",
		LastSuccessAt: &now,
		LastAttemptAt: &attempt,
		LastError:     "",
	}
	if err := s.UpdateSyncState(ctx, state); err != nil {
		t.Fatalf("update: %v", err)
	}

	got, err := s.GetSyncState(ctx)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != domain.SyncInProgress {
		t.Errorf("status = %q, want in_progress", got.Status)
	}
	if got.Revision != "rev-42" {
		t.Errorf("revision = %q, want rev-42", got.Revision)
	}
	if got.LastSuccessAt == nil || !got.LastSuccessAt.Equal(now) {
		t.Errorf("last_success_at = %v, want %v", got.LastSuccessAt, now)
	}
	if got.LastAttemptAt == nil || !got.LastAttemptAt.Equal(attempt) {
		t.Errorf("last_attempt_at = %v, want %v", got.LastAttemptAt, attempt)
	}
}

func TestSyncStateFailureClearsOnSuccess(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	failed := &domain.SyncState{
		Status:    domain.SyncFailed,
		Revision:  "rev-7",
		LastError: "source unreachable",
	}
	if err := s.UpdateSyncState(ctx, failed); err != nil {
		t.Fatalf("record failure: %v", err)
	}

	got, err := s.GetSyncState(ctx)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != domain.SyncFailed || got.LastError != "source unreachable" {
		t.Errorf("failure not recorded: %+v", got)
	}

	now := time.Now().UTC()
	idle := &domain.SyncState{
		Status:        domain.SyncIdle,
		Revision:      "rev-8",
		LastSuccessAt: &now,
		LastAttemptAt: &now,
	}
	if err := s.UpdateSyncState(ctx, idle); err != nil {
		t.Fatalf("record success: %v", err)
	}

	got, err = s.GetSyncState(ctx)
	if err != nil {
		t.Fatalf("get after success: %v", err)
	}
	if got.Status != domain.SyncIdle {
		t.Errorf("status = %q, want idle", got.Status)
	}
	if got.LastError != "" {
		t.Errorf("last_error = %q, want cleared", got.LastError)
	}
}
