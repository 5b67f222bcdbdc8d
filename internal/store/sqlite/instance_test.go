package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/rasa-media/rasa-server/internal/store"
)

func TestInstanceValueRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.GetInstanceValue(ctx, "instance_id")
	var storeErr *store.Error
	if !errors.As(err, &storeErr) || storeErr.Code != store.ErrNotFound.Code {
		t.Fatalf("unset key: got %v, want not found", err)
	}

	if err := s.SetInstanceValue(ctx, "instance_id", "rasa-abc123"); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, err := s.GetInstanceValue(ctx, "instance_id")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != "rasa-abc123" {
		t.Errorf("got %q, want rasa-abc123", got)
	}

	// Overwrite.
	if err := s.SetInstanceValue(ctx, "instance_id", "rasa-def456"); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	got, err = s.GetInstanceValue(ctx, "instance_id")
	if err != nil {
		t.Fatalf("get after overwrite: %v", err)
	}
	if got != "rasa-def456" {
		t.Errorf("got %q, want rasa-def456", got)
	}
}
