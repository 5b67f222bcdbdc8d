package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	domainerrors "github.com/rasa-media/rasa-server/internal/errors"
	"github.com/rasa-media/rasa-server/internal/metadata"
	"github.com/rasa-media/rasa-server/internal/mood"
	"github.com/rasa-media/rasa-server/internal/store/sqlite"
	catalogsync "github.com/rasa-media/rasa-server/internal/sync"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func newTestStore(t *testing.T) (*sqlite.Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := sqlite.Open(path, testLogger())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s, path
}

type scriptedSource struct {
	records []metadata.RawMovie
	err     error
}

func (s *scriptedSource) Name() string { return "scripted" }

func (s *scriptedSource) FetchSince(ctx context.Context, revision string) (*metadata.Page, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &metadata.Page{Records: s.records, Done: true}, nil
}

func newOrchestrator(t *testing.T, st *sqlite.Store, source metadata.Source, interval time.Duration) *Orchestrator {
	t.Helper()
	classifier, err := mood.NewClassifier(mood.DefaultRules())
	if err != nil {
		t.Fatalf("classifier: %v", err)
	}
	cfg := catalogsync.Config{MaxAttempts: 2, InitialBackoff: time.Millisecond, MaxBackoff: time.Millisecond}
	engine := catalogsync.NewEngine(st, source, classifier, cfg, testLogger())
	o := New(st, engine, interval, testLogger())
	t.Cleanup(func() { o.Close() })
	return o
}

func sampleRecords() []metadata.RawMovie {
	return []metadata.RawMovie{
		{
			ExternalID: "mv-1",
			Title:      "Duck Soup",
			Year:       1933,
			Genres:     []string{"Comedy"},
			Rating:     8.2,
			UpdatedAt:  "2026-01-01T00:00:00Z",
		},
	}
}

func TestRunHappyPath(t *testing.T) {
	st, _ := newTestStore(t)
	o := newOrchestrator(t, st, &scriptedSource{records: sampleRecords()}, 0)

	if o.State() != StateUninitialized {
		t.Fatalf("initial state = %s, want uninitialized", o.State())
	}

	if err := o.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if !o.Ready() {
		t.Fatalf("state = %s, want ready", o.State())
	}

	status := o.Status(context.Background())
	if status.State != StateReady {
		t.Errorf("status state = %s, want ready", status.State)
	}
	if status.SchemaVersion != sqlite.MaxKnownVersion() {
		t.Errorf("schema version = %d, want %d", status.SchemaVersion, sqlite.MaxKnownVersion())
	}
	if status.Sync == nil || status.Sync.Status != "idle" {
		t.Errorf("sync snapshot = %+v, want idle", status.Sync)
	}

	count, err := st.CountMovies(context.Background())
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Errorf("catalog count = %d, want 1", count)
	}
}

func TestRunFailsOnIncompatibleSchema(t *testing.T) {
	st, path := newTestStore(t)

	// Stamp the database as coming from a newer binary.
	stampVersion(t, path, sqlite.MaxKnownVersion()+2)

	o := newOrchestrator(t, st, &scriptedSource{records: sampleRecords()}, 0)
	err := o.Run(context.Background())
	if !domainerrors.Is(err, domainerrors.ErrIncompatibleSchema) {
		t.Fatalf("got %v, want incompatible schema error", err)
	}
	if o.State() != StateFailed {
		t.Errorf("state = %s, want failed", o.State())
	}

	status := o.Status(context.Background())
	if status.FailureReason == "" {
		t.Error("failure reason not surfaced")
	}
}

func TestRunFailsWhenInitialSyncFailsOnEmptyCatalog(t *testing.T) {
	st, _ := newTestStore(t)
	src := &scriptedSource{err: metadata.NetworkError(errors.New("unreachable"))}

	o := newOrchestrator(t, st, src, 0)
	if err := o.Run(context.Background()); err == nil {
		t.Fatal("expected bootstrap failure")
	}
	if o.State() != StateFailed {
		t.Errorf("state = %s, want failed", o.State())
	}
}

func TestRunServesStaleCatalogWhenResyncFails(t *testing.T) {
	st, _ := newTestStore(t)

	// First boot succeeds and populates the catalog.
	o1 := newOrchestrator(t, st, &scriptedSource{records: sampleRecords()}, 0)
	if err := o1.Run(context.Background()); err != nil {
		t.Fatalf("first boot: %v", err)
	}
	o1.Close()

	// Second boot cannot reach the source but has data to serve.
	src := &scriptedSource{err: metadata.NetworkError(errors.New("unreachable"))}
	o2 := newOrchestrator(t, st, src, 0)
	if err := o2.Run(context.Background()); err != nil {
		t.Fatalf("second boot should degrade, not fail: %v", err)
	}
	if !o2.Ready() {
		t.Errorf("state = %s, want ready with stale data", o2.State())
	}

	count, _ := st.CountMovies(context.Background())
	if count != 1 {
		t.Errorf("stale catalog count = %d, want 1", count)
	}
}

func TestTriggerSyncRequiresReady(t *testing.T) {
	st, _ := newTestStore(t)
	o := newOrchestrator(t, st, &scriptedSource{records: sampleRecords()}, 0)

	if err := o.TriggerSync(context.Background()); err == nil {
		t.Error("trigger before bootstrap should fail")
	}

	if err := o.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if err := o.TriggerSync(context.Background()); err != nil {
		t.Errorf("trigger after ready: %v", err)
	}
}

func TestBackgroundResyncRuns(t *testing.T) {
	st, _ := newTestStore(t)

	// Each resync delivers one more record.
	src := &growingSource{}
	o := newOrchestrator(t, st, src, 10*time.Millisecond)

	if err := o.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}

	deadline := time.After(2 * time.Second)
	for {
		count, err := st.CountMovies(context.Background())
		if err != nil {
			t.Fatalf("count: %v", err)
		}
		if count >= 3 {
			break
		}
		select {
		case <-deadline:
			t.Fatalf("background resync never grew the catalog past %d", count)
		case <-time.After(5 * time.Millisecond):
		}
	}

	if o.State() != StateReady {
		t.Errorf("state during background resync = %s, want ready", o.State())
	}
}

// growingSource returns one additional record per fetch, so successive
// cycles observably change the catalog.
type growingSource struct {
	calls int
}

func (g *growingSource) Name() string { return "growing" }

func (g *growingSource) FetchSince(ctx context.Context, revision string) (*metadata.Page, error) {
	g.calls++
	records := make([]metadata.RawMovie, g.calls)
	for i := range records {
		records[i] = metadata.RawMovie{
			ExternalID: "mv-" + strconv.Itoa(i),
			Title:      "Movie " + strconv.Itoa(i),
			Genres:     []string{"Drama"},
			Rating:     7.0,
			UpdatedAt:  "2026-01-01T00:00:00Z",
		}
	}
	return &metadata.Page{Records: records, Done: true}, nil
}

// stampVersion writes a migration ledger entry directly, simulating a
// database produced by a newer binary.
func stampVersion(t *testing.T, path string, version int) {
	t.Helper()
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open raw db: %v", err)
	}
	defer db.Close()
	if _, err := db.Exec(
		`INSERT INTO schema_migrations (version, name, applied_at) VALUES (?, ?, ?)`,
		version, "test stamp", time.Now().UTC().Format(time.RFC3339Nano)); err != nil {
		t.Fatalf("stamp version: %v", err)
	}
}
