package api

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	gosync "sync"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/require"

	"github.com/rasa-media/rasa-server/internal/bootstrap"
	"github.com/rasa-media/rasa-server/internal/config"
	"github.com/rasa-media/rasa-server/internal/metadata"
	"github.com/rasa-media/rasa-server/internal/mood"
	"github.com/rasa-media/rasa-server/internal/service"
	"github.com/rasa-media/rasa-server/internal/store/sqlite"
	catalogsync "github.com/rasa-media/rasa-server/internal/sync"
)

// testServer bundles the API server with a humatest client.
type testServer struct {
	*Server
	api   humatest.TestAPI
	store *sqlite.Store
}

type staticSource struct {
	records []metadata.RawMovie
}

func (s *staticSource) Name() string { return "static" }

func (s *staticSource) FetchSince(ctx context.Context, revision string) (*metadata.Page, error) {
	return &metadata.Page{Records: s.records, Done: true}, nil
}

// blockingSource parks every fetch until released, simulating a slow or
// unreachable upstream during the initial sync.
type blockingSource struct {
	fetching chan struct{}
	release  chan struct{}
	once     gosync.Once
}

func newBlockingSource() *blockingSource {
	return &blockingSource{
		fetching: make(chan struct{}),
		release:  make(chan struct{}),
	}
}

func (s *blockingSource) Name() string { return "blocking" }

func (s *blockingSource) FetchSince(ctx context.Context, revision string) (*metadata.Page, error) {
	s.once.Do(func() { close(s.fetching) })
	select {
	case <-s.release:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return &metadata.Page{Done: true}, nil
}

func testRecords() []metadata.RawMovie {
	return []metadata.RawMovie{
		{
			ExternalID: "mv-1",
			Title:      "Duck Soup",
			Year:       1933,
			Genres:     []string{"Comedy"},
			Rating:     8.2,
			Synopsis:   "War breaks out over an insult in Freedonia.",
			UpdatedAt:  "2026-01-01T00:00:00Z",
		},
		{
			ExternalID: "mv-2",
			Title:      "Static",
			Year:       2024,
			Genres:     []string{"Horror"},
			Rating:     3.0,
			Synopsis:   "A pirate radio DJ hears from listeners who do not exist.",
			UpdatedAt:  "2026-01-01T00:00:00Z",
		},
	}
}

// setupTestServer boots a full server against a scripted source.
// bootstrapped=false leaves the orchestrator unstarted so readiness gating
// can be exercised.
func setupTestServer(t *testing.T, bootstrapped bool) *testServer {
	t.Helper()
	return setupTestServerWithSource(t, &staticSource{records: testRecords()}, bootstrapped)
}

func setupTestServerWithSource(t *testing.T, source metadata.Source, bootstrapped bool) *testServer {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	st, err := sqlite.Open(filepath.Join(t.TempDir(), "test.db"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	classifier, err := mood.NewClassifier(mood.DefaultRules())
	require.NoError(t, err)

	cfg := &config.Config{
		Server: config.ServerConfig{Name: "Test Rasa"},
	}

	engineCfg := catalogsync.Config{MaxAttempts: 2, InitialBackoff: time.Millisecond, MaxBackoff: time.Millisecond}
	engine := catalogsync.NewEngine(st, source, classifier, engineCfg, logger)
	orchestrator := bootstrap.New(st, engine, 0, logger)
	t.Cleanup(func() { orchestrator.Close() })

	if bootstrapped {
		require.NoError(t, orchestrator.Run(context.Background()))
	}

	catalog := service.NewCatalogService(st, classifier, logger)
	instance := service.NewInstanceService(st, cfg, logger)

	s := NewServer(catalog, instance, orchestrator, logger)
	t.Cleanup(func() { s.Close() })

	return &testServer{
		Server: s,
		api:    humatest.Wrap(t, s.api),
		store:  st,
	}
}
