package screenbase

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"golang.org/x/time/rate"

	"github.com/rasa-media/rasa-server/internal/metadata"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func newTestClient(baseURL string) *Client {
	c := NewClient(baseURL, "test-key", testLogger())
	// No throttling in tests.
	c.rateLimiter = rate.NewLimiter(rate.Inf, 1)
	return c
}

func TestFetchSince(t *testing.T) {
	var gotAuth, gotSince string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotSince = r.URL.Query().Get("since")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"records": [
				{"external_id": "sb-1", "title": "Metropolis", "year": 1927,
				 "genres": ["Sci-Fi", "Drama"], "rating": 8.3,
				 "synopsis": "A futuristic city divided.",
				 "updated_at": "2026-01-02T03:04:05Z"}
			],
			"next_revision": "rev-2",
			"done": false
		}`))
	}))
	defer srv.Close()

	page, err := newTestClient(srv.URL).FetchSince(context.Background(), "rev-1")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}

	if gotAuth != "Bearer test-key" {
		t.Errorf("auth header = %q", gotAuth)
	}
	if gotSince != "rev-1" {
		t.Errorf("since param = %q, want rev-1", gotSince)
	}
	if len(page.Records) != 1 {
		t.Fatalf("records = %d, want 1", len(page.Records))
	}
	if page.Records[0].ExternalID != "sb-1" || page.Records[0].Rating != 8.3 {
		t.Errorf("record = %+v", page.Records[0])
	}
	if page.NextRevision != "rev-2" || page.Done {
		t.Errorf("page cursor = (%q, done=%v), want (rev-2, false)", page.NextRevision, page.Done)
	}
}

func TestFetchSinceOmitsEmptyRevision(t *testing.T) {
	var hasSince bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hasSince = r.URL.Query().Has("since")
		w.Write([]byte(`{"records": [], "next_revision": "", "done": true}`))
	}))
	defer srv.Close()

	page, err := newTestClient(srv.URL).FetchSince(context.Background(), "")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if hasSince {
		t.Error("empty revision should not send a since parameter")
	}
	if !page.Done {
		t.Error("expected terminal page")
	}
}

func TestFetchSinceServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).FetchSince(context.Background(), "")
	if err == nil {
		t.Fatal("expected error")
	}
	var se *metadata.SourceError
	if !errors.As(err, &se) || se.Kind != metadata.KindNetwork {
		t.Errorf("got %v, want network source error", err)
	}
	if !metadata.IsTransient(err) {
		t.Error("server error should be transient")
	}
}

func TestFetchSinceTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	c.httpClient.Timeout = 50 * time.Millisecond

	_, err := c.FetchSince(context.Background(), "")
	if err == nil {
		t.Fatal("expected timeout")
	}
	var se *metadata.SourceError
	if !errors.As(err, &se) || se.Kind != metadata.KindTimeout {
		t.Errorf("got %v, want timeout source error", err)
	}
}
