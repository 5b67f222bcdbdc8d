// Package sync reconciles upstream movie metadata into the local catalog.
//
// A sync cycle pages records from the metadata source, validates and
// classifies each one, and upserts it into the store. The source revision
// token is checkpointed after every committed page, so an interrupted
// cycle resumes where it left off instead of starting over.
package sync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/rasa-media/rasa-server/internal/domain"
	"github.com/rasa-media/rasa-server/internal/genre"
	"github.com/rasa-media/rasa-server/internal/metadata"
	"github.com/rasa-media/rasa-server/internal/mood"
	"github.com/rasa-media/rasa-server/internal/store"
	"github.com/rasa-media/rasa-server/internal/store/sqlite"
	"github.com/rasa-media/rasa-server/internal/validation"
)

// ErrSyncInProgress is returned when a cycle is requested while another is
// already running. The caller should treat it as "your request was
// coalesced", not as a failure.
var ErrSyncInProgress = errors.New("sync cycle already in progress")

// Config bounds the retry behavior for transient source failures.
type Config struct {
	// MaxAttempts caps how often a failing page fetch is retried before
	// the cycle is marked failed.
	MaxAttempts int
	// InitialBackoff is the delay before the first retry; it doubles per
	// attempt up to MaxBackoff.
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
}

// DefaultConfig returns the retry policy used when none is configured.
func DefaultConfig() Config {
	return Config{
		MaxAttempts:    4,
		InitialBackoff: 2 * time.Second,
		MaxBackoff:     time.Minute,
	}
}

// Result summarizes a completed sync cycle.
type Result struct {
	Created   int
	Updated   int
	Unchanged int
	Stale     int
	Skipped   int // malformed records
	Pages     int
}

// Engine runs sync cycles. At most one cycle is active at a time; requests
// arriving while one runs are coalesced via ErrSyncInProgress.
type Engine struct {
	store      *sqlite.Store
	source     metadata.Source
	classifier *mood.Classifier
	validator  *validation.Validator
	logger     *slog.Logger
	cfg        Config

	mu sync.Mutex // held for the duration of a cycle
}

// NewEngine creates a sync engine.
func NewEngine(st *sqlite.Store, source metadata.Source, classifier *mood.Classifier, cfg Config, logger *slog.Logger) *Engine {
	if cfg.MaxAttempts <= 0 {
		cfg = DefaultConfig()
	}
	return &Engine{
		store:      st,
		source:     source,
		classifier: classifier,
		validator:  validation.New(),
		logger:     logger,
		cfg:        cfg,
	}
}

// RunCycle executes one full sync cycle, resuming from the persisted
// revision token. It returns ErrSyncInProgress if a cycle is already
// running.
//
// Cancellation is safe at page granularity: the record being written
// commits or rolls back atomically, the last committed page's revision is
// already persisted, and SyncState is left InProgress so the next cycle
// resumes rather than restarting.
func (e *Engine) RunCycle(ctx context.Context) (*Result, error) {
	if !e.mu.TryLock() {
		return nil, ErrSyncInProgress
	}
	defer e.mu.Unlock()

	state, err := e.store.GetSyncState(ctx)
	if err != nil {
		return nil, fmt.Errorf("load sync state: %w", err)
	}

	now := time.Now().UTC()
	state.Status = domain.SyncInProgress
	state.LastAttemptAt = &now
	state.LastError = ""
	if err := e.store.UpdateSyncState(ctx, state); err != nil {
		return nil, fmt.Errorf("mark sync in progress: %w", err)
	}

	e.logger.Info("sync cycle started",
		"source", e.source.Name(),
		"revision", state.Revision,
	)

	result, err := e.run(ctx, state)
	if err != nil {
		e.finishFailure(ctx, state, err)
		return result, err
	}

	e.finishSuccess(ctx, state)
	e.logger.Info("sync cycle completed",
		"source", e.source.Name(),
		"pages", result.Pages,
		"created", result.Created,
		"updated", result.Updated,
		"unchanged", result.Unchanged,
		"stale", result.Stale,
		"skipped", result.Skipped,
	)
	return result, nil
}

// run pages through the source until done, checkpointing the revision
// after each committed page. state.Revision tracks the last durable
// checkpoint throughout.
func (e *Engine) run(ctx context.Context, state *domain.SyncState) (*Result, error) {
	result := &Result{}

	for {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		page, err := e.fetchWithRetry(ctx, state.Revision)
		if err != nil {
			return result, err
		}
		result.Pages++

		for i := range page.Records {
			if err := ctx.Err(); err != nil {
				return result, err
			}
			if err := e.applyRecord(ctx, &page.Records[i], result); err != nil {
				// Storage failure: leave the checkpoint at the last fully
				// committed page so the next cycle re-serves this one.
				return result, err
			}
		}

		// The page's records are durable; advance the checkpoint so a
		// restart resumes after them.
		state.Revision = page.NextRevision
		if err := e.store.UpdateSyncState(ctx, state); err != nil {
			return result, fmt.Errorf("checkpoint revision: %w", err)
		}

		if page.Done {
			return result, nil
		}
	}
}

// applyRecord validates, classifies, and upserts a single record.
// A malformed record is logged and skipped; it never aborts the batch.
// A storage failure is different: it is returned so the cycle aborts
// without advancing the checkpoint, otherwise the record would be lost
// behind a revision the source never re-serves.
func (e *Engine) applyRecord(ctx context.Context, raw *metadata.RawMovie, result *Result) error {
	movie, err := e.toMovie(raw)
	if err != nil {
		result.Skipped++
		e.logger.Warn("skipping malformed record",
			"external_id", raw.ExternalID,
			"error", err,
		)
		return nil
	}

	existing, err := e.store.GetMovie(ctx, movie.ExternalID)
	if err != nil && !errors.Is(err, store.ErrMovieNotFound) {
		return fmt.Errorf("lookup %s: %w", movie.ExternalID, err)
	}

	// Reclassify only when the fields feeding classification changed;
	// otherwise carry the stored labels forward.
	if existing != nil && existing.ClassifiableFieldsEqual(movie) {
		movie.Moods = existing.Moods
	} else {
		movie.Moods = e.classifier.Classify(movie)
	}

	outcome, err := e.store.UpsertMovie(ctx, movie)
	if err != nil {
		return fmt.Errorf("upsert %s: %w", movie.ExternalID, err)
	}

	switch outcome {
	case store.OutcomeCreated:
		result.Created++
	case store.OutcomeUpdated:
		result.Updated++
	case store.OutcomeUnchanged:
		result.Unchanged++
	case store.OutcomeStale:
		result.Stale++
		e.logger.Debug("rejected stale record",
			"external_id", movie.ExternalID,
			"updated_at", movie.UpdatedAt,
		)
	}
	return nil
}

// toMovie validates a raw record and converts it to the domain type.
func (e *Engine) toMovie(raw *metadata.RawMovie) (*domain.Movie, error) {
	if err := e.validator.Validate(raw); err != nil {
		return nil, err
	}
	updatedAt, err := time.Parse(time.RFC3339Nano, raw.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("parse updated_at: %w", err)
	}
	return &domain.Movie{
		ExternalID: raw.ExternalID,
		Title:      raw.Title,
		Year:       raw.Year,
		Genres:     genre.CanonicalizeAll(raw.Genres),
		Rating:     raw.Rating,
		Synopsis:   raw.Synopsis,
		UpdatedAt:  updatedAt,
	}, nil
}

// fetchWithRetry fetches one page, retrying transient source failures
// with exponential backoff up to the configured attempt cap.
func (e *Engine) fetchWithRetry(ctx context.Context, revision string) (*metadata.Page, error) {
	backoff := e.cfg.InitialBackoff
	var lastErr error

	for attempt := 1; attempt <= e.cfg.MaxAttempts; attempt++ {
		page, err := e.source.FetchSince(ctx, revision)
		if err == nil {
			return page, nil
		}
		if !metadata.IsTransient(err) {
			return nil, err
		}
		lastErr = err

		if attempt == e.cfg.MaxAttempts {
			break
		}
		e.logger.Warn("transient source failure, backing off",
			"attempt", attempt,
			"backoff", backoff,
			"error", err,
		)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
		backoff = min(backoff*2, e.cfg.MaxBackoff)
	}

	return nil, fmt.Errorf("source failed after %d attempts: %w", e.cfg.MaxAttempts, lastErr)
}

// finishSuccess marks the cycle complete. The revision token is kept so
// the next cycle syncs incrementally.
func (e *Engine) finishSuccess(ctx context.Context, state *domain.SyncState) {
	now := time.Now().UTC()
	state.Status = domain.SyncIdle
	state.LastSuccessAt = &now
	state.LastError = ""
	if err := e.store.UpdateSyncState(ctx, state); err != nil {
		e.logger.Error("failed to persist sync success", "error", err)
	}
}

// finishFailure records the cycle's outcome. Cancellation leaves the state
// InProgress with the last checkpoint so the next boot resumes; exhausted
// retries mark the state Failed. Either way previously synced data stays
// servable. The write uses a detached context because ctx may already be
// canceled.
func (e *Engine) finishFailure(ctx context.Context, state *domain.SyncState, cause error) {
	writeCtx := ctx
	if ctx.Err() != nil {
		var cancel context.CancelFunc
		writeCtx, cancel = context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
	}

	if errors.Is(cause, context.Canceled) || errors.Is(cause, context.DeadlineExceeded) {
		// Interrupted, not failed. Status stays InProgress as the resume marker.
		if err := e.store.UpdateSyncState(writeCtx, state); err != nil {
			e.logger.Error("failed to persist sync interruption", "error", err)
		}
		e.logger.Info("sync cycle interrupted",
			"revision", state.Revision,
			"error", cause,
		)
		return
	}

	state.Status = domain.SyncFailed
	state.LastError = cause.Error()
	if err := e.store.UpdateSyncState(writeCtx, state); err != nil {
		e.logger.Error("failed to persist sync failure", "error", err)
	}
	e.logger.Error("sync cycle failed",
		"revision", state.Revision,
		"error", cause,
	)
}
