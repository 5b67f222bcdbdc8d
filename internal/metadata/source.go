// Package metadata defines the boundary to upstream movie metadata providers.
//
// The sync engine consumes pages of raw records through the Source
// interface and does not know the provider's transport. Record order is
// not guaranteed; each record is reconciled independently.
package metadata

import (
	"context"
	"errors"
	"fmt"
)

// RawMovie is an unvalidated record as delivered by a provider.
// Validation happens in the sync engine so a malformed record can be
// skipped without aborting the batch.
type RawMovie struct {
	ExternalID string   `json:"external_id" validate:"required"`
	Title      string   `json:"title" validate:"required"`
	Year       int      `json:"year" validate:"omitempty,gte=1870,lte=2100"`
	Genres     []string `json:"genres"`
	Rating     float64  `json:"rating" validate:"gte=0,lte=10"`
	Synopsis   string   `json:"synopsis"`
	UpdatedAt  string   `json:"updated_at" validate:"required"`
}

// Page is one batch of records from a provider.
type Page struct {
	Records []RawMovie
	// NextRevision is the opaque token to pass to the next FetchSince call.
	// Persisting it after the page is committed makes sync resumable.
	NextRevision string
	// Done signals that no more records exist beyond this page.
	Done bool
}

// Source delivers movie records incrementally.
//
// FetchSince returns records newer than the given revision token; an empty
// token means "from the beginning". Implementations must treat the token as
// opaque and replay-safe: fetching the same revision twice may return the
// same records again, and the engine's idempotent upserts absorb that.
type Source interface {
	// Name identifies the provider in logs and health output.
	Name() string
	FetchSince(ctx context.Context, revision string) (*Page, error)
}

// ErrorKind partitions source failures by how the sync engine should react.
type ErrorKind int

const (
	// KindNetwork covers connection and protocol failures. Transient;
	// retried with backoff.
	KindNetwork ErrorKind = iota
	// KindTimeout covers deadline expiry on the provider call. Transient;
	// retried with backoff.
	KindTimeout
)

func (k ErrorKind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindTimeout:
		return "timeout"
	default:
		return "unknown"
	}
}

// SourceError is a provider failure tagged with its kind.
type SourceError struct {
	Kind ErrorKind
	Err  error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("source %s error: %v", e.Kind, e.Err)
}

func (e *SourceError) Unwrap() error { return e.Err }

// NetworkError wraps err as a transient network failure.
func NetworkError(err error) *SourceError {
	return &SourceError{Kind: KindNetwork, Err: err}
}

// TimeoutError wraps err as a transient timeout.
func TimeoutError(err error) *SourceError {
	return &SourceError{Kind: KindTimeout, Err: err}
}

// IsTransient reports whether err is a source failure worth retrying.
func IsTransient(err error) bool {
	var se *SourceError
	return errors.As(err, &se)
}
