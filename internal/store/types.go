package store

// UpsertOutcome describes what an idempotent movie upsert actually did.
type UpsertOutcome int

const (
	// OutcomeCreated means the movie did not exist and was inserted.
	OutcomeCreated UpsertOutcome = iota
	// OutcomeUpdated means an existing row was overwritten with newer data.
	OutcomeUpdated
	// OutcomeUnchanged means the incoming record matched the stored row
	// field for field; nothing was written.
	OutcomeUnchanged
	// OutcomeStale means the incoming record carried an older update
	// timestamp than the stored row and was rejected. This guards against
	// out-of-order sync replays regressing newer data.
	OutcomeStale
)

// String returns the string representation of an UpsertOutcome.
func (o UpsertOutcome) String() string {
	switch o {
	case OutcomeCreated:
		return "created"
	case OutcomeUpdated:
		return "updated"
	case OutcomeUnchanged:
		return "unchanged"
	case OutcomeStale:
		return "stale"
	default:
		return "unknown"
	}
}

// ListParams bounds a paginated movie listing.
type ListParams struct {
	Limit  int
	Offset int
}

// DefaultListParams returns the default pagination window.
func DefaultListParams() ListParams {
	return ListParams{Limit: 50}
}

// Validate clamps the parameters to sane bounds.
func (p *ListParams) Validate() {
	if p.Limit <= 0 {
		p.Limit = 50
	}
	if p.Limit > 500 {
		p.Limit = 500
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
}

// MoodCount is a mood bucket name with its member count.
type MoodCount struct {
	Mood  string `json:"mood"`
	Count int    `json:"count"`
}
