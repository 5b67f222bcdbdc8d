package screenbase

import "github.com/rasa-media/rasa-server/internal/metadata"

// pageResponse is the wire shape of GET /v1/movies.
type pageResponse struct {
	Records      []metadata.RawMovie `json:"records"`
	NextRevision string              `json:"next_revision"`
	Done         bool                `json:"done"`
}
