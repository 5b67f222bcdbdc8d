// Package domain defines the core entities of the Rasa movie catalog.
package domain

import (
	"slices"
	"strings"
	"time"
)

// Movie is a single catalog entry sourced from the upstream metadata
// provider. The external ID is the upstream identifier and the upsert key;
// movies are created and updated only by a sync cycle.
type Movie struct {
	ExternalID string    `json:"external_id"`
	Title      string    `json:"title"`
	Year       int       `json:"year,omitempty"`
	Genres     []string  `json:"genres,omitempty"`
	Rating     float64   `json:"rating"`
	Synopsis   string    `json:"synopsis,omitempty"`
	Moods      []string  `json:"moods,omitempty"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// HasGenre reports whether the movie carries the given genre tag.
// Comparison is case-insensitive.
func (m *Movie) HasGenre(genre string) bool {
	for _, g := range m.Genres {
		if strings.EqualFold(g, genre) {
			return true
		}
	}
	return false
}

// ClassifiableFieldsEqual reports whether the fields that feed mood
// classification (genres, rating, synopsis) are identical between m and
// other. Unchanged classifiable fields let a sync cycle skip
// reclassification.
func (m *Movie) ClassifiableFieldsEqual(other *Movie) bool {
	if other == nil {
		return false
	}
	if m.Rating != other.Rating || m.Synopsis != other.Synopsis {
		return false
	}
	return slices.Equal(normalizedGenres(m.Genres), normalizedGenres(other.Genres))
}

// normalizedGenres returns a sorted, lower-cased copy of the genre set so
// comparisons ignore ordering and case differences from the source.
func normalizedGenres(genres []string) []string {
	out := make([]string, len(genres))
	for i, g := range genres {
		out[i] = strings.ToLower(strings.TrimSpace(g))
	}
	slices.Sort(out)
	return out
}

// Touch updates the movie's UpdatedAt timestamp to now.
func (m *Movie) Touch() {
	m.UpdatedAt = time.Now().UTC()
}
