// Package mood derives mood-bucket labels for catalog movies.
//
// Classification is a pure function of a movie's genre tags, rating, and
// synopsis against a fixed, data-driven rule table. It is total: a movie
// that matches no rule falls into the Unclassified bucket so it stays
// visible to the mood listing endpoints.
package mood

import (
	"fmt"
	"strings"
)

// Unclassified is the catch-all bucket assigned when no rule matches.
// No rule may target it directly.
const Unclassified = "Unclassified"

// Rule maps movies onto a single mood bucket. A movie matches when every
// configured condition holds:
//
//   - Genres: at least one of the listed genres, if any are listed
//   - MinRating / MaxRating: rating within the bounds (MaxRating 0 means
//     unbounded above)
//   - Keywords: synopsis contains at least one keyword, if any are listed
//
// Rules are evaluated in table order and a movie can land in several
// buckets; table order also fixes the order of the resulting labels.
type Rule struct {
	Bucket    string
	Genres    []string
	MinRating float64
	MaxRating float64
	Keywords  []string
}

func (r Rule) validate() error {
	if strings.TrimSpace(r.Bucket) == "" {
		return fmt.Errorf("rule has empty bucket name")
	}
	if strings.EqualFold(r.Bucket, Unclassified) {
		return fmt.Errorf("rule targets reserved bucket %q", Unclassified)
	}
	if r.MinRating < 0 || r.MinRating > 10 {
		return fmt.Errorf("rule %q: min rating %v out of range [0, 10]", r.Bucket, r.MinRating)
	}
	if r.MaxRating != 0 && (r.MaxRating < r.MinRating || r.MaxRating > 10) {
		return fmt.Errorf("rule %q: max rating %v invalid", r.Bucket, r.MaxRating)
	}
	if len(r.Genres) == 0 && len(r.Keywords) == 0 && r.MinRating == 0 && r.MaxRating == 0 {
		return fmt.Errorf("rule %q matches everything; use the catch-all instead", r.Bucket)
	}
	return nil
}

// DefaultRules is the shipped rule table. Buckets are a fixed enumeration;
// changing this table changes classification for the whole catalog, so the
// sync engine reclassifies movies whenever their classifiable fields change.
func DefaultRules() []Rule {
	return []Rule{
		{
			Bucket:    "Uplifting",
			Genres:    []string{"Comedy", "Family", "Animation", "Musical"},
			MinRating: 6.0,
		},
		{
			Bucket:    "Epic",
			Genres:    []string{"Adventure", "Fantasy", "Science Fiction", "Sci-Fi", "War"},
			MinRating: 7.0,
		},
		{
			Bucket:    "Gritty",
			Genres:    []string{"Crime", "Thriller", "Film-Noir", "Western"},
			MinRating: 6.5,
		},
		{
			Bucket:    "Chilling",
			Genres:    []string{"Horror", "Mystery"},
			MinRating: 6.5,
		},
		{
			Bucket:    "Thoughtful",
			Genres:    []string{"Drama", "Documentary", "Biography", "History"},
			MinRating: 7.0,
		},
		{
			Bucket:    "Romantic",
			Genres:    []string{"Romance"},
			MinRating: 6.0,
		},
		{
			Bucket:    "Feel-Good",
			MinRating: 6.0,
			Keywords:  []string{"heartwarming", "uplifting", "friendship", "redemption"},
		},
	}
}
