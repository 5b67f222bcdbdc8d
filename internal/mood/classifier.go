package mood

import (
	"fmt"
	"strings"

	"github.com/rasa-media/rasa-server/internal/domain"
)

// Classifier evaluates the rule table against movies. It is stateless and
// safe for concurrent use.
type Classifier struct {
	rules   []Rule
	buckets []string
}

// NewClassifier validates the rule table and builds a classifier.
// A malformed table is a configuration error and must fail startup, never
// surface during a sync cycle.
func NewClassifier(rules []Rule) (*Classifier, error) {
	seen := make(map[string]bool)
	var buckets []string
	for i, r := range rules {
		if err := r.validate(); err != nil {
			return nil, fmt.Errorf("mood rule %d: %w", i, err)
		}
		if !seen[r.Bucket] {
			seen[r.Bucket] = true
			buckets = append(buckets, r.Bucket)
		}
	}
	buckets = append(buckets, Unclassified)
	return &Classifier{rules: rules, buckets: buckets}, nil
}

// MustNewClassifier is NewClassifier that panics on a malformed table.
// Intended for the shipped DefaultRules at process start.
func MustNewClassifier(rules []Rule) *Classifier {
	c, err := NewClassifier(rules)
	if err != nil {
		panic(err)
	}
	return c
}

// Buckets returns every bucket name the table can produce, in rule order,
// with the catch-all last. Movie labels are always a subset of this set.
func (c *Classifier) Buckets() []string {
	out := make([]string, len(c.buckets))
	copy(out, c.buckets)
	return out
}

// Classify returns the mood labels for a movie, in rule-table order.
// The result is never empty: a movie matching no rule gets the catch-all.
func (c *Classifier) Classify(m *domain.Movie) []string {
	var labels []string
	seen := make(map[string]bool)
	for _, r := range c.rules {
		if !seen[r.Bucket] && c.matches(r, m) {
			seen[r.Bucket] = true
			labels = append(labels, r.Bucket)
		}
	}
	if len(labels) == 0 {
		labels = append(labels, Unclassified)
	}
	return labels
}

func (c *Classifier) matches(r Rule, m *domain.Movie) bool {
	if m.Rating < r.MinRating {
		return false
	}
	if r.MaxRating != 0 && m.Rating > r.MaxRating {
		return false
	}

	if len(r.Genres) > 0 {
		matched := false
		for _, g := range r.Genres {
			if m.HasGenre(g) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}

	if len(r.Keywords) > 0 {
		synopsis := strings.ToLower(m.Synopsis)
		matched := false
		for _, kw := range r.Keywords {
			if strings.Contains(synopsis, strings.ToLower(kw)) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}

	return true
}
