// Package seed provides a bundled movie dataset used when no upstream
// metadata source is configured. It makes a fresh install usable offline
// and gives the setup wizard something to show.
package seed

import (
	"context"
	"strconv"

	"github.com/rasa-media/rasa-server/internal/metadata"
)

const pageSize = 5

// Source pages through the bundled dataset. The revision token is the
// offset of the next record, so an interrupted sync resumes mid-dataset.
type Source struct {
	records []metadata.RawMovie
}

// NewSource returns a source over the bundled dataset.
func NewSource() *Source {
	return &Source{records: dataset}
}

// Name implements metadata.Source.
func (s *Source) Name() string { return "seed" }

// FetchSince implements metadata.Source.
func (s *Source) FetchSince(ctx context.Context, revision string) (*metadata.Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	offset := 0
	if revision != "" {
		n, err := strconv.Atoi(revision)
		if err != nil || n < 0 {
			// Unknown token, likely from a different source. Start over;
			// idempotent upserts make the replay harmless.
			n = 0
		}
		offset = min(n, len(s.records))
	}

	end := min(offset+pageSize, len(s.records))
	return &metadata.Page{
		Records:      s.records[offset:end],
		NextRevision: strconv.Itoa(end),
		Done:         end == len(s.records),
	}, nil
}

var dataset = []metadata.RawMovie{
	{
		ExternalID: "seed-0001",
		Title:      "Paper Lanterns",
		Year:       2019,
		Genres:     []string{"Drama", "Romance"},
		Rating:     7.4,
		Synopsis:   "Two strangers meet every year at a lantern festival, never exchanging names.",
		UpdatedAt:  "2026-01-15T00:00:00Z",
	},
	{
		ExternalID: "seed-0002",
		Title:      "The Last Projectionist",
		Year:       2021,
		Genres:     []string{"Documentary"},
		Rating:     8.1,
		Synopsis:   "A portrait of the final analog cinema operators in rural Europe.",
		UpdatedAt:  "2026-01-15T00:00:00Z",
	},
	{
		ExternalID: "seed-0003",
		Title:      "Orbit Decay",
		Year:       2023,
		Genres:     []string{"Science Fiction", "Thriller"},
		Rating:     7.8,
		Synopsis:   "A salvage crew races a collapsing station's orbit to recover its archive.",
		UpdatedAt:  "2026-01-15T00:00:00Z",
	},
	{
		ExternalID: "seed-0004",
		Title:      "Sunday League",
		Year:       2018,
		Genres:     []string{"Comedy"},
		Rating:     6.9,
		Synopsis:   "A hopeless amateur football club finds an unlikely coach in a retired referee.",
		UpdatedAt:  "2026-01-15T00:00:00Z",
	},
	{
		ExternalID: "seed-0005",
		Title:      "静かな海 (The Quiet Sea)",
		Year:       2020,
		Genres:     []string{"Drama"},
		Rating:     7.9,
		Synopsis:   "A lighthouse keeper's daughter returns home after her father's disappearance.",
		UpdatedAt:  "2026-01-15T00:00:00Z",
	},
	{
		ExternalID: "seed-0006",
		Title:      "Copper Canyon",
		Year:       2015,
		Genres:     []string{"Western", "Crime"},
		Rating:     7.1,
		Synopsis:   "A sheriff and an outlaw form a reluctant truce to track a third man.",
		UpdatedAt:  "2026-01-15T00:00:00Z",
	},
	{
		ExternalID: "seed-0007",
		Title:      "Glasshouse",
		Year:       2022,
		Genres:     []string{"Horror", "Mystery"},
		Rating:     6.7,
		Synopsis:   "A botanist inherits a conservatory whose plants remember its previous owners.",
		UpdatedAt:  "2026-01-15T00:00:00Z",
	},
	{
		ExternalID: "seed-0008",
		Title:      "Midnight Bakery",
		Year:       2017,
		Genres:     []string{"Comedy", "Romance"},
		Rating:     6.4,
		Synopsis:   "A heartwarming story of a night-shift baker and her impossible regulars.",
		UpdatedAt:  "2026-01-15T00:00:00Z",
	},
	{
		ExternalID: "seed-0009",
		Title:      "The Cartographer's Son",
		Year:       2016,
		Genres:     []string{"Adventure", "History"},
		Rating:     7.6,
		Synopsis:   "A young mapmaker retraces his father's unfinished survey across the steppe.",
		UpdatedAt:  "2026-01-15T00:00:00Z",
	},
	{
		ExternalID: "seed-0010",
		Title:      "Static",
		Year:       2024,
		Genres:     []string{"Horror"},
		Rating:     4.2,
		Synopsis:   "A pirate radio DJ starts receiving requests from listeners who do not exist.",
		UpdatedAt:  "2026-01-15T00:00:00Z",
	},
	{
		ExternalID: "seed-0011",
		Title:      "Falcon Ridge",
		Year:       2014,
		Genres:     []string{"Adventure", "Family"},
		Rating:     6.8,
		Synopsis:   "Two siblings spend a summer rehabilitating an injured falcon with their grandfather.",
		UpdatedAt:  "2026-01-15T00:00:00Z",
	},
	{
		ExternalID: "seed-0012",
		Title:      "Terminal Velocity of Small Birds",
		Year:       2023,
		Genres:     []string{"Drama", "Science Fiction"},
		Rating:     8.4,
		Synopsis:   "An ornithologist on a generation ship studies the first sparrows born in transit.",
		UpdatedAt:  "2026-01-15T00:00:00Z",
	},
}
