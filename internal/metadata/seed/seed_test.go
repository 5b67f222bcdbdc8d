package seed

import (
	"context"
	"testing"
)

func TestFetchSincePagesThroughDataset(t *testing.T) {
	s := NewSource()
	ctx := context.Background()

	seen := make(map[string]bool)
	revision := ""
	pages := 0
	for {
		page, err := s.FetchSince(ctx, revision)
		if err != nil {
			t.Fatalf("fetch page %d: %v", pages, err)
		}
		pages++
		for _, r := range page.Records {
			if seen[r.ExternalID] {
				t.Errorf("duplicate record %s", r.ExternalID)
			}
			seen[r.ExternalID] = true
		}
		if page.Done {
			break
		}
		revision = page.NextRevision
		if pages > 100 {
			t.Fatal("pagination never terminated")
		}
	}

	if len(seen) != len(dataset) {
		t.Errorf("saw %d records, want %d", len(seen), len(dataset))
	}
}

func TestFetchSinceResumesFromRevision(t *testing.T) {
	s := NewSource()
	ctx := context.Background()

	first, err := s.FetchSince(ctx, "")
	if err != nil {
		t.Fatalf("first page: %v", err)
	}
	second, err := s.FetchSince(ctx, first.NextRevision)
	if err != nil {
		t.Fatalf("second page: %v", err)
	}
	if len(second.Records) == 0 {
		t.Fatal("second page empty")
	}
	if second.Records[0].ExternalID == first.Records[0].ExternalID {
		t.Error("resume returned the first page again")
	}
}

func TestFetchSinceUnknownRevisionRestarts(t *testing.T) {
	s := NewSource()

	page, err := s.FetchSince(context.Background(), "not-a-seed-token")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(page.Records) == 0 || page.Records[0].ExternalID != dataset[0].ExternalID {
		t.Errorf("unknown token should restart from the beginning, got %+v", page.Records)
	}
}

func TestDatasetRecordsAreWellFormed(t *testing.T) {
	for _, r := range dataset {
		if r.ExternalID == "" || r.Title == "" || r.UpdatedAt == "" {
			t.Errorf("record %+v missing required fields", r)
		}
		if r.Rating < 0 || r.Rating > 10 {
			t.Errorf("record %s rating %v out of range", r.ExternalID, r.Rating)
		}
	}
}
