package genre

import (
	"reflect"
	"testing"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Science Fiction", "science-fiction"},
		{"Sci-Fi", "sci-fi"},
		{"Film Noir", "film-noir"},
		{"Sci-Fi/Fantasy", "sci-fi-fantasy"},
		{"  Comedy  ", "comedy"},
		{"Children's", "children-s"},
		{"Café Société", "cafe-societe"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := Slugify(tt.input); got != tt.expected {
			t.Errorf("Slugify(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestCanonical(t *testing.T) {
	tests := []struct {
		input    string
		expected []string
	}{
		{"Comedy", []string{"Comedy"}},
		{"comedy", []string{"Comedy"}},
		{"Science Fiction", []string{"Sci-Fi"}},
		{"scifi", []string{"Sci-Fi"}},
		{"SF", []string{"Sci-Fi"}},
		{"Noir", []string{"Film-Noir"}},
		{"Romantic Comedy", []string{"Romance", "Comedy"}},
		{"rom-com", []string{"Romance", "Comedy"}},
		{"Kids", []string{"Family"}},
		{"Anime", []string{"Animation"}},
		{"Suspense", []string{"Thriller"}},
		{"Biopic", []string{"Biography"}},
		{"Period Drama", []string{"History", "Drama"}},
		{"True Crime", []string{"Documentary", "Crime"}},
		// Unknown labels pass through untouched.
		{"Mumblecore", []string{"Mumblecore"}},
		{"", nil},
	}

	for _, tt := range tests {
		if got := Canonical(tt.input); !reflect.DeepEqual(got, tt.expected) {
			t.Errorf("Canonical(%q) = %v, want %v", tt.input, got, tt.expected)
		}
	}
}

func TestCanonicalizeAll(t *testing.T) {
	got := CanonicalizeAll([]string{"scifi", "Science Fiction", "Rom-Com", "Comedy", "Mumblecore"})
	want := []string{"Sci-Fi", "Romance", "Comedy", "Mumblecore"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("CanonicalizeAll() = %v, want %v", got, want)
	}
}

func TestCanonicalizeAllEmpty(t *testing.T) {
	if got := CanonicalizeAll(nil); got != nil {
		t.Errorf("CanonicalizeAll(nil) = %v, want nil", got)
	}
}
