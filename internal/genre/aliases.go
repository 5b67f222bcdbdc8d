package genre

import "strings"

// canonicalNames maps a genre slug to its canonical display name.
// Slugs not listed here pass through with the source's original label.
var canonicalNames = map[string]string{
	"action":      "Action",
	"adventure":   "Adventure",
	"animation":   "Animation",
	"biography":   "Biography",
	"comedy":      "Comedy",
	"crime":       "Crime",
	"documentary": "Documentary",
	"drama":       "Drama",
	"family":      "Family",
	"fantasy":     "Fantasy",
	"film-noir":   "Film-Noir",
	"history":     "History",
	"horror":      "Horror",
	"music":       "Music",
	"musical":     "Musical",
	"mystery":     "Mystery",
	"romance":     "Romance",
	"sci-fi":      "Sci-Fi",
	"sport":       "Sport",
	"thriller":    "Thriller",
	"war":         "War",
	"western":     "Western",
}

// aliases maps common source variations to canonical slugs. Metadata
// providers disagree on genre labels; the aliases fold the variations
// into one taxonomy so downstream matching stays reliable.
var aliases = map[string][]string{
	// Science fiction variations
	"science-fiction": {"sci-fi"},
	"scifi":           {"sci-fi"},
	"sf":              {"sci-fi"},

	// Noir
	"noir":       {"film-noir"},
	"neo-noir":   {"film-noir"},
	"filmnoir":   {"film-noir"},
	"film-noire": {"film-noir"},

	// Combined labels -> multiple genres
	"romantic-comedy":  {"romance", "comedy"},
	"rom-com":          {"romance", "comedy"},
	"romcom":           {"romance", "comedy"},
	"dramedy":          {"drama", "comedy"},
	"comedy-drama":     {"comedy", "drama"},
	"action-adventure": {"action", "adventure"},
	"sci-fi-fantasy":   {"sci-fi", "fantasy"},

	// Children's labels
	"kids":        {"family"},
	"children":    {"family"},
	"childrens":   {"family"},
	"kids-family": {"family"},

	// Animation variations
	"animated": {"animation"},
	"anime":    {"animation"},

	// Thriller variations
	"suspense": {"thriller"},

	// Horror variations
	"scary":           {"horror"},
	"slasher":         {"horror"},
	"horror-thriller": {"horror", "thriller"},

	// Biography variations
	"biopic":       {"biography"},
	"biographical": {"biography"},

	// History variations
	"historical":       {"history"},
	"historical-drama": {"history", "drama"},
	"period-drama":     {"history", "drama"},

	// Documentary variations
	"docu":       {"documentary"},
	"docudrama":  {"documentary", "drama"},
	"true-crime": {"documentary", "crime"},

	// War variations
	"war-film": {"war"},
	"military": {"war"},

	// Western variations
	"cowboy":            {"western"},
	"spaghetti-western": {"western"},
}

// Canonical resolves a raw genre label from a metadata source to its
// canonical display names. An unknown label passes through trimmed but
// otherwise unchanged, so source data is never silently discarded.
func Canonical(raw string) []string {
	slug := Slugify(raw)
	if slug == "" {
		return nil
	}

	slugs := []string{slug}
	if mapped, ok := aliases[slug]; ok {
		slugs = mapped
	}

	names := make([]string, 0, len(slugs))
	for _, s := range slugs {
		if name, ok := canonicalNames[s]; ok {
			names = append(names, name)
			continue
		}
		names = append(names, strings.TrimSpace(raw))
	}
	return names
}

// CanonicalizeAll resolves a genre list, deduplicating while preserving
// first-seen order.
func CanonicalizeAll(raws []string) []string {
	if len(raws) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(raws))
	out := make([]string, 0, len(raws))
	for _, raw := range raws {
		for _, name := range Canonical(raw) {
			if _, ok := seen[name]; ok {
				continue
			}
			seen[name] = struct{}{}
			out = append(out, name)
		}
	}
	return out
}
