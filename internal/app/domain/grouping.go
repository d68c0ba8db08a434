package domain

import (
	"sort"
	"strings"
	"sync"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// MatchFields selects which sponsor fields a search query is matched against.
type MatchFields int

const (
	// MatchName matches the sponsor name only.
	MatchName MatchFields = iota
	// MatchAll matches name, description and website.
	MatchAll
)

// LevelGroup is one level bucket of a grouped sponsor view.
type LevelGroup struct {
	Level    SponsorLevel
	Sponsors []Sponsor
}

var (
	collatorMu sync.Mutex
	collator   = collate.New(language.Und, collate.IgnoreCase, collate.IgnoreDiacritics, collate.IgnoreWidth)
)

// CompareNames compares two sponsor names the way a human reader sorts them:
// locale aware and insensitive to case and accents.
func CompareNames(a, b string) int {
	collatorMu.Lock()
	defer collatorMu.Unlock()
	return collator.CompareString(a, b)
}

// MatchesQuery reports whether the sponsor matches a free-text query.
// An empty query matches everything.
func MatchesQuery(s Sponsor, query string, fields MatchFields) bool {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return true
	}
	if strings.Contains(strings.ToLower(s.Name), query) {
		return true
	}
	if fields != MatchAll {
		return false
	}
	return strings.Contains(strings.ToLower(s.Description), query) ||
		strings.Contains(strings.ToLower(s.WebsiteURL), query)
}

// FilterSponsors returns the sponsors matching query, sorted by name.
// The input slice is not modified.
func FilterSponsors(sponsors []Sponsor, query string, fields MatchFields) []Sponsor {
	out := make([]Sponsor, 0, len(sponsors))
	for _, sponsor := range sponsors {
		if MatchesQuery(sponsor, query, fields) {
			out = append(out, sponsor)
		}
	}
	SortSponsors(out)
	return out
}

// SortSponsors sorts in place by name, then id.
func SortSponsors(sponsors []Sponsor) {
	sort.SliceStable(sponsors, func(i, j int) bool {
		if c := CompareNames(sponsors[i].Name, sponsors[j].Name); c != 0 {
			return c < 0
		}
		return sponsors[i].ID < sponsors[j].ID
	})
}

// GroupByLevel buckets sponsors under their level, keeping the order of
// levels as given. Levels without sponsors are kept with an empty bucket.
func GroupByLevel(levels []SponsorLevel, sponsors []Sponsor) []LevelGroup {
	groups := make([]LevelGroup, 0, len(levels))
	index := make(map[int64]int, len(levels))
	for _, level := range levels {
		level.Sponsors = nil
		if _, seen := index[level.ID]; !seen {
			index[level.ID] = len(groups)
		}
		groups = append(groups, LevelGroup{Level: level, Sponsors: []Sponsor{}})
	}
	for _, sponsor := range sponsors {
		pos, ok := index[sponsor.LevelID]
		if !ok {
			continue
		}
		groups[pos].Sponsors = append(groups[pos].Sponsors, sponsor)
	}
	return groups
}

// GroupSponsors filters, sorts and groups sponsors in one pass.
func GroupSponsors(levels []SponsorLevel, sponsors []Sponsor, query string, fields MatchFields) []LevelGroup {
	return GroupByLevel(levels, FilterSponsors(sponsors, query, fields))
}

// CountByLevel returns how many sponsors reference each level id.
func CountByLevel(sponsors []Sponsor) map[int64]int {
	counts := make(map[int64]int)
	for _, sponsor := range sponsors {
		counts[sponsor.LevelID]++
	}
	return counts
}
