package search

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/vetfinder-my/platform/internal/directory"
)

// SortKey selects the field clinics are ordered by.
type SortKey string

const (
	SortByName  SortKey = "name"
	SortByCity  SortKey = "city"
	SortByState SortKey = "state"
)

// Direction is the sort direction.
type Direction string

const (
	Ascending  Direction = "asc"
	Descending Direction = "desc"
)

// Sort returns a new slice ordered by the given key. The sort is stable and
// uses locale-aware string comparison. Unknown keys fall back to name.
func Sort(list []directory.Clinic, key SortKey, dir Direction) []directory.Clinic {
	out := make([]directory.Clinic, len(list))
	copy(out, list)

	field := func(c directory.Clinic) string {
		switch key {
		case SortByCity:
			return c.City
		case SortByState:
			return c.State
		default:
			return c.Name
		}
	}

	// Collators buffer internally, so build one per call rather than
	// sharing across goroutines.
	col := collate.New(language.English, collate.IgnoreCase)
	sort.SliceStable(out, func(i, j int) bool {
		cmp := col.CompareString(field(out[i]), field(out[j]))
		if dir == Descending {
			return cmp > 0
		}
		return cmp < 0
	})
	return out
}

// Priority scores a clinic for ranking independent of any explicit sort
// key. Emergency capability dominates, then breadth of specializations and
// services, then completeness of contact details. Monotonic in each input.
func Priority(c directory.Clinic) int {
	score := 0
	if c.Emergency {
		score += 100
	}
	score += 10 * len(c.Specializations)
	score += 5 * len(c.ServicesOffered)
	if c.Phone != "" {
		score += 20
	}
	if c.Website != "" {
		score += 15
	}
	if c.Email != "" {
		score += 10
	}
	return score
}

// ApplyBoosts orders clinics for display after a free-text search: clinics
// whose name contains the query come first, then everything else, each
// group by descending Priority with ties broken by name.
func ApplyBoosts(list []directory.Clinic, query string) []directory.Clinic {
	out := make([]directory.Clinic, len(list))
	copy(out, list)

	q := strings.ToLower(strings.TrimSpace(query))
	nameHit := func(c directory.Clinic) bool {
		return q != "" && strings.Contains(strings.ToLower(c.Name), q)
	}

	sort.SliceStable(out, func(i, j int) bool {
		hi, hj := nameHit(out[i]), nameHit(out[j])
		if hi != hj {
			return hi
		}
		pi, pj := Priority(out[i]), Priority(out[j])
		if pi != pj {
			return pi > pj
		}
		return out[i].Name < out[j].Name
	})
	return out
}
