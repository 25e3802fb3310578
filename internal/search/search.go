// Package search builds filtered, ordered views of the clinic collection.
package search

import (
	"strings"

	"github.com/vetfinder-my/platform/internal/directory"
)

// Filter narrows the clinic collection. The zero value keeps everything.
// Within a category the selected values are ORed; active categories are
// ANDed together.
type Filter struct {
	// Query is matched case-insensitively as a substring of the name,
	// city, state, street, and every taxonomy label.
	Query string

	// State and City are exact-equality filters.
	State string
	City  string

	// Emergency, when set, keeps only clinics matching the flag.
	Emergency *bool

	Services        []string
	Specializations []string
	Animals         []string
}

// universalService is assumed to be offered by every clinic, so selecting
// it never narrows the result.
const universalService = "Vaccination"

// Search returns the subset of clinics matching the filter, preserving
// input order. It never mutates the input slice.
func Search(list []directory.Clinic, f Filter) []directory.Clinic {
	out := []directory.Clinic{}
	for _, c := range list {
		if matches(c, f) {
			out = append(out, c)
		}
	}
	return out
}

func matches(c directory.Clinic, f Filter) bool {
	if q := strings.TrimSpace(f.Query); q != "" && !matchesQuery(c, q) {
		return false
	}
	if f.State != "" && c.State != f.State {
		return false
	}
	if f.City != "" && c.City != f.City {
		return false
	}
	if f.Emergency != nil && c.Emergency != *f.Emergency {
		return false
	}
	if !matchesCategory(c.ServicesOffered, f.Services, true) {
		return false
	}
	if !matchesCategory(c.Specializations, f.Specializations, false) {
		return false
	}
	if !matchesCategory(c.AnimalsTreated, f.Animals, false) {
		return false
	}
	return true
}

func matchesQuery(c directory.Clinic, query string) bool {
	q := strings.ToLower(query)
	for _, field := range []string{c.Name, c.City, c.State, c.Street} {
		if strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	for _, labels := range [][]string{c.AnimalsTreated, c.Specializations, c.ServicesOffered} {
		for _, label := range labels {
			if strings.Contains(strings.ToLower(label), q) {
				return true
			}
		}
	}
	return false
}

// matchesCategory reports whether at least one selected value matches one
// of the clinic's labels. The match is a case-insensitive substring test in
// either direction, so "Surgery" matches "Orthopedic Surgery" and vice
// versa. An empty selection is no constraint.
func matchesCategory(labels, selected []string, services bool) bool {
	active := false
	for _, sel := range selected {
		sel = strings.TrimSpace(sel)
		if sel == "" {
			continue
		}
		active = true
		if services && strings.EqualFold(sel, universalService) {
			return true
		}
		lowSel := strings.ToLower(sel)
		for _, label := range labels {
			lowLabel := strings.ToLower(label)
			if strings.Contains(lowLabel, lowSel) || strings.Contains(lowSel, lowLabel) {
				return true
			}
		}
	}
	// A selection of only blank values is no constraint.
	return !active
}
