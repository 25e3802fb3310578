package search

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vetfinder-my/platform/internal/directory"
)

func fixtures() []directory.Clinic {
	return []directory.Clinic{
		{
			Name:            "Klinik Haiwan Bangsar",
			Street:          "12 Jalan Maarof",
			City:            "Kuala Lumpur",
			State:           "Kuala Lumpur",
			Phone:           "+60312345678",
			AnimalsTreated:  []string{"Dogs", "Cats"},
			ServicesOffered: []string{"Vaccination", "Dental Care"},
		},
		{
			Name:            "Petaling Vet Centre",
			Street:          "88 Jalan Gasing",
			City:            "Petaling Jaya",
			State:           "Selangor",
			Emergency:       true,
			AnimalsTreated:  []string{"Dogs", "Cats", "Rabbits"},
			Specializations: []string{"Orthopedic Surgery"},
			ServicesOffered: []string{"Surgery", "Grooming"},
		},
		{
			Name:            "Island Animal Hospital",
			Street:          "3 Lebuh Farquhar",
			City:            "George Town",
			State:           "Penang",
			AnimalsTreated:  []string{"Exotics", "Birds"},
			ServicesOffered: []string{"Avian Medicine"},
		},
		{
			Name:           "Shah Alam Pet Clinic",
			Street:         "7 Persiaran Sultan",
			City:           "Shah Alam",
			State:          "Selangor",
			AnimalsTreated: []string{"Dogs"},
		},
	}
}

func names(list []directory.Clinic) []string {
	out := make([]string, len(list))
	for i, c := range list {
		out[i] = c.Name
	}
	return out
}

func TestSearchFreeText(t *testing.T) {
	got := Search(fixtures(), Filter{Query: "Kuala"})
	assert.Equal(t, []string{"Klinik Haiwan Bangsar"}, names(got))

	// Case-insensitive, matches taxonomy labels too.
	got = Search(fixtures(), Filter{Query: "rabbit"})
	assert.Equal(t, []string{"Petaling Vet Centre"}, names(got))

	got = Search(fixtures(), Filter{Query: "jalan"})
	assert.Equal(t, []string{"Klinik Haiwan Bangsar", "Petaling Vet Centre"}, names(got))
}

func TestSearchEmptyQueryKeepsAll(t *testing.T) {
	got := Search(fixtures(), Filter{Query: "   "})
	assert.Len(t, got, 4)
}

func TestSearchStateEquality(t *testing.T) {
	got := Search(fixtures(), Filter{State: "Selangor"})
	assert.Equal(t, []string{"Petaling Vet Centre", "Shah Alam Pet Clinic"}, names(got))

	// Combined with a text query it narrows further.
	got = Search(fixtures(), Filter{State: "Selangor", Query: "surgery"})
	assert.Equal(t, []string{"Petaling Vet Centre"}, names(got))
}

func TestSearchEmergencyFlag(t *testing.T) {
	yes := true
	got := Search(fixtures(), Filter{Emergency: &yes})
	assert.Equal(t, []string{"Petaling Vet Centre"}, names(got))
}

func TestSearchCategorySubstringBothWays(t *testing.T) {
	// Selected value is a substring of the clinic label.
	got := Search(fixtures(), Filter{Specializations: []string{"Surgery"}})
	assert.Equal(t, []string{"Petaling Vet Centre"}, names(got))

	// Clinic label is a substring of the selected value.
	got = Search(fixtures(), Filter{Animals: []string{"Small Dogs"}})
	assert.Equal(t, []string{"Klinik Haiwan Bangsar", "Petaling Vet Centre", "Shah Alam Pet Clinic"}, names(got))
}

func TestSearchVaccinationMatchesEveryone(t *testing.T) {
	got := Search(fixtures(), Filter{Services: []string{"Vaccination"}})
	assert.Len(t, got, 4, "vaccination is assumed universal")

	got = Search(fixtures(), Filter{State: "Selangor", Services: []string{"Vaccination"}})
	assert.Len(t, got, 2)
}

func TestSearchCategoriesAndTogether(t *testing.T) {
	got := Search(fixtures(), Filter{
		Animals:  []string{"Cats"},
		Services: []string{"Grooming"},
	})
	assert.Equal(t, []string{"Petaling Vet Centre"}, names(got))
}

func TestSearchBlankSelectionsAreNoConstraint(t *testing.T) {
	got := Search(fixtures(), Filter{Services: []string{"", "  "}})
	assert.Len(t, got, 4)
}

func TestSearchEmptyInput(t *testing.T) {
	assert.Empty(t, Search(nil, Filter{Query: "anything"}))
	assert.Empty(t, Search([]directory.Clinic{}, Filter{}))
}
