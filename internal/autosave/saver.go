package autosave

import (
	"context"

	"github.com/vetfinder-my/platform/internal/directory"
)

// RepositorySaver persists drafts through the clinic repository.
type RepositorySaver struct {
	repo directory.Repository
}

// NewRepositorySaver wires a repository as the controller's Saver.
func NewRepositorySaver(repo directory.Repository) *RepositorySaver {
	return &RepositorySaver{repo: repo}
}

// Save writes all editable fields of the draft as one partial update.
func (s *RepositorySaver) Save(ctx context.Context, draft directory.Clinic) (*directory.Clinic, error) {
	return s.repo.Update(ctx, draft.ID, editablePatch(draft))
}

// editablePatch lifts the draft's editable fields into a full patch.
// Verification status is deliberately excluded: the edit form does not own
// the moderation lifecycle.
func editablePatch(c directory.Clinic) directory.Patch {
	return directory.Patch{
		Name:             &c.Name,
		Street:           &c.Street,
		City:             &c.City,
		State:            &c.State,
		Postcode:         &c.Postcode,
		Phone:            &c.Phone,
		Email:            &c.Email,
		Website:          &c.Website,
		Facebook:         &c.Facebook,
		Instagram:        &c.Instagram,
		Emergency:        &c.Emergency,
		EmergencyHours:   &c.EmergencyHours,
		EmergencyDetails: &c.EmergencyDetails,
		Hours:            &c.Hours,
		AnimalsTreated:   &c.AnimalsTreated,
		Specializations:  &c.Specializations,
		ServicesOffered:  &c.ServicesOffered,
	}
}
