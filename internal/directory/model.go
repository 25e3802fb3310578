// Package directory holds the clinic directory's core entity and its
// persistence implementations.
package directory

import (
	"time"

	"github.com/google/uuid"

	"github.com/vetfinder-my/platform/internal/schedule"
)

// VerificationStatus is the administrative lifecycle tag on a clinic record.
type VerificationStatus string

const (
	VerificationPending  VerificationStatus = "pending"
	VerificationVerified VerificationStatus = "verified"
	VerificationRejected VerificationStatus = "rejected"
	// VerificationArchived soft-deletes a record: it stays in the store but
	// is hidden from the public directory.
	VerificationArchived VerificationStatus = "archived"
)

// IsValid reports whether the value is one of the known statuses.
func (v VerificationStatus) IsValid() bool {
	switch v {
	case VerificationPending, VerificationVerified, VerificationRejected, VerificationArchived:
		return true
	}
	return false
}

// Clinic is the directory's central record.
type Clinic struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Street   string    `json:"street"`
	City     string    `json:"city"`
	State    string    `json:"state"`
	Postcode string    `json:"postcode"`

	Phone     string `json:"phone,omitempty"`
	Email     string `json:"email,omitempty"`
	Website   string `json:"website,omitempty"`
	Facebook  string `json:"facebook,omitempty"`
	Instagram string `json:"instagram,omitempty"`

	Emergency        bool   `json:"emergency"`
	EmergencyHours   string `json:"emergency_hours,omitempty"`
	EmergencyDetails string `json:"emergency_details,omitempty"`

	Hours schedule.WeekHours `json:"hours"`

	AnimalsTreated  []string `json:"animals_treated"`
	Specializations []string `json:"specializations"`
	ServicesOffered []string `json:"services_offered"`

	VerificationStatus VerificationStatus `json:"verification_status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// StatusAt evaluates the clinic's open/closed/emergency status at an instant.
func (c Clinic) StatusAt(at time.Time) schedule.StatusResult {
	return schedule.Evaluate(c.Hours, schedule.EmergencyInfo{
		Available: c.Emergency,
		Hours:     c.EmergencyHours,
		Details:   c.EmergencyDetails,
	}, at)
}

// TodayHoursAt returns the display string for the instant's weekday.
func (c Clinic) TodayHoursAt(at time.Time) string {
	return schedule.TodayHours(c.Hours, at)
}

// Archived reports whether the record has been soft-deleted.
func (c Clinic) Archived() bool {
	return c.VerificationStatus == VerificationArchived
}

// Normalize applies the store-boundary defaults so downstream logic never
// has to guard against missing fields: nil label slices become empty and
// an unknown verification status falls back to pending.
func (c *Clinic) Normalize() {
	if c.AnimalsTreated == nil {
		c.AnimalsTreated = []string{}
	}
	if c.Specializations == nil {
		c.Specializations = []string{}
	}
	if c.ServicesOffered == nil {
		c.ServicesOffered = []string{}
	}
	if !c.VerificationStatus.IsValid() {
		c.VerificationStatus = VerificationPending
	}
}

// Patch describes a partial update to a clinic record. Nil fields are
// left unchanged.
type Patch struct {
	Name     *string `json:"name,omitempty"`
	Street   *string `json:"street,omitempty"`
	City     *string `json:"city,omitempty"`
	State    *string `json:"state,omitempty"`
	Postcode *string `json:"postcode,omitempty"`

	Phone     *string `json:"phone,omitempty"`
	Email     *string `json:"email,omitempty"`
	Website   *string `json:"website,omitempty"`
	Facebook  *string `json:"facebook,omitempty"`
	Instagram *string `json:"instagram,omitempty"`

	Emergency        *bool   `json:"emergency,omitempty"`
	EmergencyHours   *string `json:"emergency_hours,omitempty"`
	EmergencyDetails *string `json:"emergency_details,omitempty"`

	Hours *schedule.WeekHours `json:"hours,omitempty"`

	AnimalsTreated  *[]string `json:"animals_treated,omitempty"`
	Specializations *[]string `json:"specializations,omitempty"`
	ServicesOffered *[]string `json:"services_offered,omitempty"`

	VerificationStatus *VerificationStatus `json:"verification_status,omitempty"`
}

// Apply writes the patch's non-nil fields onto the clinic.
func (p Patch) Apply(c *Clinic) {
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.Street != nil {
		c.Street = *p.Street
	}
	if p.City != nil {
		c.City = *p.City
	}
	if p.State != nil {
		c.State = *p.State
	}
	if p.Postcode != nil {
		c.Postcode = *p.Postcode
	}
	if p.Phone != nil {
		c.Phone = *p.Phone
	}
	if p.Email != nil {
		c.Email = *p.Email
	}
	if p.Website != nil {
		c.Website = *p.Website
	}
	if p.Facebook != nil {
		c.Facebook = *p.Facebook
	}
	if p.Instagram != nil {
		c.Instagram = *p.Instagram
	}
	if p.Emergency != nil {
		c.Emergency = *p.Emergency
	}
	if p.EmergencyHours != nil {
		c.EmergencyHours = *p.EmergencyHours
	}
	if p.EmergencyDetails != nil {
		c.EmergencyDetails = *p.EmergencyDetails
	}
	if p.Hours != nil {
		c.Hours = *p.Hours
	}
	if p.AnimalsTreated != nil {
		c.AnimalsTreated = *p.AnimalsTreated
	}
	if p.Specializations != nil {
		c.Specializations = *p.Specializations
	}
	if p.ServicesOffered != nil {
		c.ServicesOffered = *p.ServicesOffered
	}
	if p.VerificationStatus != nil {
		c.VerificationStatus = *p.VerificationStatus
	}
}
