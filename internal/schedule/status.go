package schedule

import (
	"fmt"
	"strings"
	"time"
)

// Status is the evaluated state of a clinic at an instant.
type Status string

const (
	StatusOpen      Status = "open"
	StatusClosed    Status = "closed"
	StatusEmergency Status = "emergency"
)

// DefaultEmergencyMessage is used when a clinic is emergency-capable but
// has no emergency hours or details on record.
const DefaultEmergencyMessage = "Emergency services available"

// EmergencyInfo describes a clinic's after-hours emergency capability.
type EmergencyInfo struct {
	Available bool
	Hours     string
	Details   string
}

// StatusResult pairs the evaluated status with a display message.
type StatusResult struct {
	Status  Status `json:"status"`
	Message string `json:"message"`
}

// Evaluate resolves the status of a clinic at the given instant.
// Open wins over everything; a closed clinic with emergency capability
// reports emergency rather than closed.
func Evaluate(hours WeekHours, em EmergencyInfo, at time.Time) StatusResult {
	if IsOpenAt(hours, at) {
		return StatusResult{Status: StatusOpen, Message: fmt.Sprintf("Open today: %s", TodayHours(hours, at))}
	}
	if em.Available {
		return StatusResult{Status: StatusEmergency, Message: emergencyMessage(em)}
	}
	return StatusResult{Status: StatusClosed, Message: "Closed"}
}

func emergencyMessage(em EmergencyInfo) string {
	hours := strings.TrimSpace(em.Hours)
	details := strings.TrimSpace(em.Details)
	switch {
	case hours != "" && details != "":
		return fmt.Sprintf("%s (%s)", hours, details)
	case hours != "":
		return hours
	case details != "":
		return details
	default:
		return DefaultEmergencyMessage
	}
}
