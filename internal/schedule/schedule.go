// Package schedule evaluates weekly clinic operating hours.
//
// Schedule strings follow the directory's day grammar:
//
//	"Closed" | "24 Hours" | "HH:MM - HH:MM"[, "HH:MM - HH:MM"]*
//
// Parsing is total: anything outside the grammar degrades to an unknown
// day, which callers render as "Hours not available" and treat as closed.
package schedule

import (
	"strings"
	"time"
)

// FallbackLabel is shown when a day has no usable schedule string.
const FallbackLabel = "Hours not available"

// WeekHours holds one schedule string per weekday. An empty string means
// the day was never filled in, which is distinct from an explicit "Closed".
type WeekHours struct {
	Sunday    string `json:"sunday"`
	Monday    string `json:"monday"`
	Tuesday   string `json:"tuesday"`
	Wednesday string `json:"wednesday"`
	Thursday  string `json:"thursday"`
	Friday    string `json:"friday"`
	Saturday  string `json:"saturday"`
}

// ForDay returns the raw schedule string for a weekday (0=Sunday, 6=Saturday).
func (w WeekHours) ForDay(day time.Weekday) string {
	switch day {
	case time.Sunday:
		return w.Sunday
	case time.Monday:
		return w.Monday
	case time.Tuesday:
		return w.Tuesday
	case time.Wednesday:
		return w.Wednesday
	case time.Thursday:
		return w.Thursday
	case time.Friday:
		return w.Friday
	case time.Saturday:
		return w.Saturday
	default:
		return ""
	}
}

// SetDay replaces the schedule string for a weekday.
func (w *WeekHours) SetDay(day time.Weekday, raw string) {
	switch day {
	case time.Sunday:
		w.Sunday = raw
	case time.Monday:
		w.Monday = raw
	case time.Tuesday:
		w.Tuesday = raw
	case time.Wednesday:
		w.Wednesday = raw
	case time.Thursday:
		w.Thursday = raw
	case time.Friday:
		w.Friday = raw
	case time.Saturday:
		w.Saturday = raw
	}
}

// Kind tags the parsed form of a single day's schedule.
type Kind int

const (
	// Unknown covers empty or malformed schedule strings. Treated as closed.
	Unknown Kind = iota
	ClosedAllDay
	OpenAllDay
	ByRanges
)

// Range is an open interval within a day, in minutes since midnight.
// Start is inclusive, End exclusive: a clinic closing at 18:00 is already
// closed at minute 1080.
type Range struct {
	Start int
	End   int
}

// Contains reports whether the minute-of-day falls inside the range.
// A range whose end does not exceed its start is taken to cross midnight
// ("22:00 - 02:00" matches 23:00 and 01:00 but not 12:00).
func (r Range) Contains(minute int) bool {
	if r.Start < r.End {
		return minute >= r.Start && minute < r.End
	}
	return minute >= r.Start || minute < r.End
}

// DaySchedule is the parsed form of one day's schedule string.
type DaySchedule struct {
	Kind   Kind
	Ranges []Range
}

// OpenAt reports whether the day is open at the given minute-of-day.
func (d DaySchedule) OpenAt(minute int) bool {
	switch d.Kind {
	case OpenAllDay:
		return true
	case ByRanges:
		for _, r := range d.Ranges {
			if r.Contains(minute) {
				return true
			}
		}
	}
	return false
}

// ParseDaySchedule parses a raw day schedule string. It never fails:
// input outside the grammar yields an Unknown schedule.
func ParseDaySchedule(raw string) DaySchedule {
	s := strings.TrimSpace(raw)
	if s == "" {
		return DaySchedule{Kind: Unknown}
	}
	if strings.EqualFold(s, "Closed") {
		return DaySchedule{Kind: ClosedAllDay}
	}
	if strings.EqualFold(s, "24 Hours") {
		return DaySchedule{Kind: OpenAllDay}
	}

	parts := strings.Split(s, ",")
	ranges := make([]Range, 0, len(parts))
	for _, part := range parts {
		r, ok := parseRange(part)
		if !ok {
			return DaySchedule{Kind: Unknown}
		}
		ranges = append(ranges, r)
	}
	return DaySchedule{Kind: ByRanges, Ranges: ranges}
}

// parseRange parses "HH:MM - HH:MM" into a minute range.
func parseRange(raw string) (Range, bool) {
	open, close, ok := strings.Cut(raw, "-")
	if !ok {
		return Range{}, false
	}
	start, err := parseClock(strings.TrimSpace(open))
	if err != nil {
		return Range{}, false
	}
	end, err := parseClock(strings.TrimSpace(close))
	if err != nil {
		return Range{}, false
	}
	return Range{Start: start, End: end}, true
}

func parseClock(v string) (int, error) {
	t, err := time.Parse("15:04", v)
	if err != nil {
		return 0, err
	}
	return t.Hour()*60 + t.Minute(), nil
}

// Valid reports whether a raw day string conforms to the schedule grammar.
// The empty string is accepted as "not yet filled in".
func Valid(raw string) bool {
	if strings.TrimSpace(raw) == "" {
		return true
	}
	return ParseDaySchedule(raw).Kind != Unknown
}

// IsOpenAt reports whether the weekly schedule is open at the given instant.
// The instant's weekday and minute-of-day are read in its own location;
// no clinic-local timezone conversion is attempted.
func IsOpenAt(hours WeekHours, at time.Time) bool {
	day := ParseDaySchedule(hours.ForDay(at.Weekday()))
	return day.OpenAt(at.Hour()*60 + at.Minute())
}

// TodayHours returns the raw schedule string for the instant's weekday,
// or FallbackLabel when the day has no usable value.
func TodayHours(hours WeekHours, at time.Time) string {
	raw := strings.TrimSpace(hours.ForDay(at.Weekday()))
	if raw == "" || ParseDaySchedule(raw).Kind == Unknown {
		return FallbackLabel
	}
	return raw
}
