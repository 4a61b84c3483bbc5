package worktime

import (
	"time"
)

type EntryType string

const (
	Work     EntryType = "work"
	Vacation EntryType = "vacation"
	Sick     EntryType = "sick"
	Accident EntryType = "accident"
	Holiday  EntryType = "holiday"
	School   EntryType = "school"
	Special  EntryType = "special"
	Trip     EntryType = "trip"
	Other    EntryType = "other"
)

var entryTypes = map[EntryType]bool{
	Work:     true,
	Vacation: true,
	Sick:     true,
	Accident: true,
	Holiday:  true,
	School:   true,
	Special:  true,
	Trip:     true,
	Other:    true,
}

// Valid reports whether t is one of the known entry types.
func (t EntryType) Valid() bool {
	return entryTypes[t]
}

// IsAbsence reports whether t credits the daily target on weekdays.
func (t EntryType) IsAbsence() bool {
	return t != Work && t != Other && t.Valid()
}

// TimeEntry is one calendar record as the engine sees it.
type TimeEntry struct {
	Date string // YYYY-MM-DD
	Type EntryType
	// Value is the fraction of a day an absence covers, 1.0 or 0.5. Zero reads as 1.0.
	Value     float64
	StartTime string // HH:MM or empty
	EndTime   string // HH:MM or empty
	// PauseDuration is informational, the engine derives breaks itself.
	PauseDuration time.Duration
	Notes         string
}

// Fraction returns the share of a day the entry covers.
func (e TimeEntry) Fraction() float64 {
	if e.Value == 0 {
		return 1.0
	}
	return e.Value
}

// EntryKey identifies duplicate entries.
type EntryKey struct {
	Date      string
	Type      EntryType
	StartTime string
	EndTime   string
	Notes     string
}

func (e TimeEntry) Key() EntryKey {
	return EntryKey{
		Date:      e.Date,
		Type:      e.Type,
		StartTime: e.StartTime,
		EndTime:   e.EndTime,
		Notes:     e.Notes,
	}
}

// UserConfig holds the per-user parameters of the accounting rules.
type UserConfig struct {
	WeeklyTargetHours  float64
	YearlyVacationDays float64
	// InitialOvertimeBalance seeds the flex account, may be negative.
	InitialOvertimeBalance time.Duration
	VacationCarryover      float64
}

// DailyTarget is the weekday target, a fifth of the weekly hours.
func (c UserConfig) DailyTarget() time.Duration {
	return time.Duration(c.WeeklyTargetHours * float64(time.Hour) / 5)
}
