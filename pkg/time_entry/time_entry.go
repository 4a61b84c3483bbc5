package time_entry

import "github.com/flexkonto/flexkonto/pkg/worktime"

// Entry is a stored time entry.
type Entry struct {
	Id int
	worktime.TimeEntry
}

// TimeEntries strips the storage identity, for the balance engine.
func TimeEntries(entries []Entry) []worktime.TimeEntry {
	result := make([]worktime.TimeEntry, 0, len(entries))
	for _, e := range entries {
		result = append(result, e.TimeEntry)
	}
	return result
}
