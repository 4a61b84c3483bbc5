package event_bus

const (
	TimeEntriesChangedType EventType = "time_entry.changed"
	UserConfigUpdatedType  EventType = "user_config.updated"
)

type EntryChange string

const (
	EntriesCreated      EntryChange = "created"
	EntriesUpdated      EntryChange = "updated"
	EntriesDeleted      EntryChange = "deleted"
	EntriesDeduplicated EntryChange = "deduplicated"
	EntriesImported     EntryChange = "imported"
)

// TimeEntriesChanged is published after any mutation of a user's entries.
type TimeEntriesChanged struct {
	UserId int
	Change EntryChange
	// Count is the number of entries affected.
	Count int
}

type UserConfigUpdated struct {
	UserId             int
	WeeklyTargetHours  float64
	YearlyVacationDays float64
}
