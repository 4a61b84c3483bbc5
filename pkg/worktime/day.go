package worktime

import "time"

// DayResult is the classification of a single calendar day.
type DayResult struct {
	Date    time.Time
	Weekend bool
	// Entries is the number of entries recorded for the day.
	Entries       int
	Target        time.Duration
	WorkNet       time.Duration
	AbsenceCredit time.Duration
	// Delta is (WorkNet + AbsenceCredit) - Target.
	Delta time.Duration
}

// Credited is the time that counts towards the week: worked plus credited absences.
func (d DayResult) Credited() time.Duration {
	return d.WorkNet + d.AbsenceCredit
}

// Missing reports a weekday without any entry.
func (d DayResult) Missing() bool {
	return !d.Weekend && d.Entries == 0
}

// ClassifyDay computes target, credit and delta of date given the entries
// recorded on it.
//
// Weekends have no target and ignore absences. On weekdays every absence
// entry credits its fraction of the daily target and work entries add their
// net time on top; the two are not exclusive. Each work entry is one block
// evaluated by the break engine.
func ClassifyDay(date time.Time, entries []TimeEntry, cfg UserConfig) DayResult {
	day := DayOf(date)
	result := DayResult{
		Date:    day,
		Weekend: IsWeekend(day),
		Entries: len(entries),
	}

	if !result.Weekend {
		result.Target = cfg.DailyTarget()
	}

	for _, e := range entries {
		switch {
		case e.Type == Work:
			result.WorkNet += CalculateWorkDetailsOn(day, e.StartTime, e.EndTime, "", "").NetDuration
		case e.Type.IsAbsence() && !result.Weekend:
			result.AbsenceCredit += time.Duration(float64(result.Target) * e.Fraction())
		}
	}

	result.Delta = result.Credited() - result.Target
	return result
}
