package worktime

import "time"

// DateLayout is the wire format of entry dates.
const DateLayout = "2006-01-02"

// Date returns midnight UTC of the given civil date.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// DayOf strips the clock from t, keeping its civil date in t's own location.
func DayOf(t time.Time) time.Time {
	return Date(t.Year(), t.Month(), t.Day())
}

// ParseDate parses a YYYY-MM-DD entry date.
func ParseDate(s string) (time.Time, bool) {
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}

func IsWeekend(date time.Time) bool {
	wd := date.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

func StartOfYear(date time.Time) time.Time {
	return Date(date.Year(), time.January, 1)
}

func StartOfMonth(date time.Time) time.Time {
	return Date(date.Year(), date.Month(), 1)
}

// StartOfISOWeek returns the Monday of the ISO week containing date.
func StartOfISOWeek(date time.Time) time.Time {
	day := DayOf(date)
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}
