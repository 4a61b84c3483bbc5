package worktime

import "time"

// SuggestEnd finds the earliest end of the second block, on the same day,
// at which the net time of t1..t3 plus that end reaches target. A zero date
// evaluates without the 09:30 rule.
func SuggestEnd(date time.Time, t1, t2, t3 string, target time.Duration) (string, bool) {
	for _, punch := range []string{t1, t2, t3} {
		if !IsValidClock(punch) {
			return "", false
		}
	}
	start, _ := ParseClock(t3)
	for end := start; end < minutesPerDay; end++ {
		candidate := FormatClock(end)
		if details(date, t1, t2, t3, candidate).NetDuration >= target {
			return candidate, true
		}
	}
	return "", false
}

func details(date time.Time, t1, t2, t3, t4 string) WorkCalculation {
	if date.IsZero() {
		return CalculateWorkDetails(t1, t2, t3, t4)
	}
	return CalculateWorkDetailsOn(date, t1, t2, t3, t4)
}
