package worktime

import (
	"fmt"
	"strings"
	"time"
)

// Break policy thresholds, in minutes.
const (
	checkpoint930       = 9*60 + 30
	deduction930        = 15
	lunchThresholdTwo   = 330 // 5.5h
	lunchThresholdFour  = 420 // 7h
	longDayThreshold    = 540 // 9h
	lunchBreak          = 30
	minLunchGap         = 30
	longDayPause        = 45
	longDayPauseWith930 = 60
)

// WorkCalculation is the break engine's verdict for one day's punches.
//
// RawDuration is the attendance span for two bookings but the sum of both
// worked blocks (gap excluded) for four bookings.
type WorkCalculation struct {
	RawDuration   time.Duration
	PauseDuration time.Duration
	NetDuration   time.Duration
	RulesApplied  []string
}

// IsZero reports whether the punches did not form a complete work record.
func (c WorkCalculation) IsZero() bool {
	return c.RawDuration == 0 && c.PauseDuration == 0 && c.NetDuration == 0 && len(c.RulesApplied) == 0
}

// CalculateWorkDetails applies the break policy to up to four punches without
// a calendar day. The 09:30 deduction only exists for known weekdays, so it is
// not applied here; use CalculateWorkDetailsOn when the date is known.
//
// Empty strings are absent punches. Accepted shapes are t1..t4 (two blocks),
// t1+t2 or t1+t4 (one block). Anything else, or any punch that does not
// parse, yields the zero WorkCalculation.
//
// A punch earlier than the one before it is read as the next day, so
// overlapping blocks such as 08:00-12:00 and 11:00-17:00 are a night shift
// with a 23h gap, not a negative pause.
func CalculateWorkDetails(t1, t2, t3, t4 string) WorkCalculation {
	return calculate(false, t1, t2, t3, t4)
}

// CalculateWorkDetailsOn is CalculateWorkDetails for punches recorded on date.
// On Monday to Friday the 09:30 rule is in effect.
func CalculateWorkDetailsOn(date time.Time, t1, t2, t3, t4 string) WorkCalculation {
	return calculate(!IsWeekend(date), t1, t2, t3, t4)
}

func calculate(apply930 bool, t1, t2, t3, t4 string) WorkCalculation {
	var minutes [4]int
	var present [4]bool
	for i, punch := range [4]string{t1, t2, t3, t4} {
		if strings.TrimSpace(punch) == "" {
			continue
		}
		m, ok := ParseClock(punch)
		if !ok {
			return WorkCalculation{}
		}
		minutes[i] = m
		present[i] = true
	}

	switch present {
	case [4]bool{true, true, true, true}:
		return fourBookings(apply930, minutes[0], minutes[1], minutes[2], minutes[3])
	case [4]bool{true, true, false, false}:
		return twoBookings(apply930, minutes[0], minutes[1])
	case [4]bool{true, false, false, true}:
		return twoBookings(apply930, minutes[0], minutes[3])
	default:
		return WorkCalculation{}
	}
}

func twoBookings(apply930 bool, start, end int) WorkCalculation {
	timeline := unwrap(start, end)
	attendance := timeline[1] - timeline[0]

	var rules []string
	pause := 0
	effective := attendance

	workingAt930 := apply930 && covers930(timeline[0], timeline[1])
	if workingAt930 {
		pause += deduction930
		effective -= deduction930
		rules = append(rules, "Working at 09:30 (+15 min deduction)")
	}

	if effective > lunchThresholdTwo {
		pause += lunchBreak
		rules = append(rules, "Attendance over 5.5h (+30 min break)")
	}

	if effective > longDayThreshold {
		floor := longDayFloor(workingAt930)
		if pause < floor {
			pause = floor
			rules = append(rules, fmt.Sprintf("Attendance over 9h (break raised to %d min)", floor))
		}
	}

	return WorkCalculation{
		RawDuration:   minutesToDuration(attendance),
		PauseDuration: minutesToDuration(pause),
		NetDuration:   minutesToDuration(attendance - pause),
		RulesApplied:  rules,
	}
}

func fourBookings(apply930 bool, start1, end1, start2, end2 int) WorkCalculation {
	timeline := unwrap(start1, end1, start2, end2)
	gap := timeline[2] - timeline[1]
	rawNet := (timeline[1] - timeline[0]) + (timeline[3] - timeline[2])
	span := timeline[3] - timeline[0]

	var rules []string
	pause := gap

	if rawNet > lunchThresholdFour && pause < minLunchGap {
		pause = minLunchGap
		rules = append(rules, "Lunch break under 30 min with over 7h worked (break set to 30 min)")
	}

	workingAt930 := apply930 &&
		(covers930(timeline[0], timeline[1]) || covers930(timeline[2], timeline[3]))
	if workingAt930 {
		pause += deduction930
		rules = append(rules, "Working at 09:30 (+15 min deduction)")
	}

	if span-pause > longDayThreshold {
		floor := longDayFloor(workingAt930)
		if pause < floor {
			pause = floor
			rules = append(rules, fmt.Sprintf("Net over 9h (break raised to %d min)", floor))
		}
	}

	return WorkCalculation{
		RawDuration:   minutesToDuration(rawNet),
		PauseDuration: minutesToDuration(pause),
		NetDuration:   minutesToDuration(span - pause),
		RulesApplied:  rules,
	}
}

// unwrap lays punches out on a monotonic timeline: a punch earlier than its
// predecessor belongs to the following day.
func unwrap(punches ...int) []int {
	timeline := make([]int, len(punches))
	offset := 0
	for i, p := range punches {
		if i > 0 && p+offset < timeline[i-1] {
			offset += minutesPerDay
		}
		timeline[i] = p + offset
	}
	return timeline
}

// covers930 reports whether 09:30 of the first or the following day falls in [start, end).
func covers930(start, end int) bool {
	for _, instant := range []int{checkpoint930, checkpoint930 + minutesPerDay} {
		if start <= instant && instant < end {
			return true
		}
	}
	return false
}

func longDayFloor(workingAt930 bool) int {
	if workingAt930 {
		return longDayPauseWith930
	}
	return longDayPause
}

func minutesToDuration(minutes int) time.Duration {
	return time.Duration(minutes) * time.Minute
}
