package worktime

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// WeeklyCap is the most weekly work the flex account takes; the rest is overtime.
const WeeklyCap = 45 * time.Hour

type WeekNumber struct {
	Week int
	Year int
}

// WeekNumberFromDate returns the ISO week containing date.
func WeekNumberFromDate(date time.Time) WeekNumber {
	year, week := date.ISOWeek()
	return WeekNumber{Year: year, Week: week}
}

// WeekNumberFromString converts ISO week format ISO 8601 e.g. "2025-W03" to WeekNumber
func WeekNumberFromString(isoWeekString string) (WeekNumber, error) {
	yearPart, weekPart, found := strings.Cut(isoWeekString, "-W")
	if !found {
		return WeekNumber{}, fmt.Errorf("invalid ISO week format: %s", isoWeekString)
	}
	year, err := strconv.Atoi(yearPart)
	if err != nil {
		return WeekNumber{}, fmt.Errorf("invalid year: %w", err)
	}
	week, err := strconv.Atoi(weekPart)
	if err != nil {
		return WeekNumber{}, fmt.Errorf("invalid week: %w", err)
	}
	w := WeekNumber{Year: year, Week: week}
	if week < 1 || WeekNumberFromDate(w.Monday()) != w {
		return WeekNumber{}, fmt.Errorf("week %s does not exist", w)
	}
	return w, nil
}

// Monday returns the first day of the ISO week. Week 1 is the week holding January 4th.
func (w WeekNumber) Monday() time.Time {
	return StartOfISOWeek(Date(w.Year, time.January, 4)).AddDate(0, 0, 7*(w.Week-1))
}

// Sunday returns the last day of the ISO week.
func (w WeekNumber) Sunday() time.Time {
	return w.Monday().AddDate(0, 0, 6)
}

// Before reports whether w refers to a week that occurs before other.
func (w WeekNumber) Before(other WeekNumber) bool {
	if w.Year != other.Year {
		return w.Year < other.Year
	}
	return w.Week < other.Week
}

// String returns the ISO week format ISO 8601 e.g. "2025-W03"
func (w WeekNumber) String() string {
	return fmt.Sprintf("%04d-W%02d", w.Year, w.Week)
}

// WeeklyBucket collects one ISO week while a range is scanned.
type WeeklyBucket struct {
	Week   WeekNumber
	Work   time.Duration // worked and credited time, weekends included
	Target time.Duration // weekday targets only
}

// WeekResult is a closed bucket split into flex and overtime.
type WeekResult struct {
	Week   WeekNumber
	Work   time.Duration
	Target time.Duration
	// Flex is the part of Work the flex account takes, Flex + Overtime == Work.
	Flex      time.Duration
	FlexDelta time.Duration
	Overtime  time.Duration
}

// SplitWeek applies the weekly cap to a week's work. flexDelta is what the
// week adds to the flex account, overtime what exceeds the cap.
func SplitWeek(work, target time.Duration) (flexDelta, overtime time.Duration) {
	if work <= WeeklyCap {
		return work - target, 0
	}
	return WeeklyCap - target, work - WeeklyCap
}

// Close splits the bucket.
func (b WeeklyBucket) Close() WeekResult {
	flexDelta, overtime := SplitWeek(b.Work, b.Target)
	return WeekResult{
		Week:      b.Week,
		Work:      b.Work,
		Target:    b.Target,
		Flex:      b.Work - overtime,
		FlexDelta: flexDelta,
		Overtime:  overtime,
	}
}

// WeeklyAccumulator groups classified days by ISO week. Buckets are created
// on the first day seen for a week; a partially scanned week closes as is.
type WeeklyAccumulator struct {
	buckets map[WeekNumber]*WeeklyBucket
	order   []WeekNumber
}

func NewWeeklyAccumulator() *WeeklyAccumulator {
	return &WeeklyAccumulator{buckets: make(map[WeekNumber]*WeeklyBucket)}
}

func (a *WeeklyAccumulator) Add(day DayResult) {
	week := WeekNumberFromDate(day.Date)
	bucket, ok := a.buckets[week]
	if !ok {
		bucket = &WeeklyBucket{Week: week}
		a.buckets[week] = bucket
		a.order = append(a.order, week)
	}
	bucket.Work += day.Credited()
	bucket.Target += day.Target
}

// Close returns the split of every bucket in the order the weeks were first seen.
func (a *WeeklyAccumulator) Close() []WeekResult {
	results := make([]WeekResult, 0, len(a.order))
	for _, week := range a.order {
		results = append(results, a.buckets[week].Close())
	}
	return results
}
