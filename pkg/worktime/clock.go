package worktime

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const minutesPerDay = 24 * 60

// ParseClock converts a "H:MM" or "HH:MM" punch into minutes after midnight.
// It reports false for anything that is not a valid wall-clock time.
func ParseClock(s string) (int, bool) {
	h, m, found := strings.Cut(strings.TrimSpace(s), ":")
	if !found || len(h) < 1 || len(h) > 2 || len(m) != 2 {
		return 0, false
	}
	if !isDigits(h) || !isDigits(m) {
		return 0, false
	}
	hours, err := strconv.Atoi(h)
	if err != nil {
		return 0, false
	}
	minutes, err := strconv.Atoi(m)
	if err != nil {
		return 0, false
	}
	if hours > 23 || minutes > 59 {
		return 0, false
	}
	return hours*60 + minutes, true
}

// IsValidClock reports whether s is a parsable punch.
func IsValidClock(s string) bool {
	_, ok := ParseClock(s)
	return ok
}

// NormalizeClock returns the zero-padded "HH:MM" form of a punch.
// Empty input stays empty.
func NormalizeClock(s string) (string, bool) {
	if strings.TrimSpace(s) == "" {
		return "", true
	}
	minutes, ok := ParseClock(s)
	if !ok {
		return "", false
	}
	return FormatClock(minutes), true
}

// FormatClock renders minutes after midnight as "HH:MM", wrapping at 24h.
func FormatClock(minutes int) string {
	minutes = ((minutes % minutesPerDay) + minutesPerDay) % minutesPerDay
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// FormatDuration renders a signed duration as "HH:MM" or "-HH:MM", rounded to
// the nearest minute. Hours are not wrapped.
func FormatDuration(d time.Duration) string {
	sign := ""
	if d < 0 {
		sign = "-"
		d = -d
	}
	total := int(d.Round(time.Minute) / time.Minute)
	return fmt.Sprintf("%s%02d:%02d", sign, total/60, total%60)
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
