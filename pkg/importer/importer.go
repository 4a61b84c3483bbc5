// Package importer turns time-clock spreadsheet exports into time entries.
//
// An export has one row per day. Column 0 holds the day as "DD.MM.", column 2
// free text, columns 3 and 6 the first and last punch, columns 4 and 5 the
// break punches. Absences are written as text in columns 2 or 3, optionally
// qualified with GT (whole day), VM (morning) or NM (afternoon).
package importer

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/flexkonto/flexkonto/pkg/worktime"
	log "github.com/sirupsen/logrus"
)

const defaultPause = 30 * time.Minute

const (
	colDay        = 0
	colInfo       = 2
	colStart      = 3
	colPauseStart = 4
	colPauseEnd   = 5
	colEnd        = 6
)

var (
	dayPattern   = regexp.MustCompile(`^(\d{2})\.(\d{2})\.$`)
	leadingClock = regexp.MustCompile(`^\d{1,2}:\d{2}`)
	anyClock     = regexp.MustCompile(`\d{1,2}:\d{2}`)
)

type absenceKeyword struct {
	keywords []string
	entry    worktime.EntryType
}

// Checked in this order; one row may yield several absences.
var absenceKeywords = []absenceKeyword{
	{[]string{"SCHULE"}, worktime.School},
	{[]string{"FERIEN", "URLAUB"}, worktime.Vacation},
	{[]string{"KRANK"}, worktime.Sick},
	{[]string{"UNFALL"}, worktime.Accident},
	{[]string{"FEIERTAG"}, worktime.Holiday},
}

// ParseRows maps decoded rows to entries dated in year. Rows that are not day
// rows are skipped, as are days that do not exist in year.
func ParseRows(rows [][]string, year int) []worktime.TimeEntry {
	var entries []worktime.TimeEntry
	for i, row := range rows {
		date, ok := rowDate(row, year)
		if !ok {
			continue
		}
		rowEntries := parseDay(row, date)
		log.Tracef("import row %d (%s): %d entries", i, date, len(rowEntries))
		entries = append(entries, rowEntries...)
	}
	return entries
}

func rowDate(row []string, year int) (string, bool) {
	match := dayPattern.FindStringSubmatch(strings.TrimSpace(cell(row, colDay)))
	if match == nil {
		return "", false
	}
	date := fmt.Sprintf("%04d-%s-%s", year, match[2], match[1])
	if _, ok := worktime.ParseDate(date); !ok {
		log.Debugf("skipping import row with impossible date %s", date)
		return "", false
	}
	return date, true
}

func parseDay(row []string, date string) []worktime.TimeEntry {
	var entries []worktime.TimeEntry

	startCol := strings.TrimSpace(cell(row, colStart))
	endCol := strings.TrimSpace(cell(row, colEnd))
	if leadingClock.MatchString(startCol) && endCol != "" {
		start, startOk := cleanClock(startCol)
		end, endOk := cleanClock(endCol)
		if startOk && endOk {
			entries = append(entries, worktime.TimeEntry{
				Date:          date,
				Type:          worktime.Work,
				Value:         1,
				StartTime:     start,
				EndTime:       end,
				PauseDuration: recordedPause(row),
			})
		}
	}

	text := strings.ToUpper(strings.TrimSpace(cell(row, colInfo)) + " " + startCol)
	note, value := qualifier(text)
	for _, absence := range absenceKeywords {
		if containsAny(text, absence.keywords) {
			entries = append(entries, worktime.TimeEntry{
				Date:  date,
				Type:  absence.entry,
				Value: value,
				Notes: note,
			})
		}
	}
	return entries
}

// recordedPause is the span between the break punches, or the default when
// they are not both present.
func recordedPause(row []string) time.Duration {
	from, fromOk := cleanClock(cell(row, colPauseStart))
	to, toOk := cleanClock(cell(row, colPauseEnd))
	if !fromOk || !toOk {
		return defaultPause
	}
	fromMin, _ := worktime.ParseClock(from)
	toMin, _ := worktime.ParseClock(to)
	if toMin < fromMin {
		return 0
	}
	return time.Duration(toMin-fromMin) * time.Minute
}

func qualifier(text string) (note string, value float64) {
	switch {
	case strings.Contains(text, "GT"):
		return "Ganzer Tag", 1
	case strings.Contains(text, "VM"):
		return "Vormittag", 0.5
	case strings.Contains(text, "NM"):
		return "Nachmittag", 0.5
	default:
		return "", 1
	}
}

// cleanClock extracts the first punch of a cell, dropping suffixes like "/PA".
func cleanClock(s string) (string, bool) {
	raw := anyClock.FindString(s)
	if raw == "" {
		return "", false
	}
	return worktime.NormalizeClock(raw)
}

func containsAny(text string, keywords []string) bool {
	for _, keyword := range keywords {
		if strings.Contains(text, keyword) {
			return true
		}
	}
	return false
}

func cell(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}
