package worktime

import (
	"time"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

// Balances is the account state as of a given day.
type Balances struct {
	Today time.Time
	// YearFlex is the capped flex account including the initial balance.
	YearFlex time.Duration
	// Overtime is weekly work beyond the cap since the start of the year.
	Overtime time.Duration
	// Month and Week are uncapped sums of day deltas. They are not slices of YearFlex.
	Month time.Duration
	Week  time.Duration
	// Vacation is the number of vacation days left.
	Vacation decimal.Decimal
	Weeks    []WeekResult
}

// LedgerRow is one day of a running account.
type LedgerRow struct {
	DayResult
	Running time.Duration
}

// AggregateBalances computes all balances from scratch for the year of today.
// Entries with a date that does not parse are left out.
func AggregateBalances(cfg UserConfig, entries []TimeEntry, today time.Time) Balances {
	today = DayOf(today)
	byDate := groupByDate(entries)

	accumulator := NewWeeklyAccumulator()
	for day := StartOfYear(today); !day.After(today); day = day.AddDate(0, 0, 1) {
		accumulator.Add(ClassifyDay(day, byDate[day.Format(DateLayout)], cfg))
	}
	weeks := accumulator.Close()

	var flex, overtime time.Duration
	for _, week := range weeks {
		flex += week.FlexDelta
		overtime += week.Overtime
	}

	return Balances{
		Today:    today,
		YearFlex: flex + cfg.InitialOvertimeBalance,
		Overtime: overtime,
		Month:    sumDeltas(cfg, byDate, StartOfMonth(today), today),
		Week:     sumDeltas(cfg, byDate, StartOfISOWeek(today), today),
		Vacation: VacationBalance(cfg, entries),
		Weeks:    weeks,
	}
}

// VacationBalance is the yearly allowance plus carryover minus every vacation entry.
func VacationBalance(cfg UserConfig, entries []TimeEntry) decimal.Decimal {
	taken := decimal.Zero
	for _, e := range entries {
		if e.Type != Vacation {
			continue
		}
		if _, ok := ParseDate(e.Date); !ok {
			continue
		}
		taken = taken.Add(decimal.NewFromFloat(e.Fraction()))
	}
	allowance := decimal.NewFromFloat(cfg.YearlyVacationDays).Add(decimal.NewFromFloat(cfg.VacationCarryover))
	return allowance.Sub(taken)
}

// Ledger lists every day of [from, to] with its uncapped running total,
// starting from the initial balance.
func Ledger(cfg UserConfig, entries []TimeEntry, from, to time.Time) []LedgerRow {
	from, to = DayOf(from), DayOf(to)
	byDate := groupByDate(entries)

	var rows []LedgerRow
	running := cfg.InitialOvertimeBalance
	for day := from; !day.After(to); day = day.AddDate(0, 0, 1) {
		result := ClassifyDay(day, byDate[day.Format(DateLayout)], cfg)
		running += result.Delta
		rows = append(rows, LedgerRow{DayResult: result, Running: running})
	}
	return rows
}

// sumDeltas adds day deltas over [from, today]. An empty today is skipped so
// the day in progress is not counted as missing.
func sumDeltas(cfg UserConfig, byDate map[string][]TimeEntry, from, today time.Time) time.Duration {
	var total time.Duration
	for day := from; !day.After(today); day = day.AddDate(0, 0, 1) {
		dayEntries := byDate[day.Format(DateLayout)]
		if day.Equal(today) && len(dayEntries) == 0 {
			continue
		}
		total += ClassifyDay(day, dayEntries, cfg).Delta
	}
	return total
}

func groupByDate(entries []TimeEntry) map[string][]TimeEntry {
	byDate := make(map[string][]TimeEntry)
	for _, e := range entries {
		date, ok := ParseDate(e.Date)
		if !ok {
			log.Tracef("skipping entry with unparsable date %q", e.Date)
			continue
		}
		key := date.Format(DateLayout)
		byDate[key] = append(byDate[key], e)
	}
	return byDate
}
