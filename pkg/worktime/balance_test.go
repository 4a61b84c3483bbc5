package worktime

import (
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var cfg40 = UserConfig{
	WeeklyTargetHours:      40,
	YearlyVacationDays:     25,
	InitialOvertimeBalance: time.Hour,
	VacationCarryover:      2,
}

// january2025 covers 2025-01-01 (Wednesday) to 2025-01-13. Weekday work
// 10:00-18:30 nets exactly 8h.
func january2025() []TimeEntry {
	entries := []TimeEntry{
		{Date: "2025-01-01", Type: Holiday, Value: 1, Notes: "New Year"},
		{Date: "2025-01-11", Type: Work, StartTime: "10:00", EndTime: "16:00"},
		{Date: "2025-01-13", Type: Vacation, Value: 1},
		{Date: "2025-13-45", Type: Vacation, Value: 1},
		{Date: "", Type: Work, StartTime: "08:00", EndTime: "18:00"},
	}
	for _, day := range []string{"2025-01-02", "2025-01-03", "2025-01-06", "2025-01-07", "2025-01-08", "2025-01-09", "2025-01-10"} {
		entries = append(entries, TimeEntry{Date: day, Type: Work, StartTime: "10:00", EndTime: "18:30"})
	}
	return entries
}

func TestAggregateBalances(t *testing.T) {
	today := Date(2025, time.January, 15)

	balances := AggregateBalances(cfg40, january2025(), today)

	require.Len(t, balances.Weeks, 3)
	// week 1: holiday and two work days meet the target
	assert.Equal(t, time.Duration(0), balances.Weeks[0].FlexDelta)
	// week 2: 40h plus 5h30 on Saturday, 30 min beyond the cap
	assert.Equal(t, 45*time.Hour+30*time.Minute, balances.Weeks[1].Work)
	assert.Equal(t, 5*time.Hour, balances.Weeks[1].FlexDelta)
	assert.Equal(t, 30*time.Minute, balances.Weeks[1].Overtime)
	// week 3: vacation, missing Tuesday, empty today
	assert.Equal(t, -16*time.Hour, balances.Weeks[2].FlexDelta)

	assert.Equal(t, today, balances.Today)
	assert.Equal(t, -10*time.Hour, balances.YearFlex)
	assert.Equal(t, 30*time.Minute, balances.Overtime)
	assert.Equal(t, 5*time.Hour+30*time.Minute-8*time.Hour, balances.Month)
	assert.Equal(t, -8*time.Hour, balances.Week)
	assert.True(t, decimal.NewFromInt(26).Equal(balances.Vacation), "vacation: %s", balances.Vacation)
}

func TestAggregateBalances_TodayWithEntriesCounts(t *testing.T) {
	today := Date(2025, time.January, 15)
	entries := append(january2025(), TimeEntry{Date: "2025-01-15", Type: Vacation, Value: 0.5})

	balances := AggregateBalances(cfg40, entries, today)

	assert.Equal(t, -12*time.Hour, balances.Week)
	assert.Equal(t, -6*time.Hour, balances.YearFlex)
	assert.True(t, decimal.NewFromFloat(25.5).Equal(balances.Vacation), "vacation: %s", balances.Vacation)
}

func TestAggregateBalances_IsIdempotent(t *testing.T) {
	today := Date(2025, time.January, 15)
	entries := january2025()

	first := AggregateBalances(cfg40, entries, today)
	second := AggregateBalances(cfg40, entries, today)

	assert.Equal(t, first, second)
}

func TestAggregateBalances_VacationDayOnWeekday(t *testing.T) {
	today := Date(2025, time.January, 15)
	before := AggregateBalances(cfg40, january2025(), today)

	entries := append(january2025(), TimeEntry{Date: "2025-01-14", Type: Vacation, Value: 1})
	after := AggregateBalances(cfg40, entries, today)

	assert.Equal(t, cfg40.DailyTarget(), after.Week-before.Week)
	assert.Equal(t, cfg40.DailyTarget(), after.YearFlex-before.YearFlex)
	assert.True(t, before.Vacation.Sub(decimal.NewFromInt(1)).Equal(after.Vacation))
}

func TestAggregateBalances_YearStartingInPreviousISOYear(t *testing.T) {
	today := Date(2027, time.January, 4)

	balances := AggregateBalances(UserConfig{WeeklyTargetHours: 40}, nil, today)

	require.Len(t, balances.Weeks, 2)
	assert.Equal(t, WeekNumber{Year: 2026, Week: 53}, balances.Weeks[0].Week)
	assert.Equal(t, WeekNumber{Year: 2027, Week: 1}, balances.Weeks[1].Week)
	// the empty today still counts in the year scan
	assert.Equal(t, -16*time.Hour, balances.YearFlex)
	assert.Equal(t, -8*time.Hour, balances.Month)
	assert.Equal(t, time.Duration(0), balances.Week)
}

func TestAggregateBalances_WeekReachesIntoPreviousYear(t *testing.T) {
	// Friday 2027-01-01 belongs to the week starting Monday 2026-12-28
	today := Date(2027, time.January, 1)
	entries := []TimeEntry{{Date: "2026-12-31", Type: Work, StartTime: "10:00", EndTime: "18:30"}}

	balances := AggregateBalances(UserConfig{WeeklyTargetHours: 40}, entries, today)

	// Mon to Wed missing, Thursday met, empty today skipped
	assert.Equal(t, -24*time.Hour, balances.Week)
	assert.Equal(t, time.Duration(0), balances.Month)
	assert.Equal(t, -8*time.Hour, balances.YearFlex)
}

func TestAggregateBalances_UsesCivilDateOfToday(t *testing.T) {
	late := time.Date(2025, time.January, 15, 23, 30, 0, 0, time.UTC)

	assert.Equal(t,
		AggregateBalances(cfg40, january2025(), Date(2025, time.January, 15)),
		AggregateBalances(cfg40, january2025(), late),
	)
}

func TestVacationBalance(t *testing.T) {
	entries := []TimeEntry{
		{Date: "2025-03-03", Type: Vacation, Value: 0.5},
		{Date: "2025-03-04", Type: Vacation, Value: 0.5},
		{Date: "2025-03-05", Type: Vacation},
		{Date: "2025-03-08", Type: Vacation, Value: 1},
		{Date: "2025-03-06", Type: Sick, Value: 1},
	}

	balance := VacationBalance(UserConfig{YearlyVacationDays: 25, VacationCarryover: 1.5}, entries)

	assert.True(t, decimal.NewFromFloat(23.5).Equal(balance), "vacation: %s", balance)
}

func TestLedger(t *testing.T) {
	rows := Ledger(cfg40, january2025(), Date(2025, time.January, 11), Date(2025, time.January, 14))

	require.Len(t, rows, 4)
	assert.Equal(t, 5*time.Hour+30*time.Minute, rows[0].Delta)
	assert.Equal(t, 6*time.Hour+30*time.Minute, rows[0].Running)
	assert.False(t, rows[1].Missing())
	assert.Equal(t, 6*time.Hour+30*time.Minute, rows[1].Running)
	assert.Equal(t, time.Duration(0), rows[2].Delta)
	assert.True(t, rows[3].Missing())
	assert.Equal(t, -90*time.Minute, rows[3].Running)
}

func TestAggregateBalances_ConcurrentCallsAgree(t *testing.T) {
	today := Date(2025, time.January, 15)
	entries := january2025()
	want := AggregateBalances(cfg40, entries, today)

	const workers = 16
	results := make([]Balances, workers)
	var wg sync.WaitGroup
	for i := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = AggregateBalances(cfg40, entries, today)
		}()
	}
	wg.Wait()

	for i, got := range results {
		assert.Equal(t, want, got, "worker %d", i)
	}
}
