package cmd

import (
	"fmt"
	"io"
	"time"

	"github.com/flexkonto/flexkonto/pkg/worktime"
	"github.com/spf13/cobra"
)

var (
	calcDate   string
	calcTarget float64
)

var calcCmd = &cobra.Command{
	Use:   "calc t1 t2 [t3 t4]",
	Short: "Apply the break rules to the punches of one day",
	Long: `calc evaluates one work block (t1 t2) or two blocks (t1 t2 t3 t4).
With --date the 09:30 rule applies on weekdays. Given three punches it
suggests the end of the second block reaching --target hours.`,
	Example: `  flexkonto calc 08:00 17:00 --date 2025-01-06
  flexkonto calc 07:00 12:00 12:30 --target 8.2`,
	Args: cobra.RangeArgs(2, 4),
	RunE: runCalc,
}

func init() {
	calcCmd.Flags().StringVar(&calcDate, "date", "", "day of the punches, YYYY-MM-DD")
	calcCmd.Flags().Float64Var(&calcTarget, "target", 8.2, "daily target in hours for the end suggestion")
}

func runCalc(cmd *cobra.Command, args []string) error {
	var date time.Time
	if calcDate != "" {
		parsed, ok := worktime.ParseDate(calcDate)
		if !ok {
			return fmt.Errorf("invalid --date %q, expected YYYY-MM-DD", calcDate)
		}
		date = parsed
	}

	punches := make([]string, 4)
	copy(punches, args)
	for i, punch := range args {
		if !worktime.IsValidClock(punch) {
			return fmt.Errorf("t%d %q is not HH:MM", i+1, punch)
		}
	}

	out := cmd.OutOrStdout()
	if len(args) == 3 {
		target := time.Duration(calcTarget * float64(time.Hour))
		end, ok := worktime.SuggestEnd(date, punches[0], punches[1], punches[2], target)
		if !ok {
			fmt.Fprintf(out, "%s is not reachable today.\n", worktime.FormatDuration(target))
			return nil
		}
		fmt.Fprintf(out, "Leave at %s for %s net.\n", end, worktime.FormatDuration(target))
		punches[3] = end
	}

	var result worktime.WorkCalculation
	if date.IsZero() {
		result = worktime.CalculateWorkDetails(punches[0], punches[1], punches[2], punches[3])
	} else {
		result = worktime.CalculateWorkDetailsOn(date, punches[0], punches[1], punches[2], punches[3])
	}
	printCalculation(out, result)
	return nil
}

func printCalculation(out io.Writer, result worktime.WorkCalculation) {
	fmt.Fprintf(out, "Raw:   %s\n", worktime.FormatDuration(result.RawDuration))
	fmt.Fprintf(out, "Pause: %s\n", worktime.FormatDuration(result.PauseDuration))
	fmt.Fprintf(out, "Net:   %s\n", worktime.FormatDuration(result.NetDuration))
	for _, rule := range result.RulesApplied {
		fmt.Fprintf(out, "  - %s\n", rule)
	}
}
