package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"chatlytics/internal/cli"
	"chatlytics/internal/model"
)

var flagTrendDate string

var trendCmd = &cobra.Command{
	Use:   "trend",
	Short: "Day-over-day cost comparison",
	RunE:  runTrend,
}

func init() {
	trendCmd.Flags().StringVar(&flagTrendDate, "date", "", "Day to compare against the previous day (YYYY-MM-DD, default today)")
	rootCmd.AddCommand(trendCmd)
}

func runTrend(cmd *cobra.Command, args []string) error {
	day := time.Now().UTC()
	if flagTrendDate != "" {
		var err error
		day, err = time.Parse("2006-01-02", flagTrendDate)
		if err != nil {
			return fmt.Errorf("invalid --date: %w", err)
		}
	}

	svc, _, err := newService()
	if err != nil {
		return err
	}
	defer svc.Close()

	current := dayRange(day)
	previous := dayRange(day.AddDate(0, 0, -1))

	trend, err := svc.CostTrend(current, previous)
	if err != nil {
		return err
	}

	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "Cost trend " + day.Format("2006-01-02"),
		Headers: []string{"Period", "Cost"},
		Rows: [][]string{
			{"Previous day", cli.FormatEUR(trend.Previous)},
			{"Current day", cli.FormatEUR(trend.Current)},
			{"Delta", cli.FormatDelta(trend.Delta)},
			{"Change", cli.FormatPercent(trend.PercentChange)},
		},
	}))
	return nil
}

// dayRange covers one calendar day inclusively.
func dayRange(day time.Time) model.DateRange {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	return model.DateRange{Start: start, End: start.Add(24*time.Hour - time.Second)}
}
