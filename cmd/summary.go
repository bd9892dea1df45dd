package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"chatlytics/internal/cli"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "KPI summary for the selected date range",
	RunE:  runSummary,
}

func init() {
	rootCmd.AddCommand(summaryCmd)
}

func runSummary(cmd *cobra.Command, args []string) error {
	svc, cfg, err := newService()
	if err != nil {
		return err
	}
	defer svc.Close()

	r, err := resolveRange(cfg)
	if err != nil {
		return err
	}

	m, err := svc.GetMetrics(r)
	if err != nil {
		return err
	}

	table := cli.Table{
		Title: fmt.Sprintf("Summary %s to %s",
			r.Start.Format("2006-01-02"), r.End.Format("2006-01-02")),
		Headers: []string{"Metric", "Value"},
		Rows: [][]string{
			{"Conversations", cli.FormatNumber(int64(m.TotalConversations))},
			{"Unique users", cli.FormatNumber(int64(m.UniqueUsers))},
			{"Avg conversation", cli.FormatMinutes(m.AvgConversationMins)},
			{"Avg response time", cli.FormatSeconds(m.AvgResponseTimeSecs)},
			{"Resolved", cli.FormatPercent(m.ResolvedPercent)},
			{"Avg daily cost", cli.FormatEUR(m.AvgDailyCostEUR)},
			{"Peak usage", m.PeakUsageTime},
		},
	}
	fmt.Print(cli.RenderTable(table))
	return nil
}
