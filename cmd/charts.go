package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"chatlytics/internal/cli"
	"chatlytics/internal/model"
)

var chartsCmd = &cobra.Command{
	Use:   "charts",
	Short: "Chart-ready series for the selected date range",
	RunE:  runCharts,
}

func init() {
	rootCmd.AddCommand(chartsCmd)
}

func runCharts(cmd *cobra.Command, args []string) error {
	svc, cfg, err := newService()
	if err != nil {
		return err
	}
	defer svc.Close()

	r, err := resolveRange(cfg)
	if err != nil {
		return err
	}

	data, err := svc.GetDataForDateRange(r)
	if err != nil {
		return err
	}
	cd := data.ChartData

	printSeries("Sentiment", cd.Sentiment)
	printSeries("Resolution", cd.Resolution)
	printSeries("Countries", cd.Countries)
	printSeries("Languages", cd.Languages)
	printSeries("Top categories", cd.TopCategories)
	printSeries("Top questions", cd.TopQuestions)

	daily := make([]float64, len(cd.Daily))
	for i, p := range cd.Daily {
		daily[i] = float64(p.Conversations)
	}
	fmt.Printf("\n  Daily conversations  %s\n", cli.RenderSparkline(daily))

	return nil
}

func printSeries(title string, pair model.SeriesPair) {
	if len(pair.Labels) == 0 {
		return
	}

	max := pair.Values[0]
	for _, v := range pair.Values[1:] {
		if v > max {
			max = v
		}
	}

	rows := make([][]string, 0, len(pair.Labels))
	for i, label := range pair.Labels {
		rows = append(rows, []string{
			label,
			cli.FormatNumber(int64(pair.Values[i])),
			cli.RenderHorizontalBar(pair.Values[i], max, 24),
		})
	}
	fmt.Print(cli.RenderTable(cli.Table{Title: title, Rows: rows}))
}
