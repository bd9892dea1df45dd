package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"chatlytics/internal/cli"
	"chatlytics/internal/model"
)

var flagCacheAll bool

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect and invalidate the query cache",
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show cached date ranges",
	RunE:  runCacheStats,
}

var cacheInvalidateCmd = &cobra.Command{
	Use:   "invalidate",
	Short: "Invalidate the cached entry for the selected range (or everything with --all)",
	RunE:  runCacheInvalidate,
}

func init() {
	cacheInvalidateCmd.Flags().BoolVar(&flagCacheAll, "all", false, "Invalidate every cached range")
	cacheCmd.AddCommand(cacheStatsCmd, cacheInvalidateCmd)
	rootCmd.AddCommand(cacheCmd)
}

func runCacheStats(cmd *cobra.Command, args []string) error {
	svc, _, err := newService()
	if err != nil {
		return err
	}
	defer svc.Close()

	stats, err := svc.CacheStats()
	if err != nil {
		return err
	}

	rows := [][]string{{"Entries", cli.FormatNumber(int64(stats.Entries))}}
	for _, key := range stats.Keys {
		rows = append(rows, []string{"", key})
	}
	fmt.Print(cli.RenderTable(cli.Table{Title: "Query cache", Rows: rows}))
	return nil
}

func runCacheInvalidate(cmd *cobra.Command, args []string) error {
	svc, cfg, err := newService()
	if err != nil {
		return err
	}
	defer svc.Close()

	var target *model.DateRange
	if !flagCacheAll {
		r, err := resolveRange(cfg)
		if err != nil {
			return err
		}
		target = &r
	}

	if err := svc.InvalidateCache(target); err != nil {
		return err
	}
	if !flagQuiet {
		if target == nil {
			fmt.Println("Cache cleared")
		} else {
			fmt.Println("Cache entry invalidated")
		}
	}
	return nil
}
