package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"chatlytics/internal/cli"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Stored dataset and cache statistics",
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	svc, _, err := newService()
	if err != nil {
		return err
	}
	defer svc.Close()

	db, err := svc.DatabaseStats()
	if err != nil {
		return err
	}
	cache, err := svc.CacheStats()
	if err != nil {
		return err
	}

	rows := [][]string{
		{"Sessions", cli.FormatNumber(int64(db.TotalSessions))},
		{"Cached ranges", cli.FormatNumber(int64(cache.Entries))},
	}
	if db.TotalSessions > 0 {
		rows = append(rows,
			[]string{"Oldest", db.OldestSession.Format("2006-01-02 15:04")},
			[]string{"Newest", db.NewestSession.Format("2006-01-02 15:04")},
		)
	}

	fmt.Print(cli.RenderTable(cli.Table{Title: "Database", Rows: rows}))
	return nil
}
