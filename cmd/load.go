package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"chatlytics/internal/cli"
	"chatlytics/internal/schema"
)

var loadCmd = &cobra.Command{
	Use:   "load <dataset.json>",
	Short: "Load a JSON session dataset, replacing stored data",
	Args:  cobra.ExactArgs(1),
	RunE:  runLoad,
}

func init() {
	rootCmd.AddCommand(loadCmd)
}

func runLoad(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading dataset: %w", err)
	}

	svc, _, err := newService()
	if err != nil {
		return err
	}
	defer svc.Close()

	report, err := svc.LoadSessions(data)
	if err != nil {
		var verr *schema.ValidationError
		if errors.As(err, &verr) {
			// Surface every violation at once, not just the first.
			fmt.Fprintln(os.Stderr, verr.Error())
			return fmt.Errorf("dataset rejected with %d validation problems", len(verr.Violations))
		}
		return err
	}

	if !flagQuiet {
		fmt.Printf("Loaded %s sessions\n", cli.FormatNumber(int64(report.InsertedCount)))
		for _, skip := range report.Skipped {
			fmt.Fprintln(os.Stderr, cli.Warn(fmt.Sprintf(
				"skipped session %d (%s): %s", skip.Index, skip.SessionID, skip.Reason)))
		}
	}
	return nil
}
