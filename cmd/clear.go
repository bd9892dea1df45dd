package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var flagClearYes bool

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all stored sessions, the cache, and the persisted snapshot",
	RunE:  runClear,
}

func init() {
	clearCmd.Flags().BoolVarP(&flagClearYes, "yes", "y", false, "Skip confirmation")
	rootCmd.AddCommand(clearCmd)
}

func runClear(cmd *cobra.Command, args []string) error {
	if !flagClearYes {
		fmt.Print("Delete all stored data? [y/N] ")
		var answer string
		_, _ = fmt.Scanln(&answer)
		if answer != "y" && answer != "Y" {
			fmt.Println("Aborted")
			return nil
		}
	}

	svc, _, err := newService()
	if err != nil {
		return err
	}
	defer svc.Close()

	if err := svc.ClearAllData(); err != nil {
		return err
	}
	if !flagQuiet {
		fmt.Println("All data cleared")
	}
	return nil
}
