package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var flagExportDir string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export sessions in the selected range as CSV",
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&flagExportDir, "out", "o", ".", "Directory to write the CSV file into (\"-\" for stdout)")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	svc, cfg, err := newService()
	if err != nil {
		return err
	}
	defer svc.Close()

	r, err := resolveRange(cfg)
	if err != nil {
		return err
	}

	fileName, csv, err := svc.ExportCSV(r)
	if err != nil {
		return err
	}

	if flagExportDir == "-" {
		fmt.Print(csv)
		return nil
	}

	path := filepath.Join(flagExportDir, fileName)
	if err := os.WriteFile(path, []byte(csv), 0o644); err != nil {
		return fmt.Errorf("writing export: %w", err)
	}
	if !flagQuiet {
		fmt.Printf("Wrote %s\n", path)
	}
	return nil
}
