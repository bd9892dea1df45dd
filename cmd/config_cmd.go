package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"chatlytics/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage chatlytics configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		fmt.Printf("Config file: %s\n", config.ConfigPath())
		fmt.Printf("Data dir:    %s\n\n", cfg.DataDir())
		fmt.Printf("[general] default_days = %d\n", cfg.General.DefaultDays)
		fmt.Printf("[cache]   ttl_minutes = %d, max_entries = %d\n",
			cfg.Cache.TTLMinutes, cfg.Cache.MaxEntries)
		fmt.Printf("[engine]  top_categories = %d, top_questions = %d, label_max_chars = %d\n",
			cfg.Engine.TopCategories, cfg.Engine.TopQuestions, cfg.Engine.LabelMaxChars)
		fmt.Printf("[persist] max_snapshot_bytes = %d\n", cfg.Persist.MaxSnapshotBytes)
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default configuration file",
	RunE: func(cmd *cobra.Command, args []string) error {
		if config.Exists() {
			return fmt.Errorf("config already exists at %s", config.ConfigPath())
		}
		if err := config.Save(config.DefaultConfig()); err != nil {
			return err
		}
		fmt.Printf("Wrote %s\n", config.ConfigPath())
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd, configInitCmd)
	rootCmd.AddCommand(configCmd)
}
