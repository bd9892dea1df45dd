// Package cmd wires the chatlytics CLI onto the data service facade.
package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"chatlytics/internal/config"
	"chatlytics/internal/model"
	"chatlytics/internal/service"
)

var (
	flagFrom    string
	flagTo      string
	flagDays    int
	flagDataDir string
	flagQuiet   bool
	flagVerbose bool
)

var rootCmd = &cobra.Command{
	Use:   "chatlytics",
	Short: "Chatbot conversation analytics",
	Long:  "Ingest chatbot session logs and analyze KPIs, charts, and costs over date ranges.",
	RunE:  runSummary,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagFrom, "from", "", "Range start (YYYY-MM-DD)")
	rootCmd.PersistentFlags().StringVar(&flagTo, "to", "", "Range end (YYYY-MM-DD)")
	rootCmd.PersistentFlags().IntVarP(&flagDays, "days", "n", 0, "Time window in days (ignored when --from/--to given)")
	rootCmd.PersistentFlags().StringVarP(&flagDataDir, "data-dir", "d", "", "Data directory (overrides config)")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress progress output")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Verbose logging")

	rootCmd.SilenceUsage = true
	rootCmd.SilenceErrors = true
}

// newService builds and initializes the facade shared by all commands.
func newService() (*service.Service, config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, cfg, err
	}
	if flagDataDir != "" {
		cfg.General.DataDir = flagDataDir
	}

	log := logrus.New()
	log.SetOutput(os.Stderr)
	if flagVerbose {
		log.SetLevel(logrus.DebugLevel)
	} else if flagQuiet {
		log.SetLevel(logrus.ErrorLevel)
	} else {
		log.SetLevel(logrus.WarnLevel)
	}

	svc := service.New(cfg, log)
	if err := svc.Init(); err != nil {
		return nil, cfg, fmt.Errorf("initializing data service: %w", err)
	}
	return svc, cfg, nil
}

// resolveRange turns the shared flags into the inclusive date range consumed
// by every aggregation command.
func resolveRange(cfg config.Config) (model.DateRange, error) {
	days := flagDays
	if days <= 0 {
		days = cfg.General.DefaultDays
	}

	now := time.Now().UTC()
	r := model.DateRange{
		Start: now.AddDate(0, 0, -days),
		End:   now,
	}

	if flagFrom != "" {
		t, err := time.Parse("2006-01-02", flagFrom)
		if err != nil {
			return model.DateRange{}, fmt.Errorf("invalid --from date: %w", err)
		}
		r.Start = t
	}
	if flagTo != "" {
		t, err := time.Parse("2006-01-02", flagTo)
		if err != nil {
			return model.DateRange{}, fmt.Errorf("invalid --to date: %w", err)
		}
		// Inclusive through the end of that day.
		r.End = t.Add(24*time.Hour - time.Second)
	}

	if r.End.Before(r.Start) {
		return model.DateRange{}, fmt.Errorf("range end %s precedes start %s", flagTo, flagFrom)
	}
	return r, nil
}
