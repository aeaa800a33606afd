package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/liqcal/calibration-core/pkg/logger"
)

var (
	// Global flags
	configPath string
	logLevel   string
)

// Execute runs the root command
func Execute(ctx context.Context, version, commit, buildDate string) error {
	rootCmd := newRootCommand(version, commit, buildDate)
	return rootCmd.ExecuteContext(ctx)
}

func newRootCommand(version, commit, buildDate string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "liqcal",
		Short: "liqcal - liquid handling parameter calibration",
		Long: `liqcal calibrates liquid-handling parameters (aspiration and dispense
rates, delays, withdrawal and blowout rates) for a pipette and liquid
pair. A sequential optimization strategy proposes one parameter vector
per trial, scores it against a target, and converges on the best set.

Strategies:
  simultaneous  adjust all parameters every trial
  coordinate    adjust one parameter at a time in a fixed cycle
  hybrid        phased: flow rates, then delays, then withdrawal, then fine tuning`,
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, buildDate),
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger.SetDefault(logger.NewText(logLevel, os.Stderr))
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")

	rootCmd.AddCommand(newRunCommand())
	rootCmd.AddCommand(newStrategiesCommand())
	rootCmd.AddCommand(newBoundsCommand())
	rootCmd.AddCommand(newClassesCommand())

	return rootCmd
}
