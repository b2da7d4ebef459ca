package cmd

import (
	"context"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/stackfold/stackfold/pkg/telemetry"
	"github.com/stackfold/stackfold/pkg/utils"
)

var (
	// Global flags
	verbose  bool
	logger   utils.Logger
	otelStop telemetry.ShutdownFunc
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "stackfold",
	Short: "A sampling profiler and flame graph dashboard",
	Long: `stackfold is a CLI tool for sampling goroutine stacks in a running
process and rendering the result as folded-stack text and flame graphs.

It supports profiling an in-process workload directly (record) and serving
a dashboard that receives and visualizes sampling records (serve).`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Args validation already ran by this point; anything that fails
		// from here on is a runtime error, not a usage error.
		cmd.SilenceUsage = true

		logLevel := utils.LevelInfo
		if verbose {
			logLevel = utils.LevelDebug
		}
		logger = utils.NewDefaultLogger(logLevel, os.Stdout)
		utils.SetGlobalLogger(logger)

		if telemetry.Enabled() {
			stop, err := telemetry.Init(context.Background())
			if err != nil {
				return err
			}
			otelStop = stop
		}

		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if otelStop != nil {
			if err := otelStop(context.Background()); err != nil {
				logger.Warn("failed to shut down telemetry: %v", err)
			}
		}
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags
// appropriately. It exits 2 on a usage error (bad flags, wrong argument
// count — anything cobra rejects before a command's RunE runs) and 1 on
// any other failure, matching the reference CLI's command_line.py.
func Execute() {
	cmd, err := rootCmd.ExecuteC()
	if err == nil {
		return
	}
	if !cmd.SilenceUsage {
		os.Exit(2)
	}
	os.Exit(1)
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")

	binName := BinName()
	rootCmd.Example = `  # Profile the built-in busyloop workload at a 10ms interval
  ` + binName + ` record -i 10 busyloop

  # Start the dashboard server
  ` + binName + ` serve -p 8080`
}

// GetLogger returns the configured logger
func GetLogger() utils.Logger {
	return logger
}

// BinName returns the base name of the current executable
func BinName() string {
	return filepath.Base(os.Args[0])
}
