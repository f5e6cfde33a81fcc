package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/minecraft-switchboard/internal/config"
	"github.com/oshokin/minecraft-switchboard/internal/service/counter"
	"github.com/oshokin/minecraft-switchboard/internal/version"
)

var (
	// configPath to the configuration YAML file.
	configPath string
	// mode selects the counting command variant.
	mode string

	// rootCmd represents the base command for processing one event document.
	rootCmd = &cobra.Command{
		Use:   "clients-counter [event-file]",
		Short: "Count connected clients from one inbound event document.",
		Long: `Processes one inbound event JSON document and updates the
connected-clients counter.

The counting strategy is selected explicitly with --mode:
  logs    count join/leave log lines from a stream delivery
  alarm   count an alarm notification into the counter store
  series  derive a snapshot tally from the metric series

The event document is read from the file argument, or from standard input
when the argument is omitted or "-".`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			var eventPath string
			if len(args) > 0 {
				eventPath = args[0]
			}

			options := &counter.Options{
				ConfigPath: configPath,
				Mode:       mode,
				EventPath:  eventPath,
			}

			return counter.Run(ctx, options)
		},
	}
)

// Execute runs the clients-counter CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	rootCmd.Flags().StringVarP(&configPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")
	rootCmd.Flags().StringVarP(&mode, "mode", "m", string(counter.ModeLogs), "counting mode: logs, alarm or series")
}
