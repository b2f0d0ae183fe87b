package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/seedhaus/storesweep/pkg/logging"
)

var version = "0.1.0"

var (
	// Flags
	debug  bool
	pretty bool
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "storesweep",
		Short:        "Bulk-delete store records from the content API and the commerce platform",
		Version:      version,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug logging")
	cmd.PersistentFlags().BoolVar(&pretty, "pretty", false, "human-readable log output")

	cmd.AddCommand(newDeleteCmd())

	return cmd
}

// setupLogging configures the global zerolog logger from config values,
// with the command line flags taking precedence.
func setupLogging(level string, prettyOutput bool) {
	logLevel := logging.LogLevel(level)
	if debug {
		logLevel = logging.LevelDebug
	}

	logging.Setup(logging.Config{
		Level:  logLevel,
		Pretty: prettyOutput || pretty,
		Output: os.Stderr,
	})
}
