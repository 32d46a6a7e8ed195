package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/VladimirLichonos/tess-two/cmd/tessadapt/commands"
	"github.com/VladimirLichonos/tess-two/pkg/observability/logging"
)

var (
	// Version information (set by build flags)
	version   = "dev"
	gitCommit = "unknown"
	buildDate = "unknown"
)

func main() {
	if _, err := logging.InitLoggerFromEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
	}

	rootCmd := &cobra.Command{
		Use:   "tessadapt",
		Short: "Adaptive classifier inspection CLI",
		Long: `tessadapt is a command-line tool for working with the adaptive
classifier's configuration and saved template stores.

Common workflows:
  tessadapt config validate engine.yaml     # Validate a config file
  tessadapt config show                     # Print the effective config
  tessadapt templates inspect adapted.yaml  # Summarize a saved template store

For detailed help on any command, use:
  tessadapt <command> --help`,
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, gitCommit, buildDate),
	}

	rootCmd.AddCommand(commands.NewConfigCmd())
	rootCmd.AddCommand(commands.NewTemplatesCmd())
	rootCmd.AddCommand(commands.NewCharsetCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
