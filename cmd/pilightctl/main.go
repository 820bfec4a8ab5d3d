// Pilightctl is a control panel for pilight LED backends.
//
// It talks to a pilight backend over its JSON HTTP API and provides an
// interactive full-screen control panel plus one-shot commands for saved
// configs, the light driver, and the list of known backends.
//
// Usage:
//
//	pilightctl [command] [flags]
//
// Running without arguments launches the control panel.
// See 'pilightctl --help' for available commands.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/muurk/pilightctl/internal/config"
	"github.com/muurk/pilightctl/internal/logging"
	"github.com/muurk/pilightctl/internal/version"
)

// Global flags
var (
	serverArg   string
	logLevel    string
	logFile     string
	timeoutSecs int
	username    string
)

// registry is loaded once per invocation by the root PersistentPreRunE.
var registry *config.Registry

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	defer logging.Sync()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		stop()
		logging.Sync()
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "pilightctl",
	Short: "pilight LED Control Panel",
	Long: `A terminal control panel for pilight LED backends.

Edits the active transforms and variables of a backend, manages saved
configs, and starts or stops the light driver.

If no command is specified, the interactive control panel will launch.`,
	Version:           version.Version,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Default behavior: run the control panel when no subcommand provided
		return runTUI(cmd, args)
	},
}

func init() {
	// Disable automatic completion command generation
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.PersistentFlags().StringVarP(&serverArg, "server", "s", "", "Backend name from the registry or URL (default: registry default)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error); overrides "+logging.LogLevelEnvVar)
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Write logs to this file")
	rootCmd.PersistentFlags().IntVar(&timeoutSecs, "timeout", 0, "Per-request timeout in seconds (default: registry preference)")
	rootCmd.PersistentFlags().StringVarP(&username, "user", "u", "", "Log in as this user before running the command")

	rootCmd.AddCommand(versionCmd)
}

// setup initializes logging and loads the server registry.
func setup(cmd *cobra.Command, args []string) error {
	var err error
	registry, err = config.LoadRegistry()
	if err != nil {
		return fmt.Errorf("failed to load registry: %w", err)
	}

	file := logFile
	if file == "" && (!cmd.HasParent() || cmd.Name() == "tui") {
		// The control panel owns the terminal
		file = registry.Preferences.LogFile
	}
	if err := logging.InitializeWithOptions(logging.Options{Level: logLevel, File: file}); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	return nil
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	// Skip registry and logger setup
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("pilightctl %s\n", version.Full())
	},
}
