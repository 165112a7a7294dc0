// Package cmd implements the driftless-agent command-line tool.
package cmd

import (
	"fmt"
	"os"

	"github.com/driftless-hq/driftless-sub001/pkg/logging"
	"github.com/spf13/cobra"
)

const (
	// ExitCodeSuccess is returned when the command completes without error.
	ExitCodeSuccess = 0
	// ExitCodeError is returned when the command returns any other error.
	ExitCodeError = 1
)

var version = "dev"

var logLevelFlag string

var rootCmd = &cobra.Command{
	Use:   "driftless-agent",
	Short: "Desktop-agnostic desired-state configuration agent",
	Long: `driftless-agent applies a declarative task list to bring a host to a
desired state, collects operational facts on a schedule, and can be
extended at runtime with WebAssembly plugins.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level, err := parseLogLevel(logLevelFlag)
		if err != nil {
			return err
		}
		logging.InitForCLI(level, os.Stderr)
		return nil
	},
}

func parseLogLevel(s string) (logging.LogLevel, error) {
	switch s {
	case "debug":
		return logging.LevelDebug, nil
	case "info", "":
		return logging.LevelInfo, nil
	case "warn":
		return logging.LevelWarn, nil
	case "error":
		return logging.LevelError, nil
	default:
		return logging.LevelInfo, fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", s)
	}
}

// SetVersion records the version string main.go was built with, surfaced by
// the version subcommand and `--version`.
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// GetVersion returns the version string currently configured.
func GetVersion() string {
	return version
}

func getExitCode(err error) int {
	if err == nil {
		return ExitCodeSuccess
	}
	return ExitCodeError
}

// Execute runs the root command and exits the process with a code derived
// from the returned error.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
	os.Exit(getExitCode(err))
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newApplyCmd())
	rootCmd.AddCommand(newFactsCmd())
	rootCmd.AddCommand(newPluginCmd())
	rootCmd.AddCommand(newRunCmd())
}
