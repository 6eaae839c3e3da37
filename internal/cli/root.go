// Package cli implements the cobra-based CLI commands for layerconf.
//
// Each subcommand (config:clean-directories, config:dump,
// config:list-directories) is defined in its own file within this package.
// This file defines the root command that serves as the parent for all
// subcommands and handles global flags.
package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/shinji-kodama/layerconf/internal/model"
)

// Global flag variables shared across all subcommands.
// These are bound to cobra persistent flags on the root command,
// which makes them available to every subcommand automatically.
var (
	// environment selects the configuration variant. Empty means "use
	// LAYERCONF_ENV or the default".
	environment string

	// configDir is the directory holding the variant files.
	configDir string

	// jsonOutput controls whether command output is formatted as JSON.
	jsonOutput bool

	// verbose enables debug logging on stderr.
	verbose bool
)

// Version, Commit, and Date are set at build time via ldflags.
// They are injected from the main package to display version information.
var (
	// Version is the semantic version of the binary (e.g., "1.0.0").
	Version = "dev"

	// Commit is the Git commit hash the binary was built from.
	Commit = "none"

	// Date is the build timestamp.
	Date = "unknown"
)

// NewRootCommand creates and configures the root cobra command.
//
// The root command itself does not perform any action; it only provides
// help text and global flags.
func NewRootCommand() *cobra.Command {
	// Flags are package-level; reset them so repeated construction (tests)
	// starts clean.
	environment, configDir, jsonOutput, verbose = "", "", false, false

	rootCmd := &cobra.Command{
		Use:   "layerconf",
		Short: "Environment-aware layered configuration tool",
		Long: `layerconf resolves the configuration variant of an environment, merges it
onto the application's existing configuration and manages the directories
the variant declares.

Variants are read from <config-dir>/<env>.{yaml,yml,json,jsonc}.`,

		// SilenceUsage prevents cobra from printing usage on every error.
		SilenceUsage: true,

		// SilenceErrors prevents cobra from printing errors automatically.
		// We format errors ourselves (text or JSON based on --json flag).
		SilenceErrors: true,

		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, Date),
	}

	rootCmd.PersistentFlags().StringVarP(&environment, "env", "e", "", "Environment to load (default \"dev\", or $LAYERCONF_ENV)")
	rootCmd.PersistentFlags().StringVarP(&configDir, "config-dir", "c", "", "Directory holding the variant files (default \"config\", or $LAYERCONF_CONFIG_DIR)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")

	rootCmd.AddCommand(NewCleanDirectoriesCommand())
	rootCmd.AddCommand(NewDumpCommand())
	rootCmd.AddCommand(NewListDirectoriesCommand())

	return rootCmd
}

// Execute runs the root command and exits the process with the resulting
// exit code. This is the main entry point called from main.go.
func Execute(rootCmd *cobra.Command) {
	os.Exit(Run(rootCmd, os.Stderr))
}

// Run executes rootCmd and translates the returned error into an exit code.
// CLIError types carry their own exit codes; other errors map to 1. Error
// messages are written to stderr unless the error is silent.
func Run(rootCmd *cobra.Command, stderr io.Writer) int {
	err := rootCmd.Execute()
	if err == nil {
		return int(model.ExitSuccess)
	}

	var cliErr *model.CLIError
	if errors.As(err, &cliErr) {
		if !cliErr.IsSilent() {
			printError(stderr, cliErr.Message, cliErr.Err)
		}
		return int(cliErr.Code)
	}

	printError(stderr, err.Error(), nil)
	return int(model.ExitGeneralError)
}

// printError outputs an error message in the appropriate format
// (JSON or text) based on the --json global flag.
func printError(w io.Writer, message string, underlying error) {
	if jsonOutput {
		errObj := map[string]any{
			"error": map[string]any{
				"message": message,
			},
		}
		if underlying != nil {
			if errMap, ok := errObj["error"].(map[string]any); ok {
				errMap["detail"] = underlying.Error()
			}
		}
		// stdout is reserved for successful command output, so errors go to
		// stderr even in JSON mode.
		data, _ := json.MarshalIndent(errObj, "", "  ")
		fmt.Fprintln(w, string(data))
		return
	}

	if underlying != nil {
		fmt.Fprintf(w, "Error: %s: %v\n", message, underlying)
	} else {
		fmt.Fprintf(w, "Error: %s\n", message)
	}
}

// IsJSONOutput returns whether the --json flag is set.
// Subcommands use this to decide their output format.
func IsJSONOutput() bool {
	return jsonOutput
}
