package cli

import (
	"github.com/spf13/cobra"

	"github.com/shinji-kodama/layerconf/internal/directory"
	"github.com/shinji-kodama/layerconf/internal/model"
)

// NewCleanDirectoriesCommand creates the "config:clean-directories"
// subcommand.
//
// The command erases the contents of the named directories, keeping the
// directories themselves. Exit codes:
//   - 0 every directory was cleaned
//   - 1 at least one name is not declared; nothing was cleaned
//   - 2 at least one directory could not be cleaned
func NewCleanDirectoriesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config:clean-directories <directoryNames>...",
		Short: "Erase the contents of declared directories",
		Long: `Erase everything beneath the named directories declared by the active
configuration variant. The directories themselves are kept.

If any name is not declared, nothing is cleaned.`,
		Example: `  # Clean the cache and log directories of the prod environment
  layerconf config:clean-directories --env prod cache log`,
		Args: cobra.MinimumNArgs(1),
		RunE: runCleanDirectories,
	}

	return cmd
}

// runCleanDirectories is the main execution logic for the clean command.
func runCleanDirectories(cmd *cobra.Command, args []string) error {
	a, err := bootstrap(cmd)
	if err != nil {
		return err
	}

	cleaner := directory.NewCleaner(a.registry, cmd.OutOrStdout(), a.log.Component("cleaner"))
	if code := cleaner.Clean(args); code != model.ExitSuccess {
		// The cleaner already reported the problem on stdout.
		return model.ExitError(code)
	}
	return nil
}
