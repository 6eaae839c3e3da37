package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/shinji-kodama/layerconf/internal/directory"
	"github.com/shinji-kodama/layerconf/internal/model"
)

// directoryInfo is the JSON representation of a declared directory.
type directoryInfo struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

// NewListDirectoriesCommand creates the "config:list-directories"
// subcommand, which prints every declared directory sorted by name.
func NewListDirectoriesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config:list-directories",
		Short: "List the directories declared by the active variant",
		Args:  cobra.NoArgs,
		RunE:  runListDirectories,
	}

	return cmd
}

func runListDirectories(cmd *cobra.Command, args []string) error {
	a, err := bootstrap(cmd)
	if err != nil {
		return err
	}

	if IsJSONOutput() {
		return outputDirectoriesJSON(cmd.OutOrStdout(), a.registry)
	}
	return outputDirectoriesTable(cmd.OutOrStdout(), a.registry)
}

// outputDirectoriesTable prints one "name<TAB>path" line per directory.
func outputDirectoriesTable(w io.Writer, registry *directory.Registry) error {
	for _, name := range registry.Names() {
		path, _ := registry.Path(name)
		if _, err := fmt.Fprintf(w, "%s\t%s\n", name, path); err != nil {
			return err
		}
	}
	return nil
}

// outputDirectoriesJSON formats the directories as a JSON object.
func outputDirectoriesJSON(w io.Writer, registry *directory.Registry) error {
	dirs := make([]directoryInfo, 0, registry.Len())
	for _, name := range registry.Names() {
		path, _ := registry.Path(name)
		dirs = append(dirs, directoryInfo{Name: name, Path: path})
	}

	data, err := json.MarshalIndent(map[string]any{"directories": dirs}, "", "  ")
	if err != nil {
		return model.WrapCLIError(model.ExitGeneralError, "failed to encode directories", err)
	}
	fmt.Fprintln(w, string(data))
	return nil
}
