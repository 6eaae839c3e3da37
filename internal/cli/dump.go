package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/shinji-kodama/layerconf/internal/model"
	"github.com/shinji-kodama/layerconf/internal/settings"
)

// NewDumpCommand creates the "config:dump" subcommand, which prints the
// container contents after the active variant has been merged in.
func NewDumpCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config:dump",
		Short: "Print the merged configuration",
		Long: `Print the configuration of the active environment after merging, including
the declared directories and the framework settings.

Output is YAML in key order, or JSON with --json.`,
		Args: cobra.NoArgs,
		RunE: runDump,
	}

	return cmd
}

func runDump(cmd *cobra.Command, args []string) error {
	a, err := bootstrap(cmd)
	if err != nil {
		return err
	}
	if err := a.applySettings(); err != nil {
		return model.WrapCLIError(model.ExitGeneralError, "failed to apply framework settings", err)
	}

	// The settings bag is not a plain value; flatten it for output.
	if v, ok := a.container.Get(settings.DefaultKey); ok {
		if bag, ok := v.(*settings.Collection); ok {
			a.container.Set(settings.DefaultKey, bag.All())
		}
	}

	merged := a.container.Tree()

	if IsJSONOutput() {
		data, err := json.MarshalIndent(merged.Native(), "", "  ")
		if err != nil {
			return model.WrapCLIError(model.ExitGeneralError, "failed to encode configuration", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	}

	data, err := yaml.Marshal(merged)
	if err != nil {
		return model.WrapCLIError(model.ExitGeneralError, "failed to encode configuration", err)
	}
	fmt.Fprint(cmd.OutOrStdout(), string(data))
	return nil
}
