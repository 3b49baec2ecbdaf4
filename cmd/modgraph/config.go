// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/modgraph/modgraph/internal/config"
)

func newConfigCommand(a *app) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect modgraph configuration",
		Long: `Inspect modgraph configuration.

Configuration is read from the first of:
  - the file given with --config
  - modgraph.cue in the workspace root
  - config.cue in the user configuration directory
    (Linux: ~/.config/modgraph, macOS: ~/Library/Application Support/modgraph)

MODGRAPH_* environment variables override file values, for example
MODGRAPH_RESOLVE_ENGINE_ID for resolve.engine_id.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as CUE",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fmt.Fprint(a.stdout, config.GenerateCUE(a.cfg))
			return nil
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the configuration file in use",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if a.cfgPath == "" {
				fmt.Fprintln(a.stdout, "(none, using defaults)")
				return nil
			}
			fmt.Fprintln(a.stdout, a.cfgPath)
			return nil
		},
	})

	return cfgCmd
}
