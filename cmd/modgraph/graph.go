// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/modgraph/modgraph/internal/dag"
)

func newGraphCommand(a *app) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Render the workspace module graph",
		Long: `Render the graph of workspace modules, with an edge from each module to
every workspace module it depends on. The dot format can be piped into
Graphviz. A graph with a cycle is still rendered before the error.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := checkFormat(format, "dot", "text"); err != nil {
				return a.fail(cmd, "render graph", err)
			}
			res, err := a.run(cmd.Context())
			var cycleErr *dag.CycleError
			if err != nil && !errors.As(err, &cycleErr) {
				return a.fail(cmd, "build module graph", err)
			}
			if format == "dot" {
				fmt.Fprint(a.stdout, res.Graph.ToDOT())
			} else {
				fmt.Fprint(a.stdout, res.Graph.ToText())
			}
			if err != nil {
				return a.fail(cmd, "order modules", err)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "dot", "output format: dot, text")
	return cmd
}
