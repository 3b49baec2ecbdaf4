// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/modgraph/modgraph/pkg/resolve"
)

func newCheckCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Check that the workspace resolves cleanly",
		Long: `Run a full resolution pass and report every problem found.

Exit status is 0 when the workspace is clean, 2 when modules were dropped,
required dependencies are unresolved or engine ranges conflict, and 1 on a
fatal error such as a dependency cycle.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			res, err := a.run(cmd.Context())
			if err != nil {
				return a.fail(cmd, "check workspace", err)
			}

			fmt.Fprintln(a.stdout, TitleStyle.Render("Workspace check"))
			fmt.Fprintf(a.stdout, "%s %d module(s), %d dependency(ies): %d local, %d external, %d unresolved\n",
				successIcon,
				len(res.Modules),
				len(res.Report.Results),
				len(res.Report.Filter(resolve.OutcomeLocal)),
				len(res.Report.Filter(resolve.OutcomeExternal)),
				len(res.Report.Filter(resolve.OutcomeUnresolved)),
			)
			if len(res.Engine) > 0 && !res.EngineRange.Min.IsZero() {
				line := fmt.Sprintf("%s engine %s", successIcon, ModuleStyle.Render(res.EngineRange.String()))
				if !res.EngineVersion.IsZero() {
					line += " -> " + res.EngineVersion.String()
				}
				fmt.Fprintln(a.stdout, line)
			}
			a.renderDiagnostics(res)

			if res.HasProblems() {
				fmt.Fprintf(a.stdout, "%s workspace has problems\n", errorIcon)
				a.renderGuides(problemGuides(res)...)
				cmd.SilenceErrors = true
				return &ExitError{Code: ExitProblems}
			}
			fmt.Fprintf(a.stdout, "%s workspace is consistent\n", successIcon)
			return nil
		},
	}
}
