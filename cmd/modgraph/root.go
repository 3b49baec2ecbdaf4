// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
)

// newRootCommand builds the command tree around one app instance.
func newRootCommand(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "modgraph",
		Short: "Resolve module dependencies and compute build order",
		Long: TitleStyle.Render("modgraph") + SubtitleStyle.Render(" - module dependency resolution and build ordering") + `

modgraph reads the metadata file of every module in a workspace, decides
for each declared dependency whether another workspace module, a published
artifact or nothing satisfies it, and orders the workspace modules so that
every module is built after its dependencies.

` + SubtitleStyle.Render("Examples:") + `
  modgraph order                 Print the build order
  modgraph deps --format json    Print every dependency and its outcome
  modgraph graph | dot -Tsvg     Render the module graph
  modgraph check                 Exit non-zero when the workspace has problems`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
	}

	f := root.PersistentFlags()
	f.BoolVarP(&a.flags.verbose, "verbose", "v", false, "enable verbose output and the error chain")
	f.StringVar(&a.flags.configFile, "config", "", "config file (default: ./modgraph.cue, then the user config directory)")
	f.StringVarP(&a.flags.root, "root", "C", "", "workspace root (overrides workspace.root)")
	f.StringVar(&a.flags.logLevel, "log-level", "", "log level: debug, info, warn, error")
	f.StringVar(&a.flags.metricsFile, "metrics-file", "", "write pass metrics to this file in prometheus text format")
	f.BoolVar(&a.flags.lenient, "lenient", false, "drop inconsistent dependency declarations instead of failing")
	f.StringSliceVar(&a.flags.dirs, "module", nil, "module directory to read instead of discovering (repeatable)")

	root.AddCommand(
		newOrderCommand(a),
		newDepsCommand(a),
		newGraphCommand(a),
		newCheckCommand(a),
		newConfigCommand(a),
	)
	return root
}

func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s)", Version, Commit)
}

// Execute runs the CLI and exits the process with the resulting status.
// This is called by main.main().
func Execute() {
	a := newApp(os.Stdout, os.Stderr)
	if err := fang.Execute(
		context.Background(),
		newRootCommand(a),
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(ExitFailure)
	}
}
