// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/modgraph/modgraph/internal/dag"
	"github.com/modgraph/modgraph/pkg/resolve"
)

type depEntry struct {
	Declarer   string `json:"declarer"`
	Namespace  string `json:"namespace"`
	Name       string `json:"name"`
	Constraint string `json:"constraint"`
	Optional   bool   `json:"optional"`
	Outcome    string `json:"outcome"`
	Version    string `json:"version,omitempty"`
	Backend    string `json:"backend,omitempty"`
	Error      string `json:"error,omitempty"`
}

func newDepsCommand(a *app) *cobra.Command {
	var (
		format  string
		outcome string
	)
	cmd := &cobra.Command{
		Use:   "deps",
		Short: "Print every declared dependency and how it resolved",
		Long: `Print the dependency specifications of the workspace modules with their
outcome: local (another workspace module), external (a published artifact)
or unresolved. Engine declarations select the engine version and are not
listed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := checkFormat(format, "text", "json"); err != nil {
				return a.fail(cmd, "list dependencies", err)
			}
			filter, err := parseOutcome(outcome)
			if err != nil {
				return a.fail(cmd, "list dependencies", err)
			}
			res, err := a.run(cmd.Context())
			// A cycle does not stop the dependency listing.
			var cycleErr *dag.CycleError
			if err != nil && !errors.As(err, &cycleErr) {
				return a.fail(cmd, "resolve dependencies", err)
			}
			if werr := writeDeps(a, res.Report.Results, format, filter); werr != nil {
				return a.fail(cmd, "write dependencies", werr)
			}
			if err != nil {
				return a.fail(cmd, "order modules", err)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "text", "output format: text, json")
	cmd.Flags().StringVar(&outcome, "outcome", "", "only show one outcome: local, external, unresolved")
	return cmd
}

// parseOutcome returns -1 for no filter.
func parseOutcome(s string) (resolve.Outcome, error) {
	switch s {
	case "":
		return -1, nil
	case "local":
		return resolve.OutcomeLocal, nil
	case "external":
		return resolve.OutcomeExternal, nil
	case "unresolved":
		return resolve.OutcomeUnresolved, nil
	default:
		return 0, fmt.Errorf("unknown outcome %q (valid: local, external, unresolved)", s)
	}
}

func writeDeps(a *app, results []resolve.Result, format string, filter resolve.Outcome) error {
	var entries []depEntry
	for _, r := range results {
		if filter >= 0 && r.Outcome != filter {
			continue
		}
		e := depEntry{
			Declarer:   r.Spec.Declarer,
			Namespace:  r.Spec.Namespace,
			Name:       r.Spec.Name,
			Constraint: r.Spec.Constraint,
			Optional:   r.Spec.Optional,
			Outcome:    r.Outcome.String(),
			Backend:    r.Backend,
		}
		if !r.Version.IsZero() {
			e.Version = r.Version.String()
		}
		if r.Err != nil {
			e.Error = r.Err.Error()
		}
		entries = append(entries, e)
	}

	switch format {
	case "text":
		for _, e := range entries {
			kind := "required"
			if e.Optional {
				kind = "optional"
			}
			line := fmt.Sprintf("%s -> %s:%s %s %s %s", e.Declarer, e.Namespace, e.Name, e.Constraint, kind, e.Outcome)
			if e.Version != "" {
				line += " " + e.Version
			}
			fmt.Fprintln(a.stdout, line)
		}
		return nil
	case "json":
		if entries == nil {
			entries = []depEntry{}
		}
		enc := json.NewEncoder(a.stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	default:
		return fmt.Errorf("unknown format %q (valid: text, json)", format)
	}
}
