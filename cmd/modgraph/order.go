// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"

	"github.com/modgraph/modgraph/internal/workspace"
)

type (
	orderEntry struct {
		Name    string `json:"name" toml:"name"`
		Version string `json:"version" toml:"version"`
		Group   string `json:"group,omitempty" toml:"group,omitempty"`
	}

	orderDocument struct {
		Order []orderEntry `json:"order" toml:"order"`
		// Engine is the engine version selected for the workspace, if any.
		Engine string `json:"engine,omitempty" toml:"engine,omitempty"`
	}
)

func newOrderCommand(a *app) *cobra.Command {
	var (
		format   string
		versions bool
	)
	cmd := &cobra.Command{
		Use:   "order",
		Short: "Print the build order of the workspace modules",
		Long: `Print the workspace modules so that every module comes after the
workspace modules it depends on. Modules that do not depend on each other
keep a stable relative order.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := checkFormat(format, "text", "json", "toml"); err != nil {
				return a.fail(cmd, "write build order", err)
			}
			res, err := a.run(cmd.Context())
			if err != nil {
				return a.fail(cmd, "order modules", err)
			}
			if err := writeOrder(a, res, format, versions); err != nil {
				return a.fail(cmd, "write build order", err)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "text", "output format: text, json, toml")
	cmd.Flags().BoolVar(&versions, "versions", false, "print name@version in text output")
	return cmd
}

func writeOrder(a *app, res *workspace.Result, format string, versions bool) error {
	switch format {
	case "text":
		for _, m := range res.Order {
			if versions {
				fmt.Fprintln(a.stdout, m.String())
			} else {
				fmt.Fprintln(a.stdout, m.Name)
			}
		}
		return nil
	case "json", "toml":
		doc := orderDocument{Order: make([]orderEntry, 0, len(res.Order))}
		for _, m := range res.Order {
			doc.Order = append(doc.Order, orderEntry{Name: m.Name, Version: m.Version.String(), Group: m.Group})
		}
		if !res.EngineVersion.IsZero() {
			doc.Engine = res.EngineVersion.String()
		}
		if format == "toml" {
			return toml.NewEncoder(a.stdout).Encode(doc)
		}
		enc := json.NewEncoder(a.stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	default:
		return fmt.Errorf("unknown format %q (valid: text, json, toml)", format)
	}
}
