// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/modgraph/modgraph/internal/dag"
	"github.com/modgraph/modgraph/internal/issue"
	"github.com/modgraph/modgraph/internal/workspace"
	"github.com/modgraph/modgraph/pkg/depmap"
	"github.com/modgraph/modgraph/pkg/modinfo"
)

// actionable attaches an operation, suggestions and a guide to err unless
// it already carries them.
func actionable(operation string, err error) *issue.ActionableError {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae
	}

	ec := issue.NewErrorContext().WithOperation(operation).Wrap(err)

	var (
		cycleErr   *dag.CycleError
		mappingErr *depmap.MappingError
		dupErr     *workspace.DuplicateModuleError
		parseErr   *modinfo.ParseError
	)
	switch {
	case errors.As(err, &cycleErr):
		ec.WithGuide(issue.DependencyCycleId).
			WithSuggestion(fmt.Sprintf("Remove one dependency on the cycle %s", strings.Join(cycleErr.Cycle, " -> "))).
			WithSuggestion("Run 'modgraph graph' to see the cycle in context")
	case errors.As(err, &mappingErr):
		ec.WithGuide(issue.InvalidConstraintId).
			WithResource(mappingErr.Module).
			WithSuggestion(fmt.Sprintf("Fix the version bounds of %q in %s", mappingErr.Target, mappingErr.Module)).
			WithSuggestion("Run with --lenient to drop the declaration and continue")
	case errors.As(err, &dupErr):
		ec.WithGuide(issue.DuplicateModuleId).
			WithResource(dupErr.Name).
			WithSuggestion("Rename one of the modules or remove the stale directory")
	case errors.As(err, &parseErr):
		ec.WithGuide(issue.MetadataParseFailedId).
			WithResource(parseErr.Path)
	case errors.Is(err, modinfo.ErrNotFound):
		ec.WithGuide(issue.MetadataNotFoundId)
	case errors.Is(err, errNoModules), errors.Is(err, workspace.ErrInvalidPattern):
		ec.WithGuide(issue.NoModulesFoundId).
			WithSuggestion("Check workspace.patterns and the --root flag")
	}

	return ec.Build()
}

// renderError prints err to stderr. In verbose mode the error chain and the
// matching issue guide follow.
func (a *app) renderError(operation string, err error) {
	ae := actionable(operation, err)
	fmt.Fprintf(a.stderr, "%s %s\n", errorIcon, ae.Format(a.flags.verbose))

	if ae.Guide == 0 {
		return
	}
	a.renderGuides(ae.Guide)
}

// renderGuides prints the troubleshooting guides to stderr in verbose mode,
// or a hint to ask for them otherwise.
func (a *app) renderGuides(ids ...issue.Id) {
	if len(ids) == 0 {
		return
	}
	if !a.flags.verbose {
		fmt.Fprintln(a.stderr, SubtitleStyle.Render("\nRun with --verbose for a troubleshooting guide."))
		return
	}
	for _, id := range ids {
		guide := issue.Get(id)
		if guide == nil {
			continue
		}
		out, err := guide.Render(a.glamourStyle())
		if err != nil {
			continue
		}
		fmt.Fprint(a.stderr, out)
	}
}

// problemGuides returns the guides matching the problems of res, each once,
// in the order the problems were found.
func problemGuides(res *workspace.Result) []issue.Id {
	var ids []issue.Id
	add := func(id issue.Id) {
		if !slices.Contains(ids, id) {
			ids = append(ids, id)
		}
	}
	for _, d := range res.Diagnostics {
		switch d.Code {
		case workspace.CodeMetadataParseFailed:
			add(issue.MetadataParseFailedId)
		case workspace.CodeMetadataNotFound:
			add(issue.MetadataNotFoundId)
		case workspace.CodeMappingFailed:
			add(issue.InvalidConstraintId)
		case workspace.CodeEngineConflict:
			add(issue.EngineConflictId)
		}
	}
	if len(res.Report.UnresolvedRequired()) > 0 {
		add(issue.UnresolvedDependenciesId)
	}
	return ids
}

// checkFormat fails unless format is one of valid. Commands call it before
// running a pass so a typo does not cost a full resolution.
func checkFormat(format string, valid ...string) error {
	if slices.Contains(valid, format) {
		return nil
	}
	return fmt.Errorf("unknown format %q (valid: %s)", format, strings.Join(valid, ", "))
}

func (a *app) glamourStyle() string {
	if a.cfg == nil {
		return "auto"
	}
	switch a.cfg.UI.ColorScheme {
	case "dark", "light":
		return string(a.cfg.UI.ColorScheme)
	default:
		return "auto"
	}
}

// renderDiagnostics lists pass and resolution findings on stdout, one per line.
func (a *app) renderDiagnostics(res *workspace.Result) {
	for _, d := range res.Diagnostics {
		icon := warningIcon
		if d.Severity == workspace.SeverityError {
			icon = errorIcon
		}
		line := fmt.Sprintf("%s %s %s", icon, codeStyle.Render("["+d.Code+"]"), d.Message)
		if d.Path != "" && !strings.Contains(d.Message, d.Path) {
			line += " " + pathStyle.Render(d.Path)
		}
		fmt.Fprintln(a.stdout, line)
	}
	for _, d := range res.Report.Diagnostics {
		fmt.Fprintf(a.stdout, "%s %s %s\n", warningIcon, codeStyle.Render("["+d.Code+"]"), d.Message)
	}
}
