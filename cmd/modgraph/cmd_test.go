// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/modgraph/modgraph/internal/config"
	"github.com/modgraph/modgraph/internal/dag"
	"github.com/modgraph/modgraph/internal/issue"
	"github.com/modgraph/modgraph/internal/workspace"
	"github.com/modgraph/modgraph/pkg/depmap"
	"github.com/modgraph/modgraph/pkg/modgraph"
	"github.com/modgraph/modgraph/pkg/modinfo"
	"github.com/modgraph/modgraph/pkg/resolve"
	"github.com/modgraph/modgraph/pkg/version"
)

func TestActionable_Guides(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		err   error
		guide issue.Id
	}{
		{"cycle", fmt.Errorf("order: %w", &dag.CycleError{Cycle: []string{"A", "B", "A"}}), issue.DependencyCycleId},
		{"mapping", &depmap.MappingError{Module: "Core", Target: "Lib", Err: errors.New("min > max")}, issue.InvalidConstraintId},
		{"duplicate", &workspace.DuplicateModuleError{Name: "Core", Paths: []string{"a", "b"}}, issue.DuplicateModuleId},
		{"parse", &modinfo.ParseError{Module: "Core", Path: "modules/Core/module.txt", Cause: "bad"}, issue.MetadataParseFailedId},
		{"not found", &modinfo.NotFoundError{Module: "Core", Path: "modules/Core/module.txt"}, issue.MetadataNotFoundId},
		{"no modules", errNoModules, issue.NoModulesFoundId},
		{"pattern", fmt.Errorf("%q: %w", "[", workspace.ErrInvalidPattern), issue.NoModulesFoundId},
		{"unknown", errors.New("boom"), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			ae := actionable("order modules", tt.err)
			if ae.Guide != tt.guide {
				t.Errorf("Guide = %d, want %d", ae.Guide, tt.guide)
			}
			if !errors.Is(ae, tt.err) {
				t.Error("cause should be preserved")
			}
		})
	}
}

func TestActionable_KeepsExisting(t *testing.T) {
	t.Parallel()

	existing := issue.NewErrorContext().WithOperation("load configuration").Wrap(errors.New("x")).Build()
	if got := actionable("order modules", existing); got != existing {
		t.Errorf("actionable() replaced an existing ActionableError: %+v", got)
	}
}

func TestActionable_CycleSuggestion(t *testing.T) {
	t.Parallel()

	ae := actionable("order modules", &dag.CycleError{Cycle: []string{"A", "B", "C", "A"}})
	if !strings.Contains(strings.Join(ae.Suggestions, "\n"), "A -> B -> C -> A") {
		t.Errorf("suggestions should name the cycle: %v", ae.Suggestions)
	}
}

func testResult() *workspace.Result {
	mods := []modinfo.ModuleIdentity{
		{Name: "Core", Version: version.MustParse("1.0.0")},
		{Name: "Lib", Version: version.MustParse("2.0.0-SNAPSHOT"), Group: "org.example"},
	}
	results := []resolve.Result{{
		Spec:    depmap.Spec{Declarer: "Core", Namespace: "org.example", Name: "Lib", Constraint: "[2.0.0,)"},
		Outcome: resolve.OutcomeLocal,
		Version: version.MustParse("2.0.0-SNAPSHOT"),
	}}
	g := modgraph.Build(mods, results)
	order, err := modgraph.Order(g)
	if err != nil {
		panic(err)
	}
	return &workspace.Result{
		Graph:         g,
		Order:         order,
		Report:        resolve.Report{Results: results},
		EngineVersion: version.MustParse("5.1.0"),
	}
}

func TestWriteOrder(t *testing.T) {
	t.Parallel()

	tests := []struct {
		format   string
		versions bool
		want     []string
	}{
		{format: "text", want: []string{"Lib\nCore\n"}},
		{format: "text", versions: true, want: []string{"Lib@2.0.0-SNAPSHOT\nCore@1.0.0\n"}},
		{format: "json", want: []string{`"name": "Lib"`, `"group": "org.example"`, `"engine": "5.1.0"`}},
		{format: "toml", want: []string{"[[order]]", "name = ", "Lib", "5.1.0"}},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s/%v", tt.format, tt.versions), func(t *testing.T) {
			t.Parallel()

			var out bytes.Buffer
			a := newApp(&out, &bytes.Buffer{})
			if err := writeOrder(a, testResult(), tt.format, tt.versions); err != nil {
				t.Fatalf("writeOrder() error: %v", err)
			}
			for _, w := range tt.want {
				if !strings.Contains(out.String(), w) {
					t.Errorf("output missing %q:\n%s", w, out.String())
				}
			}
		})
	}

	if err := writeOrder(newApp(&bytes.Buffer{}, &bytes.Buffer{}), testResult(), "yaml", false); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestWriteDeps_Filter(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	a := newApp(&out, &bytes.Buffer{})
	res := testResult()

	if err := writeDeps(a, res.Report.Results, "text", resolve.OutcomeExternal); err != nil {
		t.Fatal(err)
	}
	if out.Len() != 0 {
		t.Errorf("external filter should hide local results:\n%s", out.String())
	}

	if err := writeDeps(a, res.Report.Results, "text", -1); err != nil {
		t.Fatal(err)
	}
	if want := "Core -> org.example:Lib [2.0.0,) required local 2.0.0-SNAPSHOT\n"; out.String() != want {
		t.Errorf("output = %q, want %q", out.String(), want)
	}
}

func TestParseOutcome(t *testing.T) {
	t.Parallel()

	for in, want := range map[string]resolve.Outcome{
		"":           -1,
		"local":      resolve.OutcomeLocal,
		"external":   resolve.OutcomeExternal,
		"unresolved": resolve.OutcomeUnresolved,
	} {
		got, err := parseOutcome(in)
		if err != nil || got != want {
			t.Errorf("parseOutcome(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := parseOutcome("remote"); err == nil {
		t.Error("expected error for unknown outcome")
	}
}

func TestExitError(t *testing.T) {
	t.Parallel()

	if got := (&ExitError{Code: 2}).Error(); got != "exit status 2" {
		t.Errorf("Error() = %q", got)
	}
	cause := errors.New("cause")
	if err := (&ExitError{Code: 1, Err: cause}); !errors.Is(err, cause) || err.Error() != "cause" {
		t.Errorf("unexpected ExitError behavior: %v", err)
	}
}

type stubProvider struct {
	cfg  *config.Config
	path string
	err  error
	got  config.LoadOptions
}

func (p *stubProvider) Load(_ context.Context, opts config.LoadOptions) (*config.Config, string, error) {
	p.got = opts
	return p.cfg, p.path, p.err
}

func TestApp_InitUsesProvider(t *testing.T) {
	t.Parallel()

	cfg := config.DefaultConfig()
	provider := &stubProvider{cfg: cfg, path: "/etc/modgraph/config.cue"}
	a := newApp(&bytes.Buffer{}, &bytes.Buffer{})
	a.provider = provider
	a.flags.configFile = "custom.cue"
	a.flags.root = "workspace"
	a.flags.lenient = true

	cmd := &cobra.Command{}
	cmd.SetContext(context.Background())
	if err := a.init(cmd); err != nil {
		t.Fatalf("init() unexpected error: %v", err)
	}
	if provider.got.ConfigFilePath != "custom.cue" || provider.got.BaseDir != "workspace" {
		t.Errorf("provider got %+v", provider.got)
	}
	if a.cfg != cfg || a.cfgPath != "/etc/modgraph/config.cue" {
		t.Errorf("app kept %p at %q, want the provider's config", a.cfg, a.cfgPath)
	}
	if cfg.Workspace.Root != "workspace" || !cfg.Resolve.LenientMapping {
		t.Errorf("flag overrides not applied: %+v", cfg)
	}
}

func TestApp_InitProviderError(t *testing.T) {
	t.Parallel()

	var stderr bytes.Buffer
	a := newApp(&bytes.Buffer{}, &stderr)
	a.provider = &stubProvider{err: errors.New("config.cue: bad syntax")}

	cmd := &cobra.Command{}
	cmd.SetContext(context.Background())
	var exitErr *ExitError
	if err := a.init(cmd); !errors.As(err, &exitErr) || exitErr.Code != ExitFailure {
		t.Fatalf("init() = %v, want exit status %d", err, ExitFailure)
	}
	if !strings.Contains(stderr.String(), "failed to load configuration") {
		t.Errorf("stderr = %q", stderr.String())
	}
}

func TestProblemGuides(t *testing.T) {
	t.Parallel()

	res := &workspace.Result{
		Diagnostics: []workspace.Diagnostic{
			{Severity: workspace.SeverityWarning, Code: workspace.CodeEngineConflict},
			{Severity: workspace.SeverityError, Code: workspace.CodeMetadataParseFailed},
			{Severity: workspace.SeverityError, Code: workspace.CodeMetadataParseFailed},
		},
		Report: resolve.Report{Results: []resolve.Result{{
			Spec:    depmap.Spec{Declarer: "Core", Name: "Missing"},
			Outcome: resolve.OutcomeUnresolved,
		}}},
	}

	want := []issue.Id{issue.EngineConflictId, issue.MetadataParseFailedId, issue.UnresolvedDependenciesId}
	if got := problemGuides(res); !slices.Equal(got, want) {
		t.Errorf("problemGuides() = %v, want %v", got, want)
	}
	if got := problemGuides(&workspace.Result{}); len(got) != 0 {
		t.Errorf("clean result should need no guide, got %v", got)
	}
}

func TestCheckFormat(t *testing.T) {
	t.Parallel()

	if err := checkFormat("json", "text", "json"); err != nil {
		t.Errorf("checkFormat(json) unexpected error: %v", err)
	}
	err := checkFormat("yaml", "text", "json")
	if err == nil || err.Error() != `unknown format "yaml" (valid: text, json)` {
		t.Errorf("checkFormat(yaml) = %v", err)
	}
}
