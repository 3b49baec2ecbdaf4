// SPDX-License-Identifier: MPL-2.0

package workspace

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/modgraph/modgraph/internal/dag"
	"github.com/modgraph/modgraph/internal/metrics"
	"github.com/modgraph/modgraph/pkg/depmap"
	"github.com/modgraph/modgraph/pkg/modgraph"
	"github.com/modgraph/modgraph/pkg/modinfo"
	"github.com/modgraph/modgraph/pkg/resolve"
	"github.com/modgraph/modgraph/pkg/version"
)

const (
	// SeverityWarning marks a problem that does not stop the pass.
	SeverityWarning Severity = "warning"
	// SeverityError marks a module that was dropped from the pass.
	SeverityError Severity = "error"
)

// Diagnostic codes.
const (
	CodeMetadataParseFailed = "metadata_parse_failed"
	CodeMetadataNotFound    = "metadata_not_found"
	CodeMappingFailed       = "mapping_failed"
	CodeEngineConflict      = "engine_conflict"
)

// ErrDuplicateModule is the sentinel error wrapped by DuplicateModuleError.
var ErrDuplicateModule = errors.New("duplicate module name")

type (
	// Severity is a diagnostic level.
	Severity string

	// Diagnostic is a non-fatal finding of a pass. Resolution findings live in
	// Result.Report instead.
	Diagnostic struct {
		Severity Severity
		Code     string
		Module   string
		Message  string
		Path     string
		Cause    error
	}

	// DuplicateModuleError reports two module directories declaring the same id.
	DuplicateModuleError struct {
		Name  string
		Paths []string
	}

	// Options configures one pass.
	Options struct {
		// Root is the workspace directory. Defaults to ".".
		Root string
		// Patterns are discovery globs relative to Root. Defaults to DefaultPatterns.
		Patterns []string
		// Dirs, when set, replaces discovery with an explicit module directory list.
		Dirs []string
		// MetadataFile defaults to modinfo.DefaultFileName.
		MetadataFile string
		// Parallelism bounds concurrent metadata reads. Defaults to GOMAXPROCS.
		Parallelism int
		Mapper      depmap.Mapper
		Backends    []resolve.Backend
		// LenientMapping drops invalid declarations with a diagnostic instead of
		// failing the pass.
		LenientMapping bool
		// EngineVersions are the available engine versions to select from.
		EngineVersions []version.Version
		Logger         *log.Logger
		Metrics        *metrics.Recorder
	}

	// Result is everything one pass produced.
	Result struct {
		Modules     []*modinfo.Module
		Specs       []depmap.Spec
		Engine      []depmap.EngineRequirement
		EngineRange version.Range
		// Engine version selected from Options.EngineVersions; zero if none fits.
		EngineVersion version.Version
		Report        resolve.Report
		Graph         *modgraph.Graph
		Order         modgraph.BuildOrder
		Diagnostics   []Diagnostic
	}
)

// Error implements the error interface.
func (e *DuplicateModuleError) Error() string {
	return fmt.Sprintf("module %q is declared more than once: %s", e.Name, strings.Join(e.Paths, ", "))
}

// Unwrap returns ErrDuplicateModule so callers can use errors.Is for programmatic detection.
func (e *DuplicateModuleError) Unwrap() error { return ErrDuplicateModule }

// Identities returns the identities of the parsed modules in discovery order.
func (r *Result) Identities() []modinfo.ModuleIdentity {
	out := make([]modinfo.ModuleIdentity, len(r.Modules))
	for i, m := range r.Modules {
		out[i] = m.Identity
	}
	return out
}

// HasProblems reports whether the pass left anything an operator must fix:
// dropped modules, unresolved required dependencies or engine conflicts.
func (r *Result) HasProblems() bool {
	for _, d := range r.Diagnostics {
		if d.Severity == SeverityError || d.Code == CodeEngineConflict {
			return true
		}
	}
	return len(r.Report.UnresolvedRequired()) > 0
}

// Run executes one pass. Metadata errors drop the affected module with a
// diagnostic. Duplicate module names, mapping errors (unless
// LenientMapping) and dependency cycles fail the pass. On a cycle the
// returned Result still carries the graph so it can be rendered.
func Run(ctx context.Context, opts Options) (*Result, error) {
	start := time.Now()
	defer opts.Metrics.PassDuration(start)

	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	dirs := opts.Dirs
	if len(dirs) == 0 {
		root := opts.Root
		if root == "" {
			root = "."
		}
		var err error
		if dirs, err = Discover(root, opts.Patterns, opts.MetadataFile); err != nil {
			return nil, err
		}
	}
	logger.Debug("discovered modules", "count", len(dirs))

	res := &Result{}
	modules, diags, err := readAll(ctx, dirs, opts)
	if err != nil {
		return nil, err
	}
	res.Diagnostics = append(res.Diagnostics, diags...)
	for _, d := range diags {
		logger.Warn(d.Message, "module", d.Module, "path", d.Path)
	}

	if err := checkDuplicates(modules); err != nil {
		return nil, err
	}
	res.Modules = modules

	mapped, err := opts.Mapper.MapAll(modules)
	if err != nil {
		if !opts.LenientMapping {
			return nil, err
		}
		res.Diagnostics = append(res.Diagnostics, mappingDiagnostics(err, logger)...)
	}
	res.Specs = mapped.Specs
	res.Engine = mapped.Engine

	res.EngineRange, err = depmap.EngineRange(mapped.Engine)
	if err != nil {
		logger.Warn("engine requirements conflict", "err", err)
		res.Diagnostics = append(res.Diagnostics, Diagnostic{
			Severity: SeverityWarning,
			Code:     CodeEngineConflict,
			Message:  err.Error(),
			Cause:    err,
		})
	} else if !res.EngineRange.Min.IsZero() && len(opts.EngineVersions) > 0 {
		if v, ok := depmap.SelectEngine(res.EngineRange, opts.EngineVersions); ok {
			res.EngineVersion = v
			logger.Debug("selected engine", "version", v, "range", res.EngineRange)
		}
	}

	identities := res.Identities()
	res.Report = resolve.New(logger, opts.Backends...).Resolve(ctx, identities, res.Specs)
	for _, r := range res.Report.Results {
		opts.Metrics.DependencyResolved(r.Outcome.String())
	}
	opts.Metrics.UnresolvedRequired(len(res.Report.UnresolvedRequired()))

	res.Graph = modgraph.Build(identities, res.Report.Results, modgraph.WithEngineID(opts.Mapper.EngineID))
	opts.Metrics.Graph(res.Graph.Len(), res.Graph.EdgeCount())

	res.Order, err = modgraph.Order(res.Graph)
	var cycleErr *dag.CycleError
	opts.Metrics.Cycle(errors.As(err, &cycleErr))
	if err != nil {
		return res, err
	}

	logger.Info("resolution pass complete",
		"modules", len(res.Modules),
		"edges", res.Graph.EdgeCount(),
		"unresolved_required", len(res.Report.UnresolvedRequired()),
		"duration", time.Since(start).Round(time.Millisecond))
	return res, nil
}

// readAll parses every module directory concurrently. The returned modules
// keep the order of dirs.
func readAll(ctx context.Context, dirs []string, opts Options) ([]*modinfo.Module, []Diagnostic, error) {
	parallelism := opts.Parallelism
	if parallelism <= 0 {
		parallelism = runtime.GOMAXPROCS(0)
	}

	parsed := make([]*modinfo.Module, len(dirs))
	failures := make([]error, len(dirs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(parallelism)
	for i, dir := range dirs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			parsed[i], failures[i] = modinfo.ParseDir(dir, opts.MetadataFile)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, fmt.Errorf("read module metadata: %w", err)
	}

	var (
		modules []*modinfo.Module
		diags   []Diagnostic
	)
	for i, err := range failures {
		if err == nil {
			opts.Metrics.ModuleRead("ok")
			modules = append(modules, parsed[i])
			continue
		}
		diags = append(diags, metadataDiagnostic(err))
		if errors.Is(err, modinfo.ErrNotFound) {
			opts.Metrics.ModuleRead("not_found")
		} else {
			opts.Metrics.ModuleRead("parse_error")
		}
	}
	return modules, diags, nil
}

func metadataDiagnostic(err error) Diagnostic {
	d := Diagnostic{Severity: SeverityError, Code: CodeMetadataParseFailed, Message: err.Error(), Cause: err}
	var pe *modinfo.ParseError
	var nf *modinfo.NotFoundError
	switch {
	case errors.As(err, &pe):
		d.Module, d.Path = pe.Module, pe.Path
	case errors.As(err, &nf):
		d.Code = CodeMetadataNotFound
		d.Module, d.Path = nf.Module, nf.Path
	}
	return d
}

func checkDuplicates(modules []*modinfo.Module) error {
	paths := make(map[string][]string)
	first := make(map[string]string)
	var order []string
	for _, m := range modules {
		key := modinfo.Key(m.Name())
		if _, ok := paths[key]; !ok {
			order = append(order, key)
			first[key] = m.Name()
		}
		paths[key] = append(paths[key], m.Path)
	}
	for _, key := range order {
		if len(paths[key]) > 1 {
			return &DuplicateModuleError{Name: first[key], Paths: paths[key]}
		}
	}
	return nil
}

// mappingDiagnostics unpacks the joined error of depmap.Mapper.MapAll.
func mappingDiagnostics(err error, logger *log.Logger) []Diagnostic {
	var diags []Diagnostic
	for _, leaf := range flatten(err) {
		d := Diagnostic{Severity: SeverityError, Code: CodeMappingFailed, Message: leaf.Error(), Cause: leaf}
		var me *depmap.MappingError
		if errors.As(leaf, &me) {
			d.Module = me.Module
		}
		logger.Warn("dropped invalid dependency declaration", "module", d.Module, "err", leaf)
		diags = append(diags, d)
	}
	return diags
}

func flatten(err error) []error {
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		var out []error
		for _, e := range joined.Unwrap() {
			out = append(out, flatten(e)...)
		}
		return out
	}
	return []error{err}
}
