// SPDX-License-Identifier: MPL-2.0

package resolve

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/modgraph/modgraph/pkg/depmap"
	"github.com/modgraph/modgraph/pkg/modinfo"
	"github.com/modgraph/modgraph/pkg/version"
)

const (
	// OutcomeUnresolved means no local module or artifact satisfied the spec.
	OutcomeUnresolved Outcome = iota
	// OutcomeLocal means the target is a module built in the workspace.
	OutcomeLocal
	// OutcomeExternal means a published artifact satisfied the spec.
	OutcomeExternal
)

const (
	// SeverityInfo is used for unresolved optional dependencies.
	SeverityInfo Severity = "info"
	// SeverityWarning is used for unresolved required dependencies and local
	// modules outside the requested range.
	SeverityWarning Severity = "warning"
)

const (
	// CodeUnresolvedRequired marks a required dependency that did not resolve.
	CodeUnresolvedRequired = "unresolved_required"
	// CodeUnresolvedOptional marks an optional dependency that did not resolve.
	CodeUnresolvedOptional = "unresolved_optional"
	// CodeLocalVersionMismatch marks a local module whose version is outside the requested range.
	CodeLocalVersionMismatch = "local_version_mismatch"
)

// ErrNoMatchingVersion is the cause recorded when artifacts exist but none is in range.
var ErrNoMatchingVersion = errors.New("no published version satisfies the constraint")

type (
	// Outcome classifies how a spec was satisfied.
	Outcome int

	// Severity is a diagnostic level.
	Severity string

	// Result pairs a spec with its outcome.
	Result struct {
		Spec    depmap.Spec
		Outcome Outcome
		// Version is the local module's version or the selected artifact version.
		Version version.Version
		// Backend names the backend that supplied an external artifact.
		Backend string
		// Err is the failure cause of an unresolved spec.
		Err error
	}

	// Diagnostic is a non-fatal resolution finding.
	Diagnostic struct {
		Severity   Severity
		Code       string
		Module     string
		Target     string
		Constraint string
		Message    string
		Cause      error
	}

	// Report is the outcome of one Resolve call. Results keep the order of
	// the input specs.
	Report struct {
		Results     []Result
		Diagnostics []Diagnostic
	}

	// Resolver classifies specs against the workspace modules and a list of
	// backends consulted in order.
	Resolver struct {
		backends []Backend
		logger   *log.Logger
	}
)

// String returns the outcome name.
func (o Outcome) String() string {
	switch o {
	case OutcomeLocal:
		return "local"
	case OutcomeExternal:
		return "external"
	default:
		return "unresolved"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (o Outcome) MarshalText() ([]byte, error) { return []byte(o.String()), nil }

// New creates a Resolver. A nil logger discards output.
func New(logger *log.Logger, backends ...Backend) *Resolver {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Resolver{backends: backends, logger: logger}
}

// Resolve classifies every spec. It never fails as a whole: problems are
// recorded on the individual results and as diagnostics.
//
// A spec whose target is a workspace module always resolves locally; a
// warning is added when that module's version is outside the spec's range.
// Otherwise the highest satisfying version across all backends wins, earlier
// backends winning ties.
func (r *Resolver) Resolve(ctx context.Context, local []modinfo.ModuleIdentity, specs []depmap.Spec) Report {
	byName := make(map[string]modinfo.ModuleIdentity, len(local))
	for _, id := range local {
		byName[modinfo.Key(id.Name)] = id
	}

	report := Report{Results: make([]Result, 0, len(specs))}
	for _, spec := range specs {
		res := Result{Spec: spec}

		if mod, ok := byName[modinfo.Key(spec.Name)]; ok {
			res.Outcome = OutcomeLocal
			res.Version = mod.Version
			if !mod.Version.IsZero() && !spec.Range.Contains(mod.Version) {
				report.add(r.logger, Diagnostic{
					Severity:   SeverityWarning,
					Code:       CodeLocalVersionMismatch,
					Module:     spec.Declarer,
					Target:     spec.Name,
					Constraint: spec.Constraint,
					Message:    fmt.Sprintf("workspace module %s does not satisfy %s; using it anyway", mod, spec.Constraint),
				})
			}
			report.Results = append(report.Results, res)
			continue
		}

		r.resolveExternal(ctx, &res)
		if res.Outcome == OutcomeUnresolved {
			report.add(r.logger, unresolvedDiagnostic(res))
		}
		report.Results = append(report.Results, res)
	}
	return report
}

func (r *Resolver) resolveExternal(ctx context.Context, res *Result) {
	if len(r.backends) == 0 {
		res.Err = fmt.Errorf("%s is not a workspace module and no artifact backends are configured: %w",
			res.Spec.Name, ErrArtifactNotFound)
		return
	}

	var (
		errs  []error
		found bool
	)
	for _, b := range r.backends {
		versions, err := b.Versions(ctx, res.Spec.Namespace, res.Spec.Name)
		if err != nil {
			r.logger.Debug("artifact lookup failed", "backend", b.Name(), "artifact", res.Spec.Name, "err", err)
			errs = append(errs, fmt.Errorf("%s: %w", b.Name(), err))
			continue
		}
		best, ok := version.MaxSatisfying(res.Spec.Range, versions)
		if !ok {
			errs = append(errs, fmt.Errorf("%s: %w", b.Name(), ErrNoMatchingVersion))
			continue
		}
		if !found || version.Compare(best, res.Version) > 0 {
			res.Version = best
			res.Backend = b.Name()
			found = true
		}
	}

	if found {
		res.Outcome = OutcomeExternal
		return
	}
	res.Err = errors.Join(errs...)
}

func unresolvedDiagnostic(res Result) Diagnostic {
	d := Diagnostic{
		Severity:   SeverityWarning,
		Code:       CodeUnresolvedRequired,
		Module:     res.Spec.Declarer,
		Target:     res.Spec.Name,
		Constraint: res.Spec.Constraint,
		Message:    fmt.Sprintf("%s requires %s %s, which could not be resolved", res.Spec.Declarer, res.Spec.Name, res.Spec.Constraint),
		Cause:      res.Err,
	}
	if res.Spec.Optional {
		d.Severity = SeverityInfo
		d.Code = CodeUnresolvedOptional
		d.Message = fmt.Sprintf("optional dependency %s %s of %s is not available", res.Spec.Name, res.Spec.Constraint, res.Spec.Declarer)
	}
	return d
}

func (rep *Report) add(logger *log.Logger, d Diagnostic) {
	rep.Diagnostics = append(rep.Diagnostics, d)
	kv := []any{"module", d.Module, "target", d.Target, "constraint", d.Constraint}
	if d.Cause != nil {
		kv = append(kv, "cause", d.Cause)
	}
	if d.Severity == SeverityWarning {
		logger.Warn(d.Message, kv...)
	} else {
		logger.Info(d.Message, kv...)
	}
}

// Filter returns the results with outcome o, in input order.
func (rep Report) Filter(o Outcome) []Result {
	var out []Result
	for _, res := range rep.Results {
		if res.Outcome == o {
			out = append(out, res)
		}
	}
	return out
}

// UnresolvedRequired returns the required specs that did not resolve. A
// build consuming this report should fail when the list is non-empty.
func (rep Report) UnresolvedRequired() []Result {
	var out []Result
	for _, res := range rep.Filter(OutcomeUnresolved) {
		if !res.Spec.Optional {
			out = append(out, res)
		}
	}
	return out
}

// Error implements the error interface so a Diagnostic can be returned or
// logged like one.
func (d Diagnostic) Error() string {
	if d.Cause != nil {
		return d.Message + ": " + d.Cause.Error()
	}
	return d.Message
}
