// SPDX-License-Identifier: MPL-2.0

package depmap

import (
	"errors"
	"fmt"
	"strings"

	"github.com/modgraph/modgraph/pkg/version"
)

// ErrEngineConflict is the sentinel error wrapped by EngineConflictError.
var ErrEngineConflict = errors.New("conflicting engine requirements")

// EngineConflictError reports engine requirements that no single engine
// version can satisfy.
type EngineConflictError struct {
	Requirements []EngineRequirement
}

// Error implements the error interface.
func (e *EngineConflictError) Error() string {
	parts := make([]string, 0, len(e.Requirements))
	for _, req := range e.Requirements {
		parts = append(parts, req.Declarer+" "+req.Constraint)
	}
	return fmt.Sprintf("no engine version satisfies all modules: %s", strings.Join(parts, ", "))
}

// Unwrap returns ErrEngineConflict so callers can use errors.Is for programmatic detection.
func (e *EngineConflictError) Unwrap() error { return ErrEngineConflict }

// EngineRange intersects all engine requirements. It returns the zero Range
// when reqs is empty.
func EngineRange(reqs []EngineRequirement) (version.Range, error) {
	if len(reqs) == 0 {
		return version.Range{}, nil
	}
	out := reqs[0].Range
	for _, req := range reqs[1:] {
		var ok bool
		if out, ok = out.Intersect(req.Range); !ok {
			return version.Range{}, &EngineConflictError{Requirements: reqs}
		}
	}
	if out.IsEmpty() {
		return version.Range{}, &EngineConflictError{Requirements: reqs}
	}
	return out, nil
}

// SelectEngine picks the newest candidate engine version inside r.
func SelectEngine(r version.Range, candidates []version.Version) (version.Version, bool) {
	return version.MaxSatisfying(r, candidates)
}
