// SPDX-License-Identifier: MPL-2.0

package version

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidRange is the sentinel error wrapped by InvalidRangeError.
var ErrInvalidRange = errors.New("invalid version range")

type (
	// Range is a version constraint: [Min,Max) when bounded, [Min,) otherwise.
	Range struct {
		// Min is the inclusive lower bound.
		Min Version
		// Max is the exclusive upper bound; only meaningful when Bounded is true.
		Max Version
		// Bounded is true when Max is set.
		Bounded bool
	}

	// InvalidRangeError is returned when a range's minimum exceeds its maximum,
	// or when a range expression cannot be parsed.
	InvalidRangeError struct {
		Min    Version
		Max    Version
		Expr   string
		Reason string
	}
)

// Error implements the error interface.
func (e *InvalidRangeError) Error() string {
	if e.Expr != "" {
		return fmt.Sprintf("invalid version range %q: %s", e.Expr, e.Reason)
	}
	return fmt.Sprintf("invalid version range: minimum %s is greater than maximum %s", e.Min, e.Max)
}

// Unwrap returns ErrInvalidRange so callers can use errors.Is for programmatic detection.
func (e *InvalidRangeError) Unwrap() error { return ErrInvalidRange }

// AtLeast returns the range [min,).
func AtLeast(minimum Version) Range {
	return Range{Min: minimum}
}

// Between returns the range [min,max). It fails when min > max.
// An empty range (min == max) is accepted.
func Between(minimum, maximum Version) (Range, error) {
	if Compare(minimum, maximum) > 0 {
		return Range{}, &InvalidRangeError{Min: minimum, Max: maximum}
	}
	return Range{Min: minimum, Max: maximum, Bounded: true}, nil
}

// Contains reports whether v satisfies the range.
//
// Snapshot policy:
//   - a snapshot whose triple equals a release minimum satisfies the minimum
//     (2.0.0-SNAPSHOT is in [2.0.0,)); a snapshot minimum is satisfied by the
//     same snapshot through ordinary precedence.
//   - a snapshot whose triple equals a release maximum is treated as that
//     maximum and is excluded (3.0.0-SNAPSHOT is not in [2.0.0,3.0.0)),
//     unless the minimum is itself a snapshot of that triple
//     (2.0.0-SNAPSHOT is in [2.0.0-SNAPSHOT,2.0.0)).
//
// An empty range contains nothing.
func (r Range) Contains(v Version) bool {
	if v.IsZero() || r.Min.IsZero() || r.IsEmpty() {
		return false
	}
	if Compare(v, r.Min) < 0 {
		if r.Min.IsSnapshot() || !v.IsSnapshot() || !v.SameCore(r.Min) {
			return false
		}
	}
	if !r.Bounded {
		return true
	}
	if Compare(v, r.Max) >= 0 {
		return false
	}
	if !r.Max.IsSnapshot() && v.IsSnapshot() && v.SameCore(r.Max) && !r.Min.SameCore(r.Max) {
		return false
	}
	return true
}

// IsEmpty reports whether no version can satisfy the range. It agrees with
// Contains: a range is empty exactly when its minimum is not below its
// maximum.
func (r Range) IsEmpty() bool {
	return r.Bounded && Compare(r.Min, r.Max) >= 0
}

// Intersect returns the range satisfied by versions in both r and o.
// The second result is false when the intersection is empty.
func (r Range) Intersect(o Range) (Range, bool) {
	out := Range{Min: r.Min}
	if Compare(o.Min, out.Min) > 0 {
		out.Min = o.Min
	}
	switch {
	case r.Bounded && o.Bounded:
		out.Bounded = true
		out.Max = r.Max
		if Compare(o.Max, out.Max) < 0 {
			out.Max = o.Max
		}
	case r.Bounded:
		out.Bounded, out.Max = true, r.Max
	case o.Bounded:
		out.Bounded, out.Max = true, o.Max
	}
	if out.Bounded && Compare(out.Min, out.Max) >= 0 {
		return out, false
	}
	return out, true
}

// String renders the range as a constraint expression: "[min,max)" or "[min,)".
func (r Range) String() string {
	if r.Bounded {
		return "[" + r.Min.String() + "," + r.Max.String() + ")"
	}
	return "[" + r.Min.String() + ",)"
}

// MarshalText implements encoding.TextMarshaler.
func (r Range) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// ParseRange parses a constraint expression produced by Range.String.
func ParseRange(expr string) (Range, error) {
	s := strings.TrimSpace(expr)
	if !strings.HasPrefix(s, "[") || !strings.HasSuffix(s, ")") {
		return Range{}, &InvalidRangeError{Expr: expr, Reason: `expected "[min,max)" or "[min,)"`}
	}
	lo, hi, found := strings.Cut(s[1:len(s)-1], ",")
	if !found {
		return Range{}, &InvalidRangeError{Expr: expr, Reason: "missing comma"}
	}
	minimum, err := Parse(lo)
	if err != nil {
		return Range{}, &InvalidRangeError{Expr: expr, Reason: err.Error()}
	}
	if strings.TrimSpace(hi) == "" {
		return AtLeast(minimum), nil
	}
	maximum, err := Parse(hi)
	if err != nil {
		return Range{}, &InvalidRangeError{Expr: expr, Reason: err.Error()}
	}
	return Between(minimum, maximum)
}

// MaxSatisfying returns the highest version in candidates that satisfies r.
//
// If multiple versions are equal, the first encountered wins.
func MaxSatisfying(r Range, candidates []Version) (Version, bool) {
	var best Version
	found := false
	for _, candidate := range candidates {
		if !r.Contains(candidate) {
			continue
		}
		if !found || Compare(candidate, best) > 0 {
			best = candidate
			found = true
		}
	}
	return best, found
}
