// SPDX-License-Identifier: MPL-2.0

package version

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	mm "github.com/Masterminds/semver/v3"
)

// SnapshotQualifier is the conventional pre-release qualifier for development builds.
const SnapshotQualifier = "SNAPSHOT"

// ErrInvalidVersion is the sentinel error wrapped by InvalidVersionError.
var ErrInvalidVersion = errors.New("invalid version")

type (
	// Version is a semantic version with an optional snapshot qualifier.
	// The zero value is not a valid version; check with IsZero.
	Version struct {
		v *mm.Version
	}

	// InvalidVersionError is returned when a version string is not a
	// major.minor.patch triple with an optional pre-release qualifier.
	InvalidVersionError struct {
		Value string
		Err   error
	}
)

// Error implements the error interface.
func (e *InvalidVersionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid version %q: %v", e.Value, e.Err)
	}
	return fmt.Sprintf("invalid version %q", e.Value)
}

// Unwrap returns ErrInvalidVersion so callers can use errors.Is for programmatic detection.
func (e *InvalidVersionError) Unwrap() error { return ErrInvalidVersion }

// Parse parses a strict major.minor.patch version, optionally followed by a
// pre-release qualifier ("2.0.0-SNAPSHOT"). Build metadata is accepted and
// ignored for precedence.
func Parse(raw string) (Version, error) {
	s := strings.TrimSpace(raw)
	v, err := mm.StrictNewVersion(s)
	if err != nil {
		return Version{}, &InvalidVersionError{Value: raw, Err: err}
	}
	return Version{v: v}, nil
}

// MustParse is like Parse but panics on error. Intended for tests and constants.
func MustParse(raw string) Version {
	v, err := Parse(raw)
	if err != nil {
		panic(err)
	}
	return v
}

// New builds a version from its parts. An empty qualifier yields a release version.
func New(major, minor, patch uint64, qualifier string) Version {
	return Version{v: mm.New(major, minor, patch, qualifier, "")}
}

// IsZero reports whether v is the zero Version.
func (v Version) IsZero() bool { return v.v == nil }

// Major returns the major component.
func (v Version) Major() uint64 {
	if v.v == nil {
		return 0
	}
	return v.v.Major()
}

// Minor returns the minor component.
func (v Version) Minor() uint64 {
	if v.v == nil {
		return 0
	}
	return v.v.Minor()
}

// Patch returns the patch component.
func (v Version) Patch() uint64 {
	if v.v == nil {
		return 0
	}
	return v.v.Patch()
}

// Qualifier returns the pre-release qualifier, or "" for a release.
func (v Version) Qualifier() string {
	if v.v == nil {
		return ""
	}
	return v.v.Prerelease()
}

// IsSnapshot reports whether v carries a pre-release qualifier.
func (v Version) IsSnapshot() bool { return v.Qualifier() != "" }

// Core returns v without its qualifier.
func (v Version) Core() Version {
	if v.v == nil {
		return v
	}
	return New(v.Major(), v.Minor(), v.Patch(), "")
}

// Snapshot returns v's triple with the SNAPSHOT qualifier.
func (v Version) Snapshot() Version {
	if v.v == nil {
		return v
	}
	return New(v.Major(), v.Minor(), v.Patch(), SnapshotQualifier)
}

// SameCore reports whether v and o share major, minor and patch.
func (v Version) SameCore(o Version) bool {
	if v.v == nil || o.v == nil {
		return v.v == nil && o.v == nil
	}
	return v.Major() == o.Major() && v.Minor() == o.Minor() && v.Patch() == o.Patch()
}

// Compare compares v with o using semantic version precedence.
func (v Version) Compare(o Version) int { return Compare(v, o) }

// Equal reports whether v and o have the same precedence.
func (v Version) Equal(o Version) bool { return Compare(v, o) == 0 }

// String returns the canonical form of the version.
func (v Version) String() string {
	if v.v == nil {
		return ""
	}
	return v.v.String()
}

// MarshalText implements encoding.TextMarshaler.
func (v Version) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (v *Version) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// Compare compares a and b, returning:
// -1 if a < b
//
//	0 if a == b
//	1 if a > b
//
// The zero Version sorts before every valid version.
func Compare(a, b Version) int {
	if a.v == nil && b.v == nil {
		return 0
	}
	if a.v == nil {
		return -1
	}
	if b.v == nil {
		return 1
	}
	return a.v.Compare(b.v)
}

// SortDescending sorts versions newest first. Equal versions keep their relative order.
func SortDescending(versions []Version) {
	slices.SortStableFunc(versions, func(a, b Version) int {
		return Compare(b, a)
	})
}
