// SPDX-License-Identifier: MPL-2.0

// Package version provides module versions and version ranges.
//
// A [Version] is a semantic triple (major.minor.patch) with an optional
// pre-release qualifier; any qualifier (conventionally "SNAPSHOT") marks the
// version as a snapshot. Parsing and precedence are delegated to
// github.com/Masterminds/semver/v3.
//
// A [Range] is either a closed-open interval [min,max) or an interval that is
// unbounded above, [min,). Ranges apply the snapshot policy described on
// [Range.Contains]: a snapshot of exactly the stated minimum satisfies the
// minimum, and a snapshot of exactly the exclusive maximum does not slip under
// it.
package version
