// SPDX-License-Identifier: MPL-2.0

package modinfo

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// maxCauseSegments bounds how much of a nested error chain a ParseError keeps.
const maxCauseSegments = 4

var (
	// ErrParse is the sentinel error wrapped by ParseError.
	ErrParse = errors.New("malformed module metadata")

	// ErrNotFound is the sentinel error wrapped by NotFoundError.
	ErrNotFound = errors.New("module metadata not found")

	// qualifiedTypeName matches "pkg.Type" or "org.example.FooException" style
	// segments that carry no meaning for an operator.
	qualifiedTypeName = regexp.MustCompile(`^\*?[A-Za-z_][\w/$-]*(\.[A-Za-z_][\w$]*)*\.[A-Z][\w$]*$`)
)

type (
	// ParseError reports a metadata file that could not be read into a Module.
	ParseError struct {
		// Module is the module directory name, or the declared id when known.
		Module string
		Path   string
		// Cause is the condensed, human-relevant cause text.
		Cause string
		Err   error
	}

	// NotFoundError reports a module directory without a metadata file.
	NotFoundError struct {
		Module string
		Path   string
	}
)

func newParseError(module, path string, err error) *ParseError {
	return &ParseError{
		Module: module,
		Path:   path,
		Cause:  CondenseCause(err.Error(), path),
		Err:    err,
	}
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("module %s: invalid metadata %s: %s", e.Module, e.Path, e.Cause)
}

// Unwrap returns ErrParse so callers can use errors.Is for programmatic detection.
func (e *ParseError) Unwrap() error { return ErrParse }

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("module %s: metadata file %s not found", e.Module, e.Path)
}

// Unwrap returns ErrNotFound so callers can use errors.Is for programmatic detection.
func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// CondenseCause trims an error message down to what an operator needs when
// hundreds of modules are checked at once. Each line is split into ": "
// segments; segments naming the file itself or a qualified type are dropped,
// repeated segments are removed, and only the last few are kept. Distinct
// lines are joined with "; ".
func CondenseCause(msg, path string) string {
	var lines []string
	seenLines := make(map[string]bool)

	for line := range strings.SplitSeq(msg, "\n") {
		var segments []string
		seen := make(map[string]bool)
		for seg := range strings.SplitSeq(line, ": ") {
			seg = strings.TrimSpace(seg)
			if seg == "" || seg == path || seen[seg] || seg == "validation failed:" || seg == "validation failed" {
				continue
			}
			if qualifiedTypeName.MatchString(seg) {
				continue
			}
			seen[seg] = true
			segments = append(segments, seg)
		}
		if len(segments) > maxCauseSegments {
			segments = segments[len(segments)-maxCauseSegments:]
		}
		condensed := strings.Join(segments, ": ")
		if condensed == "" || seenLines[condensed] {
			continue
		}
		seenLines[condensed] = true
		lines = append(lines, condensed)
	}

	if len(lines) == 0 {
		return strings.TrimSpace(msg)
	}
	return strings.Join(lines, "; ")
}
