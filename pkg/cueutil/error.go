// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	stderrors "errors"
	"fmt"
	"strings"

	"cuelang.org/go/cue/errors"
)

// ValidationError is one schema violation inside a document.
type ValidationError struct {
	FilePath string
	// CUEPath is the field path in JSON-path notation, e.g. "dependencies[0].minVersion".
	CUEPath string
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.CUEPath != "" {
		return fmt.Sprintf("%s: %s: %s", e.FilePath, e.CUEPath, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.FilePath, e.Message)
}

// FormatError converts a CUE error into one message per violation, each
// prefixed with the field path:
//
//	module.txt: dependencies[0].minVersion: conflicting values 1 and string
//
// Errors that did not come from CUE are wrapped with the file path.
func FormatError(err error, filePath string) error {
	if err == nil {
		return nil
	}

	var cerr errors.Error
	if !stderrors.As(err, &cerr) {
		return fmt.Errorf("%s: %w", filePath, err)
	}

	violations := Violations(err, filePath)
	if len(violations) == 0 {
		return fmt.Errorf("%s: %w", filePath, err)
	}
	if len(violations) == 1 {
		return violations[0]
	}

	lines := make([]string, 0, len(violations))
	for _, v := range violations {
		if v.CUEPath != "" {
			lines = append(lines, v.CUEPath+": "+v.Message)
		} else {
			lines = append(lines, v.Message)
		}
	}
	return fmt.Errorf("%s: validation failed:\n  %s", filePath, strings.Join(lines, "\n  "))
}

// Violations splits a CUE error into its individual ValidationErrors.
// It returns nil when err carries no CUE errors.
func Violations(err error, filePath string) []*ValidationError {
	var cerr errors.Error
	if err == nil || !stderrors.As(err, &cerr) {
		return nil
	}
	cueErrors := errors.Errors(err)
	if len(cueErrors) == 0 {
		return nil
	}

	out := make([]*ValidationError, 0, len(cueErrors))
	seen := make(map[string]bool, len(cueErrors))
	for _, e := range cueErrors {
		path := formatPath(errors.Path(e))
		msg := e.Error()

		// CUE sometimes repeats the path in the message itself.
		if path != "" && strings.HasPrefix(msg, path) {
			msg = strings.TrimSpace(strings.TrimPrefix(strings.TrimPrefix(msg, path), ":"))
		}

		key := path + "\x00" + msg
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, &ValidationError{FilePath: filePath, CUEPath: path, Message: msg})
	}
	return out
}

// formatPath renders ["dependencies", "0", "id"] as "dependencies[0].id".
func formatPath(path []string) string {
	var b strings.Builder
	for i, part := range path {
		if i > 0 && isIndex(part) {
			b.WriteString("[" + part + "]")
			continue
		}
		if i > 0 {
			b.WriteByte('.')
		}
		b.WriteString(part)
	}
	return b.String()
}

func isIndex(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// CheckFileSize fails when data is larger than maxSize bytes.
func CheckFileSize(data []byte, maxSize int64, filename string) error {
	if int64(len(data)) > maxSize {
		return fmt.Errorf("%s: file size %d bytes exceeds maximum %d bytes",
			filename, len(data), maxSize)
	}
	return nil
}
