// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"errors"
	"strings"
	"testing"

	"cuelang.org/go/cue/cuecontext"
)

func TestFormatError(t *testing.T) {
	t.Parallel()

	t.Run("nil error returns nil", func(t *testing.T) {
		t.Parallel()

		if err := FormatError(nil, "module.txt"); err != nil {
			t.Errorf("expected nil, got %v", err)
		}
	})

	t.Run("non-CUE error is wrapped with filepath", func(t *testing.T) {
		t.Parallel()

		original := errors.New("read failed")
		err := FormatError(original, "module.txt")
		if err == nil {
			t.Fatal("expected error")
		}
		if !strings.Contains(err.Error(), "module.txt") {
			t.Errorf("error should contain filepath, got: %v", err)
		}
		if !errors.Is(err, original) {
			t.Errorf("error should wrap the original, got: %v", err)
		}
		if v := Violations(original, "module.txt"); v != nil {
			t.Errorf("Violations() of a non-CUE error = %v, want nil", v)
		}
	})

	t.Run("CUE conflict keeps the field path", func(t *testing.T) {
		t.Parallel()

		cueErr := cuecontext.New().CompileString("id: 1\nid: 2").Validate()
		if cueErr == nil {
			t.Fatal("expected a conflict")
		}
		err := FormatError(cueErr, "module.txt")
		var ve *ValidationError
		if !errors.As(err, &ve) {
			t.Fatalf("expected *ValidationError, got %T: %v", err, err)
		}
		if ve.CUEPath != "id" || ve.FilePath != "module.txt" {
			t.Errorf("ValidationError = %+v, want path id in module.txt", ve)
		}
	})
}

func TestFormatPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		path     []string
		expected string
	}{
		{name: "empty path", path: nil, expected: ""},
		{name: "single element", path: []string{"id"}, expected: "id"},
		{name: "nested path", path: []string{"resolve", "engine_id"}, expected: "resolve.engine_id"},
		{name: "array index", path: []string{"dependencies", "0", "minVersion"}, expected: "dependencies[0].minVersion"},
		{name: "leading numeric", path: []string{"0", "id"}, expected: "0.id"},
		{name: "nested arrays", path: []string{"artifacts", "2", "versions", "1"}, expected: "artifacts[2].versions[1]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := formatPath(tt.path); got != tt.expected {
				t.Errorf("formatPath(%v) = %q, want %q", tt.path, got, tt.expected)
			}
		})
	}
}

func TestCheckFileSize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		size    int
		wantErr bool
	}{
		{name: "empty", size: 0},
		{name: "within limit", size: 10},
		{name: "exact limit", size: 100},
		{name: "over limit", size: 101, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := CheckFileSize(make([]byte, tt.size), 100, "module.txt")
			if (err != nil) != tt.wantErr {
				t.Fatalf("CheckFileSize() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !strings.Contains(err.Error(), "101") {
				t.Errorf("error should contain actual size, got: %v", err)
			}
		})
	}
}

func TestValidationError(t *testing.T) {
	t.Parallel()

	withPath := &ValidationError{FilePath: "module.txt", CUEPath: "dependencies[0].id", Message: "incomplete value string"}
	if got, want := withPath.Error(), "module.txt: dependencies[0].id: incomplete value string"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}

	withoutPath := &ValidationError{FilePath: "module.txt", Message: "syntax error"}
	if got, want := withoutPath.Error(), "module.txt: syntax error"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
