// SPDX-License-Identifier: MPL-2.0

package modinfo

import "testing"

func TestCondenseCause(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		msg  string
		path string
		want string
	}{
		{
			name: "drops file path",
			msg:  "modules/A/module.txt: id: incomplete value string",
			path: "modules/A/module.txt",
			want: "id: incomplete value string",
		},
		{
			name: "drops qualified type names",
			msg:  "java.lang.IllegalStateException: semver.ErrInvalidSemVer: Invalid Semantic Version",
			want: "Invalid Semantic Version",
		},
		{
			name: "deduplicates segments",
			msg:  "bad version: bad version: bad version",
			want: "bad version",
		},
		{
			name: "keeps the tail",
			msg:  "a: b: c: d: e: f",
			want: "c: d: e: f",
		},
		{
			name: "multi-line validation output",
			msg:  "module.txt: validation failed:\n  id: incomplete value string\n  version: incomplete value string\n  id: incomplete value string",
			path: "module.txt",
			want: "id: incomplete value string; version: incomplete value string",
		},
		{
			name: "keeps lowercase dotted names",
			msg:  "open module.txt: permission denied",
			want: "open module.txt: permission denied",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := CondenseCause(tt.msg, tt.path); got != tt.want {
				t.Errorf("CondenseCause() = %q, want %q", got, tt.want)
			}
		})
	}
}
