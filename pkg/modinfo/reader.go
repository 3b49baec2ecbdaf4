// SPDX-License-Identifier: MPL-2.0

package modinfo

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	"github.com/modgraph/modgraph/pkg/cueutil"
	"github.com/modgraph/modgraph/pkg/version"
)

//go:embed modinfo_schema.cue
var schema []byte

type (
	rawModule struct {
		ID             string          `json:"id"`
		Version        string          `json:"version"`
		Group          string          `json:"group,omitempty"`
		DisplayName    any             `json:"displayName,omitempty"`
		Description    any             `json:"description,omitempty"`
		Author         string          `json:"author,omitempty"`
		ServerSideOnly bool            `json:"serverSideOnly,omitempty"`
		IsGameplay     bool            `json:"isGameplay,omitempty"`
		Dependencies   []rawDependency `json:"dependencies,omitempty"`
	}

	rawDependency struct {
		ID         string `json:"id"`
		MinVersion string `json:"minVersion"`
		MaxVersion string `json:"maxVersion,omitempty"`
		Optional   bool   `json:"optional,omitempty"`
	}
)

// ParseBytes parses metadata content. path is used for error messages and to
// name the module in errors before its id is known; it may be empty.
func ParseBytes(data []byte, path string) (*Module, error) {
	moduleName := moduleNameFromPath(path)
	filename := path
	if filename == "" {
		filename = DefaultFileName
	}

	raw, err := cueutil.ParseAndDecode[rawModule](schema, data, "#Module", cueutil.WithFilename(filename))
	if err != nil {
		return nil, newParseError(moduleName, filename, err)
	}

	v, err := version.Parse(raw.Version)
	if err != nil {
		return nil, newParseError(raw.ID, filename, fmt.Errorf("version: %w", err))
	}

	m := &Module{
		Identity: ModuleIdentity{
			Name:    raw.ID,
			Version: v,
			Group:   raw.Group,
		},
		DisplayName:    localized(raw.DisplayName),
		Description:    localized(raw.Description),
		Author:         raw.Author,
		ServerSideOnly: raw.ServerSideOnly,
		IsGameplay:     raw.IsGameplay,
		Dependencies:   make([]Declaration, 0, len(raw.Dependencies)),
		Path:           path,
	}

	for i, dep := range raw.Dependencies {
		decl, err := dep.toDeclaration()
		if err != nil {
			return nil, newParseError(raw.ID, filename, fmt.Errorf("dependencies[%d]: %w", i, err))
		}
		m.Dependencies = append(m.Dependencies, decl)
	}

	return m, nil
}

func (d rawDependency) toDeclaration() (Declaration, error) {
	minimum, err := version.Parse(d.MinVersion)
	if err != nil {
		return Declaration{}, fmt.Errorf("minVersion: %w", err)
	}
	decl := Declaration{ID: d.ID, MinVersion: minimum, Optional: d.Optional}
	if d.MaxVersion != "" {
		maximum, err := version.Parse(d.MaxVersion)
		if err != nil {
			return Declaration{}, fmt.Errorf("maxVersion: %w", err)
		}
		decl.MaxVersion = maximum
	}
	return decl, nil
}

// ParseFile reads and parses the metadata file at path.
func ParseFile(path string) (*Module, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &NotFoundError{Module: moduleNameFromPath(path), Path: path}
		}
		return nil, newParseError(moduleNameFromPath(path), path, err)
	}
	return ParseBytes(data, path)
}

// ParseDir parses fileName inside the module directory dir. An empty fileName
// means DefaultFileName.
func ParseDir(dir, fileName string) (*Module, error) {
	if fileName == "" {
		fileName = DefaultFileName
	}
	return ParseFile(filepath.Join(dir, fileName))
}

// moduleNameFromPath names a module by its directory, which is how operators
// find it in a workspace.
func moduleNameFromPath(path string) string {
	if path == "" {
		return "<unknown>"
	}
	dir := filepath.Base(filepath.Dir(path))
	if dir == "." || dir == string(filepath.Separator) {
		return filepath.Base(path)
	}
	return dir
}

// localized flattens a plain or per-locale text value, preferring English.
func localized(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case map[string]any:
		if en, ok := t["en"].(string); ok {
			return en
		}
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		for _, k := range keys {
			if s, ok := t[k].(string); ok {
				return s
			}
		}
	}
	return ""
}
