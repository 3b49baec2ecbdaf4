// SPDX-License-Identifier: MPL-2.0

package resolve

import (
	"context"
	_ "embed"
	"fmt"
	"os"

	"github.com/modgraph/modgraph/pkg/cueutil"
	"github.com/modgraph/modgraph/pkg/version"
)

//go:embed index_schema.cue
var indexSchema []byte

type (
	rawIndex struct {
		Artifacts []rawArtifact `json:"artifacts"`
	}

	rawArtifact struct {
		Group    string   `json:"group,omitempty"`
		Name     string   `json:"name"`
		Versions []string `json:"versions"`
	}

	// IndexBackend answers lookups from a repository index file, a JSON or CUE
	// document listing the published versions of each artifact:
	//
	//	{"artifacts": [{"group": "org.terasology.modules", "name": "Core", "versions": ["1.0.0"]}]}
	//
	// Artifacts without a group match any namespace.
	IndexBackend struct {
		path    string
		grouped map[string][]version.Version
		loose   map[string][]version.Version
	}
)

// LoadIndex reads an index file.
func LoadIndex(path string) (*IndexBackend, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read repository index: %w", err)
	}
	return ParseIndex(data, path)
}

// ParseIndex parses index content; path is used for error messages.
func ParseIndex(data []byte, path string) (*IndexBackend, error) {
	doc, err := cueutil.ParseAndDecode[rawIndex](indexSchema, data, "#Index", cueutil.WithFilename(path))
	if err != nil {
		return nil, err
	}

	idx := &IndexBackend{
		path:    path,
		grouped: make(map[string][]version.Version),
		loose:   make(map[string][]version.Version),
	}
	for i, a := range doc.Artifacts {
		versions := make([]version.Version, 0, len(a.Versions))
		for j, raw := range a.Versions {
			v, err := version.Parse(raw)
			if err != nil {
				return nil, fmt.Errorf("%s: artifacts[%d].versions[%d]: %w", path, i, j, err)
			}
			versions = append(versions, v)
		}
		if a.Group == "" {
			idx.loose[a.Name] = append(idx.loose[a.Name], versions...)
		} else {
			key := a.Group + ":" + a.Name
			idx.grouped[key] = append(idx.grouped[key], versions...)
		}
	}
	return idx, nil
}

// Name implements Backend.
func (x *IndexBackend) Name() string { return "index:" + x.path }

// Versions implements Backend.
func (x *IndexBackend) Versions(ctx context.Context, namespace, name string) ([]version.Version, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	grouped, okGrouped := x.grouped[namespace+":"+name]
	loose, okLoose := x.loose[name]
	if !okGrouped && !okLoose {
		return nil, fmt.Errorf("%s:%s: %w", namespace, name, ErrArtifactNotFound)
	}
	out := make([]version.Version, 0, len(grouped)+len(loose))
	out = append(out, grouped...)
	return append(out, loose...), nil
}
