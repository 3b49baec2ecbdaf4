// SPDX-License-Identifier: MPL-2.0

package resolve

import (
	"context"
	"errors"
	"fmt"

	"github.com/modgraph/modgraph/pkg/version"
)

// ErrArtifactNotFound is returned by backends that do not know an artifact.
var ErrArtifactNotFound = errors.New("artifact not found")

type (
	// Backend lists the published versions of an artifact.
	Backend interface {
		// Name identifies the backend in results and diagnostics.
		Name() string
		// Versions returns the published versions of namespace:name in any order.
		// It returns an error wrapping ErrArtifactNotFound when the artifact is unknown.
		Versions(ctx context.Context, namespace, name string) ([]version.Version, error)
	}

	// StaticBackend serves versions from an in-memory table keyed by artifact
	// name. It suits tests and callers that already hold a catalog.
	StaticBackend struct {
		ID        string
		Artifacts map[string][]version.Version
	}
)

// Name implements Backend.
func (s *StaticBackend) Name() string {
	if s.ID == "" {
		return "static"
	}
	return s.ID
}

// Versions implements Backend. The namespace is ignored.
func (s *StaticBackend) Versions(ctx context.Context, _, name string) ([]version.Version, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	versions, ok := s.Artifacts[name]
	if !ok {
		return nil, fmt.Errorf("%s: %w", name, ErrArtifactNotFound)
	}
	return versions, nil
}
