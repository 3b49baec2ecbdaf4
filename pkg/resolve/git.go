// SPDX-License-Identifier: MPL-2.0

package resolve

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/go-git/go-git/v5/plumbing/transport/http"
	"github.com/go-git/go-git/v5/storage/memory"

	"github.com/modgraph/modgraph/pkg/version"
)

// ErrInvalidURLTemplate is returned when a GitBackend template has no {name} placeholder.
var ErrInvalidURLTemplate = errors.New("git url template must contain {name}")

// GitBackend lists an artifact's versions from the tags of its git repository,
// without cloning. URLTemplate maps an artifact to a repository URL, e.g.
// "https://github.com/Terasology/{name}.git"; {namespace} is also expanded.
// Tags of the form "1.2.3" and "v1.2.3" are versions; other tags are ignored.
type GitBackend struct {
	URLTemplate string
	// Auth is optional; public HTTPS repositories need none.
	Auth transport.AuthMethod
}

// NewGitBackend validates the template and picks up a token from GITHUB_TOKEN
// or GIT_TOKEN when one is set.
func NewGitBackend(urlTemplate string) (*GitBackend, error) {
	if !strings.Contains(urlTemplate, "{name}") {
		return nil, fmt.Errorf("%q: %w", urlTemplate, ErrInvalidURLTemplate)
	}
	return &GitBackend{URLTemplate: urlTemplate, Auth: tokenAuthFromEnv()}, nil
}

// Name implements Backend.
func (g *GitBackend) Name() string { return "git:" + g.URLTemplate }

// URL returns the repository URL for an artifact.
func (g *GitBackend) URL(namespace, name string) string {
	return strings.NewReplacer("{namespace}", namespace, "{name}", name).Replace(g.URLTemplate)
}

// Versions implements Backend.
func (g *GitBackend) Versions(ctx context.Context, namespace, name string) ([]version.Version, error) {
	url := g.URL(namespace, name)
	remote := git.NewRemote(memory.NewStorage(), &config.RemoteConfig{
		Name: "origin",
		URLs: []string{url},
	})

	refs, err := remote.ListContext(ctx, &git.ListOptions{Auth: g.Auth})
	if err != nil {
		if errors.Is(err, transport.ErrRepositoryNotFound) {
			return nil, fmt.Errorf("%s: %w", url, ErrArtifactNotFound)
		}
		return nil, fmt.Errorf("list tags of %s: %w", url, err)
	}

	var versions []version.Version
	for _, ref := range refs {
		if !ref.Name().IsTag() {
			continue
		}
		if v, ok := versionFromTag(ref.Name().Short()); ok {
			versions = append(versions, v)
		}
	}
	return versions, nil
}

func versionFromTag(tag string) (version.Version, bool) {
	v, err := version.Parse(strings.TrimPrefix(tag, "v"))
	if err != nil {
		return version.Version{}, false
	}
	return v, true
}

func tokenAuthFromEnv() transport.AuthMethod {
	if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		return &http.BasicAuth{Username: "x-access-token", Password: token}
	}
	if token := os.Getenv("GIT_TOKEN"); token != "" {
		return &http.BasicAuth{Username: "git", Password: token}
	}
	return nil
}
