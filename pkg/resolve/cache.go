// SPDX-License-Identifier: MPL-2.0

package resolve

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/modgraph/modgraph/pkg/version"
)

// DefaultCacheSize is the number of artifacts a Cached backend remembers.
const DefaultCacheSize = 1024

// Cached memoizes successful Versions lookups of another backend. Failed
// lookups are not cached so a transient error can be retried by the next pass.
type Cached struct {
	backend Backend
	cache   *lru.Cache[string, []version.Version]
}

// NewCached wraps backend with an LRU cache of size entries. A size <= 0
// means DefaultCacheSize.
func NewCached(backend Backend, size int) (*Cached, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	cache, err := lru.New[string, []version.Version](size)
	if err != nil {
		return nil, fmt.Errorf("create version cache: %w", err)
	}
	return &Cached{backend: backend, cache: cache}, nil
}

// Name implements Backend and reports the wrapped backend's name.
func (c *Cached) Name() string { return c.backend.Name() }

// Versions implements Backend.
func (c *Cached) Versions(ctx context.Context, namespace, name string) ([]version.Version, error) {
	key := namespace + ":" + name
	if versions, ok := c.cache.Get(key); ok {
		return versions, nil
	}
	versions, err := c.backend.Versions(ctx, namespace, name)
	if err != nil {
		return nil, err
	}
	c.cache.Add(key, versions)
	return versions, nil
}

// Len returns the number of cached artifacts.
func (c *Cached) Len() int { return c.cache.Len() }
