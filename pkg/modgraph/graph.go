// SPDX-License-Identifier: MPL-2.0

package modgraph

import (
	"github.com/modgraph/modgraph/internal/dag"
	"github.com/modgraph/modgraph/pkg/depmap"
	"github.com/modgraph/modgraph/pkg/modinfo"
	"github.com/modgraph/modgraph/pkg/resolve"
)

type (
	// Graph is the local module graph. It is built once and then only read.
	Graph struct {
		dag     *dag.Graph
		modules map[string]modinfo.ModuleIdentity
		// names maps modinfo.Key of a module to its declared name.
		names map[string]string
		order []string
	}

	buildOptions struct {
		engineID string
	}

	// Option configures Build.
	Option func(*buildOptions)
)

// WithEngineID overrides the reserved engine id (depmap.DefaultEngineID).
func WithEngineID(id string) Option {
	return func(o *buildOptions) {
		o.engineID = id
	}
}

// Build creates one vertex per module, in input order, and one edge per
// result resolved to a workspace module. Duplicate results add nothing;
// self-dependencies and engine dependencies are skipped.
func Build(modules []modinfo.ModuleIdentity, results []resolve.Result, opts ...Option) *Graph {
	options := buildOptions{engineID: depmap.DefaultEngineID}
	for _, opt := range opts {
		opt(&options)
	}
	engine := depmap.Mapper{EngineID: options.engineID}

	g := &Graph{
		dag:     dag.New(),
		modules: make(map[string]modinfo.ModuleIdentity, len(modules)),
		names:   make(map[string]string, len(modules)),
	}
	for _, m := range modules {
		key := modinfo.Key(m.Name)
		if _, dup := g.names[key]; dup {
			continue
		}
		g.names[key] = m.Name
		g.modules[m.Name] = m
		g.order = append(g.order, m.Name)
		g.dag.AddNode(m.Name)
	}

	for _, res := range results {
		if res.Outcome != resolve.OutcomeLocal {
			continue
		}
		if engine.IsEngine(res.Spec.Name) {
			continue
		}
		from, okFrom := g.names[modinfo.Key(res.Spec.Declarer)]
		to, okTo := g.names[modinfo.Key(res.Spec.Name)]
		if !okFrom || !okTo || from == to {
			continue
		}
		g.dag.AddEdge(from, to)
	}
	return g
}

// Len returns the number of modules.
func (g *Graph) Len() int { return len(g.order) }

// EdgeCount returns the number of dependency edges.
func (g *Graph) EdgeCount() int { return g.dag.EdgeCount() }

// Names returns the module names in insertion order.
func (g *Graph) Names() []string { return append([]string(nil), g.order...) }

// Module returns the identity of the named module.
func (g *Graph) Module(name string) (modinfo.ModuleIdentity, bool) {
	m, ok := g.modules[g.canonical(name)]
	return m, ok
}

// HasEdge reports whether from depends on to inside the workspace.
func (g *Graph) HasEdge(from, to string) bool {
	return g.dag.HasEdge(g.canonical(from), g.canonical(to))
}

// canonical returns the declared spelling of name, or name when no module
// matches.
func (g *Graph) canonical(name string) string {
	if declared, ok := g.names[modinfo.Key(name)]; ok {
		return declared
	}
	return name
}
