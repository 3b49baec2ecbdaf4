// SPDX-License-Identifier: MPL-2.0

package modgraph

import (
	"slices"

	"github.com/modgraph/modgraph/pkg/modinfo"
)

// BuildOrder lists modules so that every module comes after all of its
// workspace dependencies.
type BuildOrder []modinfo.ModuleIdentity

// Names returns the module names in build order.
func (o BuildOrder) Names() []string {
	out := make([]string, len(o))
	for i, m := range o {
		out[i] = m.Name
	}
	return out
}

// Index returns the position of the named module, or -1.
func (o BuildOrder) Index(name string) int {
	return slices.IndexFunc(o, func(m modinfo.ModuleIdentity) bool { return m.Name == name })
}

// Order computes the build order of g.
//
// Kahn's algorithm over declarer -> dependency edges emits dependents before
// their dependencies, so the emission is reversed. Modules that are ready at
// the same step are emitted in insertion order, which makes the result stable
// for identical input. A cyclic graph yields a *dag.CycleError and no order.
func Order(g *Graph) (BuildOrder, error) {
	emitted, err := g.dag.TopologicalSort()
	if err != nil {
		return nil, err
	}
	slices.Reverse(emitted)

	order := make(BuildOrder, 0, len(emitted))
	for _, name := range emitted {
		order = append(order, g.modules[name])
	}
	return order, nil
}
