// SPDX-License-Identifier: MPL-2.0

package modgraph

// Dependencies returns the workspace modules name depends on directly.
func (g *Graph) Dependencies(name string) []string { return g.dag.Successors(g.canonical(name)) }

// Dependents returns the workspace modules that depend on name directly.
func (g *Graph) Dependents(name string) []string { return g.dag.Predecessors(g.canonical(name)) }

// TransitiveDeps returns every workspace module name depends on, directly or
// not, in breadth-first order. name itself is not included.
func (g *Graph) TransitiveDeps(name string) []string {
	name = g.canonical(name)
	seen := map[string]bool{name: true}
	queue := g.dag.Successors(name)
	var out []string
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]
		if seen[next] {
			continue
		}
		seen[next] = true
		out = append(out, next)
		queue = append(queue, g.dag.Successors(next)...)
	}
	return out
}

// Roots returns modules no other workspace module depends on.
func (g *Graph) Roots() []string {
	var out []string
	for _, name := range g.order {
		if len(g.dag.Predecessors(name)) == 0 {
			out = append(out, name)
		}
	}
	return out
}

// Leaves returns modules without workspace dependencies.
func (g *Graph) Leaves() []string {
	var out []string
	for _, name := range g.order {
		if len(g.dag.Successors(name)) == 0 {
			out = append(out, name)
		}
	}
	return out
}

// Isolated returns modules with neither dependencies nor dependents.
func (g *Graph) Isolated() []string {
	var out []string
	for _, name := range g.order {
		if len(g.dag.Successors(name)) == 0 && len(g.dag.Predecessors(name)) == 0 {
			out = append(out, name)
		}
	}
	return out
}
