// SPDX-License-Identifier: MPL-2.0

package modgraph

import (
	"bytes"
	"fmt"
	"strings"
)

const separatorWidth = 40

// ToDOT renders the graph in Graphviz DOT format. Isolated modules are drawn
// dashed.
func (g *Graph) ToDOT() string {
	var buf bytes.Buffer

	buf.WriteString("digraph modules {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  node [shape=box];\n\n")

	for _, name := range g.order {
		m := g.modules[name]
		label := m.Name
		if !m.Version.IsZero() {
			label += `\n` + m.Version.String()
		}
		attrs := fmt.Sprintf(`label="%s"`, label) //nolint:gocritic // DOT format requires this quote style
		if len(g.dag.Successors(name)) == 0 && len(g.dag.Predecessors(name)) == 0 {
			attrs += ", style=dashed"
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", name, attrs)
	}

	if g.EdgeCount() > 0 {
		buf.WriteString("\n")
	}
	for _, name := range g.order {
		for _, dep := range g.dag.Successors(name) {
			fmt.Fprintf(&buf, "  %q -> %q;\n", name, dep)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

// ToText renders a summary followed by one line per module listing its
// workspace dependencies.
func (g *Graph) ToText() string {
	var buf bytes.Buffer

	buf.WriteString("Module Graph\n")
	buf.WriteString(strings.Repeat("=", separatorWidth) + "\n")
	fmt.Fprintf(&buf, "Modules: %d\n", g.Len())
	fmt.Fprintf(&buf, "Edges: %d\n", g.EdgeCount())
	fmt.Fprintf(&buf, "Isolated: %d\n\n", len(g.Isolated()))

	for _, name := range g.order {
		deps := g.dag.Successors(name)
		if len(deps) == 0 {
			fmt.Fprintf(&buf, "%s\n", g.modules[name])
			continue
		}
		fmt.Fprintf(&buf, "%s -> %s\n", g.modules[name], strings.Join(deps, ", "))
	}
	return buf.String()
}
