// SPDX-License-Identifier: MPL-2.0

// Package dag provides a small directed graph with deterministic Kahn
// topological sorting and cycle path extraction. Nodes are string keys and
// every iteration follows insertion order, so identical construction yields
// identical output.
package dag

import (
	"fmt"
	"strings"
)

type (
	// CycleError indicates that the graph contains a cycle, preventing topological ordering.
	CycleError struct {
		// Cycle is one concrete cycle path, closed by repeating its first node:
		// ["A", "B", "A"].
		Cycle []string
	}

	// Graph is a directed graph. Edges carry no meaning here beyond direction;
	// callers decide what "from -> to" stands for.
	Graph struct {
		// adjacency maps each node to its outgoing neighbors in insertion order.
		adjacency map[string][]string
		// reverse maps each node to its incoming neighbors in insertion order.
		reverse map[string][]string
		nodes   []string
		nodeSet map[string]bool
		edgeSet map[[2]string]bool
	}
)

func (e *CycleError) Error() string {
	return fmt.Sprintf("dependency cycle detected: %s", strings.Join(e.Cycle, " -> "))
}

// Members returns the distinct nodes on the cycle.
func (e *CycleError) Members() []string {
	if len(e.Cycle) > 1 && e.Cycle[0] == e.Cycle[len(e.Cycle)-1] {
		return e.Cycle[:len(e.Cycle)-1]
	}
	return e.Cycle
}

// New creates an empty Graph.
func New() *Graph {
	return &Graph{
		adjacency: make(map[string][]string),
		reverse:   make(map[string][]string),
		nodeSet:   make(map[string]bool),
		edgeSet:   make(map[[2]string]bool),
	}
}

// AddNode adds a node to the graph. If the node already exists, this is a no-op.
func (g *Graph) AddNode(name string) {
	if g.nodeSet[name] {
		return
	}
	g.nodeSet[name] = true
	g.nodes = append(g.nodes, name)
}

// AddEdge adds a directed edge from -> to, adding both nodes if needed.
// Adding an existing edge again is a no-op.
func (g *Graph) AddEdge(from, to string) {
	g.AddNode(from)
	g.AddNode(to)
	key := [2]string{from, to}
	if g.edgeSet[key] {
		return
	}
	g.edgeSet[key] = true
	g.adjacency[from] = append(g.adjacency[from], to)
	g.reverse[to] = append(g.reverse[to], from)
}

// HasNode reports whether name is in the graph.
func (g *Graph) HasNode(name string) bool { return g.nodeSet[name] }

// HasEdge reports whether the edge from -> to exists.
func (g *Graph) HasEdge(from, to string) bool { return g.edgeSet[[2]string{from, to}] }

// Nodes returns all nodes in insertion order.
func (g *Graph) Nodes() []string {
	out := make([]string, len(g.nodes))
	copy(out, g.nodes)
	return out
}

// Successors returns the targets of name's outgoing edges.
func (g *Graph) Successors(name string) []string {
	return append([]string(nil), g.adjacency[name]...)
}

// Predecessors returns the sources of name's incoming edges.
func (g *Graph) Predecessors(name string) []string {
	return append([]string(nil), g.reverse[name]...)
}

// EdgeCount returns the number of distinct edges.
func (g *Graph) EdgeCount() int { return len(g.edgeSet) }

// TopologicalSort returns an order in which every edge's source precedes its
// target, using Kahn's algorithm. Nodes that become ready together keep
// insertion order. If the graph has a cycle it returns a *CycleError and no
// order.
func (g *Graph) TopologicalSort() ([]string, error) {
	if len(g.nodes) == 0 {
		return nil, nil
	}

	inDegree := make(map[string]int, len(g.nodes))
	for _, node := range g.nodes {
		inDegree[node] = len(g.reverse[node])
	}

	queue := make([]string, 0, len(g.nodes))
	for _, node := range g.nodes {
		if inDegree[node] == 0 {
			queue = append(queue, node)
		}
	}

	result := make([]string, 0, len(g.nodes))
	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		result = append(result, node)

		for _, neighbor := range g.adjacency[node] {
			inDegree[neighbor]--
			if inDegree[neighbor] == 0 {
				queue = append(queue, neighbor)
			}
		}
	}

	if len(result) != len(g.nodes) {
		remaining := make(map[string]bool)
		for _, node := range g.nodes {
			if inDegree[node] > 0 {
				remaining[node] = true
			}
		}
		return nil, &CycleError{Cycle: g.findCycle(remaining)}
	}

	return result, nil
}

// findCycle returns the first cycle a depth-first search over the given nodes
// reaches, closed by repeating its start node.
func (g *Graph) findCycle(within map[string]bool) []string {
	visited := make(map[string]bool)
	onStack := make(map[string]bool)
	var path []string
	var cycle []string

	var visit func(node string) bool
	visit = func(node string) bool {
		visited[node] = true
		onStack[node] = true
		path = append(path, node)

		for _, next := range g.adjacency[node] {
			if !within[next] {
				continue
			}
			if onStack[next] {
				for i, n := range path {
					if n == next {
						cycle = append(append([]string(nil), path[i:]...), next)
						return true
					}
				}
			}
			if !visited[next] && visit(next) {
				return true
			}
		}

		path = path[:len(path)-1]
		onStack[node] = false
		return false
	}

	for _, node := range g.nodes {
		if within[node] && !visited[node] && visit(node) {
			return cycle
		}
	}

	// Unreachable for a graph Kahn could not finish; report the remainder.
	var rest []string
	for _, node := range g.nodes {
		if within[node] {
			rest = append(rest, node)
		}
	}
	return rest
}
