// SPDX-License-Identifier: MPL-2.0

package dag

import (
	"errors"
	"slices"
	"testing"
)

func TestTopologicalSort_EmptyGraph(t *testing.T) {
	t.Parallel()
	g := New()
	order, err := g.TopologicalSort()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if order != nil {
		t.Errorf("expected nil, got %v", order)
	}
}

func TestTopologicalSort_SingleNode(t *testing.T) {
	t.Parallel()
	g := New()
	g.AddNode("A")
	order, err := g.TopologicalSort()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !slices.Equal(order, []string{"A"}) {
		t.Errorf("expected [A], got %v", order)
	}
}

func TestTopologicalSort_LinearChain(t *testing.T) {
	t.Parallel()
	g := New()
	g.AddEdge("A", "B")
	g.AddEdge("B", "C")

	order, err := g.TopologicalSort()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expected := []string{"A", "B", "C"}
	if !slices.Equal(order, expected) {
		t.Errorf("expected %v, got %v", expected, order)
	}
}

func TestTopologicalSort_Diamond(t *testing.T) {
	t.Parallel()
	g := New()
	g.AddEdge("A", "B")
	g.AddEdge("A", "C")
	g.AddEdge("B", "D")
	g.AddEdge("C", "D")

	order, err := g.TopologicalSort()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !slices.Equal(order, []string{"A", "B", "C", "D"}) {
		t.Errorf("expected [A B C D], got %v", order)
	}
}

func TestTopologicalSort_InsertionOrderTieBreak(t *testing.T) {
	t.Parallel()
	g := New()
	g.AddNode("Z")
	g.AddNode("M")
	g.AddNode("A")

	for range 5 {
		order, err := g.TopologicalSort()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !slices.Equal(order, []string{"Z", "M", "A"}) {
			t.Fatalf("expected insertion order [Z M A], got %v", order)
		}
	}
}

func TestTopologicalSort_Cycles(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		edges [][2]string
		want  []string
	}{
		{name: "self loop", edges: [][2]string{{"A", "A"}}, want: []string{"A", "A"}},
		{name: "two nodes", edges: [][2]string{{"A", "B"}, {"B", "A"}}, want: []string{"A", "B", "A"}},
		{name: "three nodes", edges: [][2]string{{"A", "B"}, {"B", "C"}, {"C", "A"}}, want: []string{"A", "B", "C", "A"}},
		{
			name:  "cycle downstream of acyclic part",
			edges: [][2]string{{"Root", "X"}, {"X", "Y"}, {"Y", "Z"}, {"Z", "X"}, {"Root", "Free"}},
			want:  []string{"X", "Y", "Z", "X"},
		},
		{
			name:  "node hanging off a cycle comes first",
			edges: [][2]string{{"D", "D2"}, {"A", "B"}, {"B", "A"}, {"B", "D"}},
			want:  []string{"A", "B", "A"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			g := New()
			for _, e := range tt.edges {
				g.AddEdge(e[0], e[1])
			}

			order, err := g.TopologicalSort()
			if err == nil {
				t.Fatalf("expected cycle error, got order %v", order)
			}
			if order != nil {
				t.Errorf("expected no partial order, got %v", order)
			}
			var cycleErr *CycleError
			if !errors.As(err, &cycleErr) {
				t.Fatalf("expected *CycleError, got %T: %v", err, err)
			}
			if !slices.Equal(cycleErr.Cycle, tt.want) {
				t.Errorf("Cycle = %v, want %v", cycleErr.Cycle, tt.want)
			}
		})
	}
}

func TestTopologicalSort_DisconnectedComponents(t *testing.T) {
	t.Parallel()
	g := New()
	g.AddEdge("A", "B")
	g.AddNode("C")
	g.AddNode("D")

	order, err := g.TopologicalSort()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(order) != 4 {
		t.Errorf("expected 4 nodes, got %d: %v", len(order), order)
	}
	aIdx := slices.Index(order, "A")
	bIdx := slices.Index(order, "B")
	if aIdx >= bIdx {
		t.Errorf("A (idx %d) must come before B (idx %d) in %v", aIdx, bIdx, order)
	}
}

func TestAddEdge_Idempotent(t *testing.T) {
	t.Parallel()
	g := New()
	g.AddEdge("A", "B")
	g.AddEdge("A", "B")

	if g.EdgeCount() != 1 {
		t.Errorf("EdgeCount() = %d, want 1", g.EdgeCount())
	}
	if !slices.Equal(g.Successors("A"), []string{"B"}) {
		t.Errorf("Successors(A) = %v, want [B]", g.Successors("A"))
	}
	if !slices.Equal(g.Predecessors("B"), []string{"A"}) {
		t.Errorf("Predecessors(B) = %v, want [A]", g.Predecessors("B"))
	}

	order, err := g.TopologicalSort()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !slices.Equal(order, []string{"A", "B"}) {
		t.Errorf("expected [A, B], got %v", order)
	}
}

func TestGraph_Accessors(t *testing.T) {
	t.Parallel()
	g := New()
	g.AddNode("A")
	g.AddEdge("B", "C")

	if !g.HasNode("A") || g.HasNode("Z") {
		t.Error("HasNode() mismatch")
	}
	if !g.HasEdge("B", "C") || g.HasEdge("C", "B") {
		t.Error("HasEdge() should be directional")
	}
	nodes := g.Nodes()
	nodes[0] = "mutated"
	if g.Nodes()[0] != "A" {
		t.Error("Nodes() should return a copy")
	}
}

func TestCycleError_Message(t *testing.T) {
	t.Parallel()
	err := &CycleError{Cycle: []string{"A", "B", "C", "A"}}
	expected := "dependency cycle detected: A -> B -> C -> A"
	if err.Error() != expected {
		t.Errorf("expected %q, got %q", expected, err.Error())
	}
	if !slices.Equal(err.Members(), []string{"A", "B", "C"}) {
		t.Errorf("Members() = %v, want [A B C]", err.Members())
	}
}
