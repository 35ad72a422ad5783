package order

import (
	"fmt"
	"math/rand"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/you-not-fish/widl/internal/extattr"
	"github.com/you-not-fish/widl/internal/model"
	"github.com/you-not-fish/widl/internal/parser"
	"github.com/you-not-fish/widl/internal/types"
)

func graph(nodes []string, edges ...[2]string) *Graph {
	g := NewGraph()
	for _, n := range nodes {
		g.Add(n)
	}
	for _, e := range edges {
		g.Use(e[0], e[1])
	}
	return g
}

func TestOrder(t *testing.T) {
	tests := []struct {
		name  string
		nodes []string
		edges [][2]string
		want  []string
	}{
		{
			name:  "chain",
			nodes: []string{"A", "B", "C"},
			edges: [][2]string{{"A", "B"}, {"B", "C"}},
			want:  []string{"C", "B", "A"},
		},
		{
			name:  "self_reference",
			nodes: []string{"Node"},
			edges: [][2]string{{"Node", "Node"}},
			want:  []string{"Node"},
		},
		{
			name:  "mutual_cycle",
			nodes: []string{"A", "B"},
			edges: [][2]string{{"A", "B"}, {"B", "A"}},
			want:  []string{"B", "A"},
		},
		{
			name:  "equal_depth_reverse_name",
			nodes: []string{"Root", "X", "Y"},
			edges: [][2]string{{"Root", "X"}, {"Root", "Y"}},
			want:  []string{"X", "Y", "Root"},
		},
		{
			name:  "shallow_child_first",
			nodes: []string{"Root", "A", "Z", "Q"},
			edges: [][2]string{{"Root", "A"}, {"Root", "Z"}, {"Z", "Q"}},
			want:  []string{"Q", "Z", "A", "Root"},
		},
		{
			name:  "diamond",
			nodes: []string{"A", "B", "C", "D"},
			edges: [][2]string{{"A", "B"}, {"A", "C"}, {"B", "D"}, {"C", "D"}},
			want:  []string{"D", "B", "C", "A"},
		},
		{
			name:  "deferred_ignored",
			nodes: []string{"A", "B"},
			edges: [][2]string{{"A", Deferred}, {Deferred, "B"}, {"B", "A"}},
			want:  []string{"A", "B"},
		},
		{
			name:  "independent_nodes",
			nodes: []string{"b", "a", "c"},
			want:  []string{"c", "b", "a"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := graph(tt.nodes, tt.edges...).Order()
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Order() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDepth(t *testing.T) {
	g := graph([]string{"A", "B", "C", "L"}, [2]string{"A", "B"}, [2]string{"B", "C"}, [2]string{"A", "L"})
	if d := g.Depth("A"); d != -1 {
		t.Errorf("Depth before Order = %d, want -1", d)
	}
	g.Order()
	for name, want := range map[string]int{"A": 2, "B": 1, "C": 0, "L": 0, "missing": -1} {
		if got := g.Depth(name); got != want {
			t.Errorf("Depth(%s) = %d, want %d", name, got, want)
		}
	}
}

func TestDepthCycle(t *testing.T) {
	// A is computed first; B reaches A while A is in progress and sees 0.
	g := graph([]string{"A", "B"}, [2]string{"A", "B"}, [2]string{"B", "A"})
	g.Order()
	if g.Depth("B") != 1 || g.Depth("A") != 2 {
		t.Errorf("depths = A:%d B:%d, want A:2 B:1", g.Depth("A"), g.Depth("B"))
	}
}

func TestOrderRepeatable(t *testing.T) {
	g := graph([]string{"A", "B", "C"}, [2]string{"A", "B"}, [2]string{"B", "C"}, [2]string{"C", "A"})
	first := g.Order()
	second := g.Order()
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("second Order() differs (-first +second):\n%s", diff)
	}
	if len(first) != 3 {
		t.Errorf("Order() = %v, want 3 names", first)
	}
}

func TestOrderAcyclicProperty(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for round := 0; round < 200; round++ {
		n := 2 + rng.Intn(12)
		names := make([]string, n)
		for i := range names {
			names[i] = fmt.Sprintf("T%02d", rng.Intn(100)*100+i)
		}
		g := NewGraph()
		var edges [][2]string
		// Only edges from lower to higher index, so the graph has no cycles.
		for i := 0; i < n; i++ {
			g.Add(names[i])
			for j := i + 1; j < n; j++ {
				if rng.Intn(3) == 0 {
					g.Use(names[i], names[j])
					edges = append(edges, [2]string{names[i], names[j]})
				}
			}
		}

		order := g.Order()
		if len(order) != n {
			t.Fatalf("round %d: Order() returned %d names, want %d", round, len(order), n)
		}
		at := make(map[string]int, n)
		for i, name := range order {
			if _, dup := at[name]; dup {
				t.Fatalf("round %d: %s emitted twice", round, name)
			}
			at[name] = i
		}
		for _, e := range edges {
			if at[e[1]] >= at[e[0]] {
				t.Errorf("round %d: %s placed after its user %s in %v", round, e[1], e[0], order)
			}
		}
	}
}

func TestResolve(t *testing.T) {
	src := `
interface Tree {
    attribute Node root;
    attribute string name;
    callback on_change(Node node);
};
interface Node : Element {
    attribute sequence<Node> children;
    attribute Kind? kind;
    attribute External ext;
};
enum Kind { "leaf", "branch" };
interface Element { attribute record<string, union<Kind, long long>> data; };
`
	classes, err := parser.Parse("r.idl", strings.NewReader(src), extattr.NewSchema(), nil)
	if err != nil {
		t.Fatal(err)
	}
	universe := types.NewUniverse()
	got := model.Names(Resolve(classes, universe.IsSimple))
	want := []string{"Kind", "Element", "Node", "Tree"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Resolve() mismatch (-want +got):\n%s", diff)
	}

	g := Build(classes, universe.IsSimple)
	if _, ok := g.nodes["string"]; ok {
		t.Error("builtin string should not be a graph node")
	}
	if _, ok := g.nodes["External"]; !ok {
		t.Error("undeclared External should still be a graph node")
	}
	if _, ok := g.nodes[Deferred]; ok {
		t.Error("deferred type should not be a graph node")
	}
}
