package graph

import (
	"testing"

	"gonum.org/v1/gonum/graph"

	"github.com/matzehuels/topoviz/pkg/topology"
)

func buildDoc(t *testing.T, nodes []string, edges [][3]any) *topology.Document {
	t.Helper()
	b := topology.NewBuilder(topology.DefaultRegistry())
	for _, n := range nodes {
		if err := b.AddNode(n, 0, 0); err != nil {
			t.Fatal(err)
		}
	}
	for i, e := range edges {
		from, to, w := e[0].(string), e[1].(string), e[2].(float64)
		if err := b.AddEdge(string(rune('a'+i)), from, to, topology.Address{}, 0, w); err != nil {
			t.Fatal(err)
		}
	}
	return b.Build()
}

func TestFromDocument(t *testing.T) {
	doc := buildDoc(t, []string{"x", "y", "z"}, [][3]any{
		{"x", "y", 2.0},
		{"y", "x", 5.0}, // reciprocal, larger weight wins
		{"z", "z", 1.0}, // self-loop dropped
		{"y", "z", 3.0},
	})
	g := FromDocument(doc)

	if n := g.Nodes().Len(); n != 3 {
		t.Fatalf("Nodes().Len() = %d, want 3", n)
	}
	if n := g.WeightedEdges().Len(); n != 2 {
		t.Fatalf("WeightedEdges().Len() = %d, want 2", n)
	}

	x, _ := g.ID("x")
	y, _ := g.ID("y")
	z, _ := g.ID("z")
	if w, ok := g.Weight(x, y); !ok || w != 5 {
		t.Errorf("Weight(x, y) = %v, %v, want 5, true", w, ok)
	}
	if w, ok := g.Weight(y, x); !ok || w != 5 {
		t.Errorf("Weight(y, x) = %v, %v, want 5, true", w, ok)
	}
	if g.HasEdgeBetween(z, z) {
		t.Error("self-loop should be dropped")
	}
	if g.Name(z) != "z" || g.Name(99) != "" {
		t.Errorf("Name() mapping wrong")
	}
}

func TestOrderedIteration(t *testing.T) {
	doc := buildDoc(t, []string{"n0", "n1", "n2", "n3", "n4"}, [][3]any{
		{"n4", "n0", 1.0},
		{"n2", "n0", 1.0},
		{"n3", "n0", 1.0},
		{"n1", "n0", 1.0},
	})
	g := FromDocument(doc)

	var prev int64 = -1
	for _, n := range graph.NodesOf(g.Nodes()) {
		if n.ID() <= prev {
			t.Fatalf("Nodes() not ordered: %d after %d", n.ID(), prev)
		}
		prev = n.ID()
	}

	prev = -1
	for _, n := range graph.NodesOf(g.From(0)) {
		if n.ID() <= prev {
			t.Fatalf("From(0) not ordered: %d after %d", n.ID(), prev)
		}
		prev = n.ID()
	}

	edges := graph.WeightedEdgesOf(g.WeightedEdges())
	for i := 1; i < len(edges); i++ {
		_, a := endpoints(edges[i-1])
		_, b := endpoints(edges[i])
		if a >= b {
			t.Fatalf("WeightedEdges() not ordered at %d", i)
		}
	}
}

func TestEmptyDocument(t *testing.T) {
	g := FromDocument(topology.NewBuilder(topology.DefaultRegistry()).Build())
	if g.Nodes().Len() != 0 || g.WeightedEdges().Len() != 0 {
		t.Error("empty document should yield an empty graph")
	}
}
