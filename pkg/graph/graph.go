package graph

import (
	"cmp"
	"math"
	"slices"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/iterator"
	"gonum.org/v1/gonum/graph/simple"

	"github.com/matzehuels/topoviz/pkg/topology"
)

// Undirected is the weighted undirected view of a document.
type Undirected struct {
	*simple.WeightedUndirectedGraph

	ids   map[string]int64
	names []string
}

// FromDocument builds the undirected view of doc.
func FromDocument(doc *topology.Document) *Undirected {
	g := &Undirected{
		WeightedUndirectedGraph: simple.NewWeightedUndirectedGraph(0, math.Inf(1)),
		ids:                     make(map[string]int64, doc.NodeCount()),
		names:                   doc.NodeNames(),
	}
	for i, name := range g.names {
		g.ids[name] = int64(i)
		g.AddNode(simple.Node(i))
	}
	for _, e := range doc.Edges() {
		if e.IsLoop() {
			continue
		}
		u, v := g.ids[e.From.Name], g.ids[e.To.Name]
		w := e.Weight
		if prev, ok := g.Weight(u, v); ok && prev > w {
			w = prev
		}
		g.SetWeightedEdge(simple.WeightedEdge{F: simple.Node(u), T: simple.Node(v), W: w})
	}
	return g
}

// ID returns the gonum node ID of the named document node.
func (g *Undirected) ID(name string) (int64, bool) {
	id, ok := g.ids[name]
	return id, ok
}

// Name returns the document node name for a gonum node ID.
func (g *Undirected) Name(id int64) string {
	if id < 0 || int(id) >= len(g.names) {
		return ""
	}
	return g.names[id]
}

// Names returns all node names indexed by ID.
func (g *Undirected) Names() []string {
	return slices.Clone(g.names)
}

// Nodes returns all nodes ordered by ID.
func (g *Undirected) Nodes() graph.Nodes {
	return ordered(g.WeightedUndirectedGraph.Nodes())
}

// From returns the neighbours of id ordered by ID.
func (g *Undirected) From(id int64) graph.Nodes {
	return ordered(g.WeightedUndirectedGraph.From(id))
}

// WeightedEdges returns all edges ordered by their (lower, higher) endpoint IDs.
func (g *Undirected) WeightedEdges() graph.WeightedEdges {
	edges := graph.WeightedEdgesOf(g.WeightedUndirectedGraph.WeightedEdges())
	if len(edges) == 0 {
		return graph.Empty
	}
	slices.SortFunc(edges, func(a, b graph.WeightedEdge) int {
		au, av := endpoints(a)
		bu, bv := endpoints(b)
		if c := cmp.Compare(au, bu); c != 0 {
			return c
		}
		return cmp.Compare(av, bv)
	})
	return iterator.NewOrderedWeightedEdges(edges)
}

func endpoints(e graph.Edge) (int64, int64) {
	u, v := e.From().ID(), e.To().ID()
	if u > v {
		u, v = v, u
	}
	return u, v
}

func ordered(it graph.Nodes) graph.Nodes {
	nodes := graph.NodesOf(it)
	if len(nodes) == 0 {
		return graph.Empty
	}
	slices.SortFunc(nodes, func(a, b graph.Node) int {
		return cmp.Compare(a.ID(), b.ID())
	})
	return iterator.NewOrderedNodes(nodes)
}
