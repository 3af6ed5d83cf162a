// Package spantree computes the minimum spanning tree of a document.
//
// The tree is taken over the undirected view of the document (see package
// graph): direction is ignored, reciprocal links count once with the larger
// declared weight, and self-loops never take part. A disconnected document
// yields a minimum spanning forest.
package spantree

import (
	"gonum.org/v1/gonum/graph/path"
	"gonum.org/v1/gonum/graph/simple"

	"github.com/matzehuels/topoviz/pkg/graph"
	"github.com/matzehuels/topoviz/pkg/topology"
)

// Pair is one tree edge between two named nodes. From precedes To in
// document order.
type Pair struct {
	From, To string
	Weight   float64
}

// Minimum returns the edges of a minimum spanning forest of doc, ordered by
// the document position of their endpoints.
func Minimum(doc *topology.Document) []Pair {
	g := graph.FromDocument(doc)

	dst := simple.NewWeightedUndirectedGraph(0, 0)
	path.Kruskal(dst, g)

	tree := graph.Undirected{WeightedUndirectedGraph: dst}
	var out []Pair
	it := tree.WeightedEdges()
	for it.Next() {
		e := it.WeightedEdge()
		u, v := e.From().ID(), e.To().ID()
		if u > v {
			u, v = v, u
		}
		out = append(out, Pair{From: g.Name(u), To: g.Name(v), Weight: e.Weight()})
	}
	return out
}

// Weight returns the total weight of pairs.
func Weight(pairs []Pair) float64 {
	var w float64
	for _, p := range pairs {
		w += p.Weight
	}
	return w
}
