package render

import (
	"cmp"
	"slices"

	"github.com/matzehuels/topoviz/pkg/topology"
)

// Buckets maps each device class to the names of the edges classified under
// it, in document order. Classes without edges have no entry.
type Buckets map[topology.ClassID][]string

// Len returns the total number of classified edges.
func (b Buckets) Len() int {
	var n int
	for _, edges := range b {
		n += len(edges)
	}
	return n
}

// Classify buckets every edge of doc using p.
func Classify(doc *topology.Document, p EdgePolicy) Buckets {
	out := make(Buckets)
	for _, e := range doc.Edges() {
		c := p.Classify(e)
		out[c.ID] = append(out[c.ID], e.Name)
	}
	return out
}

// DrawOrder returns the registry's class IDs in painting order. Classes are
// sorted by weight, ascending with equal weights in registry order. When
// preferLower is set the order is exactly reversed, so lower weights are
// painted last, on top.
func DrawOrder(reg topology.Registry, preferLower bool) []topology.ClassID {
	classes := reg.Classes()
	slices.SortStableFunc(classes, func(a, b topology.DeviceClass) int {
		return cmp.Compare(a.Weight, b.Weight)
	})

	out := make([]topology.ClassID, len(classes))
	for i, c := range classes {
		out[i] = c.ID
	}
	if preferLower {
		slices.Reverse(out)
	}
	return out
}
