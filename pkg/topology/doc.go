// Package topology is the in-memory model of a network graph document.
//
// # Overview
//
// A [Document] holds nodes (devices) and directed edges (links). Every node
// belongs to a [DeviceClass] taken from a fixed [Registry] supplied by
// configuration; the class weight drives how edges are grouped and layered
// when the graph is drawn.
//
// # Construction
//
// Documents are immutable. They are assembled through a [Builder], which
// enforces the invariants at insertion time:
//
//   - node names are non-empty and unique
//   - a node's class resolves in the registry
//   - both endpoints of an edge were added before the edge
//
//	b := topology.NewBuilder(topology.DefaultRegistry())
//	_ = b.AddNode("a", 0, 0)
//	_ = b.AddNode("b", 0, 2)
//	_ = b.AddEdge(topology.EdgeName("a", "b"), "a", "b", topology.Address{}, 0, 1)
//	doc := b.Build()
//
// Decoding documents from JSON lives in the io package; this package does no
// I/O.
package topology
