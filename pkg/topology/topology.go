package topology

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyRegistry is returned by [NewRegistry] when no classes are given.
	ErrEmptyRegistry = errors.New("device class registry is empty")

	// ErrInvalidClassName is returned by [NewRegistry] for a class without a name.
	ErrInvalidClassName = errors.New("device class name must not be empty")

	// ErrDuplicateClass is returned by [NewRegistry] when two classes share a name.
	ErrDuplicateClass = errors.New("duplicate device class name")

	// ErrInvalidNodeName is returned by [Builder.AddNode] when the name is empty.
	ErrInvalidNodeName = errors.New("node name must not be empty")

	// ErrDuplicateNode is returned by [Builder.AddNode] when a node with the
	// same name was already added.
	ErrDuplicateNode = errors.New("duplicate node name")

	// ErrUnknownDeviceClass is returned by [Builder.AddNode] when the class ID
	// does not resolve in the registry.
	ErrUnknownDeviceClass = errors.New("unknown device class")

	// ErrInvalidEdgeName is returned by [Builder.AddEdge] when the name is empty.
	ErrInvalidEdgeName = errors.New("edge name must not be empty")

	// ErrDuplicateEdge is returned by [Builder.AddEdge] when an edge with the
	// same name was already added.
	ErrDuplicateEdge = errors.New("duplicate edge name")

	// ErrUnknownNode is returned by [Builder.AddEdge] when either endpoint has
	// not been added yet. Edges never resolve forward references.
	ErrUnknownNode = errors.New("edge references unknown node")
)

// Address is the transport endpoint attached to an edge.
type Address struct {
	Host string
	Port int
}

// String renders the address as host:port, or "" for the zero value.
func (a Address) String() string {
	if a == (Address{}) {
		return ""
	}
	return fmt.Sprintf("%s:%d", a.Host, a.Port)
}

// Node is a network device. Its name is its primary key within a [Document].
type Node struct {
	Name    string
	Options uint64 // opaque bitflags, carried through untouched
	Class   DeviceClass
}

// Edge is a directed link between two nodes of the same [Document].
// Weight is the document-declared value fed to the layout engine and shown as
// the edge label.
type Edge struct {
	Name    string
	From    *Node
	To      *Node
	Address Address
	Options uint64
	Weight  float64
}

// IsLoop reports whether the edge starts and ends at the same node.
func (e *Edge) IsLoop() bool { return e.From == e.To }

// Document is a validated, immutable network graph. It owns every node and
// edge it returns; callers must treat them as read-only.
//
// Documents are created with a [Builder]. Iteration order is insertion order.
type Document struct {
	registry  Registry
	nodes     map[string]*Node
	edges     map[string]*Edge
	nodeOrder []*Node
	edgeOrder []*Edge
}

// Registry returns the device-class registry the document was built against.
func (d *Document) Registry() Registry { return d.registry }

// Node looks a node up by name.
func (d *Document) Node(name string) (*Node, bool) {
	n, ok := d.nodes[name]
	return n, ok
}

// Edge looks an edge up by name.
func (d *Document) Edge(name string) (*Edge, bool) {
	e, ok := d.edges[name]
	return e, ok
}

// Nodes returns all nodes in insertion order. The slice is a copy.
func (d *Document) Nodes() []*Node {
	out := make([]*Node, len(d.nodeOrder))
	copy(out, d.nodeOrder)
	return out
}

// Edges returns all edges in insertion order. The slice is a copy.
func (d *Document) Edges() []*Edge {
	out := make([]*Edge, len(d.edgeOrder))
	copy(out, d.edgeOrder)
	return out
}

// NodeCount returns the number of nodes.
func (d *Document) NodeCount() int { return len(d.nodeOrder) }

// EdgeCount returns the number of edges.
func (d *Document) EdgeCount() int { return len(d.edgeOrder) }

// NodeNames returns node names in insertion order.
func (d *Document) NodeNames() []string {
	out := make([]string, len(d.nodeOrder))
	for i, n := range d.nodeOrder {
		out[i] = n.Name
	}
	return out
}

// Builder accumulates nodes and edges, enforcing the document invariants as
// they are added. A Builder must not be reused after [Builder.Build].
type Builder struct {
	doc *Document
}

// NewBuilder starts a document whose nodes resolve classes in reg.
func NewBuilder(reg Registry) *Builder {
	return &Builder{doc: &Document{
		registry: reg,
		nodes:    make(map[string]*Node),
		edges:    make(map[string]*Edge),
	}}
}

// AddNode registers a node. The name must be non-empty and unused, and class
// must resolve in the builder's registry.
func (b *Builder) AddNode(name string, options uint64, class ClassID) error {
	if name == "" {
		return ErrInvalidNodeName
	}
	if _, ok := b.doc.nodes[name]; ok {
		return ErrDuplicateNode
	}
	dc, ok := b.doc.registry.Class(class)
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownDeviceClass, class)
	}
	n := &Node{Name: name, Options: options, Class: dc}
	b.doc.nodes[name] = n
	b.doc.nodeOrder = append(b.doc.nodeOrder, n)
	return nil
}

// AddEdge registers a directed edge between two nodes that were already added.
func (b *Builder) AddEdge(name, from, to string, addr Address, options uint64, weight float64) error {
	if name == "" {
		return ErrInvalidEdgeName
	}
	if _, ok := b.doc.edges[name]; ok {
		return ErrDuplicateEdge
	}
	src, ok := b.doc.nodes[from]
	if !ok {
		return fmt.Errorf("%w: from %q", ErrUnknownNode, from)
	}
	dst, ok := b.doc.nodes[to]
	if !ok {
		return fmt.Errorf("%w: to %q", ErrUnknownNode, to)
	}
	e := &Edge{
		Name:    name,
		From:    src,
		To:      dst,
		Address: addr,
		Options: options,
		Weight:  weight,
	}
	b.doc.edges[name] = e
	b.doc.edgeOrder = append(b.doc.edgeOrder, e)
	return nil
}

// Build returns the finished document.
func (b *Builder) Build() *Document {
	d := b.doc
	b.doc = nil
	return d
}

// EdgeName returns the conventional "<from>_to_<to>" edge key. Documents may
// use any key; this is only a helper for producing new documents.
func EdgeName(from, to string) string {
	return from + "_to_" + to
}
