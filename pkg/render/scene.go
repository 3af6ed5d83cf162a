package render

import (
	"math"
	"strconv"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/matzehuels/topoviz/pkg/cache"
	apperrors "github.com/matzehuels/topoviz/pkg/errors"
	"github.com/matzehuels/topoviz/pkg/spantree"
	"github.com/matzehuels/topoviz/pkg/topology"
)

// Canvas defaults.
const (
	DefaultWidth      = 1200
	DefaultHeight     = 900
	DefaultNodeRadius = 12.0
	DefaultArrowSize  = 10.0
	DefaultFontSize   = 12.0
	DefaultLineWidth  = 1.5

	// EdgeLabelPosition is the fraction of the way from source to destination
	// at which edge labels are placed.
	EdgeLabelPosition = 0.25
)

// Point is a canvas coordinate in pixels, origin top-left.
type Point struct {
	X, Y float64
}

// Segment is one drawn line between the nodes Source and Target. Arrow marks
// a head at To. Label is the edge label text, if any.
type Segment struct {
	Edge           string
	Source, Target string
	Label          string
	From, To       Point
	Arrow          bool
}

// EdgeBatch is every edge of one device class, drawn together in one colour
// and stroke width.
type EdgeBatch struct {
	Class    topology.DeviceClass
	Color    colorful.Color
	Width    float64
	Segments []Segment
}

// NodeMark is a drawn node.
type NodeMark struct {
	Name   string
	Class  topology.DeviceClass
	Center Point
	Color  colorful.Color
}

// Label is a text anchored at its centre.
type Label struct {
	Text string
	At   Point
}

// Scene is a fully resolved drawing. Sinks paint Batches in order, then
// Overlay, Nodes, NodeLabels and EdgeLabels.
type Scene struct {
	Width, Height int
	NodeRadius    float64
	ArrowSize     float64
	FontSize      float64

	Background   colorful.Color
	LabelColor   colorful.Color
	OverlayColor colorful.Color

	Batches    []EdgeBatch
	Overlay    []Segment
	Nodes      []NodeMark
	NodeLabels []Label
	EdgeLabels []Label
}

// SceneOptions controls canvas geometry and decoration.
type SceneOptions struct {
	Width, Height int
	NodeRadius    float64
	ArrowSize     float64
	FontSize      float64

	// PreferLowerWeightEdge paints low-weight classes on top.
	PreferLowerWeightEdge bool

	// Undirected drops arrow heads from class edges.
	Undirected bool

	// WeightedLines strokes each class with width maxWeight+1-weight, so
	// the lightest class gets the thickest line. Otherwise every class
	// uses DefaultLineWidth.
	WeightedLines bool

	// Tree is drawn as a dashed overlay when non-empty.
	Tree []spantree.Pair
}

func (o SceneOptions) withDefaults() SceneOptions {
	if o.Width <= 0 {
		o.Width = DefaultWidth
	}
	if o.Height <= 0 {
		o.Height = DefaultHeight
	}
	if o.NodeRadius <= 0 {
		o.NodeRadius = DefaultNodeRadius
	}
	if o.ArrowSize <= 0 {
		o.ArrowSize = DefaultArrowSize
	}
	if o.FontSize <= 0 {
		o.FontSize = DefaultFontSize
	}
	return o
}

// BuildScene resolves doc, its buckets and layout positions into a [Scene].
// Every document node must have a position. Class colours that do not parse
// yield an INVALID_CONFIG error.
func BuildScene(doc *topology.Document, buckets Buckets, pos cache.Positions, opts SceneOptions) (*Scene, error) {
	opts = opts.withDefaults()

	reg := doc.Registry()
	colors := make(map[topology.ClassID]colorful.Color, reg.Len())
	for _, c := range reg.Classes() {
		col, err := ParseColor(c.Color)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrCodeInvalidConfig, err, "device class %q", c.Name)
		}
		colors[c.ID] = col
	}

	centers, err := project(doc, pos, opts)
	if err != nil {
		return nil, err
	}

	s := &Scene{
		Width:        opts.Width,
		Height:       opts.Height,
		NodeRadius:   opts.NodeRadius,
		ArrowSize:    opts.ArrowSize,
		FontSize:     opts.FontSize,
		Background:   BackgroundColor,
		LabelColor:   LabelColor,
		OverlayColor: OverlayColor,
	}

	for _, id := range DrawOrder(reg, opts.PreferLowerWeightEdge) {
		names := buckets[id]
		if len(names) == 0 {
			continue
		}
		class, _ := reg.Class(id)
		batch := EdgeBatch{Class: class, Color: colors[id], Width: lineWidth(reg, class, opts.WeightedLines)}
		for _, name := range names {
			e, ok := doc.Edge(name)
			if !ok || e.IsLoop() {
				continue
			}
			seg := clip(centers[e.From.Name], centers[e.To.Name], opts.NodeRadius)
			seg.Edge, seg.Source, seg.Target = name, e.From.Name, e.To.Name
			seg.Label = weightLabel(e.Weight)
			seg.Arrow = seg.Arrow && !opts.Undirected
			batch.Segments = append(batch.Segments, seg)
		}
		s.Batches = append(s.Batches, batch)
	}

	for _, p := range opts.Tree {
		seg := clip(centers[p.From], centers[p.To], opts.NodeRadius)
		seg.Edge, seg.Source, seg.Target = p.From+"-"+p.To, p.From, p.To
		seg.Arrow = false
		s.Overlay = append(s.Overlay, seg)
	}

	for _, n := range doc.Nodes() {
		c := centers[n.Name]
		s.Nodes = append(s.Nodes, NodeMark{Name: n.Name, Class: n.Class, Center: c, Color: colors[n.Class.ID]})
		s.NodeLabels = append(s.NodeLabels, Label{Text: n.Name, At: c})
	}

	for _, e := range doc.Edges() {
		text := weightLabel(e.Weight)
		from := centers[e.From.Name]
		if e.IsLoop() {
			s.EdgeLabels = append(s.EdgeLabels, Label{Text: text, At: Point{X: from.X, Y: from.Y - 2*opts.NodeRadius}})
			continue
		}
		to := centers[e.To.Name]
		s.EdgeLabels = append(s.EdgeLabels, Label{Text: text, At: lerp(from, to, EdgeLabelPosition)})
	}

	return s, nil
}

// project maps layout coordinates onto the canvas, preserving aspect ratio
// and flipping the y axis. Padding keeps nodes and labels inside the frame.
func project(doc *topology.Document, pos cache.Positions, opts SceneOptions) (map[string]Point, error) {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, name := range doc.NodeNames() {
		p, ok := pos[name]
		if !ok {
			return nil, apperrors.New(apperrors.ErrCodeInternal, "no position for node %q", name)
		}
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
	}

	pad := 2*opts.NodeRadius + opts.FontSize
	w := float64(opts.Width) - 2*pad
	h := float64(opts.Height) - 2*pad
	spanX, spanY := maxX-minX, maxY-minY

	scale := 0.0
	switch {
	case spanX > 0 && spanY > 0:
		scale = math.Min(w/spanX, h/spanY)
	case spanX > 0:
		scale = w / spanX
	case spanY > 0:
		scale = h / spanY
	}

	cx, cy := float64(opts.Width)/2, float64(opts.Height)/2
	midX, midY := (minX+maxX)/2, (minY+maxY)/2

	out := make(map[string]Point, doc.NodeCount())
	for _, name := range doc.NodeNames() {
		p := pos[name]
		out[name] = Point{
			X: cx + (p.X-midX)*scale,
			Y: cy - (p.Y-midY)*scale,
		}
	}
	return out, nil
}

// clip shortens the segment between two node centres to the node boundaries.
// Overlapping nodes get an unclipped segment without arrow.
func clip(from, to Point, r float64) Segment {
	dx, dy := to.X-from.X, to.Y-from.Y
	d := math.Hypot(dx, dy)
	if d <= 2*r {
		return Segment{From: from, To: to}
	}
	ux, uy := dx/d, dy/d
	return Segment{
		From:  Point{X: from.X + ux*r, Y: from.Y + uy*r},
		To:    Point{X: to.X - ux*r, Y: to.Y - uy*r},
		Arrow: true,
	}
}

// lineWidth is never below 1 pixel.
func lineWidth(reg topology.Registry, c topology.DeviceClass, weighted bool) float64 {
	if !weighted {
		return DefaultLineWidth
	}
	maxWeight := c.Weight
	for _, other := range reg.Classes() {
		maxWeight = max(maxWeight, other.Weight)
	}
	return math.Max(1, float64(maxWeight+1-c.Weight))
}

func weightLabel(w float64) string {
	return strconv.FormatFloat(w, 'g', -1, 64)
}

func lerp(a, b Point, t float64) Point {
	return Point{X: a.X + (b.X-a.X)*t, Y: a.Y + (b.Y-a.Y)*t}
}

// ArrowHead returns the two barb points of an arrow head at seg.To.
func ArrowHead(seg Segment, size float64) (Point, Point) {
	dx, dy := seg.To.X-seg.From.X, seg.To.Y-seg.From.Y
	d := math.Hypot(dx, dy)
	if d == 0 {
		return seg.To, seg.To
	}
	ux, uy := dx/d, dy/d
	bx, by := seg.To.X-ux*size, seg.To.Y-uy*size
	px, py := -uy*size/2, ux*size/2
	return Point{X: bx + px, Y: by + py}, Point{X: bx - px, Y: by - py}
}
