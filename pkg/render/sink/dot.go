package sink

import (
	"bytes"
	"context"
	"fmt"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/topoviz/pkg/render"
)

// pointsPerInch converts canvas pixels to Graphviz inches.
const pointsPerInch = 72.0

// ToDOT converts a scene to Graphviz DOT. Node positions are pinned ("!") so
// the layout engine keeps the computed placement. Edges are emitted batch by
// batch in draw order, then the spanning tree as dashed undirected edges.
func ToDOT(s *render.Scene, opts ...Option) string {
	o := newOptions(opts)

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	if o.title != "" {
		fmt.Fprintf(&buf, "  label=%q;\n", o.title)
		buf.WriteString("  labelloc=t;\n")
	}
	fmt.Fprintf(&buf, "  bgcolor=%q;\n", s.Background.Hex())
	buf.WriteString("  overlap=true;\n")
	buf.WriteString("  splines=false;\n")
	fmt.Fprintf(&buf, "  node [shape=circle, style=filled, fixedsize=true, width=%.3f, fontsize=%.0f];\n",
		2*s.NodeRadius/pointsPerInch, s.FontSize)
	fmt.Fprintf(&buf, "  edge [fontsize=%.0f];\n", s.FontSize)
	buf.WriteString("\n")

	for _, n := range s.Nodes {
		// Graphviz puts the origin bottom-left.
		x := n.Center.X / pointsPerInch
		y := (float64(s.Height) - n.Center.Y) / pointsPerInch
		label := n.Name
		if !o.labels {
			label = ""
		}
		fmt.Fprintf(&buf, "  %q [pos=\"%.3f,%.3f!\", fillcolor=%q, class=%q, label=%q];\n",
			n.Name, x, y, n.Color.Hex(), n.Class.Name, label)
	}

	for _, b := range s.Batches {
		fmt.Fprintf(&buf, "\n  // %s\n", b.Class.Name)
		for _, seg := range b.Segments {
			label := seg.Label
			if !o.labels {
				label = ""
			}
			dir := "forward"
			if !seg.Arrow {
				dir = "none"
			}
			fmt.Fprintf(&buf, "  %q -> %q [id=%q, color=%q, penwidth=%g, dir=%s, label=%q];\n",
				seg.Source, seg.Target, seg.Edge, b.Color.Hex(), b.Width, dir, label)
		}
	}

	if len(s.Overlay) > 0 {
		buf.WriteString("\n  // spanning tree\n")
		for _, seg := range s.Overlay {
			fmt.Fprintf(&buf, "  %q -> %q [style=dashed, dir=none, color=%q];\n",
				seg.Source, seg.Target, s.OverlayColor.Hex())
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

// RenderDOT runs neato over [ToDOT]'s output, positions pinned, and returns
// the DOT annotated with the resulting geometry.
func RenderDOT(ctx context.Context, s *render.Scene, opts ...Option) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	gv.SetLayout(graphviz.NEATO)

	g, err := graphviz.ParseBytes([]byte(ToDOT(s, opts...)))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.XDOT, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
