package sink

import (
	"bytes"
	"encoding/xml"
	"fmt"

	"github.com/matzehuels/topoviz/pkg/buildinfo"
	"github.com/matzehuels/topoviz/pkg/render"
)

const fontFamily = "Helvetica, Arial, sans-serif"

// RenderSVG renders s as a standalone SVG document.
func RenderSVG(s *render.Scene, opts ...Option) []byte {
	r := newOptions(opts)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %d %d" width="%d" height="%d">`+"\n",
		s.Width, s.Height, s.Width, s.Height)
	fmt.Fprintf(&buf, "  <!-- generated by %s -->\n", escape(buildinfo.UserAgent()))
	if r.title != "" {
		fmt.Fprintf(&buf, "  <title>%s</title>\n", escape(r.title))
	}
	fmt.Fprintf(&buf, `  <rect width="100%%" height="100%%" fill="%s"/>`+"\n", s.Background.Hex())

	for _, b := range s.Batches {
		fmt.Fprintf(&buf, `  <g class="edges" data-class="%s" stroke="%s" fill="%s" stroke-width="%g">`+"\n",
			escape(b.Class.Name), b.Color.Hex(), b.Color.Hex(), b.Width)
		for _, seg := range b.Segments {
			writeSegment(&buf, seg, s.ArrowSize)
		}
		buf.WriteString("  </g>\n")
	}

	if len(s.Overlay) > 0 {
		fmt.Fprintf(&buf, `  <g class="spanning-tree" stroke="%s" stroke-width="1" stroke-dasharray="6 4">`+"\n", s.OverlayColor.Hex())
		for _, seg := range s.Overlay {
			writeSegment(&buf, seg, 0)
		}
		buf.WriteString("  </g>\n")
	}

	buf.WriteString(`  <g class="nodes">` + "\n")
	for _, n := range s.Nodes {
		fmt.Fprintf(&buf, `    <circle id="node-%s" cx="%.2f" cy="%.2f" r="%.2f" fill="%s"/>`+"\n",
			escape(n.Name), n.Center.X, n.Center.Y, s.NodeRadius, n.Color.Hex())
	}
	buf.WriteString("  </g>\n")

	if r.labels {
		writeLabels(&buf, "node-labels", s.NodeLabels, s)
		writeLabels(&buf, "edge-labels", s.EdgeLabels, s)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func writeSegment(buf *bytes.Buffer, seg render.Segment, arrow float64) {
	fmt.Fprintf(buf, `    <line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f"/>`+"\n",
		seg.From.X, seg.From.Y, seg.To.X, seg.To.Y)
	if seg.Arrow && arrow > 0 {
		l, r := render.ArrowHead(seg, arrow)
		fmt.Fprintf(buf, `    <polygon points="%.2f,%.2f %.2f,%.2f %.2f,%.2f"/>`+"\n",
			seg.To.X, seg.To.Y, l.X, l.Y, r.X, r.Y)
	}
}

func writeLabels(buf *bytes.Buffer, class string, labels []render.Label, s *render.Scene) {
	if len(labels) == 0 {
		return
	}
	fmt.Fprintf(buf, `  <g class="%s" font-family="%s" font-size="%.0f" fill="%s" text-anchor="middle" dominant-baseline="central">`+"\n",
		class, fontFamily, s.FontSize, s.LabelColor.Hex())
	for _, l := range labels {
		fmt.Fprintf(buf, `    <text x="%.2f" y="%.2f">%s</text>`+"\n", l.At.X, l.At.Y, escape(l.Text))
	}
	buf.WriteString("  </g>\n")
}

func escape(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
