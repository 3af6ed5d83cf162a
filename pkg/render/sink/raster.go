package sink

import (
	"bytes"
	"fmt"
	"image/jpeg"

	"github.com/fogleman/gg"

	"github.com/matzehuels/topoviz/pkg/render"
)

// DefaultJPEGQuality is the JPEG quality used by [Render].
const DefaultJPEGQuality = 90

// RenderPNG rasterises s and encodes it as PNG.
func RenderPNG(s *render.Scene, opts ...Option) ([]byte, error) {
	dc := paint(s, newOptions(opts))
	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// RenderJPEG rasterises s and encodes it as JPEG with the given quality (1-100).
func RenderJPEG(s *render.Scene, quality int, opts ...Option) ([]byte, error) {
	dc := paint(s, newOptions(opts))
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dc.Image(), &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}

// paint draws s onto a fresh gg context. Each edge batch is stroked as one
// path so batches layer strictly in order.
func paint(s *render.Scene, o options) *gg.Context {
	dc := gg.NewContext(s.Width, s.Height)
	dc.SetColor(s.Background)
	dc.Clear()

	for _, b := range s.Batches {
		dc.SetColor(b.Color)
		dc.SetLineWidth(b.Width)
		for _, seg := range b.Segments {
			dc.MoveTo(seg.From.X, seg.From.Y)
			dc.LineTo(seg.To.X, seg.To.Y)
		}
		dc.Stroke()
		for _, seg := range b.Segments {
			if !seg.Arrow {
				continue
			}
			l, r := render.ArrowHead(seg, s.ArrowSize)
			dc.MoveTo(seg.To.X, seg.To.Y)
			dc.LineTo(l.X, l.Y)
			dc.LineTo(r.X, r.Y)
			dc.ClosePath()
		}
		dc.Fill()
	}

	if len(s.Overlay) > 0 {
		dc.SetColor(s.OverlayColor)
		dc.SetLineWidth(1)
		dc.SetDash(6, 4)
		for _, seg := range s.Overlay {
			dc.MoveTo(seg.From.X, seg.From.Y)
			dc.LineTo(seg.To.X, seg.To.Y)
		}
		dc.Stroke()
		dc.SetDash()
	}

	for _, n := range s.Nodes {
		dc.SetColor(n.Color)
		dc.DrawCircle(n.Center.X, n.Center.Y, s.NodeRadius)
		dc.Fill()
	}

	if !o.labels {
		return dc
	}
	dc.SetColor(s.LabelColor)
	for _, l := range s.NodeLabels {
		dc.DrawStringAnchored(l.Text, l.At.X, l.At.Y, 0.5, 0.5)
	}
	for _, l := range s.EdgeLabels {
		dc.DrawStringAnchored(l.Text, l.At.X, l.At.Y, 0.5, 0.5)
	}
	return dc
}
