// Package sink writes a [render.Scene] in a concrete output format.
//
// # Formats
//
// The format is picked from the output file extension with [FormatFromPath]:
//
//   - .svg: [RenderSVG], hand-written SVG with one <g> per edge batch
//   - .png, .jpg, .jpeg: [RenderPNG] / [RenderJPEG], rasterised with gg
//   - .pdf: [RenderPDF], the SVG converted by rsvg-convert
//   - .dot, .gv: [RenderDOT], Graphviz DOT with pinned node positions
//
// Unknown extensions fail with code INVALID_FORMAT. Callers check the format
// before doing any other work.
//
// All sinks paint in the same order: edge batches, spanning-tree overlay,
// nodes, node labels, edge labels. [WithTitle] and [WithoutLabels] apply to
// every format that can express them.
//
// # Usage
//
//	f, err := sink.FormatFromPath("net.png")
//	...
//	data, err := sink.Render(ctx, scene, f, sink.WithTitle("campus"))
package sink
