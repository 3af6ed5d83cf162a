// Package pkg provides the libraries behind the topoviz diagram renderer.
//
// # Overview
//
// Topoviz draws network topology diagrams: devices are nodes, links are
// directed weighted edges, and every device belongs to a device class whose
// weight decides how edges are coloured and layered. The pkg directory is
// organized into these areas:
//
//  1. [topology] - The immutable document model (classes, nodes, edges)
//  2. [io] - JSON loading with validation, and canonical export
//  3. [graph], [layout], [spantree] - gonum-backed layout and spanning tree
//  4. [render] - Edge classification, draw order and scene building;
//     [render/sink] encodes scenes as SVG, PNG, JPEG, PDF or DOT
//  5. [cache] - The optional position side file
//  6. [pipeline] - Orchestration (load → classify → layout → render → save)
//  7. [config], [errors], [buildinfo], [observability] - Ambient support
//
// # Architecture
//
// The data flow of one run:
//
//	input.json
//	     ↓
//	[io] package (decode + validate → topology.Document)
//	     ↓
//	[render] package (classify edges into per-class buckets)
//	     ↓
//	[layout] package (positions, warm-started from [cache])
//	     ↓
//	[render] + [render/sink] (scene → SVG/PNG/JPEG/PDF/DOT)
//
// # Quick Start
//
//	reg := topology.DefaultRegistry()
//	doc, _ := io.ImportJSON("net.json", reg)
//
//	buckets := render.Classify(doc, render.DestinationPolicy{})
//	pos := layout.Compute(doc, nil, layout.DefaultOptions())
//
//	scene, _ := render.BuildScene(doc, buckets, pos, render.SceneOptions{
//	    PreferLowerWeightEdge: true,
//	})
//	svg := sink.RenderSVG(scene)
//
// Most callers use [pipeline.Runner], which also handles the position cache,
// configuration and logging.
package pkg
