// Package render turns a laid-out document into a drawable [Scene].
//
// # Overview
//
// Rendering is split in two. This package decides what to draw and in which
// order; the sink subpackage turns a [Scene] into bytes (SVG, PNG, JPEG, PDF
// or DOT).
//
// # Edge classification
//
// Every edge is assigned to exactly one device class by an [EdgePolicy]:
//
//   - [DestinationPolicy] ([ModeDirected]): the class of the destination node
//   - [MaxWeightPolicy] ([ModeUndirected]): the endpoint class with the
//     higher weight; on equal weights the destination's class
//
// [Classify] runs the policy once over a document and returns [Buckets], an
// explicit class→edges map. Classification only affects colour and grouping;
// it never feeds back into layout.
//
// # Draw order
//
// [DrawOrder] sorts the registry's classes by weight. With
// preferLowerWeightEdge set the order is descending, so the lowest-weight
// class is painted last and ends up on top.
//
// # Scenes
//
// [BuildScene] maps layout positions onto the canvas and emits one
// [EdgeBatch] per non-empty bucket in draw order, followed by the optional
// spanning-tree overlay, the nodes, node labels and edge labels. Sinks paint
// a scene strictly in that order.
package render
