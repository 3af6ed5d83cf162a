// Package graph adapts a [topology.Document] to gonum's graph interfaces.
//
// The layout and spanning-tree engines both work on the same undirected,
// weighted view of a document:
//
//   - one gonum node per document node, IDs assigned in document order
//   - one undirected edge per unordered endpoint pair; when both directions
//     are declared the larger weight wins
//   - self-loops are dropped (gonum's simple graphs reject them)
//
// Node and edge iteration is ordered by ID, so engines that walk the graph
// behave the same on every run for the same document.
package graph
