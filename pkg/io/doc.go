// Package io reads and writes network graph documents as JSON.
//
// # JSON Format
//
// A document is an object with two keyed sections. Node keys must equal the
// node's "name"; edge keys are the edge's identity and are kept verbatim:
//
//	{
//	  "nodes": {
//	    "A": {"name": "A", "options": 0, "devclass": 0},
//	    "B": {"name": "B", "options": 0, "devclass": 2}
//	  },
//	  "edges": {
//	    "A_to_B": {
//	      "from": "A", "to": "B",
//	      "address": {"host": "127.0.0.1", "port": 22643},
//	      "options": 0, "weight": 6
//	    }
//	  }
//	}
//
// Required: node name and devclass, edge from, to and weight. "options" and
// "address" may be omitted; a port must lie in [0, 65535].
//
// # Validation
//
// [ReadJSON] decodes sections in file order, so duplicate keys are detected
// rather than collapsed, and the resulting [topology.Document] iterates in
// the same order as the file. Any violation aborts the load with an error
// carrying code INVALID_DOCUMENT; no partial document is ever returned.
//
// All nodes are registered before any edge, regardless of which section
// appears first. Edges may only refer to nodes of the same document.
//
// # Export
//
// [WriteJSON] produces the canonical form of a document (fixed field set,
// document order, indented). Its output re-imports to an equal document.
package io
