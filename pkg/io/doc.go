// Package io provides JSON import and export for ADMGs.
//
// # JSON Format
//
// A graph is an object with a node array and two edge arrays:
//
//	{
//	  "title": "Front-door graph",
//	  "nodes": [
//	    {"id": "X"},
//	    {"id": "M", "properties": {"label": "mediator"}},
//	    {"id": "Y"}
//	  ],
//	  "edges": [
//	    {"from": "X", "to": "M"},
//	    {"from": "M", "to": "Y"}
//	  ],
//	  "bidirected": [
//	    {"from": "X", "to": "Y"}
//	  ]
//	}
//
// "edges" holds directed edges. "bidirected" holds hidden common causes; each
// pair appears once and the direction of from/to carries no meaning. Only
// "nodes" is required. The optional "properties" object is stored as the node's
// properties and written back unchanged.
//
// # Import
//
// Use [ImportJSON] to read a graph from a file path, or [ReadJSON] to read
// from any io.Reader. Both reject duplicate node IDs and edges naming unknown
// nodes. Errors are wrapped with the node or edge that caused them.
//
// # Export
//
// Use [ExportJSON] or [WriteJSON]. Output is deterministic: nodes sorted by
// ID, edges sorted by (from, to), bidirected pairs written once with
// from < to. Import followed by export is the identity on that form.
package io
