// Package io provides JSON import and export for report documents.
//
// # Overview
//
// A document file holds the node tree to render and the shortcut table
// shown in the page header:
//
//	{
//	  "shortcuts": [{"name": "summary", "key": "s"}],
//	  "root": {
//	    "branch": {
//	      "label": ["Benchmarks"],
//	      "children": [
//	        {"line": {"value": "fast", "colour": "green"}},
//	        {"plot": {"heading": ["ns/op"], "points": [[1, 120], [2, 95, "tuned"]]}}
//	      ]
//	    }
//	  }
//	}
//
// # Nodes
//
// Every node is an object with exactly one key naming its type:
//
//   - line: value, url, bookmark, colour, background
//   - multiline: values, url, bookmark, colour, background
//   - branch: label, children, bookmark
//   - table: headings, rows (a list of rows, each a list of nodes)
//   - plot: heading, points (a list of value lists, x and y first)
//   - graph: rank_dir, nodes, edges, subgraphs
//
// Graph edges and subgraph members refer to graph nodes by their index in
// the nodes array. References are not checked on import; the renderer
// rejects out-of-range ids.
//
// # Values
//
// Values are JSON strings or numbers. Integral numbers import as integers,
// everything else as floats. Enum values export as their string form.
//
// # Import and Export
//
//	doc, err := io.ImportJSON("report.json")
//	err = io.ExportJSON(doc, "copy.json")
//
// [ReadJSON] and [WriteJSON] do the same over an io.Reader or io.Writer.
// Unknown fields are rejected so that typos surface as errors instead of
// silently dropped styling.
package io
