// Package report defines the report document model.
//
// # Overview
//
// A report is a tree of nodes. Interior nodes ([Branch], [Table]) hold
// further nodes of any kind; leaves carry text ([Line], [Multiline]), chart
// data ([Plot]) or a node/edge diagram ([Graph]). The tree is built by the
// caller and handed to a renderer (see package render/html), which reads it
// once and never mutates it.
//
// # Values
//
// Every piece of text in the model is a [Value]: an integer, a float, a
// string or an enumeration captured through its String method.
//
//	v := report.Int(42)
//	w := report.Enum(time.Monday) // stored as "Monday"
//
// # Node Kinds
//
//   - [Line]: one value with optional link, bookmark and colours
//   - [Multiline]: several values rendered as one block
//   - [Branch]: a labelled list of child nodes (arbitrary nesting)
//   - [Table]: optional headings plus rows of child nodes
//   - [Plot]: a titled series of points, rendered with gnuplot
//   - [Graph]: nodes, edges and subgraphs, rendered with Graphviz
//
// [Node] is a closed set: only the six types above implement it.
//
// # Graph References
//
// Graph edges and subgraphs refer to graph nodes by [NodeID], the node's
// index in [Graph.Nodes]. References are not checked when the graph is
// built; the renderer rejects out-of-range ids before it starts any
// external tool.
package report
