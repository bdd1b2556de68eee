// Package nodelink renders report graphs as node-link diagrams with Graphviz.
//
// # Overview
//
// A graph record is rendered through the graph template into DOT source,
// written to temp.dot in the scratch directory, and laid out into
// temp.svg by a [Layouter]. The SVG is then passed through
// [RelocateAnchorIDs] so bookmark ids land on elements browsers can
// scroll to.
//
// # Layouters
//
// Two layout backends are provided:
//
//   - [ExecLayouter] runs the dot executable. Any output on stdout or
//     stderr is treated as failure, even when the tool exits 0.
//   - [EmbeddedLayouter] lays out the same DOT in process with
//     [github.com/goccy/go-graphviz], for hosts without Graphviz installed.
//
// # Usage
//
//	r := &nodelink.Renderer{
//	    Templates: store,
//	    Layouter:  &nodelink.ExecLayouter{Runner: toolexec.ExecRunner{}},
//	}
//	svg, err := r.Render(ctx, scratchDir, record)
//
// # Anchor ids
//
// For a node or cluster with a URL, Graphviz wraps the link in a group
// whose id is the element id prefixed with "a_". That id is not usable as
// a page bookmark, so [RelocateAnchorIDs] moves it, without the prefix,
// onto the first text element inside the group.
package nodelink
