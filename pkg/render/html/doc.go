// Package html renders report documents to a single HTML page.
//
// # Overview
//
// An [Engine] owns a parsed template set and a private scratch directory
// under <temp root>/graphs/<uuid>. [Engine.Render] walks the document tree
// post-order: every child is rendered to its own markup before the parent
// record is built, so parent templates only ever see strings. Lines,
// multilines, branches and tables are pure template substitution; plots
// and graphs go through gnuplot and Graphviz via [plot.Renderer] and
// [nodelink.Renderer].
//
// # Usage
//
//	eng, err := html.New(html.WithTemplateDir("templates/"), html.WithCleanup(true))
//	if err != nil {
//	    return err
//	}
//	defer eng.Close()
//
//	err = eng.Render(ctx, doc, []report.Shortcut{{Name: "summary", Key: 's'}}, w)
//
// # Errors
//
// The first failure aborts the render; nothing is written to w. Errors
// carry a code from [errors] and are prefixed with the path of the node
// that failed, e.g. "root/children[2]/graph".
//
// # Concurrency
//
// Scratch files have fixed names, so one Engine must not render
// concurrently. Separate engines never share a scratch directory and may
// run in parallel.
//
// [plot.Renderer]: github.com/matzehuels/stackreport/pkg/render/plot
// [nodelink.Renderer]: github.com/matzehuels/stackreport/pkg/render/nodelink
// [errors]: github.com/matzehuels/stackreport/pkg/errors
package html
