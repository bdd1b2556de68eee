// Package render groups the renderers that turn a report document into
// one HTML page.
//
// # Layout
//
//   - [html]: the orchestrator. An [html.Engine] owns a scratch directory
//     and walks the document bottom-up, rendering each node through its
//     template and splicing the children's output into the parent.
//   - [templates]: the six text/template sources (report, multiline,
//     branch, table, plot, graph), built in or loaded from a directory.
//   - [plot]: writes gnuplot data and script files and returns the SVG.
//   - [nodelink]: writes a DOT script, lays it out with Graphviz and moves
//     anchor ids onto the text elements so bookmarks land on labels.
//   - [toolexec]: runs the external tools with an explicit working
//     directory and a strict success check.
//
// Text-only documents never start a subprocess.
//
//	engine, err := html.New(html.WithTempRoot(dir))
//	if err != nil {
//	    return err
//	}
//	defer engine.Close()
//	err = engine.Render(ctx, root, shortcuts, w)
//
// [html]: github.com/matzehuels/stackreport/pkg/render/html
// [templates]: github.com/matzehuels/stackreport/pkg/render/templates
// [plot]: github.com/matzehuels/stackreport/pkg/render/plot
// [nodelink]: github.com/matzehuels/stackreport/pkg/render/nodelink
// [toolexec]: github.com/matzehuels/stackreport/pkg/render/toolexec
package render
