// Package pkg provides the core libraries for Stackreport.
//
// # Overview
//
// Stackreport renders hierarchical report documents (sections, tables,
// charts and graphs) into a single HTML page. Charts are drawn by gnuplot
// and graphs by Graphviz; everything else is plain templating.
//
// # Architecture
//
//	JSON document
//	     ↓
//	[io] (decode into the report model)
//	     ↓
//	[report] (Line, Multiline, Branch, Table, Plot, Graph)
//	     ↓
//	[render/html] (bottom-up walk, templates, external tools)
//	     ↓
//	HTML page
//
// [pipeline] wraps this flow with the page [cache] and
// [observability] hooks; the CLI and the preview server both use it.
//
// # Quick Start
//
//	import (
//	    "github.com/matzehuels/stackreport/pkg/render/html"
//	    "github.com/matzehuels/stackreport/pkg/report"
//	)
//
//	root := report.NewBranch(report.Values("Results"),
//	    report.NewLine(report.Text("all green")),
//	    report.NewPlot(report.Values("run", "ms")...).
//	        AddPoint(report.Values(1, 12.5)...).
//	        AddPoint(report.Values(2, 11.0)...),
//	)
//
//	engine, err := html.New()
//	if err != nil {
//	    return err
//	}
//	defer engine.Close()
//	err = engine.Render(ctx, root, nil, os.Stdout)
//
// # Main Packages
//
// [report] - The document model: scalar values, the six node kinds,
// graph nodes, edges and clusters, colours and keyboard shortcuts.
//
// [render] - Template store, tool execution, plot and graph renderers
// and the HTML engine.
//
// [errors] - Coded errors shared by every package.
//
// [config] - TOML configuration file.
//
// [report]: github.com/matzehuels/stackreport/pkg/report
// [render]: github.com/matzehuels/stackreport/pkg/render
// [render/html]: github.com/matzehuels/stackreport/pkg/render/html
// [io]: github.com/matzehuels/stackreport/pkg/io
// [pipeline]: github.com/matzehuels/stackreport/pkg/pipeline
// [cache]: github.com/matzehuels/stackreport/pkg/cache
// [observability]: github.com/matzehuels/stackreport/pkg/observability
// [errors]: github.com/matzehuels/stackreport/pkg/errors
// [config]: github.com/matzehuels/stackreport/pkg/config
package pkg
