// Package templates holds the six report templates and renders records
// through them.
//
// # Templates
//
// One template exists per node family:
//
//   - report.tmpl: the HTML document shell (fields: reports, body)
//   - multiline.tmpl: Line and Multiline nodes
//   - branch.tmpl: Branch nodes
//   - table.tmpl: Table nodes
//   - plot.tmpl: the gnuplot script for Plot nodes
//   - graph.tmpl: the Graphviz DOT script for Graph nodes
//
// [Default] parses the built-in copies compiled into the binary. [Load]
// parses an override directory, which must contain all six files.
// Templates are parsed once and reused for every render.
//
// # Syntax
//
// Templates use [text/template] with missingkey=error: referencing a field
// the record does not carry is a render error rather than empty output.
// Output is not escaped automatically, because child nodes arrive as
// finished markup; templates escape plain values with the builtin html
// function. The sprig text functions ([github.com/Masterminds/sprig/v3])
// are available, plus escape, which backslash-escapes backslashes and
// double quotes for strings embedded in gnuplot and DOT scripts.
//
// # Records
//
// A record is a map[string]any built by the renderer. Templates never see
// report node types, only strings, booleans, numbers and nested records.
package templates
