// Package plot renders report plots to SVG with gnuplot.
//
// A render writes two files into the scratch directory, plot.dat with one
// line per point and plot.txt holding the rendered plot script, then runs
// the tool there and reads back the plot.svg it produced. The script
// refers to both files by bare name, so the tool must run with the
// scratch directory as its working directory.
package plot

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/matzehuels/stackreport/pkg/errors"
	"github.com/matzehuels/stackreport/pkg/render/templates"
	"github.com/matzehuels/stackreport/pkg/render/toolexec"
)

// File names inside the scratch directory.
const (
	DataFile   = "plot.dat"
	ScriptFile = "plot.txt"
	OutputFile = "plot.svg"
)

// DefaultTool is the plotting executable looked up on PATH.
const DefaultTool = "gnuplot"

// Renderer turns a plot record into SVG markup.
//
// The record must carry "headings" ([]string) for the plot template and
// "points", a list of records each holding "values" ([]string).
type Renderer struct {
	Templates templates.Renderer
	Runner    toolexec.Runner
	Tool      string // defaults to DefaultTool
}

// Render writes the data and script files into dir, runs the plot tool
// and returns the SVG it wrote, unmodified.
//
// The tool must exit 0 and print nothing on either stream; a warning on
// stderr is a failure reported as a *errors.ToolError with code
// ErrCodePlotToolFailure.
func (r *Renderer) Render(ctx context.Context, dir string, rec templates.Record) ([]byte, error) {
	rows, err := pointValues(rec)
	if err != nil {
		return nil, err
	}
	data, err := FormatData(rows)
	if err != nil {
		return nil, err
	}
	if err := writeFile(filepath.Join(dir, DataFile), data); err != nil {
		return nil, err
	}

	script, err := r.Templates.Render(templates.Plot, rec)
	if err != nil {
		return nil, err
	}
	if err := writeFile(filepath.Join(dir, ScriptFile), script); err != nil {
		return nil, err
	}

	tool := r.Tool
	if tool == "" {
		tool = DefaultTool
	}
	res, err := r.Runner.Run(ctx, toolexec.Command{Name: tool, Args: []string{ScriptFile}, Dir: dir})
	if err != nil || !res.Succeeded() {
		return nil, &errors.ToolError{
			Kind:     errors.ErrCodePlotToolFailure,
			Tool:     tool,
			ExitCode: res.ExitCode,
			Stdout:   res.Stdout,
			Stderr:   res.Stderr,
			Cause:    err,
		}
	}

	path := filepath.Join(dir, OutputFile)
	svg, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFilesystem, err, "read %s", path)
	}
	return svg, nil
}

// FormatData renders the plot data file: one line per point, values
// separated by single spaces. The first two columns are written bare
// (x and y) and must be numbers; a point whose x or y is empty or not
// numeric fails with ErrCodeInvalidInput. Every later column is
// double-quoted with embedded quotes escaped and line breaks folded to
// spaces, so a label never splits its point across lines.
func FormatData(rows [][]string) (string, error) {
	var b strings.Builder
	for p, row := range rows {
		for i, v := range row {
			if i > 0 {
				b.WriteByte(' ')
			}
			if i < 2 {
				if _, err := strconv.ParseFloat(v, 64); err != nil {
					return "", errors.New(errors.ErrCodeInvalidInput, "plot point %d: column %d %q is not a number", p, i, v)
				}
				b.WriteString(v)
				continue
			}
			b.WriteByte('"')
			b.WriteString(labelReplacer.Replace(v))
			b.WriteByte('"')
		}
		b.WriteByte('\n')
	}
	return b.String(), nil
}

var labelReplacer = strings.NewReplacer(`"`, `\"`, "\r\n", " ", "\n", " ", "\r", " ")

func pointValues(rec templates.Record) ([][]string, error) {
	raw, ok := rec["points"]
	if !ok {
		return nil, errors.New(errors.ErrCodeTemplateRender, "plot record has no points")
	}
	points, ok := raw.([]templates.Record)
	if !ok {
		return nil, errors.New(errors.ErrCodeInternal, "plot points: unexpected type %T", raw)
	}
	rows := make([][]string, 0, len(points))
	for i, p := range points {
		values, ok := p["values"].([]string)
		if !ok {
			return nil, errors.New(errors.ErrCodeInternal, "plot point %d: unexpected values type %T", i, p["values"])
		}
		rows = append(rows, values)
	}
	return rows, nil
}

func writeFile(path, content string) error {
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeFilesystem, err, "write %s", path)
	}
	return nil
}
