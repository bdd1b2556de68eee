package nodelink

import (
	"bytes"
	"context"
	"os"
	"path/filepath"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/stackreport/pkg/errors"
	"github.com/matzehuels/stackreport/pkg/render/templates"
	"github.com/matzehuels/stackreport/pkg/render/toolexec"
)

// File names inside the scratch directory.
const (
	DOTFile = "temp.dot"
	SVGFile = "temp.svg"
)

// DefaultTool is the Graphviz executable looked up on PATH.
const DefaultTool = "dot"

// Layouter turns the DOT file at dotPath into an SVG file at svgPath.
type Layouter interface {
	Layout(ctx context.Context, dotPath, svgPath string) error
}

// Renderer turns a graph record into SVG markup.
type Renderer struct {
	Templates templates.Renderer
	Layouter  Layouter

	// SkippedAnchor, if set, is called with each anchor id that stayed on
	// its group because the group holds no text.
	SkippedAnchor func(id string)
}

// Render writes the DOT source for rec into dir, lays it out and returns
// the SVG with anchor ids relocated.
func (r *Renderer) Render(ctx context.Context, dir string, rec templates.Record) ([]byte, error) {
	dot, err := r.Templates.Render(templates.Graph, rec)
	if err != nil {
		return nil, err
	}

	dotPath := filepath.Join(dir, DOTFile)
	svgPath := filepath.Join(dir, SVGFile)
	if err := os.WriteFile(dotPath, []byte(dot), 0o644); err != nil {
		return nil, errors.Wrap(errors.ErrCodeFilesystem, err, "write %s", dotPath)
	}

	if err := r.Layouter.Layout(ctx, dotPath, svgPath); err != nil {
		return nil, err
	}

	svg, err := os.ReadFile(svgPath)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFilesystem, err, "read %s", svgPath)
	}
	out, skipped, err := RelocateAnchors(svg)
	if err != nil {
		return nil, err
	}
	if r.SkippedAnchor != nil {
		for _, id := range skipped {
			r.SkippedAnchor(id)
		}
	}
	return out, nil
}

// ExecLayouter runs `dot -Tsvg -o<svg> <dot>`.
type ExecLayouter struct {
	Runner toolexec.Runner
	Tool   string // defaults to DefaultTool
}

// Layout runs the tool. Output on either stream fails the layout with a
// *errors.ToolError coded ErrCodeGraphToolFailure; the exit status is not
// checked on its own, a missing SVG is caught by the caller.
func (l *ExecLayouter) Layout(ctx context.Context, dotPath, svgPath string) error {
	tool := l.Tool
	if tool == "" {
		tool = DefaultTool
	}
	res, err := l.Runner.Run(ctx, toolexec.Command{
		Name: tool,
		Args: []string{"-Tsvg", "-o" + svgPath, dotPath},
		Dir:  filepath.Dir(dotPath),
	})
	if err != nil || !res.Clean() {
		return &errors.ToolError{
			Kind:     errors.ErrCodeGraphToolFailure,
			Tool:     tool,
			ExitCode: res.ExitCode,
			Stdout:   res.Stdout,
			Stderr:   res.Stderr,
			Cause:    err,
		}
	}
	return nil
}

// EmbeddedLayouter lays out DOT in process using go-graphviz.
type EmbeddedLayouter struct{}

// Layout parses the DOT file and writes the rendered SVG.
func (EmbeddedLayouter) Layout(ctx context.Context, dotPath, svgPath string) error {
	src, err := os.ReadFile(dotPath)
	if err != nil {
		return errors.Wrap(errors.ErrCodeFilesystem, err, "read %s", dotPath)
	}

	svg, err := RenderSVG(ctx, src)
	if err != nil {
		return err
	}
	if err := os.WriteFile(svgPath, svg, 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeFilesystem, err, "write %s", svgPath)
	}
	return nil
}

// RenderSVG renders DOT source to SVG using the embedded Graphviz.
func RenderSVG(ctx context.Context, dot []byte) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeGraphToolFailure, err, "init graphviz")
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes(dot)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeGraphToolFailure, err, "parse DOT")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeGraphToolFailure, err, "render")
	}
	return buf.Bytes(), nil
}

var (
	_ Layouter = (*ExecLayouter)(nil)
	_ Layouter = EmbeddedLayouter{}
)
