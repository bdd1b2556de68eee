package html

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"reflect"

	"github.com/google/uuid"

	"github.com/matzehuels/stackreport/pkg/errors"
	"github.com/matzehuels/stackreport/pkg/render/nodelink"
	"github.com/matzehuels/stackreport/pkg/render/plot"
	"github.com/matzehuels/stackreport/pkg/render/templates"
	"github.com/matzehuels/stackreport/pkg/render/toolexec"
	"github.com/matzehuels/stackreport/pkg/report"
)

// ScratchSubdir is the directory under the temp root that holds all
// engine scratch directories.
const ScratchSubdir = "graphs"

// Option configures an [Engine].
type Option func(*Engine)

// WithTemplateDir loads the six templates from dir instead of the
// built-in set.
func WithTemplateDir(dir string) Option { return func(e *Engine) { e.templateDir = dir } }

// WithTemplates uses an already loaded template store.
// It takes precedence over [WithTemplateDir].
func WithTemplates(s *templates.Store) Option { return func(e *Engine) { e.templates = s } }

// WithCleanup controls whether [Engine.Close] removes the scratch directory.
// Cleanup is on by default.
func WithCleanup(on bool) Option { return func(e *Engine) { e.cleanup = on } }

// WithTempRoot places the scratch directory under root instead of
// [os.TempDir].
func WithTempRoot(root string) Option { return func(e *Engine) { e.tempRoot = root } }

// WithRunner sets the runner used for the external tools.
func WithRunner(r toolexec.Runner) Option { return func(e *Engine) { e.runner = r } }

// WithPlotTool overrides the gnuplot executable.
func WithPlotTool(name string) Option { return func(e *Engine) { e.plotTool = name } }

// WithGraphTool overrides the dot executable used by the default layouter.
func WithGraphTool(name string) Option { return func(e *Engine) { e.graphTool = name } }

// WithLayouter replaces the graph layout backend, e.g. with
// [nodelink.EmbeddedLayouter].
func WithLayouter(l nodelink.Layouter) Option { return func(e *Engine) { e.layouter = l } }

// WithSkippedAnchorFunc sets a callback for graph anchor ids that could
// not be moved onto a text element.
func WithSkippedAnchorFunc(fn func(id string)) Option {
	return func(e *Engine) { e.skippedAnchor = fn }
}

// Engine renders documents. Create one with [New] and release it with
// [Engine.Close].
type Engine struct {
	templateDir string
	templates   *templates.Store
	cleanup     bool
	tempRoot    string
	runner      toolexec.Runner
	plotTool    string
	graphTool   string
	layouter    nodelink.Layouter

	skippedAnchor func(id string)

	dir    string
	plot   *plot.Renderer
	graph  *nodelink.Renderer
	closed bool
}

// New parses the templates and creates the scratch directory.
func New(opts ...Option) (*Engine, error) {
	e := &Engine{
		cleanup: true,
		runner:  toolexec.ExecRunner{},
	}
	for _, opt := range opts {
		opt(e)
	}

	if e.templates == nil {
		var err error
		if e.templateDir != "" {
			e.templates, err = templates.Load(e.templateDir)
		} else {
			e.templates, err = templates.Default()
		}
		if err != nil {
			return nil, err
		}
	}

	if e.tempRoot == "" {
		e.tempRoot = os.TempDir()
	}
	dir, err := makeScratchDir(e.tempRoot)
	if err != nil {
		return nil, err
	}
	e.dir = dir

	if e.layouter == nil {
		e.layouter = &nodelink.ExecLayouter{Runner: e.runner, Tool: e.graphTool}
	}
	e.plot = &plot.Renderer{Templates: e.templates, Runner: e.runner, Tool: e.plotTool}
	e.graph = &nodelink.Renderer{Templates: e.templates, Layouter: e.layouter, SkippedAnchor: e.skippedAnchor}
	return e, nil
}

func makeScratchDir(root string) (string, error) {
	parent := filepath.Join(root, ScratchSubdir)
	if err := os.MkdirAll(parent, 0o755); err != nil {
		return "", errors.Wrap(errors.ErrCodeScratchDirUnavailable, err, "create %s", parent)
	}
	dir := filepath.Join(parent, uuid.NewString())
	// Mkdir rather than MkdirAll: an existing directory must never be reused.
	if err := os.Mkdir(dir, 0o755); err != nil {
		return "", errors.Wrap(errors.ErrCodeScratchDirUnavailable, err, "create %s", dir)
	}
	return dir, nil
}

// Dir returns the engine's scratch directory.
func (e *Engine) Dir() string { return e.dir }

// Templates returns the template store the engine renders with.
func (e *Engine) Templates() *templates.Store { return e.templates }

// Close removes the scratch directory if cleanup is enabled.
// Calling Close more than once is a no-op.
func (e *Engine) Close() error {
	if e.closed {
		return nil
	}
	e.closed = true
	if !e.cleanup {
		return nil
	}
	if err := os.RemoveAll(e.dir); err != nil {
		return errors.Wrap(errors.ErrCodeFilesystem, err, "remove %s", e.dir)
	}
	return nil
}

// Render renders root into the document shell and writes the page to w.
// Every shortcut key must be an ASCII letter.
func (e *Engine) Render(ctx context.Context, root report.Node, shortcuts []report.Shortcut, w io.Writer) error {
	reports, err := shortcutRecords(shortcuts)
	if err != nil {
		return err
	}

	body, err := e.RenderNode(ctx, root)
	if err != nil {
		return err
	}

	page, err := e.templates.Render(templates.Report, templates.Record{
		"reports": reports,
		"body":    body,
	})
	if err != nil {
		return err
	}
	if _, err := io.WriteString(w, page); err != nil {
		return errors.Wrap(errors.ErrCodeFilesystem, err, "write document")
	}
	return nil
}

// RenderNode renders n without the document shell.
func (e *Engine) RenderNode(ctx context.Context, n report.Node) (string, error) {
	if e.closed {
		return "", errors.New(errors.ErrCodeScratchDirUnavailable, "engine is closed")
	}
	return e.render(ctx, n, "root")
}

func (e *Engine) render(ctx context.Context, n report.Node, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	// every node type is a pointer; a typed nil is as unusable as a nil interface
	if n == nil || reflect.ValueOf(n).IsNil() {
		return "", errors.New(errors.ErrCodeInvalidInput, "%s: nil node", path)
	}

	switch v := n.(type) {
	case *report.Line:
		out, err := e.templates.Render(templates.Multiline, lineRecord(v))
		return out, nodeErr(path, "line", err)

	case *report.Multiline:
		out, err := e.templates.Render(templates.Multiline, multilineRecord(v))
		return out, nodeErr(path, "multiline", err)

	case *report.Branch:
		elems := make([]string, len(v.Children))
		for i, c := range v.Children {
			s, err := e.render(ctx, c, fmt.Sprintf("%s/children[%d]", path, i))
			if err != nil {
				return "", err
			}
			elems[i] = s
		}
		out, err := e.templates.Render(templates.Branch, branchRecord(v, elems))
		return out, nodeErr(path, "branch", err)

	case *report.Table:
		cells := make([][]string, len(v.Rows))
		for i, row := range v.Rows {
			cells[i] = make([]string, len(row))
			for j, c := range row {
				s, err := e.render(ctx, c, fmt.Sprintf("%s/rows[%d][%d]", path, i, j))
				if err != nil {
					return "", err
				}
				cells[i][j] = s
			}
		}
		out, err := e.templates.Render(templates.Table, tableRecord(v, cells))
		return out, nodeErr(path, "table", err)

	case *report.Plot:
		svg, err := e.plot.Render(ctx, e.dir, plotRecord(v))
		return string(svg), nodeErr(path, "plot", err)

	case *report.Graph:
		rec, err := graphRecord(v)
		if err != nil {
			return "", nodeErr(path, "graph", err)
		}
		svg, err := e.graph.Render(ctx, e.dir, rec)
		return string(svg), nodeErr(path, "graph", err)

	default:
		return "", errors.New(errors.ErrCodeUnsupported, "%s: unsupported node type %T", path, n)
	}
}

func nodeErr(path, kind string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s/%s: %w", path, kind, err)
}
