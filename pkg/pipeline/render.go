package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/matzehuels/stackreport/pkg/cache"
	pkgio "github.com/matzehuels/stackreport/pkg/io"
	"github.com/matzehuels/stackreport/pkg/observability"
	"github.com/matzehuels/stackreport/pkg/render/html"
	"github.com/matzehuels/stackreport/pkg/render/nodelink"
	"github.com/matzehuels/stackreport/pkg/render/templates"
	"github.com/matzehuels/stackreport/pkg/report"
)

// LoadTemplates returns the override templates in opts.TemplateDir, or
// the built-in set.
func LoadTemplates(opts Options) (*templates.Store, error) {
	if opts.TemplateDir != "" {
		return templates.Load(opts.TemplateDir)
	}
	return templates.Default()
}

// NewEngine creates an engine for one render.
func NewEngine(opts Options, store *templates.Store) (*html.Engine, error) {
	engineOpts := []html.Option{
		html.WithTemplates(store),
		html.WithCleanup(!opts.KeepTemp),
		html.WithTempRoot(opts.TempRoot),
		html.WithRunner(opts.ToolRunner),
		html.WithPlotTool(opts.PlotTool),
		html.WithGraphTool(opts.GraphTool),
	}
	if logger := opts.Logger; logger != nil {
		engineOpts = append(engineOpts, html.WithSkippedAnchorFunc(func(id string) {
			logger.Debug("graph anchor has no text element, id left on group", "id", id)
		}))
	}
	if opts.GraphEngine == EngineEmbedded {
		engineOpts = append(engineOpts, html.WithLayouter(nodelink.EmbeddedLayouter{}))
	}
	return html.New(engineOpts...)
}

// RenderDocument renders doc into a complete page without touching the
// cache.
func RenderDocument(ctx context.Context, doc *pkgio.Document, store *templates.Store, opts Options) ([]byte, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	engine, err := NewEngine(opts, store)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := engine.Close(); cerr != nil {
			opts.Logger.Warn("failed to remove scratch directory", "dir", engine.Dir(), "error", cerr)
		}
	}()
	if opts.KeepTemp {
		opts.Logger.Info("keeping scratch directory", "dir", engine.Dir())
	}

	hooks := observability.Render()
	nodes := report.Count(doc.Root)
	hooks.OnRenderStart(ctx, nodes)
	start := time.Now()

	var buf bytes.Buffer
	err = engine.Render(ctx, doc.Root, doc.Shortcuts, &buf)
	hooks.OnRenderComplete(ctx, nodes, time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// renderKey hashes everything that changes the page for doc.
func renderKey(keyer cache.Keyer, doc *pkgio.Document, store *templates.Store, opts Options) (string, error) {
	var buf bytes.Buffer
	if err := pkgio.WriteJSON(doc, &buf); err != nil {
		return "", fmt.Errorf("serialize document for cache key: %w", err)
	}

	var sources bytes.Buffer
	for _, id := range templates.All {
		sources.WriteString(store.Source(id))
		sources.WriteByte(0)
	}

	shortcuts := make([]string, len(doc.Shortcuts))
	for i, s := range doc.Shortcuts {
		shortcuts[i] = fmt.Sprintf("%s=%c", s.Name, s.Key)
	}

	return keyer.RenderKey(cache.Hash(buf.Bytes()), cache.RenderKeyOpts{
		Templates:   cache.Hash(sources.Bytes()),
		Shortcuts:   shortcuts,
		PlotTool:    opts.PlotTool,
		GraphTool:   opts.GraphTool,
		GraphEngine: opts.GraphEngine,
	}), nil
}
