package pipeline

import (
	"context"
	"time"

	pkgio "github.com/matzehuels/stackreport/pkg/io"
	"github.com/matzehuels/stackreport/pkg/observability"
	"github.com/matzehuels/stackreport/pkg/report"
)

// Load returns the document named by opts with the effective shortcut
// table applied.
func Load(ctx context.Context, opts Options) (*pkgio.Document, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	hooks := observability.Render()
	src := opts.source()
	hooks.OnLoadStart(ctx, src)
	start := time.Now()

	doc := opts.Document
	var err error
	if doc == nil {
		doc, err = pkgio.ImportJSON(opts.Input)
	}
	if err != nil {
		hooks.OnLoadComplete(ctx, src, 0, time.Since(start), err)
		return nil, err
	}

	if opts.Shortcuts != nil {
		doc = &pkgio.Document{Root: doc.Root, Shortcuts: opts.Shortcuts}
	}

	nodes := report.Count(doc.Root)
	hooks.OnLoadComplete(ctx, src, nodes, time.Since(start), nil)
	opts.Logger.Debug("loaded document", "source", src, "nodes", nodes, "shortcuts", len(doc.Shortcuts))
	return doc, nil
}
