// Package pipeline provides the load → render → cache flow shared by the
// render and serve commands.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Input:       "report.json",
//	    GraphEngine: pipeline.EngineEmbedded,
//	})
//	if err != nil {
//	    return err
//	}
//	os.Stdout.Write(result.HTML)
//
// The document is read with [github.com/matzehuels/stackreport/pkg/io],
// rendered by an [html.Engine] created for this run, and stored in the
// cache under a key covering the document, shortcuts, template sources
// and tool settings.
package pipeline

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/stackreport/pkg/errors"
	pkgio "github.com/matzehuels/stackreport/pkg/io"
	"github.com/matzehuels/stackreport/pkg/render/toolexec"
	"github.com/matzehuels/stackreport/pkg/report"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	// DefaultPlotTool is the gnuplot executable looked up in PATH.
	DefaultPlotTool = "gnuplot"

	// DefaultGraphTool is the Graphviz dot executable looked up in PATH.
	DefaultGraphTool = "dot"
)

// Graph layout engines.
const (
	EngineExec     = "exec"
	EngineEmbedded = "embedded"
)

// DefaultGraphEngine runs the dot executable.
const DefaultGraphEngine = EngineExec

// ValidGraphEngines is the set of supported graph layout engines.
var ValidGraphEngines = map[string]bool{
	EngineExec:     true,
	EngineEmbedded: true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options configures one pipeline run.
type Options struct {
	// Input is the path of a JSON document. Ignored when Document is set.
	Input string `json:"input,omitempty"`

	// Shortcuts replace the document's own shortcut table when non-nil.
	Shortcuts []report.Shortcut `json:"-"`

	// Engine options
	TemplateDir string `json:"template_dir,omitempty"`
	KeepTemp    bool   `json:"keep_temp,omitempty"`
	TempRoot    string `json:"temp_root,omitempty"`
	PlotTool    string `json:"plot_tool,omitempty"`
	GraphTool   string `json:"graph_tool,omitempty"`
	GraphEngine string `json:"graph_engine,omitempty"`

	// Refresh skips the cache lookup. The fresh result is still stored.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Document   *pkgio.Document `json:"-"`
	Logger     *log.Logger     `json:"-"`
	ToolRunner toolexec.Runner `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// HTML is the complete rendered page.
	HTML []byte

	// Key is the cache key of the page.
	Key string

	// CacheHit reports whether HTML came from the cache.
	CacheHit bool

	// Stats contains timing and size information.
	Stats Stats
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Nodes      int
	LoadTime   time.Duration
	RenderTime time.Duration
}

// =============================================================================
// Validation
// =============================================================================

// ValidateGraphEngine checks that engine is a known layout engine.
func ValidateGraphEngine(engine string) error {
	if !ValidGraphEngines[engine] {
		return errors.New(errors.ErrCodeInvalidInput, "invalid graph engine: %q (must be one of: exec, embedded)", engine)
	}
	return nil
}

// ValidateAndSetDefaults checks required fields and applies defaults.
// Calling it more than once has no further effect.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Document == nil && o.Input == "" {
		return errors.New(errors.ErrCodeInvalidInput, "input or document is required")
	}
	if o.Document == nil {
		if err := errors.ValidatePath(o.Input); err != nil {
			return fmt.Errorf("input: %w", err)
		}
	}
	if o.Document != nil && o.Document.Root == nil {
		return errors.New(errors.ErrCodeInvalidInput, "document has no root node")
	}

	if o.PlotTool == "" {
		o.PlotTool = DefaultPlotTool
	}
	if o.GraphTool == "" {
		o.GraphTool = DefaultGraphTool
	}
	if o.GraphEngine == "" {
		o.GraphEngine = DefaultGraphEngine
	}
	if err := ValidateGraphEngine(o.GraphEngine); err != nil {
		return err
	}
	if o.ToolRunner == nil {
		o.ToolRunner = toolexec.ExecRunner{}
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	o.validated = true
	return nil
}

// source names the document origin for logs and hooks.
func (o *Options) source() string {
	if o.Document != nil {
		return "inline"
	}
	return o.Input
}
