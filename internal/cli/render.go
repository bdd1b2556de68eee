package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"github.com/matzehuels/stackreport/pkg/errors"
	pkgio "github.com/matzehuels/stackreport/pkg/io"
	"github.com/matzehuels/stackreport/pkg/pipeline"
	"github.com/matzehuels/stackreport/pkg/report"
)

// renderOpts holds the command-line flags for the render command.
// Unset flags fall back to the config file.
type renderOpts struct {
	output      string   // output file; empty writes to stdout
	templateDir string   // override template directory
	tempRoot    string   // parent of the scratch directory
	plotTool    string   // gnuplot executable
	graphTool   string   // dot executable
	engine      string   // graph layout engine: exec or embedded
	keepTemp    bool     // keep the scratch directory after rendering
	shortcuts   []string // name=key pairs replacing the document's shortcuts
	noCache     bool     // bypass the cache entirely
	refresh     bool     // re-render and overwrite the cached page
	pick        bool     // choose a subtree interactively and render only that
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render <document.json|->",
		Short: "Render a report document to HTML",
		Long: `Render a JSON report document into a single HTML page.

Plots are drawn with gnuplot and graphs with Graphviz; both must be in PATH
unless --engine=embedded is used for graphs. Use "-" to read the document
from stdin.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			popts, err := c.pipelineOptions()
			if err != nil {
				return err
			}
			if err := applyRenderFlags(cmd, &popts, opts); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), cmd, args[0], popts, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().StringVar(&opts.templateDir, "templates", "", "directory with override templates")
	cmd.Flags().StringVar(&opts.tempRoot, "temp-root", "", "parent directory for scratch files")
	cmd.Flags().StringVar(&opts.plotTool, "plot-tool", "", "gnuplot executable")
	cmd.Flags().StringVar(&opts.graphTool, "graph-tool", "", "dot executable")
	cmd.Flags().StringVar(&opts.engine, "engine", "", "graph layout engine: exec (default), embedded")
	cmd.Flags().BoolVar(&opts.keepTemp, "keep-temp", false, "keep the scratch directory")
	cmd.Flags().StringArrayVarP(&opts.shortcuts, "shortcut", "s", nil, "shortcut as name=key (repeatable)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the page cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "re-render even if the page is cached")
	cmd.Flags().BoolVar(&opts.pick, "select", false, "pick a subtree to render interactively")

	return cmd
}

// applyRenderFlags overlays explicitly set flags on opts.
func applyRenderFlags(cmd *cobra.Command, opts *pipeline.Options, ro renderOpts) error {
	flags := cmd.Flags()
	if flags.Changed("templates") {
		opts.TemplateDir = ro.templateDir
	}
	if flags.Changed("temp-root") {
		opts.TempRoot = ro.tempRoot
	}
	if flags.Changed("plot-tool") {
		opts.PlotTool = ro.plotTool
	}
	if flags.Changed("graph-tool") {
		opts.GraphTool = ro.graphTool
	}
	if flags.Changed("engine") {
		if err := pipeline.ValidateGraphEngine(ro.engine); err != nil {
			return err
		}
		opts.GraphEngine = ro.engine
	}
	if flags.Changed("keep-temp") {
		opts.KeepTemp = ro.keepTemp
	}
	if len(ro.shortcuts) > 0 {
		shortcuts, err := parseShortcuts(ro.shortcuts)
		if err != nil {
			return err
		}
		opts.Shortcuts = shortcuts
	}
	opts.Refresh = ro.refresh
	return nil
}

// parseShortcuts parses "name=key" flag values.
func parseShortcuts(values []string) ([]report.Shortcut, error) {
	out := make([]report.Shortcut, 0, len(values))
	for _, v := range values {
		name, key, ok := strings.Cut(v, "=")
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidInput, "shortcut %q: want name=key", v)
		}
		if err := errors.ValidateShortcutName(name); err != nil {
			return nil, err
		}
		r, size := utf8.DecodeRuneInString(key)
		if size == 0 || size != len(key) {
			return nil, errors.New(errors.ErrCodeInvalidInput, "shortcut %q: key must be a single letter", v)
		}
		if _, err := report.KeyCode(r); err != nil {
			return nil, err
		}
		out = append(out, report.Shortcut{Name: name, Key: r})
	}
	return out, nil
}

func (c *CLI) runRender(ctx context.Context, cmd *cobra.Command, input string, opts pipeline.Options, ro renderOpts) error {
	if input == "-" || ro.pick {
		doc, err := readDocument(cmd.InOrStdin(), input)
		if err != nil {
			return err
		}
		if ro.pick {
			sub, ok, err := pickSubtree(ctx, doc.Root)
			if err != nil {
				return err
			}
			if !ok {
				printInfo("Nothing selected")
				return nil
			}
			doc = &pkgio.Document{Root: sub, Shortcuts: doc.Shortcuts}
		}
		opts.Document = doc
	} else {
		opts.Input = input
	}

	runner, err := c.newRunner(ctx, ro.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	prog := newProgress(c.Logger)
	spin := newSpinner(ctx, os.Stderr, "Rendering document...")
	spin.Start()
	result, err := runner.Execute(ctx, opts)
	spin.Stop()
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Rendered %d nodes", result.Stats.Nodes))

	if ro.output == "" {
		_, err := cmd.OutOrStdout().Write(result.HTML)
		return err
	}
	if err := os.WriteFile(ro.output, result.HTML, 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeFilesystem, err, "write %s", ro.output)
	}

	printSuccess("Rendered %s", input)
	printStats(result.Stats.Nodes, len(result.HTML), result.CacheHit)
	printFile(ro.output)
	if opts.KeepTemp {
		printWarning("Scratch files were kept under %s", scratchRoot(opts.TempRoot))
	}
	return nil
}

// readDocument decodes a document from stdin ("-") or a file.
func readDocument(stdin io.Reader, input string) (*pkgio.Document, error) {
	if input == "-" {
		return pkgio.ReadJSON(stdin)
	}
	return pkgio.ImportJSON(input)
}

func scratchRoot(tempRoot string) string {
	if tempRoot == "" {
		tempRoot = os.TempDir()
	}
	return tempRoot
}
