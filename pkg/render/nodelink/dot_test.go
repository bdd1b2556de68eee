package nodelink

import (
	"context"
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/stackreport/pkg/errors"
	"github.com/matzehuels/stackreport/pkg/render/templates"
	"github.com/matzehuels/stackreport/pkg/render/toolexec"
)

func graphRecord() templates.Record {
	return templates.Record{
		"rank_direction": "LR",
		"nodes": []templates.Record{
			{
				"name": "node0", "colour": "blue", "bgcolour": "lightblue", "border_width": 1,
				"has_url": true, "url": "https://example.com/a", "has_bookmark": true, "bookmark": "first",
				"rows": []templates.Record{{"values": []string{"A", "x<y"}}},
			},
			{
				"name": "node1", "colour": "blue", "bgcolour": "lightblue", "border_width": 1,
				"has_url": false, "url": "", "has_bookmark": false, "bookmark": "",
				"rows": []templates.Record{},
			},
		},
		"subgraphs": []templates.Record{
			{
				"name": "cluster_0", "colour": "lightblue",
				"has_url": false, "url": "", "has_bookmark": false, "bookmark": "",
				"has_label": true, "rows": []templates.Record{{"values": []string{"group"}}},
				"nodes": []string{"node0", "node1"},
			},
		},
		"edges": []templates.Record{
			{
				"from": "node0", "to": "node1", "colour": "black", "style": "solid",
				"line_width": 1, "constraint": true, "has_label": false, "label": []string{},
			},
		},
	}
}

// fakeDot writes a canned SVG to the path given by -o.
func fakeDot(svg string, calls *[]toolexec.Command) toolexec.RunnerFunc {
	return func(_ context.Context, c toolexec.Command) (toolexec.Result, error) {
		*calls = append(*calls, c)
		for _, a := range c.Args {
			if out, ok := strings.CutPrefix(a, "-o"); ok {
				return toolexec.Result{}, os.WriteFile(out, []byte(svg), 0o644)
			}
		}
		return toolexec.Result{}, nil
	}
}

func newRenderer(t *testing.T, l Layouter) *Renderer {
	t.Helper()
	store, err := templates.Default()
	if err != nil {
		t.Fatal(err)
	}
	return &Renderer{Templates: store, Layouter: l}
}

func TestRenderExec(t *testing.T) {
	dir := t.TempDir()
	var calls []toolexec.Command
	svg := `<svg><g id="a_first"><a xlink:href="https://example.com/a"><text x="1">A</text></a></g></svg>`
	r := newRenderer(t, &ExecLayouter{Runner: fakeDot(svg, &calls)})

	got, err := r.Render(context.Background(), dir, graphRecord())
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	if !strings.Contains(string(got), `<text id="first" x="1">`) {
		t.Errorf("anchor id not relocated: %s", got)
	}

	if len(calls) != 1 {
		t.Fatalf("tool called %d times, want 1", len(calls))
	}
	want := []string{"-Tsvg", "-o" + filepath.Join(dir, SVGFile), filepath.Join(dir, DOTFile)}
	if calls[0].Name != "dot" || strings.Join(calls[0].Args, " ") != strings.Join(want, " ") {
		t.Errorf("command = %v", calls[0])
	}

	dot, err := os.ReadFile(filepath.Join(dir, DOTFile))
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{
		`rankdir       = LR;`,
		`URL         = "https://example.com/a"`,
		`id          = "first"`,
		`<td>x&lt;y</td>`,
		`<tr><td>node1</td></tr>`,
		`subgraph cluster_0`,
		`"node0" -> "node1"`,
		`constraint  = true`,
	} {
		if !strings.Contains(string(dot), want) {
			t.Errorf("DOT missing %q:\n%s", want, dot)
		}
	}
}

func TestRenderReportsSkippedAnchors(t *testing.T) {
	var calls []toolexec.Command
	svg := `<svg><g id="a_cluster_0"><a><polygon/></a></g><g id="a_first"><a><text x="1">A</text></a></g></svg>`
	r := newRenderer(t, &ExecLayouter{Runner: fakeDot(svg, &calls)})
	var skipped []string
	r.SkippedAnchor = func(id string) { skipped = append(skipped, id) }

	got, err := r.Render(context.Background(), t.TempDir(), graphRecord())
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	if len(skipped) != 1 || skipped[0] != "cluster_0" {
		t.Errorf("skipped = %q, want [cluster_0]", skipped)
	}
	if !strings.Contains(string(got), `<g id="a_cluster_0">`) {
		t.Errorf("unlabelled group should keep its id: %s", got)
	}
}

func TestRenderEscapesColours(t *testing.T) {
	dir := t.TempDir()
	var calls []toolexec.Command
	r := newRenderer(t, &ExecLayouter{Runner: fakeDot(`<svg></svg>`, &calls)})

	rec := graphRecord()
	nodes := rec["nodes"].([]templates.Record)
	nodes[0]["colour"] = `bl"ue`
	nodes[0]["bgcolour"] = `<x>`
	rec["subgraphs"].([]templates.Record)[0]["colour"] = `a"b`
	rec["edges"].([]templates.Record)[0]["colour"] = `re"d`

	if _, err := r.Render(context.Background(), dir, rec); err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	dot, err := os.ReadFile(filepath.Join(dir, DOTFile))
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{
		`color="bl&#34;ue"`,
		`bgcolor="&lt;x&gt;"`,
		`bgcolor="a&#34;b"`,
		`color       = "re\"d"`,
	} {
		if !strings.Contains(string(dot), want) {
			t.Errorf("DOT missing %q:\n%s", want, dot)
		}
	}
}

func TestExecLayouterOutputFails(t *testing.T) {
	tests := []struct {
		name string
		res  toolexec.Result
		err  error
	}{
		{"stderr warning", toolexec.Result{Stderr: "Warning: syntax ambiguity"}, nil},
		{"stdout", toolexec.Result{Stdout: "x"}, nil},
		{"start failure", toolexec.Result{}, stderrors.New("executable file not found")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := &ExecLayouter{Runner: toolexec.RunnerFunc(func(context.Context, toolexec.Command) (toolexec.Result, error) {
				return tt.res, tt.err
			})}
			_, err := newRenderer(t, l).Render(context.Background(), t.TempDir(), graphRecord())
			if !errors.Is(err, errors.ErrCodeGraphToolFailure) {
				t.Errorf("Render() error = %v, want %s", err, errors.ErrCodeGraphToolFailure)
			}
		})
	}
}

func TestExecLayouterMissingSVG(t *testing.T) {
	l := &ExecLayouter{Runner: toolexec.RunnerFunc(func(context.Context, toolexec.Command) (toolexec.Result, error) {
		return toolexec.Result{ExitCode: 2}, nil
	})}
	_, err := newRenderer(t, l).Render(context.Background(), t.TempDir(), graphRecord())
	if !errors.Is(err, errors.ErrCodeFilesystem) {
		t.Errorf("Render() error = %v, want %s", err, errors.ErrCodeFilesystem)
	}
}

func TestEmbeddedLayouter(t *testing.T) {
	dir := t.TempDir()
	r := newRenderer(t, EmbeddedLayouter{})

	got, err := r.Render(context.Background(), dir, graphRecord())
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	if !strings.Contains(string(got), "<svg") {
		t.Errorf("Render() did not produce SVG: %.200s", got)
	}
	if _, err := os.Stat(filepath.Join(dir, SVGFile)); err != nil {
		t.Errorf("%s not written: %v", SVGFile, err)
	}
}

func TestRenderSVGInvalidDOT(t *testing.T) {
	_, err := RenderSVG(context.Background(), []byte("digraph {"))
	if !errors.Is(err, errors.ErrCodeGraphToolFailure) {
		t.Errorf("RenderSVG() error = %v, want %s", err, errors.ErrCodeGraphToolFailure)
	}
}
