package plot

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

func record() templates.Record {
	return templates.Record{
		"headings": []string{"Bench", `"fast"`},
		"points": []templates.Record{
			{"values": []string{"1", "10"}},
			{"values": []string{"2", "20", "label two"}},
			{"values": []string{"3", "30", `say "hi"`, "x"}},
		},
	}
}

func newRenderer(t *testing.T, run toolexec.RunnerFunc) *Renderer {
	t.Helper()
	store, err := templates.Default()
	if err != nil {
		t.Fatal(err)
	}
	return &Renderer{Templates: store, Runner: run}
}

// fakeGnuplot writes an SVG into the command's directory, as the real tool would.
func fakeGnuplot(calls *[]toolexec.Command) toolexec.RunnerFunc {
	return func(_ context.Context, c toolexec.Command) (toolexec.Result, error) {
		*calls = append(*calls, c)
		err := os.WriteFile(filepath.Join(c.Dir, OutputFile), []byte("<svg>plot</svg>"), 0o644)
		return toolexec.Result{}, err
	}
}

func TestFormatData(t *testing.T) {
	tests := []struct {
		name string
		rows [][]string
		want string
	}{
		{"empty", nil, ""},
		{
			"labels quoted",
			[][]string{{"1", "10"}, {"2", "20", "label two"}, {"3", "30", `say "hi"`, "x"}},
			"1 10\n2 20 \"label two\"\n3 30 \"say \\\"hi\\\"\" \"x\"\n",
		},
		{
			"line breaks in label",
			[][]string{{"1", "2", "multi\nline label"}, {"3", "4", "crlf\r\nhere\r"}},
			"1 2 \"multi line label\"\n3 4 \"crlf here \"\n",
		},
		{"float columns", [][]string{{"0.5", "1e+06"}}, "0.5 1e+06\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FormatData(tt.rows)
			if err != nil {
				t.Fatalf("FormatData() error: %v", err)
			}
			if got != tt.want {
				t.Errorf("FormatData() = %q, want %q", got, tt.want)
			}
			if lines := strings.Count(got, "\n"); lines != len(tt.rows) {
				t.Errorf("%d points gave %d lines", len(tt.rows), lines)
			}
		})
	}
}

func TestFormatDataInvalidColumns(t *testing.T) {
	tests := []struct {
		name string
		rows [][]string
		want string
	}{
		{"x with space", [][]string{{"1", "2"}, {"3 4", "5"}}, "plot point 1: column 0"},
		{"empty y", [][]string{{"1", ""}}, "plot point 0: column 1"},
		{"text x", [][]string{{"monday", "2"}}, "plot point 0: column 0"},
		{"newline in y", [][]string{{"1", "2\n3"}}, "plot point 0: column 1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FormatData(tt.rows)
			if !errors.Is(err, errors.ErrCodeInvalidInput) {
				t.Fatalf("FormatData() error = %v, want %s", err, errors.ErrCodeInvalidInput)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not name %q", err, tt.want)
			}
		})
	}
}

func TestRenderRejectsBadPointBeforeTool(t *testing.T) {
	called := false
	r := newRenderer(t, func(context.Context, toolexec.Command) (toolexec.Result, error) {
		called = true
		return toolexec.Result{}, nil
	})
	rec := templates.Record{
		"headings": []string{"Bench"},
		"points":   []templates.Record{{"values": []string{"", "10"}}},
	}
	if _, err := r.Render(context.Background(), t.TempDir(), rec); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Fatalf("Render() error = %v, want %s", err, errors.ErrCodeInvalidInput)
	}
	if called {
		t.Error("tool should not run for an invalid point")
	}
}

func TestRender(t *testing.T) {
	dir := t.TempDir()
	var calls []toolexec.Command
	r := newRenderer(t, fakeGnuplot(&calls))

	svg, err := r.Render(context.Background(), dir, record())
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	if string(svg) != "<svg>plot</svg>" {
		t.Errorf("Render() = %q", svg)
	}

	if len(calls) != 1 {
		t.Fatalf("tool called %d times, want 1", len(calls))
	}
	c := calls[0]
	if c.Name != "gnuplot" || len(c.Args) != 1 || c.Args[0] != ScriptFile || c.Dir != dir {
		t.Errorf("command = %+v", c)
	}

	data, err := os.ReadFile(filepath.Join(dir, DataFile))
	if err != nil {
		t.Fatal(err)
	}
	if lines := strings.Count(string(data), "\n"); lines != 3 {
		t.Errorf("%s has %d lines, want 3", DataFile, lines)
	}

	script, err := os.ReadFile(filepath.Join(dir, ScriptFile))
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{`set output "plot.svg"`, `set title "Bench \"fast\""`, `plot 'plot.dat'`} {
		if !strings.Contains(string(script), want) {
			t.Errorf("script missing %q:\n%s", want, script)
		}
	}
}

func TestRenderCustomTool(t *testing.T) {
	var calls []toolexec.Command
	r := newRenderer(t, fakeGnuplot(&calls))
	r.Tool = "/opt/gnuplot/bin/gnuplot"

	if _, err := r.Render(context.Background(), t.TempDir(), record()); err != nil {
		t.Fatal(err)
	}
	if calls[0].Name != "/opt/gnuplot/bin/gnuplot" {
		t.Errorf("Name = %q", calls[0].Name)
	}
}

func TestRenderToolFailures(t *testing.T) {
	tests := []struct {
		name   string
		res    toolexec.Result
		err    error
		stderr string
	}{
		{"warning with exit 0", toolexec.Result{Stderr: "warning: empty x range"}, nil, "warning: empty x range"},
		{"stdout chatter", toolexec.Result{Stdout: "hello"}, nil, ""},
		{"non-zero exit", toolexec.Result{ExitCode: 1, Stderr: "boom"}, nil, "boom"},
		{"start failure", toolexec.Result{}, stderrors.New("exec: not found"), ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newRenderer(t, func(context.Context, toolexec.Command) (toolexec.Result, error) {
				return tt.res, tt.err
			})
			_, err := r.Render(context.Background(), t.TempDir(), record())
			if !errors.Is(err, errors.ErrCodePlotToolFailure) {
				t.Fatalf("Render() error = %v, want %s", err, errors.ErrCodePlotToolFailure)
			}
			var te *errors.ToolError
			if !stderrors.As(err, &te) {
				t.Fatalf("error is %T, want *errors.ToolError", err)
			}
			if te.Stderr != tt.stderr {
				t.Errorf("Stderr = %q, want %q", te.Stderr, tt.stderr)
			}
		})
	}
}

func TestRenderMissingOutput(t *testing.T) {
	r := newRenderer(t, func(context.Context, toolexec.Command) (toolexec.Result, error) {
		return toolexec.Result{}, nil
	})
	_, err := r.Render(context.Background(), t.TempDir(), record())
	if !errors.Is(err, errors.ErrCodeFilesystem) {
		t.Errorf("Render() error = %v, want %s", err, errors.ErrCodeFilesystem)
	}
}

func TestRenderMissingDir(t *testing.T) {
	called := false
	r := newRenderer(t, func(context.Context, toolexec.Command) (toolexec.Result, error) {
		called = true
		return toolexec.Result{}, nil
	})
	_, err := r.Render(context.Background(), filepath.Join(t.TempDir(), "gone"), record())
	if !errors.Is(err, errors.ErrCodeFilesystem) {
		t.Errorf("Render() error = %v, want %s", err, errors.ErrCodeFilesystem)
	}
	if called {
		t.Error("tool should not run when the data file cannot be written")
	}
}
