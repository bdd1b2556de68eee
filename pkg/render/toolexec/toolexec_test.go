package toolexec

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func TestResult(t *testing.T) {
	tests := []struct {
		name      string
		res       Result
		clean     bool
		succeeded bool
	}{
		{"silent success", Result{}, true, true},
		{"warning on stderr", Result{Stderr: "warning: x"}, false, false},
		{"chatty stdout", Result{Stdout: "ok"}, false, false},
		{"non-zero exit", Result{ExitCode: 1}, true, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.res.Clean(); got != tt.clean {
				t.Errorf("Clean() = %v, want %v", got, tt.clean)
			}
			if got := tt.res.Succeeded(); got != tt.succeeded {
				t.Errorf("Succeeded() = %v, want %v", got, tt.succeeded)
			}
		})
	}
}

func TestCommandString(t *testing.T) {
	c := Command{Name: "dot", Args: []string{"-Tsvg", "-oout.svg", "in.dot"}}
	if got, want := c.String(), "dot -Tsvg -oout.svg in.dot"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func requireShell(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
}

func TestExecRunnerCapturesStreams(t *testing.T) {
	requireShell(t)

	res, err := ExecRunner{}.Run(context.Background(), Command{
		Name: "sh",
		Args: []string{"-c", "echo out; echo err >&2; exit 3"},
	})
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if res.ExitCode != 3 {
		t.Errorf("ExitCode = %d, want 3", res.ExitCode)
	}
	if strings.TrimSpace(res.Stdout) != "out" {
		t.Errorf("Stdout = %q", res.Stdout)
	}
	if strings.TrimSpace(res.Stderr) != "err" {
		t.Errorf("Stderr = %q", res.Stderr)
	}
}

func TestExecRunnerUsesDir(t *testing.T) {
	requireShell(t)

	dir := t.TempDir()
	wd, _ := os.Getwd()

	_, err := ExecRunner{}.Run(context.Background(), Command{
		Name: "sh",
		Args: []string{"-c", "echo hi > marker.txt"},
		Dir:  dir,
	})
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "marker.txt")); err != nil {
		t.Errorf("marker not written in Dir: %v", err)
	}
	if now, _ := os.Getwd(); now != wd {
		t.Errorf("working directory changed from %q to %q", wd, now)
	}
}

func TestExecRunnerMissingTool(t *testing.T) {
	_, err := ExecRunner{}.Run(context.Background(), Command{Name: "stackreport-no-such-tool"})
	if err == nil {
		t.Fatal("Run() expected error for missing executable")
	}
}

func TestRunnerFunc(t *testing.T) {
	var got Command
	r := RunnerFunc(func(_ context.Context, c Command) (Result, error) {
		got = c
		return Result{ExitCode: 7}, nil
	})
	res, err := r.Run(context.Background(), Command{Name: "x", Dir: "/d"})
	if err != nil || res.ExitCode != 7 {
		t.Fatalf("Run() = %+v, %v", res, err)
	}
	if got.Name != "x" || got.Dir != "/d" {
		t.Errorf("command not forwarded: %+v", got)
	}
}
