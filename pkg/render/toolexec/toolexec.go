// Package toolexec runs the external layout tools (gnuplot, dot) used by
// the plot and graph renderers.
//
// The working directory is passed to the child process through
// [Command.Dir]; the current process never changes directory, so
// independent renders can run side by side.
package toolexec

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"os/exec"
)

// Command describes one tool invocation.
type Command struct {
	Name string   // Executable, resolved through PATH
	Args []string // Arguments, not including Name
	Dir  string   // Working directory; empty means the current one
}

// String renders the command line for logs and error messages.
func (c Command) String() string {
	var b bytes.Buffer
	b.WriteString(c.Name)
	for _, a := range c.Args {
		b.WriteByte(' ')
		b.WriteString(a)
	}
	return b.String()
}

// Result holds what a finished tool run produced.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Clean reports whether the tool wrote nothing to either stream.
func (r Result) Clean() bool {
	return r.Stdout == "" && r.Stderr == ""
}

// Succeeded reports whether the run exited 0 and was clean.
// Warnings on stderr count as failure.
func (r Result) Succeeded() bool {
	return r.ExitCode == 0 && r.Clean()
}

// Runner executes commands. Implementations must not change the working
// directory of the calling process.
type Runner interface {
	Run(ctx context.Context, cmd Command) (Result, error)
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct{}

// Run starts cmd and waits for it. A non-zero exit status is reported in
// Result.ExitCode with a nil error; an error is returned only when the
// process could not be started or was killed by ctx.
func (ExecRunner) Run(ctx context.Context, c Command) (Result, error) {
	cmd := exec.CommandContext(ctx, c.Name, c.Args...)
	cmd.Dir = c.Dir

	var out, errBuf bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errBuf

	err := cmd.Run()
	res := Result{Stdout: out.String(), Stderr: errBuf.String()}
	if err == nil {
		return res, nil
	}

	var exitErr *exec.ExitError
	if stderrors.As(err, &exitErr) && ctx.Err() == nil {
		res.ExitCode = exitErr.ExitCode()
		return res, nil
	}
	if ctx.Err() != nil {
		return res, fmt.Errorf("%s: %w", c.Name, ctx.Err())
	}
	return res, fmt.Errorf("%s: %w", c.Name, err)
}

// RunnerFunc adapts a function to the [Runner] interface.
type RunnerFunc func(ctx context.Context, cmd Command) (Result, error)

// Run calls f(ctx, cmd).
func (f RunnerFunc) Run(ctx context.Context, cmd Command) (Result, error) {
	return f(ctx, cmd)
}

var (
	_ Runner = ExecRunner{}
	_ Runner = RunnerFunc(nil)
)
