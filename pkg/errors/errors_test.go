package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeInvalidGraphReference, "edge %d out of range", 3)

	if err.Code != ErrCodeInvalidGraphReference {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeInvalidGraphReference)
	}

	if err.Message != "edge 3 out of range" {
		t.Errorf("Message = %v, want %v", err.Message, "edge 3 out of range")
	}

	expected := "INVALID_GRAPH_REFERENCE: edge 3 out of range"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("permission denied")
	err := Wrap(ErrCodeScratchDirUnavailable, cause, "create scratch dir")

	if err.Code != ErrCodeScratchDirUnavailable {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeScratchDirUnavailable)
	}

	if err.Cause != cause {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}

	unwrapped := errors.Unwrap(err)
	if unwrapped != cause {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, cause)
	}

	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     Code
		expected bool
	}{
		{
			name:     "matching code",
			err:      New(ErrCodeTemplateNotFound, "test"),
			code:     ErrCodeTemplateNotFound,
			expected: true,
		},
		{
			name:     "non-matching code",
			err:      New(ErrCodeTemplateNotFound, "test"),
			code:     ErrCodeTemplateRender,
			expected: false,
		},
		{
			name:     "wrapped error",
			err:      Wrap(ErrCodeFilesystem, New(ErrCodeInvalidInput, "inner"), "outer"),
			code:     ErrCodeFilesystem,
			expected: true,
		},
		{
			name:     "fmt wrapped",
			err:      fmt.Errorf("root/children[1]: %w", New(ErrCodeInvalidGraphReference, "bad edge")),
			code:     ErrCodeInvalidGraphReference,
			expected: true,
		},
		{
			name:     "tool error",
			err:      fmt.Errorf("plot: %w", &ToolError{Kind: ErrCodePlotToolFailure, Tool: "gnuplot"}),
			code:     ErrCodePlotToolFailure,
			expected: true,
		},
		{
			name:     "non-Error type",
			err:      errors.New("plain error"),
			code:     ErrCodeInvalidInput,
			expected: false,
		},
		{
			name:     "nil error",
			err:      nil,
			code:     ErrCodeInvalidInput,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.expected {
				t.Errorf("Is() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestGetCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected Code
	}{
		{
			name:     "Error type",
			err:      New(ErrCodeUnsupportedShortcutKey, "test"),
			expected: ErrCodeUnsupportedShortcutKey,
		},
		{
			name:     "ToolError type",
			err:      &ToolError{Kind: ErrCodeGraphToolFailure},
			expected: ErrCodeGraphToolFailure,
		},
		{
			name:     "plain error",
			err:      errors.New("plain"),
			expected: "",
		},
		{
			name:     "nil",
			err:      nil,
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(tt.err); got != tt.expected {
				t.Errorf("GetCode() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "Error type",
			err:      New(ErrCodeInvalidInput, "friendly message"),
			expected: "friendly message",
		},
		{
			name:     "plain error",
			err:      errors.New("plain error"),
			expected: "plain error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessage(tt.err); got != tt.expected {
				t.Errorf("UserMessage() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestToolError(t *testing.T) {
	t.Run("with stderr", func(t *testing.T) {
		err := &ToolError{Kind: ErrCodePlotToolFailure, Tool: "gnuplot", Stderr: "warning: empty x range\n"}
		msg := err.Error()
		if !strings.HasPrefix(msg, "PLOT_TOOL_FAILURE: gnuplot produced unexpected output") {
			t.Errorf("Error() = %q", msg)
		}
		if !strings.Contains(msg, "stderr: warning: empty x range") {
			t.Errorf("Error() missing stderr: %q", msg)
		}
	})

	t.Run("with exit code", func(t *testing.T) {
		err := &ToolError{Kind: ErrCodePlotToolFailure, Tool: "gnuplot", ExitCode: 2}
		if !strings.Contains(err.Error(), "exited with status 2") {
			t.Errorf("Error() = %q", err.Error())
		}
	})

	t.Run("with cause", func(t *testing.T) {
		cause := errors.New("executable file not found")
		err := &ToolError{Kind: ErrCodeGraphToolFailure, Tool: "dot", Cause: cause}
		if !errors.Is(err, cause) {
			t.Error("errors.Is(err, cause) = false, want true")
		}
		if err.Code() != ErrCodeGraphToolFailure {
			t.Errorf("Code() = %v, want %v", err.Code(), ErrCodeGraphToolFailure)
		}
	})
}
