package errors

import (
	"strings"
	"unicode"
)

// ValidateShortcutName validates a report shortcut name.
// The name ends up inside a JavaScript string literal in the document
// shell, so quotes, backslashes and control characters are rejected.
//
// Validation rules:
//   - No empty names
//   - Maximum length of 64 characters
//   - No control characters
//   - No quotes, backslashes or angle brackets
func ValidateShortcutName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidInput, "shortcut name cannot be empty")
	}

	if len(name) > 64 {
		return New(ErrCodeInvalidInput, "shortcut name too long (max 64 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "shortcut name contains invalid control characters")
		}
	}

	if i := strings.IndexAny(name, "\"'\\<>"); i >= 0 {
		return New(ErrCodeInvalidInput, "shortcut name contains invalid character: %q", name[i])
	}

	return nil
}

// ValidatePath validates a user supplied file system path.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 4096 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 4096
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	return nil
}
