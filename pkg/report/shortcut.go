package report

import (
	"github.com/matzehuels/stackreport/pkg/errors"
)

// Shortcut is a keyboard trigger shown in the document shell. Pressing Key
// selects the report type Name for subsequent link navigation.
type Shortcut struct {
	Name string
	Key  rune
}

// KeyCode returns the JavaScript key code for an ASCII letter.
// Any other character is rejected with ErrCodeUnsupportedShortcutKey.
func KeyCode(r rune) (int, error) {
	switch {
	case r >= 'A' && r <= 'Z':
		return 65 + int(r-'A'), nil
	case r >= 'a' && r <= 'z':
		return 97 + int(r-'a'), nil
	default:
		return 0, errors.New(errors.ErrCodeUnsupportedShortcutKey, "no key code for %q", r)
	}
}
