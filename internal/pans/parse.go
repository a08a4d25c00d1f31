// Package pans validates PAN submissions and fronts the record store for
// the menu handlers.
package pans

import (
	"errors"
	"fmt"
	"strings"
)

// DefaultName labels records submitted without a display name.
const DefaultName = "No Name"

// panLength is the exact identifier length accepted. No charset or
// checksum validation is performed on top of it.
const panLength = 10

// ErrInvalidSubmission marks a malformed free-text submission.
var ErrInvalidSubmission = errors.New("pans: invalid submission")

// Submission is a parsed free-text PAN entry.
type Submission struct {
	PAN  string
	Name string
}

// ParseSubmission splits the text on the first whitespace run only. A lone
// token is a PAN with the default name; everything after the first run is
// the display name verbatim (trimmed, internal spaces kept). The PAN is
// upper-cased and must be exactly 10 characters.
func ParseSubmission(text string) (Submission, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return Submission{}, fmt.Errorf("%w: empty input", ErrInvalidSubmission)
	}

	pan := trimmed
	name := DefaultName
	if i := strings.IndexFunc(trimmed, isSpace); i >= 0 {
		pan = trimmed[:i]
		rest := strings.TrimSpace(trimmed[i:])
		if rest != "" {
			name = rest
		}
	}

	pan = strings.ToUpper(pan)
	if len(pan) != panLength {
		return Submission{}, fmt.Errorf("%w: PAN must be exactly %d characters, got %d",
			ErrInvalidSubmission, panLength, len(pan))
	}

	return Submission{PAN: pan, Name: name}, nil
}

func isSpace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r':
		return true
	}
	return false
}
