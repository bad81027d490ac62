// Package clipboard places generated documents on the system clipboard.
package clipboard

import (
	"errors"
	"strings"

	"github.com/atotto/clipboard"
)

var (
	// ErrNothingToCopy is returned when the content is blank.
	ErrNothingToCopy = errors.New("nothing to copy")
	// ErrUnsupported is returned when no clipboard utility is available.
	ErrUnsupported = errors.New("system clipboard is not available")
)

// Copier copies textual data to a clipboard.
type Copier interface {
	Copy(text string) error
}

// System writes to the operating system clipboard.
type System struct {
	write func(text string) error
}

// NewSystem returns a Copier backed by the operating system clipboard.
func NewSystem() *System {
	return &System{write: writeSystemClipboard}
}

// Copy places text on the clipboard unchanged.
func (system *System) Copy(text string) error {
	if strings.TrimSpace(text) == "" {
		return ErrNothingToCopy
	}
	write := system.write
	if write == nil {
		write = writeSystemClipboard
	}
	return write(text)
}

func writeSystemClipboard(text string) error {
	if clipboard.Unsupported {
		return ErrUnsupported
	}
	return clipboard.WriteAll(text)
}

var _ Copier = (*System)(nil)
