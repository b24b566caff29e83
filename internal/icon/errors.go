package icon

import (
	"errors"
	"fmt"
)

// Errors returned by registry and loader operations.
var (
	// ErrInvalidID indicates an id that can never appear in a short-code.
	ErrInvalidID = errors.New("invalid icon id")

	// ErrEmptyGlyph indicates a descriptor without a glyph.
	ErrEmptyGlyph = errors.New("empty glyph")

	// ErrUnknownFormat indicates a pack file with an unsupported extension.
	ErrUnknownFormat = errors.New("unknown icon pack format")

	// ErrWatcherClosed indicates an operation on a closed watcher.
	ErrWatcherClosed = errors.New("watcher is closed")
)

// ParseError describes a pack file that could not be parsed.
type ParseError struct {
	Path    string
	Format  Format
	Message string
	Err     error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("icon pack %s (%s): %s", e.Path, e.Format, e.Message)
}

// Unwrap returns the underlying error.
func (e *ParseError) Unwrap() error {
	return e.Err
}
