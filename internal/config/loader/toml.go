package loader

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// TOMLLoader decodes TOML files into typed structs.
type TOMLLoader struct {
	fs     FileSystem
	strict bool
}

// NewTOMLLoader creates a TOML loader reading from the OS file system.
// Unknown keys are rejected.
func NewTOMLLoader() *TOMLLoader {
	return NewTOMLLoaderWithFS(DefaultFS())
}

// NewTOMLLoaderWithFS creates a TOML loader with a custom file system.
func NewTOMLLoaderWithFS(fs FileSystem) *TOMLLoader {
	return &TOMLLoader{fs: fs, strict: true}
}

// Lenient makes the loader ignore keys that have no matching field.
func (l *TOMLLoader) Lenient() *TOMLLoader {
	l.strict = false
	return l
}

// LoadInto decodes the file at path on top of v. Fields absent from the
// file keep their current value. A missing file is not an error; found
// reports whether anything was read.
func (l *TOMLLoader) LoadInto(path string, v any) (found bool, err error) {
	data, err := l.fs.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("reading config file %s: %w", path, err)
	}
	return true, l.decode(path, bytes.NewReader(data), v)
}

// LoadFromReader decodes TOML from r on top of v.
func (l *TOMLLoader) LoadFromReader(r io.Reader, v any) error {
	return l.decode("<reader>", r, v)
}

func (l *TOMLLoader) decode(source string, r io.Reader, v any) error {
	dec := toml.NewDecoder(r)
	if l.strict {
		dec.DisallowUnknownFields()
	}
	if err := dec.Decode(v); err != nil {
		return newParseError(source, err)
	}
	return nil
}

func newParseError(source string, err error) *ParseError {
	pe := &ParseError{Path: source, Message: err.Error(), Err: err}

	var derr *toml.DecodeError
	var serr *toml.StrictMissingError
	switch {
	case errors.As(err, &derr):
		pe.Line, pe.Column = derr.Position()
	case errors.As(err, &serr) && len(serr.Errors) > 0:
		first := serr.Errors[0]
		pe.Line, pe.Column = first.Position()
		pe.Message = fmt.Sprintf("unknown key %q", strings.Join(first.Key(), "."))
	}
	return pe
}

// ParseError represents an error while parsing a configuration file.
type ParseError struct {
	Path    string
	Line    int
	Column  int
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	if e.Line > 0 && e.Column > 0 {
		return fmt.Sprintf("parse error in %s at line %d, column %d: %s", e.Path, e.Line, e.Column, e.Message)
	}
	if e.Line > 0 {
		return fmt.Sprintf("parse error in %s at line %d: %s", e.Path, e.Line, e.Message)
	}
	return fmt.Sprintf("parse error in %s: %s", e.Path, e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
