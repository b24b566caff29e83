package loader

import (
	"errors"
	"io/fs"
	"strings"
	"testing"
	"time"
)

// MemFS is an in-memory file system for testing.
type MemFS struct {
	files map[string][]byte
}

func NewMemFS() *MemFS {
	return &MemFS{files: make(map[string][]byte)}
}

func (m *MemFS) AddFile(path string, content string) {
	m.files[path] = []byte(content)
}

func (m *MemFS) ReadFile(path string) ([]byte, error) {
	data, ok := m.files[path]
	if !ok {
		return nil, fs.ErrNotExist
	}
	return data, nil
}

func (m *MemFS) Stat(path string) (fs.FileInfo, error) {
	if _, ok := m.files[path]; ok {
		return &memFileInfo{name: path}, nil
	}
	return nil, fs.ErrNotExist
}

type memFileInfo struct {
	name string
}

func (f *memFileInfo) Name() string       { return f.name }
func (f *memFileInfo) Size() int64        { return 0 }
func (f *memFileInfo) Mode() fs.FileMode  { return 0644 }
func (f *memFileInfo) ModTime() time.Time { return time.Now() }
func (f *memFileInfo) IsDir() bool        { return false }
func (f *memFileInfo) Sys() any           { return nil }

type sample struct {
	Display struct {
		Mode     string `toml:"mode"`
		TabWidth int    `toml:"tabWidth"`
	} `toml:"display"`
	Scales []float64 `toml:"scales"`
}

func TestTOMLLoader_LoadInto(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/config.toml", `
scales = [2.0, 1.5]

[display]
mode = "source"
`)

	var s sample
	s.Display.TabWidth = 8
	found, err := NewTOMLLoaderWithFS(memfs).LoadInto("/config.toml", &s)
	if err != nil {
		t.Fatalf("LoadInto() error = %v", err)
	}
	if !found {
		t.Fatal("found = false, want true")
	}
	if s.Display.Mode != "source" {
		t.Errorf("Display.Mode = %q, want %q", s.Display.Mode, "source")
	}
	if s.Display.TabWidth != 8 {
		t.Errorf("Display.TabWidth = %d, want the preset 8", s.Display.TabWidth)
	}
	if len(s.Scales) != 2 || s.Scales[1] != 1.5 {
		t.Errorf("Scales = %v", s.Scales)
	}
}

func TestTOMLLoader_MissingFile(t *testing.T) {
	var s sample
	found, err := NewTOMLLoaderWithFS(NewMemFS()).LoadInto("/missing.toml", &s)
	if err != nil {
		t.Errorf("LoadInto() error = %v, want nil", err)
	}
	if found {
		t.Error("found = true for a missing file")
	}
}

func TestTOMLLoader_SyntaxError(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/bad.toml", "[display]\nmode = \n")

	var s sample
	_, err := NewTOMLLoaderWithFS(memfs).LoadInto("/bad.toml", &s)
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("error = %v, want *ParseError", err)
	}
	if pe.Path != "/bad.toml" {
		t.Errorf("Path = %q", pe.Path)
	}
	if pe.Line != 2 {
		t.Errorf("Line = %d, want 2", pe.Line)
	}
}

func TestTOMLLoader_UnknownKey(t *testing.T) {
	const doc = "[display]\nmode = \"live\"\ncolour = \"red\"\n"

	var s sample
	err := NewTOMLLoader().LoadFromReader(strings.NewReader(doc), &s)
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("error = %v, want *ParseError", err)
	}
	if !strings.Contains(pe.Message, "display.colour") {
		t.Errorf("Message = %q, want the key named", pe.Message)
	}

	s = sample{}
	if err := NewTOMLLoader().Lenient().LoadFromReader(strings.NewReader(doc), &s); err != nil {
		t.Errorf("lenient LoadFromReader() error = %v", err)
	}
	if s.Display.Mode != "live" {
		t.Errorf("Display.Mode = %q", s.Display.Mode)
	}
}

func TestParseError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  ParseError
		want string
	}{
		{"position", ParseError{Path: "a.toml", Line: 3, Column: 5, Message: "bad"}, "parse error in a.toml at line 3, column 5: bad"},
		{"line", ParseError{Path: "a.toml", Line: 3, Message: "bad"}, "parse error in a.toml at line 3: bad"},
		{"none", ParseError{Path: "a.toml", Message: "bad"}, "parse error in a.toml: bad"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}
