package icon

import (
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/zeebo/blake3"
	"gopkg.in/yaml.v3"
)

// Format identifies an icon pack file format.
type Format uint8

const (
	FormatUnknown Format = iota
	FormatTOML
	FormatYAML
	FormatLua
)

// String returns the format name.
func (f Format) String() string {
	switch f {
	case FormatTOML:
		return "toml"
	case FormatYAML:
		return "yaml"
	case FormatLua:
		return "lua"
	default:
		return "unknown"
	}
}

// DetectFormat picks a format from a file extension.
func DetectFormat(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML
	case ".yaml", ".yml":
		return FormatYAML
	case ".lua":
		return FormatLua
	default:
		return FormatUnknown
	}
}

// Pack is a named set of icons.
//
//	name = "emoji"
//	[icons]
//	home = "🏠"
type Pack struct {
	Name  string            `toml:"name" yaml:"name"`
	Icons map[string]string `toml:"icons" yaml:"icons"`
}

// Descriptors returns the pack content as descriptors sorted by id.
func (p *Pack) Descriptors() []Descriptor {
	descs := make([]Descriptor, 0, len(p.Icons))
	for id, glyph := range p.Icons {
		descs = append(descs, Descriptor{ID: id, Glyph: glyph, Pack: p.Name})
	}
	sort.Slice(descs, func(i, j int) bool { return descs[i].ID < descs[j].ID })
	return descs
}

// validate reports the first invalid entry.
func (p *Pack) validate() error {
	for _, d := range p.Descriptors() {
		if err := d.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// FileSystem abstracts file access for testing.
type FileSystem interface {
	ReadFile(path string) ([]byte, error)
}

type osFS struct{}

func (osFS) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// DefaultFS returns a FileSystem backed by the operating system.
func DefaultFS() FileSystem {
	return osFS{}
}

// LoadFile reads and parses a pack file, picking the format from its extension.
func LoadFile(path string) (*Pack, error) {
	return LoadFileFS(DefaultFS(), path)
}

// LoadFileFS is LoadFile with a custom file system.
func LoadFileFS(fs FileSystem, path string) (*Pack, error) {
	data, err := fs.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading icon pack %s: %w", path, err)
	}
	return Parse(DetectFormat(path), path, data)
}

// Parse decodes pack data in the given format. source is used in errors
// and as the default pack name.
func Parse(format Format, source string, data []byte) (*Pack, error) {
	var (
		pack *Pack
		err  error
	)
	switch format {
	case FormatTOML:
		pack, err = parseTOML(data)
	case FormatYAML:
		pack, err = parseYAML(data)
	case FormatLua:
		pack, err = parseLua(source, data)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, source)
	}
	if err != nil {
		return nil, &ParseError{Path: source, Format: format, Message: err.Error(), Err: err}
	}
	if pack.Name == "" {
		pack.Name = strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))
	}
	if err := pack.validate(); err != nil {
		return nil, &ParseError{Path: source, Format: format, Message: err.Error(), Err: err}
	}
	return pack, nil
}

func parseTOML(data []byte) (*Pack, error) {
	var p Pack
	if err := toml.Unmarshal(data, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func parseYAML(data []byte) (*Pack, error) {
	var p Pack
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Fingerprint returns a content hash used to detect unchanged pack files.
func Fingerprint(data []byte) string {
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:])
}
