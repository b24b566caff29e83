package icon

import (
	"fmt"
	"regexp"
	"sort"
	"sync"
)

// idPattern is the id part of the short-code grammar.
var idPattern = regexp.MustCompile(`^\w{1,64}$`)

// ValidID reports whether id could appear in a short-code.
func ValidID(id string) bool {
	return idPattern.MatchString(id)
}

// Descriptor describes a resolved glyph.
type Descriptor struct {
	// ID is the short-code name without colons.
	ID string

	// Glyph is what gets drawn: an emoji, a symbol, or an icon font code point.
	Glyph string

	// Pack is the name of the icon pack the glyph came from.
	Pack string
}

// Validate checks that the descriptor can be registered.
func (d Descriptor) Validate() error {
	if !ValidID(d.ID) {
		return fmt.Errorf("%w: %q", ErrInvalidID, d.ID)
	}
	if d.Glyph == "" {
		return fmt.Errorf("%w for %q", ErrEmptyGlyph, d.ID)
	}
	return nil
}

// Registry resolves a short-code id to a glyph descriptor.
// Implementations must be cheap and safe for concurrent use.
type Registry interface {
	Resolve(id string) (Descriptor, bool)
}

// RegistryFunc adapts a function to the Registry interface.
type RegistryFunc func(id string) (Descriptor, bool)

// Resolve calls f(id).
func (f RegistryFunc) Resolve(id string) (Descriptor, bool) {
	return f(id)
}

// MapRegistry is a thread-safe in-memory Registry.
type MapRegistry struct {
	mu    sync.RWMutex
	icons map[string]Descriptor
}

// NewMapRegistry creates a registry holding the given descriptors.
// Invalid descriptors are skipped.
func NewMapRegistry(descs ...Descriptor) *MapRegistry {
	r := &MapRegistry{icons: make(map[string]Descriptor, len(descs))}
	for _, d := range descs {
		if d.Validate() == nil {
			r.icons[d.ID] = d
		}
	}
	return r
}

// Resolve looks up an id.
func (r *MapRegistry) Resolve(id string) (Descriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.icons[id]
	return d, ok
}

// Register adds or replaces a single descriptor.
func (r *MapRegistry) Register(d Descriptor) error {
	if err := d.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.icons[d.ID] = d
	return nil
}

// Remove deletes an id. It returns false if the id was not registered.
func (r *MapRegistry) Remove(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.icons[id]; !ok {
		return false
	}
	delete(r.icons, id)
	return true
}

// Replace swaps the whole content of the registry.
// It returns the number of descriptors kept; invalid ones are skipped.
func (r *MapRegistry) Replace(descs []Descriptor) int {
	icons := make(map[string]Descriptor, len(descs))
	for _, d := range descs {
		if d.Validate() == nil {
			icons[d.ID] = d
		}
	}
	r.mu.Lock()
	r.icons = icons
	r.mu.Unlock()
	return len(icons)
}

// ReplacePack swaps every descriptor that belongs to pack for descs.
// Descriptors of other packs are left alone; descs are tagged with pack.
func (r *MapRegistry) ReplacePack(pack string, descs []Descriptor) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, d := range r.icons {
		if d.Pack == pack {
			delete(r.icons, id)
		}
	}
	n := 0
	for _, d := range descs {
		d.Pack = pack
		if d.Validate() == nil {
			r.icons[d.ID] = d
			n++
		}
	}
	return n
}

// Merge adds descriptors without removing existing ones.
func (r *MapRegistry) Merge(descs []Descriptor) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, d := range descs {
		if d.Validate() == nil {
			r.icons[d.ID] = d
			n++
		}
	}
	return n
}

// Len returns the number of registered ids.
func (r *MapRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.icons)
}

// IDs returns all registered ids in sorted order.
func (r *MapRegistry) IDs() []string {
	r.mu.RLock()
	ids := make([]string, 0, len(r.icons))
	for id := range r.icons {
		ids = append(ids, id)
	}
	r.mu.RUnlock()
	sort.Strings(ids)
	return ids
}

// Builtin returns a small default pack so the engine is usable without
// any pack configured.
func Builtin() []Descriptor {
	glyphs := map[string]string{
		"home":    "🏠",
		"star":    "⭐",
		"check":   "✅",
		"warning": "⚠️",
		"fire":    "🔥",
		"heart":   "❤️",
		"book":    "📖",
		"bulb":    "💡",
		"rocket":  "🚀",
		"tada":    "🎉",
	}
	descs := make([]Descriptor, 0, len(glyphs))
	for id, g := range glyphs {
		descs = append(descs, Descriptor{ID: id, Glyph: g, Pack: "builtin"})
	}
	sort.Slice(descs, func(i, j int) bool { return descs[i].ID < descs[j].ID })
	return descs
}
