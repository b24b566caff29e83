// Package icon provides the icon registry the annotation engine resolves
// short-code ids against, and loaders that fill it from icon packs.
//
// The engine only depends on the Registry interface, so hosts can plug in
// any lookup. MapRegistry is the in-process implementation; it is safe to
// call Resolve on every render pass.
//
// Icon packs can be loaded from several sources:
//
//   - TOML or YAML files with a name and an icons table
//   - Lua scripts calling icon(id, glyph) in a sandboxed state
//   - a SQLite database with an icons table
//
// A Watcher keeps a MapRegistry in sync with a pack file on disk, skipping
// reloads when the file content fingerprint did not change.
//
// Basic usage:
//
//	reg := icon.NewMapRegistry()
//	pack, err := icon.LoadFile("packs/emoji.toml")
//	if err != nil {
//	    return err
//	}
//	reg.Replace(pack.Descriptors())
//
//	if d, ok := reg.Resolve("home"); ok {
//	    fmt.Println(d.Glyph)
//	}
package icon
