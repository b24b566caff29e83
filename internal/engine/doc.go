// Package engine annotates one open document with glyphs.
//
// An Engine owns the document text, the tracked token intervals and the
// current selection. Every host update (an edit, a selection move, or a
// viewport change) runs one complete cycle:
//
//	update event -> token rescan of touched lines -> interval set swap
//	             -> decorations for the visible windows
//
// Cycles are serialized. Readers such as Decorations and Intervals always
// see the result of a finished cycle.
//
// Basic usage:
//
//	reg := icon.NewMapRegistry(icon.Builtin()...)
//	e := engine.New("# :rocket: Launch", reg, engine.WithMode(overlay.ModeLive))
//	defer e.Close()
//
//	decos, err := e.Edit(buffer.NewInsert(0, "x"))
package engine
