// Package buffer provides the document model the annotation engine works on:
// immutable text snapshots with a line index, byte ranges, edits grouped into
// change sets, and selections.
//
// The host editor owns the real text buffer. This package only models what
// the engine needs to observe about it:
//
//   - Text: an immutable snapshot, with line lookup that clamps out of range
//     offsets instead of failing
//   - ChangeSet: the edits of one transaction, with position mapping from the
//     old text to the new one
//   - Selection: cursor and selected regions
//
// Basic usage:
//
//	text := buffer.NewText("Hello :home: world")
//
//	cs, err := buffer.NewChangeSet(text.Len(), buffer.NewInsert(0, "> "))
//	if err != nil {
//	    return err
//	}
//	next, _ := cs.Apply(text)     // "> Hello :home: world"
//	pos := cs.MapPos(6, buffer.AssocAfter) // 8
//
// Position Types:
//
//   - ByteOffset: raw byte position in the text
//   - Point: line and column position (0-indexed, column in bytes)
//
// Thread Safety:
//
// Text and ChangeSet values are immutable and may be shared freely.
package buffer
