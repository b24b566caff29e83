// Package tracking keeps the set of annotated intervals of one document in
// sync with its text.
//
// An Interval records where a validated short-code sits and which icon id it
// resolved to. A Set is an immutable, sorted, non-overlapping collection of
// intervals; every update produces a new Set and leaves the old one intact,
// so readers holding a Set never observe a partial update.
//
// # Update cycle
//
// The host reports what happened through an UpdateEvent:
//
//   - EditEvent: the text changed. Existing intervals are mapped through the
//     change set without revalidation, then only the lines touched by the
//     edit are rescanned.
//   - SelectionEvent: the cursor moved. The lines holding the old and the new
//     selection are rescanned so tokens under the cursor are revealed and
//     tokens the cursor left are collapsed again.
//   - ViewportEvent: the visible region changed. The set is unchanged.
//
// Apply dispatches an event to the matching update function. Store wraps
// the current Set and text of an open document and serializes writers.
//
// # Usage
//
//	store := tracking.NewStore(buffer.NewText(content), registry)
//
//	cs, _ := buffer.NewChangeSet(store.Text().Len(), buffer.NewInsert(0, "# "))
//	set := store.Apply(tracking.EditEvent{
//	    Changes:   cs,
//	    Selection: []buffer.Selection{buffer.Cursor(2)},
//	})
//
//	set.Between(0, 100, func(iv tracking.Interval) bool {
//	    fmt.Println(iv)
//	    return true
//	})
//
// # Thread Safety
//
// Sets are immutable and can be shared across goroutines. Store writers are
// serialized by a mutex and readers load the current snapshot atomically.
package tracking
