// Package textbuf provides the styled text buffer that lineflow lays out.
//
// A Buffer stores runes, so a text.Offset is a rune index. Style runs
// are kept separately from the content and are shifted by edits.
//
// Every mutation is reported to registered text.MutationObserver values
// after the content has changed:
//
//	buf := textbuf.NewFromString("foo\nbar\n")
//	remove := buf.AddObserver(engine)
//	defer remove()
//
//	buf.Insert(4, "X")  // engine.DidInsertBefore([4, 5))
//	buf.Delete(text.Range{Start: 0, End: 2})  // engine.DidDeleteAt([0, 2))
//
// Thread Safety:
//
// A Buffer does no locking of its own. It is guarded by the document
// lock shared with the layout engine; WithLock lets debug builds check
// that the lock is held.
package textbuf
