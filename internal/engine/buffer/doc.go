// Package buffer provides a thread-safe text buffer with line indexing,
// revision tracking, and stable position anchors. It is the document model
// that edit resolution operates against. Text is stored in an immutable
// rope, so snapshots are O(1) and line lookups are O(log n).
//
// The buffer package provides:
//
//   - Thread-safe read/write access via sync.RWMutex
//   - Coordinate conversion between byte offsets and line/column positions
//   - Read-only snapshots that share the rope rather than copying text
//   - Anchors: position references that survive edits applied after the
//     revision they were minted against
//   - Line ending detection and restoration (content is LF internally)
//
// Basic usage:
//
//	// Create a buffer with some text
//	buf := buffer.NewBufferFromString("Hello, World!")
//
//	// Take a snapshot and mint anchors against it
//	snap := buf.Snapshot()
//	edit := buffer.AnchoredEdit{
//	    Start:   snap.AnchorAfter(7),
//	    End:     snap.AnchorBefore(12),
//	    NewText: "Gopher",
//	}
//
//	// Later edits shift offsets; anchors follow along
//	buf.Insert(0, ">> ")
//	buf.ApplyAnchored([]buffer.AnchoredEdit{edit}) // ">> Hello, Gopher!"
//
// Anchors:
//
// An Anchor pairs a byte offset with the buffer revision it was measured
// at and a bias. Resolving an anchor walks the buffer's change log and
// transforms the offset across every intervening edit. The bias decides
// which side the anchor sticks to when text is inserted exactly at its
// position: a right-biased anchor moves past the insertion, a left-biased
// one stays put. AnchoredEdit uses a right-biased start and a left-biased
// end so that a zero-width insertion does not swallow a neighboring
// insertion at the same spot.
//
// The change log is bounded (see WithChangeLogLimit); resolving an anchor
// older than the log yields ErrAnchorExpired.
//
// Thread Safety:
//
// All Buffer methods are thread-safe. Read operations acquire a read lock,
// while write operations acquire an exclusive write lock. For scenarios
// requiring multiple reads without the possibility of intervening writes,
// use Snapshot() to obtain a consistent read-only view.
package buffer
