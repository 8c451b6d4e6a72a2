package buffer

import "github.com/dshills/fuzzypatch/internal/engine/rope"

// Snapshot provides a read-only view of a buffer at a specific point in time.
// It shares the buffer's immutable rope, so it is safe for concurrent access
// and will not change even if the original buffer is modified. Anchors minted
// from a snapshot carry its revision, so they can be resolved against the
// live buffer after further edits.
type Snapshot struct {
	content    rope.Rope
	revision   RevisionID
	lineEnding LineEnding
}

// NewSnapshot builds a standalone snapshot from raw text. This is useful
// when matching against text that never came from a live buffer.
func NewSnapshot(text string) *Snapshot {
	return &Snapshot{
		content:  rope.FromString(normalizeToLF(text)),
		revision: NewRevisionID(),
	}
}

// Text returns the full snapshot content as a string.
func (s *Snapshot) Text() string {
	return s.content.String()
}

// TextRange returns text in the given byte range. Out-of-range offsets
// are clamped to the snapshot.
func (s *Snapshot) TextRange(start, end ByteOffset) string {
	return sliceRope(s.content, start, end)
}

// Len returns the total byte length of the snapshot.
func (s *Snapshot) Len() ByteOffset {
	return ByteOffset(s.content.Len())
}

// FullRange returns the byte range covering the entire snapshot.
func (s *Snapshot) FullRange() Range {
	return Range{Start: 0, End: ByteOffset(s.content.Len())}
}

// LineCount returns the number of lines.
func (s *Snapshot) LineCount() uint32 {
	return s.content.LineCount()
}

// LineText returns the text of a specific line (without newline).
func (s *Snapshot) LineText(line uint32) string {
	return s.content.LineText(line)
}

// LineLen returns the length of a specific line in bytes (without newline).
func (s *Snapshot) LineLen(line uint32) int {
	return int(s.content.LineEndOffset(line) - s.content.LineStartOffset(line))
}

// OffsetToPoint converts a byte offset to line/column.
func (s *Snapshot) OffsetToPoint(offset ByteOffset) Point {
	return fromRopePoint(s.content.OffsetToPoint(ropeOffset(offset)))
}

// PointToOffset converts line/column to byte offset.
func (s *Snapshot) PointToOffset(point Point) ByteOffset {
	return ByteOffset(s.content.PointToOffset(toRopePoint(point)))
}

// LineStartOffset returns the byte offset of the start of a line.
func (s *Snapshot) LineStartOffset(line uint32) ByteOffset {
	return ByteOffset(s.content.LineStartOffset(line))
}

// LineEndOffset returns the byte offset of the end of a line (before newline).
func (s *Snapshot) LineEndOffset(line uint32) ByteOffset {
	return ByteOffset(s.content.LineEndOffset(line))
}

// RevisionID returns the revision ID of this snapshot.
func (s *Snapshot) RevisionID() RevisionID {
	return s.revision
}

// IsEmpty returns true if the snapshot is empty.
func (s *Snapshot) IsEmpty() bool {
	return s.content.IsEmpty()
}

// LineEnding returns the document's line ending style.
func (s *Snapshot) LineEnding() LineEnding {
	return s.lineEnding
}

// AnchorAfter mints a right-biased anchor at the given offset. Text
// inserted exactly at the anchor position lands before it.
func (s *Snapshot) AnchorAfter(offset ByteOffset) Anchor {
	return Anchor{
		Revision: s.revision,
		Offset:   s.clampOffset(offset),
		Bias:     BiasRight,
	}
}

// AnchorBefore mints a left-biased anchor at the given offset. Text
// inserted exactly at the anchor position lands after it.
func (s *Snapshot) AnchorBefore(offset ByteOffset) Anchor {
	return Anchor{
		Revision: s.revision,
		Offset:   s.clampOffset(offset),
		Bias:     BiasLeft,
	}
}

func (s *Snapshot) clampOffset(offset ByteOffset) ByteOffset {
	if offset < 0 {
		return 0
	}
	if max := ByteOffset(s.content.Len()); offset > max {
		return max
	}
	return offset
}
