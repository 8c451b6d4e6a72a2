package buffer

import (
	"errors"
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/dshills/fuzzypatch/internal/engine/rope"
)

// Errors returned by buffer operations.
var (
	ErrOffsetOutOfRange = errors.New("offset out of range")
	ErrRangeInvalid     = errors.New("invalid range")
	ErrEditsOverlap     = errors.New("edits overlap")
)

// DefaultChangeLogLimit bounds how many changes the buffer retains for
// anchor resolution before old entries are evicted.
const DefaultChangeLogLimit = 1024

// LineEnding specifies the line ending style of the underlying document.
// Buffer content is always stored with LF internally; the style records
// how the document was encoded so it can be restored on save.
type LineEnding uint8

const (
	LineEndingLF   LineEnding = iota // Unix: \n
	LineEndingCRLF                   // Windows: \r\n
	LineEndingCR                     // Old Mac: \r
)

// String returns the string representation of the line ending.
func (le LineEnding) String() string {
	switch le {
	case LineEndingCRLF:
		return "\\r\\n"
	case LineEndingCR:
		return "\\r"
	default:
		return "\\n"
	}
}

// Sequence returns the actual line ending characters.
func (le LineEnding) Sequence() string {
	switch le {
	case LineEndingCRLF:
		return "\r\n"
	case LineEndingCR:
		return "\r"
	default:
		return "\n"
	}
}

// Apply converts LF-normalized text to this line ending style.
func (le LineEnding) Apply(s string) string {
	if le == LineEndingLF {
		return s
	}
	return strings.ReplaceAll(s, "\n", le.Sequence())
}

// normalizeToLF converts all line endings in s to LF.
func normalizeToLF(s string) string {
	if !strings.ContainsRune(s, '\r') {
		return s
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}

// Buffer holds document text with revision tracking and a bounded change
// log for resolving anchors minted against older revisions. Text is stored
// in an immutable rope, so line lookups are O(log n) and snapshots share
// the tree instead of copying it. All methods are thread-safe.
type Buffer struct {
	mu         sync.RWMutex
	content    rope.Rope
	revision   RevisionID
	lineEnding LineEnding
	detectLE   bool
	changes    []Change
	logBase    RevisionID // Oldest anchor revision the log can still transform
	logLimit   int
}

// NewBuffer creates a new empty buffer.
func NewBuffer(opts ...Option) *Buffer {
	b := &Buffer{
		content:    rope.New(),
		revision:   NewRevisionID(),
		lineEnding: LineEndingLF,
		detectLE:   true,
		logLimit:   DefaultChangeLogLimit,
	}
	b.logBase = b.revision

	for _, opt := range opts {
		opt(b)
	}

	return b
}

// NewBufferFromString creates a buffer with initial content.
// Unless an explicit line ending style is configured, the style is
// detected from the content. The content itself is normalized to LF.
func NewBufferFromString(s string, opts ...Option) *Buffer {
	b := NewBuffer(opts...)
	if b.detectLE {
		b.lineEnding = DetectLineEnding(s)
	}
	b.content = rope.FromString(normalizeToLF(s))
	return b
}

// NewBufferFromReader creates a buffer from an io.Reader.
func NewBufferFromReader(r io.Reader, opts ...Option) (*Buffer, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return NewBufferFromString(string(data), opts...), nil
}

// Read Operations

// Text returns the full buffer content as a string.
func (b *Buffer) Text() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.content.String()
}

// TextRange returns text in the given byte range. Out-of-range offsets
// are clamped to the buffer.
func (b *Buffer) TextRange(start, end ByteOffset) string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return sliceRope(b.content, start, end)
}

// Len returns the total byte length of the buffer.
func (b *Buffer) Len() ByteOffset {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return ByteOffset(b.content.Len())
}

// LineCount returns the number of lines.
func (b *Buffer) LineCount() uint32 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.content.LineCount()
}

// LineText returns the text of a specific line (without newline).
func (b *Buffer) LineText(line uint32) string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.content.LineText(line)
}

// LineLen returns the length of a specific line in bytes (without newline).
func (b *Buffer) LineLen(line uint32) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return int(b.content.LineEndOffset(line) - b.content.LineStartOffset(line))
}

// Coordinate Conversion

// OffsetToPoint converts a byte offset to line/column.
func (b *Buffer) OffsetToPoint(offset ByteOffset) Point {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return fromRopePoint(b.content.OffsetToPoint(ropeOffset(offset)))
}

// PointToOffset converts line/column to byte offset.
func (b *Buffer) PointToOffset(point Point) ByteOffset {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return ByteOffset(b.content.PointToOffset(toRopePoint(point)))
}

// LineStartOffset returns the byte offset of the start of a line.
func (b *Buffer) LineStartOffset(line uint32) ByteOffset {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return ByteOffset(b.content.LineStartOffset(line))
}

// LineEndOffset returns the byte offset of the end of a line (before newline).
func (b *Buffer) LineEndOffset(line uint32) ByteOffset {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return ByteOffset(b.content.LineEndOffset(line))
}

// Write Operations

// Insert inserts text at the given offset.
// Returns the end position of the inserted text.
func (b *Buffer) Insert(offset ByteOffset, text string) (ByteOffset, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if offset < 0 || offset > ByteOffset(b.content.Len()) {
		return 0, ErrOffsetOutOfRange
	}

	text = normalizeToLF(text)
	b.replaceLocked(Range{Start: offset, End: offset}, text)
	return offset + ByteOffset(len(text)), nil
}

// Delete removes text in the given range.
func (b *Buffer) Delete(start, end ByteOffset) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if start < 0 || start > end || end > ByteOffset(b.content.Len()) {
		return ErrRangeInvalid
	}

	b.replaceLocked(Range{Start: start, End: end}, "")
	return nil
}

// Replace replaces text in the given range with new text.
// Returns the end position of the replacement text.
func (b *Buffer) Replace(start, end ByteOffset, text string) (ByteOffset, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if start < 0 || start > end || end > ByteOffset(b.content.Len()) {
		return 0, ErrRangeInvalid
	}

	text = normalizeToLF(text)
	b.replaceLocked(Range{Start: start, End: end}, text)
	return start + ByteOffset(len(text)), nil
}

// ApplyAnchored resolves a batch of anchored edits against the current
// state and applies them atomically. The resolved edits must not overlap
// once sorted; touching ranges are allowed. It returns the resolved edits
// in ascending offset order, in the coordinates of the pre-batch state.
func (b *Buffer) ApplyAnchored(edits []AnchoredEdit) ([]Edit, error) {
	if len(edits) == 0 {
		return nil, nil
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	resolved := make([]Edit, 0, len(edits))
	for _, e := range edits {
		edit, err := e.resolveLocked(b)
		if err != nil {
			return nil, err
		}
		resolved = append(resolved, edit)
	}

	sort.SliceStable(resolved, func(i, j int) bool {
		return resolved[i].Range.Start < resolved[j].Range.Start
	})

	textLen := ByteOffset(b.content.Len())
	for i, edit := range resolved {
		if !edit.Range.IsValid() || edit.Range.End > textLen {
			return nil, ErrRangeInvalid
		}
		if i > 0 && edit.Range.Start < resolved[i-1].Range.End {
			return nil, ErrEditsOverlap
		}
	}

	// Apply back to front so earlier offsets stay valid. Iterating the
	// ascending slice in reverse also keeps same-position insertions in
	// document order.
	for i := len(resolved) - 1; i >= 0; i-- {
		edit := resolved[i]
		b.replaceLocked(edit.Range, normalizeToLF(edit.NewText))
	}

	return resolved, nil
}

// replaceLocked performs the replacement on the rope, bumps the revision,
// and records the change. The range must be validated before the call.
// Caller must hold the write lock.
func (b *Buffer) replaceLocked(r Range, text string) {
	b.content = b.content.Replace(rope.ByteOffset(r.Start), rope.ByteOffset(r.End), text)
	b.revision = NewRevisionID()
	b.recordLocked(Change{
		Revision: b.revision,
		Range:    r,
		NewLen:   ByteOffset(len(text)),
	})
}

// recordLocked appends a change to the log, evicting the oldest entries
// once the log exceeds its limit. Anchors older than the evicted entries
// can no longer be resolved.
func (b *Buffer) recordLocked(c Change) {
	b.changes = append(b.changes, c)
	if b.logLimit > 0 && len(b.changes) > b.logLimit {
		evicted := b.changes[0]
		b.changes = append(b.changes[:0], b.changes[1:]...)
		b.logBase = evicted.Revision
	}
}

// Buffer State

// RevisionID returns the current revision ID.
func (b *Buffer) RevisionID() RevisionID {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.revision
}

// IsEmpty returns true if the buffer is empty.
func (b *Buffer) IsEmpty() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.content.IsEmpty()
}

// LineEnding returns the document's line ending style.
func (b *Buffer) LineEnding() LineEnding {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.lineEnding
}

// Snapshot returns a read-only snapshot of the current buffer state.
// The snapshot shares the rope's immutable tree, so taking one is O(1)
// and later edits to the buffer never disturb it. Safe for concurrent
// access from other goroutines.
func (b *Buffer) Snapshot() *Snapshot {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return &Snapshot{
		content:    b.content,
		revision:   b.revision,
		lineEnding: b.lineEnding,
	}
}

// ropeOffset converts a buffer offset to a rope offset. Buffer offsets are
// signed and rope offsets are not, so negatives clamp to zero before the
// conversion.
func ropeOffset(offset ByteOffset) rope.ByteOffset {
	if offset < 0 {
		return 0
	}
	return rope.ByteOffset(offset)
}

// sliceRope returns content in [start, end) with both offsets clamped.
func sliceRope(content rope.Rope, start, end ByteOffset) string {
	return content.Slice(ropeOffset(start), ropeOffset(end))
}

func toRopePoint(p Point) rope.Point {
	return rope.Point{Line: p.Line, Column: p.Column}
}

func fromRopePoint(p rope.Point) Point {
	return Point{Line: p.Line, Column: p.Column}
}
