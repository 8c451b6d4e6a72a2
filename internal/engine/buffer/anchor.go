package buffer

import (
	"errors"
	"fmt"
)

// ErrAnchorExpired is returned when an anchor references a revision older
// than the buffer's change log can transform.
var ErrAnchorExpired = errors.New("anchor revision no longer covered by change log")

// Bias controls which side an anchor sticks to when text is inserted
// exactly at the anchor's position.
type Bias uint8

const (
	// BiasLeft keeps the anchor attached to the text before it. Text
	// inserted at the anchor position lands after the anchor.
	BiasLeft Bias = iota
	// BiasRight keeps the anchor attached to the text after it. Text
	// inserted at the anchor position lands before the anchor.
	BiasRight
)

// String returns a string representation of the bias.
func (b Bias) String() string {
	if b == BiasRight {
		return "right"
	}
	return "left"
}

// Anchor is a stable reference to a position in a buffer. It records the
// revision it was minted against, so the position can be carried forward
// across edits applied after that revision. Anchors are small value types
// and are cheap to copy.
type Anchor struct {
	Revision RevisionID // Buffer revision the offset is relative to
	Offset   ByteOffset // Byte offset at that revision
	Bias     Bias       // Side to stick to for insertions at the offset
}

// String returns a human-readable representation of the anchor.
func (a Anchor) String() string {
	return fmt.Sprintf("@%d+%s(rev %d)", a.Offset, a.Bias, a.Revision)
}

// Resolve maps the anchor to a byte offset in the buffer's current state,
// transforming it across every change applied since the anchor's revision.
// It fails with ErrAnchorExpired if the buffer's change log no longer
// reaches back to the anchor's revision.
func (a Anchor) Resolve(b *Buffer) (ByteOffset, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return a.resolveLocked(b)
}

func (a Anchor) resolveLocked(b *Buffer) (ByteOffset, error) {
	if a.Revision == b.revision {
		return a.Offset, nil
	}
	if a.Revision < b.logBase {
		return 0, fmt.Errorf("%w: anchor at revision %d, log starts at %d", ErrAnchorExpired, a.Revision, b.logBase)
	}
	off := a.Offset
	for _, c := range b.changes {
		if c.Revision <= a.Revision {
			continue
		}
		off = transformOffset(off, a.Bias, c)
	}
	return off, nil
}

// transformOffset carries a byte offset across a single change.
//
// Offsets strictly before the replaced range are unaffected; offsets at or
// after its end shift by the change's delta. An offset inside the replaced
// range collapses to the edge named by its bias. An offset exactly at the
// start of a pure insertion stays put with BiasLeft and moves past the
// inserted text with BiasRight.
func transformOffset(off ByteOffset, bias Bias, c Change) ByteOffset {
	start, end := c.Range.Start, c.Range.End
	newEnd := start + c.NewLen
	switch {
	case off < start:
		return off
	case off == start:
		if c.Range.IsEmpty() && bias == BiasRight {
			return newEnd
		}
		return off
	case off < end:
		if bias == BiasLeft {
			return start
		}
		return newEnd
	default:
		return off + c.Delta()
	}
}

// AnchoredEdit is an edit whose boundaries are anchors rather than raw
// offsets. The start anchor is right-biased and the end anchor is
// left-biased, so a zero-width insertion does not absorb neighboring
// insertions made at the same position.
type AnchoredEdit struct {
	Start   Anchor // Right-biased start of the replaced range
	End     Anchor // Left-biased end of the replaced range
	NewText string // The replacement text
}

// String returns a human-readable representation of the edit.
func (e AnchoredEdit) String() string {
	return fmt.Sprintf("AnchoredEdit(%s..%s, %q)", e.Start, e.End, e.NewText)
}

// IsInsert returns true if the edit replaces an empty range.
func (e AnchoredEdit) IsInsert() bool {
	return e.Start.Offset == e.End.Offset
}

// Resolve maps the edit's anchors to a concrete Edit against the buffer's
// current state. If the transformed boundaries cross (possible when two
// independent insertions land at the same position), the range collapses
// to the start.
func (e AnchoredEdit) Resolve(b *Buffer) (Edit, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return e.resolveLocked(b)
}

func (e AnchoredEdit) resolveLocked(b *Buffer) (Edit, error) {
	start, err := e.Start.resolveLocked(b)
	if err != nil {
		return Edit{}, err
	}
	end, err := e.End.resolveLocked(b)
	if err != nil {
		return Edit{}, err
	}
	if end < start {
		end = start
	}
	return Edit{Range: Range{Start: start, End: end}, NewText: e.NewText}, nil
}
