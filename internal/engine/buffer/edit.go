package buffer

import "fmt"

// Edit represents a text edit operation.
// It specifies a range to replace and the new text.
type Edit struct {
	Range   Range  // The range to replace
	NewText string // The replacement text
}

// NewEdit creates a new Edit.
func NewEdit(r Range, newText string) Edit {
	return Edit{Range: r, NewText: newText}
}

// NewInsert creates an Edit that inserts text at a position.
func NewInsert(offset ByteOffset, text string) Edit {
	return Edit{
		Range:   Range{Start: offset, End: offset},
		NewText: text,
	}
}

// NewDelete creates an Edit that deletes a range of text.
func NewDelete(start, end ByteOffset) Edit {
	return Edit{
		Range:   Range{Start: start, End: end},
		NewText: "",
	}
}

// String returns a human-readable representation of the edit.
func (e Edit) String() string {
	if e.Range.IsEmpty() {
		return fmt.Sprintf("Insert(%d, %q)", e.Range.Start, e.NewText)
	}
	if e.NewText == "" {
		return fmt.Sprintf("Delete%s", e.Range.String())
	}
	return fmt.Sprintf("Replace%s with %q", e.Range.String(), e.NewText)
}

// IsInsert returns true if this is a pure insertion (empty range).
func (e Edit) IsInsert() bool {
	return e.Range.IsEmpty() && e.NewText != ""
}

// Delta returns the change in buffer length caused by this edit.
func (e Edit) Delta() ByteOffset {
	return ByteOffset(len(e.NewText)) - e.Range.Len()
}

// Change records a single applied edit for position transformation.
// The buffer keeps a bounded log of changes so that anchors minted
// against older revisions can be carried forward.
type Change struct {
	Revision RevisionID // Revision created by this change
	Range    Range      // Range that was replaced, in pre-change coordinates
	NewLen   ByteOffset // Length in bytes of the replacement text
}

// Delta returns the change in buffer length caused by this change.
func (c Change) Delta() ByteOffset {
	return c.NewLen - c.Range.Len()
}
