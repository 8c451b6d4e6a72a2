package patch

import (
	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/dshills/fuzzypatch/internal/engine/buffer"
)

// diffEdits refines an accepted match into minimal character-level
// edits. The matched region is diffed against the replacement and runs
// of changes are folded into replacement hunks, so text shared between
// the two stays untouched in the buffer.
//
// Each hunk is anchored with a right-biased start and a left-biased end.
// A zero-width insertion therefore keeps its position even when another
// edit lands at the same spot.
func diffEdits(snap *buffer.Snapshot, match buffer.Range, newText string) []buffer.AnchoredEdit {
	oldText := snap.TextRange(match.Start, match.End)
	if oldText == newText {
		return nil
	}

	dmp := diffmatchpatch.New()
	dmp.DiffTimeout = 0
	diffs := dmp.DiffMain(oldText, newText, false)

	var edits []buffer.AnchoredEdit
	pos := match.Start
	open := -1
	for _, d := range diffs {
		switch d.Type {
		case diffmatchpatch.DiffEqual:
			open = -1
			pos += buffer.ByteOffset(len(d.Text))
		case diffmatchpatch.DiffDelete:
			if open < 0 {
				open = openHunk(&edits, snap, pos)
			}
			pos += buffer.ByteOffset(len(d.Text))
			edits[open].End = snap.AnchorBefore(pos)
		case diffmatchpatch.DiffInsert:
			if open < 0 {
				open = openHunk(&edits, snap, pos)
			}
			edits[open].NewText += d.Text
		}
	}
	return edits
}

// openHunk starts an empty hunk at the given offset and returns its index.
func openHunk(edits *[]buffer.AnchoredEdit, snap *buffer.Snapshot, at buffer.ByteOffset) int {
	*edits = append(*edits, buffer.AnchoredEdit{
		Start: snap.AnchorAfter(at),
		End:   snap.AnchorBefore(at),
	})
	return len(*edits) - 1
}
