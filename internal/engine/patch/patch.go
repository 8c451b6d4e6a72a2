package patch

import (
	"fmt"

	"github.com/dshills/fuzzypatch/internal/engine/buffer"
)

// Resolver maps the path named by an edits tag to the snapshot to edit
// and the ranges to search, in priority order. Returning ok=false
// reports that no buffer exists for the path. An empty range slice
// searches the whole snapshot.
type Resolver func(path string) (snap *buffer.Snapshot, ranges []buffer.Range, ok bool)

// Apply parses a patch and resolves every old/new pair against the
// snapshot supplied by resolve. It returns that snapshot and the
// anchored edits in patch order; edits from one pair never overlap and
// appear in ascending position. Any failure is wrapped in a PatchError
// carrying the full patch text.
func Apply(input string, resolve Resolver) (*buffer.Snapshot, []buffer.AnchoredEdit, error) {
	snap, edits, err := apply(input, resolve)
	if err != nil {
		return nil, nil, &PatchError{Input: input, Err: err}
	}
	return snap, edits, nil
}

func apply(input string, resolve Resolver) (*buffer.Snapshot, []buffer.AnchoredEdit, error) {
	rest := input
	editsTag, err := parseTag(&rest, "edits")
	if err != nil {
		return nil, nil, err
	}
	if editsTag == nil {
		return nil, nil, ErrNoEditsTag
	}

	path, err := parsePathAttribute(editsTag.attributes)
	if err != nil {
		return nil, nil, err
	}

	snap, ranges, ok := resolve(path)
	if !ok {
		return nil, nil, fmt.Errorf("%w: %q", ErrUnresolvedPath, path)
	}
	if len(ranges) == 0 {
		ranges = []buffer.Range{snap.FullRange()}
	}

	body := editsTag.body
	var edits []buffer.AnchoredEdit
	for {
		oldTag, err := parseTag(&body, "old_text")
		if err != nil {
			return nil, nil, err
		}
		if oldTag == nil {
			break
		}
		newTag, err := parseTag(&body, "new_text")
		if err != nil {
			return nil, nil, err
		}
		if newTag == nil {
			return nil, nil, ErrMissingNewText
		}

		m := newMatcher(snap, oldTag.body)
		span, err := selectMatch(m, ranges, oldTag.body)
		if err != nil {
			return nil, nil, err
		}
		edits = append(edits, diffEdits(snap, span, newTag.body)...)
	}

	return snap, edits, nil
}
