package patch

import (
	"errors"
	"strings"
	"testing"

	"github.com/dshills/fuzzypatch/internal/engine/buffer"
)

func TestSelectMatchSingleRange(t *testing.T) {
	snap := buffer.NewSnapshot(threeLines)
	m := newMatcher(snap, "five six seven eight")

	span, err := selectMatch(m, []buffer.Range{snap.FullRange()}, "five six seven eight")
	if err != nil {
		t.Fatalf("select failed: %v", err)
	}
	if span != (buffer.Range{Start: 19, End: 39}) {
		t.Errorf("expected span [19:39), got %v", span)
	}
}

func TestSelectMatchPrefersCheaper(t *testing.T) {
	// The first range holds a near match, the second an exact one; the
	// exact match wins despite range order.
	text := "alpha beta gamma X\nalpha beta gamma\n"
	snap := buffer.NewSnapshot(text)
	m := newMatcher(snap, "alpha beta gamma")

	ranges := []buffer.Range{
		{Start: snap.LineStartOffset(0), End: snap.LineEndOffset(0)},
		{Start: snap.LineStartOffset(1), End: snap.LineEndOffset(1)},
	}

	span, err := selectMatch(m, ranges, "alpha beta gamma")
	if err != nil {
		t.Fatalf("select failed: %v", err)
	}
	if got := snap.TextRange(span.Start, span.End); got != "alpha beta gamma" {
		t.Errorf("expected the exact line, got %q", got)
	}
	if span.Start != snap.LineStartOffset(1) {
		t.Errorf("expected match in second range, got %v", span)
	}
}

func TestSelectMatchAmbiguous(t *testing.T) {
	text := "func a() {\n\treturn 0\n}\nfunc b() {\n\treturn 0\n}\n"
	snap := buffer.NewSnapshot(text)

	half := snap.LineStartOffset(3)
	ranges := []buffer.Range{
		{Start: 0, End: half},
		{Start: half, End: snap.Len()},
	}

	query := "\treturn 9"
	m := newMatcher(snap, query)

	_, err := selectMatch(m, ranges, query)
	if !errors.Is(err, ErrAmbiguousMatch) {
		t.Fatalf("expected ErrAmbiguousMatch, got %v", err)
	}

	var ambiguous *AmbiguousMatchError
	if !errors.As(err, &ambiguous) {
		t.Fatalf("expected AmbiguousMatchError, got %T", err)
	}
	if ambiguous.First.Start.Line != 1 {
		t.Errorf("expected first candidate on line 1, got %v", ambiguous.First.Start)
	}
	if ambiguous.Second.Start.Line != 4 {
		t.Errorf("expected second candidate on line 4, got %v", ambiguous.Second.Start)
	}
	if ambiguous.First.Text != "\treturn 0" {
		t.Errorf("unexpected first candidate text %q", ambiguous.First.Text)
	}
}

func TestSelectMatchIdenticalSpansNotAmbiguous(t *testing.T) {
	// Overlapping ranges that find the same location are one match, not
	// an ambiguity.
	snap := buffer.NewSnapshot(threeLines)
	m := newMatcher(snap, "five six seven eight")

	ranges := []buffer.Range{snap.FullRange(), snap.FullRange()}
	span, err := selectMatch(m, ranges, "five six seven eight")
	if err != nil {
		t.Fatalf("select failed: %v", err)
	}
	if span != (buffer.Range{Start: 19, End: 39}) {
		t.Errorf("expected span [19:39), got %v", span)
	}
}

func TestSelectMatchCheaperClearsTie(t *testing.T) {
	// Ranges one and two tie; range three is strictly cheaper and must
	// clear the recorded tie.
	text := "return 1\nreturn 2\nreturn 3\n"
	snap := buffer.NewSnapshot(text)

	lineRange := func(line uint32) buffer.Range {
		return buffer.Range{Start: snap.LineStartOffset(line), End: snap.LineEndOffset(line)}
	}

	query := "return 3"
	m := newMatcher(snap, query)

	span, err := selectMatch(m, []buffer.Range{lineRange(0), lineRange(1), lineRange(2)}, query)
	if err != nil {
		t.Fatalf("select failed: %v", err)
	}
	if span != lineRange(2) {
		t.Errorf("expected exact match span %v, got %v", lineRange(2), span)
	}
}

func TestSelectMatchNoMatch(t *testing.T) {
	text := "the quick brown fox\njumps over the lazy dog\n"
	snap := buffer.NewSnapshot(text)

	query := "the quick crimson wolf"
	m := newMatcher(snap, query)

	_, err := selectMatch(m, []buffer.Range{snap.FullRange()}, query)
	if !errors.Is(err, ErrNoMatch) {
		t.Fatalf("expected ErrNoMatch, got %v", err)
	}

	var noMatch *NoMatchError
	if !errors.As(err, &noMatch) {
		t.Fatalf("expected NoMatchError, got %T", err)
	}
	if noMatch.Query != query {
		t.Errorf("expected query %q, got %q", query, noMatch.Query)
	}
	if !strings.Contains(noMatch.Searched, "quick brown fox") {
		t.Errorf("searched text missing buffer content: %q", noMatch.Searched)
	}
	if noMatch.Closest != "the quick brown fox" {
		t.Errorf("expected closest match %q, got %q", "the quick brown fox", noMatch.Closest)
	}
}

func TestSelectMatchEmptyQuery(t *testing.T) {
	snap := buffer.NewSnapshot(threeLines)
	m := newMatcher(snap, "")

	_, err := selectMatch(m, []buffer.Range{snap.FullRange()}, "")
	if !errors.Is(err, ErrNoMatch) {
		t.Errorf("empty query should report no match, got %v", err)
	}
}

func TestClosestMatchMultiLine(t *testing.T) {
	text := "one\ntwo\nthree\nfour\nfive\n"
	snap := buffer.NewSnapshot(text)
	m := newMatcher(snap, "two\nthree\nfourx yyy zzz")

	got := closestMatch(m, []buffer.Range{snap.FullRange()})
	if got != "two\nthree\nfour" {
		t.Errorf("expected window 'two\\nthree\\nfour', got %q", got)
	}
}
