package patch

import (
	"strings"

	"github.com/dshills/fuzzypatch/internal/engine/buffer"
)

// selectMatch runs the matcher over each candidate range in order and
// picks the cheapest accepted match. A strictly cheaper match replaces
// the current best and clears any recorded tie; an equally cheap match
// at a different location is recorded as a tie. A tie that survives all
// ranges makes the query ambiguous.
func selectMatch(m *matcher, ranges []buffer.Range, query string) (buffer.Range, error) {
	var best, tie *rangeMatch
	for _, r := range ranges {
		got := m.matchRange(r)
		if got == nil {
			continue
		}
		switch {
		case best == nil || got.cost < best.cost:
			best = got
			tie = nil
		case got.cost == best.cost && got.span != best.span:
			tie = got
		}
	}

	if best == nil {
		return buffer.Range{}, newNoMatchError(m, ranges, query)
	}
	if tie != nil {
		return buffer.Range{}, newAmbiguousMatchError(m.snap, query, best, tie)
	}
	return best.span, nil
}

func newAmbiguousMatchError(snap *buffer.Snapshot, query string, first, second *rangeMatch) error {
	return &AmbiguousMatchError{
		Query:  query,
		First:  newCandidate(snap, first.span),
		Second: newCandidate(snap, second.span),
	}
}

func newCandidate(snap *buffer.Snapshot, span buffer.Range) Candidate {
	return Candidate{
		Span:  span,
		Start: snap.OffsetToPoint(span.Start),
		Text:  snap.TextRange(span.Start, span.End),
	}
}

func newNoMatchError(m *matcher, ranges []buffer.Range, query string) error {
	var searched strings.Builder
	for i, r := range ranges {
		if i > 0 {
			searched.WriteString("\n")
		}
		searched.WriteString(m.snap.TextRange(r.Start, r.End))
	}
	return &NoMatchError{
		Query:    query,
		Searched: searched.String(),
		Closest:  closestMatch(m, ranges),
	}
}

// closestMatch slides a window of query-sized line groups over every
// searched range and returns the one most similar to the query. It runs
// only on the failure path, as a diagnostic for stale or invented
// queries.
func closestMatch(m *matcher, ranges []buffer.Range) string {
	if len(m.queryLines) == 0 {
		return ""
	}
	query := strings.Join(m.queryLines, "\n")

	var bestText string
	bestScore := 0.0
	for _, r := range ranges {
		r = r.Intersect(m.snap.FullRange())
		lines := strings.Split(m.snap.TextRange(r.Start, r.End), "\n")
		window := len(m.queryLines)
		if window > len(lines) {
			window = len(lines)
		}
		trimmed := make([]string, window)
		for i := 0; i+window <= len(lines); i++ {
			candidate := lines[i : i+window]
			for j, line := range candidate {
				trimmed[j] = strings.TrimSpace(line)
			}
			score := m.sim.score(query, strings.Join(trimmed, "\n"))
			if score > bestScore {
				bestScore = score
				bestText = strings.Join(candidate, "\n")
			}
		}
	}
	return bestText
}
