package patch

import (
	"math"
	"strings"

	"github.com/dshills/fuzzypatch/internal/engine/buffer"
)

// Alignment costs. Skipping a query line is expensive, tolerating an
// extra buffer line is cheap, and aligning a fuzzily-equal pair costs
// slightly more than an exact pair. A dissimilar pair costs the same as
// skipping both lines, so the alignment never prefers forcing them
// together.
const (
	replacementCost uint32 = 1
	insertionCost   uint32 = 3
	deletionCost    uint32 = 10
)

// matchThreshold is the minimum fraction of aligned lines for a
// candidate location to be accepted.
const matchThreshold = 0.8

type searchDirection uint8

const (
	searchUp searchDirection = iota
	searchLeft
	searchDiagonal
)

// searchState is one cell of the alignment matrix: the cheapest cost of
// aligning a query prefix against a buffer prefix, and the move that
// produced it. Ties prefer up over left over diagonal.
type searchState struct {
	cost      uint32
	direction searchDirection
}

func minState(a, b searchState) searchState {
	if b.cost < a.cost || (b.cost == a.cost && b.direction < a.direction) {
		return b
	}
	return a
}

func saturatingAdd(a, b uint32) uint32 {
	if s := a + b; s >= a {
		return s
	}
	return math.MaxUint32
}

// searchMatrix is a dense (queryRows+1) x (bufferRows+1) matrix backed by
// a flat slice. The backing slice is reused across ranges, so repeated
// matching does not reallocate.
type searchMatrix struct {
	rows  int
	cols  int
	cells []searchState
}

func (m *searchMatrix) reset(rows, cols int) {
	m.rows = rows
	m.cols = cols
	n := rows * cols
	if cap(m.cells) < n {
		m.cells = make([]searchState, n)
		return
	}
	m.cells = m.cells[:n]
	for i := range m.cells {
		m.cells[i] = searchState{}
	}
}

func (m *searchMatrix) get(row, col int) searchState {
	return m.cells[row*m.cols+col]
}

func (m *searchMatrix) set(row, col int, s searchState) {
	m.cells[row*m.cols+col] = s
}

// rangeMatch is one candidate location: the alignment cost and the
// matched span, expanded to whole lines and clamped to the searched
// range.
type rangeMatch struct {
	cost uint32
	span buffer.Range
}

// matcher aligns a query against line ranges of a snapshot. Lines are
// compared with surrounding whitespace stripped, so indentation changes
// do not break matching. A matcher holds scratch state and is not safe
// for concurrent use; match independent ranges with separate matchers.
type matcher struct {
	snap       *buffer.Snapshot
	queryLines []string
	matrix     searchMatrix
	sim        *similarity
}

func newMatcher(snap *buffer.Snapshot, query string) *matcher {
	return &matcher{
		snap:       snap,
		queryLines: splitQueryLines(query),
		sim:        newSimilarity(),
	}
}

// splitQueryLines splits the query into trimmed lines. A trailing
// newline does not contribute an empty line, matching how a block of
// lines is usually quoted.
func splitQueryLines(query string) []string {
	lines := strings.Split(query, "\n")
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	return lines
}

// matchRange aligns the query against one range of the snapshot. It
// returns the cheapest acceptable location, or nil when no alignment
// clears the match threshold. An empty query matches nothing.
func (m *matcher) matchRange(r buffer.Range) *rangeMatch {
	if len(m.queryLines) == 0 {
		return nil
	}
	r = r.Intersect(m.snap.FullRange())
	if r.IsEmpty() {
		return nil
	}

	rangeText := m.snap.TextRange(r.Start, r.End)
	bufferLines := strings.Split(rangeText, "\n")
	for i, line := range bufferLines {
		bufferLines[i] = strings.TrimSpace(line)
	}
	startRow := m.snap.OffsetToPoint(r.Start).Line

	queryRows := len(m.queryLines)
	bufferRows := len(bufferLines)
	m.matrix.reset(queryRows+1, bufferRows+1)

	// Row 0 stays zero: a match may begin at any buffer row for free.
	// Column 0 charges for every query line skipped before the buffer
	// even starts.
	for row, queryLine := range m.queryLines {
		m.matrix.set(row+1, 0, searchState{
			cost:      deletionCost * uint32(row+1),
			direction: searchUp,
		})
		for col, bufferLine := range bufferLines {
			up := searchState{
				cost:      saturatingAdd(m.matrix.get(row, col+1).cost, deletionCost),
				direction: searchUp,
			}
			left := searchState{
				cost:      saturatingAdd(m.matrix.get(row+1, col).cost, insertionCost),
				direction: searchLeft,
			}

			var diagonalCost uint32
			switch {
			case queryLine == bufferLine:
				diagonalCost = m.matrix.get(row, col).cost
			case m.sim.fuzzyEqual(queryLine, bufferLine):
				diagonalCost = saturatingAdd(m.matrix.get(row, col).cost, replacementCost)
			default:
				diagonalCost = saturatingAdd(m.matrix.get(row, col).cost, deletionCost+insertionCost)
			}
			diagonal := searchState{cost: diagonalCost, direction: searchDiagonal}

			m.matrix.set(row+1, col+1, minState(minState(up, left), diagonal))
		}
	}

	best := uint32(math.MaxUint32)
	for col := 0; col <= bufferRows; col++ {
		if cost := m.matrix.get(queryRows, col).cost; cost < best {
			best = cost
		}
	}

	// Several end columns can share the minimum cost; the first one that
	// clears the threshold wins.
	for col := 0; col <= bufferRows; col++ {
		if m.matrix.get(queryRows, col).cost != best {
			continue
		}
		if span, ok := m.backtrace(queryRows, col, startRow, r); ok {
			return &rangeMatch{cost: best, span: span}
		}
	}
	return nil
}

// backtrace walks the matrix from the given end column to the start of
// the alignment, counting aligned line pairs. It reports the matched
// byte span and whether the alignment clears the acceptance threshold.
func (m *matcher) backtrace(queryRows, endCol int, startRow uint32, r buffer.Range) (buffer.Range, bool) {
	row := queryRows
	col := endCol
	matched := 0
	for row > 0 && col > 0 {
		switch m.matrix.get(row, col).direction {
		case searchDiagonal:
			row--
			col--
			matched++
		case searchUp:
			row--
		case searchLeft:
			col--
		}
	}

	matchedRows := endCol - col
	denominator := matchedRows
	if queryRows > denominator {
		denominator = queryRows
	}
	if denominator == 0 || float64(matched)/float64(denominator) < matchThreshold {
		return buffer.Range{}, false
	}

	firstRow := startRow + uint32(col)
	lastRow := startRow + uint32(endCol) - 1
	span := buffer.Range{
		Start: m.snap.LineStartOffset(firstRow),
		End:   m.snap.LineEndOffset(lastRow),
	}
	span.Start = r.Clamp(span.Start)
	span.End = r.Clamp(span.End)
	return span, true
}
