package rope

// ByteOffset represents an absolute byte position in the rope.
type ByteOffset uint64

// Point represents a line/column position.
// Line and Column are both 0-indexed.
type Point struct {
	Line   uint32
	Column uint32
}

// TextSummary holds aggregated metrics for a text span. It is the
// summary type for the rope tree: every node stores the combined
// summary of its subtree, so byte and line positions can be located
// without touching the text itself.
type TextSummary struct {
	// Bytes is the UTF-8 byte count.
	Bytes ByteOffset

	// Lines is the number of newline characters.
	Lines uint32
}

// Add combines two summaries (monoid operation).
// This is called when concatenating rope sections.
func (s TextSummary) Add(other TextSummary) TextSummary {
	return TextSummary{
		Bytes: s.Bytes + other.Bytes,
		Lines: s.Lines + other.Lines,
	}
}
