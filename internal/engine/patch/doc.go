// Package patch locates and resolves semi-structured text edits against
// buffer snapshots.
//
// A patch names a file and carries ordered pairs of old and new text:
//
//	<edits path="src/main.go">
//	<old_text>
//	func run() int {
//	</old_text>
//	<new_text>
//	func run(ctx context.Context) int {
//	</new_text>
//	</edits>
//
// The old text does not need to match the buffer exactly. Each pair is
// located by aligning the quoted lines against the buffer with a
// weighted edit-distance over lines: whitespace-insensitive, tolerant of
// extra buffer lines, and accepting near-equal lines via normalized
// Levenshtein similarity. An alignment is accepted only when enough of
// its lines actually correspond; a query that matches two places equally
// well is rejected as ambiguous rather than guessed at.
//
// Accepted matches are refined with a character-level diff so only the
// text that really changed is touched, and the resulting edits are
// anchored to the snapshot. Anchors survive concurrent buffer edits, so
// the caller can apply the result to a buffer that has moved on since
// the snapshot was taken (see the buffer package).
//
// Apply is the entry point; the caller supplies a Resolver that maps the
// patch's path to a snapshot and the ranges to search, letting it scope
// matching to regions it cares about (for example, around a cursor)
// before falling back to the whole file.
package patch
