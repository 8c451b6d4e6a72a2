package patch

import (
	"unicode/utf8"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// similarityThreshold is the minimum normalized similarity for two lines
// to count as the same line edited.
const similarityThreshold = 0.8

// similarity scores string pairs by normalized Levenshtein distance.
// It holds a diff instance so repeated scoring reuses its settings; it
// is not safe for concurrent use.
type similarity struct {
	dmp *diffmatchpatch.DiffMatchPatch
}

func newSimilarity() *similarity {
	dmp := diffmatchpatch.New()
	dmp.DiffTimeout = 0 // keep diffs exact and deterministic
	return &similarity{dmp: dmp}
}

// fuzzyEqual reports whether two lines are similar enough to align. The
// byte length difference bounds the edit distance from below, which
// rejects most pairs without computing a diff.
func (s *similarity) fuzzyEqual(a, b string) bool {
	maxLen := len(a)
	if len(b) > maxLen {
		maxLen = len(b)
	}
	if maxLen == 0 {
		return true
	}
	minDistance := len(a) - len(b)
	if minDistance < 0 {
		minDistance = -minDistance
	}
	if 1.0-float64(minDistance)/float64(maxLen) < similarityThreshold {
		return false
	}
	return s.score(a, b) >= similarityThreshold
}

// score returns the normalized similarity of two strings: 1 for equal
// strings, 0 for entirely different ones. Distance is measured in runes.
func (s *similarity) score(a, b string) float64 {
	if a == b {
		return 1
	}
	maxRunes := utf8.RuneCountInString(a)
	if n := utf8.RuneCountInString(b); n > maxRunes {
		maxRunes = n
	}
	if maxRunes == 0 {
		return 1
	}
	diffs := s.dmp.DiffMain(a, b, false)
	distance := s.dmp.DiffLevenshtein(diffs)
	return 1 - float64(distance)/float64(maxRunes)
}
