package rope

import (
	"strings"
	"testing"
	"testing/quick"
)

func TestNew(t *testing.T) {
	r := New()
	if r.Len() != 0 {
		t.Errorf("New rope should have length 0, got %d", r.Len())
	}
	if !r.IsEmpty() {
		t.Error("New rope should be empty")
	}
	if r.String() != "" {
		t.Errorf("New rope String() should be empty, got %q", r.String())
	}
	if r.LineCount() != 1 {
		t.Errorf("New rope should have 1 line, got %d", r.LineCount())
	}
}

func TestFromString(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"single char", "a"},
		{"short string", "hello"},
		{"with newline", "hello\nworld"},
		{"multiple newlines", "a\nb\nc\nd"},
		{"unicode", "hello 世界 🌍"},
		{"long string", strings.Repeat("abcdefghij", 100)},
		{"very long string", strings.Repeat("x", 10000)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := FromString(tt.input)
			if r.String() != tt.input {
				t.Errorf("String() = %q, want %q", r.String(), tt.input)
			}
			if r.Len() != ByteOffset(len(tt.input)) {
				t.Errorf("Len() = %d, want %d", r.Len(), len(tt.input))
			}
		})
	}
}

func TestInsert(t *testing.T) {
	tests := []struct {
		name     string
		initial  string
		offset   ByteOffset
		text     string
		expected string
	}{
		{"insert at start", "world", 0, "hello ", "hello world"},
		{"insert at end", "hello", 5, " world", "hello world"},
		{"insert in middle", "helloworld", 5, " ", "hello world"},
		{"insert into empty", "", 0, "hello", "hello"},
		{"insert empty string", "hello", 3, "", "hello"},
		{"insert unicode", "hello", 5, " 世界", "hello 世界"},
		{"insert at unicode boundary", "世界", 3, "!", "世!界"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := FromString(tt.initial)
			r = r.Insert(tt.offset, tt.text)
			if got := r.String(); got != tt.expected {
				t.Errorf("got %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestDelete(t *testing.T) {
	tests := []struct {
		name     string
		initial  string
		start    ByteOffset
		end      ByteOffset
		expected string
	}{
		{"delete from start", "hello world", 0, 6, "world"},
		{"delete from end", "hello world", 5, 11, "hello"},
		{"delete from middle", "hello world", 5, 6, "helloworld"},
		{"delete all", "hello", 0, 5, ""},
		{"delete nothing", "hello", 3, 3, "hello"},
		{"delete beyond end", "hello", 0, 100, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := FromString(tt.initial)
			r = r.Delete(tt.start, tt.end)
			if got := r.String(); got != tt.expected {
				t.Errorf("got %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestReplace(t *testing.T) {
	tests := []struct {
		name     string
		initial  string
		start    ByteOffset
		end      ByteOffset
		text     string
		expected string
	}{
		{"replace word", "hello world", 6, 11, "universe", "hello universe"},
		{"replace with shorter", "hello world", 0, 5, "hi", "hi world"},
		{"replace with longer", "hi world", 0, 2, "hello", "hello world"},
		{"replace all", "hello", 0, 5, "world", "world"},
		{"replace nothing with insert", "hello", 5, 5, " world", "hello world"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := FromString(tt.initial)
			r = r.Replace(tt.start, tt.end, tt.text)
			if got := r.String(); got != tt.expected {
				t.Errorf("got %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestSplit(t *testing.T) {
	tests := []struct {
		name          string
		input         string
		offset        ByteOffset
		expectedLeft  string
		expectedRight string
	}{
		{"split at start", "hello", 0, "", "hello"},
		{"split at end", "hello", 5, "hello", ""},
		{"split in middle", "hello", 3, "hel", "lo"},
		{"split empty", "", 0, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := FromString(tt.input)
			left, right := r.Split(tt.offset)
			if left.String() != tt.expectedLeft {
				t.Errorf("left = %q, want %q", left.String(), tt.expectedLeft)
			}
			if right.String() != tt.expectedRight {
				t.Errorf("right = %q, want %q", right.String(), tt.expectedRight)
			}
		})
	}
}

func TestConcat(t *testing.T) {
	tests := []struct {
		name     string
		left     string
		right    string
		expected string
	}{
		{"concat two strings", "hello ", "world", "hello world"},
		{"concat with empty left", "", "hello", "hello"},
		{"concat with empty right", "hello", "", "hello"},
		{"concat two empty", "", "", ""},
		{"concat long strings", strings.Repeat("a", 1000), strings.Repeat("b", 1000), strings.Repeat("a", 1000) + strings.Repeat("b", 1000)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			left := FromString(tt.left)
			right := FromString(tt.right)
			result := left.Concat(right)
			if result.String() != tt.expected {
				t.Errorf("got %q, want %q", result.String(), tt.expected)
			}
		})
	}
}

func TestSlice(t *testing.T) {
	text := "hello world"
	r := FromString(text)

	tests := []struct {
		name     string
		start    ByteOffset
		end      ByteOffset
		expected string
	}{
		{"full slice", 0, 11, "hello world"},
		{"first word", 0, 5, "hello"},
		{"last word", 6, 11, "world"},
		{"middle", 3, 8, "lo wo"},
		{"empty slice", 5, 5, ""},
		{"beyond end", 6, 100, "world"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := r.Slice(tt.start, tt.end)
			if result != tt.expected {
				t.Errorf("got %q, want %q", result, tt.expected)
			}
		})
	}
}

func TestLineCount(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected uint32
	}{
		{"empty", "", 1},
		{"no newlines", "hello", 1},
		{"one newline", "hello\n", 2},
		{"two lines", "hello\nworld", 2},
		{"three lines", "a\nb\nc", 3},
		{"trailing newline", "a\nb\n", 3},
		{"only newlines", "\n\n\n", 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := FromString(tt.input)
			if got := r.LineCount(); got != tt.expected {
				t.Errorf("LineCount() = %d, want %d", got, tt.expected)
			}
		})
	}
}

func TestLineText(t *testing.T) {
	r := FromString("hello\nworld\nfoo")

	tests := []struct {
		line     uint32
		expected string
	}{
		{0, "hello"},
		{1, "world"},
		{2, "foo"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			got := r.LineText(tt.line)
			if got != tt.expected {
				t.Errorf("LineText(%d) = %q, want %q", tt.line, got, tt.expected)
			}
		})
	}
}

func TestLineStartOffset(t *testing.T) {
	r := FromString("hello\nworld\nfoo")

	tests := []struct {
		line     uint32
		expected ByteOffset
	}{
		{0, 0},
		{1, 6},
		{2, 12},
	}

	for _, tt := range tests {
		got := r.LineStartOffset(tt.line)
		if got != tt.expected {
			t.Errorf("LineStartOffset(%d) = %d, want %d", tt.line, got, tt.expected)
		}
	}
}

func TestLineEndOffset(t *testing.T) {
	r := FromString("hello\nworld\nfoo")

	tests := []struct {
		line     uint32
		expected ByteOffset
	}{
		{0, 5},  // before the newline
		{1, 11}, // before the newline
		{2, 15}, // last line ends at rope end
		{9, 15}, // out of range clamps to rope end
	}

	for _, tt := range tests {
		got := r.LineEndOffset(tt.line)
		if got != tt.expected {
			t.Errorf("LineEndOffset(%d) = %d, want %d", tt.line, got, tt.expected)
		}
	}

	// A trailing newline produces an empty final line.
	r2 := FromString("a\nb\n")
	if got := r2.LineStartOffset(2); got != 4 {
		t.Errorf("LineStartOffset(2) = %d, want 4", got)
	}
	if got := r2.LineEndOffset(2); got != 4 {
		t.Errorf("LineEndOffset(2) = %d, want 4", got)
	}
}

func TestOffsetToPoint(t *testing.T) {
	r := FromString("hello\nworld\nfoo")

	tests := []struct {
		offset   ByteOffset
		expected Point
	}{
		{0, Point{0, 0}},
		{5, Point{0, 5}},
		{6, Point{1, 0}},
		{11, Point{1, 5}},
		{12, Point{2, 0}},
		{15, Point{2, 3}},
		{100, Point{2, 3}}, // clamps to end
	}

	for _, tt := range tests {
		got := r.OffsetToPoint(tt.offset)
		if got != tt.expected {
			t.Errorf("OffsetToPoint(%d) = %+v, want %+v", tt.offset, got, tt.expected)
		}
	}
}

func TestPointToOffset(t *testing.T) {
	r := FromString("hello\nworld\nfoo")

	tests := []struct {
		point    Point
		expected ByteOffset
	}{
		{Point{0, 0}, 0},
		{Point{0, 5}, 5},
		{Point{1, 0}, 6},
		{Point{1, 5}, 11},
		{Point{2, 0}, 12},
		{Point{2, 3}, 15},
		{Point{0, 100}, 5},  // column clamps to line end
		{Point{9, 0}, 15},   // line clamps to rope end
	}

	for _, tt := range tests {
		got := r.PointToOffset(tt.point)
		if got != tt.expected {
			t.Errorf("PointToOffset(%+v) = %d, want %d", tt.point, got, tt.expected)
		}
	}
}

func TestByteAt(t *testing.T) {
	r := FromString("hello")

	tests := []struct {
		offset   ByteOffset
		expected byte
		ok       bool
	}{
		{0, 'h', true},
		{4, 'o', true},
		{5, 0, false},
		{100, 0, false},
	}

	for _, tt := range tests {
		b, ok := r.byteAt(tt.offset)
		if b != tt.expected || ok != tt.ok {
			t.Errorf("byteAt(%d) = (%c, %v), want (%c, %v)", tt.offset, b, ok, tt.expected, tt.ok)
		}
	}
}

func TestImmutability(t *testing.T) {
	original := FromString("hello")
	modified := original.Insert(5, " world")

	if original.String() != "hello" {
		t.Errorf("Original was modified: %q", original.String())
	}
	if modified.String() != "hello world" {
		t.Errorf("Modified is wrong: %q", modified.String())
	}
}

func TestLargeRope(t *testing.T) {
	// Create a large rope
	text := strings.Repeat("abcdefghij\n", 10000)
	r := FromString(text)

	if r.String() != text {
		t.Error("Large rope content mismatch")
	}

	// Test operations on large rope
	r = r.Insert(50000, "INSERTED")
	if !strings.Contains(r.String(), "INSERTED") {
		t.Error("Insert into large rope failed")
	}

	// Test line access
	lineText := r.LineText(5000)
	if len(lineText) == 0 {
		t.Error("Failed to get line from large rope")
	}
}

func TestLargeRopeLineSeeks(t *testing.T) {
	// Spans many chunks and leaves, so line seeks cross node boundaries.
	text := strings.Repeat("0123456789\n", 2000)
	r := FromString(text)

	if got := r.LineStartOffset(1000); got != 11000 {
		t.Errorf("LineStartOffset(1000) = %d, want 11000", got)
	}
	if got := r.LineEndOffset(1000); got != 11010 {
		t.Errorf("LineEndOffset(1000) = %d, want 11010", got)
	}
	if got := r.OffsetToPoint(11005); got != (Point{1000, 5}) {
		t.Errorf("OffsetToPoint(11005) = %+v, want {1000 5}", got)
	}
	if got := r.PointToOffset(Point{1500, 3}); got != 16503 {
		t.Errorf("PointToOffset({1500 3}) = %d, want 16503", got)
	}
	if got := r.LineText(1999); got != "0123456789" {
		t.Errorf("LineText(1999) = %q, want %q", got, "0123456789")
	}
}

func TestReplaceSharesStructure(t *testing.T) {
	text := strings.Repeat("abcdefghij\n", 1000)
	original := FromString(text)

	modified := original.Replace(5500, 5510, "REPLACED")

	if original.String() != text {
		t.Error("Replace modified the original rope")
	}
	want := text[:5500] + "REPLACED" + text[5510:]
	if modified.String() != want {
		t.Error("Replace produced wrong content")
	}
}

func TestCursor(t *testing.T) {
	r := FromString("hello\nworld")

	cursor := NewCursor(r)
	if cursor.Offset() != 0 {
		t.Errorf("Initial offset = %d, want 0", cursor.Offset())
	}

	// Test seeking
	if !cursor.SeekOffset(6) {
		t.Error("SeekOffset failed")
	}
	if cursor.Offset() != 6 {
		t.Errorf("After seek, offset = %d, want 6", cursor.Offset())
	}
	if got := cursor.Point(); got != (Point{1, 0}) {
		t.Errorf("After seek, point = %+v, want {1 0}", got)
	}

	// Test SeekLine
	if !cursor.SeekLine(1) {
		t.Error("SeekLine failed")
	}
	if cursor.Offset() != 6 {
		t.Errorf("After SeekLine(1), offset = %d, want 6", cursor.Offset())
	}

	// Seeking past the end fails
	if cursor.SeekOffset(100) {
		t.Error("SeekOffset past end should fail")
	}
	if cursor.SeekLine(5) {
		t.Error("SeekLine past end should fail")
	}
}

func TestCursorSeekMidRune(t *testing.T) {
	r := FromString("a世b")

	cursor := NewCursor(r)
	if !cursor.SeekOffset(2) {
		t.Error("SeekOffset failed")
	}
	// Offset 2 is inside the three-byte rune starting at 1.
	if cursor.Offset() != 1 {
		t.Errorf("Mid-rune seek landed at %d, want 1", cursor.Offset())
	}
}

// Property-based tests

func TestInsertDeleteProperty(t *testing.T) {
	f := func(s string, offset int, insert string) bool {
		if len(s) == 0 {
			offset = 0
		} else {
			offset = offset % (len(s) + 1)
			if offset < 0 {
				offset = -offset
			}
		}

		r := FromString(s)
		r = r.Insert(ByteOffset(offset), insert)
		r = r.Delete(ByteOffset(offset), ByteOffset(offset+len(insert)))
		return r.String() == s
	}

	if err := quick.Check(f, nil); err != nil {
		t.Error(err)
	}
}

func TestConcatSplitProperty(t *testing.T) {
	f := func(s string, offset int) bool {
		if len(s) == 0 {
			return true
		}
		offset = offset % (len(s) + 1)
		if offset < 0 {
			offset = -offset
		}

		r := FromString(s)
		left, right := r.Split(ByteOffset(offset))
		result := left.Concat(right)
		return result.String() == s
	}

	if err := quick.Check(f, nil); err != nil {
		t.Error(err)
	}
}

func TestLenProperty(t *testing.T) {
	f := func(s string) bool {
		r := FromString(s)
		return int(r.Len()) == len(s)
	}

	if err := quick.Check(f, nil); err != nil {
		t.Error(err)
	}
}

func TestLineCountProperty(t *testing.T) {
	f := func(s string) bool {
		r := FromString(s)
		expectedLines := uint32(1)
		for _, c := range s {
			if c == '\n' {
				expectedLines++
			}
		}
		return r.LineCount() == expectedLines
	}

	if err := quick.Check(f, nil); err != nil {
		t.Error(err)
	}
}

// TextSummary tests

func TestChunkSummary(t *testing.T) {
	tests := []struct {
		name  string
		input string
		bytes ByteOffset
		lines uint32
	}{
		{"empty", "", 0, 0},
		{"ascii", "hello", 5, 0},
		{"with newline", "hello\n", 6, 1},
		{"unicode", "世界", 6, 0},
		{"multiple newlines", "a\nb\nc\n", 6, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sum := NewChunk(tt.input).Summary()
			if sum.Bytes != tt.bytes {
				t.Errorf("Bytes = %d, want %d", sum.Bytes, tt.bytes)
			}
			if sum.Lines != tt.lines {
				t.Errorf("Lines = %d, want %d", sum.Lines, tt.lines)
			}
		})
	}
}

func TestSummaryAdd(t *testing.T) {
	s1 := NewChunk("hello\n").Summary()
	s2 := NewChunk("world").Summary()

	combined := s1.Add(s2)

	if combined.Bytes != 11 {
		t.Errorf("Combined bytes = %d, want 11", combined.Bytes)
	}
	if combined.Lines != 1 {
		t.Errorf("Combined lines = %d, want 1", combined.Lines)
	}
}
