package buffer

// Option is a functional option for configuring a Buffer.
type Option func(*Buffer)

// WithLineEnding fixes the document's line ending style, disabling
// detection from content. The style only affects how text is rendered
// on save; buffer content is always LF internally.
func WithLineEnding(le LineEnding) Option {
	return func(b *Buffer) {
		b.lineEnding = le
		b.detectLE = false
	}
}

// WithChangeLogLimit sets how many changes the buffer retains for anchor
// resolution. A limit of zero keeps the log unbounded.
func WithChangeLogLimit(limit int) Option {
	return func(b *Buffer) {
		if limit >= 0 {
			b.logLimit = limit
		}
	}
}

// DetectLineEnding returns a LineEnding based on the most common line ending in the text.
// Returns LineEndingLF if no line endings are found.
func DetectLineEnding(text string) LineEnding {
	var lfCount, crlfCount, crCount int

	i := 0
	for i < len(text) {
		if i+1 < len(text) && text[i] == '\r' && text[i+1] == '\n' {
			crlfCount++
			i += 2
		} else if text[i] == '\r' {
			crCount++
			i++
		} else if text[i] == '\n' {
			lfCount++
			i++
		} else {
			i++
		}
	}

	if crlfCount >= lfCount && crlfCount >= crCount && crlfCount > 0 {
		return LineEndingCRLF
	}
	if crCount >= lfCount && crCount >= crlfCount && crCount > 0 {
		return LineEndingCR
	}
	return LineEndingLF
}
