package types

import (
	"sort"
	"unicode/utf8"
)

// ComputeLineColumn computes line and column numbers from a byte offset in content.
// Lines and columns are 1-indexed (first line is 1, first column is 1).
// Columns count characters, so a multi-byte rune advances the column by one.
func ComputeLineColumn(content []byte, byteOffset int) (line, column int) {
	line = 1
	column = 1
	if byteOffset > len(content) {
		byteOffset = len(content)
	}
	for i := 0; i < byteOffset; {
		r, size := utf8.DecodeRune(content[i:])
		if r == '\n' {
			line++
			column = 1
		} else {
			column++
		}
		i += size
	}
	return line, column
}

// LineIndex answers repeated offset-to-position queries against one document
// without rescanning from the start each time.
type LineIndex struct {
	content    []byte
	lineStarts []int
}

// NewLineIndex records the byte offset of every line start in content.
func NewLineIndex(content []byte) *LineIndex {
	starts := []int{0}
	for i, b := range content {
		if b == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &LineIndex{content: content, lineStarts: starts}
}

// Position returns the 1-based line and character column of byteOffset.
// Offsets past the end clamp to the end of content.
func (idx *LineIndex) Position(byteOffset int) SourcePoint {
	if byteOffset < 0 {
		byteOffset = 0
	}
	if byteOffset > len(idx.content) {
		byteOffset = len(idx.content)
	}
	// last line start <= byteOffset
	n := sort.Search(len(idx.lineStarts), func(i int) bool {
		return idx.lineStarts[i] > byteOffset
	}) - 1
	start := idx.lineStarts[n]
	return SourcePoint{
		Line:   n + 1,
		Column: utf8.RuneCount(idx.content[start:byteOffset]) + 1,
	}
}

// Lines returns the number of lines in the indexed content.
func (idx *LineIndex) Lines() int {
	return len(idx.lineStarts)
}
