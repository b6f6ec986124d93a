package types

import "fmt"

// OffsetSpan is byte range [Start, End) - half-open interval.
type OffsetSpan struct {
	Start int64
	End   int64
}

// SourcePoint is line:column position (1-based, columns counted in characters).
type SourcePoint struct {
	Line   int
	Column int
}

// String returns "line:column".
func (p SourcePoint) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Before reports whether p precedes q in document order.
func (p SourcePoint) Before(q SourcePoint) bool {
	if p.Line != q.Line {
		return p.Line < q.Line
	}
	return p.Column < q.Column
}

// SourceSpan is start-end line:column range.
type SourceSpan struct {
	Start SourcePoint
	End   SourcePoint
}

// Location combines byte offsets and source positions.
type Location struct {
	Offset OffsetSpan
	Source SourceSpan
}
