package types

// AttributeOccurrence is one attribute on one element as reported by the
// tokenizer. Line and Column are the attribute anchor: the last separator
// character before the attribute name, or the name itself when that
// separator is a line break. ValueLine and ValueColumn point at the first
// character of the value (after the opening quote).
type AttributeOccurrence struct {
	Name        string // as written in the source
	RawValue    string // undecoded value between the quotes
	Line        int
	Column      int
	Offset      int // byte offset of the anchor
	ValueLine   int
	ValueColumn int
	ValueOffset int  // byte offset of the first value character
	Quote       byte // '"', '\'' or 0 when unquoted
	HasValue    bool // false for bare attributes like <input disabled>
}

// Element is a start tag with its attributes in declaration order.
type Element struct {
	TagName    string
	Line       int
	Column     int
	Offset     int
	Attributes []AttributeOccurrence
}
