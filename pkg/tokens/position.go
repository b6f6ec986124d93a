package tokens

// Resolve returns the absolute line and column of the character at offset
// (counted in characters) inside value, given the position the value is
// anchored at. Each newline before offset moves to the next line and resets
// the column to 1; every other character advances the column by one.
func Resolve(line, column int, value string, offset int) (int, int) {
	if offset <= 0 {
		return line, column
	}
	n := 0
	for _, r := range value {
		if n == offset {
			break
		}
		if r == '\n' {
			line++
			column = 1
		} else {
			column++
		}
		n++
	}
	return line, column
}
