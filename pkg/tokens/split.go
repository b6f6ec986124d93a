// Package tokens splits attribute values into naming tokens and resolves
// each token's source position.
package tokens

import "unicode/utf8"

// Token is one unit of an attribute value checked against a naming policy.
type Token struct {
	Text       string
	Offset     int // character index of Text within the value
	ByteOffset int // byte index of Text within the value
}

// isSpace reports HTML ASCII whitespace: space, tab, LF, FF, CR.
func isSpace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\f', '\r':
		return true
	}
	return false
}

// Split breaks a class value into its whitespace-delimited tokens in
// left-to-right order. Leading, trailing and repeated whitespace never
// produce empty tokens, so a blank value yields nil.
func Split(value string) []Token {
	var out []Token
	start, startByte := -1, 0
	chars := 0
	for i, r := range value {
		if isSpace(r) {
			if start >= 0 {
				out = append(out, Token{Text: value[startByte:i], Offset: start, ByteOffset: startByte})
				start = -1
			}
		} else if start < 0 {
			start, startByte = chars, i
		}
		chars++
	}
	if start >= 0 {
		out = append(out, Token{Text: value[startByte:], Offset: start, ByteOffset: startByte})
	}
	return out
}

// Whole returns the entire value as a single token at offset 0. Id values
// are never split.
func Whole(value string) []Token {
	return []Token{{Text: value}}
}

// CharLen returns the number of characters in s.
func CharLen(s string) int {
	return utf8.RuneCountInString(s)
}
