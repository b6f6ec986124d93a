// Package htmltok turns HTML source into elements whose attributes carry
// raw source positions.
//
// Segmentation is delegated to golang.org/x/net/html so comments, doctypes
// and raw-text elements (script, style, textarea, title) are never mistaken
// for markup. Each start tag's raw text is then scanned here to recover the
// attribute positions that the x/net/html API does not expose.
package htmltok

import (
	"bytes"
	"fmt"
	"io"

	"github.com/praetorian-inc/lintel/pkg/types"
	"golang.org/x/net/html"
)

// Tokenize returns every start tag in content, in source order.
func Tokenize(content []byte) ([]types.Element, error) {
	idx := types.NewLineIndex(content)
	z := html.NewTokenizer(bytes.NewReader(content))

	var elems []types.Element
	offset := 0
	for {
		tt := z.Next()
		raw := z.Raw()
		start := offset
		offset += len(raw)

		switch tt {
		case html.ErrorToken:
			if err := z.Err(); err != io.EOF {
				return elems, fmt.Errorf("tokenizing html at offset %d: %w", start, err)
			}
			return elems, nil
		case html.StartTagToken, html.SelfClosingTagToken:
			// scan before TagName: TagName lowercases the shared buffer
			el := scanTag(raw, start, idx)
			name, _ := z.TagName()
			el.TagName = string(name)
			elems = append(elems, el)
		}
	}
}

// scanTag locates the attributes of one raw start tag. base is the byte
// offset of the tag's '<' within the document.
func scanTag(raw []byte, base int, idx *types.LineIndex) types.Element {
	tagPos := idx.Position(base)
	el := types.Element{
		Line:   tagPos.Line,
		Column: tagPos.Column,
		Offset: base,
	}

	i := 1
	for i < len(raw) && !isTagSpace(raw[i]) && raw[i] != '/' && raw[i] != '>' {
		i++
	}

	for i < len(raw) {
		anchor := i
		for i < len(raw) && (isTagSpace(raw[i]) || raw[i] == '/') {
			i++
		}
		if i >= len(raw) || raw[i] == '>' {
			break
		}

		// anchor on the last separator byte, or on the name itself when that
		// byte ends a line, so an attribute opening a continuation line
		// reports that line
		if i > anchor {
			anchor = i - 1
			if raw[anchor] == '\n' {
				anchor = i
			}
		}

		// a leading '=' belongs to the name
		nameStart := i
		i++
		for i < len(raw) && !isTagSpace(raw[i]) && raw[i] != '/' && raw[i] != '>' && raw[i] != '=' {
			i++
		}

		anchorPos := idx.Position(base + anchor)
		attr := types.AttributeOccurrence{
			Name:   string(raw[nameStart:i]),
			Line:   anchorPos.Line,
			Column: anchorPos.Column,
			Offset: base + anchor,
		}

		j := skipTagSpace(raw, i)
		if j < len(raw) && raw[j] == '=' {
			j = skipTagSpace(raw, j+1)
			var vs, ve int
			if j < len(raw) && (raw[j] == '"' || raw[j] == '\'') {
				attr.Quote = raw[j]
				vs = j + 1
				ve = bytes.IndexByte(raw[vs:], attr.Quote)
				if ve < 0 {
					ve = len(bytes.TrimSuffix(raw, []byte(">")))
					if ve < vs {
						ve = vs
					}
					i = ve
				} else {
					ve += vs
					i = ve + 1
				}
			} else {
				vs = j
				ve = j
				for ve < len(raw) && !isTagSpace(raw[ve]) && raw[ve] != '>' {
					ve++
				}
				i = ve
			}

			valuePos := idx.Position(base + vs)
			attr.HasValue = true
			attr.RawValue = string(raw[vs:ve])
			attr.ValueLine = valuePos.Line
			attr.ValueColumn = valuePos.Column
			attr.ValueOffset = base + vs
		}

		el.Attributes = append(el.Attributes, attr)
	}

	return el
}

func skipTagSpace(raw []byte, i int) int {
	for i < len(raw) && isTagSpace(raw[i]) {
		i++
	}
	return i
}

func isTagSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\f', '\r':
		return true
	}
	return false
}
