package htmltok

import (
	"strings"

	"github.com/praetorian-inc/lintel/pkg/types"
)

// Document is one parsed HTML source handed to lint rules.
type Document struct {
	Path     string
	ID       types.DocumentID
	Content  []byte
	Elements []types.Element

	lines *types.LineIndex
}

// Parse tokenizes content and wraps it as a Document.
func Parse(path string, content []byte) (*Document, error) {
	elems, err := Tokenize(content)
	if err != nil {
		return nil, err
	}
	return &Document{
		Path:     path,
		ID:       types.ComputeDocumentID(content),
		Content:  content,
		Elements: elems,
		lines:    types.NewLineIndex(content),
	}, nil
}

// Position converts a byte offset into a line:column point.
func (d *Document) Position(offset int) types.SourcePoint {
	if d.lines == nil {
		d.lines = types.NewLineIndex(d.Content)
	}
	return d.lines.Position(offset)
}

// Attributes calls fn for each attribute whose name case-insensitively
// equals one of names, in document then declaration order.
func (d *Document) Attributes(fn func(el *types.Element, attr *types.AttributeOccurrence), names ...string) {
	for i := range d.Elements {
		el := &d.Elements[i]
		for j := range el.Attributes {
			attr := &el.Attributes[j]
			for _, n := range names {
				if strings.EqualFold(attr.Name, n) {
					fn(el, attr)
					break
				}
			}
		}
	}
}
