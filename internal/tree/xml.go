package tree

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html/charset"
)

// ErrEmptyDocument is returned when a payload holds no element at all.
var ErrEmptyDocument = errors.New("tree: empty document")

type xmlFrame struct {
	name string
	node *Node
	text strings.Builder
}

// FromXML parses an XML payload into a document object whose single field is
// the root element.
//
// Attributes are merged into the element's fields, repeated children collapse
// into a sequence and an element without attributes or children becomes a
// scalar holding its trimmed text.
func FromXML(data []byte) (*Node, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.Entity = xml.HTMLEntity
	dec.CharsetReader = charset.NewReaderLabel

	doc := NewObject()
	var stack []*xmlFrame

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse xml: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			f := &xmlFrame{name: t.Name.Local, node: NewObject()}
			for _, attr := range t.Attr {
				f.node.add(attr.Name.Local, NewScalar(attr.Value))
			}
			stack = append(stack, f)

		case xml.CharData:
			if len(stack) > 0 {
				stack[len(stack)-1].text.Write(t)
			}

		case xml.EndElement:
			if len(stack) == 0 {
				return nil, fmt.Errorf("failed to parse xml: unexpected </%s>", t.Name.Local)
			}
			f := stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			node := f.finish()
			if len(stack) == 0 {
				doc.add(f.name, node)
				continue
			}
			stack[len(stack)-1].node.add(f.name, node)
		}
	}

	if len(stack) > 0 {
		return nil, fmt.Errorf("failed to parse xml: unclosed <%s>", stack[len(stack)-1].name)
	}
	if len(doc.keys) == 0 {
		return nil, ErrEmptyDocument
	}
	return doc, nil
}

func (f *xmlFrame) finish() *Node {
	text := strings.TrimSpace(f.text.String())
	if len(f.node.keys) == 0 {
		return NewScalar(text)
	}
	if text != "" {
		f.node.Set(TextKey, NewScalar(text))
	}
	return f.node
}
