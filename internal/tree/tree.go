// Package tree is the loosely-typed intermediate representation both upstream
// payloads are parsed into before field extraction.
//
// A Node is always one of four kinds: absent, scalar, sequence or object.
// Lookups never return nil, they return an absent node, so extractors can
// chain Get calls and only check presence at the leaf.
package tree

import (
	"strconv"
	"strings"
)

// Kind tags the shape of a Node.
type Kind int

const (
	KindAbsent Kind = iota
	KindScalar
	KindSequence
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindSequence:
		return "sequence"
	case KindObject:
		return "object"
	default:
		return "absent"
	}
}

// TextKey is the field holding the character data of an element that also
// carries attributes or children.
const TextKey = "_"

// Node is one value of the intermediate tree.
type Node struct {
	kind   Kind
	text   string
	items  []*Node
	keys   []string
	fields map[string]*Node
}

var absent = &Node{kind: KindAbsent}

// Absent returns the shared absent node.
func Absent() *Node { return absent }

// NewScalar builds a scalar node.
func NewScalar(s string) *Node {
	return &Node{kind: KindScalar, text: s}
}

// NewSequence builds a sequence node from items.
func NewSequence(items ...*Node) *Node {
	return &Node{kind: KindSequence, items: items}
}

// NewObject builds an empty object node.
func NewObject() *Node {
	return &Node{kind: KindObject, fields: make(map[string]*Node)}
}

// Set stores child under key, replacing any previous value.
func (n *Node) Set(key string, child *Node) *Node {
	if n.kind != KindObject {
		return n
	}
	if _, ok := n.fields[key]; !ok {
		n.keys = append(n.keys, key)
	}
	n.fields[key] = child
	return n
}

// add stores child under key; a repeated key turns the field into a sequence.
func (n *Node) add(key string, child *Node) {
	existing, ok := n.fields[key]
	if !ok {
		n.Set(key, child)
		return
	}
	if existing.kind == KindSequence {
		existing.items = append(existing.items, child)
		return
	}
	n.fields[key] = NewSequence(existing, child)
}

// Kind returns the node's tag.
func (n *Node) Kind() Kind {
	if n == nil {
		return KindAbsent
	}
	return n.kind
}

// Present reports whether the node exists in the payload.
func (n *Node) Present() bool { return n.Kind() != KindAbsent }

// Get returns the field key of an object, or the absent node.
func (n *Node) Get(key string) *Node {
	if n.Kind() != KindObject {
		return absent
	}
	if child, ok := n.fields[key]; ok && child != nil {
		return child
	}
	return absent
}

// Path follows Get through each key.
func (n *Node) Path(keys ...string) *Node {
	cur := n
	for _, k := range keys {
		cur = cur.Get(k)
	}
	return cur
}

// Keys returns the object's field names in document order.
func (n *Node) Keys() []string {
	if n.Kind() != KindObject {
		return nil
	}
	return n.keys
}

// Items normalizes any node to a sequence: absent gives nil, a sequence gives
// its items and anything else a one-element slice.
func (n *Node) Items() []*Node {
	switch n.Kind() {
	case KindAbsent:
		return nil
	case KindSequence:
		return n.items
	default:
		return []*Node{n}
	}
}

// Len is len(n.Items()).
func (n *Node) Len() int { return len(n.Items()) }

// First returns the first item of a sequence, or the node itself.
func (n *Node) First() *Node {
	if n.Kind() != KindSequence {
		if n == nil {
			return absent
		}
		return n
	}
	if len(n.items) == 0 {
		return absent
	}
	return n.items[0]
}

// Text returns the character data of a scalar, of an object's TextKey field or
// of a sequence's first item.
func (n *Node) Text() (string, bool) {
	switch n.Kind() {
	case KindScalar:
		return n.text, true
	case KindObject:
		if t := n.Get(TextKey); t.Kind() == KindScalar {
			return t.text, true
		}
	case KindSequence:
		return n.First().Text()
	}
	return "", false
}

// String is Text without the presence flag.
func (n *Node) String() string {
	s, _ := n.Text()
	return s
}

// Strings collects the non-empty texts of Items in order, or nil.
func (n *Node) Strings() []string {
	var out []string
	for _, item := range n.Items() {
		if s, ok := item.Text(); ok && s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Int parses Text as a base-10 integer.
func (n *Node) Int() (int, bool) {
	s, ok := n.Text()
	if !ok {
		return 0, false
	}
	i, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, false
	}
	return i, true
}
