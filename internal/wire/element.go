// Package wire implements the tagged-tree wire format used between
// client and server: an in-memory element tree, a codec between that
// tree and its restricted-XML text form, and typed attribute access.
package wire

import (
	"sort"
	"strconv"
)

// Attribute keys for object identifiers. "id" is the current spelling;
// "ID" is the legacy spelling still accepted on the wire.
const (
	IDAttribute       = "id"
	LegacyIDAttribute = "ID"
)

// Element is one node of a wire document: a tag, a flat set of string
// attributes, and ordered element children. Child insertion always
// deep-copies, so no element is ever shared between two trees.
type Element struct {
	tag      string
	attrs    map[string]string
	children []*Element
}

// NewElement creates a free element with the given tag and optional
// attribute key/value pairs. Panics on an empty tag or an odd number
// of pair arguments; tags are compile-time constants in practice.
func NewElement(tag string, attrPairs ...string) *Element {
	if tag == "" {
		panic("wire: empty element tag")
	}
	if len(attrPairs)%2 != 0 {
		panic("wire: attribute pairs must come in twos")
	}
	e := newRawElement(tag)
	for i := 0; i < len(attrPairs); i += 2 {
		e.attrs[attrPairs[i]] = attrPairs[i+1]
	}
	return e
}

func newRawElement(tag string) *Element {
	return &Element{tag: tag, attrs: make(map[string]string)}
}

// Tag returns the element's tag.
func (e *Element) Tag() string { return e.tag }

// --- Attributes ---

// Attr returns the attribute value, or "" when absent.
func (e *Element) Attr(key string) string { return e.attrs[key] }

// LookupAttr returns the attribute value and whether it is present.
func (e *Element) LookupAttr(key string) (string, bool) {
	v, ok := e.attrs[key]
	return v, ok
}

// HasAttr reports whether the attribute is present.
func (e *Element) HasAttr(key string) bool {
	_, ok := e.attrs[key]
	return ok
}

// SetAttr sets an attribute.
func (e *Element) SetAttr(key, value string) {
	e.attrs[key] = value
}

// RemoveAttr removes an attribute if present.
func (e *Element) RemoveAttr(key string) {
	delete(e.attrs, key)
}

// AttrNames returns the attribute keys in sorted order.
func (e *Element) AttrNames() []string {
	names := make([]string, 0, len(e.attrs))
	for k := range e.attrs {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Attrs returns a copy of the attribute map.
func (e *Element) Attrs() map[string]string {
	m := make(map[string]string, len(e.attrs))
	for k, v := range e.attrs {
		m[k] = v
	}
	return m
}

// StringAttr returns the attribute value, or def when absent. A
// present-but-empty attribute returns "".
func (e *Element) StringAttr(key, def string) string {
	if v, ok := e.attrs[key]; ok {
		return v
	}
	return def
}

// BoolAttr returns the attribute parsed as a bool, or def when the
// attribute is absent or does not parse.
func (e *Element) BoolAttr(key string, def bool) bool {
	v, ok := e.attrs[key]
	if !ok {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

// IntAttr returns the attribute parsed as an int, or def when the
// attribute is absent or does not parse.
func (e *Element) IntAttr(key string, def int) int {
	v, ok := e.attrs[key]
	if !ok {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

// ReadID returns the element's object identifier, trying the current
// key first and the legacy key second. Empty string when neither is
// present.
func (e *Element) ReadID() string {
	if v, ok := e.attrs[IDAttribute]; ok {
		return v
	}
	if v, ok := e.attrs[LegacyIDAttribute]; ok {
		return v
	}
	return ""
}

// --- Children ---

// ChildCount returns the number of direct children.
func (e *Element) ChildCount() int { return len(e.children) }

// ChildAt returns the direct child at index i, or nil when out of
// range.
func (e *Element) ChildAt(i int) *Element {
	if i < 0 || i >= len(e.children) {
		return nil
	}
	return e.children[i]
}

// Children returns the direct children in document order. The slice is
// a copy; the elements are not.
func (e *Element) Children() []*Element {
	out := make([]*Element, len(e.children))
	copy(out, e.children)
	return out
}

// ChildByTag returns the first direct child with the given tag, or
// nil. Linear scan, first match wins.
func (e *Element) ChildByTag(tag string) *Element {
	for _, c := range e.children {
		if c.tag == tag {
			return c
		}
	}
	return nil
}

// AppendChild appends a deep copy of child as the last child of e and
// returns the copy. Mutating the source afterwards never affects e.
func (e *Element) AppendChild(child *Element) *Element {
	cp := child.DeepCopy()
	e.children = append(e.children, cp)
	return cp
}

// RemoveChildren removes all direct children. Attributes are
// untouched.
func (e *Element) RemoveChildren() {
	e.children = nil
}

// DeepCopy returns a structurally identical copy sharing nothing with
// e.
func (e *Element) DeepCopy() *Element {
	cp := &Element{tag: e.tag, attrs: make(map[string]string, len(e.attrs))}
	for k, v := range e.attrs {
		cp.attrs[k] = v
	}
	if len(e.children) > 0 {
		cp.children = make([]*Element, len(e.children))
		for i, c := range e.children {
			cp.children[i] = c.DeepCopy()
		}
	}
	return cp
}

// Equal reports structural equality: same tag, same attribute set,
// same children in the same order.
func (e *Element) Equal(other *Element) bool {
	if e == nil || other == nil {
		return e == other
	}
	if e.tag != other.tag || len(e.attrs) != len(other.attrs) || len(e.children) != len(other.children) {
		return false
	}
	for k, v := range e.attrs {
		if ov, ok := other.attrs[k]; !ok || ov != v {
			return false
		}
	}
	for i, c := range e.children {
		if !c.Equal(other.children[i]) {
			return false
		}
	}
	return true
}

// String returns the serialized text form without a preamble, the
// form used in logs.
func (e *Element) String() string {
	return Serialize(e)
}
