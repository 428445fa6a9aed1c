package message

import (
	"io"

	"github.com/peterkuimelis/terranova/internal/game"
	"github.com/peterkuimelis/terranova/internal/wire"
)

// ProtocolVersion is advertised during login for compatibility
// negotiation. It is carried, never interpreted here.
const ProtocolVersion = "0.1.6"

// InvalidType is the sentinel Type reports for a message with no
// document or root.
const InvalidType = "invalid"

// Message is one protocol message: a thin envelope over a wire
// document. The document is created fresh per message and never
// reused.
type Message struct {
	doc *wire.Document
}

// New builds a message whose root carries the given tag and
// attribute pairs.
func New(tag string, attrPairs ...string) *Message {
	return &Message{doc: wire.NewDocument(tag, attrPairs...)}
}

// FromDocument wraps an already parsed document.
func FromDocument(doc *wire.Document) *Message {
	return &Message{doc: doc}
}

// FromElement wraps a deep copy of el in a fresh document.
func FromElement(el *wire.Element) *Message {
	if el == nil {
		return &Message{}
	}
	return &Message{doc: wire.NewDocumentFromElement(el.DeepCopy())}
}

// Parse reads one message from r.
func Parse(r io.Reader) (*Message, error) {
	doc, err := wire.Parse(r)
	if err != nil {
		return nil, err
	}
	return &Message{doc: doc}, nil
}

// ParseString reads one message from its text form.
func ParseString(text string) (*Message, error) {
	doc, err := wire.ParseString(text)
	if err != nil {
		return nil, err
	}
	return &Message{doc: doc}, nil
}

// Type returns the root tag. A message with no document or root
// reports InvalidType rather than failing: inbound messages are
// arbitrary and the type query must always answer.
func (m *Message) Type() string {
	if root := m.Root(); root != nil {
		return root.Tag()
	}
	return InvalidType
}

// IsType reports whether the message's root carries the given tag.
func (m *Message) IsType(tag string) bool { return m.Type() == tag }

// Document returns the underlying document, nil for an empty message.
func (m *Message) Document() *wire.Document { return m.doc }

// Root returns the root element, nil for an empty message.
func (m *Message) Root() *wire.Element {
	if m == nil || m.doc == nil {
		return nil
	}
	return m.doc.Root()
}

// --- Root attribute access ---

// Attr returns the root attribute's value, "" when absent.
func (m *Message) Attr(key string) string {
	if root := m.Root(); root != nil {
		return root.Attr(key)
	}
	return ""
}

// SetAttr sets a root attribute.
func (m *Message) SetAttr(key, value string) {
	if root := m.Root(); root != nil {
		root.SetAttr(key, value)
	}
}

// HasAttr reports whether the root carries the attribute.
func (m *Message) HasAttr(key string) bool {
	root := m.Root()
	return root != nil && root.HasAttr(key)
}

// StringAttr returns the root attribute's value, or def when absent.
func (m *Message) StringAttr(key, def string) string {
	if root := m.Root(); root != nil {
		return root.StringAttr(key, def)
	}
	return def
}

// IntAttr returns the root attribute parsed as an integer, or def
// when absent or unparseable.
func (m *Message) IntAttr(key string, def int) int {
	if root := m.Root(); root != nil {
		return root.IntAttr(key, def)
	}
	return def
}

// BoolAttr returns the root attribute parsed as a boolean, or def
// when absent or unparseable.
func (m *Message) BoolAttr(key string, def bool) bool {
	if root := m.Root(); root != nil {
		return root.BoolAttr(key, def)
	}
	return def
}

// --- Children ---

// Add appends a deep copy of el as the root's new last child.
func (m *Message) Add(el *wire.Element) {
	if root := m.Root(); root != nil && el != nil {
		root.AppendChild(el)
	}
}

// AddObject renders obj for the given observer (nil for the server
// view) and appends the result.
func (m *Message) AddObject(g *game.Game, obj game.Object, observer *game.Player) error {
	return m.AddObjectScoped(g, obj, game.ScopeFor(observer), nil)
}

// AddObjectScoped renders obj under scope, optionally restricted to
// the named fields, and appends the result. The scope gate applies:
// nothing is appended on a scope error.
func (m *Message) AddObjectScoped(g *game.Game, obj game.Object, scope game.WriteScope, fields []string) error {
	el, err := game.ToElement(g, obj, scope, fields)
	if err != nil {
		return err
	}
	m.Add(el)
	return nil
}

// AddMessage appends another message's root as a child.
func (m *Message) AddMessage(other *Message) {
	if other != nil {
		m.Add(other.Root())
	}
}

// ClearChildren drops all of the root's children. Root attributes are
// untouched.
func (m *Message) ClearChildren() {
	if root := m.Root(); root != nil {
		root.RemoveChildren()
	}
}

// ToElement returns a detached deep copy of the root, nil for an
// empty message.
func (m *Message) ToElement() *wire.Element {
	if root := m.Root(); root != nil {
		return root.DeepCopy()
	}
	return nil
}

// String returns the network form, preamble included.
func (m *Message) String() string {
	if m == nil || m.doc == nil {
		return ""
	}
	return m.doc.String()
}

// LogForm returns the serialized root without the preamble, the form
// used in log output.
func (m *Message) LogForm() string {
	if root := m.Root(); root != nil {
		return wire.Serialize(root)
	}
	return ""
}

// WriteTo writes the network form to w.
func (m *Message) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, m.String())
	return int64(n), err
}
