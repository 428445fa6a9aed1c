package wire

import "sync"

// Document owns exactly one root element. Fresh documents come from
// the shared builder, which stamps each with a session-unique sequence
// number for diagnostics.
type Document struct {
	root *Element
	seq  uint64
}

// documentBuilder is the process-wide document factory. The underlying
// counter is shared across all connections, so every build acquires
// the mutex for the duration of the call.
type documentBuilder struct {
	mu  sync.Mutex
	seq uint64
}

var builder documentBuilder

func (b *documentBuilder) build(root *Element) *Document {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.seq++
	return &Document{root: root, seq: b.seq}
}

// NewDocument creates a document whose root has the given tag and
// optional attribute key/value pairs.
func NewDocument(tag string, attrPairs ...string) *Document {
	return builder.build(NewElement(tag, attrPairs...))
}

// NewDocumentFromElement creates a document around root. The document
// takes ownership; callers must pass a freshly built tree and not
// retain references into it.
func NewDocumentFromElement(root *Element) *Document {
	if root == nil {
		return nil
	}
	return builder.build(root)
}

// Root returns the document's root element.
func (d *Document) Root() *Element { return d.root }

// Seq returns the builder-assigned sequence number.
func (d *Document) Seq() uint64 { return d.seq }

// Add appends a deep copy of el as the last child of the root and
// returns the copy.
func (d *Document) Add(el *Element) *Element {
	return d.root.AppendChild(el)
}

// ClearChildren removes all children of the root. Root attributes are
// untouched.
func (d *Document) ClearChildren() {
	d.root.RemoveChildren()
}

// String returns the full network text form: preamble plus serialized
// root. Use Root().String() for the preamble-free log form.
func (d *Document) String() string {
	return Preamble + Serialize(d.root)
}
