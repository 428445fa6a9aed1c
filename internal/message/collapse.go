package message

import "github.com/peterkuimelis/terranova/internal/wire"

// CollapseElements merges pending message elements into one element
// for a single transport write. Empty input collapses to nil, a
// single element passes through unchanged, and two or more wrap in a
// "multiple" envelope with every input deep-copied as a child in the
// original order.
func CollapseElements(els []*wire.Element) *wire.Element {
	switch len(els) {
	case 0:
		return nil
	case 1:
		return els[0]
	}
	envelope := wire.NewElement(TagMultiple)
	for _, el := range els {
		envelope.AppendChild(el)
	}
	return envelope
}

// Collapse merges pending messages the same way, yielding nil for an
// empty batch.
func Collapse(msgs []*Message) *Message {
	els := make([]*wire.Element, 0, len(msgs))
	for _, m := range msgs {
		if root := m.Root(); root != nil {
			els = append(els, root)
		}
	}
	switch len(els) {
	case 0:
		return nil
	case 1:
		return FromElement(els[0])
	}
	return FromElement(CollapseElements(els))
}
