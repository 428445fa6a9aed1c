package game

import (
	"fmt"

	"github.com/peterkuimelis/terranova/internal/wire"
)

// ToElement renders obj as a detached wire element under the given
// scope. The scope is validated against the live game before any
// field is written: an unresolvable client scope yields
// ErrInvalidScope and no output at all. An empty fields slice
// requests a full write; otherwise only the named fields appear.
func ToElement(g *Game, obj Object, scope WriteScope, fields []string) (*wire.Element, error) {
	if err := scope.Validate(g); err != nil {
		return nil, err
	}
	var el *wire.Element
	if len(fields) == 0 {
		el = obj.ToWire(scope)
	} else {
		el = obj.ToWirePartial(scope, fields)
	}
	if el == nil {
		return nil, fmt.Errorf("write %s: no element produced", obj.Tag())
	}
	// Round-trip through text. The result shares no structure with
	// the object's own tree and matches what a peer would receive.
	doc, err := wire.ParseString(wire.Serialize(el))
	if err != nil {
		return nil, fmt.Errorf("write %s: %w", obj.Tag(), err)
	}
	return doc.Root(), nil
}

// ToElementFor renders obj for a particular observer, or unfiltered
// when observer is nil.
func ToElementFor(g *Game, obj Object, observer *Player) (*wire.Element, error) {
	return ToElement(g, obj, ScopeFor(observer), nil)
}

// ToDocument renders obj as a standalone document under the given
// scope, ready to be put on the wire.
func ToDocument(g *Game, obj Object, scope WriteScope) (*wire.Document, error) {
	el, err := ToElement(g, obj, scope, nil)
	if err != nil {
		return nil, err
	}
	return wire.NewDocumentFromElement(el), nil
}
