package message

import (
	"github.com/peterkuimelis/terranova/internal/game"
	"github.com/peterkuimelis/terranova/internal/wire"
)

// Child resolves the direct child of el at index into a T, where T is
// one of the concrete object kinds. Table-resident kinds resolve by
// identifier against g's object table; an identifier may sit under
// the usual id keys or under an attribute named after the kind's own
// tag, which is how action messages reference their targets. When the
// table misses, a transient instance of the kind is built and
// populated from the child itself. A nil g is the bootstrap mode in
// which only a game can be built fresh.
//
// Absent children, unresolved identifiers, and kind mismatches all
// yield false, never an error: inbound payloads are arbitrary.
func Child[T game.Object](g *game.Game, el *wire.Element, index int) (T, bool) {
	var zero T
	if el == nil {
		return zero, false
	}
	child := el.ChildAt(index)
	if child == nil {
		return zero, false
	}
	kindTag := zero.Tag()

	if _, resident := any(zero).(game.GameObject); resident {
		id := child.ReadID()
		if id == "" {
			id = child.Attr(kindTag)
		}
		if g == nil {
			// Bootstrap: no table to resolve against, and only a
			// game can be rebuilt without one.
			if kindTag != game.TagGame {
				return zero, false
			}
			obj, _ := game.LookupKind(game.TagGame)
			obj.FromWire(child, nil)
			t, ok := obj.(T)
			return t, ok
		}
		if obj := g.Lookup(id); obj != nil {
			t, ok := obj.(T)
			return t, ok
		}
		obj, ok := g.NewInstance(kindTag, false)
		if !ok {
			return zero, false
		}
		obj.FromWire(child, g)
		t, okCast := obj.(T)
		return t, okCast
	}

	// Transient kind: always built fresh from the child.
	obj, ok := game.LookupKind(kindTag)
	if !ok {
		return zero, false
	}
	obj.FromWire(child, g)
	t, okCast := obj.(T)
	return t, okCast
}

// Children resolves every direct child of el that yields a T,
// preserving document order. Restartable: repeated calls walk the
// same children again.
func Children[T game.Object](g *game.Game, el *wire.Element) []T {
	if el == nil {
		return nil
	}
	var out []T
	for i := 0; i < el.ChildCount(); i++ {
		if t, ok := Child[T](g, el, i); ok {
			out = append(out, t)
		}
	}
	return out
}

// MapChildren applies fn to each direct child of el in order, keeping
// the results fn accepts.
func MapChildren[R any](el *wire.Element, fn func(*wire.Element) (R, bool)) []R {
	if el == nil {
		return nil
	}
	var out []R
	for _, child := range el.Children() {
		if r, ok := fn(child); ok {
			out = append(out, r)
		}
	}
	return out
}
