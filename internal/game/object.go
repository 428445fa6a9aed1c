package game

import "github.com/peterkuimelis/terranova/internal/wire"

// Wire tags for the object kinds this package serializes.
const (
	TagGame       = "game"
	TagPlayer     = "player"
	TagTile       = "tile"
	TagUnit       = "unit"
	TagSettlement = "settlement"
	TagGoods      = "goods"
)

// Object is the capability every wire-serializable domain value
// implements. ToWire writes the fields visible to the scope;
// ToWirePartial writes identity plus the named fields only; FromWire
// populates fields from an element, substituting current values for
// anything missing or malformed, and resolves references against g
// when one is supplied.
type Object interface {
	ID() string
	Tag() string
	ToWire(scope WriteScope) *wire.Element
	ToWirePartial(scope WriteScope, fields []string) *wire.Element
	FromWire(el *wire.Element, g *Game)
}

// GameObject marks object kinds that live in the game's object table
// and are resolved by identifier when referenced from the wire.
// Kinds without table residency (goods) implement only Object and are
// rebuilt fresh each time they appear.
type GameObject interface {
	Object
	SetID(id string)
}

// KindRegistry maps wire tags to constructors for blank instances,
// used for transient construction and for rebuilding objects from the
// wire.
var KindRegistry = map[string]func() Object{
	TagGame:       func() Object { return NewGame(nil) },
	TagPlayer:     func() Object { return &Player{} },
	TagTile:       func() Object { return &Tile{} },
	TagUnit:       func() Object { return &Unit{} },
	TagSettlement: func() Object { return &Settlement{} },
	TagGoods:      func() Object { return &Goods{} },
}

// LookupKind returns a blank instance of the kind named by tag, or
// false for tags this package does not know. Unknown tags come off
// the wire, so this is a recoverable miss, not a programming error.
func LookupKind(tag string) (Object, bool) {
	ctor, ok := KindRegistry[tag]
	if !ok {
		return nil, false
	}
	return ctor(), true
}

var (
	_ GameObject = (*Game)(nil)
	_ GameObject = (*Player)(nil)
	_ GameObject = (*Tile)(nil)
	_ GameObject = (*Unit)(nil)
	_ GameObject = (*Settlement)(nil)
	_ Object     = (*Goods)(nil)
)
