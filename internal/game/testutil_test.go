package game

import (
	"testing"

	"github.com/peterkuimelis/terranova/internal/wire"
)

// newTestGame builds a small two-player session on the default
// catalog: alice (dutch) with a scout on a forest tile, bob (english)
// with a soldier on the plains beside it.
func newTestGame(t *testing.T) (*Game, *Player, *Player) {
	t.Helper()
	g := NewGame(DefaultCatalog())
	alice := g.AddPlayer("alice", NationDutch)
	bob := g.AddPlayer("bob", NationEnglish)
	forest := g.AddTile(3, 4, TerrainForest)
	plains := g.AddTile(4, 4, TerrainPlains)
	g.AddUnit(alice, "scout", forest)
	g.AddUnit(bob, "soldier", plains)
	return g, alice, bob
}

// unitOwnedBy returns the first unit owned by the named player.
func unitOwnedBy(t *testing.T, g *Game, name string) *Unit {
	t.Helper()
	for _, u := range g.Units() {
		if u.Owner != nil && u.Owner.Name == name {
			return u
		}
	}
	t.Fatalf("Test session has no unit owned by %s", name)
	return nil
}

// mustToElement renders obj under scope, failing the test on error.
func mustToElement(t *testing.T, g *Game, obj Object, scope WriteScope) *wire.Element {
	t.Helper()
	el, err := ToElement(g, obj, scope, nil)
	if err != nil {
		t.Fatalf("ToElement(%s, %s): %v", obj.Tag(), scope, err)
	}
	return el
}
