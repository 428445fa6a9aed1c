package message

import (
	"testing"

	"github.com/peterkuimelis/terranova/internal/game"
	"github.com/peterkuimelis/terranova/internal/wire"
	"github.com/stretchr/testify/require"
)

// newTestSession builds a small two-player session: alice (dutch)
// with a scout on a forest tile, bob (english) with a soldier beside
// it.
func newTestSession(t *testing.T) (*game.Game, *game.Player, *game.Player) {
	t.Helper()
	g := game.NewGame(game.DefaultCatalog())
	alice := g.AddPlayer("alice", game.NationDutch)
	bob := g.AddPlayer("bob", game.NationEnglish)
	forest := g.AddTile(3, 4, game.TerrainForest)
	plains := g.AddTile(4, 4, game.TerrainPlains)
	g.AddUnit(alice, "scout", forest)
	g.AddUnit(bob, "soldier", plains)
	return g, alice, bob
}

// unitOf returns the first unit owned by the named player.
func unitOf(t *testing.T, g *game.Game, name string) *game.Unit {
	t.Helper()
	for _, u := range g.Units() {
		if u.Owner != nil && u.Owner.Name == name {
			return u
		}
	}
	t.Fatalf("no unit owned by %s", name)
	return nil
}

// mustParse parses the text form of one element.
func mustParse(t *testing.T, text string) *wire.Element {
	t.Helper()
	doc, err := wire.ParseString(text)
	require.NoError(t, err)
	return doc.Root()
}
